package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/learllr/osteolog/database"
	"github.com/learllr/osteolog/search"
	"github.com/spf13/cobra"
)

// NewPatientsCommand creates the patients command group.
func NewPatientsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Query a practitioner's patients",
	}
	cmd.AddCommand(newPatientsSearchCommand(rootOpts))
	return cmd
}

func newPatientsSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search patients by name, birth date or age",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return &ExitError{Code: 2, Message: "--user is required"}
			}

			store, err := openStore(cmd.Context(), loadConfig(rootOpts))
			if err != nil {
				return err
			}
			defer store.Close()

			user, err := store.UserByEmail(cmd.Context(), strings.ToLower(email))
			if errors.Is(err, database.ErrNotFound) {
				return &ExitError{Code: 1, Message: fmt.Sprintf("no user with email %s", email)}
			}
			if err != nil {
				return err
			}

			patients, err := store.PatientsByUser(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			now := time.Now()
			matches := search.Patients(patients, args[0], now)

			out := newOutput(rootOpts, cmd)
			if out.json() {
				return out.result(matches, "")
			}
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Aucun patient trouvé")
				return nil
			}
			for _, p := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s %s - %s (%d)\n", p.ID,
					search.FormatFirstName(p.FirstName), search.FormatLastName(p.LastName),
					p.BirthDate.Display(), p.BirthDate.AgeAt(now))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "user", "", "practitioner email owning the patients")
	return cmd
}
