package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// output writes either JSON or text depending on --format.
type output struct {
	format string
	w      io.Writer
}

func newOutput(opts *RootOptions, cmd *cobra.Command) *output {
	return &output{format: opts.Format, w: cmd.OutOrStdout()}
}

// result writes v as indented JSON, or the formatted text.
func (o *output) result(v interface{}, text string, args ...interface{}) error {
	if o.format == "json" {
		enc := json.NewEncoder(o.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintf(o.w, text, args...)
	return err
}

func (o *output) json() bool {
	return o.format == "json"
}
