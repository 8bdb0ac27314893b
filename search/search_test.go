package search

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/learllr/osteolog/models"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func samplePatients() []models.Patient {
	return []models.Patient{
		{ID: 1, FirstName: "Léa", LastName: "Martin", Gender: "Femme", BirthDate: models.NewDate(1990, time.March, 14)},
		{ID: 2, FirstName: "Hugo", LastName: "Albert", Gender: "Homme", BirthDate: models.NewDate(1985, time.November, 2)},
		{ID: 3, FirstName: "Zoé", LastName: "Bernard", Gender: "Femme", BirthDate: models.NewDate(2012, time.June, 20)},
		{ID: 4, FirstName: "ÉLODIE", LastName: "dupont", Gender: "Femme", BirthDate: models.NewDate(1975, time.June, 15)},
	}
}

func ids(list []models.Patient) []int {
	out := []int{}
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func TestPatients(t *testing.T) {
	tests := []struct {
		query string
		want  []int
	}{
		{"", []int{1, 2, 3, 4}},
		{"mar", []int{1}},
		{"LÉA", []int{1}},
		{"élodie", []int{4}},
		{"léa martin", []int{1}},
		{"1985", []int{2}},
		{"/06/", []int{3, 4}},
		{"35", []int{1}},
		{"12", []int{3}},
		{"50", []int{4}},
		{"xyz", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Patients(samplePatients(), tt.query, now)))
		})
	}
}

func TestConsultations(t *testing.T) {
	list := []models.Consultation{
		{ID: 1, Date: models.NewDate(2025, time.January, 8)},
		{ID: 2, Date: models.NewDate(2025, time.February, 15)},
		{ID: 3, Date: models.NewDate(2024, time.December, 8)},
	}
	pick := func(query string) []int {
		out := []int{}
		for _, c := range Consultations(list, query) {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []int{1, 2, 3}, pick(""))
	assert.Equal(t, []int{1, 3}, pick("08"))
	assert.Equal(t, []int{2}, pick("/02/"))
	assert.Equal(t, []int{3}, pick("2024"))
	assert.Equal(t, "<mark>08</mark>/01/2025", RenderConsultation(list[0], "08"))
}

func TestSplitAppointments(t *testing.T) {
	list := []models.Appointment{
		{ID: 1, Start: now.Add(-48 * time.Hour)},
		{ID: 2, Start: now.Add(-time.Hour)},
		{ID: 3, Start: now},
		{ID: 4, Start: now.Add(time.Hour)},
		{ID: 5, Start: now.Add(72 * time.Hour)},
	}

	upcoming, past := SplitAppointments(list, now)

	var up, down []int
	for _, a := range upcoming {
		up = append(up, a.ID)
	}
	for _, a := range past {
		down = append(down, a.ID)
	}
	assert.Equal(t, []int{4, 5}, up)
	assert.Equal(t, []int{3, 2, 1}, down)
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		text, query, want string
	}{
		{"Léa", "lé", "<mark>Lé</mark>a"},
		{"MARTIN", "ar", "M<mark>AR</mark>TIN"},
		{"banana", "an", "b<mark>an</mark><mark>an</mark>a"},
		{"ÉCOLE", "éc", "<mark>ÉC</mark>OLE"},
		{"<b>", "b", "&lt;<mark>b</mark>&gt;"},
		{"Ana", "", "Ana"},
		{"Ana", "z", "Ana"},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.query))
		})
	}
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, "Jean-Pierre", FormatFirstName("jean-pierre"))
	assert.Equal(t, "Élodie", FormatFirstName("ÉLODIE"))
	assert.Equal(t, "DUPONT", FormatLastName("dupont"))
}

func TestRender_Golden(t *testing.T) {
	var buf bytes.Buffer
	for i, query := range []string{"ar", "19"} {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "query %q\n", query)
		for _, p := range Patients(samplePatients(), query, now) {
			buf.WriteString(Render(p, query, now) + "\n")
		}
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "patient_dropdown", buf.Bytes())
}
