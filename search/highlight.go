package search

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/learllr/osteolog/models"
	"golang.org/x/text/unicode/norm"
)

// Highlight HTML-escapes text and wraps every caseless occurrence of query
// in <mark></mark>. Matches never overlap and always cover whole characters.
func Highlight(text, query string) string {
	text = norm.NFC.String(text)
	q := fold(query)
	if q == "" {
		return html.EscapeString(text)
	}

	// Fold rune by rune so a match in folded space maps back to runes.
	runes := []rune(text)
	var folded strings.Builder
	starts := make([]int, len(runes)+1)
	for i, r := range runes {
		starts[i] = folded.Len()
		folded.WriteString(folder.String(string(r)))
	}
	starts[len(runes)] = folded.Len()
	haystack := folded.String()

	runeAt := make(map[int]int, len(starts))
	for i, off := range starts {
		if _, seen := runeAt[off]; !seen {
			runeAt[off] = i
		}
	}

	var out strings.Builder
	last := 0
	for offset := 0; offset < len(haystack); {
		idx := strings.Index(haystack[offset:], q)
		if idx < 0 {
			break
		}
		begin, end := offset+idx, offset+idx+len(q)
		from, okFrom := runeAt[begin]
		to, okTo := runeAt[end]
		if !okFrom || !okTo {
			offset = begin + 1
			continue
		}
		out.WriteString(html.EscapeString(string(runes[last:from])))
		out.WriteString("<mark>")
		out.WriteString(html.EscapeString(string(runes[from:to])))
		out.WriteString("</mark>")
		last = to
		offset = end
	}
	out.WriteString(html.EscapeString(string(runes[last:])))
	return out.String()
}

// Render is the search dropdown line for p:
// "Firstname LASTNAME - DD/MM/YYYY (age)", each part highlighted.
func Render(p models.Patient, query string, now time.Time) string {
	return Highlight(FormatFirstName(p.FirstName), query) + " " +
		Highlight(FormatLastName(p.LastName), query) + " - " +
		Highlight(p.BirthDate.Display(), query) + " (" +
		Highlight(strconv.Itoa(p.BirthDate.AgeAt(now)), query) + ")"
}

// RenderConsultation is the consultation list line: its highlighted date.
func RenderConsultation(c models.Consultation, query string) string {
	return Highlight(c.Date.Display(), query)
}
