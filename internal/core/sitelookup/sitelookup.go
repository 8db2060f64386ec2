// Package sitelookup parses the participant site lookup table, a two column
// csv mapping weston IDs to the collection site they attend. Site names
// arrive in long form ("Calgary DCS") and are stored in the three letter
// short form used by reports.
package sitelookup

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
)

// Header is the exact first line the lookup csv must carry.
const Header = "Weston ID,Site"

// shortForms maps the long site names from the lookup table to report short
// forms.
var shortForms = map[string]string{
	"Calgary DCS":          "Cal",
	"Dalhousie DCS":        "Dal",
	"Hamilton DCS":         "Ham",
	"Manitoba DCS":         "Man",
	"McGill DCS":           "McG",
	"Memorial DCS":         "Mem",
	"Ottawa DCS":           "Ott",
	"Sherbrooke":           "She",
	"Simon Fraser DCS":     "SFU",
	"University of BC DCS": "UBC",
	"Victoria DCS":         "Vic",
}

// Entry is one row of the lookup table with the site already shortened.
type Entry struct {
	WestonID string
	Site     string
}

// ShortForm converts a long form site name to its short form.
func ShortForm(long string) (string, bool) {
	short, ok := shortForms[long]
	return short, ok
}

// IsWestonID reports whether s looks like a weston ID: the ww prefix in any
// case followed by exactly eight digits.
func IsWestonID(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 10 || !strings.HasPrefix(s, "ww") {
		return false
	}
	for _, c := range s[2:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Parse reads the lookup csv. The header must match exactly. Rows that fail
// validation are logged and skipped so one bad row does not lose the rest of
// the table. Weston IDs come back lower cased.
func Parse(r io.Reader, logger *log.Logger) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading lookup table header: %w", err)
		}
		return nil, fmt.Errorf("lookup table is empty")
	}
	if header := strings.TrimSpace(sc.Text()); header != Header {
		return nil, fmt.Errorf("unexpected lookup table header %q, want %q", header, Header)
	}

	var entries []Entry
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			logger.Printf("WARN: skipping malformed lookup table line: %q", line)
			continue
		}
		westonID := strings.TrimSpace(parts[0])
		if !IsWestonID(westonID) {
			logger.Printf("WARN: skipping lookup table row with invalid weston id %q", westonID)
			continue
		}
		short, ok := ShortForm(strings.TrimSpace(parts[1]))
		if !ok {
			logger.Printf("WARN: unknown site %q for weston id %s", parts[1], westonID)
			continue
		}
		entries = append(entries, Entry{WestonID: strings.ToLower(westonID), Site: short})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading lookup table: %w", err)
	}
	return entries, nil
}
