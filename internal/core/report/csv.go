package report

import (
	"fmt"
	"io"
	"time"
)

const (
	summaryHeader = "Summary Table Title,Category,0 Days,1 Days,2 Days,3 Days,4+ Days,Duration,Frontal,Temporal,< 3 Collected"
	allTimeTitle  = "All FUP3 Collections Summary"
	inDepthHeader = "Section Header,Weston ID,Jpg Path,Start Date,Problem"
	numDaysHeader = "WestonID,Days of good data,Total collections recorded (> 30 mins)"

	monthLabelLong  = "January 2006"
	monthLabelShort = "Jan 06"
	monthFileLabel  = "January_2006"
)

// SummaryFileName names the summary csv for a report month.
func SummaryFileName(month time.Time) string {
	return fmt.Sprintf("QualityReport_%s.csv", month.Format(monthFileLabel))
}

// InDepthFileName names the in-depth csv for one site and month.
func InDepthFileName(site string, month time.Time) string {
	return fmt.Sprintf("InDepthQualityReport_%s_%s.csv", site, month.Format(monthFileLabel))
}

// NumDaysFileName names the number-of-days csv for the day it was generated.
func NumDaysFileName(day time.Time) string {
	return fmt.Sprintf("MuseNumberOfDaysByWestonId_%s.csv", day.Format("2006_01_02"))
}

// WriteSummary renders the three summary tables. The all-time table carries
// its title on the first row only, the by-month table labels the first row of
// each month, and the by-site table labels each site's most recent row.
func WriteSummary(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintln(w, summaryHeader); err != nil {
		return err
	}
	if err := writeAllTimeTable(w, s); err != nil {
		return err
	}
	if err := writeByMonthTable(w, s); err != nil {
		return err
	}
	return writeBySiteTable(w, s)
}

func writeAllTimeTable(w io.Writer, s Summary) error {
	title := allTimeTitle
	for _, site := range s.Sites() {
		b := s.AllTime(site)
		if err := writeSummaryRow(w, title, site, &b); err != nil {
			return err
		}
		title = ""
	}
	return nil
}

func writeByMonthTable(w io.Writer, s Summary) error {
	for _, month := range s.MonthsDescending() {
		title := month.Format(monthLabelLong)
		for _, site := range s.Sites() {
			b := s.Bucket(site, month)
			if b == nil {
				continue
			}
			if err := writeSummaryRow(w, title, site, b); err != nil {
				return err
			}
			title = ""
		}
	}
	return nil
}

func writeBySiteTable(w io.Writer, s Summary) error {
	for _, site := range s.Sites() {
		title := site
		for _, month := range s.SiteMonthsDescending(site) {
			b := s.Bucket(site, month)
			if err := writeSummaryRow(w, title, month.Format(monthLabelShort), b); err != nil {
				return err
			}
			title = ""
		}
	}
	return nil
}

func writeSummaryRow(w io.Writer, title, category string, b *SummaryBucket) error {
	_, err := fmt.Fprintf(w, "%s,%s,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
		title, category, b.Days0, b.Days1, b.Days2, b.Days3, b.Days4Plus,
		b.DurationIssues, b.FrontalIssues, b.TemporalIssues, b.LowFiles)
	return err
}

// WriteInDepth renders the per-site-per-month detail listing. Participants
// with problems come first, except that participants whose only problem is
// having fewer than three collections get their own middle section.
func WriteInDepth(w io.Writer, participants []ParticipantCollections) error {
	if _, err := fmt.Fprintln(w, inDepthHeader); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Problems"); err != nil {
		return err
	}
	var lowOnly []ParticipantCollections
	for _, p := range participants {
		if !p.HasAnyProblem() {
			continue
		}
		if p.LowFileCount() && !p.HasDataProblem() {
			lowOnly = append(lowOnly, p)
			continue
		}
		if err := writeInDepthRows(w, p); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "Problems: Less than 3 data collections"); err != nil {
		return err
	}
	for _, p := range lowOnly {
		if err := writeInDepthRows(w, p); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "Good collections"); err != nil {
		return err
	}
	for _, p := range participants {
		if p.HasAnyProblem() {
			continue
		}
		if err := writeInDepthRows(w, p); err != nil {
			return err
		}
	}
	return nil
}

func writeInDepthRows(w io.Writer, p ParticipantCollections) error {
	for _, r := range p.Rows {
		_, err := fmt.Fprintf(w, ",%s,%s,%s,%s\n",
			p.WestonID, r.JpgPath, r.StartTime.Format(time.DateTime), r.ProblemsString())
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteNumDays renders the per-participant good collection counts.
func WriteNumDays(w io.Writer, participants []ParticipantCollections) error {
	if _, err := fmt.Fprintln(w, numDaysHeader); err != nil {
		return err
	}
	for _, p := range participants {
		_, err := fmt.Fprintf(w, "%s,%d,%d\n", p.WestonID, p.GoodCollections(), len(p.Rows))
		if err != nil {
			return err
		}
	}
	return nil
}

// ParticipantsBySiteMonth buckets participants for the in-depth reports.
// Participants with questionable dates are dropped.
func ParticipantsBySiteMonth(participants []ParticipantCollections) map[string]map[time.Time][]ParticipantCollections {
	out := make(map[string]map[time.Time][]ParticipantCollections)
	for _, p := range participants {
		month, ok := p.CollectionMonth()
		if !ok {
			continue
		}
		sm, ok := out[p.Site]
		if !ok {
			sm = make(map[time.Time][]ParticipantCollections)
			out[p.Site] = sm
		}
		sm[month] = append(sm[month], p)
	}
	return out
}
