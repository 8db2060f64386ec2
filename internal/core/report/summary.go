package report

import (
	"sort"
	"time"
)

// SummaryBucket tallies one site and month cell of the summary report.
type SummaryBucket struct {
	Days0          int
	Days1          int
	Days2          int
	Days3          int
	Days4Plus      int
	DurationIssues int
	FrontalIssues  int
	TemporalIssues int
	LowFiles       int
}

// Add folds one participant into the bucket. The day buckets count
// participants by how many good collections they recorded. The issue columns
// count individual bad collections, not participants.
func (b *SummaryBucket) Add(p ParticipantCollections) {
	switch n := p.GoodCollections(); {
	case n >= 4:
		b.Days4Plus++
	case n == 3:
		b.Days3++
	case n == 2:
		b.Days2++
	case n == 1:
		b.Days1++
	default:
		b.Days0++
	}
	b.DurationIssues += p.DurationIssues()
	b.FrontalIssues += p.FrontalIssues()
	b.TemporalIssues += p.TemporalIssues()
	if p.LowFileCount() {
		b.LowFiles++
	}
}

func (b *SummaryBucket) merge(o *SummaryBucket) {
	b.Days0 += o.Days0
	b.Days1 += o.Days1
	b.Days2 += o.Days2
	b.Days3 += o.Days3
	b.Days4Plus += o.Days4Plus
	b.DurationIssues += o.DurationIssues
	b.FrontalIssues += o.FrontalIssues
	b.TemporalIssues += o.TemporalIssues
	b.LowFiles += o.LowFiles
}

// Summary is the site-by-month aggregation backing the summary report.
type Summary struct {
	buckets map[string]map[time.Time]*SummaryBucket
}

// Summarize aggregates participants into site and month buckets. Participants
// whose collection month is questionable or not before cutoff are counted
// nowhere. cutoff is normally the first day of the current month, so the
// report covers only completed months.
func Summarize(participants []ParticipantCollections, cutoff time.Time) Summary {
	s := Summary{buckets: make(map[string]map[time.Time]*SummaryBucket)}
	for _, p := range participants {
		month, ok := p.CollectionMonth()
		if !ok || !month.Before(cutoff) {
			continue
		}
		sm, ok := s.buckets[p.Site]
		if !ok {
			sm = make(map[time.Time]*SummaryBucket)
			s.buckets[p.Site] = sm
		}
		b, ok := sm[month]
		if !ok {
			b = &SummaryBucket{}
			sm[month] = b
		}
		b.Add(p)
	}
	return s
}

// Sites lists site names present in the summary in ascending order.
func (s Summary) Sites() []string {
	sites := make([]string, 0, len(s.buckets))
	for site := range s.buckets {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}

// MonthsDescending lists every month with data across all sites, most recent
// first.
func (s Summary) MonthsDescending() []time.Time {
	seen := make(map[time.Time]bool)
	var months []time.Time
	for _, sm := range s.buckets {
		for month := range sm {
			if !seen[month] {
				seen[month] = true
				months = append(months, month)
			}
		}
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].After(months[j])
	})
	return months
}

// SiteMonthsDescending lists the months with data for one site, most recent
// first.
func (s Summary) SiteMonthsDescending(site string) []time.Time {
	months := make([]time.Time, 0, len(s.buckets[site]))
	for month := range s.buckets[site] {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].After(months[j])
	})
	return months
}

// Bucket returns the bucket for a site and month, or nil when empty.
func (s Summary) Bucket(site string, month time.Time) *SummaryBucket {
	return s.buckets[site][month]
}

// AllTime sums every month of one site into a single bucket.
func (s Summary) AllTime(site string) SummaryBucket {
	var total SummaryBucket
	for _, b := range s.buckets[site] {
		total.merge(b)
	}
	return total
}
