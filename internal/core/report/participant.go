package report

import (
	"sort"
	"time"
)

// maxCollectionGapDays is the widest spread between consecutive collections
// that still lets us trust the participant's recorded dates. A larger gap
// usually means the headband clock was wrong for part of the study.
const maxCollectionGapDays = 10

// ParticipantCollections holds every reported collection for one participant,
// ordered by start time ascending.
type ParticipantCollections struct {
	WestonID string
	Site     string
	Rows     []Row
}

// GroupByParticipant buckets rows per weston ID and sorts each participant's
// collections chronologically. Participants come back sorted by weston ID so
// downstream output is deterministic.
func GroupByParticipant(rows []Row) []ParticipantCollections {
	byID := make(map[string]*ParticipantCollections)
	for _, r := range rows {
		pc, ok := byID[r.WestonID]
		if !ok {
			pc = &ParticipantCollections{WestonID: r.WestonID, Site: r.Site}
			byID[r.WestonID] = pc
		}
		pc.Rows = append(pc.Rows, r)
	}

	out := make([]ParticipantCollections, 0, len(byID))
	for _, pc := range byID {
		sort.Slice(pc.Rows, func(i, j int) bool {
			return pc.Rows[i].StartTime.Before(pc.Rows[j].StartTime)
		})
		out = append(out, *pc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WestonID < out[j].WestonID
	})
	return out
}

// HasQuestionableDates reports whether any two consecutive collections are
// more than maxCollectionGapDays apart, or the participant has no
// collections at all.
func (p ParticipantCollections) HasQuestionableDates() bool {
	if len(p.Rows) == 0 {
		return true
	}
	for i := 1; i < len(p.Rows); i++ {
		if p.Rows[i].StartTime.Sub(p.Rows[i-1].StartTime) > maxCollectionGapDays*24*time.Hour {
			return true
		}
	}
	return false
}

// CollectionMonth returns the month the participant's collections belong to,
// taken from the last collection. ok is false when the dates are
// questionable, in which case the participant is left out of month-bucketed
// output entirely.
func (p ParticipantCollections) CollectionMonth() (month time.Time, ok bool) {
	if p.HasQuestionableDates() {
		return time.Time{}, false
	}
	last := p.Rows[len(p.Rows)-1].StartTime
	return time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC), true
}

// GoodCollections counts collections with neither a duration nor a quality
// problem.
func (p ParticipantCollections) GoodCollections() int {
	n := 0
	for _, r := range p.Rows {
		if r.Good() {
			n++
		}
	}
	return n
}

// DurationIssues counts collections that fell short of a good night.
func (p ParticipantCollections) DurationIssues() int {
	n := 0
	for _, r := range p.Rows {
		if r.DurationProblem() {
			n++
		}
	}
	return n
}

// FrontalIssues counts collections with a frontal signal problem.
func (p ParticipantCollections) FrontalIssues() int {
	n := 0
	for _, r := range p.Rows {
		if r.FrontalProblem() {
			n++
		}
	}
	return n
}

// TemporalIssues counts collections with a temporal signal problem.
func (p ParticipantCollections) TemporalIssues() int {
	n := 0
	for _, r := range p.Rows {
		if r.TemporalProblem() {
			n++
		}
	}
	return n
}

// HasDataProblem reports whether the participant has a collection-level
// problem worth flagging. Individual bad collections stop mattering once
// three good ones were recorded.
func (p ParticipantCollections) HasDataProblem() bool {
	if p.GoodCollections() >= 3 {
		return false
	}
	for _, r := range p.Rows {
		if r.DurationProblem() || r.QualityProblem() {
			return true
		}
	}
	return false
}

// LowFileCount reports whether fewer than three collections were uploaded at
// all.
func (p ParticipantCollections) LowFileCount() bool {
	return len(p.Rows) < 3
}

// HasAnyProblem reports whether the participant lands in the problem section
// of the in-depth report.
func (p ParticipantCollections) HasAnyProblem() bool {
	return p.HasDataProblem() || p.LowFileCount()
}
