// Package selection decides which discovered recordings qualify for
// download in the current cycle. Filtering and ordering are pure; the
// durable insert-if-absent step belongs to the pipeline service.
package selection

import (
	"sort"

	"github.com/example/museqc/internal/core/recording"
)

// Config holds the selection policy knobs.
type Config struct {
	// RequiredIDPrefix is the two-letter site-class prefix a participant id
	// must carry, e.g. "ww". Empty disables the check.
	RequiredIDPrefix string

	// MinSize is the smallest object size, in bytes, treated as a real
	// collection. Smaller objects are device self-tests, not data.
	MinSize int64
}

// Pool is the ordered set of candidates surviving the selection filters.
// Batches taken from the pool shrink it, so successive batches within one
// run converge against the same candidate set.
type Pool struct {
	items []recording.Descriptor
}

// NewPool filters the candidate list and orders the survivors
// oldest-upload-first. Candidates are dropped when they are incomplete,
// carry the wrong id prefix, are below the size threshold, or resolve to a
// natural key that is already processed or already represented by an
// earlier-uploaded candidate.
func NewPool(candidates []recording.Descriptor, processed map[recording.Key]bool, cfg Config) *Pool {
	var kept []recording.Descriptor
	for _, d := range candidates {
		if !d.Complete() {
			continue
		}
		if cfg.RequiredIDPrefix != "" && !d.HasIDPrefix(cfg.RequiredIDPrefix) {
			continue
		}
		if d.Size < cfg.MinSize {
			continue
		}
		if processed[d.Key()] {
			continue
		}
		kept = append(kept, d)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if !kept[i].UploadTime.Equal(kept[j].UploadTime) {
			return kept[i].UploadTime.Before(kept[j].UploadTime)
		}
		return kept[i].Path < kept[j].Path
	})

	// Dedup by natural key after ordering so the first-seen (oldest upload)
	// descriptor wins.
	seen := make(map[recording.Key]bool, len(kept))
	deduped := kept[:0]
	for _, d := range kept {
		k := d.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, d)
	}

	return &Pool{items: deduped}
}

// Len returns the number of candidates remaining.
func (p *Pool) Len() int {
	return len(p.items)
}

// Take removes and returns up to n of the oldest candidates.
func (p *Pool) Take(n int) []recording.Descriptor {
	if n <= 0 || len(p.items) == 0 {
		return nil
	}
	if n > len(p.items) {
		n = len(p.items)
	}
	batch := p.items[:n]
	p.items = p.items[n:]
	return batch
}
