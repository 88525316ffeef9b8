package grouping

import (
	"strings"

	"github.com/thebtf/collate/pkg/models"
)

// DefaultThreshold is the similarity score two normalized answers must
// reach to share a group when no explicit threshold is configured.
const DefaultThreshold = 85

// Clusterer groups raw answers into canonical groups using greedy
// single-pass clustering: the chronologically-first unassigned answer
// seeds a group with its normalized form as the canonical name, and
// every later unassigned answer scoring at or above the threshold
// against that seed joins it. Assignment is final; the algorithm never
// re-scores grouped answers. The result is deterministic for a given
// input order and order-dependent on purpose: reordering the input can
// change the grouping.
type Clusterer struct {
	normalizer *Normalizer
	threshold  int
}

// NewClusterer creates a Clusterer. The threshold is clamped to [0,100].
func NewClusterer(normalizer *Normalizer, threshold int) *Clusterer {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 100 {
		threshold = 100
	}
	return &Clusterer{normalizer: normalizer, threshold: threshold}
}

// Threshold returns the effective similarity threshold.
func (c *Clusterer) Threshold() int {
	return c.threshold
}

// candidate pairs a surviving raw answer with its normalized form,
// preserving original input order.
type candidate struct {
	original   string
	normalized string
}

// Cluster groups rawAnswers and reports how many entries were skipped
// before clustering (blank answers and answers that normalize to
// nothing). Skipped entries are not errors; they simply never reach a
// group. Identical normalized forms always land in the same group, so
// canonical names are unique across the returned groups.
func (c *Clusterer) Cluster(rawAnswers []string) ([]models.Group, int) {
	// Filter and normalize up front, keeping (original, normalized)
	// pairs in input order
	candidates := make([]candidate, 0, len(rawAnswers))
	skipped := 0
	for _, raw := range rawAnswers {
		if strings.TrimSpace(raw) == "" {
			skipped++
			continue
		}
		normalized := c.normalizer.Normalize(raw)
		if normalized == "" {
			skipped++
			continue
		}
		candidates = append(candidates, candidate{original: raw, normalized: normalized})
	}

	groups := make([]models.Group, 0)
	pending := newUnassignedSet(len(candidates))

	for i := 0; i < len(candidates) && pending.size() > 0; i++ {
		if !pending.contains(i) {
			continue
		}
		pending.remove(i)

		// The first unassigned answer seeds the group and names it
		group := models.Group{
			CanonicalName: candidates[i].normalized,
			RawAnswers:    []string{candidates[i].original},
		}

		for j := i + 1; j < len(candidates); j++ {
			if !pending.contains(j) {
				continue
			}
			if Score(candidates[i].normalized, candidates[j].normalized) >= c.threshold {
				group.RawAnswers = append(group.RawAnswers, candidates[j].original)
				pending.remove(j)
			}
		}

		group.Count = len(group.RawAnswers)
		groups = append(groups, group)
	}

	return groups, skipped
}

// unassignedSet tracks which candidate positions have not yet been
// placed into a group. The Clusterer owns it for the duration of one
// run and consumes it to emptiness.
type unassignedSet struct {
	assigned []bool
	left     int
}

func newUnassignedSet(n int) *unassignedSet {
	return &unassignedSet{assigned: make([]bool, n), left: n}
}

// contains reports whether position i is still unassigned.
func (s *unassignedSet) contains(i int) bool {
	return !s.assigned[i]
}

// remove marks position i as assigned.
func (s *unassignedSet) remove(i int) {
	if !s.assigned[i] {
		s.assigned[i] = true
		s.left--
	}
}

// size returns the number of positions still unassigned.
func (s *unassignedSet) size() int {
	return s.left
}
