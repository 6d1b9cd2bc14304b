package capability

import (
	"sort"
	"strings"
)

// Similarity scores how close two strings are, for "did you mean"
// suggestions. Deliberately cheap: it only needs to rank a small, known
// candidate set, not guarantee optimal alignment.
//
//	exact match                      → 1.0
//	one a substring of the other     → 0.8 (0.7 case-insensitive)
//	otherwise                        → shared prefix length / longer length
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a != "" && b != "" {
		if strings.Contains(a, b) || strings.Contains(b, a) {
			return 0.8
		}
		la, lb := strings.ToLower(a), strings.ToLower(b)
		if strings.Contains(la, lb) || strings.Contains(lb, la) {
			return 0.7
		}
	}

	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 0.0
	}

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	return float64(prefix) / float64(longer)
}

// suggestion pairs a candidate string with its similarity score.
type suggestion struct {
	value string
	score float64
}

// topSuggestions ranks candidates by similarity to target and returns up to
// limit values meeting threshold, best first. The threshold is inclusive:
// a one-transposition typo like "memroy" scores exactly 0.5 against
// "memory" and must still surface. Ties break alphabetically so
// diagnostics are stable.
func topSuggestions(target string, candidates []string, threshold float64, limit int) []string {
	scored := make([]suggestion, 0, len(candidates))
	for _, c := range candidates {
		if s := Similarity(target, c); s >= threshold {
			scored = append(scored, suggestion{value: c, score: s})
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].value < scored[j].value
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.value
	}
	return out
}
