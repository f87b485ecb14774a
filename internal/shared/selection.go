package shared

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var selectionPattern = regexp.MustCompile(`^[\d,\-\s]+$`)

// ParseSelection parses a selection expression into sorted, deduplicated
// 1-based indices.
//
// Supported forms:
//
//	"3"        -> [3]
//	"1,3,5"    -> [1,3,5]
//	"1-5"      -> [1,2,3,4,5]
//	"1,3-5,8"  -> [1,3,4,5,8]
//	"all", "*" -> [1..max]
//
// The second return value is false when the input is not a selection at all
// (so the caller can treat it as a search query instead). Reversed ranges
// and malformed integers reject the whole expression. Range ends are
// clamped to max so an absurd range cannot allocate unbounded indices;
// individual out-of-range indices are left for the caller to report.
func ParseSelection(input string, max int) ([]int, bool) {
	input = strings.ToLower(strings.TrimSpace(input))

	if input == "all" || input == "*" {
		indices := make([]int, 0, max)
		for i := 1; i <= max; i++ {
			indices = append(indices, i)
		}
		return indices, true
	}

	if !selectionPattern.MatchString(input) {
		return nil, false
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if strings.Contains(part, "-") {
			rangeParts := strings.SplitN(part, "-", 2)
			start, err := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
			if err != nil {
				return nil, false
			}
			end, err := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
			if err != nil {
				return nil, false
			}
			if start > end {
				return nil, false
			}
			// Ranges never expand past max. A range that starts beyond max
			// collapses to its start so the caller's bounds check reports it.
			if end > max {
				if start > max {
					seen[start] = true
					continue
				}
				end = max
			}
			for i := start; i <= end; i++ {
				seen[i] = true
			}
		} else {
			num, err := strconv.Atoi(part)
			if err != nil {
				return nil, false
			}
			seen[num] = true
		}
	}

	indices := make([]int, 0, len(seen))
	for i := range seen {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices, true
}
