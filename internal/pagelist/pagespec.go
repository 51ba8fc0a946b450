package pagelist

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParsePageSpec parses a one-based page specification like "1,3-5,9" against
// a document with total pages. It returns the matching zero-based indices in
// ascending order with duplicates removed.
func ParsePageSpec(spec string, total int) ([]int, error) {
	seen := make(map[int]struct{})
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("page spec %q: empty element", spec)
		}

		lo, hi := part, part
		if dash := strings.Index(part, "-"); dash >= 0 {
			lo, hi = part[:dash], part[dash+1:]
		}

		start, err := parsePageNumber(lo, total)
		if err != nil {
			return nil, fmt.Errorf("page spec %q: %w", spec, err)
		}
		end := start
		if hi != lo {
			end, err = parsePageNumber(hi, total)
			if err != nil {
				return nil, fmt.Errorf("page spec %q: %w", spec, err)
			}
		}
		if end < start {
			return nil, fmt.Errorf("page spec %q: range %s is inverted", spec, part)
		}

		for p := start; p <= end; p++ {
			seen[p-1] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out, nil
}

func parsePageNumber(s string, total int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a page number", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("page %d out of range (pages start at 1)", n)
	}
	if n > total {
		return 0, fmt.Errorf("page %d out of range (document has %d pages)", n, total)
	}
	return n, nil
}
