package oov

// CappedDistance computes the Levenshtein distance between a and b over
// runes. Once every value of a row exceeds limit the computation stops and
// limit+1 is returned, so any distance above limit is reported as limit+1.
// A negative limit disables the cap
func CappedDistance(a, b string, limit int) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	capped := func(d int) int {
		if limit >= 0 && d > limit {
			return limit + 1
		}
		return d
	}
	if len(rb) == 0 {
		return capped(len(ra))
	}

	// Use single-row DP to save memory.
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, t := range ra {
		cur[0] = i + 1
		rowMin := cur[0]
		for j, u := range rb {
			cost := 1
			if t == u {
				cost = 0
			}
			m := prev[j+1] + 1 // insertion
			if del := cur[j] + 1; del < m {
				m = del
			}
			if sub := prev[j] + cost; sub < m {
				m = sub
			}
			cur[j+1] = m
			if m < rowMin {
				rowMin = m
			}
		}
		if limit >= 0 && rowMin > limit {
			return limit + 1
		}
		prev, cur = cur, prev
	}
	return capped(prev[len(rb)])
}
