package core

// Majority returns the most frequent value. Ties go to the smallest value.
// ok is false when values is empty.
func Majority(values []uint8) (class uint8, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	var counts [256]int
	for _, v := range values {
		counts[v]++
	}
	best := 0
	for c := 1; c < len(counts); c++ {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return uint8(best), true
}

// maskedMajority returns the majority of context values at positions where mask is true.
func maskedMajority(context []uint8, mask func(i int) bool) (uint8, bool) {
	picked := make([]uint8, 0, len(context))
	for i, c := range context {
		if mask(i) {
			picked = append(picked, c)
		}
	}
	return Majority(picked)
}
