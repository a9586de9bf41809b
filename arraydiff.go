package grove

import mapset "github.com/deckarep/golang-set/v2"

// arrayDifference splits two lists into the elements only in before, only in
// after, and in both. beforeOnly keeps before's order; afterOnly and inBoth
// keep after's order. Elements are assumed unique within each list.
func arrayDifference[T comparable](before, after []T) (beforeOnly, afterOnly, inBoth []T) {
	inBefore := mapset.NewThreadUnsafeSet(before...)
	inAfter := mapset.NewThreadUnsafeSet(after...)
	for _, v := range before {
		if !inAfter.Contains(v) {
			beforeOnly = append(beforeOnly, v)
		}
	}
	for _, v := range after {
		if inBefore.Contains(v) {
			inBoth = append(inBoth, v)
		} else {
			afterOnly = append(afterOnly, v)
		}
	}
	return beforeOnly, afterOnly, inBoth
}

// firstDuplicate returns the first element that appears twice, or the zero
// value.
func firstDuplicate[T comparable](list []T) T {
	var zero T
	if len(list) < 2 {
		return zero
	}
	seen := mapset.NewThreadUnsafeSetWithSize[T](len(list))
	for _, v := range list {
		if !seen.Add(v) {
			return v
		}
	}
	return zero
}
