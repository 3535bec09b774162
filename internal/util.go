package internal

import "github.com/samber/lo"

// ReconstructPath follows predecessor links from current back to the origin and
// returns the visited values in origin-first order. previous reports false once
// current has no predecessor. A cycle in the links is cut at its first repeat.
func ReconstructPath[T comparable](current T, previous func(T) (T, bool)) []T {
	path := []T{current}
	seen := map[T]struct{}{current: {}}
	for {
		prev, ok := previous(current)
		if !ok {
			break
		}
		if _, loop := seen[prev]; loop {
			break
		}
		seen[prev] = struct{}{}
		path = append(path, prev)
		current = prev
	}
	return lo.Reverse(path)
}
