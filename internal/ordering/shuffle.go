// Package ordering gives every student a stable, private order of a
// course's questions.
package ordering

type source interface {
	Float64() float64
}

// Shuffle returns a permutation of items determined entirely by key and by
// the order of items. The same inputs always produce the same output, on any
// machine; items itself is left untouched.
//
// key must be reproducible for the same student and course (see Key).
// Mixing in anything session-dependent, like a timestamp, silently gives the
// student a new order on every load.
func Shuffle[T any](items []T, key string) []T {
	return fisherYates(items, newGenerator(hashKey(key)))
}

func fisherYates[T any](items []T, src source) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := int(src.Float64() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
