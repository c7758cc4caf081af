// Package collection provides generic helpers for slices.
//
//	ids := collection.Map(orders, func(o models.Order) string { return o.ID })
package collection

// Map transforms each element of slice s using fn. The result is never nil.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}
