package interaction

// FirstPresent returns the value of the first present key, in the given priority order.
func FirstPresent[T any](r Reader, keys ...Key[T]) (T, bool) {
	for _, k := range keys {
		if v, ok := k.Get(r); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// AllPresent reports whether every key has a value.
func AllPresent(r Reader, keys ...Presence) bool {
	for _, k := range keys {
		if !k.Present(r) {
			return false
		}
	}
	return true
}
