package util

// Ptr returns &v. Fixtures use it for optional snapshot flags.
func Ptr[T any](v T) *T { return &v }

// Deref returns *p, or the zero T when p is nil.
func Deref[T any](p *T) (v T) {
	if p != nil {
		v = *p
	}
	return v
}
