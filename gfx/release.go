package gfx

type Releaser interface {
	Release()
}

// ReleaseGuard releases a resource on scope exit unless Keep was called.
// Useful with defer when a resource must be released on every error path
// but handed off on success.
type ReleaseGuard struct {
	delegate Releaser
}

func NewReleaseGuard(delegate Releaser) ReleaseGuard {
	return ReleaseGuard{delegate: delegate}
}

func (r *ReleaseGuard) Keep() {
	r.delegate = nil
}

func (r *ReleaseGuard) Release() {
	if r.delegate != nil {
		r.delegate.Release()
		r.delegate = nil
	}
}
