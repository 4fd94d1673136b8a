// Package agent wraps the shop's collaborator services as named agents.
// Every entry point returns an Envelope and never a bare error.
package agent

// Envelope is the uniform result of an agent entry point.
// Err is nil on success; Data carries the payload, or the zero value unless
// the entry point documents a fallback.
type Envelope[T any] struct {
	Agent string
	Data  T
	Err   error
}

// OK reports whether the call succeeded.
func (e Envelope[T]) OK() bool { return e.Err == nil }
