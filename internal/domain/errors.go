package domain

import "errors"

var (
	// ErrInvalidInput signals a rejected caller input (empty or malformed identifier).
	ErrInvalidInput = errors.New("invalid input")
	// ErrServiceFailure signals a collaborator failure behind an agent.
	ErrServiceFailure = errors.New("service failure")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrProviderError signals an LLM or embedding provider failure.
	ErrProviderError = errors.New("provider error")
	// ErrEmptyResponse signals a provider answer without usable content.
	ErrEmptyResponse = errors.New("empty provider response")
)
