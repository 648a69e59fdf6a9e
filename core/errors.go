package core

import "errors"

// Error definitions shared across packages.
var (
	// ErrNotCanonical indicates a face URI could not be canonicalized.
	ErrNotCanonical = errors.New("URI could not be canonicalized")
	// ErrInstanceParameters indicates a strategy instance name carried
	// parameters the strategy does not accept.
	ErrInstanceParameters = errors.New("strategy does not accept instance parameters")
	// ErrInstanceVersion indicates a strategy instance name requested an
	// unsupported version.
	ErrInstanceVersion = errors.New("strategy does not support the requested version")
)
