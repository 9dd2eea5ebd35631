package auth

import "errors"

var (
	// UnauthenticatedErr is returned by operations that require a bound
	// session when the session carries no tenant id, or when the bound id no
	// longer resolves in the store.
	UnauthenticatedErr = errors.New("unauthenticated")
)
