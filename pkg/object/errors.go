package object

import "errors"

// ErrObjectNotFound is returned when an id was never stored.
var ErrObjectNotFound = errors.New("object not found")

// ErrInvalidHash is returned for ids that are not well-formed hex digests.
var ErrInvalidHash = errors.New("invalid object id")
