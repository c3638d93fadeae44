package service

import "errors"

// ErrNotFound is returned when an entity is absent or owned by another
// account. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")
