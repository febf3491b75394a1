package repositories

import "errors"

// ErrDuplicate is returned when an insert or update violates a unique
// constraint (user email, contact email or phone).
var ErrDuplicate = errors.New("duplicate value for unique field")
