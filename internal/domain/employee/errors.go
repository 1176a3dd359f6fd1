package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrCINExists        = errors.New("CIN already registered")
	ErrCannotDeleteSelf = errors.New("cannot delete your own employee record")

	// ErrAllocatorExhausted means Z9999 has been issued; admission must stop.
	ErrAllocatorExhausted = errors.New("employee ID space exhausted")
	// ErrInvalidEmployeeID is returned for identifiers outside the [A-Z][0-9]{4} scheme.
	ErrInvalidEmployeeID = errors.New("invalid employee ID format")
	// ErrEmployeeIDConflict is returned by the repository when the allocated ID was taken concurrently.
	ErrEmployeeIDConflict = errors.New("employee ID already taken")
)
