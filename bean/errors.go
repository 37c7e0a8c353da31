package bean

import (
	"github.com/sohaha/zlsgo/zerror"
)

// Error codes carried by every failure from registration through destruction.
// Causes stay reachable through zerror unwrapping.
const (
	ErrInvalidDefinition zerror.ErrCode = iota + 1000
	ErrDuplicateDefinition
	ErrNotFound
	ErrInstantiation
	ErrCircularCreation
	ErrPopulation
	ErrInitialization
	ErrDestruction
	ErrUnsupportedOperation
	ErrConversion
)

func IsNotFound(err error) bool {
	return zerror.Is(err, ErrNotFound)
}

func IsDuplicate(err error) bool {
	return zerror.Is(err, ErrDuplicateDefinition)
}

func IsCircular(err error) bool {
	return zerror.Is(err, ErrCircularCreation)
}
