package env

import "errors"

// Invalid-argument family: detected before any state mutation.
var (
	ErrInvalidConfig  = errors.New("invalid environment config")
	ErrInvalidAction  = errors.New("invalid action")
	ErrInvalidContext = errors.New("invalid context index")
)

// ErrNoStep is returned when a ground-truth accessor that reads the
// previous context is queried before the first completed step.
var ErrNoStep = errors.New("no step has been taken")
