package parser

import "errors"

var (
	// ErrLineMismatch is returned when a line does not have the summary shape.
	ErrLineMismatch = errors.New("line does not match the summary format")

	// ErrInvalidNumber is returned when a numeric field cannot be parsed.
	ErrInvalidNumber = errors.New("invalid numeric field")

	// ErrUnresolvableName is returned when a raw name yields no managed reference.
	ErrUnresolvableName = errors.New("unresolvable name")
)
