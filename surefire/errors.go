package surefire

import "fmt"

// IOError is returned when a report cannot be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to read report (%s): %s", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a report is not well-formed or misses a required field.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse report (%s): %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
