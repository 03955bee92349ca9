package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the configuration file doesn't exist.
	ErrNotFound = errors.New("config file not found")

	// ErrMalformed indicates the configuration cannot be decoded against the
	// [[commands]] schema.
	ErrMalformed = errors.New("config malformed")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrMalformed) match any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}
