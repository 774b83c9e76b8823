package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrIDRequired   = errors.New("id is required")
	ErrNotFound     = errors.New("archive not found")
	ErrNothingToDo  = errors.New("neither ids nor filter given")
	ErrInvalidLogin = errors.New("username and password are required")
)

// ValidationError lists the invalid fields of a request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator checks a request struct and returns its field errors.
// *validation.Validator implements it.
type Validator interface {
	ValidateStruct(s any) map[string]string
}

func validate(v Validator, s any) error {
	if v == nil {
		return nil
	}
	if fields := v.ValidateStruct(s); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
