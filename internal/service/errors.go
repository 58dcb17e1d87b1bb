package service

import (
	"fmt"
)

// The three recoverable error kinds the delivery layer maps to client
// responses: NotFoundError -> 404, ValidationError -> 400, ConflictError -> 409.
// Anything else is treated as an internal error.

type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Msg    string
	Fields []FieldError
}

func NewValidationError(msg string, fields ...FieldError) error {
	return &ValidationError{Msg: msg, Fields: fields}
}

func (e *ValidationError) Error() string {
	return e.Msg
}

type ConflictError struct {
	Msg string
}

func NewConflictError(msg string) error {
	return &ConflictError{Msg: msg}
}

func (e *ConflictError) Error() string {
	return e.Msg
}
