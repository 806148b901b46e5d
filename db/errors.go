package db

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string {
	return e.msg
}

func NewNotFoundError(text string) error {
	return &NotFoundError{text}
}

func entitiesNotFound(ids []uuid.UUID) error {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, id.String())
	}
	return NewNotFoundError(fmt.Sprintf("Entities(s) with id(s) %s not found", strings.Join(names, ", ")))
}

type ConflictError struct {
	msg string
}

func (e *ConflictError) Error() string {
	return e.msg
}

func NewConflictError(text string) error {
	return &ConflictError{text}
}
