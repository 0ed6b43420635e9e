package repository

import (
	"errors"
	"fmt"

	"mesto_backend/internal/common/validate"
	"mesto_backend/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Outcome is the closed set of results a storage call can end in. Callers
// branch on it instead of inspecting driver-specific errors.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeDuplicate
	OutcomeInvalid
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not found"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "failure"
	}
}

// StorageError is returned by every repository method that fails.
type StorageError struct {
	Outcome Outcome
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Outcome)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Outcome, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(op string, outcome Outcome, err error) *StorageError {
	return &StorageError{Outcome: outcome, Op: op, Err: err}
}

// OutcomeOf classifies err. Errors that did not come from a repository are
// reported as OutcomeFailure.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var se *StorageError
	if errors.As(err, &se) {
		return se.Outcome
	}
	return OutcomeFailure
}

// NewID returns a fresh 24-hex identifier. Both storage drivers use the
// same id scheme so the API shape does not depend on the backend.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

func parseID(op, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, NewStorageError(op, OutcomeInvalid, err)
	}
	return oid, nil
}

// CheckUser runs the document-level field rules before a user is written.
func CheckUser(op string, user *model.User) error {
	if err := validate.Struct(user); err != nil {
		return NewStorageError(op, OutcomeInvalid, err)
	}
	return nil
}

func CheckUserUpdate(op string, update model.UserUpdate) error {
	if err := validate.Struct(update); err != nil {
		return NewStorageError(op, OutcomeInvalid, err)
	}
	return nil
}

func CheckCard(op string, card *model.Card) error {
	if err := validate.Struct(card); err != nil {
		return NewStorageError(op, OutcomeInvalid, err)
	}
	return nil
}
