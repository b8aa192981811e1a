package services

import (
	stderrors "errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = stderrors.New("not found")
	ErrDuplicate          = stderrors.New("already exists")
	ErrValidation         = stderrors.New("validation failed")
	ErrForbidden          = stderrors.New("forbidden")
	ErrInvalidCredentials = stderrors.New("invalid credentials")
	ErrAccountDisabled    = stderrors.New("account disabled")
	ErrInvalidToken       = stderrors.New("invalid or expired token")
	ErrUnavailable        = stderrors.New("not available")
)

// ValidationError carries per-field messages. It unwraps to ErrValidation.
type ValidationError struct {
	Fields map[string]string
	order  []string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.Fields[field] = message
}

// Keys returns the fields in the order they were added.
func (e *ValidationError) Keys() []string {
	return e.order
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if len(e.order) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.order[0], e.Fields[e.order[0]])
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// RuleError is a business-rule rejection whose message is safe to show to the visitor.
type RuleError struct {
	Message string
	Kind    error
}

func (e *RuleError) Error() string { return e.Message }
func (e *RuleError) Unwrap() error { return e.Kind }

func rule(kind error, format string, args ...interface{}) error {
	return &RuleError{Message: fmt.Sprintf(format, args...), Kind: kind}
}

// isDuplicate recognises unique-constraint failures from every supported driver.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if stderrors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	return false
}

// dbErr maps gorm errors onto the service sentinels and adds context.
func dbErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(ErrNotFound, what)
	case isDuplicate(err):
		return errors.Wrap(ErrDuplicate, what)
	default:
		return errors.Wrap(err, what)
	}
}
