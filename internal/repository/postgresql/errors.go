package postgresql

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// DataErrorKind classifies constraint and format failures raised by
// the database so callers can report them without parsing SQLSTATEs.
type DataErrorKind int

const (
	KindForeignKey DataErrorKind = iota + 1
	KindDuplicate
	KindInvalidDate
	KindInvalidID
)

type DataError struct {
	Kind  DataErrorKind
	Field string
	cause error
}

func (e *DataError) Error() string {
	var what string
	switch e.Kind {
	case KindForeignKey:
		what = "referenced record does not exist"
	case KindDuplicate:
		what = "value already in use"
	case KindInvalidDate:
		what = "invalid date value"
	case KindInvalidID:
		what = "invalid identifier value"
	default:
		what = "data error"
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, what)
	}
	return what
}

func (e *DataError) Unwrap() error {
	return e.cause
}

// ClassifyError maps PostgreSQL error codes onto DataError. Anything
// that is not a recognized constraint or format violation comes back
// unchanged.
func ClassifyError(err error, field string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23503":
		return &DataError{Kind: KindForeignKey, Field: field, cause: err}
	case "23505":
		return &DataError{Kind: KindDuplicate, Field: field, cause: err}
	case "22007", "22008":
		return &DataError{Kind: KindInvalidDate, Field: field, cause: err}
	case "22P02":
		return &DataError{Kind: KindInvalidID, Field: field, cause: err}
	}
	return err
}
