package storage

import (
	"context"
	"errors"
	"fmt"

	"wedding-rsvp/internal/models"
)

// Columns is the fixed column order of every stored record
var Columns = [6]string{"name", "kana", "attendance", "email", "allergy", "message"}

// Row holds one record's values in Columns order
type Row [6]string

// RowFor lays out a submission as a record row.
// Unset optional fields are stored as empty strings.
func RowFor(sub models.Submission) Row {
	return Row{
		sub.Name,
		sub.Kana,
		sub.Attendance.Label(),
		sub.Email,
		sub.Allergy,
		sub.Message,
	}
}

// Ack identifies where an appended row landed (a range, a row id or an item key)
type Ack struct {
	Ref string
}

// Appender is an append-only tabular store
type Appender interface {
	AppendRow(ctx context.Context, row Row) (Ack, error)
}

// WriteError reports that a record could not be persisted
type WriteError struct {
	Cause string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write record: %s", e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer appends submissions to a record store.
// It performs exactly one append per call and never retries.
type Writer struct {
	appender Appender
}

// NewWriter creates a new record writer
func NewWriter(appender Appender) *Writer {
	return &Writer{appender: appender}
}

// AppendRecord writes the submission as one row
func (w *Writer) AppendRecord(ctx context.Context, sub models.Submission) (Ack, error) {
	ack, err := w.appender.AppendRow(ctx, RowFor(sub))
	if err != nil {
		var werr *WriteError
		if errors.As(err, &werr) {
			return Ack{}, werr
		}
		return Ack{}, &WriteError{Cause: err.Error(), Err: err}
	}
	return ack, nil
}
