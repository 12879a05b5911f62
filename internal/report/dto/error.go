package dto

import (
	"errors"
	"fmt"
)

// ErrReportNotFound is returned when a review update targets an external
// report id with no matching stored report. Callers treat it as an
// informational outcome, not a failure.
var ErrReportNotFound = errors.New("report not found")

// ErrMissingStockCode marks a record without a usable ticker. Report rows
// require a stock reference, so this is a structural violation.
var ErrMissingStockCode = errors.New("missing stock code")

// BatchError reports a rolled-back ingestion batch: how many records were
// attempted and the record-level cause that sank the batch.
type BatchError struct {
	RecordsAttempted int
	RecordIndex      int
	Cause            error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("ingestion batch of %d records rolled back at record %d: %v",
		e.RecordsAttempted, e.RecordIndex, e.Cause)
}

func (e *BatchError) Unwrap() error {
	return e.Cause
}

// ErrorResponse is the generic error payload for the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}
