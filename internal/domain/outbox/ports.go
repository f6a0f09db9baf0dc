package outbox

import (
	"context"
	"errors"
)

// Port errors
var (
	ErrUnknownRecordType = errors.New("outbox: unknown record type")
	ErrNotRegistered     = errors.New("outbox: record type not registered")
)

// StatusCount summarizes the outbox for one record type
type StatusCount struct {
	Dirty  int64 `json:"dirty"`
	Parked int64 `json:"parked"`
	Clean  int64 `json:"clean"`
}

// Source produces the dirty records of one type and persists marker
// changes back. Implementations scan in stable insertion order so repeated
// runs process records deterministically and fairly.
type Source interface {
	// RecordType identifies the records this source yields
	RecordType() RecordType

	// ScanDirty returns up to limit dirty records in creation order,
	// skipping parked records (attempt budget exhausted). Records whose
	// remote dependency is unmet are still returned; the pusher reports
	// those as dependency failures.
	ScanDirty(ctx context.Context, limit int) ([]Record, error)

	// Store persists the record's marker fields. Returns
	// shared.ErrConcurrencyConflict when another process modified the
	// record since it was scanned.
	Store(ctx context.Context, rec Record) error

	// CountStatus reports dirty/parked/clean totals for the type
	CountStatus(ctx context.Context) (StatusCount, error)

	// ResetParked re-arms parked records for retry and returns how many
	// were reset
	ResetParked(ctx context.Context) (int64, error)
}

// Pusher translates one dirty record into exactly one remote create-or-
// update call and interprets the response. Implementations must not retry
// within a single Push call.
type Pusher interface {
	// RecordType identifies the records this pusher handles
	RecordType() RecordType

	// Push issues the remote mutation for one record. Expected failures
	// (transport, validation, dependency) are reported in the result, not
	// as errors.
	Push(ctx context.Context, rec Record) PushResult
}
