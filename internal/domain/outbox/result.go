package outbox

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FailureKind classifies a failed push
type FailureKind string

const (
	// FailureKindTransport is a network/auth/timeout failure; always
	// retryable on the next scan
	FailureKindTransport FailureKind = "transport"
	// FailureKindValidation is a business rejection by the remote service
	// (nonempty userErrors); retryable but likely to recur until the
	// underlying data is fixed
	FailureKindValidation FailureKind = "validation"
	// FailureKindDependency means a parent record has not been synced yet;
	// expected to self-resolve once the dependency syncs
	FailureKindDependency FailureKind = "dependency"
	// FailureKindConflict means another process modified the record's
	// marker while this pass held it
	FailureKindConflict FailureKind = "conflict"
)

// UserError is a business-level validation error returned inside a
// successful transport response envelope
type UserError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JoinUserErrors renders a userErrors list as a single operator-readable
// message, preserving each message verbatim.
func JoinUserErrors(errs []UserError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Field != "" {
			parts = append(parts, e.Field+": "+e.Message)
			continue
		}
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}

// PushResult is the outcome of pushing one record
type PushResult struct {
	Success    bool
	RemoteID   string
	Kind       FailureKind
	Message    string
	UserErrors []UserError
}

// PushSucceeded builds a successful result carrying the remote identifier
func PushSucceeded(remoteID string) PushResult {
	return PushResult{Success: true, RemoteID: remoteID}
}

// PushFailed builds a failed result of the given kind
func PushFailed(kind FailureKind, message string) PushResult {
	return PushResult{Kind: kind, Message: message}
}

// PushRejected builds a validation failure from a userErrors list
func PushRejected(errs []UserError) PushResult {
	return PushResult{
		Kind:       FailureKindValidation,
		Message:    JoinUserErrors(errs),
		UserErrors: errs,
	}
}

// Failure is one failed record inside a batch
type Failure struct {
	RecordID uuid.UUID   `json:"record_id"`
	Kind     FailureKind `json:"kind"`
	Message  string      `json:"message"`
}

// BatchResult is the ephemeral aggregate produced by one coordinator run.
// It is returned to the caller and logged, never persisted.
type BatchResult struct {
	RecordType RecordType `json:"record_type"`
	Total      int        `json:"total"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Failures   []Failure  `json:"failures,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// NewBatchResult creates an empty batch result for a record type
func NewBatchResult(recordType RecordType) *BatchResult {
	return &BatchResult{
		RecordType: recordType,
		Failures:   make([]Failure, 0),
		StartedAt:  time.Now(),
	}
}

// AddSuccess records one successfully pushed record
func (r *BatchResult) AddSuccess() {
	r.Total++
	r.Succeeded++
}

// AddFailure records one failed record
func (r *BatchResult) AddFailure(id uuid.UUID, kind FailureKind, message string) {
	r.Total++
	r.Failed++
	r.Failures = append(r.Failures, Failure{RecordID: id, Kind: kind, Message: message})
}

// HasFailures returns true if any record in the batch failed
func (r *BatchResult) HasFailures() bool {
	return r.Failed > 0
}
