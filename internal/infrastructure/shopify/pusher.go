package shopify

import (
	"strings"

	"github.com/storelink/backend/internal/domain/outbox"
)

// userError is the nested validation error shape returned inside
// mutation payloads. Rejections carry these instead of top-level errors.
type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// mapUserErrors converts the wire shape into domain failures
func mapUserErrors(errs []userError) []outbox.UserError {
	out := make([]outbox.UserError, 0, len(errs))
	for _, e := range errs {
		out = append(out, outbox.UserError{
			Field:   strings.Join(e.Field, "."),
			Message: e.Message,
		})
	}
	return out
}

// transportFailure wraps a client error as a retryable push failure
func transportFailure(err error) outbox.PushResult {
	return outbox.PushFailed(outbox.FailureKindTransport, err.Error())
}

// wrongRecordType is returned when a pusher receives a record of a
// different type. It indicates a registration bug, not remote state.
func wrongRecordType(rt outbox.RecordType, rec outbox.Record) outbox.PushResult {
	return outbox.PushFailed(outbox.FailureKindValidation,
		"expected "+rt.String()+" record, got "+rec.RecordType().String())
}
