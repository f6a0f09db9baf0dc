package sync

import (
	"time"

	"github.com/google/uuid"

	"github.com/storelink/backend/internal/domain/outbox"
)

// FailureResponse represents one failed record in API responses
type FailureResponse struct {
	RecordID uuid.UUID `json:"record_id"`
	Kind     string    `json:"kind"`
	Message  string    `json:"message"`
}

// BatchResultResponse represents the outcome of one sync pass
type BatchResultResponse struct {
	RecordType string            `json:"record_type"`
	Total      int               `json:"total"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	Failures   []FailureResponse `json:"failures,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

// TypeStatusResponse summarizes the outbox backlog for one record type
type TypeStatusResponse struct {
	RecordType string `json:"record_type"`
	Dirty      int64  `json:"dirty"`
	Parked     int64  `json:"parked"`
	Clean      int64  `json:"clean"`
}

// ResetResponse reports how many parked records were re-armed
type ResetResponse struct {
	RecordType string `json:"record_type"`
	Reset      int64  `json:"reset"`
}

func toBatchResultResponse(r *outbox.BatchResult) *BatchResultResponse {
	resp := &BatchResultResponse{
		RecordType: r.RecordType.String(),
		Total:      r.Total,
		Succeeded:  r.Succeeded,
		Failed:     r.Failed,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, FailureResponse{
			RecordID: f.RecordID,
			Kind:     string(f.Kind),
			Message:  f.Message,
		})
	}
	return resp
}
