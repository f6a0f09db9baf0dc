package outbox

import "time"

// SyncState is the change marker attached to every locally owned record
// whose state must eventually be reflected in the remote system.
//
// Invariants:
//   - RemoteID is set iff the record has been created remotely at least once
//   - Dirty is true whenever a local mutation happened after the last
//     successful push; only a successful push clears it
type SyncState struct {
	Dirty        bool
	RemoteID     *string
	LastSyncedAt *time.Time
	LastError    string
	Attempts     int
}

// MarkDirty flags the record as owing a remote push. No-op if already dirty.
func (s *SyncState) MarkDirty() {
	if s.Dirty {
		return
	}
	s.Dirty = true
}

// MarkClean records a successful push. The remote ID is assigned on first
// success and kept afterwards; the error and attempt counters are reset.
func (s *SyncState) MarkClean(remoteID string, at time.Time) {
	s.Dirty = false
	s.LastSyncedAt = &at
	s.LastError = ""
	s.Attempts = 0
	if s.RemoteID == nil && remoteID != "" {
		s.RemoteID = &remoteID
	}
}

// MarkFailed records a failed push. The record stays dirty and eligible
// for retry; the message is preserved verbatim for operator diagnosis.
func (s *SyncState) MarkFailed(message string) {
	s.Dirty = true
	s.LastError = message
	s.Attempts++
}

// HasRemote returns true once the record exists on the remote system.
func (s *SyncState) HasRemote() bool {
	return s.RemoteID != nil && *s.RemoteID != ""
}

// Remote returns the remote identifier, or "" when unassigned.
func (s *SyncState) Remote() string {
	if s.RemoteID == nil {
		return ""
	}
	return *s.RemoteID
}

// IsParked reports whether the record has exhausted its attempt budget.
// A maxAttempts of zero means retry forever.
func (s *SyncState) IsParked(maxAttempts int) bool {
	return maxAttempts > 0 && s.Attempts >= maxAttempts
}

// ResetAttempts re-arms a parked record for retry.
func (s *SyncState) ResetAttempts() {
	s.Attempts = 0
	s.LastError = ""
}
