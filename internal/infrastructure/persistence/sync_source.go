package persistence

import (
	"context"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/shared"
)

// orderColumnPattern limits order-by input to plain column names
var orderColumnPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// applyFilter applies pagination and ordering shared by all repositories
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" && orderColumnPattern.MatchString(filter.OrderBy) {
		dir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	} else {
		query = query.Order("created_at ASC")
	}
	return query
}

// scanDirtyScope builds the scanner's hot query: dirty rows in stable
// insertion order, parked rows excluded. The id tiebreak keeps the order
// deterministic for rows created in the same instant.
func scanDirtyScope(query *gorm.DB, maxAttempts, limit int) *gorm.DB {
	query = query.
		Where("sync_dirty = ?", true).
		Order("created_at ASC, id ASC")
	if maxAttempts > 0 {
		query = query.Where("sync_attempts < ?", maxAttempts)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}

// versionedModel is implemented by every aggregate persistence model
type versionedModel interface{ SetVersion(int) }

// saveAggregate inserts a new aggregate or applies a version-guarded
// update to an existing one, bumping the stored version on every write.
// A guarded update that matches no row while the id exists means another
// writer committed first; the caller must reload and retry.
func saveAggregate(ctx context.Context, db *gorm.DB, blank any, model versionedModel, root *shared.BaseAggregateRoot) error {
	tx := db.WithContext(ctx)
	model.SetVersion(root.Version + 1)
	result := tx.Model(blank).
		Where("id = ? AND version = ?", root.ID, root.Version).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		root.Version++
		return nil
	}

	var existing int64
	if err := tx.Model(blank).Where("id = ?", root.ID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return shared.ErrConcurrencyConflict
	}
	model.SetVersion(root.Version)
	return tx.Create(model).Error
}

// markerColumns are the sync bookkeeping columns a pass is allowed to
// write back. The pass works from a row scanned before the remote call,
// so writing business columns here could revert an edit that landed in
// between.
var markerColumns = []string{
	"sync_dirty", "sync_remote_id", "last_synced_at",
	"last_sync_error", "sync_attempts", "version",
}

// storeMarker writes the marker columns guarded by an optimistic version
// check. extra names further columns captured during the push, such as
// remote identifiers assigned by a create mutation. A version moved by a
// concurrent save surfaces as a conflict and the record stays dirty.
func storeMarker(ctx context.Context, db *gorm.DB, blank any, model versionedModel, root *shared.BaseAggregateRoot, extra ...string) error {
	model.SetVersion(root.Version + 1)
	columns := append(append([]string{}, markerColumns...), extra...)
	result := db.WithContext(ctx).
		Model(blank).
		Where("id = ? AND version = ?", root.ID, root.Version).
		Select(columns).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	root.Version++
	return nil
}

// countStatus reports dirty/parked/clean totals for one table
func countStatus(query *gorm.DB, maxAttempts int) (outbox.StatusCount, error) {
	var sc outbox.StatusCount
	base := query.Session(&gorm.Session{})

	dirty := base.Where("sync_dirty = ?", true)
	if maxAttempts > 0 {
		dirty = dirty.Where("sync_attempts < ?", maxAttempts)
	}
	if err := dirty.Count(&sc.Dirty).Error; err != nil {
		return sc, err
	}

	if maxAttempts > 0 {
		if err := base.Where("sync_dirty = ? AND sync_attempts >= ?", true, maxAttempts).
			Count(&sc.Parked).Error; err != nil {
			return sc, err
		}
	}

	if err := base.Where("sync_dirty = ?", false).Count(&sc.Clean).Error; err != nil {
		return sc, err
	}
	return sc, nil
}

// resetParked clears the attempt counter of every parked row
func resetParked(query *gorm.DB, maxAttempts int) (int64, error) {
	if maxAttempts <= 0 {
		return 0, nil
	}
	result := query.
		Where("sync_dirty = ? AND sync_attempts >= ?", true, maxAttempts).
		Updates(map[string]any{"sync_attempts": 0, "last_sync_error": ""})
	return result.RowsAffected, result.Error
}
