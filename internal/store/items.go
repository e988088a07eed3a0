package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/nmolina/reciclo/internal/apperr"
	"github.com/nmolina/reciclo/internal/geo"
	"github.com/nmolina/reciclo/internal/model"
)

const itemColumns = `id, title, description, category, lat, lng, address, owner_id,
	processing_state, validated_by, validation_checklist, validation_observations,
	validation_date, created_at, updated_at, deleted_at`

// CreateItem creates a new listing in the unprocessed state.
func CreateItem(ctx context.Context, db *sql.DB, title, description, category string, lat, lng float64, address string, ownerID int64) (*model.Item, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.New(apperr.CodeInvalid, "title is required")
	}
	if !model.ValidCategory(category) {
		return nil, apperr.Newf(apperr.CodeInvalid, "unknown category %q", category)
	}
	if !isFinite(lat) || !isFinite(lng) {
		return nil, apperr.New(apperr.CodeInvalid, "latitude and longitude must be finite numbers")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, description, category, lat, lng, address, owner_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		title, description, category, lat, lng, address, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, including soft-deleted ones so ratings and
// history keep a resolvable context. Returns nil if the item never existed.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// SearchFilter narrows the listing search. Zero values mean "no filter".
type SearchFilter struct {
	Query           string
	Category        string
	ProcessingState string
	OwnerID         int64
	Geo             *GeoFilter
}

// GeoFilter restricts results to listings within RadiusKm of a center point.
type GeoFilter struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// SearchItems returns non-deleted listings matching all supplied filters.
// The geofilter is applied last, over the rows the other filters matched.
func SearchItems(ctx context.Context, db *sql.DB, f SearchFilter) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE deleted_at IS NULL`
	var args []any

	if f.Query != "" {
		query += ` AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)`
		pattern := "%" + strings.ToLower(f.Query) + "%"
		args = append(args, pattern, pattern)
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.ProcessingState != "" {
		query += ` AND processing_state = ?`
		args = append(args, f.ProcessingState)
	}
	if f.OwnerID > 0 {
		query += ` AND owner_id = ?`
		args = append(args, f.OwnerID)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if f.Geo != nil {
			d := geo.Distance(f.Geo.Lat, f.Geo.Lng, item.Lat, item.Lng)
			if d > f.Geo.RadiusKm {
				continue
			}
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// MarkItemBaled transitions an item to the baled state. Only gestores may
// bale, and only from a pre-baled state. The transition is a single
// conditional update so two concurrent calls cannot both succeed.
func MarkItemBaled(ctx context.Context, db *sql.DB, id int64, requesterRole string) (*model.Item, error) {
	if !model.RoleCan(requesterRole, model.CapBaleItem) {
		return nil, apperr.New(apperr.CodeForbidden, "only gestores can mark materials as baled")
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET processing_state = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL AND processing_state IN (?, ?)`,
		model.StateBaled, id, model.StateUnprocessed, model.StateInProcess,
	)
	if err != nil {
		return nil, fmt.Errorf("baling item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("baling item: %w", err)
	}
	if affected == 0 {
		return nil, explainBaleFailure(ctx, db, id)
	}

	return GetItem(ctx, db, id)
}

// explainBaleFailure re-reads the item to report why the conditional bale
// update matched nothing.
func explainBaleFailure(ctx context.Context, db *sql.DB, id int64) error {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return err
	}
	if item == nil || item.DeletedAt != nil {
		return apperr.New(apperr.CodeNotFound, "item not found")
	}
	return apperr.Newf(apperr.CodeInvalidState,
		"item is already %q; only %q or %q items can be baled",
		item.ProcessingState, model.StateUnprocessed, model.StateInProcess)
}

// DeleteItem soft-deletes a listing. Allowed for the owner and for admins,
// in any processing state.
func DeleteItem(ctx context.Context, db *sql.DB, id, requesterID int64, requesterRole string) error {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return err
	}
	if item == nil || item.DeletedAt != nil {
		return apperr.New(apperr.CodeNotFound, "item not found")
	}
	if item.OwnerID != requesterID && !model.RoleCan(requesterRole, model.CapDeleteAnyItem) {
		return apperr.New(apperr.CodeForbidden, "only the owner or an admin can delete this item")
	}

	_, err = db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var description, address, checklist, observations sql.NullString
	err := s.Scan(&item.ID, &item.Title, &description, &item.Category,
		&item.Lat, &item.Lng, &address, &item.OwnerID,
		&item.ProcessingState, &item.ValidatedBy, &checklist, &observations,
		&item.ValidationDate, &item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	item.Address = address.String
	item.ValidationObservations = observations.String
	if checklist.String != "" {
		item.ValidationChecklist = strings.Split(checklist.String, ",")
	}
	return item, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
