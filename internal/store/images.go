package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nmolina/reciclo/internal/apperr"
	"github.com/nmolina/reciclo/internal/model"
)

// AddItemImage appends a photo to an item's ordered image slots. Only the
// owner may upload, and an item holds at most model.MaxImages photos. The
// slot assignment happens inside a transaction so concurrent uploads cannot
// exceed the cap or collide on a position.
func AddItemImage(ctx context.Context, db *sql.DB, itemID, requesterID int64, data []byte, mime string) (int, error) {
	item, err := GetItem(ctx, db, itemID)
	if err != nil {
		return 0, err
	}
	if item == nil || item.DeletedAt != nil {
		return 0, apperr.New(apperr.CodeNotFound, "item not found")
	}
	if item.OwnerID != requesterID {
		return 0, apperr.New(apperr.CodeForbidden, "only the owner can add photos to this item")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var used int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM item_images WHERE item_id = ?`, itemID,
	).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("counting item images: %w", err)
	}
	if used >= model.MaxImages {
		return 0, apperr.Newf(apperr.CodeInvalid, "an item can have at most %d photos", model.MaxImages)
	}

	position := used + 1
	_, err = tx.ExecContext(ctx,
		`INSERT INTO item_images (item_id, position, data, mime) VALUES (?, ?, ?, ?)`,
		itemID, position, data, mime,
	)
	if err != nil {
		return 0, fmt.Errorf("storing item image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing item image: %w", err)
	}
	return position, nil
}

// GetItemImage returns the photo stored in the given slot, or nil data if
// the slot is empty.
func GetItemImage(ctx context.Context, db *sql.DB, itemID int64, position int) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM item_images WHERE item_id = ? AND position = ?`,
		itemID, position,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return data, mime, nil
}

// ListImagePositions returns the occupied image slots for an item in order.
func ListImagePositions(ctx context.Context, db *sql.DB, itemID int64) ([]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT position FROM item_images WHERE item_id = ? ORDER BY position`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item images: %w", err)
	}
	defer rows.Close()

	var positions []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning image position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
