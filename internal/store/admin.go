package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nmolina/reciclo/internal/model"
)

// AdminMetrics holds the platform-wide counters shown on the admin
// dashboard. CO2Saved is the MVP estimate of 10 kg per posted item;
// RecyclingRate is the validated share in whole percent.
type AdminMetrics struct {
	TotalItems     int `json:"totalItems"`
	ValidatedItems int `json:"validatedItems"`
	CO2Saved       int `json:"co2Saved"`
	RecyclingRate  int `json:"recyclingRate"`
	TotalUsers     int `json:"totalUsers"`
	ActiveGestores int `json:"activeGestores"`
}

// GetAdminMetrics computes the dashboard counters.
func GetAdminMetrics(ctx context.Context, db *sql.DB) (*AdminMetrics, error) {
	m := &AdminMetrics{}

	counts := []struct {
		query string
		args  []any
		dest  *int
	}{
		{`SELECT COUNT(*) FROM items WHERE deleted_at IS NULL`, nil, &m.TotalItems},
		{`SELECT COUNT(*) FROM items WHERE deleted_at IS NULL AND processing_state = ?`,
			[]any{model.StateValidated}, &m.ValidatedItems},
		{`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`, nil, &m.TotalUsers},
		{`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND role = ?`,
			[]any{model.RoleGestor}, &m.ActiveGestores},
	}
	for _, c := range counts {
		if err := db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting for admin metrics: %w", err)
		}
	}

	m.CO2Saved = m.TotalItems * 10
	if m.TotalItems > 0 {
		m.RecyclingRate = int(float64(m.ValidatedItems)/float64(m.TotalItems)*100 + 0.5)
	}
	return m, nil
}

// ListAllItems returns every non-deleted item with its owner's name, for
// the admin listing.
func ListAllItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT i.id, i.title, i.category, i.processing_state, i.created_at, u.name AS owner_name
		 FROM items i
		 JOIN users u ON u.id = i.owner_id
		 WHERE i.deleted_at IS NULL
		 ORDER BY i.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items for admin: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Category, &item.ProcessingState, &item.CreatedAt, &item.OwnerName); err != nil {
			return nil, fmt.Errorf("scanning item for admin: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
