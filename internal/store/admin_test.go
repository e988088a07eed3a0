package store

import (
	"context"
	"testing"

	"github.com/nmolina/reciclo/internal/db"
	"github.com/nmolina/reciclo/internal/model"
)

func TestGetAdminMetrics(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	empty, err := GetAdminMetrics(ctx, database)
	if err != nil {
		t.Fatalf("GetAdminMetrics: %v", err)
	}
	if empty.TotalItems != 0 || empty.RecyclingRate != 0 || empty.CO2Saved != 0 {
		t.Errorf("expected zeroed metrics on an empty database, got %+v", empty)
	}

	owner := createTestUser(t, database, "owner-m", model.RoleUser)
	gestor := createTestUser(t, database, "gestor-m", model.RoleGestor)

	items := make([]*model.Item, 3)
	for i := range items {
		items[i] = createTestItem(t, database, owner.ID, "Metric item "+string(rune('A'+i)))
	}
	if _, err := MarkItemBaled(ctx, database, items[0].ID, gestor.Role); err != nil {
		t.Fatalf("baling: %v", err)
	}
	if _, err := ValidateItem(ctx, database, items[0].ID, gestor.ID, gestor.Role, fullChecklist(), ""); err != nil {
		t.Fatalf("validating: %v", err)
	}

	m, err := GetAdminMetrics(ctx, database)
	if err != nil {
		t.Fatalf("GetAdminMetrics: %v", err)
	}
	if m.TotalItems != 3 {
		t.Errorf("expected 3 items, got %d", m.TotalItems)
	}
	if m.ValidatedItems != 1 {
		t.Errorf("expected 1 validated item, got %d", m.ValidatedItems)
	}
	if m.CO2Saved != 30 {
		t.Errorf("expected co2Saved 30, got %d", m.CO2Saved)
	}
	// 1/3 rounds to 33 percent.
	if m.RecyclingRate != 33 {
		t.Errorf("expected recyclingRate 33, got %d", m.RecyclingRate)
	}
	if m.TotalUsers != 2 || m.ActiveGestores != 1 {
		t.Errorf("expected 2 users / 1 gestor, got %d / %d", m.TotalUsers, m.ActiveGestores)
	}

	// Soft-deleted items drop out of every counter.
	if err := DeleteItem(ctx, database, items[1].ID, owner.ID, owner.Role); err != nil {
		t.Fatalf("deleting: %v", err)
	}
	m, err = GetAdminMetrics(ctx, database)
	if err != nil {
		t.Fatalf("GetAdminMetrics: %v", err)
	}
	if m.TotalItems != 2 || m.CO2Saved != 20 || m.RecyclingRate != 50 {
		t.Errorf("expected 2 items / 20 kg / 50%%, got %+v", m)
	}
}

func TestListAllItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner-la", model.RoleUser)

	createTestItem(t, database, owner.ID, "First")
	createTestItem(t, database, owner.ID, "Second")

	items, err := ListAllItems(ctx, database)
	if err != nil {
		t.Fatalf("ListAllItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].OwnerName != "owner-la" {
		t.Errorf("expected joined owner name, got %q", items[0].OwnerName)
	}
}
