package store

import (
	"context"
	"math"
	"testing"

	"github.com/nmolina/reciclo/internal/apperr"
	"github.com/nmolina/reciclo/internal/db"
	"github.com/nmolina/reciclo/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "ana", model.RoleUser)

	item, err := CreateItem(ctx, database, "PET bottles", "clean, crushed", model.CategoryPlastic, -34.6, -58.4, "Av. Corrientes 1234", owner.ID)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Title != "PET bottles" || got.Category != model.CategoryPlastic {
		t.Errorf("round-trip mismatch: got %q/%q", got.Title, got.Category)
	}
	if got.Lat != -34.6 || got.Lng != -58.4 {
		t.Errorf("round-trip coordinates mismatch: got (%v, %v)", got.Lat, got.Lng)
	}
	if got.ProcessingState != model.StateUnprocessed {
		t.Errorf("expected state %q, got %q", model.StateUnprocessed, got.ProcessingState)
	}
	if got.OwnerID != owner.ID {
		t.Errorf("expected owner %d, got %d", owner.ID, got.OwnerID)
	}
	if got.ValidatedBy != nil || got.ValidationDate != nil || len(got.ValidationChecklist) != 0 || got.ValidationObservations != "" {
		t.Error("expected validation fields to be empty on a fresh item")
	}
}

func TestCreateItemRejectsBadInput(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "bad-input", model.RoleUser)

	tests := []struct {
		name     string
		title    string
		category string
		lat, lng float64
	}{
		{"empty title", "", model.CategoryPlastic, 0, 0},
		{"blank title", "   ", model.CategoryPlastic, 0, 0},
		{"unknown category", "x", "plutonium", 0, 0},
		{"NaN latitude", "x", model.CategoryGlass, math.NaN(), 0},
		{"infinite longitude", "x", model.CategoryGlass, 0, math.Inf(1)},
	}

	for _, tt := range tests {
		_, err := CreateItem(ctx, database, tt.title, "", tt.category, tt.lat, tt.lng, "", owner.ID)
		if apperr.CodeOf(err) != apperr.CodeInvalid {
			t.Errorf("%s: expected CodeInvalid, got %v", tt.name, err)
		}
	}
}

func TestMarkItemBaled(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner-b", model.RoleUser)
	item := createTestItem(t, database, owner.ID, "Cardboard")

	// Non-gestor roles cannot bale, regardless of state.
	for _, role := range []string{model.RoleUser, model.RoleCoordinador, model.RoleAdmin} {
		_, err := MarkItemBaled(ctx, database, item.ID, role)
		if apperr.CodeOf(err) != apperr.CodeForbidden {
			t.Errorf("role %q: expected CodeForbidden, got %v", role, err)
		}
	}

	baled, err := MarkItemBaled(ctx, database, item.ID, model.RoleGestor)
	if err != nil {
		t.Fatalf("MarkItemBaled: %v", err)
	}
	if baled.ProcessingState != model.StateBaled {
		t.Errorf("expected state %q, got %q", model.StateBaled, baled.ProcessingState)
	}

	// A second bale fails: the item is no longer in a pre-baled state.
	_, err = MarkItemBaled(ctx, database, item.ID, model.RoleGestor)
	if apperr.CodeOf(err) != apperr.CodeInvalidState {
		t.Errorf("expected CodeInvalidState on re-bale, got %v", err)
	}

	// Unknown item.
	_, err = MarkItemBaled(ctx, database, 9999, model.RoleGestor)
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("expected CodeNotFound, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner-d", model.RoleUser)
	stranger := createTestUser(t, database, "stranger", model.RoleGestor)
	admin := createTestUser(t, database, "boss", model.RoleAdmin)

	item := createTestItem(t, database, owner.ID, "Scrap metal")

	// Neither a stranger nor a gestor may delete someone else's listing.
	if err := DeleteItem(ctx, database, item.ID, stranger.ID, stranger.Role); apperr.CodeOf(err) != apperr.CodeForbidden {
		t.Errorf("expected CodeForbidden for stranger, got %v", err)
	}

	// The owner can.
	if err := DeleteItem(ctx, database, item.ID, owner.ID, owner.Role); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	// Deleted items vanish from search but stay fetchable by id.
	results, _ := SearchItems(ctx, database, SearchFilter{})
	if len(results) != 0 {
		t.Errorf("expected 0 results after delete, got %d", len(results))
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got == nil || got.DeletedAt == nil {
		t.Error("expected soft-deleted item to remain fetchable by id")
	}

	// Deleting again reports not found.
	if err := DeleteItem(ctx, database, item.ID, owner.ID, owner.Role); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("expected CodeNotFound on double delete, got %v", err)
	}

	// Admins can delete any listing, in any state.
	item2 := createTestItem(t, database, owner.ID, "More scrap")
	if _, err := MarkItemBaled(ctx, database, item2.ID, model.RoleGestor); err != nil {
		t.Fatalf("baling: %v", err)
	}
	if err := DeleteItem(ctx, database, item2.ID, admin.ID, admin.Role); err != nil {
		t.Errorf("admin delete: %v", err)
	}
}

func TestSearchItemsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	ana := createTestUser(t, database, "ana-s", model.RoleUser)
	ben := createTestUser(t, database, "ben-s", model.RoleUser)

	CreateItem(ctx, database, "Green bottles", "glass jars too", model.CategoryGlass, 0, 0, "", ana.ID)
	CreateItem(ctx, database, "Newspapers", "old PAPERS in bundles", model.CategoryPaper, 0, 0, "", ana.ID)
	copper, _ := CreateItem(ctx, database, "Copper wire", "", model.CategoryMetal, 0, 0, "", ben.ID)
	MarkItemBaled(ctx, database, copper.ID, model.RoleGestor)

	// Case-insensitive substring over title or description.
	got, err := SearchItems(ctx, database, SearchFilter{Query: "papers"})
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Newspapers" {
		t.Errorf("query filter: expected only Newspapers, got %d results", len(got))
	}

	// Category.
	got, _ = SearchItems(ctx, database, SearchFilter{Category: model.CategoryGlass})
	if len(got) != 1 || got[0].Title != "Green bottles" {
		t.Errorf("category filter: expected only Green bottles, got %d results", len(got))
	}

	// Processing state.
	got, _ = SearchItems(ctx, database, SearchFilter{ProcessingState: model.StateBaled})
	if len(got) != 1 || got[0].ID != copper.ID {
		t.Errorf("state filter: expected only the baled item, got %d results", len(got))
	}

	// Owner.
	got, _ = SearchItems(ctx, database, SearchFilter{OwnerID: ana.ID})
	if len(got) != 2 {
		t.Errorf("owner filter: expected 2 items, got %d", len(got))
	}

	// Filters combine with AND semantics.
	got, _ = SearchItems(ctx, database, SearchFilter{OwnerID: ana.ID, Category: model.CategoryMetal})
	if len(got) != 0 {
		t.Errorf("combined filter: expected 0 items, got %d", len(got))
	}
}

func TestSearchItemsGeofilter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "geo", model.RoleUser)

	CreateItem(ctx, database, "At origin", "", model.CategoryOther, 0, 0, "", owner.ID)
	CreateItem(ctx, database, "Far away", "", model.CategoryOther, 10, 10, "", owner.ID)

	// An item at the center always matches a positive radius.
	got, err := SearchItems(ctx, database, SearchFilter{Geo: &GeoFilter{Lat: 0, Lng: 0, RadiusKm: 1}})
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(got) != 1 || got[0].Title != "At origin" {
		t.Errorf("expected only the item at the origin, got %d results", len(got))
	}

	// Radius 0 excludes anything at non-zero distance.
	got, _ = SearchItems(ctx, database, SearchFilter{
		Query: "Far",
		Geo:   &GeoFilter{Lat: 0, Lng: 0, RadiusKm: 0},
	})
	if len(got) != 0 {
		t.Errorf("expected 0 results with radius 0, got %d", len(got))
	}
}
