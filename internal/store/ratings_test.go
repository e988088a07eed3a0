package store

import (
	"context"
	"strings"
	"testing"

	"github.com/nmolina/reciclo/internal/apperr"
	"github.com/nmolina/reciclo/internal/db"
	"github.com/nmolina/reciclo/internal/model"
)

func intptr(v int) *int { return &v }

func TestCreateRating(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner-r", model.RoleUser)
	rater := createTestUser(t, database, "rater-r", model.RoleUser)
	item := createTestItem(t, database, owner.ID, "Rated cardboard")

	rating, err := CreateRating(ctx, database, item.ID, rater.ID, 4, intptr(5), nil, "well sorted")
	if err != nil {
		t.Fatalf("CreateRating: %v", err)
	}
	if rating.RatedID != owner.ID {
		t.Errorf("expected ratedId %d, got %d", owner.ID, rating.RatedID)
	}
	if rating.MaterialQuality != 4 {
		t.Errorf("expected materialQuality 4, got %d", rating.MaterialQuality)
	}
	if rating.Punctuality == nil || *rating.Punctuality != 5 {
		t.Errorf("expected punctuality 5, got %v", rating.Punctuality)
	}
	if rating.StandardCompliance != nil {
		t.Errorf("expected nil standardCompliance, got %v", rating.StandardCompliance)
	}

	// Each rater gets one rating per item.
	_, err = CreateRating(ctx, database, item.ID, rater.ID, 2, nil, nil, "")
	if apperr.CodeOf(err) != apperr.CodeConflict {
		t.Errorf("expected CodeConflict on duplicate rating, got %v", err)
	}

	// A second rater on the same item is fine.
	other := createTestUser(t, database, "other-r", model.RoleUser)
	if _, err := CreateRating(ctx, database, item.ID, other.ID, 3, nil, nil, ""); err != nil {
		t.Errorf("second rater: %v", err)
	}
}

func TestCreateRatingRejections(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner-rr", model.RoleUser)
	rater := createTestUser(t, database, "rater-rr", model.RoleUser)
	item := createTestItem(t, database, owner.ID, "Scrap aluminium")

	// Owners cannot rate their own items.
	_, err := CreateRating(ctx, database, item.ID, owner.ID, 5, nil, nil, "")
	if apperr.CodeOf(err) != apperr.CodeInvalid {
		t.Errorf("expected CodeInvalid for self-rating, got %v", err)
	}

	// Missing item.
	_, err = CreateRating(ctx, database, 9999, rater.ID, 5, nil, nil, "")
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("expected CodeNotFound, got %v", err)
	}

	// Soft-deleted item behaves like a missing one.
	gone := createTestItem(t, database, owner.ID, "Removed item")
	if err := DeleteItem(ctx, database, gone.ID, owner.ID, owner.Role); err != nil {
		t.Fatalf("deleting: %v", err)
	}
	_, err = CreateRating(ctx, database, gone.ID, rater.ID, 5, nil, nil, "")
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("expected CodeNotFound for deleted item, got %v", err)
	}

	// Score bounds on required and optional dimensions.
	for _, bad := range []int{0, 6, -1} {
		if _, err := CreateRating(ctx, database, item.ID, rater.ID, bad, nil, nil, ""); apperr.CodeOf(err) != apperr.CodeInvalid {
			t.Errorf("materialQuality %d: expected CodeInvalid, got %v", bad, err)
		}
		if _, err := CreateRating(ctx, database, item.ID, rater.ID, 3, intptr(bad), nil, ""); apperr.CodeOf(err) != apperr.CodeInvalid {
			t.Errorf("punctuality %d: expected CodeInvalid, got %v", bad, err)
		}
		if _, err := CreateRating(ctx, database, item.ID, rater.ID, 3, nil, intptr(bad), ""); apperr.CodeOf(err) != apperr.CodeInvalid {
			t.Errorf("standardCompliance %d: expected CodeInvalid, got %v", bad, err)
		}
	}

	// Oversized comment.
	_, err = CreateRating(ctx, database, item.ID, rater.ID, 3, nil, nil, strings.Repeat("x", 501))
	if apperr.CodeOf(err) != apperr.CodeInvalid {
		t.Errorf("expected CodeInvalid for long comment, got %v", err)
	}
}

// Averages zero-fill missing optional dimensions and divide by the total
// rating count, so two ratings where only one carries punctuality=4 yield a
// punctuality average of 2.0, not 4.0.
func TestRatingAverages(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner-avg", model.RoleUser)
	r1 := createTestUser(t, database, "rater-avg1", model.RoleUser)
	r2 := createTestUser(t, database, "rater-avg2", model.RoleUser)

	itemA := createTestItem(t, database, owner.ID, "First glass batch")
	itemB := createTestItem(t, database, owner.ID, "Second glass batch")

	if _, err := CreateRating(ctx, database, itemA.ID, r1.ID, 5, nil, nil, ""); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	if _, err := CreateRating(ctx, database, itemB.ID, r2.ID, 3, intptr(4), nil, ""); err != nil {
		t.Fatalf("second rating: %v", err)
	}

	ratings, avgs, err := GetRatingsForUser(ctx, database, owner.ID)
	if err != nil {
		t.Fatalf("GetRatingsForUser: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(ratings))
	}
	if avgs.MaterialQuality != 4.0 {
		t.Errorf("materialQuality average: expected 4.0, got %v", avgs.MaterialQuality)
	}
	if avgs.Punctuality != 2.0 {
		t.Errorf("punctuality average: expected 2.0, got %v", avgs.Punctuality)
	}
	if avgs.StandardCompliance != 0 {
		t.Errorf("standardCompliance average: expected 0, got %v", avgs.StandardCompliance)
	}

	// Newest first.
	if ratings[0].ItemID != itemB.ID {
		t.Errorf("expected newest rating first, got item %d", ratings[0].ItemID)
	}
	if ratings[0].RaterName == "" || ratings[0].ItemTitle == "" {
		t.Error("expected rater name and item title to be joined in")
	}
}

func TestRatingAveragesRounding(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner-rnd", model.RoleUser)

	for i, mq := range []int{5, 5, 4} {
		rater := createTestUser(t, database, "rater-rnd"+string(rune('a'+i)), model.RoleUser)
		item := createTestItem(t, database, owner.ID, "Batch "+string(rune('A'+i)))
		if _, err := CreateRating(ctx, database, item.ID, rater.ID, mq, nil, nil, ""); err != nil {
			t.Fatalf("rating %d: %v", i, err)
		}
	}

	// (5+5+4)/3 = 4.666..., rounded to one decimal.
	_, avgs, err := GetRatingsForUser(ctx, database, owner.ID)
	if err != nil {
		t.Fatalf("GetRatingsForUser: %v", err)
	}
	if avgs.MaterialQuality != 4.7 {
		t.Errorf("expected 4.7, got %v", avgs.MaterialQuality)
	}
}

func TestRatingsIgnoreLifecycleState(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, database, "owner-lc", model.RoleUser)
	rater := createTestUser(t, database, "rater-lc", model.RoleUser)
	gestor := createTestUser(t, database, "gestor-lc", model.RoleGestor)

	item := createTestItem(t, database, owner.ID, "Unprocessed but ratable")
	if _, err := CreateRating(ctx, database, item.ID, rater.ID, 4, nil, nil, ""); err != nil {
		t.Errorf("rating an unprocessed item: %v", err)
	}

	baled := createTestItem(t, database, owner.ID, "Baled and ratable")
	MarkItemBaled(ctx, database, baled.ID, gestor.Role)
	if _, err := CreateRating(ctx, database, baled.ID, rater.ID, 4, nil, nil, ""); err != nil {
		t.Errorf("rating a baled item: %v", err)
	}
}
