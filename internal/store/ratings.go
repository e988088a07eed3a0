package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/nmolina/reciclo/internal/apperr"
	"github.com/nmolina/reciclo/internal/model"
)

// CreateRating records a rating of an item's owner by another user. The
// rated user is the item's owner at submission time, stored on the rating
// row and never re-derived. A rater can rate a given item at most once; the
// unique (item_id, rater_id) index is the final arbiter of concurrent
// duplicates. Ratings are not gated on the item's processing state.
func CreateRating(ctx context.Context, db *sql.DB, itemID, raterID int64, materialQuality int, punctuality, standardCompliance *int, comment string) (*model.Rating, error) {
	if !model.ValidScore(materialQuality) {
		return nil, apperr.New(apperr.CodeInvalid, "materialQuality must be between 1 and 5")
	}
	if punctuality != nil && !model.ValidScore(*punctuality) {
		return nil, apperr.New(apperr.CodeInvalid, "punctuality must be between 1 and 5")
	}
	if standardCompliance != nil && !model.ValidScore(*standardCompliance) {
		return nil, apperr.New(apperr.CodeInvalid, "standardCompliance must be between 1 and 5")
	}
	if len(comment) > model.MaxObservations {
		return nil, apperr.Newf(apperr.CodeInvalid, "comment must be at most %d characters", model.MaxObservations)
	}

	item, err := GetItem(ctx, db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.DeletedAt != nil {
		return nil, apperr.New(apperr.CodeNotFound, "item not found")
	}
	if item.OwnerID == raterID {
		return nil, apperr.New(apperr.CodeInvalid, "you cannot rate yourself")
	}

	// INSERT OR IGNORE leaves zero affected rows when the unique index on
	// (item_id, rater_id) rejects the insert. All other constraints were
	// checked above, so an ignored insert means a duplicate rating.
	result, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO ratings (item_id, rater_id, rated_id, material_quality, punctuality, standard_compliance, comment)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		itemID, raterID, item.OwnerID, materialQuality, punctuality, standardCompliance, comment,
	)
	if err != nil {
		return nil, fmt.Errorf("creating rating: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("creating rating: %w", err)
	}
	if affected == 0 {
		return nil, apperr.New(apperr.CodeConflict, "you already rated this item")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting rating id: %w", err)
	}
	return getRating(ctx, db, id)
}

func getRating(ctx context.Context, db *sql.DB, id int64) (*model.Rating, error) {
	r := &model.Rating{}
	var comment sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, item_id, rater_id, rated_id, material_quality, punctuality, standard_compliance, comment, created_at
		 FROM ratings WHERE id = ?`, id,
	).Scan(&r.ID, &r.ItemID, &r.RaterID, &r.RatedID, &r.MaterialQuality,
		&r.Punctuality, &r.StandardCompliance, &comment, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting rating: %w", err)
	}
	r.Comment = comment.String
	return r, nil
}

// GetRatingsForUser returns the ratings received by a user, newest first,
// together with the per-dimension averages.
//
// The averaging policy: for each dimension, if any rating supplied it, the
// average is the sum of supplied values (missing counted as zero) divided by
// the TOTAL number of ratings, rounded to one decimal. Dividing by the total
// count rather than the count of ratings that supplied the dimension is
// deliberate: sparse optional dimensions pull the score toward zero instead
// of being excluded.
func GetRatingsForUser(ctx context.Context, db *sql.DB, userID int64) ([]model.Rating, model.RatingAverages, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT r.id, r.item_id, r.rater_id, r.rated_id, r.material_quality,
		        r.punctuality, r.standard_compliance, r.comment, r.created_at,
		        u.name AS rater_name, i.title AS item_title
		 FROM ratings r
		 JOIN users u ON u.id = r.rater_id
		 JOIN items i ON i.id = r.item_id
		 WHERE r.rated_id = ?
		 ORDER BY r.created_at DESC, r.id DESC`, userID,
	)
	if err != nil {
		return nil, model.RatingAverages{}, fmt.Errorf("listing ratings: %w", err)
	}
	defer rows.Close()

	var ratings []model.Rating
	for rows.Next() {
		var r model.Rating
		var comment sql.NullString
		if err := rows.Scan(&r.ID, &r.ItemID, &r.RaterID, &r.RatedID, &r.MaterialQuality,
			&r.Punctuality, &r.StandardCompliance, &comment, &r.CreatedAt,
			&r.RaterName, &r.ItemTitle); err != nil {
			return nil, model.RatingAverages{}, fmt.Errorf("scanning rating: %w", err)
		}
		r.Comment = comment.String
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, model.RatingAverages{}, err
	}

	return ratings, computeAverages(ratings), nil
}

func computeAverages(ratings []model.Rating) model.RatingAverages {
	total := len(ratings)
	if total == 0 {
		return model.RatingAverages{}
	}

	var qualitySum, punctualitySum, complianceSum int
	var anyPunctuality, anyCompliance bool
	for _, r := range ratings {
		qualitySum += r.MaterialQuality
		if r.Punctuality != nil {
			punctualitySum += *r.Punctuality
			anyPunctuality = true
		}
		if r.StandardCompliance != nil {
			complianceSum += *r.StandardCompliance
			anyCompliance = true
		}
	}

	avg := model.RatingAverages{
		MaterialQuality: round1(float64(qualitySum) / float64(total)),
	}
	if anyPunctuality {
		avg.Punctuality = round1(float64(punctualitySum) / float64(total))
	}
	if anyCompliance {
		avg.StandardCompliance = round1(float64(complianceSum) / float64(total))
	}
	return avg
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
