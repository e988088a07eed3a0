package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nmolina/reciclo/internal/apperr"
	"github.com/nmolina/reciclo/internal/model"
)

// ValidateItem certifies a baled material. Only gestores may validate, the
// item must be exactly in the baled state, and the checklist must contain
// exactly the four required identifiers. The state flip and the provenance
// fields (validator, checklist, observations, date) are written in a single
// conditional update, so a concurrent second validation loses the race and
// reports the state error.
func ValidateItem(ctx context.Context, db *sql.DB, itemID, requesterID int64, requesterRole string, checklist []string, observations string) (*model.Item, error) {
	if !model.RoleCan(requesterRole, model.CapValidateItem) {
		return nil, apperr.New(apperr.CodeForbidden, "only gestores can validate materials")
	}
	if err := checkChecklist(checklist); err != nil {
		return nil, err
	}
	if len(observations) > model.MaxObservations {
		return nil, apperr.Newf(apperr.CodeInvalid, "observations must be at most %d characters", model.MaxObservations)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET processing_state = ?, validated_by = ?, validation_checklist = ?,
		        validation_observations = ?, validation_date = CURRENT_TIMESTAMP,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL AND processing_state = ?`,
		model.StateValidated, requesterID, strings.Join(model.RequiredChecklist, ","),
		observations, itemID, model.StateBaled,
	)
	if err != nil {
		return nil, fmt.Errorf("validating item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("validating item: %w", err)
	}
	if affected == 0 {
		item, err := GetItem(ctx, db, itemID)
		if err != nil {
			return nil, err
		}
		if item == nil || item.DeletedAt != nil {
			return nil, apperr.New(apperr.CodeNotFound, "item not found")
		}
		return nil, apperr.Newf(apperr.CodeInvalidState,
			"item must be %q to validate, current state is %q", model.StateBaled, item.ProcessingState)
	}

	return GetItem(ctx, db, itemID)
}

// checkChecklist verifies set-equality with the required identifiers: every
// required identifier present, nothing unknown, no duplicates. Comparing by
// set rather than by count catches malformed entries with the right
// cardinality but the wrong content.
func checkChecklist(checklist []string) error {
	required := make(map[string]bool, len(model.RequiredChecklist))
	for _, id := range model.RequiredChecklist {
		required[id] = false
	}

	for _, entry := range checklist {
		seen, ok := required[entry]
		if !ok {
			return apperr.Newf(apperr.CodeInvalid, "unknown checklist item %q", entry)
		}
		if seen {
			return apperr.Newf(apperr.CodeInvalid, "duplicate checklist item %q", entry)
		}
		required[entry] = true
	}

	var missing []string
	for _, id := range model.RequiredChecklist {
		if !required[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return apperr.Newf(apperr.CodeInvalid, "checklist missing: %s", strings.Join(missing, ", "))
	}
	return nil
}
