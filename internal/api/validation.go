package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/nmolina/reciclo/internal/store"
)

// ValidationHandler handles the bale validation workflow.
type ValidationHandler struct {
	DB *sql.DB
}

type validateRequest struct {
	ItemID       int64    `json:"itemId"`
	Checklist    []string `json:"checklist"`
	Observations string   `json:"observations"`
}

// Validate handles POST /api/validation/validate.
func (h *ValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req validateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.ValidateItem(r.Context(), h.DB, req.ItemID, claims.UserID, claims.Role, req.Checklist, req.Observations)
	if err != nil {
		writeError(w, err)
		return
	}

	itemsValidated.Inc()
	slog.Info("material validated", "item", item.ID, "gestor", claims.UserID)
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "material validated",
		"item": map[string]any{
			"id":              item.ID,
			"processingState": item.ProcessingState,
			"validatedBy":     item.ValidatedBy,
			"validationDate":  item.ValidationDate,
		},
	})
}
