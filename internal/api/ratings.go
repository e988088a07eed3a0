package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/nmolina/reciclo/internal/model"
	"github.com/nmolina/reciclo/internal/store"
)

// RatingsHandler handles reputation endpoints.
type RatingsHandler struct {
	DB *sql.DB
}

type createRatingRequest struct {
	ItemID             int64  `json:"itemId"`
	MaterialQuality    int    `json:"materialQuality"`
	Punctuality        *int   `json:"punctuality"`
	StandardCompliance *int   `json:"standardCompliance"`
	Comment            string `json:"comment"`
}

// Create handles POST /api/ratings.
func (h *RatingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createRatingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rating, err := store.CreateRating(r.Context(), h.DB, req.ItemID, claims.UserID,
		req.MaterialQuality, req.Punctuality, req.StandardCompliance, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}

	ratingsSubmitted.Inc()
	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "rating submitted",
		"rating":  rating,
	})
}

type userRatingsResponse struct {
	Ratings  []model.Rating       `json:"ratings"`
	Averages model.RatingAverages `json:"averages"`
	Total    int                  `json:"total"`
}

// ForUser handles GET /api/ratings/user/{userId}.
func (h *RatingsHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ratings, averages, err := store.GetRatingsForUser(r.Context(), h.DB, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if ratings == nil {
		ratings = []model.Rating{}
	}

	jsonResponse(w, http.StatusOK, userRatingsResponse{
		Ratings:  ratings,
		Averages: averages,
		Total:    len(ratings),
	})
}
