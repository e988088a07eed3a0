package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/nmolina/reciclo/internal/model"
	"github.com/nmolina/reciclo/internal/store"
)

// UsersHandler handles user profile endpoints.
type UsersHandler struct {
	DB *sql.DB
}

type publicProfile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
	Ratings  struct {
		Count    int                  `json:"count"`
		Averages model.RatingAverages `json:"averages"`
	} `json:"ratings"`
}

// Get handles GET /api/users/{id}: the public profile including the
// reputation aggregate.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	ratings, averages, err := store.GetRatingsForUser(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, err)
		return
	}

	profile := publicProfile{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		Phone:    user.Phone,
		Location: user.Location,
		Bio:      user.Bio,
	}
	profile.Ratings.Count = len(ratings)
	profile.Ratings.Averages = averages

	jsonResponse(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// UpdateMe handles PUT /api/users/me.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := store.UpdateUserProfile(r.Context(), h.DB, claims.UserID,
		req.Name, req.Email, req.Phone, req.Location, req.Bio)
	if err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, user)
}
