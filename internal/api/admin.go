package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nmolina/reciclo/internal/model"
	"github.com/nmolina/reciclo/internal/store"
)

// AdminHandler handles the admin dashboard endpoints.
type AdminHandler struct {
	DB *sql.DB
}

// Metrics handles GET /api/admin/metrics.
func (h *AdminHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := store.GetAdminMetrics(r.Context(), h.DB)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, metrics)
}

// Users handles GET /api/admin/users.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Items handles GET /api/admin/items.
func (h *AdminHandler) Items(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListAllItems(r.Context(), h.DB)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Promote handles POST /api/admin/users/{id}/promote.
func (h *AdminHandler) Promote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := store.PromoteUser(r.Context(), h.DB, id); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("user promoted to gestor", "user", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user promoted to gestor"})
}
