package api

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nmolina/reciclo/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	validationHandler := &ValidationHandler{DB: db}
	ratingsHandler := &RatingsHandler{DB: db}
	adminHandler := &AdminHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireCapability(model.CapManageUsers)

	// Public: registration and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated session management.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Items: create/search/read open to all authenticated roles. Baling is
	// gestor-only and deletion is owner-or-admin; both rules live in the
	// store operations, which receive the caller's id and role explicitly.
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PATCH /api/items/{id}/bale", authMW(http.HandlerFunc(itemsHandler.MarkBaled)))
	mux.Handle("POST /api/items/{id}/bale", authMW(http.HandlerFunc(itemsHandler.MarkBaled)))
	mux.Handle("POST /api/items/{id}/images", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("GET /api/items/{id}/images/{n}", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Validation workflow (gestor check inside the operation).
	mux.Handle("POST /api/validation/validate", authMW(http.HandlerFunc(validationHandler.Validate)))

	// Ratings (all roles).
	mux.Handle("POST /api/ratings", authMW(http.HandlerFunc(ratingsHandler.Create)))
	mux.Handle("GET /api/ratings/user/{userId}", authMW(http.HandlerFunc(ratingsHandler.ForUser)))

	// User profiles.
	mux.Handle("GET /api/users/{id}", authMW(http.HandlerFunc(usersHandler.Get)))
	mux.Handle("PUT /api/users/me", authMW(http.HandlerFunc(usersHandler.UpdateMe)))

	// Admin dashboard.
	mux.Handle("GET /api/admin/metrics", authMW(requireAdmin(http.HandlerFunc(adminHandler.Metrics))))
	mux.Handle("GET /api/admin/users", authMW(requireAdmin(http.HandlerFunc(adminHandler.Users))))
	mux.Handle("GET /api/admin/items", authMW(requireAdmin(http.HandlerFunc(adminHandler.Items))))
	mux.Handle("POST /api/admin/users/{id}/promote", authMW(requireAdmin(http.HandlerFunc(adminHandler.Promote))))

	// Prometheus scrape endpoint.
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
