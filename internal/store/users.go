package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nmolina/reciclo/internal/apperr"
	"github.com/nmolina/reciclo/internal/model"
)

const userColumns = `id, name, email, password_hash, role, phone, location, bio, created_at, deleted_at`

// CreateUser creates a new account. Emails are unique among active users;
// the partial unique index arbitrates concurrent registrations.
func CreateUser(ctx context.Context, db *sql.DB, name, email, passwordHash, role string) (*model.User, error) {
	if !model.ValidRole(role) {
		return nil, apperr.Newf(apperr.CodeInvalid, "unknown role %q", role)
	}

	result, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (name, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		name, email, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	if affected == 0 {
		return nil, apperr.New(apperr.CodeConflict, "email is already registered")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}
	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	var phone, location, bio sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &phone, &location, &bio, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u.Phone = phone.String
	u.Location = location.String
	u.Bio = bio.String
	return u, nil
}

// GetUserByEmail returns an active user by email.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u := &model.User{}
	var phone, location, bio sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? AND deleted_at IS NULL`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &phone, &location, &bio, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	u.Phone = phone.String
	u.Location = location.String
	u.Bio = bio.String
	return u, nil
}

// ListUsers returns all non-deleted users.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE deleted_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var phone, location, bio sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &phone, &location, &bio, &u.CreatedAt, &u.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Phone = phone.String
		u.Location = location.String
		u.Bio = bio.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserProfile updates a user's own profile fields. An email change
// must not collide with another active account.
func UpdateUserProfile(ctx context.Context, db *sql.DB, id int64, name, email, phone, location, bio string) (*model.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.New(apperr.CodeInvalid, "name is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, apperr.New(apperr.CodeInvalid, "email is required")
	}
	if len(bio) > model.MaxObservations {
		return nil, apperr.Newf(apperr.CodeInvalid, "bio must be at most %d characters", model.MaxObservations)
	}

	other, err := GetUserByEmail(ctx, db, email)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, apperr.New(apperr.CodeConflict, "email is already in use")
	}

	_, err = db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, phone = ?, location = ?, bio = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		name, email, phone, location, bio, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating user profile: %w", err)
	}
	return GetUser(ctx, db, id)
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// PromoteUser promotes a regular user to gestor. Only accounts currently in
// the user role can be promoted.
func PromoteUser(ctx context.Context, db *sql.DB, id int64) error {
	u, err := GetUser(ctx, db, id)
	if err != nil {
		return err
	}
	if u == nil || u.DeletedAt != nil {
		return apperr.New(apperr.CodeNotFound, "user not found")
	}
	if u.Role != model.RoleUser {
		return apperr.Newf(apperr.CodeInvalidState, "only accounts with the %q role can be promoted", model.RoleUser)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE users SET role = ? WHERE id = ? AND deleted_at IS NULL`,
		model.RoleGestor, id,
	)
	if err != nil {
		return fmt.Errorf("promoting user: %w", err)
	}
	return nil
}
