package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/sredstva/internal/model"
)

const userColumns = `id, full_name, email, password_hash, role, is_active, created_at, deleted_at`

// CreateUser creates a new active user.
func CreateUser(ctx context.Context, db DBTX, fullName, email, passwordHash, role string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (full_name, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		fullName, email, passwordHash, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

func scanUser(s scanner, u *model.User) error {
	return s.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.DeletedAt)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db DBTX, id int64) (*model.User, error) {
	u := &model.User{}
	err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	), u)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a user by email. The active account wins over any
// soft-deleted account that used the same address.
func GetUserByEmail(ctx context.Context, db DBTX, email string) (*model.User, error) {
	u := &model.User{}
	err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?
		 ORDER BY deleted_at IS NULL DESC, id DESC LIMIT 1`, email,
	), u)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns all non-deleted users.
func ListUsers(ctx context.Context, db DBTX) ([]model.User, error) {
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
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser updates a user's role and active flag.
func UpdateUser(ctx context.Context, db DBTX, id int64, role string, active bool) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE users SET role = ?, is_active = ? WHERE id = ? AND deleted_at IS NULL`,
		role, active, id,
	)
	if err != nil {
		return false, fmt.Errorf("updating user: %w", err)
	}
	return rowsAffected(result)
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db DBTX, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// DeleteUser soft-deletes a user. It reports false if the user was missing
// or already deleted. The email becomes free for a new account.
func DeleteUser(ctx context.Context, db DBTX, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("deleting user: %w", err)
	}
	return rowsAffected(result)
}

// CountAdmins returns the number of active admin accounts.
func CountAdmins(ctx context.Context, db DBTX) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'admin' AND is_active = 1 AND deleted_at IS NULL`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return n, nil
}
