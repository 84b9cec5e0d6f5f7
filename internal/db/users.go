package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// User represents a user account with its token balance.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	TokenBalance int       `json:"token_balance" db:"token_balance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const userColumns = `id, name, email, password_hash, token_balance, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.TokenBalance, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user account with the signup token grant and
// returns its ID.
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash string, startingBalance int) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, token_balance)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		name, email, passwordHash, startingBalance,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil, nil when not found.
func (db *DB) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email. Returns nil, nil when not
// found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// CheckEmailExists reports whether an account already uses the email.
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword replaces a user's password hash.
func (db *DB) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// SetTokenBalance overwrites a user's token balance.
func (db *DB) SetTokenBalance(ctx context.Context, userID uuid.UUID, balance int) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE users SET token_balance = $1, updated_at = NOW() WHERE id = $2`,
		balance, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set token balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// DebitTokens atomically deducts amount from the user's balance and
// returns the remaining balance. Returns pgx.ErrNoRows when the balance
// is insufficient or the user does not exist; no row is changed in that
// case.
func (db *DB) DebitTokens(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	var remaining int
	err := db.pool.QueryRow(ctx,
		`UPDATE users
		 SET token_balance = token_balance - $1, updated_at = NOW()
		 WHERE id = $2 AND token_balance >= $1
		 RETURNING token_balance`,
		amount, userID,
	).Scan(&remaining)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, err
		}
		return 0, fmt.Errorf("failed to debit tokens: %w", err)
	}
	return remaining, nil
}

// DeleteUser removes a user account.
func (db *DB) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
