package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// Account is the durable account record.
type Account struct {
	ID       int64
	Username string
}

// ErrAccountExists is returned by CreateAccount for a taken username.
var ErrAccountExists = errors.New("account already exists")

// dummyHash keeps ValidateLogin constant-time when the user is missing:
// the bcrypt compare runs against this hash instead of returning early.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("realmd-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// GetAccount retrieves an account by id. Returns nil, nil when missing.
func (d *DB) GetAccount(ctx context.Context, id int64) (*Account, error) {
	var acc Account
	err := d.pool.QueryRow(ctx,
		`SELECT id, username FROM accounts WHERE id = $1`, id,
	).Scan(&acc.ID, &acc.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying account %d: %w", id, err)
	}
	return &acc, nil
}

// CreateAccount inserts a new account with a bcrypt password hash.
func (d *DB) CreateAccount(ctx context.Context, username, password string) (*Account, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, errors.New("empty username or password")
	}

	var exists bool
	if err := d.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)`, username,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking username %q: %w", username, err)
	}
	if exists {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	var id int64
	if err := d.pool.QueryRow(ctx,
		`INSERT INTO accounts (username, password_hash) VALUES ($1, $2) RETURNING id`,
		username, string(hash),
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("creating account %q: %w", username, err)
	}

	slog.Info("account created", "username", username, "accountID", id)
	return &Account{ID: id, Username: username}, nil
}

// ValidateLogin checks credentials. The bcrypt compare always runs — against
// a dummy hash when the user does not exist — so response time does not
// reveal account existence. Returns nil, nil on any failure.
func (d *DB) ValidateLogin(ctx context.Context, username, password string) (*Account, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	var acc Account
	var hash string
	err := d.pool.QueryRow(ctx,
		`SELECT id, username, password_hash FROM accounts WHERE username = $1`, username,
	).Scan(&acc.ID, &acc.Username, &hash)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("querying account %q: %w", username, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, nil
	}
	return &acc, nil
}
