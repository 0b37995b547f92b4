package db

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/veydras/realmd/internal/constants"
)

// CreateSession issues a fresh session token for the account. Expired
// sessions are swept opportunistically on every creation.
func (d *DB) CreateSession(ctx context.Context, accountID int64) (string, error) {
	if _, err := d.pool.Exec(ctx,
		`DELETE FROM sessions WHERE expires_at < now()`,
	); err != nil {
		return "", fmt.Errorf("sweeping expired sessions: %w", err)
	}

	raw := make([]byte, constants.SessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	token := hex.EncodeToString(raw)

	if _, err := d.pool.Exec(ctx,
		`INSERT INTO sessions (token, account_id, expires_at) VALUES ($1, $2, $3)`,
		token, accountID, time.Now().Add(constants.SessionLifetime),
	); err != nil {
		return "", fmt.Errorf("creating session for account %d: %w", accountID, err)
	}
	return token, nil
}

// ValidateSession resolves a token to its account, or nil for unknown or
// expired tokens.
func (d *DB) ValidateSession(ctx context.Context, token string) (*Account, error) {
	var acc Account
	err := d.pool.QueryRow(ctx,
		`SELECT a.id, a.username
		 FROM sessions s JOIN accounts a ON a.id = s.account_id
		 WHERE s.token = $1 AND s.expires_at > now()`, token,
	).Scan(&acc.ID, &acc.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("validating session: %w", err)
	}
	return &acc, nil
}

// RevokeSession deletes a token. Unknown tokens are a no-op.
func (d *DB) RevokeSession(ctx context.Context, token string) error {
	if _, err := d.pool.Exec(ctx,
		`DELETE FROM sessions WHERE token = $1`, token,
	); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}
