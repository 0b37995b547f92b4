package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/veydras/realmd/internal/constants"
)

// GetVaultItems returns the account's vault slots. A missing row reads as
// an empty vault.
func (d *DB) GetVaultItems(ctx context.Context, accountID int64) ([]string, error) {
	var items []string
	err := d.pool.QueryRow(ctx,
		`SELECT items FROM vaults WHERE account_id = $1`, accountID,
	).Scan(&items)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return make([]string, constants.VaultSize), nil
		}
		return nil, fmt.Errorf("querying vault for account %d: %w", accountID, err)
	}
	// Normalize to the fixed slot count.
	normalized := make([]string, constants.VaultSize)
	copy(normalized, items)
	return normalized, nil
}

// SaveVaultItems upserts the account's vault slots.
func (d *DB) SaveVaultItems(ctx context.Context, accountID int64, items []string) error {
	slots := make([]string, constants.VaultSize)
	copy(slots, items)
	_, err := d.pool.Exec(ctx,
		`INSERT INTO vaults (account_id, items) VALUES ($1, $2)
		 ON CONFLICT (account_id) DO UPDATE SET items = EXCLUDED.items`,
		accountID, slots,
	)
	if err != nil {
		return fmt.Errorf("saving vault for account %d: %w", accountID, err)
	}
	return nil
}
