package gameserver

import (
	"context"

	"github.com/veydras/realmd/internal/db"
)

// Store is the persistence surface the server consumes. *db.DB satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	GetAccount(ctx context.Context, id int64) (*db.Account, error)
	CreateAccount(ctx context.Context, username, password string) (*db.Account, error)
	ValidateLogin(ctx context.Context, username, password string) (*db.Account, error)

	CreateSession(ctx context.Context, accountID int64) (string, error)
	ValidateSession(ctx context.Context, token string) (*db.Account, error)
	RevokeSession(ctx context.Context, token string) error

	CreateCharacter(ctx context.Context, accountID int64, name, classID string) (*db.Character, error)
	GetCharacter(ctx context.Context, id int64) (*db.Character, error)
	GetAliveCharactersByAccount(ctx context.Context, accountID int64) ([]*db.Character, error)
	SaveCharacter(ctx context.Context, c *db.Character) error
	KillCharacter(ctx context.Context, id int64) error

	GetVaultItems(ctx context.Context, accountID int64) ([]string, error)
	SaveVaultItems(ctx context.Context, accountID int64, items []string) error
}
