package gameserver

import (
	"context"
	"fmt"
	"sync"

	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/db"
)

// fakeStore is an in-memory Store for session-layer tests.
type fakeStore struct {
	mu         sync.Mutex
	accounts   map[int64]*db.Account
	passwords  map[string]string // username → password
	sessions   map[string]int64  // token → accountID
	characters map[int64]*db.Character
	vaults     map[int64][]string
	nextID     int64
	tokenSeq   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:   make(map[int64]*db.Account),
		passwords:  make(map[string]string),
		sessions:   make(map[string]int64),
		characters: make(map[int64]*db.Character),
		vaults:     make(map[int64][]string),
	}
}

func (f *fakeStore) GetAccount(_ context.Context, id int64) (*db.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[id], nil
}

func (f *fakeStore) CreateAccount(_ context.Context, username, password string) (*db.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.passwords[username]; taken {
		return nil, db.ErrAccountExists
	}
	f.nextID++
	acc := &db.Account{ID: f.nextID, Username: username}
	f.accounts[acc.ID] = acc
	f.passwords[username] = password
	return acc, nil
}

func (f *fakeStore) ValidateLogin(_ context.Context, username, password string) (*db.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passwords[username] != password || password == "" {
		return nil, nil
	}
	for _, acc := range f.accounts {
		if acc.Username == username {
			return acc, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateSession(_ context.Context, accountID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenSeq++
	token := fmt.Sprintf("token-%d", f.tokenSeq)
	f.sessions[token] = accountID
	return token, nil
}

func (f *fakeStore) ValidateSession(_ context.Context, token string) (*db.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.sessions[token]
	if !ok {
		return nil, nil
	}
	return f.accounts[id], nil
}

func (f *fakeStore) RevokeSession(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func (f *fakeStore) CreateCharacter(_ context.Context, accountID int64, name, classID string) (*db.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	class := content.GetClass(classID)
	if class == nil {
		return nil, db.ErrUnknownClass
	}
	alive := 0
	for _, c := range f.characters {
		if c.AccountID == accountID && c.ClassID == classID && c.Alive {
			alive++
		}
	}
	if alive >= constants.MaxAlivePerClass {
		return nil, db.ErrClassCapFull
	}
	f.nextID++
	c := &db.Character{
		ID: f.nextID, AccountID: accountID, Name: name, ClassID: classID,
		Level: 1, HP: class.StartHP, MaxHP: class.StartHP,
		MP: class.StartMP, MaxMP: class.StartMP,
		Stats: class.Start, Equipment: class.StarterItems, Alive: true,
	}
	f.characters[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetCharacter(_ context.Context, id int64) (*db.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.characters[id], nil
}

func (f *fakeStore) GetAliveCharactersByAccount(_ context.Context, accountID int64) ([]*db.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*db.Character
	for _, c := range f.characters {
		if c.AccountID == accountID && c.Alive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveCharacter(_ context.Context, c *db.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.characters[c.ID]; ok && existing.Alive {
		copied := *c
		f.characters[c.ID] = &copied
	}
	return nil
}

func (f *fakeStore) KillCharacter(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.characters[id]; ok {
		c.Alive = false
		c.HP = 0
	}
	return nil
}

func (f *fakeStore) GetVaultItems(_ context.Context, accountID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]string, constants.VaultSize)
	copy(items, f.vaults[accountID])
	return items, nil
}

func (f *fakeStore) SaveVaultItems(_ context.Context, accountID int64, items []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	slots := make([]string, constants.VaultSize)
	copy(slots, items)
	f.vaults[accountID] = slots
	return nil
}
