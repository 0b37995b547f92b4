package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/model"
)

// Character is the durable character record.
type Character struct {
	ID        int64
	AccountID int64
	Name      string
	ClassID   string

	Level int
	Exp   int
	HP    int
	MaxHP int
	MP    int
	MaxMP int
	Stats content.Stats

	Equipment [constants.EquipmentSize]string
	Inventory [constants.InventorySize]string

	Alive    bool
	Counters model.Counters
}

// Errors surfaced by character creation.
var (
	ErrUnknownClass = errors.New("unknown class")
	ErrClassCapFull = errors.New("class character cap reached")
)

const characterColumns = `id, account_id, name, class_id, level, exp,
	hp, max_hp, mp, max_mp, attack, defense, speed, dexterity, vitality, wisdom,
	equipment, inventory, alive,
	damage_dealt, damage_taken, shots, abilities, enemies_killed, dungeons_cleared, time_played`

func scanCharacter(row pgx.Row) (*Character, error) {
	var c Character
	var equipment, inventory []string
	err := row.Scan(
		&c.ID, &c.AccountID, &c.Name, &c.ClassID, &c.Level, &c.Exp,
		&c.HP, &c.MaxHP, &c.MP, &c.MaxMP,
		&c.Stats.Attack, &c.Stats.Defense, &c.Stats.Speed,
		&c.Stats.Dexterity, &c.Stats.Vitality, &c.Stats.Wisdom,
		&equipment, &inventory, &c.Alive,
		&c.Counters.DamageDealt, &c.Counters.DamageTaken, &c.Counters.Shots,
		&c.Counters.Abilities, &c.Counters.EnemiesKilled,
		&c.Counters.DungeonsCleared, &c.Counters.TimePlayed,
	)
	if err != nil {
		return nil, err
	}
	copy(c.Equipment[:], equipment)
	copy(c.Inventory[:], inventory)
	return &c, nil
}

// CreateCharacter creates a fresh level-1 character of the class with the
// given name. At most two alive characters per class per account.
func (d *DB) CreateCharacter(ctx context.Context, accountID int64, name, classID string) (*Character, error) {
	class := content.GetClass(classID)
	if class == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, classID)
	}

	var aliveOfClass int
	if err := d.pool.QueryRow(ctx,
		`SELECT count(*) FROM characters WHERE account_id = $1 AND class_id = $2 AND alive`,
		accountID, classID,
	).Scan(&aliveOfClass); err != nil {
		return nil, fmt.Errorf("counting alive characters: %w", err)
	}
	if aliveOfClass >= constants.MaxAlivePerClass {
		return nil, ErrClassCapFull
	}

	c := &Character{
		AccountID: accountID,
		Name:      name,
		ClassID:   classID,
		Level:     1,
		HP:        class.StartHP,
		MaxHP:     class.StartHP,
		MP:        class.StartMP,
		MaxMP:     class.StartMP,
		Stats:     class.Start,
		Equipment: class.StarterItems,
		Alive:     true,
	}

	err := d.pool.QueryRow(ctx,
		`INSERT INTO characters (account_id, name, class_id, level, exp,
		   hp, max_hp, mp, max_mp, attack, defense, speed, dexterity, vitality, wisdom,
		   equipment, inventory, alive)
		 VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, TRUE)
		 RETURNING id`,
		accountID, name, classID, c.Level,
		c.HP, c.MaxHP, c.MP, c.MaxMP,
		c.Stats.Attack, c.Stats.Defense, c.Stats.Speed,
		c.Stats.Dexterity, c.Stats.Vitality, c.Stats.Wisdom,
		c.Equipment[:], c.Inventory[:],
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("creating character for account %d: %w", accountID, err)
	}
	return c, nil
}

// GetCharacter retrieves a character by id. Returns nil, nil when missing.
func (d *DB) GetCharacter(ctx context.Context, id int64) (*Character, error) {
	c, err := scanCharacter(d.pool.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying character %d: %w", id, err)
	}
	return c, nil
}

// GetAliveCharactersByAccount lists the account's living characters.
func (d *DB) GetAliveCharactersByAccount(ctx context.Context, accountID int64) ([]*Character, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT `+characterColumns+` FROM characters
		 WHERE account_id = $1 AND alive ORDER BY id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying characters for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var out []*Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveCharacter persists the full mutable state of a character.
func (d *DB) SaveCharacter(ctx context.Context, c *Character) error {
	_, err := d.pool.Exec(ctx,
		`UPDATE characters SET
		   level = $2, exp = $3, hp = $4, max_hp = $5, mp = $6, max_mp = $7,
		   attack = $8, defense = $9, speed = $10, dexterity = $11, vitality = $12, wisdom = $13,
		   equipment = $14, inventory = $15,
		   damage_dealt = $16, damage_taken = $17, shots = $18, abilities = $19,
		   enemies_killed = $20, dungeons_cleared = $21, time_played = $22
		 WHERE id = $1`,
		c.ID, c.Level, c.Exp, c.HP, c.MaxHP, c.MP, c.MaxMP,
		c.Stats.Attack, c.Stats.Defense, c.Stats.Speed,
		c.Stats.Dexterity, c.Stats.Vitality, c.Stats.Wisdom,
		c.Equipment[:], c.Inventory[:],
		c.Counters.DamageDealt, c.Counters.DamageTaken, c.Counters.Shots,
		c.Counters.Abilities, c.Counters.EnemiesKilled,
		c.Counters.DungeonsCleared, c.Counters.TimePlayed,
	)
	if err != nil {
		return fmt.Errorf("saving character %d: %w", c.ID, err)
	}
	return nil
}

// KillCharacter latches a character dead. Permadeath: the record stays for
// history but never appears in alive listings again.
func (d *DB) KillCharacter(ctx context.Context, id int64) error {
	_, err := d.pool.Exec(ctx,
		`UPDATE characters SET alive = FALSE, hp = 0, died_at = $2 WHERE id = $1`,
		id, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("killing character %d: %w", id, err)
	}
	return nil
}
