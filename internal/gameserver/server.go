// Package gameserver is the session and orchestration layer: WebSocket
// accept, message dispatch, instance lifecycle, cross-instance transfer,
// vaults, dungeons and autosave.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/veydras/realmd/internal/config"
	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/db"
	"github.com/veydras/realmd/internal/game"
	"github.com/veydras/realmd/internal/geom"
	"github.com/veydras/realmd/internal/instance"
	"github.com/veydras/realmd/internal/model"
	"github.com/veydras/realmd/internal/protocol"
	"github.com/veydras/realmd/internal/ticker"
)

// Standing instance ids.
const (
	NexusID = "nexus-main"
	RealmID = "realm-main"

	// VaultSentinel is the portal target that resolves to the entering
	// account's own vault.
	VaultSentinel = "vault"
)

type vaultState struct {
	inst  *instance.Instance
	items []string
}

// Server owns all instances and sessions.
type Server struct {
	cfg    config.Server
	store  Store
	loop   *ticker.Loop
	admins *AdminList
	table  *Table

	ctx context.Context

	mu         sync.Mutex
	instances  map[string]*instance.Instance
	vaults     map[int64]*vaultState
	dungeonSeq atomic.Int64

	nexus       *instance.Instance
	realm       *instance.Instance
	nexusLayout *game.NexusLayout
}

// NewServer wires the orchestrator. Bootstrap must run before Run.
func NewServer(cfg config.Server, store Store, loop *ticker.Loop, admins *AdminList) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		loop:      loop,
		admins:    admins,
		table:     NewTable(),
		instances: make(map[string]*instance.Instance),
		vaults:    make(map[int64]*vaultState),
	}
}

// hooks builds the instance callbacks for this server.
func (s *Server) hooks() instance.Hooks {
	return instance.Hooks{
		Send: func(playerID model.EntityID, msgType string, data any) {
			if c := s.table.Get(playerID); c != nil {
				c.SendMessage(msgType, data)
			}
		},
		OnPlayerDeath:   s.handlePlayerDeath,
		OnDungeonPortal: s.mintDungeon,
		OnBossKilled:    s.addReturnPortal,
	}
}

// Bootstrap creates the standing nexus and realm instances and wires their
// portals.
func (s *Server) Bootstrap(ctx context.Context) {
	s.ctx = ctx

	s.nexusLayout = game.BuildNexus()
	s.nexus = instance.New(NexusID, model.KindNexus, s.nexusLayout.Map, s.hooks())

	realmLayout := game.BuildRealm(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	s.realm = instance.New(RealmID, model.KindRealm, realmLayout.Map, s.hooks())

	now := time.Now()
	s.nexus.AddPortal(model.NewPortal(s.nexusLayout.RealmPortal, RealmID, model.KindRealm, "Realm", now, time.Time{}))
	s.nexus.AddPortal(model.NewPortal(s.nexusLayout.VaultPortal, VaultSentinel, model.KindVault, "Vault", now, time.Time{}))
	s.realm.AddPortal(model.NewPortal(realmLayout.NexusPortal, NexusID, model.KindNexus, "Nexus", now, time.Time{}))

	s.mu.Lock()
	s.instances[NexusID] = s.nexus
	s.instances[RealmID] = s.realm
	s.mu.Unlock()

	s.loop.Register(NexusID, s.nexus)
	s.loop.Register(RealmID, s.realm)
	slog.Info("standing instances created", "nexus", NexusID, "realm", RealmID)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// checkOrigin accepts connections with no Origin header or an allowlisted
// one.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// Run serves the WebSocket endpoint until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWS)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("websocket server: %w", err)
	}
}

// handleWS upgrades one connection; the path is ignored.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}
	up := upgrader
	up.CheckOrigin = func(*http.Request) bool { return true } // already checked
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(s, conn)
	go c.writePump()
	go c.readPump()
}

// characterInfos lists an account's living characters for the client.
func (s *Server) characterInfos(accountID int64) []protocol.CharacterInfo {
	chars, err := s.store.GetAliveCharactersByAccount(s.ctx, accountID)
	if err != nil {
		slog.Error("listing characters", "accountID", accountID, "error", err)
		return nil
	}
	infos := make([]protocol.CharacterInfo, 0, len(chars))
	for _, ch := range chars {
		infos = append(infos, protocol.CharacterInfo{
			ID:      ch.ID,
			Name:    ch.Name,
			ClassID: ch.ClassID,
			Level:   ch.Level,
		})
	}
	return infos
}

// enterWorld materializes a character record as a player entity in the
// nexus.
func (s *Server) enterWorld(c *Client, rec *db.Character) {
	p := playerFromRecord(rec)
	s.table.Register(p.ID(), c)
	c.mu.Lock()
	c.characterID = rec.ID
	c.mu.Unlock()

	s.nexus.Enqueue(func(in *instance.Instance) {
		in.AddPlayer(p)
		c.setResident(p, in)
		c.SendMessage(protocol.MsgInstanceChange, instanceChangePayload(in, p))
	})
}

// transfer moves a resident player between instances atomically from the
// player's perspective. Runs on the tick goroutine of the source instance.
func (s *Server) transfer(c *Client, from *instance.Instance, p *model.Player, to *instance.Instance) {
	if to == nil || from == to {
		return
	}
	if from.RemovePlayer(p.ID()) == nil {
		return
	}
	to.AddPlayer(p)
	c.setResident(p, to)
	c.SendMessage(protocol.MsgInstanceChange, instanceChangePayload(to, p))
	s.afterLeave(c, from)
}

// resolvePortal routes a portal entry: the vault sentinel lazily creates
// the per-account vault; other portals resolve by instance id.
func (s *Server) resolvePortal(c *Client, from *instance.Instance, p *model.Player, portal *model.Portal) {
	if portal.TargetInstance == VaultSentinel {
		acc := c.Account()
		if acc == nil {
			return
		}
		vault := s.ensureVault(acc.ID)
		s.transfer(c, from, p, vault)
		return
	}

	s.mu.Lock()
	target := s.instances[portal.TargetInstance]
	s.mu.Unlock()
	if target == nil {
		slog.Debug("portal to missing instance", "target", portal.TargetInstance)
		return
	}
	// A vault portal only ever leads to the entrant's own vault.
	if target.Kind == model.KindVault && !c.ownVault(target) {
		slog.Debug("foreign vault entry dropped", "instance", target.ID)
		return
	}
	s.transfer(c, from, p, target)
}

// ensureVault returns the account's vault instance, creating it lazily.
func (s *Server) ensureVault(accountID int64) *instance.Instance {
	id := vaultInstanceID(accountID)

	s.mu.Lock()
	if v, ok := s.vaults[accountID]; ok {
		s.mu.Unlock()
		return v.inst
	}
	s.mu.Unlock()

	items, err := s.store.GetVaultItems(s.ctx, accountID)
	if err != nil {
		slog.Error("loading vault", "accountID", accountID, "error", err)
		items = make([]string, constants.VaultSize)
	}

	layout := game.BuildVault()
	inst := instance.New(id, model.KindVault, layout.Map, s.hooks())
	inst.AddChest(model.NewVaultChest(layout.Chest))
	inst.AddPortal(model.NewPortal(layout.NexusPortal, NexusID, model.KindNexus, "Nexus", time.Now(), time.Time{}))

	s.mu.Lock()
	s.vaults[accountID] = &vaultState{inst: inst, items: items}
	s.instances[id] = inst
	s.mu.Unlock()

	s.loop.Register(id, inst)
	slog.Info("vault instance created", "instance", id)
	return inst
}

// mintDungeon creates a dungeon instance on demand: fresh id, procedural
// map, bulk initial spawn, source link. Returns the new instance id.
func (s *Server) mintDungeon(source *instance.Instance, dungeonDefID string, pos geom.Vec2) string {
	def := content.GetDungeon(dungeonDefID)
	if def == nil {
		return ""
	}
	id := fmt.Sprintf("dungeon-%d", s.dungeonSeq.Add(1))

	layout := game.GenerateDungeon(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), def)
	inst := instance.New(id, model.KindDungeon, layout.Map, s.hooks())
	inst.Dungeon = &instance.DungeonMeta{
		DefID:            def.ID,
		BossCenter:       layout.BossCenter,
		SourceInstanceID: source.ID,
	}
	inst.BulkSpawn()

	s.mu.Lock()
	s.instances[id] = inst
	s.mu.Unlock()
	s.loop.Register(id, inst)

	slog.Info("dungeon minted", "instance", id, "dungeon", def.ID, "source", source.ID)
	return id
}

// addReturnPortal plants a permanent portal back to the dungeon's source
// instance at the dead boss's position.
func (s *Server) addReturnPortal(in *instance.Instance, boss *model.Enemy) {
	target := in.Dungeon.SourceInstanceID
	s.mu.Lock()
	source := s.instances[target]
	s.mu.Unlock()
	kind := model.KindRealm
	name := "Realm"
	if source != nil {
		kind = source.Kind
		name = string(source.Kind)
	}
	in.AddPortal(model.NewPortal(boss.Pos, target, kind, name, time.Now(), time.Time{}))
	slog.Info("dungeon cleared", "instance", in.ID, "returnTo", target)
}

// afterLeave reaps on-demand instances the moment their last player
// leaves. Runs on the tick goroutine.
func (s *Server) afterLeave(c *Client, in *instance.Instance) {
	if in.PlayerCount() > 0 {
		return
	}
	switch in.Kind {
	case model.KindDungeon:
		s.destroyInstance(in.ID)
		slog.Info("empty dungeon reaped", "instance", in.ID)
	case model.KindVault:
		if acc := c.Account(); acc != nil && c.ownVault(in) {
			s.persistVault(acc.ID)
			s.mu.Lock()
			delete(s.vaults, acc.ID)
			s.mu.Unlock()
		}
		s.destroyInstance(in.ID)
		slog.Info("empty vault released", "instance", in.ID)
	}
}

func (s *Server) destroyInstance(id string) {
	s.loop.Unregister(id)
	s.mu.Lock()
	delete(s.instances, id)
	s.mu.Unlock()
}

// handlePlayerDeath runs permadeath from the tick context: the durable
// record is latched dead, the session detaches from the instance and gets
// a fresh character list.
func (s *Server) handlePlayerDeath(p *model.Player, killer string) {
	c := s.table.Get(p.ID())
	s.table.Unregister(p.ID())

	characterID := p.CharacterID
	accountID := p.AccountID
	go func() {
		if err := s.store.KillCharacter(s.ctx, characterID); err != nil {
			slog.Error("recording permadeath", "characterID", characterID, "error", err)
		}
		if c != nil {
			c.SendMessage(protocol.MsgCharacterList, protocol.CharacterList{Characters: s.characterInfos(accountID)})
		}
	}()

	if c != nil {
		c.setResident(nil, nil)
		c.mu.Lock()
		c.characterID = 0
		c.mu.Unlock()
	}
	slog.Info("character died", "characterID", characterID, "killer", killer)
}

// handleDisconnect detaches the session's player at the next tick
// boundary, saves the character and releases an empty vault.
func (s *Server) handleDisconnect(c *Client) {
	defer c.close()

	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	playerID := p.ID()
	inst.Enqueue(func(in *instance.Instance) {
		resident := in.RemovePlayer(playerID)
		if resident == nil {
			return
		}
		s.table.Unregister(playerID)
		s.saveResident(c, resident)
		s.afterLeave(c, in)
	})
}

// saveResident persists a resident player's current state asynchronously.
func (s *Server) saveResident(c *Client, p *model.Player) {
	c.mu.Lock()
	characterID := c.characterID
	c.mu.Unlock()
	if characterID == 0 {
		return
	}
	rec := recordFromPlayer(characterID, p)
	go func() {
		if err := s.store.SaveCharacter(s.ctx, rec); err != nil {
			slog.Error("saving character", "characterID", characterID, "error", err)
		}
	}()
}

// RunAutosave persists every resident character on a fixed interval.
func (s *Server) RunAutosave(ctx context.Context) error {
	interval := time.Duration(s.cfg.AutosaveInterval) * time.Second
	if interval <= 0 {
		interval = constants.AutosaveInterval
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			s.autosaveAll()
		}
	}
}

// autosaveAll snapshots characters inside each instance's tick and
// persists them off the tick goroutine.
func (s *Server) autosaveAll() {
	s.mu.Lock()
	batch := make([]*instance.Instance, 0, len(s.instances))
	for _, in := range s.instances {
		batch = append(batch, in)
	}
	s.mu.Unlock()

	for _, in := range batch {
		in.Enqueue(func(in *instance.Instance) {
			var recs []*db.Character
			in.Players(func(p *model.Player) bool {
				recs = append(recs, recordFromPlayer(p.CharacterID, p))
				return true
			})
			if len(recs) == 0 {
				return
			}
			go func() {
				for _, rec := range recs {
					if err := s.store.SaveCharacter(s.ctx, rec); err != nil {
						slog.Error("autosave", "characterID", rec.ID, "error", err)
					}
				}
			}()
		})
	}
}

// instanceChangePayload carries the full destination map to the client.
func instanceChangePayload(in *instance.Instance, p *model.Player) protocol.InstanceChange {
	tiles := make([]uint8, len(in.Map.Tiles))
	for i, t := range in.Map.Tiles {
		tiles[i] = uint8(t)
	}
	return protocol.InstanceChange{
		InstanceID: in.ID,
		Kind:       string(in.Kind),
		Width:      in.Map.Width,
		Height:     in.Map.Height,
		Tiles:      tiles,
		Spawn:      protocol.Vec{X: p.Pos.X, Y: p.Pos.Y},
		PlayerID:   p.ID().String(),
	}
}

// playerFromRecord builds the runtime entity for a durable character.
func playerFromRecord(rec *db.Character) *model.Player {
	p := model.NewPlayer(rec.ID, rec.AccountID, rec.Name, rec.ClassID, geom.Vec2{})
	p.Level = rec.Level
	p.Exp = rec.Exp
	p.HP = rec.HP
	p.MaxHP = rec.MaxHP
	p.MP = rec.MP
	p.MaxMP = rec.MaxMP
	p.Base = rec.Stats
	p.Equipment = rec.Equipment
	p.Inventory = rec.Inventory
	p.Counters = rec.Counters
	return p
}

// recordFromPlayer snapshots the runtime entity back into its durable
// form.
func recordFromPlayer(characterID int64, p *model.Player) *db.Character {
	return &db.Character{
		ID:        characterID,
		AccountID: p.AccountID,
		Name:      p.Name,
		ClassID:   p.ClassID,
		Level:     p.Level,
		Exp:       p.Exp,
		HP:        p.HP,
		MaxHP:     p.MaxHP,
		MP:        p.MP,
		MaxMP:     p.MaxMP,
		Stats:     p.Base,
		Equipment: p.Equipment,
		Inventory: p.Inventory,
		Alive:     true,
		Counters:  p.Counters,
	}
}
