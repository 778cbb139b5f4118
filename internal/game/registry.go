package game

import (
	"strings"
	"sync"

	"github.com/NaEunMin/NetworkProgrammingProject/internal/shared/logger"
)

// MinRoundSeconds clamps the configured duration of a new room.
const MinRoundSeconds = 10

type RegistryConfig struct {
	Rows      int
	Cols      int
	Words     []string
	Sentences []string
	Scheduler Scheduler
}

// Registry owns the live room directory and the set of connections currently
// viewing the lobby. It is created at server start and injected everywhere a
// room or session needs it; there is no package-level state. The registry
// lock is never held while calling into a room, and rooms call back only
// outside their own lock, so the two locks never nest in both orders.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*GameRoom
	lobby map[Player]struct{}

	sched     Scheduler
	sentences *SentencePool
	words     []string
	rows      int
	cols      int
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Rows <= 0 {
		cfg.Rows = 8
	}
	if cfg.Cols <= 0 {
		cfg.Cols = 12
	}
	if len(cfg.Words) == 0 {
		cfg.Words = fallbackWords
	}
	if len(cfg.Sentences) == 0 {
		cfg.Sentences = fallbackSentences
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewScheduler()
	}
	return &Registry{
		rooms:     make(map[string]*GameRoom),
		lobby:     make(map[Player]struct{}),
		sched:     cfg.Scheduler,
		sentences: NewSentencePool(cfg.Sentences),
		words:     cfg.Words,
		rows:      cfg.Rows,
		cols:      cfg.Cols,
	}
}

// NewGameModel builds one round's truth: fresh board, fresh index, fresh
// word pool.
func (reg *Registry) NewGameModel(seconds int) *GameModel {
	board := NewBoard(reg.rows, reg.cols)
	ix := NewTokenIndex()
	FillBoard(board, ix, reg.words)
	pool := WordPoolFromBoard(board, reg.words)
	return NewGameModel(board, ix, seconds, MaxFlipsPerInput, pool)
}

// CreateRoom makes a new room with the creator seated on their chosen team.
// A duplicate name is rejected with a failure sent only to the requester.
func (reg *Registry) CreateRoom(creator Player, req CreateRoomRequest) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		creator.Send(MsgOperationFailure, OperationFailurePayload{Reason: "room name is required"})
		return
	}
	duration := req.DurationSec
	if duration < MinRoundSeconds {
		duration = MinRoundSeconds
	}

	room := NewGameRoom(name, req.Password, duration, reg, reg.sched, reg.sentences, reg.NewGameModel)

	// Seat the creator before the room is discoverable; a joiner racing the
	// same name must never be able to take the chosen team.
	if !room.AddPlayer(creator, req.ChosenTeam) {
		creator.Send(MsgOperationFailure, OperationFailurePayload{Reason: "could not take the chosen seat"})
		return
	}

	reg.mu.Lock()
	if _, exists := reg.rooms[name]; exists {
		reg.mu.Unlock()
		// the discarded room is unreachable; only the creator's back
		// reference needs undoing
		creator.SetRoom(nil)
		creator.Send(MsgOperationFailure, OperationFailurePayload{Reason: "a room with that name already exists"})
		return
	}
	reg.rooms[name] = room
	reg.mu.Unlock()

	reg.UnregisterLobby(creator)
	logger.Infof("[Lobby] %s created room %q", creator.Nickname(), name)

	creator.Send(MsgEnterWaitingRoom, EnterWaitingRoomPayload{
		Room:         room.Summary(),
		Players:      room.Roster(),
		AssignedTeam: req.ChosenTeam,
	})
	reg.BroadcastRoomUpdated(room.Summary())
}

// JoinRoom seats the joiner on the free team of an existing room. Missing
// room, wrong password and full room are all failures reported only to the
// requester.
func (reg *Registry) JoinRoom(joiner Player, req JoinRoomRequest) {
	reg.mu.RLock()
	room, ok := reg.rooms[req.Name]
	reg.mu.RUnlock()

	if !ok {
		joiner.Send(MsgOperationFailure, OperationFailurePayload{Reason: "no such room"})
		return
	}
	if !room.CheckPassword(req.Password) {
		joiner.Send(MsgOperationFailure, OperationFailurePayload{Reason: "wrong password"})
		return
	}
	team, free := room.FreeSeat()
	if !free || !room.AddPlayer(joiner, team) {
		joiner.Send(MsgOperationFailure, OperationFailurePayload{Reason: "no free seat in that room"})
		return
	}

	reg.UnregisterLobby(joiner)
	logger.Infof("[Lobby] %s joined room %q as %s", joiner.Nickname(), req.Name, team)

	joiner.Send(MsgEnterWaitingRoom, EnterWaitingRoomPayload{
		Room:         room.Summary(),
		Players:      room.Roster(),
		AssignedTeam: team,
	})
	room.BroadcastRoster()
	reg.BroadcastRoomUpdated(room.Summary())
}

// RemoveRoom drops the room from the directory and announces the removal to
// every lobby connection.
func (reg *Registry) RemoveRoom(name string) {
	reg.mu.Lock()
	_, ok := reg.rooms[name]
	delete(reg.rooms, name)
	reg.mu.Unlock()
	if ok {
		reg.broadcastToLobby(MsgRoomRemoved, RoomRemovedPayload{Name: name})
	}
}

// RegisterLobby adds p to the lobby set and sends the current room list.
func (reg *Registry) RegisterLobby(p Player) {
	reg.mu.Lock()
	reg.lobby[p] = struct{}{}
	reg.mu.Unlock()
	reg.SendRoomList(p)
}

func (reg *Registry) UnregisterLobby(p Player) {
	reg.mu.Lock()
	delete(reg.lobby, p)
	reg.mu.Unlock()
}

func (reg *Registry) SendRoomList(p Player) {
	p.Send(MsgRoomList, RoomListPayload{Rooms: reg.roomSummaries()})
}

func (reg *Registry) BroadcastRoomUpdated(summary RoomSummary) {
	reg.broadcastToLobby(MsgRoomUpdated, summary)
}

func (reg *Registry) roomSummaries() []RoomSummary {
	reg.mu.RLock()
	rooms := make([]*GameRoom, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	reg.mu.RUnlock()

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, room.Summary())
	}
	return summaries
}

func (reg *Registry) broadcastToLobby(msgType string, payload any) {
	reg.mu.RLock()
	targets := make([]Player, 0, len(reg.lobby))
	for p := range reg.lobby {
		targets = append(targets, p)
	}
	reg.mu.RUnlock()

	for _, p := range targets {
		p.Send(msgType, payload)
	}
}
