package game

import (
	"strings"
	"sync"
	"time"

	"github.com/NaEunMin/NetworkProgrammingProject/internal/shared/logger"
)

const (
	MaxPlayersPerRoom  = 2
	MaxFlipsPerInput   = 1
	BonusSentenceScore = 500
	BonusSentenceCount = 5
	BonusDuration      = 20 * time.Second
)

// Player is the room-facing view of a connected session. Send must never
// block; a slow connection drops frames instead of stalling the room.
type Player interface {
	ID() string
	Nickname() string
	Send(msgType string, payload any)
	SetRoom(r *GameRoom)
}

// Directory is what a room needs from the lobby registry. Rooms call it only
// outside their own critical section.
type Directory interface {
	RemoveRoom(name string)
	BroadcastRoomUpdated(summary RoomSummary)
}

// GameRoom coordinates two seats, their ready flags, the round timers and
// the broadcast of every state transition. All room state is guarded by one
// mutex; nothing inside the critical section blocks on I/O, and the body of
// a locked method never calls back into the room.
type GameRoom struct {
	name        string
	password    string
	durationSec int

	directory Directory
	sched     Scheduler
	sentences *SentencePool
	newModel  func(seconds int) *GameModel

	mu sync.Mutex

	playerYellow Player
	playerBlue   Player
	owner        Player
	ready        map[string]bool

	playing        bool
	model          *GameModel
	initialSeconds int
	roundTimer     TimerHandle

	bonusActive    bool
	bonusActivated bool
	bonusTimer     TimerHandle
	bonusSentences []string
}

func NewGameRoom(name, password string, durationSec int, directory Directory, sched Scheduler, sentences *SentencePool, newModel func(seconds int) *GameModel) *GameRoom {
	return &GameRoom{
		name:        name,
		password:    password,
		durationSec: durationSec,
		directory:   directory,
		sched:       sched,
		sentences:   sentences,
		newModel:    newModel,
		ready:       make(map[string]bool),
	}
}

func (r *GameRoom) Name() string { return r.name }

// CheckPassword accepts anything for a room created without a password.
func (r *GameRoom) CheckPassword(password string) bool {
	return r.password == "" || r.password == password
}

// AddPlayer seats p on the given team if the seat is free. The first player
// in becomes the host.
func (r *GameRoom) AddPlayer(p Player, team Team) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case team == TeamYellow && r.playerYellow == nil:
		r.playerYellow = p
	case team == TeamBlue && r.playerBlue == nil:
		r.playerBlue = p
	default:
		return false
	}
	p.SetRoom(r)
	if r.owner == nil {
		r.owner = p
	}
	r.ready[p.ID()] = false
	logger.Infof("[Room %s] %s seated as %s", r.name, p.Nickname(), team)
	return true
}

// FreeSeat reports which team still has an open slot.
func (r *GameRoom) FreeSeat() (Team, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.playerYellow == nil {
		return TeamYellow, true
	}
	if r.playerBlue == nil {
		return TeamBlue, true
	}
	return TeamYellow, false
}

// RemovePlayer frees p's seat. Mid-round the survivor gets opponent-left and
// the round stops; in the waiting phase the roster refreshes. Ownership moves
// to the remaining occupant, and an emptied room is removed from the
// directory.
func (r *GameRoom) RemovePlayer(p Player) {
	r.mu.Lock()
	var opponent Player
	switch {
	case p == r.playerYellow:
		r.playerYellow = nil
		opponent = r.playerBlue
	case p == r.playerBlue:
		r.playerBlue = nil
		opponent = r.playerYellow
	default:
		r.mu.Unlock()
		return
	}
	p.SetRoom(nil)
	delete(r.ready, p.ID())
	if r.owner == p {
		r.owner = opponent
	}
	logger.Infof("[Room %s] %s left", r.name, p.Nickname())

	if r.playing && opponent != nil {
		opponent.Send(MsgOpponentLeft, nil)
		r.stopGameLocked()
	} else if !r.playing {
		r.broadcastRosterLocked()
	}

	empty := r.playerYellow == nil && r.playerBlue == nil
	summary := r.summaryLocked()
	r.mu.Unlock()

	if empty {
		logger.Infof("[Room %s] empty, removing", r.name)
		r.directory.RemoveRoom(r.name)
	} else {
		r.directory.BroadcastRoomUpdated(summary)
	}
}

// SetReady flips p's ready flag and refreshes the roster for both seats.
func (r *GameRoom) SetReady(p Player, ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ready[p.ID()]; !ok {
		return
	}
	r.ready[p.ID()] = ready
	r.broadcastRosterLocked()
}

// StartGameBy starts a round if the room is full, the requester is the host
// and both occupants are ready. Rejections go only to the requester. On
// success a brand-new model is built, both seats get their game-start and the
// one-second round timer begins.
func (r *GameRoom) StartGameBy(requester Player) {
	r.mu.Lock()
	if r.playing {
		r.mu.Unlock()
		return
	}
	if requester != r.owner {
		r.mu.Unlock()
		requester.Send(MsgOperationFailure, OperationFailurePayload{Reason: "only the host can start the game"})
		return
	}
	if !r.isFullLocked() {
		r.mu.Unlock()
		requester.Send(MsgOperationFailure, OperationFailurePayload{Reason: "waiting for an opponent"})
		return
	}
	if !r.ready[r.playerYellow.ID()] || !r.ready[r.playerBlue.ID()] {
		r.mu.Unlock()
		requester.Send(MsgOperationFailure, OperationFailurePayload{Reason: "both players must be ready"})
		return
	}

	r.playing = true
	r.bonusActivated = false
	r.model = r.newModel(r.durationSec)
	r.initialSeconds = r.model.SecondsLeft()
	logger.Infof("[Room %s] game started, %ds", r.name, r.initialSeconds)

	board := r.model.Board().Snapshot()
	r.playerYellow.Send(MsgGameStart, GameStartPayload{AssignedTeam: TeamYellow, Board: board, SecondsLeft: r.initialSeconds})
	r.playerBlue.Send(MsgGameStart, GameStartPayload{AssignedTeam: TeamBlue, Board: board, SecondsLeft: r.initialSeconds})

	r.roundTimer = r.sched.Every(time.Second, r.tick)
	summary := r.summaryLocked()
	r.mu.Unlock()

	r.directory.BroadcastRoomUpdated(summary)
}

// tick runs once per second while a round is in progress: advance the
// countdown, broadcast the tick, trigger the bonus phase at the halfway mark
// and stop at zero. A tick arriving after the round stopped is a no-op.
func (r *GameRoom) tick() {
	r.mu.Lock()
	if !r.playing {
		r.mu.Unlock()
		return
	}
	r.model.TickOneSecond()
	r.broadcastLocked(MsgTick, nil)

	secs := r.model.SecondsLeft()
	if !r.bonusActive && !r.bonusActivated && secs > 0 && secs <= r.initialSeconds/2 {
		r.startBonusLocked()
	}

	stopped := false
	if secs <= 0 {
		r.stopGameLocked()
		stopped = true
	}
	summary := r.summaryLocked()
	r.mu.Unlock()

	if stopped {
		r.directory.BroadcastRoomUpdated(summary)
	}
}

// HandleWordInput runs the flip transaction and rebroadcasts the raw input to
// both seats; clients replay the identical flip algorithm against their own
// replica. Ignored outside a round and while the bonus phase is active; blank
// input is silently dropped.
func (r *GameRoom) HandleWordInput(team Team, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.playing || r.bonusActive {
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	r.model.FlipByInput(team, text)
	r.broadcastLocked(MsgInputBroadcast, InputBroadcastPayload{Team: team, Text: text})
}

// HandleSentenceInput consumes a still-offered bonus sentence for a flat
// bonus; repeats of a consumed sentence always report failure. The result is
// broadcast to both seats either way.
func (r *GameRoom) HandleSentenceInput(team Team, sentence string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.playing || !r.bonusActive {
		return
	}
	if strings.TrimSpace(sentence) == "" {
		return
	}

	success := false
	for i, s := range r.bonusSentences {
		if s == sentence {
			r.bonusSentences = append(r.bonusSentences[:i], r.bonusSentences[i+1:]...)
			success = true
			break
		}
	}
	if success {
		r.model.AddScore(team, BonusSentenceScore)
		logger.Infof("[Room %s] %s solved a bonus sentence", r.name, team)
	}
	r.broadcastLocked(MsgBonusResult, BonusResultPayload{Success: success, Sentence: sentence, Team: team})
}

// BroadcastChat relays a chat line to both seats.
func (r *GameRoom) BroadcastChat(sender, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(MsgChatBroadcast, ChatBroadcastPayload{Sender: sender, Text: text})
}

// BroadcastRoster refreshes the waiting-room roster for both seats.
func (r *GameRoom) BroadcastRoster() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastRosterLocked()
}

func (r *GameRoom) Summary() RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summaryLocked()
}

func (r *GameRoom) Roster() []PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked()
}

// --- internals, caller holds r.mu ---

func (r *GameRoom) isFullLocked() bool {
	return r.playerYellow != nil && r.playerBlue != nil
}

func (r *GameRoom) playerCountLocked() int {
	count := 0
	if r.playerYellow != nil {
		count++
	}
	if r.playerBlue != nil {
		count++
	}
	return count
}

// stopGameLocked ends the round: cancel both timers, force-end an active
// bonus phase, clear the ready flags and broadcast game-over plus the
// refreshed roster. Safe to reach twice; the second call is a no-op.
func (r *GameRoom) stopGameLocked() {
	if !r.playing {
		return
	}
	r.playing = false
	if r.roundTimer != nil {
		r.roundTimer.Stop()
		r.roundTimer = nil
	}
	if r.bonusActive {
		r.endBonusLocked()
	}
	for id := range r.ready {
		r.ready[id] = false
	}
	logger.Infof("[Room %s] game over", r.name)
	r.broadcastLocked(MsgGameOver, nil)
	r.broadcastRosterLocked()
}

// startBonusLocked begins the once-per-round bonus phase: draw the sentence
// sample, broadcast it and arm the one-shot deadline.
func (r *GameRoom) startBonusLocked() {
	if r.bonusActive || !r.playing {
		return
	}
	r.bonusActive = true
	r.bonusActivated = true
	r.bonusSentences = r.sentences.RandomSentences(BonusSentenceCount)
	logger.Infof("[Room %s] bonus phase started", r.name)
	r.broadcastLocked(MsgBonusStart, BonusStartPayload{Sentences: append([]string(nil), r.bonusSentences...)})
	r.bonusTimer = r.sched.After(BonusDuration, r.bonusDeadline)
}

func (r *GameRoom) bonusDeadline() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endBonusLocked()
}

func (r *GameRoom) endBonusLocked() {
	if !r.bonusActive {
		return
	}
	if r.bonusTimer != nil {
		r.bonusTimer.Stop()
		r.bonusTimer = nil
	}
	r.bonusActive = false
	r.bonusSentences = nil
	logger.Infof("[Room %s] bonus phase ended", r.name)
	r.broadcastLocked(MsgBonusEnd, nil)
}

func (r *GameRoom) summaryLocked() RoomSummary {
	return RoomSummary{
		Name:              r.name,
		SecondsConfigured: r.durationSec,
		CurrentPlayers:    r.playerCountLocked(),
		MaxPlayers:        MaxPlayersPerRoom,
		Playing:           r.playing,
	}
}

func (r *GameRoom) rosterLocked() []PlayerInfo {
	var list []PlayerInfo
	if r.playerYellow != nil {
		list = append(list, PlayerInfo{
			Nickname: r.playerYellow.Nickname(),
			Team:     TeamYellow,
			Ready:    r.ready[r.playerYellow.ID()],
			IsHost:   r.owner == r.playerYellow,
		})
	}
	if r.playerBlue != nil {
		list = append(list, PlayerInfo{
			Nickname: r.playerBlue.Nickname(),
			Team:     TeamBlue,
			Ready:    r.ready[r.playerBlue.ID()],
			IsHost:   r.owner == r.playerBlue,
		})
	}
	return list
}

func (r *GameRoom) broadcastRosterLocked() {
	r.broadcastLocked(MsgRosterUpdated, RosterUpdatedPayload{Players: r.rosterLocked()})
}

// broadcastLocked sends to both seats. Sends are fire-and-forget; both seats
// observe every room message in the same relative order because broadcasts
// happen under the room lock.
func (r *GameRoom) broadcastLocked(msgType string, payload any) {
	if r.playerYellow != nil {
		r.playerYellow.Send(msgType, payload)
	}
	if r.playerBlue != nil {
		r.playerBlue.Send(msgType, payload)
	}
}
