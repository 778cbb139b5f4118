package game

import (
	"strings"
	"sync"
)

const ScorePerFlip = 100

// FlipResult records one cell changing hands, in the order the flips were
// applied.
type FlipResult struct {
	Pos       Pos    `json:"pos"`
	From      Team   `json:"from"`
	To        Team   `json:"to"`
	FromToken string `json:"fromToken"`
	ToToken   string `json:"toToken"`
}

// GameModel is the single source of truth for one round: board, token index,
// word pool, countdown and per-team counters. A fresh one is built at every
// round start and discarded at round end, so no state leaks between rounds.
// All mutations are atomic under one lock; the room's timer callback and both
// players' input callbacks run on different goroutines.
type GameModel struct {
	mu    sync.Mutex
	board *Board
	index *TokenIndex
	pool  *WordPool

	secondsLeft      int
	maxFlipsPerInput int

	scores [2]int
	flips  [2]int
}

func NewGameModel(board *Board, index *TokenIndex, seconds, maxFlipsPerInput int, pool *WordPool) *GameModel {
	if maxFlipsPerInput < 1 {
		maxFlipsPerInput = 1
	}
	return &GameModel{
		board:            board,
		index:            index,
		pool:             pool,
		secondsLeft:      seconds,
		maxFlipsPerInput: maxFlipsPerInput,
	}
}

func (m *GameModel) Board() *Board { return m.board }

func (m *GameModel) SecondsLeft() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.secondsLeft
}

// TickOneSecond decrements the countdown, floored at zero.
func (m *GameModel) TickOneSecond() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.secondsLeft > 0 {
		m.secondsLeft--
	}
}

func (m *GameModel) Score(team Team) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scores[team]
}

func (m *GameModel) FlipCount(team Team) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flips[team]
}

func (m *GameModel) AddScore(team Team, amount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[team] += amount
}

// FlipByInput looks up the opponent's cells matching rawInput and flips up to
// maxFlipsPerInput of them in bucket order. Each flip swaps the index entry,
// draws a replacement token, rewrites the cell and credits the acting team.
// The whole sequence is one atomic unit; a miss or blank input returns no
// flips and is not an error.
func (m *GameModel) FlipByInput(team Team, rawInput string) []FlipResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	var results []FlipResult
	if strings.TrimSpace(rawInput) == "" {
		return results
	}

	opponent := team.Opponent()
	targets := m.index.PositionsOf(opponent, rawInput)
	if len(targets) == 0 {
		return results
	}

	flipped := 0
	for _, p := range targets {
		if flipped >= m.maxFlipsPerInput {
			break
		}
		cell := m.board.Get(p.R, p.C)
		if cell == nil {
			continue
		}
		prevOwner := cell.Owner()
		oldToken := cell.Token()
		newToken := m.pool.NextToken(oldToken)

		m.index.Remove(opponent, oldToken, p)
		m.index.Add(team, newToken, p)
		cell.setOwner(team)
		cell.setToken(newToken)

		results = append(results, FlipResult{
			Pos:       p,
			From:      prevOwner,
			To:        team,
			FromToken: oldToken,
			ToToken:   newToken,
		})
		m.scores[team] += ScorePerFlip
		m.flips[team]++
		flipped++
	}
	return results
}
