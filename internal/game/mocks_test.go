package game

import (
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- Player ---

type sentMessage struct {
	Type    string
	Payload any
}

// fakePlayer records every message a room or the registry sends it.
type fakePlayer struct {
	id       string
	nickname string

	mu   sync.Mutex
	sent []sentMessage
	room *GameRoom
}

func newFakePlayer(id, nickname string) *fakePlayer {
	return &fakePlayer{id: id, nickname: nickname}
}

func (p *fakePlayer) ID() string       { return p.id }
func (p *fakePlayer) Nickname() string { return p.nickname }

func (p *fakePlayer) Send(msgType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentMessage{Type: msgType, Payload: payload})
}

func (p *fakePlayer) SetRoom(r *GameRoom) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.room = r
}

func (p *fakePlayer) Room() *GameRoom {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.room
}

func (p *fakePlayer) messages() []sentMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]sentMessage, len(p.sent))
	copy(out, p.sent)
	return out
}

func (p *fakePlayer) typesSent() []string {
	var types []string
	for _, m := range p.messages() {
		types = append(types, m.Type)
	}
	return types
}

func (p *fakePlayer) countOfType(msgType string) int {
	count := 0
	for _, m := range p.messages() {
		if m.Type == msgType {
			count++
		}
	}
	return count
}

func (p *fakePlayer) lastOfType(msgType string) (sentMessage, bool) {
	msgs := p.messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == msgType {
			return msgs[i], true
		}
	}
	return sentMessage{}, false
}

// --- Directory ---

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) RemoveRoom(name string) {
	m.Called(name)
}

func (m *MockDirectory) BroadcastRoomUpdated(summary RoomSummary) {
	m.Called(summary)
}

// --- Scheduler ---

// manualTimer lets a test fire callbacks by hand and count Stop calls.
type manualTimer struct {
	interval time.Duration
	fn       func()

	mu      sync.Mutex
	stopped int
}

func (t *manualTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped++
}

func (t *manualTimer) stopCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *manualTimer) fire() { t.fn() }

type manualScheduler struct {
	mu     sync.Mutex
	everys []*manualTimer
	afters []*manualTimer
}

func (s *manualScheduler) Every(interval time.Duration, fn func()) TimerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{interval: interval, fn: fn}
	s.everys = append(s.everys, t)
	return t
}

func (s *manualScheduler) After(delay time.Duration, fn func()) TimerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{interval: delay, fn: fn}
	s.afters = append(s.afters, t)
	return t
}

func (s *manualScheduler) lastEvery() *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.everys) == 0 {
		return nil
	}
	return s.everys[len(s.everys)-1]
}

func (s *manualScheduler) lastAfter() *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.afters) == 0 {
		return nil
	}
	return s.afters[len(s.afters)-1]
}

// --- NetworkSession ---

var errConnClosed = errors.New("closed")

// scriptedConn feeds a fixed sequence of frames to the read pump, then
// reports the connection closed.
type scriptedConn struct {
	frames chan []byte

	mu     sync.Mutex
	writes [][]byte
	closed bool
}

func newScriptedConn(frames ...[]byte) *scriptedConn {
	ch := make(chan []byte, len(frames)+1)
	for _, f := range frames {
		ch <- f
	}
	close(ch)
	return &scriptedConn{frames: ch}
}

func (c *scriptedConn) Read() ([]byte, error) {
	data, ok := <-c.frames
	if !ok {
		return nil, errConnClosed
	}
	return data, nil
}

func (c *scriptedConn) Write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, data)
	return nil
}

func (c *scriptedConn) Ping() error { return nil }

func (c *scriptedConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *scriptedConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
