package game

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/NaEunMin/NetworkProgrammingProject/internal/shared/logger"
)

const (
	sendBufferSize = 256
	pingInterval   = 30 * time.Second
)

// NetworkSession abstracts the transport so sessions can be tested against a
// scripted connection.
type NetworkSession interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	Close()
}

// Session is the per-connection worker: one read pump decoding and
// dispatching inbound frames, one write pump draining the buffered send
// channel. Teardown runs exactly once regardless of which pump dies first:
// leave the current room, leave the lobby set, release the socket.
type Session struct {
	id       string
	registry *Registry
	conn     NetworkSession
	limiter  *rate.Limiter

	mu       sync.Mutex
	nickname string
	room     *GameRoom

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewSession(conn NetworkSession, registry *Registry) *Session {
	return &Session{
		id:       uuid.NewString(),
		registry: registry,
		conn:     conn,
		limiter:  rate.NewLimiter(rate.Limit(20), 40),
		nickname: "Player",
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Nickname() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nickname
}

func (s *Session) SetRoom(r *GameRoom) {
	s.mu.Lock()
	s.room = r
	s.mu.Unlock()
}

func (s *Session) Room() *GameRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

// Send queues an encoded message for the write pump. It never blocks: a full
// buffer drops the frame and logs, the state change that produced it is not
// rolled back.
func (s *Session) Send(msgType string, payload any) {
	data, err := EncodeMessage(msgType, payload)
	if err != nil {
		logger.Criticalf("[Session %s] failed to encode %s: %v", s.id, msgType, err)
		return
	}
	select {
	case s.send <- data:
	default:
		logger.Warningf("[Session %s] dropping %s: %v", s.id, msgType, ErrSendBufferFull)
	}
}

// ReadPump blocks on the socket until it closes, decoding one message at a
// time. Undecodable frames are dropped, not fatal.
func (s *Session) ReadPump() {
	defer s.teardown()
	for {
		data, err := s.conn.Read()
		if err != nil {
			logger.Infof("[Session %s] connection closed: %v", s.id, err)
			return
		}
		msg, err := DecodeClientMessage(data)
		if err != nil {
			logger.Debugf("[Session %s] dropping frame: %v", s.id, err)
			continue
		}
		s.dispatch(msg)
	}
}

// WritePump drains the send channel and keeps the connection alive with
// periodic pings. A write failure only kills this connection.
func (s *Session) WritePump() {
	pingTicker := time.NewTicker(pingInterval)
	defer func() {
		pingTicker.Stop()
		s.teardown()
	}()
	for {
		select {
		case data := <-s.send:
			if err := s.conn.Write(data); err != nil {
				logger.Infof("[Session %s] write error: %v", s.id, err)
				return
			}
		case <-pingTicker.C:
			if err := s.conn.Ping(); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// dispatch routes one decoded message. Lobby-scope requests go to the
// registry; room-scope requests require a current room and are otherwise
// ignored.
func (s *Session) dispatch(msg any) {
	switch req := msg.(type) {
	case *HandshakeRequest:
		nickname := strings.TrimSpace(req.Nickname)
		if nickname == "" {
			nickname = "Player"
		}
		s.mu.Lock()
		s.nickname = nickname
		s.mu.Unlock()
		// the lobby set holds only connections not currently in a room; a
		// repeated handshake from a seated client must not re-enter it
		if s.Room() == nil {
			s.registry.RegisterLobby(s)
		}

	case *ListRoomsRequest:
		s.registry.SendRoomList(s)

	case *CreateRoomRequest:
		if s.Room() != nil {
			return
		}
		s.registry.CreateRoom(s, *req)

	case *JoinRoomRequest:
		if s.Room() != nil {
			return
		}
		s.registry.JoinRoom(s, *req)

	case *ToggleReadyRequest:
		if room := s.Room(); room != nil {
			room.SetReady(s, req.Ready)
		}

	case *StartGameRequest:
		if room := s.Room(); room != nil {
			room.StartGameBy(s)
		}

	case *LeaveRoomRequest:
		if room := s.Room(); room != nil {
			room.RemovePlayer(s)
			s.Send(MsgReturnToLobby, nil)
			s.registry.RegisterLobby(s)
		}

	case *WordInputRequest:
		if !s.limiter.Allow() {
			return
		}
		if room := s.Room(); room != nil {
			room.HandleWordInput(req.Team, req.Text)
		}

	case *SentenceInputRequest:
		if !s.limiter.Allow() {
			return
		}
		if room := s.Room(); room != nil {
			room.HandleSentenceInput(req.Team, req.Text)
		}

	case *ChatRequest:
		if !s.limiter.Allow() {
			return
		}
		if room := s.Room(); room != nil {
			room.BroadcastChat(s.Nickname(), req.Text)
		}
	}
}

func (s *Session) teardown() {
	s.closeOnce.Do(func() {
		close(s.done)
		if room := s.Room(); room != nil {
			room.RemovePlayer(s)
		}
		s.registry.UnregisterLobby(s)
		s.conn.Close()
	})
}
