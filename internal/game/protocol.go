package game

import (
	"encoding/json"
	"fmt"
)

// Wire format: one tagged JSON object per websocket text frame,
// {"type": "...", "data": {...}}. The type set is closed; decoding dispatches
// through an exhaustive switch so a new message kind is a compile-time change
// here and in the session dispatch.

// Client -> server message types.
const (
	MsgHandshake     = "handshake"
	MsgListRooms     = "list-rooms"
	MsgCreateRoom    = "create-room"
	MsgJoinRoom      = "join-room"
	MsgToggleReady   = "toggle-ready"
	MsgStartGame     = "start-game"
	MsgLeaveRoom     = "leave-room"
	MsgWordInput     = "word-input"
	MsgSentenceInput = "sentence-input"
	MsgChat          = "chat"
)

// Server -> client message types.
const (
	MsgRoomList         = "room-list"
	MsgRoomUpdated      = "room-updated"
	MsgRoomRemoved      = "room-removed"
	MsgOperationFailure = "operation-failure"
	MsgEnterWaitingRoom = "enter-waiting-room"
	MsgRosterUpdated    = "roster-updated"
	MsgChatBroadcast    = "chat-broadcast"
	MsgGameStart        = "game-start"
	MsgTick             = "tick"
	MsgInputBroadcast   = "input-broadcast"
	MsgBonusStart       = "bonus-start"
	MsgBonusResult      = "bonus-result"
	MsgBonusEnd         = "bonus-end"
	MsgGameOver         = "game-over"
	MsgOpponentLeft     = "opponent-left"
	MsgReturnToLobby    = "return-to-lobby"
)

type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// --- client -> server payloads ---

type HandshakeRequest struct {
	Nickname string `json:"nickname"`
}

type ListRoomsRequest struct{}

type CreateRoomRequest struct {
	Name        string `json:"name"`
	Password    string `json:"password"`
	DurationSec int    `json:"durationSec"`
	ChosenTeam  Team   `json:"chosenTeam"`
}

type JoinRoomRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type ToggleReadyRequest struct {
	Ready bool `json:"ready"`
}

type StartGameRequest struct{}

type LeaveRoomRequest struct{}

type WordInputRequest struct {
	Team Team   `json:"team"`
	Text string `json:"text"`
}

type SentenceInputRequest struct {
	Team Team   `json:"team"`
	Text string `json:"text"`
}

type ChatRequest struct {
	Text string `json:"text"`
}

// --- server -> client payloads ---

type RoomSummary struct {
	Name              string `json:"name"`
	SecondsConfigured int    `json:"secondsConfigured"`
	CurrentPlayers    int    `json:"currentPlayers"`
	MaxPlayers        int    `json:"maxPlayers"`
	Playing           bool   `json:"playing"`
}

type PlayerInfo struct {
	Nickname string `json:"nickname"`
	Team     Team   `json:"team"`
	Ready    bool   `json:"ready"`
	IsHost   bool   `json:"isHost"`
}

type RoomListPayload struct {
	Rooms []RoomSummary `json:"rooms"`
}

type RoomRemovedPayload struct {
	Name string `json:"name"`
}

type OperationFailurePayload struct {
	Reason string `json:"reason"`
}

type EnterWaitingRoomPayload struct {
	Room         RoomSummary  `json:"room"`
	Players      []PlayerInfo `json:"players"`
	AssignedTeam Team         `json:"assignedTeam"`
}

type RosterUpdatedPayload struct {
	Players []PlayerInfo `json:"players"`
}

type ChatBroadcastPayload struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type GameStartPayload struct {
	AssignedTeam Team             `json:"assignedTeam"`
	Board        [][]CellSnapshot `json:"board"`
	SecondsLeft  int              `json:"secondsLeft"`
}

type InputBroadcastPayload struct {
	Team Team   `json:"team"`
	Text string `json:"text"`
}

type BonusStartPayload struct {
	Sentences []string `json:"sentences"`
}

type BonusResultPayload struct {
	Success  bool   `json:"success"`
	Sentence string `json:"sentence"`
	Team     Team   `json:"team"`
}

// EncodeMessage wraps a payload in its tagged envelope.
func EncodeMessage(msgType string, payload any) ([]byte, error) {
	env := Envelope{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// DecodeClientMessage turns a raw frame into one of the typed request
// structs. Unknown types are an error, not a silent drop, so the caller can
// log them.
func DecodeClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}

	var payload any
	switch env.Type {
	case MsgHandshake:
		payload = &HandshakeRequest{}
	case MsgListRooms:
		payload = &ListRoomsRequest{}
	case MsgCreateRoom:
		payload = &CreateRoomRequest{}
	case MsgJoinRoom:
		payload = &JoinRoomRequest{}
	case MsgToggleReady:
		payload = &ToggleReadyRequest{}
	case MsgStartGame:
		payload = &StartGameRequest{}
	case MsgLeaveRoom:
		payload = &LeaveRoomRequest{}
	case MsgWordInput:
		payload = &WordInputRequest{}
	case MsgSentenceInput:
		payload = &SentenceInputRequest{}
	case MsgChat:
		payload = &ChatRequest{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}

	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, payload); err != nil {
			return nil, err
		}
	}
	return payload, nil
}
