package game

import "errors"

var (
	ErrRoomNotFound   = errors.New("room-not-found")
	ErrRoomExists     = errors.New("room-exists")
	ErrRoomFull       = errors.New("room-full")
	ErrWrongPassword  = errors.New("wrong-password")
	ErrUnknownMessage = errors.New("unknown-message")
	ErrSendBufferFull = errors.New("send-buffer-full")
)
