package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrWrongPassword     = errors.New("incorrect room password")
	ErrInvalidRoomConfig = errors.New("invalid room configuration")

	// Guess errors
	ErrPlayerNotInRoom     = errors.New("player is not in room")
	ErrInvalidGuessFormat  = errors.New("guess must be digits of the target length")
	ErrInvalidTargetNumber = errors.New("target must be digits of the configured length")
)
