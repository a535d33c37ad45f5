package database

import "errors"

// Sentinel errors for the handlers to map onto HTTP statuses and for the
// realtime gateway to map onto result objects.
var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomNotFound = errors.New("room not found")
	ErrUserNotFound = errors.New("user not found")
	ErrNotMember    = errors.New("not a member of this room")
)
