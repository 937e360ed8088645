package service

import "errors"

// Business errors surfaced to the transport layer. Handlers map these
// to HTTP status codes and stable reason codes; anything not in this
// list is treated as an internal error.
var (
	ErrValidation           = errors.New("invalid input")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrInvalidPassword      = errors.New("invalid room password")
	ErrNotRoomMember        = errors.New("you are not a member of this room")
	ErrUserNotFound         = errors.New("user not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoomExists           = errors.New("you have already created a room with the same name and description")
	ErrAlreadyMember        = errors.New("you are already a member of this room")
	ErrRoomFull             = errors.New("room is at maximum capacity")
	ErrInternalServer       = errors.New("internal server error")
)
