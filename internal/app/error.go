package app

import "errors"

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingField   = errors.New("command is missing a required field")
	ErrModalOpen      = errors.New("a modal is open")
	ErrSessionClosed  = errors.New("session closed")
	ErrManagerClosed  = errors.New("session manager closed")
)
