package protocol

import "errors"

var (
	ErrUnknownProtocol = errors.New("unknown protocol")
	ErrUnknownSession  = errors.New("unknown session")
)
