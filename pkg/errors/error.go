package errors

import (
	"fmt"
)

const (
	KErrNoConnection uint32 = iota + 1
	KErrNotReady
	KErrTimeout
	KErrDisconnected
	KErrProtocolDesync
)

var (
	ErrNoConnection = &Error{what: "no connection", errno: KErrNoConnection}
	ErrNotReady     = &Error{what: "session not ready", errno: KErrNotReady}
)

type Error struct {
	what  string
	errno uint32
}

func NewError(what string, errno uint32) *Error {
	return &Error{what: what, errno: errno}
}

func (e *Error) Error() string {
	return fmt.Sprintf("error: %s (%d) ", e.what, e.errno)
}

func (e *Error) ErrNo() uint32 {
	return e.errno
}
