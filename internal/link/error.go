package link

import (
	"swlink/pkg/errors"
)

var (
	ErrResponseTimeout = errors.NewError("response timeout", errors.KErrTimeout)
	ErrDisconnected    = errors.NewError("device disconnected", errors.KErrDisconnected)
	ErrNotReady        = errors.ErrNotReady
	ErrNoConnection    = errors.ErrNoConnection
)
