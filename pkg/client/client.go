/*
package client implements the device configuration API.

possible returned error if client successfully received the response from the device

  Get
  * nil
  * ErrNoTarget
  * ErrBadRequest
  * ErrNotAllowed
  * ErrDeviceInternal

  Fetch
  * nil
  * ErrNoTarget
  * ErrBadRequest
  * ErrNotAllowed
  * ErrDeviceInternal

  Set
  * nil
  * ErrNoTarget
  * ErrBadRequest
  * ErrNotAllowed
  * ErrDeviceInternal

  Create
  * nil
  * ErrBadRequest
  * ErrNotAllowed
  * ErrDeviceInternal

  Destroy
  * nil
  * ErrNoTarget
  * ErrNotAllowed
  * ErrDeviceInternal

any operation may also fail before a response arrives with
ErrNotReady, ErrResponseTimeout or ErrDisconnected.
*/
package client

import (
	"time"

	"swlink/internal/link"
	"swlink/pkg/proto/cbor"
	"swlink/pkg/proto/coap"
	"swlink/pkg/proto/mup1"
)

// Session lifecycle surface, shared with the underlying link layer.
type (
	State      = link.State
	Event      = link.Event
	EventKind  = link.EventKind
	DeviceInfo = mup1.DeviceInfo
)

const (
	StateDisconnected      = link.StateDisconnected
	StateAwaitingDiscovery = link.StateAwaitingDiscovery
	StateCatalogUnknown    = link.StateCatalogUnknown
	StateReady             = link.StateReady
)

const (
	EventDiscovered   = link.EventDiscovered
	EventCatalogReady = link.EventCatalogReady
	EventDisconnected = link.EventDisconnected
)

type IClient interface {
	Get(target string, opts ...IOption) (cbor.Value, error)
	Fetch(target string, query cbor.Value, opts ...IOption) (cbor.Value, error)
	Set(target string, value cbor.Value, opts ...IOption) error
	Create(target string, value cbor.Value, opts ...IOption) error
	Destroy(target string, opts ...IOption) error
	Do(request *coap.Message) (*coap.Message, error)

	WaitReady(timeout time.Duration) error
	State() State
	DeviceInfo() DeviceInfo
	CatalogChecksum() []byte
	Subscribe(ch chan Event)
	Unsubscribe(ch chan Event)
	Close()
}
