package link

import (
	"swlink/pkg/proto/mup1"
)

type State int32

const (
	StateDisconnected State = iota
	StateAwaitingDiscovery
	StateCatalogUnknown
	StateReady
)

var stateNameMap = map[State]string{
	StateDisconnected:      "Disconnected",
	StateAwaitingDiscovery: "AwaitingDiscovery",
	StateCatalogUnknown:    "CatalogUnknown",
	StateReady:             "Ready",
}

func (s State) String() string {
	if name, ok := stateNameMap[s]; ok {
		return name
	}
	return "Unknown"
}

type EventKind int

const (
	EventDiscovered EventKind = iota
	EventCatalogReady
	EventDisconnected
)

var eventKindNameMap = map[EventKind]string{
	EventDiscovered:   "Discovered",
	EventCatalogReady: "CatalogReady",
	EventDisconnected: "Disconnected",
}

func (k EventKind) String() string {
	if name, ok := eventKindNameMap[k]; ok {
		return name
	}
	return "Unknown"
}

// Event carries one session lifecycle notification. Device is set for
// Discovered, Checksum for CatalogReady, Err for Disconnected.
type Event struct {
	Kind     EventKind
	Device   mup1.DeviceInfo
	Checksum []byte
	Err      error
}
