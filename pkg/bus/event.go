package bus

import (
	"context"
)

type Kind string

const (
	// KindSubmitted is published when an operation enters the ledger.
	KindSubmitted Kind = "submitted"
	// KindVerified is published when a pending operation is resolved to
	// approved or rejected.
	KindVerified Kind = "verified"
	// KindExecuted is published for every execute outcome, including
	// expired and failed target calls.
	KindExecuted Kind = "executed"
)

// Event describes one operation lifecycle transition.
type Event struct {
	Kind    Kind
	Hash    string // hex content hash of the operation
	Status  string
	Nonce   uint64
	TraceID string
}

type Subscriber chan Event

type Bus struct {
	pub chan Event
}

func New(size int) *Bus {
	if size <= 0 {
		size = 128
	}
	return &Bus{pub: make(chan Event, size)}
}

func (b *Bus) Publish(_ context.Context, ev Event) {
	select {
	case b.pub <- ev:
	default: /* drop on backpressure */
	}
}

func (b *Bus) Subscribe() Subscriber { return b.pub }
