package transport

import (
	"context"

	"github.com/tessera-io/tessera/pkg/protocol"
)

// UpdateFunc receives the WHOLE packet sequence for one message on every
// update, not just the appended suffix. Consumers diff against their own
// cursor to find what is new; a shorter slice than previously delivered
// means the stream was replaced.
type UpdateFunc func(messageID string, packets []protocol.Packet)

// Source delivers an assistant message's packet stream. Stream blocks until
// the stream ends, the context is cancelled, or delivery fails.
type Source interface {
	Stream(ctx context.Context, onUpdate UpdateFunc) error
}
