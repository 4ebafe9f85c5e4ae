package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tessera-io/tessera/pkg/protocol"
)

// Replay streams a recorded packet log from disk. The file holds one JSON
// Packet per line, the same framing the backend uses on the wire. Used for
// non-interactive rendering and in tests.
type Replay struct {
	path  string
	delay time.Duration
}

// NewReplay creates a replay source. delay is the pause inserted between
// packets; zero replays as fast as the consumer can fold.
func NewReplay(path string, delay time.Duration) *Replay {
	return &Replay{path: path, delay: delay}
}

// Stream delivers the recorded sequence as growing whole-slice updates,
// mirroring the live client's behavior.
func (r *Replay) Stream(ctx context.Context, onUpdate UpdateFunc) error {
	file, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("failed to open replay file: %w", err)
	}
	defer file.Close()

	messageID := uuid.NewString()

	var packets []protocol.Packet
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var pkt protocol.Packet
		if err := json.Unmarshal(line, &pkt); err != nil {
			return fmt.Errorf("malformed packet in replay file: %w", err)
		}

		packets = append(packets, pkt)
		onUpdate(messageID, packets[:len(packets):len(packets)])

		if r.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.delay):
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("replay read failed: %w", err)
	}
	return nil
}
