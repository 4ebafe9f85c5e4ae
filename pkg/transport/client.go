package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tessera-io/tessera/pkg/logger"
	"github.com/tessera-io/tessera/pkg/protocol"
)

// ChatRequest is the body sent to the backend to open a reply stream.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// Client streams packets from an HTTP backend that answers with newline-
// delimited JSON, one Packet per line.
type Client struct {
	baseURL    string
	request    ChatRequest
	httpClient *http.Client
}

// NewClient creates a streaming client for the given backend
func NewClient(baseURL string, req ChatRequest) *Client {
	return NewClientWithTimeout(baseURL, req, 90*time.Second)
}

// NewClientWithTimeout creates a streaming client with a custom connect
// timeout. The read of the stream body itself is not bounded by it.
func NewClientWithTimeout(baseURL string, req ChatRequest, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		request: req,
		httpClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: timeout,
			},
		},
	}
}

// Stream opens the reply stream and invokes onUpdate with the full packet
// slice after every decoded line. A fresh message identity is minted per
// call, so a retried Stream presents as a new render target downstream.
func (c *Client) Stream(ctx context.Context, onUpdate UpdateFunc) error {
	reqBody, err := json.Marshal(c.request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat/stream", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeErrorResponse(resp)
	}

	messageID := uuid.NewString()
	logger.Debug("opened packet stream %s for message %s", url, messageID)

	return readPackets(ctx, resp.Body, messageID, onUpdate)
}

// readPackets decodes NDJSON packets and republishes the growing sequence
// after each one.
func readPackets(ctx context.Context, body io.Reader, messageID string, onUpdate UpdateFunc) error {
	var packets []protocol.Packet

	scanner := bufio.NewScanner(body)
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
			// A malformed line is the backend's bug, not a reason to drop
			// the rest of the reply
			logger.Warn("skipping malformed packet for %s: %v", messageID, err)
			continue
		}

		packets = append(packets, pkt)
		onUpdate(messageID, packets[:len(packets):len(packets)])
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream read failed: %w", err)
	}
	logger.Debug("packet stream for %s ended after %d packets", messageID, len(packets))
	return nil
}

func decodeErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status %d (failed to read error response: %w)", resp.StatusCode, err)
	}

	var errorResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errorResp) == nil && errorResp.Error != "" {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, errorResp.Error)
	}
	return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
}
