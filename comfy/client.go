// Package comfy is a minimal HTTP client for the ComfyUI prompt API.
package comfy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/workflow"
)

// APIError reports a non-2xx response or a transport failure from ComfyUI.
type APIError struct {
	Status int // 0 on transport failure
	Reason string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("comfy API unreachable: %s", e.Reason)
	}
	return fmt.Sprintf("comfy API returned status %d: %s", e.Status, e.Reason)
}

// PromptRequest is the submission envelope expected by POST /prompt.
type PromptRequest struct {
	Prompt   *workflow.Graph `json:"prompt"`
	ClientID string          `json:"client_id"`
}

// QueueResponse is the acknowledgment returned for a queued prompt.
type QueueResponse struct {
	PromptID   string         `json:"prompt_id"`
	Number     int            `json:"number"`
	NodeErrors map[string]any `json:"node_errors,omitempty"`
}

// QueueInfo is the execution info returned by GET /prompt.
type QueueInfo struct {
	ExecInfo struct {
		QueueRemaining int `json:"queue_remaining"`
	} `json:"exec_info"`
}

// Client talks to one ComfyUI server.
type Client struct {
	baseURL  string
	clientID string
	http     *http.Client
}

// New creates a client. The timeout bounds every request end to end; a hung
// server must not stall the watch loop indefinitely.
func New(baseURL, clientID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		clientID: clientID,
		http:     &http.Client{Timeout: timeout},
	}
}

// SubmitPrompt queues one workflow for execution and returns the
// acknowledgment. No retries: a failed dispatch is the caller's policy call.
func (c *Client) SubmitPrompt(ctx context.Context, graph *workflow.Graph) (*QueueResponse, error) {
	body, err := json.Marshal(PromptRequest{Prompt: graph, ClientID: c.clientID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/prompt", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Reason: readErrorBody(resp.Body)}
	}

	var ack QueueResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, fmt.Errorf("failed to decode acknowledgment: %w", err)
	}
	if ack.PromptID == "" {
		return nil, fmt.Errorf("acknowledgment without prompt_id")
	}
	return &ack, nil
}

// Ping checks that the server is reachable. Called once at startup so a
// wrong COMFY_API_URL fails immediately instead of on the first clipboard
// change.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/system_stats", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Reason: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Reason: readErrorBody(resp.Body)}
	}
	return nil
}

// QueueStatus reports how many prompts are waiting on the server.
func (c *Client) QueueStatus(ctx context.Context) (*QueueInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/prompt", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Reason: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Reason: readErrorBody(resp.Body)}
	}
	var info QueueInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode queue info: %w", err)
	}
	return &info, nil
}

func readErrorBody(r io.Reader) string {
	const maxErrBody = 512
	data, _ := io.ReadAll(io.LimitReader(r, maxErrBody))
	if len(data) == 0 {
		return "empty body"
	}
	return string(data)
}
