package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/fading-suns/pkg/character"
	"github.com/jwebster45206/fading-suns/pkg/roll"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// CharacterSummary is one entry of GET /v1/characters.
type CharacterSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Race     string    `json:"race,omitempty"`
	Rank     string    `json:"rank,omitempty"`
	Vitality int       `json:"vitality"`
}

// Sheet is a character as returned by the API.
type Sheet struct {
	character.Spec
	Vitality    int `json:"vitality"`
	MaxVitality int `json:"max_vitality"`
	Defense     int `json:"defense"`
}

// RollResponse mirrors the API's roll response.
type RollResponse struct {
	Result  *roll.Result `json:"result"`
	Label   string       `json:"label"`
	Outcome string       `json:"outcome"`
	Chat    string       `json:"chat"`
}

// APIClient talks to the Fading Suns API.
type APIClient struct {
	client   *http.Client
	baseURL  string
	language string
}

func NewAPIClient(client *http.Client, baseURL, language string) *APIClient {
	return &APIClient{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
	}
}

func (c *APIClient) testConnection() bool {
	resp, err := c.client.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// do sends a JSON request and decodes a JSON response into out when the
// status matches want.
func (c *APIClient) do(method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *APIClient) listCharacters() ([]CharacterSummary, error) {
	var list []CharacterSummary
	if err := c.do(http.MethodGet, "/v1/characters", nil, http.StatusOK, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *APIClient) createFromTemplate(template string) (*Sheet, error) {
	var sheet Sheet
	req := map[string]string{"template": template}
	if err := c.do(http.MethodPost, "/v1/characters", req, http.StatusCreated, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (c *APIClient) getCharacter(id uuid.UUID) (*Sheet, error) {
	var sheet Sheet
	if err := c.do(http.MethodGet, "/v1/characters/"+id.String(), nil, http.StatusOK, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (c *APIClient) resolveRoll(id uuid.UUID, req roll.Request) (*RollResponse, error) {
	var out RollResponse
	if err := c.do(http.MethodPost, "/v1/rolls/"+id.String(), req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) history(id uuid.UUID, limit int) ([]RollResponse, error) {
	var out []RollResponse
	path := fmt.Sprintf("/v1/rolls/%s?limit=%d", id, limit)
	if err := c.do(http.MethodGet, path, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SSEEvent represents an event from the SSE stream
type SSEEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// listenToSSE connects to the SSE endpoint and streams events to a channel
func (c *APIClient) listenToSSE(ctx context.Context, id uuid.UUID, eventChan chan<- SSEEvent) error {
	url := fmt.Sprintf("%s/v1/events/characters/%s", c.baseURL, id.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// The shared client has a timeout, which would cut the stream.
	streamClient := &http.Client{Transport: c.client.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to SSE: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SSE connection failed with status %d: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	var currentEvent SSEEvent

	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			// Empty line signals end of event
			if currentEvent.Type != "" {
				select {
				case eventChan <- currentEvent:
				case <-ctx.Done():
					return ctx.Err()
				}
				currentEvent = SSEEvent{}
			}
			continue
		}

		if strings.HasPrefix(line, "event: ") {
			currentEvent.Type = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			currentEvent.Data = json.RawMessage(strings.TrimPrefix(line, "data: "))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading SSE stream: %w", err)
	}

	return nil
}
