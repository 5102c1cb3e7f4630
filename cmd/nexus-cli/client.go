package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// apiError is a non-2xx response from the game server.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Code)
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &apiError{Status: resp.StatusCode, Code: payload.Error, Message: payload.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type sessionInfo struct {
	ID         string   `json:"session_id"`
	ChannelID  string   `json:"channel_id"`
	Mode       string   `json:"mode"`
	Status     string   `json:"status"`
	UserIDs    []string `json:"user_ids"`
	SceneCount int      `json:"scene_count"`
}

type turnResult struct {
	SessionID string   `json:"session_id"`
	SceneID   string   `json:"scene_id"`
	Scene     string   `json:"scene"`
	Choices   []string `json:"choices"`
	KeyMoment string   `json:"key_moment"`
	Failed    bool     `json:"failed"`
}

type rollResult struct {
	Success   bool   `json:"success"`
	Roll      int    `json:"roll"`
	Target    int    `json:"target"`
	Pool      string `json:"pool_used"`
	Remaining int    `json:"pool_remaining"`
	Narrative string `json:"narrative"`
}

type statusResult struct {
	Session sessionInfo `json:"session"`
	State   struct {
		CurrentScene     string   `json:"current_scene"`
		SceneDescription string   `json:"scene_description"`
		AvailableChoices []string `json:"available_choices"`
	} `json:"state"`
	Sheet string `json:"sheet"`
}

// findSession resolves the caller's active session in the channel.
func (c *apiClient) findSession(ctx context.Context, user, channel string) (sessionInfo, error) {
	q := url.Values{"user_id": {user}, "channel_id": {channel}}
	var info sessionInfo
	err := c.do(ctx, http.MethodGet, "/api/sessions/lookup?"+q.Encode(), nil, &info)
	return info, err
}
