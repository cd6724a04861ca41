package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bsco/arena-lobby-backend/internal/model"
	"github.com/bsco/arena-lobby-backend/internal/repo"
)

var (
	ErrNotFound    = errors.New("lobby not found")
	ErrMissingCode = errors.New("lobby code required")
)

// Client speaks the /lobby JSON contract.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type apiRequest struct {
	Action    string       `json:"action"`
	Code      string       `json:"code,omitempty"`
	LobbyData *repo.Update `json:"lobbyData,omitempty"`
}

type apiResponse struct {
	Success bool         `json:"success"`
	Code    string       `json:"code"`
	Lobby   *model.Lobby `json:"lobby"`
	Error   string       `json:"error"`
}

func (c *Client) post(ctx context.Context, body apiRequest) (*apiResponse, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/lobby", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*apiResponse, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return &decoded, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusBadRequest:
		if decoded.Error == "code required" {
			return nil, ErrMissingCode
		}
		return nil, fmt.Errorf("bad request: %s", decoded.Error)
	default:
		return nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, decoded.Error)
	}
}

// CreateLobby asks the server for a fresh lobby and returns its code.
func (c *Client) CreateLobby(ctx context.Context) (string, error) {
	resp, err := c.post(ctx, apiRequest{Action: "create"})
	if err != nil {
		return "", err
	}
	return resp.Code, nil
}

// JoinLobby fetches the lobby while signalling intent to start syncing.
func (c *Client) JoinLobby(ctx context.Context, code string) (*model.Lobby, error) {
	resp, err := c.post(ctx, apiRequest{Action: "join", Code: code})
	if err != nil {
		return nil, err
	}
	return resp.Lobby, nil
}

// GetLobby fetches the authoritative lobby record via GET /lobby?code=X,
// the same path the poll cycle uses.
func (c *Client) GetLobby(ctx context.Context, code string) (*model.Lobby, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/lobby?code="+url.QueryEscape(code), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return resp.Lobby, nil
}

// UpdateLobby pushes a whole-field overwrite of teams and/or waiting list.
func (c *Client) UpdateLobby(ctx context.Context, code string, upd repo.Update) error {
	_, err := c.post(ctx, apiRequest{Action: "update", Code: code, LobbyData: &upd})
	return err
}
