package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultAPIURL = "https://api.telegram.org"

// Client is a minimal Bot API client.
type Client struct {
	httpClient *http.Client
	token      string
	apiURL     string
}

// RPSError is returned when the Bot API rate limits the bot.
type RPSError struct {
	Msg        string
	RetryAfter int
}

func (e *RPSError) Error() string {
	return e.Msg
}

var ErrNoUsername = errors.New("bot has no username")

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type response struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters,omitempty"`
}

func NewClient(token, apiURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		token:  token,
		apiURL: strings.TrimRight(apiURL, "/"),
	}
}

func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, http.MethodGet, "getMe", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// BotUsername returns the username of the bot owning the token.
func (c *Client) BotUsername(ctx context.Context) (string, error) {
	me, err := c.GetMe(ctx)
	if err != nil {
		return "", err
	}
	if me.Username == "" {
		return "", ErrNoUsername
	}
	return me.Username, nil
}

func (c *Client) call(ctx context.Context, method, apiMethod string, data url.Values, result interface{}) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, apiMethod)

	var req *http.Request
	var err error

	if method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(data.Encode()))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		if len(data) > 0 {
			endpoint = fmt.Sprintf("%s?%s", endpoint, data.Encode())
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the token; never surface it.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("failed to send %s request: %w", apiMethod, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if !r.Ok {
		if r.ErrorCode == http.StatusTooManyRequests {
			rpsErr := &RPSError{Msg: r.Description}
			if r.Parameters != nil {
				rpsErr.RetryAfter = r.Parameters.RetryAfter
			}
			return rpsErr
		}
		return fmt.Errorf("telegram API error %d: %s", r.ErrorCode, r.Description)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(r.Result, result); err != nil {
		return fmt.Errorf("failed to parse result: %w", err)
	}
	return nil
}
