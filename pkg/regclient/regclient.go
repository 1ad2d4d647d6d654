// Package regclient is the registration portal client: the event gate check,
// client-side form validation, the multipart submit, and visitor card URL
// handling.
package regclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// GateStatus is the outcome of the event gate check.
type GateStatus int

const (
	// GateInactive covers everything that is not a confirmed active event:
	// unknown IDs, inactive events, and transport failures. Registration
	// fails closed.
	GateInactive GateStatus = iota
	GateActive
)

// ErrSubmitInFlight is returned when a submit is already running.
var ErrSubmitInFlight = errors.New("registration already in progress")

// Client talks to the registration API.
type Client struct {
	baseURL string
	http    *http.Client

	mu         sync.Mutex
	submitting bool
}

// New builds a Client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient is New with a caller-provided HTTP client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	if hc != nil {
		c.http = hc
	}
	return c
}

// CheckEvent resolves whether registration is open for the event named in a
// page URL. Anything other than a confirmed active event is inactive; a
// malformed ID never reaches the network.
func (c *Client) CheckEvent(ctx context.Context, eventID string) GateStatus {
	id, err := strconv.ParseInt(strings.TrimSpace(eventID), 10, 64)
	if err != nil || id <= 0 {
		return GateInactive
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/event/check/%d", c.baseURL, id), nil)
	if err != nil {
		return GateInactive
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return GateInactive
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return GateInactive
	}

	var body struct {
		Event struct {
			IsActive bool `json:"is_active"`
		} `json:"event"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return GateInactive
	}
	if !body.Event.IsActive {
		return GateInactive
	}
	return GateActive
}

// Tourist mirrors the server's registration record.
type Tourist struct {
	ID         string `json:"id"`
	EventID    int64  `json:"registered_event_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IDType     string `json:"unique_id_type"`
	IDNumber   string `json:"unique_id"`
	IsGroup    bool   `json:"is_group"`
	GroupCount int    `json:"group_count"`
}

// RegistrationResponse is a successful submit result.
type RegistrationResponse struct {
	Message        string   `json:"message"`
	Tourist        *Tourist `json:"tourist"`
	VisitorCardURL *string  `json:"visitor_card_url"`
}

// Submit validates the form and posts it. Only one submit runs at a time;
// concurrent calls get ErrSubmitInFlight.
func (c *Client) Submit(ctx context.Context, eventID string, form Form) (*RegistrationResponse, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(eventID), 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.New("Registration failed")
	}

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	c.submitting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	body, contentType, err := form.encode(id)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/tourists/register", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.New("Registration failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New("Registration failed")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(extractError(raw))
	}

	var result RegistrationResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.New("Registration failed")
	}
	return &result, nil
}

// extractError surfaces the server's detail, then message, then a generic
// fallback.
func extractError(raw []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return "Registration failed"
}

// PreviewURL resolves a card URL for viewing: absolute URLs pass through,
// anything else is joined to the API base.
func (c *Client) PreviewURL(cardURL string) string {
	if strings.HasPrefix(cardURL, "http") {
		return cardURL
	}
	return c.baseURL + cardURL
}

// DownloadURL derives the attachment variant of a card URL.
func (c *Client) DownloadURL(cardURL string) string {
	return c.PreviewURL(strings.Replace(cardURL, "/visitor-card/", "/download-visitor-card/", 1))
}

// Download fetches the card bytes.
func (c *Client) Download(ctx context.Context, cardURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PreviewURL(cardURL), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("card download failed: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
