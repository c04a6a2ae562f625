package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const defaultLeadTimeout = 10 * time.Second

// LeadConfig holds the credentials of the external lead API.
type LeadConfig struct {
	APIURL    string
	Signature string
	ClientID  string
	CompanyID string
	Timeout   time.Duration
}

// LeadService talks to the external lead-management API.
type LeadService struct {
	cfg    LeadConfig
	client HTTPClient
}

func NewLeadService(cfg LeadConfig, client HTTPClient) *LeadService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLeadTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	return &LeadService{cfg: cfg, client: client}
}

// Timeout is the budget each call is given by the flow.
func (s *LeadService) Timeout() time.Duration { return s.cfg.Timeout }

type createLeadBody struct {
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	EmailFrom   string `json:"email_from"`
	Description string `json:"description"`
}

type updateLeadBody struct {
	Description string `json:"description"`
}

// CreateLead registers the visitor and returns the remote record id.
func (s *LeadService) CreateLead(ctx context.Context, u UserData, guideName string) (string, error) {
	body := createLeadBody{
		Name:        u.FullName(),
		Phone:       strings.TrimSpace(u.Phone),
		EmailFrom:   strings.TrimSpace(u.Email),
		Description: FormatLeadDescription(u, guideName),
	}
	var out struct {
		LeadID json.RawMessage `json:"lead_id"`
		ID     json.RawMessage `json:"id"`
	}
	if err := s.do(ctx, http.MethodPost, "/leads", body, &out); err != nil {
		return "", err
	}
	id := rawID(out.LeadID)
	if id == "" {
		id = rawID(out.ID)
	}
	if id == "" {
		return "", NewBadGatewayError("lead api returned no id")
	}
	return id, nil
}

// UpdateLead replaces the description of an existing lead.
func (s *LeadService) UpdateLead(ctx context.Context, id, description string) error {
	if strings.TrimSpace(id) == "" {
		return NewInvalidError("lead id required")
	}
	return s.do(ctx, http.MethodPut, "/leads/"+url.PathEscape(id), updateLeadBody{Description: description}, nil)
}

func (s *LeadService) do(ctx context.Context, method, path string, payload any, out any) error {
	if s.cfg.APIURL == "" {
		return NewInvalidError("lead api url not configured")
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, s.cfg.APIURL+path, bytes.NewReader(pb))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-signature", s.cfg.Signature)
	req.Header.Set("x-client-id", s.cfg.ClientID)
	req.Header.Set("x-company-id", s.cfg.CompanyID)
	resp, err := s.client.Do(req)
	if err != nil {
		return NewBadGatewayError(fmt.Sprintf("lead api %s %s: %v", method, path, err))
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		log.Printf("lead api: %s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(b)))
		return NewBadGatewayError(fmt.Sprintf("lead api returned status %d", resp.StatusCode))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewBadGatewayError("lead api returned invalid JSON")
	}
	return nil
}

// rawID accepts ids encoded as JSON strings or numbers.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
