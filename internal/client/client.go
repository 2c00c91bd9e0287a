package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sla0ui/phishguard/internal/logging"
	"github.com/Sla0ui/phishguard/internal/models"
)

const (
	analyzePath   = "/api/analyze"
	statusPath    = "/api/status"
	educationPath = "/api/education/"

	// RequestIDHeader carries the per-submission id used to correlate client
	// diagnostics with server logs.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 4 << 20
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

// Client talks to the threat-analysis service.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *logging.Logger
}

// New creates a Client from config. The request timeout is enforced by the
// underlying http.Client only.
func New(config *models.Config, logger *logging.Logger) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !config.VerifyTLS,
		},
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}

	return NewWithHTTPClient(config.APIURL, config.UserAgent, &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
	}, logger)
}

// NewWithHTTPClient creates a Client around an existing http.Client.
func NewWithHTTPClient(baseURL, userAgent string, httpClient *http.Client, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Analyze posts the envelope and decodes the verdict leniently.
func (c *Client) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, analyzePath, payload)
	if err != nil {
		return nil, err
	}

	result, issues, err := models.DecodeResult(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode verdict: %w", err)
	}
	for _, issue := range issues {
		c.logger.Debug("ignored malformed verdict field", logging.F("issue", issue))
	}
	return result, nil
}

// Status fetches the service status.
func (c *Client) Status(ctx context.Context) (*models.StatusResponse, error) {
	body, err := c.do(ctx, http.MethodGet, statusPath, nil)
	if err != nil {
		return nil, err
	}

	var status models.StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}
	return &status, nil
}

// Education fetches the service's guidance for one attack type.
func (c *Client) Education(ctx context.Context, attackType string) (*models.EducationResponse, error) {
	attackType = strings.TrimSpace(attackType)
	if attackType == "" {
		return nil, fmt.Errorf("attack type cannot be empty")
	}

	body, err := c.do(ctx, http.MethodGet, educationPath+url.PathEscape(strings.ToUpper(attackType)), nil)
	if err != nil {
		return nil, err
	}

	var education models.EducationResponse
	if err := json.Unmarshal(body, &education); err != nil {
		return nil, fmt.Errorf("failed to decode education content: %w", err)
	}
	return &education, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("service responded",
		logging.F("method", method),
		logging.F("path", path),
		logging.F("status", resp.StatusCode),
		logging.F("request_id", requestID),
		logging.F("elapsed", time.Since(start).Round(time.Millisecond)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
