package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/singleflight"

	"ecomapa/internal/app/client/config"
)

// Endpoints that must never carry a bearer token.
var publicRoutes = []string{
	"/accounts/register/",
	"/accounts/login/",
	"/accounts/token/verify/",
	"/accounts/token/refresh/",
}

var (
	// ErrSessionExpired means the refresh protocol failed and the stored
	// session was destroyed. The owner of the session-expired callback is
	// responsible for routing the user back to login.
	ErrSessionExpired = errors.New("session expired")

	ErrNoRefreshToken = errors.New("no refresh token")
)

const blacklistedDetail = "Token is blacklisted"

// Response is a settled HTTP exchange: status plus the fully read body.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// SessionClient wraps every outbound API call: it attaches the bearer token
// read fresh from the TokenStore, and on an authorization failure performs a
// single refresh-and-retry. Retry state is an explicit attempt counter
// threaded through send, never a flag on the request.
type SessionClient struct {
	client    *http.Client
	baseURL   string
	tokens    *TokenStore
	log       *slog.Logger
	userAgent string

	refreshing       singleflight.Group
	onSessionExpired func()
}

func NewSessionClient(cfg *config.Config, tokens *TokenStore, log *slog.Logger) *SessionClient {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &SessionClient{
		client:    client,
		baseURL:   strings.TrimRight(cfg.APIURL, "/"),
		tokens:    tokens,
		log:       log,
		userAgent: "EcoMapa-Client/1.0",
	}
}

// OnSessionExpired registers the callback invoked when the refresh protocol
// fails and the session is cleared. The client itself never navigates.
func (s *SessionClient) OnSessionExpired(fn func()) {
	s.onSessionExpired = fn
}

// Request performs a JSON API call. A nil body sends no payload.
func (s *SessionClient) Request(ctx context.Context, method, path string, body any, query url.Values) (*Response, error) {
	var payload []byte
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
		contentType = "application/json"
	}

	return s.send(ctx, method, path, payload, contentType, query, 0)
}

// SendRaw performs a call with a pre-encoded body, used for multipart
// uploads. The body is buffered so an authorization retry can replay it.
func (s *SessionClient) SendRaw(ctx context.Context, method, path string, payload []byte, contentType string) (*Response, error) {
	return s.send(ctx, method, path, payload, contentType, nil, 0)
}

func (s *SessionClient) send(ctx context.Context, method, path string, payload []byte, contentType string, query url.Values, attempt int) (*Response, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("User-Agent", s.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	public := isPublicRoute(path)
	if !public {
		access, err := s.tokens.GetAccess(ctx)
		if err != nil {
			return nil, err
		}
		if access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}

	s.log.Debug("sending request",
		"method", method,
		"url", req.URL.String(),
		"attempt", attempt,
	)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if !public && attempt == 0 && isAuthFailure(resp.StatusCode, respBody) {
		s.log.Debug("authorization failure, refreshing token", "path", path)

		if _, err := s.refreshAccessToken(ctx); err != nil {
			if clearErr := s.tokens.Clear(ctx); clearErr != nil {
				s.log.Error("failed to clear session", "error", clearErr)
			}
			if s.onSessionExpired != nil {
				s.onSessionExpired()
			}
			return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}

		// Exactly one replay; a second failure surfaces unmodified
		return s.send(ctx, method, path, payload, contentType, query, attempt+1)
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// refreshAccessToken runs the refresh protocol: POST the refresh token,
// save the new access token paired with the same refresh token (the backend
// does not rotate refresh tokens). Concurrent callers share one in-flight
// refresh.
func (s *SessionClient) refreshAccessToken(ctx context.Context) (string, error) {
	access, err, _ := s.refreshing.Do("refresh", func() (any, error) {
		refresh, err := s.tokens.GetRefresh(ctx)
		if err != nil {
			return "", err
		}
		if refresh == "" {
			return "", ErrNoRefreshToken
		}

		resp, err := s.send(ctx, http.MethodPost, "/accounts/token/refresh/",
			mustJSON(map[string]string{"refresh": refresh}), "application/json", nil, 0)
		if err != nil {
			return "", fmt.Errorf("refresh request failed: %w", err)
		}
		if !resp.OK() {
			return "", fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
		}

		var refreshResp struct {
			Access string `json:"access"`
		}
		if err := json.Unmarshal(resp.Body, &refreshResp); err != nil {
			return "", fmt.Errorf("failed to parse refresh response: %w", err)
		}
		if refreshResp.Access == "" {
			return "", fmt.Errorf("refresh response has no access token")
		}

		if err := s.tokens.Save(ctx, refreshResp.Access, refresh); err != nil {
			return "", err
		}
		return refreshResp.Access, nil
	})
	if err != nil {
		return "", err
	}
	return access.(string), nil
}

// VerifyOrRefreshTokens is the session bootstrap, called once at startup.
// A refreshed token is trusted without a second verify call, and a verify
// error other than 401 must not destroy a possibly valid session, so tokens
// are only cleared on a failed refresh.
func (s *SessionClient) VerifyOrRefreshTokens(ctx context.Context) (bool, error) {
	access, err := s.tokens.GetAccess(ctx)
	if err != nil {
		return false, err
	}
	if access == "" {
		return false, nil
	}

	resp, err := s.Request(ctx, http.MethodPost, "/accounts/token/verify/",
		map[string]string{"token": access}, nil)
	if err != nil {
		s.log.Debug("token verify unreachable, keeping session", "error", err)
		return false, nil
	}

	switch {
	case resp.OK():
		return true, nil
	case resp.StatusCode == http.StatusUnauthorized:
		if _, err := s.refreshAccessToken(ctx); err != nil {
			if clearErr := s.tokens.Clear(ctx); clearErr != nil {
				s.log.Error("failed to clear session", "error", clearErr)
			}
			return false, nil
		}
		return true, nil
	default:
		return false, nil
	}
}

func isPublicRoute(path string) bool {
	for _, route := range publicRoutes {
		if strings.HasSuffix(path, route) {
			return true
		}
	}
	return false
}

func isAuthFailure(status int, body []byte) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	var errResp struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail == blacklistedDetail {
		return true
	}
	return false
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
