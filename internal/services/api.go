// HTTP client for the movie catalogue service
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shadowkick/internal/session"
	"github.com/desertthunder/shadowkick/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the hosted movie service.
const DefaultBaseURL = "https://dojo-db-e5c2cf5a1b56.herokuapp.com"

// APIOptions configures an [APIService].
type APIOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    *session.Session
	// LenientAuth sends authenticated requests without credentials when no token is stored,
	// instead of failing locally.
	LenientAuth bool
	// RateLimit is the allowed requests per second. Zero disables limiting.
	RateLimit float64
	Burst     int
	Logger    *log.Logger
}

// APIService talks to the movie service and keeps the session in step with it.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	lenient    bool
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewAPIService creates a new API service instance.
func NewAPIService(opts APIOptions) *APIService {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	sess := opts.Session
	if sess == nil {
		sess = session.NewMemory(logger)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
		session:    sess,
		lenient:    opts.LenientAuth,
		limiter:    limiter,
		logger:     logger,
	}
}

// Session returns the session this service writes to.
func (a *APIService) Session() *session.Session {
	return a.session
}

// WithLogger returns a copy of the service that logs to logger. The session and limiter are shared.
func (a *APIService) WithLogger(logger *log.Logger) *APIService {
	c := *a
	c.logger = logger
	return &c
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RequestID  string
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to the specified path and returns the raw response.
//
// The stored token is attached when present; no auth precondition is enforced.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	tok, _ := a.session.TokenSource().Token()
	return a.send(ctx, http.MethodGet, path, nil, tok)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	tok, _ := a.session.TokenSource().Token()
	return a.send(ctx, http.MethodPost, path, data, tok)
}

func (a *APIService) send(ctx context.Context, method, path string, data []byte, tok *oauth2.Token) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != nil {
		tok.SetAuthHeader(req)
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
	}

	a.logger.Debug("api request", "method", method, "path", path, "request_id", requestID)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	a.logger.Debug("api response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody))

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
		RequestID:  requestID,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// call performs one typed request. in is JSON-encoded as the body when non-nil; a 2xx body
// is decoded into out when out is non-nil. Failures come back as [*APIError].
func (a *APIService) call(ctx context.Context, method, path string, auth bool, in, out any) (*APIResponse, error) {
	var tok *oauth2.Token
	if auth {
		t, err := a.session.TokenSource().Token()
		switch {
		case err == nil:
			tok = t
		case !a.lenient:
			return nil, err
		default:
			a.logger.Warn("no token stored, sending request without credentials", "path", path)
		}
	}

	var data []byte
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		data = encoded
	}

	resp, err := a.send(ctx, method, path, data, tok)
	if err != nil {
		a.logger.Error("transport failure", "method", method, "path", path, "err", err)
		return nil, &APIError{Backend: BackendError{Kind: KindGeneric}, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			RequestID:  resp.RequestID,
			Backend:    ParseBackendError(resp.Body),
		}
		a.logger.Error("backend error",
			"method", method, "path", path, "status", resp.StatusCode,
			"kind", apiErr.Backend.Kind, "request_id", resp.RequestID, "body", string(resp.Body))
		return resp, apiErr
	}

	if out != nil && len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return resp, fmt.Errorf("%w: %v", shared.ErrDecodeResponse, err)
		}
	}

	return resp, nil
}

// currentUser resolves the username for user-scoped paths.
func (a *APIService) currentUser() (string, error) {
	name, ok := a.session.CurrentUsername()
	if !ok {
		a.logger.Error("no username stored in session")
		return "", shared.ErrNotLoggedIn
	}
	return name, nil
}
