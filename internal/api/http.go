package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"paylink/internal/domain"
)

// Header names understood by the API.
const (
	HeaderPublicKey     = "X-Public-Key"
	HeaderDeviceID      = "X-Device-Id"
	HeaderRequestID     = "X-Request-Id"
	HeaderAuthorization = "Authorization"
)

// maxBody caps how much of a response body is read.
const maxBody = 4 << 20

// HTTP is a domain.APIClient over net/http. Every request carries the
// device headers; responses are returned as sealed envelopes.
type HTTP struct {
	Base string
	HTTP *http.Client
	log  zerolog.Logger
}

// NewHTTP returns a client for the API rooted at base. A zero timeout
// leaves requests bounded only by their context.
func NewHTTP(base string, timeout time.Duration, log zerolog.Logger) *HTTP {
	return &HTTP{
		Base: strings.TrimRight(base, "/"),
		HTTP: &http.Client{Timeout: timeout},
		log:  log.With().Str("component", "api").Logger(),
	}
}

// Login posts the credentials to /auth/login.
func (c *HTTP) Login(
	ctx context.Context,
	creds domain.Credentials,
	in domain.LoginRequest,
) (domain.Envelope, error) {
	return c.do(ctx, http.MethodPost, "/auth/login", creds, in)
}

func (c *HTTP) Logout(ctx context.Context, creds domain.Credentials) (domain.Envelope, error) {
	return c.do(ctx, http.MethodPost, "/auth/logout", creds, nil)
}

func (c *HTTP) Me(ctx context.Context, creds domain.Credentials) (domain.Envelope, error) {
	return c.do(ctx, http.MethodGet, "/user/me", creds, nil)
}

func (c *HTTP) Wallets(ctx context.Context, creds domain.Credentials) (domain.Envelope, error) {
	return c.do(ctx, http.MethodGet, "/wallets", creds, nil)
}

func (c *HTTP) Senders(
	ctx context.Context,
	creds domain.Credentials,
	q domain.SendersQuery,
) (domain.Envelope, error) {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status.String())
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	path := "/senders"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	return c.do(ctx, http.MethodGet, path, creds, nil)
}

func (c *HTTP) Sender(
	ctx context.Context,
	creds domain.Credentials,
	id string,
) (domain.Envelope, error) {
	return c.do(ctx, http.MethodGet, "/senders/"+url.PathEscape(id), creds, nil)
}

func (c *HTTP) do(
	ctx context.Context,
	method, path string,
	creds domain.Credentials,
	in any,
) (domain.Envelope, error) {
	fail := func(status int, err error) (domain.Envelope, error) {
		return domain.Envelope{}, &domain.TransportError{
			Method: method, Path: path, StatusCode: status, Err: err,
		}
	}

	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return domain.Envelope{}, fmt.Errorf("encode %s body: %w", path, err)
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return fail(0, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderPublicKey, creds.PublicKey.String())
	req.Header.Set(HeaderDeviceID, creds.DeviceID.String())
	if creds.Authorization != "" {
		req.Header.Set(HeaderAuthorization, "Bearer "+creds.Authorization)
	}
	reqID := uuid.NewString()
	req.Header.Set(HeaderRequestID, reqID)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).
			Str("request_id", reqID).Msg("request failed")
		return fail(0, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api call")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fail(resp.StatusCode, err)
	}
	var env domain.Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode/100 != 2 {
		if decodeErr == nil && env.Status == domain.StatusError {
			return env, nil
		}
		return fail(resp.StatusCode, fmt.Errorf("unexpected %s", resp.Status))
	}
	if decodeErr != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode envelope: %w", decodeErr))
	}
	return env, nil
}

var _ domain.APIClient = (*HTTP)(nil)
