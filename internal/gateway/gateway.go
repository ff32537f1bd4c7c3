package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/krugstergaming/Greenhouse/pkg/config"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/logger"
)

// TokenSource supplies the current bearer credential. An empty string
// means no session; authenticated endpoints will then be refused by the
// backend with 401, which surfaces as CodeUnauthorized.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client talks to the GreenHouse backend. One method per endpoint;
// every method returns (result, error) and normalizes backend error
// payloads into coded errors regardless of how the backend shaped them.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *logger.Logger
}

func New(cfg config.APIConfig, tokens TokenSource, logg *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gateway: base url is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("gateway: token source is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("gateway: logger is required")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		log:     logg,
	}, nil
}

type call struct {
	method      string
	path        string
	query       string
	body        io.Reader
	contentType string
	authed      bool
}

func jsonBody(v any) (io.Reader, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "encoding request body")
	}
	return buf, nil
}

// do executes the call and decodes the response into out (skipped when
// out is nil). Backend refusals, whatever their shape, come back as
// *errors.Error carrying the backend-supplied detail.
func (c *Client) do(ctx context.Context, req call, out any) error {
	url := c.baseURL + req.path
	if req.query != "" {
		url += "?" + req.query
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, url, req.body)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "building request")
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.authed {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return errors.Wrap(errors.CodeTransport, err, "calling backend")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(errors.CodeTransport, err, "reading backend response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return backendError(resp.StatusCode, payload)
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.Wrap(errors.CodeBackend, err, "decoding backend response")
	}
	return nil
}

// backendError extracts the detail message from a non-2xx payload.
// FastAPI-style backends put it under "detail", which may be a string
// or a structured validation report.
func backendError(status int, payload []byte) *errors.Error {
	code := errors.FromStatus(status)
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil {
		if len(envelope.Detail) > 0 {
			var detail string
			if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
				return errors.New(code, detail)
			}
			return errors.New(code, "request rejected").WithDetails(json.RawMessage(envelope.Detail))
		}
		if envelope.Error != "" {
			return errors.New(code, envelope.Error)
		}
	}
	return errors.New(code, http.StatusText(status))
}

// refused normalizes a success-shaped refusal ({"error": ...} or
// {"success": false}) into a coded error. Several endpoints answer 200
// for failures; nothing upstream should have to look inside.
func refused(success bool, detail string) error {
	if success && detail == "" {
		return nil
	}
	if detail == "" {
		detail = "request rejected"
	}
	return errors.New(errors.CodeBackend, detail)
}
