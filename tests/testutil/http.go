package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope is the JSON body every API response is wrapped in
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Response is a recorded reply with its decoded envelope
type Response struct {
	*httptest.ResponseRecorder
	Envelope Envelope
}

// Client drives an http.Handler in process, the way a browser would
type Client struct {
	handler http.Handler
	Token   string
}

// NewClient wraps handler. Token, when set, is sent as a bearer token.
func NewClient(handler http.Handler) *Client {
	return &Client{handler: handler}
}

// WithToken returns a copy of the client that authenticates as token
func (c *Client) WithToken(token string) *Client {
	return &Client{handler: c.handler, Token: token}
}

// Do sends a JSON request. A nil body sends no payload.
func (c *Client) Do(t *testing.T, method, path string, body any) *Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "marshal request body")
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.Send(t, req)
}

// Send serves a prepared request
func (c *Client) Send(t *testing.T, req *http.Request) *Response {
	t.Helper()

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	resp := &Response{ResponseRecorder: w}
	if w.Body.Len() > 0 && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		_ = json.Unmarshal(w.Body.Bytes(), &resp.Envelope)
	}
	return resp
}

// RequireStatus fails the test unless the reply has status code
func (r *Response) RequireStatus(t *testing.T, code int) *Response {
	t.Helper()
	require.Equal(t, code, r.Code, r.Body.String())
	return r
}

// AssertError checks the status and the error code of a failed reply
func (r *Response) AssertError(t *testing.T, status int, code string) {
	t.Helper()
	assert.Equal(t, status, r.Code, r.Body.String())
	if assert.NotNil(t, r.Envelope.Error, "expected an error body") {
		assert.Equal(t, code, r.Envelope.Error.Code)
	}
}

// Decode unmarshals the data field of a reply into T
func Decode[T any](t *testing.T, r *Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(r.Envelope.Data, &v), "decode %s", string(r.Envelope.Data))
	return v
}
