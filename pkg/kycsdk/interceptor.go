package kycsdk

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

	"github.com/aussiebroadwan/kyc/pkg/idx"
	"github.com/aussiebroadwan/kyc/pkg/slogx"
)

// Request describes one call to the upstream.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON encoded when non-nil.
	Body any

	// Headers are merged over the defaults. Authorization is ignored; the
	// bearer always comes from the token source.
	Headers map[string]string

	// bearer replaces the token source. Only LoginProfile sets it, for the
	// token a login just returned and the store has not saved yet.
	bearer string
}

// Do sends req and decodes a successful JSON response into out (which may be
// nil). Failed exchanges return *ClassifiedError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	reqID := idx.New()
	log := slogx.FromContext(slogx.WithRequestID(ctx, reqID))

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("kycsdk: encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.url(req.Path, req.Query), body)
	if err != nil {
		return fmt.Errorf("kycsdk: build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(slogx.RequestIDHeader, reqID.String())
	for k, v := range req.Headers {
		if strings.EqualFold(k, "Authorization") {
			log.Debug("ignoring caller supplied authorization header", "path", req.Path)
			continue
		}
		httpReq.Header.Set(k, v)
	}

	bearer := req.bearer
	if bearer == "" {
		bearer = c.token()
	}
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		ce := c.messages().ClassifyTransport(err)
		log.Debug("upstream unreachable", "path", req.Path, "err", err)
		return ce
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug("reading response body failed", "path", req.Path, "status", resp.StatusCode, "err", err)
		if !successful(resp.StatusCode) {
			return c.messages().ClassifyResponse(resp.StatusCode, nil)
		}
		ce := c.messages().ClassifyTransport(fmt.Errorf("read response body: %w", err))
		ce.StatusCode = resp.StatusCode
		return ce
	}

	if !successful(resp.StatusCode) {
		ce := c.messages().ClassifyResponse(resp.StatusCode, raw)
		log.Debug("upstream rejected request",
			"method", method,
			"path", req.Path,
			"status", resp.StatusCode,
			"kind", ce.Kind.String(),
			"error_id", ce.ID.String(),
		)
		return ce
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("kycsdk: decode %s %s: %w", method, req.Path, err)
	}

	return nil
}

func successful(status int) bool { return status >= 200 && status <= 299 }

// IsClassified reports whether err carries a *ClassifiedError.
func IsClassified(err error) bool {
	var ce *ClassifiedError
	return errors.As(err, &ce)
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string, query url.Values) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}
