package kycsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/kyc/pkg/idx"
)

// Kind is the closed set of failure families.
type Kind int

const (
	KindUnclassified Kind = iota
	KindNetwork
	KindClientError
	KindServerError
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindClientError:
		return "client_error"
	case KindServerError:
		return "server_error"
	default:
		return "unclassified"
	}
}

// ClassifiedError is the only error shape the interceptor returns for a
// failed exchange with the upstream.
type ClassifiedError struct {
	// ID identifies the failed response. Retries of the same request
	// produce distinct IDs.
	ID idx.ID

	Kind Kind

	// StatusCode is zero when no response was received.
	StatusCode int

	// Message is never empty.
	Message string

	// Body is the raw response body, kept for diagnostics.
	Body []byte

	// Cause is the transport error for KindNetwork.
	Cause error
}

func (e *ClassifiedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("kycsdk: %s %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("kycsdk: %s: %s", e.Kind, e.Message)
}

func (e *ClassifiedError) Unwrap() error { return e.Cause }

// HasStatus reports whether a response was received.
func (e *ClassifiedError) HasStatus() bool { return e.StatusCode != 0 }

// Unauthorized reports whether the upstream rejected the caller's credentials.
func (e *ClassifiedError) Unauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

// Messages holds the canned user-facing text per failure family.
type Messages struct {
	Client        map[int]string
	ClientDefault string
	Server        map[int]string
	ServerDefault string
	Network       string
}

// DefaultMessages returns a fresh copy of the built-in tables.
func DefaultMessages() *Messages {
	return &Messages{
		Client: map[int]string{
			http.StatusBadRequest:     "Bad Request. Please check your input.",
			http.StatusUnauthorized:   "Unauthorized! Please log in again.",
			http.StatusForbidden:      "Forbidden! You do not have permission to access this resource.",
			http.StatusNotFound:       "Resource not found. Please check the URL.",
			http.StatusRequestTimeout: "Request Timeout. Please try again later.",
			http.StatusConflict:       "Conflict! The resource already exists.",
		},
		ClientDefault: "An error occurred. Please try again.",
		Server: map[int]string{
			http.StatusInternalServerError: "Internal Server Error. Please contact support.",
			http.StatusBadGateway:          "Bad Gateway. Please try again later.",
			http.StatusGatewayTimeout:      "Gateway Timeout. Please try again later.",
		},
		ServerDefault: "Server error occurred. Please try again later.",
		Network:       "Network error. Please check your internet connection.",
	}
}

// ClassifyResponse classifies a received non-success response.
func (m *Messages) ClassifyResponse(status int, body []byte) *ClassifiedError {
	ce := &ClassifiedError{
		ID:         idx.New(),
		StatusCode: status,
		Body:       body,
	}

	switch {
	case status >= 400 && status < 500:
		ce.Kind = KindClientError
		ce.Message = pick(m.Client[status], m.ClientDefault)
	case status >= 500:
		ce.Kind = KindServerError
		ce.Message = pick(m.Server[status], m.ServerDefault)
	default:
		ce.Kind = KindUnclassified
		ce.Message = m.networkDefault()
	}

	if msg := bodyMessage(body); msg != "" {
		ce.Message = msg
	}
	if ce.Message == "" {
		ce.Message = http.StatusText(status)
	}
	if ce.Message == "" {
		ce.Message = "Request failed."
	}

	return ce
}

// ClassifyTransport classifies a failure where no response was obtained.
func (m *Messages) ClassifyTransport(err error) *ClassifiedError {
	return &ClassifiedError{
		ID:      idx.New(),
		Kind:    KindNetwork,
		Message: m.networkDefault(),
		Cause:   err,
	}
}

func (m *Messages) networkDefault() string {
	return pick(m.Network, DefaultMessages().Network)
}

// bodyMessage extracts a non-empty string "message" field from a JSON body.
func bodyMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	s, _ := payload.Message.(string)
	return s
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
