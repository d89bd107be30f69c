package jwtx

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// payloadParser decodes segments the same way browsers' atob-based decoders
// do, accepting both padded and unpadded base64url.
var payloadParser = jwt.NewParser(jwt.WithPaddingAllowed())

// PayloadExpiry reads the "exp" claim from the payload segment of token
// without verifying its signature. The client has no key material; expiry is
// only used to decide whether a stored session is still worth presenting.
func PayloadExpiry(token string) (time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformed, len(parts))
	}

	raw, err := payloadParser.DecodeSegment(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}

	// Only exp is decoded; other claims may use any shape the issuer likes.
	var claims struct {
		Exp *jwt.NumericDate `json:"exp"`
	}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: payload json: %v", ErrMalformed, err)
	}

	if claims.Exp == nil {
		return time.Time{}, ErrMissingExpiry
	}

	return claims.Exp.Time, nil
}
