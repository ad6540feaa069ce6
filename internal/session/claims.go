package session

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Token kinds accepted by the session.
type TokenKind int

const (
	KindNone TokenKind = iota
	KindJWT
	KindSession
	KindMalformed
)

func (k TokenKind) String() string {
	switch k {
	case KindJWT:
		return "jwt"
	case KindSession:
		return "session"
	case KindMalformed:
		return "malformed"
	default:
		return "none"
	}
}

const sessionPrefix = "session_"

var (
	ErrNoToken        = errors.New("no token")
	ErrSessionToken   = errors.New("session token carries no signed claims")
	ErrMalformedToken = errors.New("malformed token")
)

// DecodeError wraps a failure to decode the payload segment of a three-segment token.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode token payload: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Kind classifies a token string. A three-segment check comes first, so a
// "session_" string containing exactly two dots is treated as a JWT.
func Kind(token string) TokenKind {
	switch {
	case token == "":
		return KindNone
	case len(strings.Split(token, ".")) == 3:
		return KindJWT
	case strings.HasPrefix(token, sessionPrefix):
		return KindSession
	default:
		return KindMalformed
	}
}

// ClaimString is a claim value that may arrive as a JSON string or number.
type ClaimString string

func (c *ClaimString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*c = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = ClaimString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("claim: expected string or number, got %s", string(b))
	}
	*c = ClaimString(n.String())
	return nil
}

// Claims is the identity payload of a seller token.
type Claims struct {
	ID              ClaimString `json:"id,omitempty"`
	Role            ClaimString `json:"role,omitempty"`
	BranchID        ClaimString `json:"branch_id,omitempty"`
	MerchantID      ClaimString `json:"merchant_id,omitempty"`
	MerchantIDCamel ClaimString `json:"merchantId,omitempty"`
	UserID          ClaimString `json:"userId,omitempty"`
	Phone           ClaimString `json:"phone,omitempty"`
	Issuer          ClaimString `json:"iss,omitempty"`
	Exp             int64       `json:"exp,omitempty"`
	TokenType       string      `json:"tokenType,omitempty"`

	// Raw holds every claim, including ones without a typed field.
	Raw map[string]any `json:"-"`
}

// Merchant prefers the camelCase claim, falling back to merchant_id.
func (c Claims) Merchant() string {
	if c.MerchantIDCamel != "" {
		return string(c.MerchantIDCamel)
	}
	return string(c.MerchantID)
}

func (c Claims) ExpiresAt() (time.Time, bool) {
	if c.Exp <= 0 {
		return time.Time{}, false
	}
	return time.Unix(c.Exp, 0).UTC(), true
}

// Expired reports whether exp is set and in the past. Tokens are never rejected
// locally on expiry; this only feeds display.
func (c Claims) Expired(now time.Time) bool {
	at, ok := c.ExpiresAt()
	return ok && !now.Before(at)
}

// DecodeClaims decodes the claims of a token without verifying any signature.
func DecodeClaims(token string) (Claims, error) {
	switch Kind(token) {
	case KindNone:
		return Claims{}, ErrNoToken
	case KindSession:
		return Claims{}, ErrSessionToken
	case KindMalformed:
		return Claims{}, ErrMalformedToken
	}

	payload := strings.Split(token, ".")[1]
	b, err := decodeSegment(payload)
	if err != nil {
		return Claims{}, &DecodeError{Err: err}
	}
	var c Claims
	if err := json.Unmarshal(b, &c); err != nil {
		return Claims{}, &DecodeError{Err: err}
	}
	raw := map[string]any{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return Claims{}, &DecodeError{Err: err}
	}
	c.Raw = raw
	return c, nil
}

// ClaimsOrNil is the lenient form of DecodeClaims: any error yields ok=false.
func ClaimsOrNil(token string) (Claims, bool) {
	c, err := DecodeClaims(token)
	if err != nil {
		return Claims{}, false
	}
	return c, true
}

// SessionClaims synthesizes the partial claim set of a session_<ts>_<phone> token.
// Everything after the second underscore is the phone, re-joined with "_".
func SessionClaims(token string) (Claims, bool) {
	if Kind(token) != KindSession {
		return Claims{}, false
	}
	parts := strings.Split(token, "_")
	if len(parts) < 3 {
		return Claims{}, false
	}
	phone := strings.Join(parts[2:], "_")
	return Claims{
		Phone:     ClaimString(phone),
		TokenType: "session",
		Raw:       map[string]any{"phone": phone, "tokenType": "session"},
	}, true
}

// UserInfo returns the full claims for JWTs and the synthesized claims for session tokens.
func UserInfo(token string) (Claims, bool) {
	if Kind(token) == KindSession {
		return SessionClaims(token)
	}
	return ClaimsOrNil(token)
}

func decodeSegment(seg string) ([]byte, error) {
	seg = strings.TrimRight(seg, "=")
	if b, err := base64.RawURLEncoding.DecodeString(seg); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(seg)
}

// NewSessionToken builds the convenience session_<unix>_<phone> token.
func NewSessionToken(now time.Time, phone string) string {
	return sessionPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "_" + phone
}
