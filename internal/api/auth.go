package api

import (
	"context"
	"net/http"
	"regexp"
	"strings"
)

type OTPRequest struct {
	Phone string `json:"phone"`
}

type VerifyRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// VerifyResponse is the OTP verification result. Cookies carries the raw
// Set-Cookie header when present.
type VerifyResponse struct {
	Message  string `json:"Message,omitempty"`
	JWTToken string `json:"jwtToken,omitempty"`
	Token    string `json:"token,omitempty"`
	Cookies  string `json:"cookies,omitempty"`
}

// BearerToken is the token to store in the session: jwtToken first, then token.
func (v VerifyResponse) BearerToken() string {
	if v.JWTToken != "" {
		return v.JWTToken
	}
	return v.Token
}

// Cookie names scanned for a token, in priority order.
var cookieTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`jwt=([^;]+)`),
	regexp.MustCompile(`token=([^;]+)`),
	regexp.MustCompile(`auth=([^;]+)`),
	regexp.MustCompile(`session=([^;]+)`),
	regexp.MustCompile(`access_token=([^;]+)`),
}

// ExtractCookieToken scans a raw Set-Cookie string for a token. The first
// pattern that matches wins.
func ExtractCookieToken(raw string) (string, bool) {
	for _, re := range cookieTokenPatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// SetCookieString joins every Set-Cookie header the way a fetch client reports them.
func SetCookieString(h http.Header) string {
	return strings.Join(h.Values("Set-Cookie"), ", ")
}

func (c *Client) RequestOTP(ctx context.Context, phone string) (Result, error) {
	return c.do(ctx, request{
		op:     "RequestOTP",
		method: http.MethodPost,
		path:   "/Otp/Request",
		body:   OTPRequest{Phone: phone},
	})
}

// VerifyOTP submits the code. A token found in Set-Cookie overrides the body token.
func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) (VerifyResponse, error) {
	var out VerifyResponse
	res, err := c.do(ctx, request{
		op:     "VerifyOTP",
		method: http.MethodPost,
		path:   "/Auth/Seller/Verify",
		body:   VerifyRequest{Phone: phone, OTP: otp},
		out:    &out,
	})
	if err != nil {
		return VerifyResponse{}, err
	}
	if res.Degraded() {
		out = VerifyResponse{Message: res.Raw}
	}
	if raw := SetCookieString(res.Header); raw != "" {
		out.Cookies = raw
		if tok, ok := ExtractCookieToken(raw); ok {
			out.JWTToken = tok
		}
	}
	return out, nil
}
