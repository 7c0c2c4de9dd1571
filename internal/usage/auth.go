// Package usage reports Codex (ChatGPT OAuth) quota usage for the account
// the coding agent is logged in with.
package usage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("OpenAI OAuth token not found. Run: opencode auth login openai")
	ErrTokenExpired = errors.New("OpenAI OAuth token expired. Run: opencode auth login openai")
)

// Auth is the openai entry of the agent's auth.json.
type Auth struct {
	Type    string `json:"type"`
	Access  string `json:"access"`
	Expires int64  `json:"expires"` // unix millis, 0 if unknown
}

// LoadAuth reads the openai entry from path. A file without one yields a nil
// Auth and no error.
func LoadAuth(path string) (*Auth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth.json: %w", err)
	}
	var file map[string]json.RawMessage
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid auth.json format: %w", err)
	}
	raw, ok := file["openai"]
	if !ok {
		return nil, nil
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, nil
	}
	a := &Auth{}
	a.Type, _ = fields["type"].(string)
	a.Access, _ = fields["access"].(string)
	if exp, ok := fields["expires"].(float64); ok {
		a.Expires = int64(exp)
	}
	if a.Type == "" {
		return nil, nil
	}
	return a, nil
}

// Token returns the usable access token at now.
func (a *Auth) Token(now time.Time) (string, error) {
	if a == nil || a.Type != "oauth" || a.Access == "" {
		return "", ErrNoToken
	}
	if a.Expires != 0 && a.Expires < now.UnixMilli() {
		return "", ErrTokenExpired
	}
	return a.Access, nil
}

// Claims are the OpenAI-specific parts of the access token.
type Claims struct {
	jwt.RegisteredClaims
	Profile struct {
		Email string `json:"email"`
	} `json:"https://api.openai.com/profile"`
	Auth struct {
		AccountID string `json:"chatgpt_account_id"`
	} `json:"https://api.openai.com/auth"`
}

// ParseClaims decodes the token payload without verifying the signature; the
// token is only used to label the report and route the request. Malformed
// tokens yield empty claims.
func ParseClaims(token string) Claims {
	var c Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return Claims{}
	}
	return c
}
