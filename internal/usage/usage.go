package usage

import (
	"context"
	"time"

	"github.com/connorads/webmux/internal/logger"
)

const cacheKey = "usage:codex"

// Cache keeps the last report between invocations. store.Store implements it.
type Cache interface {
	GetCache(key string, ttl time.Duration, now time.Time) (string, bool, error)
	PutCache(key, value string, now time.Time) error
}

// Checker produces the usage report, serving a cached copy within TTL.
type Checker struct {
	AuthPath string
	Client   *Client
	Cache    Cache // optional
	TTL      time.Duration
	Now      func() time.Time
}

func (c *Checker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Status returns the rendered report.
func (c *Checker) Status(ctx context.Context) (string, error) {
	now := c.now()
	if c.Cache != nil {
		out, ok, err := c.Cache.GetCache(cacheKey, c.TTL, now)
		if err != nil {
			logger.Warn("usage cache read failed", "err", err)
		}
		if ok {
			return out, nil
		}
	}

	auth, err := LoadAuth(c.AuthPath)
	if err != nil {
		return "", err
	}
	token, err := auth.Token(now)
	if err != nil {
		return "", err
	}
	resp, err := c.Client.Fetch(ctx, token)
	if err != nil {
		return "", err
	}
	out := Report(resp, ParseClaims(token).Profile.Email)

	if c.Cache != nil {
		if err := c.Cache.PutCache(cacheKey, out, now); err != nil {
			logger.Warn("usage cache write failed", "err", err)
		}
	}
	return out, nil
}
