// Package redisstore implements the record store and activity log on Redis.
package redisstore

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rpggio/kanban/internal/repository"
)

// ParseOptions accepts a redis:// URL or "host:port,password=...,ssl=true".
func ParseOptions(conn string) (*redis.Options, error) {
	if strings.TrimSpace(conn) == "" {
		return nil, fmt.Errorf("missing redis address: %w", repository.ErrInvalidInput)
	}
	opts, err := redis.ParseURL(conn)
	if err == nil {
		return opts, nil
	}

	parts := strings.Split(conn, ",")
	opts = &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts, nil
}

// Connect opens a client and verifies the server answers.
func Connect(ctx context.Context, conn string) (*redis.Client, error) {
	opts, err := ParseOptions(conn)
	if err != nil {
		return nil, err
	}
	rc := redis.NewClient(opts)
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, wrapErr("ping", err)
	}
	return rc, nil
}

// wrapErr marks anything that is not a server reply as unavailable.
func wrapErr(op string, err error) error {
	var reply redis.Error
	if errors.As(err, &reply) {
		return fmt.Errorf("redis %s: %w", op, err)
	}
	return fmt.Errorf("redis %s: %w: %v", op, repository.ErrUnavailable, err)
}
