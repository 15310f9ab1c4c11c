package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meditrack/meditrack-api/pkg/config"
	"github.com/meditrack/meditrack-api/pkg/logger"
)

// Keys are laid out as mt:<area>:<id>.
const (
	keyNamespace   = "mt"
	areaEscalation = "escalation"
	areaRealtime   = "realtime"
)

var errNotInitialized = errors.New("redis client not initialized")

// commands is the slice of go-redis used outside subscriptions; tests fake it.
type commands interface {
	Ping(context.Context) *redis.StatusCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
	Publish(context.Context, string, any) *redis.IntCmd
}

// Client carries the escalation claims and the realtime fan-out channel.
type Client struct {
	cmd  commands
	conn *redis.Client
}

// OnceStore claims alert ids so an escalation is sent at most once across
// instances. A released claim may be taken again.
type OnceStore interface {
	ClaimEscalation(ctx context.Context, alertID string, ttl time.Duration) (bool, error)
	ReleaseEscalation(ctx context.Context, alertID string) error
}

// PubSub is the fan-out surface used by the realtime relay.
type PubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
	ChannelName(name string) string
}

func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	conn := redis.NewClient(opts)
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"redis_addr": opts.Addr,
			"redis_db":   opts.DB,
			"pool_size":  opts.PoolSize,
		}), "redis connection established")
	}
	return Wrap(conn), nil
}

// Wrap adapts an already constructed go-redis client.
func Wrap(conn *redis.Client) *Client {
	return &Client{cmd: conn, conn: conn}
}

// clientOptions prefers the URL and lets explicit settings fill whatever the
// URL left at zero.
func clientOptions(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case strings.TrimSpace(cfg.URL) != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	case strings.TrimSpace(cfg.Address) != "":
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password}
	default:
		return nil, errors.New("redis url or address is required")
	}

	fillInt(&opts.DB, cfg.DB)
	fillInt(&opts.PoolSize, cfg.PoolSize)
	fillInt(&opts.MinIdleConns, cfg.MinIdleConns)
	fillDuration(&opts.DialTimeout, cfg.DialTimeout)
	fillDuration(&opts.ReadTimeout, cfg.ReadTimeout)
	fillDuration(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func fillInt(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}

func fillDuration(dst *time.Duration, v time.Duration) {
	if *dst == 0 {
		*dst = v
	}
}

// ClaimEscalation reports whether this caller is the first to claim alertID
// within ttl.
func (c *Client) ClaimEscalation(ctx context.Context, alertID string, ttl time.Duration) (bool, error) {
	if c.cmd == nil {
		return false, errNotInitialized
	}
	stamp := time.Now().UTC().Format(time.RFC3339)
	return c.cmd.SetNX(ctx, c.EscalationKey(alertID), stamp, ttl).Result()
}

func (c *Client) ReleaseEscalation(ctx context.Context, alertID string) error {
	if c.cmd == nil {
		return errNotInitialized
	}
	return c.cmd.Del(ctx, c.EscalationKey(alertID)).Err()
}

func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	if c.cmd == nil {
		return errNotInitialized
	}
	return c.cmd.Publish(ctx, channel, payload).Err()
}

// Subscribe returns nil when the client was built without a connection.
func (c *Client) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	if c.conn == nil {
		return nil
	}
	return c.conn.Subscribe(ctx, channels...)
}

func (c *Client) EscalationKey(alertID string) string {
	return key(areaEscalation, alertID)
}

func (c *Client) ChannelName(name string) string {
	return key(areaRealtime, name)
}

// Ping backs the readiness check.
func (c *Client) Ping(ctx context.Context) error {
	if c.cmd == nil {
		return errNotInitialized
	}
	return c.cmd.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func key(parts ...string) string {
	out := []string{keyNamespace}
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, ":")
}
