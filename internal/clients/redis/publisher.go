package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/sceneforge-backend/internal/platform/envutil"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

// Publisher fans pipeline progress events out on a pub/sub channel so
// a frontend can follow long generations. It is opt-in: NewFromEnv
// returns (nil, nil) when REDIS_ADDR is unset and a nil Publisher is
// safe to call.
type Publisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewFromEnv(log *logger.Logger) (*Publisher, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}
	channel := envutil.String("REDIS_CHANNEL", "sceneforge.progress")

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Publisher{
		log:     log.With("service", "ProgressPublisher"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, event any) error {
	if p == nil || p.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, raw).Err()
}

func (p *Publisher) Close() error {
	if p == nil || p.rdb == nil {
		return nil
	}
	return p.rdb.Close()
}
