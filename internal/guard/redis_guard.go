package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
)

const keyPrefix = "launchpad:inflight"

// RedisGuard 多实例部署时的锁，过期时间兜底进程崩溃的情况
type RedisGuard struct {
	rs  *redsync.Redsync
	ttl time.Duration
}

func NewRedisGuard(rdb redis.UniversalClient, ttl time.Duration) *RedisGuard {
	return &RedisGuard{
		rs:  redsync.New(goredis.NewPool(rdb)),
		ttl: ttl,
	}
}

func LockKey(key string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, key)
}

func (g *RedisGuard) TryAcquire(ctx context.Context, key string) (func(), error) {
	mutex := g.rs.NewMutex(LockKey(key), redsync.WithExpiry(g.ttl), redsync.WithTries(1))
	if err := mutex.TryLockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.As(err, &taken) || errors.Is(err, redsync.ErrFailed) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("redis lock %s: %w", mutex.Name(), err)
	}

	// 请求结束后 ctx 可能已取消，释放时不跟随
	releaseCtx := context.WithoutCancel(ctx)
	return func() {
		if ok, err := mutex.UnlockContext(releaseCtx); !ok || err != nil {
			logx.WithContext(releaseCtx).Errorf("释放发行锁失败 key=%s: %v", mutex.Name(), err)
		}
	}, nil
}
