package guard

import (
	"context"
	"errors"
)

// ErrBusy 同一个 key 已有进行中的发行
var ErrBusy = errors.New("key is already locked")

// Guard 是按 key 的单飞锁，获取失败立即返回而不是等待
type Guard interface {
	TryAcquire(ctx context.Context, key string) (release func(), err error)
}

type chain []Guard

// Chain 依次获取所有锁，任一失败时释放已获取的部分
func Chain(guards ...Guard) Guard {
	return chain(guards)
}

func (c chain) TryAcquire(ctx context.Context, key string) (func(), error) {
	releases := make([]func(), 0, len(c))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, g := range c {
		release, err := g.TryAcquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}
