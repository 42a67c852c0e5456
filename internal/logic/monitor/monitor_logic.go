package monitor

import (
	"context"
	"strconv"
	"sync"
	"time"

	"launchpad/internal/launchpad"
	"launchpad/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type EventHandler func(ctx context.Context, event *types.TokenEvent)

// LaunchMonitor 把流水线的阶段事件分发给注册的处理器
type LaunchMonitor struct {
	mu            sync.RWMutex
	cluster       string
	eventHandlers []EventHandler
	now           func() time.Time
}

func NewLaunchMonitor(cluster string) *LaunchMonitor {
	return &LaunchMonitor{
		cluster:       cluster,
		eventHandlers: make([]EventHandler, 0),
		now:           time.Now,
	}
}

// AddEventHandler 添加事件处理器
func (m *LaunchMonitor) AddEventHandler(handler EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventHandlers = append(m.eventHandlers, handler)
}

// Emit 同步调用所有处理器，处理器自行负责不阻塞
func (m *LaunchMonitor) Emit(ctx context.Context, evt launchpad.Event) {
	event := m.toTokenEvent(evt)

	m.mu.RLock()
	handlers := m.eventHandlers
	m.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, event)
	}
}

func (m *LaunchMonitor) toTokenEvent(evt launchpad.Event) *types.TokenEvent {
	event := &types.TokenEvent{
		RequestId: evt.RequestID,
		TxHash:    evt.Signature,
		Timestamp: m.now().Unix(),
		EventType: evt.Type,
		OwnerAddr: evt.Owner,
		TokenAddr: evt.Mint,
		Stage:     evt.State.String(),
		Error:     evt.Error,
		Cluster:   m.cluster,
	}
	if evt.Amount > 0 {
		event.Amount = strconv.FormatUint(evt.Amount, 10)
	}
	return event
}

// LogEventHandler 日志事件处理器
func LogEventHandler(ctx context.Context, event *types.TokenEvent) {
	if event.Error != "" {
		logx.WithContext(ctx).Errorf("🔔 发行事件: 类型=%s, 代币=%s, 阶段=%s, 错误=%s",
			event.EventType, event.TokenAddr, event.Stage, event.Error)
		return
	}
	logx.WithContext(ctx).Infof("🔔 发行事件: 类型=%s, 代币=%s, 阶段=%s, tx=%s, 数量=%s",
		event.EventType, event.TokenAddr, event.Stage, event.TxHash, event.Amount)
}
