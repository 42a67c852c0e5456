package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"launchpad/internal/config"
	"launchpad/internal/types"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/zeromicro/go-zero/core/logx"
)

// KafkaPublisher 把发行事件异步写入 Kafka，投递结果在后台协程里记录
type KafkaPublisher struct {
	producer    *kafka.Producer
	topic       string
	flushMs     int
	reportsDone chan struct{}
}

func NewKafkaPublisher(c config.KafkaConf) (*KafkaPublisher, error) {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": c.Brokers,
		"client.id":         fmt.Sprintf("launchpad-%s", hostname),

		// 可靠性保障
		"acks":               "all",
		"enable.idempotence": true,

		// 超时与重试
		"delivery.timeout.ms": c.TimeoutMs,
		"retries":             5,
		"retry.backoff.ms":    100,

		"linger.ms": c.LingerMs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	p := &KafkaPublisher{
		producer:    producer,
		topic:       c.Topic,
		flushMs:     c.TimeoutMs,
		reportsDone: make(chan struct{}),
	}
	go p.drainReports()
	return p, nil
}

func (p *KafkaPublisher) drainReports() {
	defer close(p.reportsDone)
	for e := range p.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logx.Errorf("📤 发行事件投递失败 key=%s: %v", string(ev.Key), ev.TopicPartition.Error)
			}
		case kafka.Error:
			logx.Errorf("📤 Kafka 错误: %v", ev)
		}
	}
}

// Handle 实现 EventHandler，同一 mint 的事件使用相同 key 保证分区内有序
func (p *KafkaPublisher) Handle(ctx context.Context, event *types.TokenEvent) {
	value, err := encodeEvent(event)
	if err != nil {
		logx.WithContext(ctx).Errorf("序列化发行事件失败: %v", err)
		return
	}
	err = p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &p.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(event.TokenAddr),
		Value: value,
	}, nil)
	if err != nil {
		logx.WithContext(ctx).Errorf("📤 发送到Kafka失败 mint=%s: %v", event.TokenAddr, err)
		return
	}
	logx.WithContext(ctx).Infof("📤 发送到Kafka: type=%s, mint=%s", event.EventType, event.TokenAddr)
}

// Close 等待未投递的消息，然后关闭生产者
func (p *KafkaPublisher) Close() {
	if remaining := p.producer.Flush(p.flushMs); remaining > 0 {
		logx.Errorf("关闭时仍有 %d 条发行事件未投递", remaining)
	}
	p.producer.Close()
	<-p.reportsDone
}

func encodeEvent(event *types.TokenEvent) ([]byte, error) {
	return json.Marshal(event)
}
