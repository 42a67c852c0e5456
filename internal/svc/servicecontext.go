package svc

import (
	"log"
	"time"

	"launchpad/internal/config"
	"launchpad/internal/guard"
	"launchpad/internal/launchpad"
	"launchpad/internal/logic/monitor"
	"launchpad/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ServiceContext struct {
	Config          config.Config
	DB              *gorm.DB
	WalletsDao      model.WalletsDao
	MintLaunchesDao model.MintLaunchesDao
	Connection      launchpad.Connection
	Pipeline        *launchpad.Pipeline
	Guard           guard.Guard
	Monitor         *monitor.LaunchMonitor

	redis     *redis.Client
	publisher *monitor.KafkaPublisher
}

func NewServiceContext(c config.Config) *ServiceContext {
	db, err := initDB(c.Postgres.DSN)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	if err := db.AutoMigrate(&model.Wallets{}, &model.MintLaunches{}); err != nil {
		log.Fatalf("failed to migrate db: %v", err)
	}

	rpcUrl := c.Solana.ResolveRpcUrl()
	conn := launchpad.NewRPCConnection(rpcUrl,
		launchpad.WithCommitment(c.Solana.Commitment),
		launchpad.WithConfirmTimeout(c.Solana.ConfirmTimeout()),
		launchpad.WithPollInterval(c.Solana.ConfirmPollInterval()),
	)
	logx.Infof("Solana RPC: %s, cluster: %s, commitment: %s", conn.Endpoint(), c.Solana.Cluster, c.Solana.Commitment)

	svcCtx := &ServiceContext{
		Config:          c,
		DB:              db,
		WalletsDao:      model.NewWalletsDao(db),
		MintLaunchesDao: model.NewMintLaunchesDao(db),
		Connection:      conn,
		Monitor:         monitor.NewLaunchMonitor(c.Solana.Cluster),
	}
	svcCtx.Monitor.AddEventHandler(monitor.LogEventHandler)

	if c.Kafka.Brokers != "" {
		publisher, err := monitor.NewKafkaPublisher(c.Kafka)
		if err != nil {
			log.Fatalf("failed to init kafka: %v", err)
		}
		svcCtx.publisher = publisher
		svcCtx.Monitor.AddEventHandler(publisher.Handle)
		logx.Infof("发行事件将发送到 Kafka topic: %s", c.Kafka.Topic)
	}

	svcCtx.Guard = guard.NewLocalGuard()
	if c.Redis.Addr != "" {
		svcCtx.redis = redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		ttl := time.Duration(c.Redis.LockTTL) * time.Second
		svcCtx.Guard = guard.Chain(svcCtx.Guard, guard.NewRedisGuard(svcCtx.redis, ttl))
	}

	svcCtx.Pipeline = launchpad.NewPipeline(conn,
		launchpad.WithRecorder(model.NewLaunchRecorder(svcCtx.MintLaunchesDao)),
		launchpad.WithEventSink(svcCtx.Monitor),
	)
	return svcCtx
}

// Close 释放外部连接，Kafka 会先等待未投递的事件
func (s *ServiceContext) Close() {
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logx.Errorf("关闭 redis 失败: %v", err)
		}
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func initDB(dsn string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(log.Writer(), "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db, nil
}
