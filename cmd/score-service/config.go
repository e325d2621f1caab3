package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ioiscore/internal/common/cache"
	"ioiscore/internal/common/db"
	"ioiscore/internal/common/mq"
	"ioiscore/internal/common/storage"
	"ioiscore/pkg/utils/logger"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8090"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// ConsumerConfig holds judge event consumer settings.
type ConsumerConfig struct {
	ConsumerGroup   string        `yaml:"consumerGroup"`
	Concurrency     int           `yaml:"concurrency"`
	MaxRetries      int           `yaml:"maxRetries"`
	RetryDelay      time.Duration `yaml:"retryDelay"`
	DeadLetterTopic string        `yaml:"deadLetterTopic"`
}

func (c ConsumerConfig) toSubscribeOptions() mq.SubscribeOptions {
	return mq.SubscribeOptions{
		ConsumerGroup:   c.ConsumerGroup,
		Concurrency:     c.Concurrency,
		MaxRetries:      c.MaxRetries,
		RetryDelay:      c.RetryDelay,
		DeadLetterTopic: c.DeadLetterTopic,
	}
}

// ScoreConfig holds scoring settings.
type ScoreConfig struct {
	SourceBucket       string         `yaml:"sourceBucket"`
	JudgeFinishedTopic string         `yaml:"judgeFinishedTopic"`
	JudgeConsumer      ConsumerConfig `yaml:"judgeConsumer"`
	ConfigCacheTTL     time.Duration  `yaml:"configCacheTTL"`
	ConfigEmptyTTL     time.Duration  `yaml:"configEmptyTTL"`
	LeaderboardTTL     time.Duration  `yaml:"leaderboardTTL"`
	DefaultPageSize    int            `yaml:"defaultPageSize"`
	MaxPageSize        int            `yaml:"maxPageSize"`
}

// AppConfig holds score-service configuration.
type AppConfig struct {
	Server   ServerConfig        `yaml:"server"`
	Logger   logger.Config       `yaml:"logger"`
	Database db.MySQLConfig      `yaml:"database"`
	Redis    cache.RedisConfig   `yaml:"redis"`
	Kafka    mq.KafkaConfig      `yaml:"kafka"`
	MinIO    storage.MinIOConfig `yaml:"minio"`
	Score    ScoreConfig         `yaml:"score"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}

	if cfg.Score.SourceBucket == "" {
		cfg.Score.SourceBucket = "submissions"
	}
	if cfg.Score.JudgeFinishedTopic == "" {
		cfg.Score.JudgeFinishedTopic = "judge.finished"
	}
	if cfg.Score.JudgeConsumer.ConsumerGroup == "" {
		cfg.Score.JudgeConsumer.ConsumerGroup = "score-service"
	}
	if cfg.Score.ConfigCacheTTL == 0 {
		cfg.Score.ConfigCacheTTL = 30 * time.Minute
	}
	if cfg.Score.ConfigEmptyTTL == 0 {
		cfg.Score.ConfigEmptyTTL = 5 * time.Minute
	}
	if cfg.Score.LeaderboardTTL == 0 {
		cfg.Score.LeaderboardTTL = 30 * time.Second
	}
	if cfg.Score.DefaultPageSize == 0 {
		cfg.Score.DefaultPageSize = 50
	}
	if cfg.Score.MaxPageSize == 0 {
		cfg.Score.MaxPageSize = 200
	}
	return &cfg, nil
}
