package database

import (
	"context"
	"fmt"

	"mathwave_backend/internal/config"
	"mathwave_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis 建立 Redis 连接，承载验证码限流与密码重置令牌
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}

	logger.Log.Info("Redis 连接就绪", zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)))
	return rdb, nil
}
