package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crawler-server/internal/domain"
	"crawler-server/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr      string        // Адрес Redis сервера
	Password  string        // Пароль (пустой если не требуется)
	DB        int           // Номер базы данных
	KeyPrefix string        // Префикс для ключей
	TTL       time.Duration // Время жизни записей, 0 - бессрочно
}

// RedisArchive хранит записи игроков в Redis в виде JSON.
type RedisArchive struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisArchive подключается и проверяет соединение через PING.
func NewRedisArchive(ctx context.Context, cfg RedisConfig) (*RedisArchive, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 2 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: failed to connect to Redis: %v", domain.ErrDatabase, err)
	}

	logger.Log.WithField("addr", cfg.Addr).Info("Connected to Redis archive")
	return &RedisArchive{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
	}, nil
}

func (a *RedisArchive) key(id domain.PlayerID) string {
	return a.keyPrefix + id.String()
}

func (a *RedisArchive) Save(ctx context.Context, p domain.Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: marshal player: %v", domain.ErrInternal, err)
	}
	if err := a.client.Set(ctx, a.key(p.ID), data, a.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDatabase, err)
	}
	return nil
}

func (a *RedisArchive) Load(ctx context.Context, id domain.PlayerID) (domain.Player, error) {
	data, err := a.client.Get(ctx, a.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	if err != nil {
		return domain.Player{}, fmt.Errorf("%w: %v", domain.ErrDatabase, err)
	}

	var p domain.Player
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Player{}, fmt.Errorf("%w: corrupted record %s: %v", domain.ErrDatabase, id, err)
	}
	return p, nil
}

func (a *RedisArchive) Close() error {
	return a.client.Close()
}
