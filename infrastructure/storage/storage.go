// Package storage guarda os snapshots serializados dos layouts de dashboard
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
)

var ErrSnapshotNotFound = errors.New("snapshot não encontrado")

// LayoutStorage é o "local storage" dos dashboards: um blob por chave
type LayoutStorage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

type FactoryResult struct {
	Driver  string
	Storage LayoutStorage
	closer  func() error
}

func (r FactoryResult) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

// New escolhe o backend de armazenamento a partir da configuração
func New(ctx context.Context, cfg config.Layout, redisCfg config.Redis) (FactoryResult, error) {
	switch cfg.StorageDriver {
	case config.LayoutStorageFile, "":
		return FactoryResult{
			Driver:  config.LayoutStorageFile,
			Storage: NewFileStorage(afero.NewOsFs(), cfg.StorageDir),
		}, nil

	case config.LayoutStorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return FactoryResult{}, fmt.Errorf("erro ao conectar ao redis: %w", err)
		}
		return FactoryResult{
			Driver:  config.LayoutStorageRedis,
			Storage: NewRedisStorage(client, redisCfg.KeyPrefix),
			closer:  client.Close,
		}, nil

	default:
		return FactoryResult{}, fmt.Errorf("LAYOUT_STORAGE_DRIVER desconhecido: %s", cfg.StorageDriver)
	}
}
