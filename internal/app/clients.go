package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/contactbook-backend/internal/clients/redis"
	"github.com/yungbote/contactbook-backend/internal/data/db"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type Clients struct {
	DB    *db.Service
	Redis *goredis.Client
}

// wireClients opens only the connections cfg asks for.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	if cfg.StoreBackend.usesDatabase() {
		svc, err := db.NewService(cfg.dbConfig(), log)
		if err != nil {
			return Clients{}, fmt.Errorf("init database: %w", err)
		}
		c.DB = svc
	}

	if cfg.SessionStore == SessionStoreRedis {
		rdb, err := redisclient.NewClient(ctx, log, redisclient.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		c.Redis = rdb
	}
	return c, nil
}

func (c *Clients) Gorm() *gorm.DB {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.DB()
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
