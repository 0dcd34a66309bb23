package app

import (
	"context"

	"github.com/yungbote/contactbook-backend/internal/data/repos"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type Repos struct {
	Contacts repos.ContactStore
	Users    repos.UserRepo
	Sessions repos.SessionRepo
}

func wireRepos(ctx context.Context, log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics) (Repos, error) {
	log.Info("Wiring repos...")
	st, err := resolveStores(ctx, log, cfg, clients.Gorm(), metrics)
	if err != nil {
		return Repos{}, err
	}
	sessions := repos.NewMemorySessionRepo()
	if clients.Redis != nil {
		sessions = repos.NewRedisSessionRepo(clients.Redis, cfg.Redis.Prefix, log)
	}
	return Repos{
		Contacts: st.Contacts,
		Users:    st.Users,
		Sessions: sessions,
	}, nil
}
