package app

import (
	"fmt"

	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
	"github.com/yungbote/contactbook-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Contacts    services.ContactService
	Exports     services.ExportService
	Avatars     services.AvatarService
	Preferences services.PreferenceService
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	avatars, err := services.NewAvatarService(log, services.AvatarConfig{
		FontPath:   cfg.AvatarFont,
		ColorsPath: cfg.AvatarColorsPath,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	return Services{
		Auth:        services.NewAuthService(log, reposet.Users, reposet.Sessions, metrics, cfg.SecretKey, cfg.AccessTokenTTL()),
		Contacts:    services.NewContactService(log, reposet.Contacts, metrics),
		Exports:     services.NewExportService(log, reposet.Contacts, metrics),
		Avatars:     avatars,
		Preferences: services.NewPreferenceService(log, reposet.Sessions),
	}, nil
}
