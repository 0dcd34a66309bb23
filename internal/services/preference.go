package services

import (
	"context"

	"github.com/yungbote/contactbook-backend/internal/data/repos"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type PreferenceService interface {
	Theme(ctx context.Context) (string, error)
	// ToggleTheme flips light/dark and returns the new theme.
	ToggleTheme(ctx context.Context) (string, error)
}

type preferenceService struct {
	log         *logger.Logger
	sessionRepo repos.SessionRepo
}

func NewPreferenceService(log *logger.Logger, sessionRepo repos.SessionRepo) PreferenceService {
	return &preferenceService{
		log:         log.With("service", "PreferenceService"),
		sessionRepo: sessionRepo,
	}
}

func (ps *preferenceService) Theme(ctx context.Context) (string, error) {
	owner, err := callerOf(ctx)
	if err != nil {
		return "", err
	}
	theme, err := ps.sessionRepo.GetTheme(ctx, owner)
	if err != nil {
		return "", err
	}
	if theme != types.ThemeDark {
		theme = types.ThemeLight
	}
	return theme, nil
}

func (ps *preferenceService) ToggleTheme(ctx context.Context) (string, error) {
	current, err := ps.Theme(ctx)
	if err != nil {
		return "", err
	}
	next := types.ThemeDark
	if current == types.ThemeDark {
		next = types.ThemeLight
	}
	owner := ctxutil.Owner(ctx)
	if err := ps.sessionRepo.SetTheme(ctx, owner, next); err != nil {
		return "", err
	}
	ps.log.Debug("Theme toggled", "username", owner, "theme", next)
	return next, nil
}
