package repos

import (
	"gorm.io/gorm"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/contactbook-backend/internal/data/repos/contact"
	"github.com/yungbote/contactbook-backend/internal/data/repos/session"
	"github.com/yungbote/contactbook-backend/internal/data/repos/user"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type ContactStore = contact.Store
type ContactReader = contact.Reader
type ContactUpdateFunc = contact.UpdateFunc
type UserRepo = user.UserRepo
type SessionRepo = session.SessionRepo

func NewCSVContactStore(dataDir string, baseLog *logger.Logger) ContactStore {
	return contact.NewCSVStore(dataDir, baseLog)
}
func NewMemoryContactStore() ContactStore { return contact.NewMemoryStore() }
func NewGormContactStore(db *gorm.DB, baseLog *logger.Logger) ContactStore {
	return contact.NewGormStore(db, baseLog)
}

func NewCSVUserRepo(dataDir string, baseLog *logger.Logger) UserRepo {
	return user.NewCSVUserRepo(dataDir, baseLog)
}
func NewMemoryUserRepo() UserRepo { return user.NewMemoryUserRepo() }
func NewGormUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewGormUserRepo(db, baseLog)
}

func NewMemorySessionRepo() SessionRepo { return session.NewMemorySessionRepo() }
func NewRedisSessionRepo(rdb *goredis.Client, prefix string, baseLog *logger.Logger) SessionRepo {
	return session.NewRedisSessionRepo(rdb, prefix, baseLog)
}
