package domain

import (
	"github.com/yungbote/contactbook-backend/internal/domain/contact"
	"github.com/yungbote/contactbook-backend/internal/domain/user"
)

type (
	Contact = contact.Contact
	User    = user.User
)

var (
	ContactColumns = contact.Columns
	UserColumns    = user.Columns
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)
