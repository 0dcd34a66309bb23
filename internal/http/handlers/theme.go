package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contactbook-backend/internal/http/response"
	"github.com/yungbote/contactbook-backend/internal/services"
)

type ThemeHandler struct {
	preferenceService services.PreferenceService
}

func NewThemeHandler(preferenceService services.PreferenceService) *ThemeHandler {
	return &ThemeHandler{preferenceService: preferenceService}
}

func (th *ThemeHandler) Get(c *gin.Context) {
	theme, err := th.preferenceService.Theme(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"theme": theme})
}

func (th *ThemeHandler) Toggle(c *gin.Context) {
	if _, err := th.preferenceService.ToggleTheme(c.Request.Context()); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
