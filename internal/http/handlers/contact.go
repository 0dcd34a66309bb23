package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contactbook-backend/internal/http/response"
	"github.com/yungbote/contactbook-backend/internal/services"
	"github.com/yungbote/contactbook-backend/internal/validation"
)

type ContactHandler struct {
	contactService services.ContactService
	avatarService  services.AvatarService
}

func NewContactHandler(contactService services.ContactService, avatarService services.AvatarService) *ContactHandler {
	return &ContactHandler{contactService: contactService, avatarService: avatarService}
}

// GET /api/contacts?q=
func (ch *ContactHandler) List(c *gin.Context) {
	contacts, err := ch.contactService.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contacts": contacts})
}

// POST /api/contacts
func (ch *ContactHandler) Create(c *gin.Context) {
	var in validation.ContactInput
	if err := c.ShouldBind(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := ch.contactService.Add(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"contact": created})
}

// GET /api/contacts/:id
func (ch *ContactHandler) Get(c *gin.Context) {
	found, err := ch.contactService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contact": found})
}

// PUT|POST /api/contacts/:id
func (ch *ContactHandler) Update(c *gin.Context) {
	var in validation.ContactInput
	if err := c.ShouldBind(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	updated, err := ch.contactService.Edit(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contact": updated})
}

// DELETE /api/contacts/:id
func (ch *ContactHandler) Delete(c *gin.Context) {
	if err := ch.contactService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/contacts/:id/avatar.png
func (ch *ContactHandler) Avatar(c *gin.Context) {
	found, err := ch.contactService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	png, err := ch.avatarService.Render(c.Request.Context(), found)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
