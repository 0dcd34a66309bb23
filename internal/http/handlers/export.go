package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/contactbook-backend/internal/http/response"
	"github.com/yungbote/contactbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/contactbook-backend/internal/services"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCSV  = "text/csv; charset=utf-8"
)

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// GET /api/export/contacts.pdf
func (eh *ExportHandler) ContactsPDF(c *gin.Context) {
	out, err := eh.exportService.ContactsPDF(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.Attachment(c, mimePDF, ctxutil.Owner(c.Request.Context())+"_contacts.pdf", out)
}

// GET /api/export/contacts/:id
func (eh *ExportHandler) ContactPDF(c *gin.Context) {
	id := c.Param("id")
	out, err := eh.exportService.ContactPDF(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.Attachment(c, mimePDF, "contact_"+id+".pdf", out)
}

// GET /api/export/contacts.xlsx
func (eh *ExportHandler) ContactsXLSX(c *gin.Context) {
	out, err := eh.exportService.ContactsXLSX(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.Attachment(c, mimeXLSX, ctxutil.Owner(c.Request.Context())+"_contacts.xlsx", out)
}

// GET /api/export/contacts.csv
func (eh *ExportHandler) ContactsCSV(c *gin.Context) {
	out, err := eh.exportService.ContactsCSV(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.Attachment(c, mimeCSV, ctxutil.Owner(c.Request.Context())+"_contacts.csv", out)
}
