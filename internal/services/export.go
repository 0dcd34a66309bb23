package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/yungbote/contactbook-backend/internal/data/csvfile"
	"github.com/yungbote/contactbook-backend/internal/data/repos"
	"github.com/yungbote/contactbook-backend/internal/data/repos/contact"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

var ExportHeader = []string{"Name", "Phone", "Email", "Created At"}

const exportSheet = "Contacts"

// US Letter, in inches.
const (
	pageWidth  = 8.5
	pageHeight = 11.0
)

// ExportService renders the caller's contacts as downloadable documents.
type ExportService interface {
	ContactsPDF(ctx context.Context) ([]byte, error)
	// ContactPDF renders one contact; an id the caller does not own renders
	// a "Contact not found." page.
	ContactPDF(ctx context.Context, id string) ([]byte, error)
	ContactsXLSX(ctx context.Context) ([]byte, error)
	ContactsCSV(ctx context.Context) ([]byte, error)
}

type exportService struct {
	log      *logger.Logger
	store    repos.ContactReader
	metrics  *observability.Metrics
	compress bool
	now      func() time.Time
}

func NewExportService(log *logger.Logger, store repos.ContactReader, metrics *observability.Metrics) ExportService {
	return &exportService{
		log:      log.With("service", "ExportService"),
		store:    store,
		metrics:  metrics,
		compress: true,
		now:      time.Now,
	}
}

func (es *exportService) ownerRows(ctx context.Context) (string, []*types.Contact, error) {
	owner, err := callerOf(ctx)
	if err != nil {
		return "", nil, err
	}
	rows, err := contact.ListForOwner(ctx, es.store, owner)
	if err != nil {
		return "", nil, err
	}
	return owner, rows, nil
}

func (es *exportService) newPDF(title string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "in", "Letter", "")
	pdf.SetCompression(es.compress)
	pdf.SetCreationDate(es.now())
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func finishPDF(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (es *exportService) ContactsPDF(ctx context.Context) ([]byte, error) {
	owner, rows, err := es.ownerRows(ctx)
	if err != nil {
		return nil, err
	}
	out, err := finishPDF(es.contactsPDF(owner, rows))
	if err != nil {
		return nil, err
	}
	es.metrics.IncExport("pdf")
	return out, nil
}

func (es *exportService) contactsPDF(owner string, rows []*types.Contact) *fpdf.Fpdf {
	const (
		margin   = 0.75
		phoneCol = margin + 2.8
		emailCol = margin + 4.2
	)
	pdf, tr := es.newPDF("Contacts for " + owner)

	y := margin
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(margin, y, tr("Contacts for "+owner))
	y += 0.35
	pdf.SetFont("Helvetica", "", 11)
	if len(rows) == 0 {
		pdf.Text(margin, y, "No contacts found.")
	} else {
		pdf.Text(margin, y, "Name")
		pdf.Text(phoneCol, y, "Phone")
		pdf.Text(emailCol, y, "Email")
		y += 0.2
		pdf.Line(margin, y, pageWidth-margin, y)
		y += 0.15
		for _, c := range rows {
			if y > pageHeight-margin {
				pdf.AddPage()
				pdf.SetFont("Helvetica", "", 11)
				y = margin
			}
			pdf.Text(margin, y, tr(c.Name))
			pdf.Text(phoneCol, y, tr(c.Phone))
			pdf.Text(emailCol, y, tr(c.Email))
			y += 0.22
		}
	}
	return pdf
}

func (es *exportService) ContactPDF(ctx context.Context, id string) ([]byte, error) {
	owner, err := callerOf(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := es.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	c := contact.FindByID(rows, owner, id)

	const margin = 1.0
	pdf, tr := es.newPDF("Contact Details")
	y := margin
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(margin, y, "Contact Details")
	y += 0.4
	pdf.SetFont("Helvetica", "", 12)
	if c == nil {
		pdf.Text(margin, y, "Contact not found.")
	} else {
		fields := [][2]string{
			{"Name", c.Name},
			{"Phone", c.Phone},
			{"Email", c.Email},
			{"Created At", types.CreatedAtText(c)},
		}
		for _, f := range fields {
			pdf.Text(margin, y, tr(f[0]+": "+f[1]))
			y += 0.3
		}
	}
	out, err := finishPDF(pdf)
	if err != nil {
		return nil, err
	}
	es.metrics.IncExport("pdf_single")
	return out, nil
}

func (es *exportService) ContactsXLSX(ctx context.Context) ([]byte, error) {
	_, rows, err := es.ownerRows(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &ExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "D1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}
	for i, width := range []float64{28, 18, 32, 28} {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, c := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{c.Name, c.Phone, c.Email, types.CreatedAtText(c)}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	es.metrics.IncExport("xlsx")
	return buf.Bytes(), nil
}

func (es *exportService) ContactsCSV(ctx context.Context) ([]byte, error) {
	_, rows, err := es.ownerRows(ctx)
	if err != nil {
		return nil, err
	}
	records := make([][]string, 0, len(rows))
	for _, c := range rows {
		records = append(records, []string{c.Name, c.Phone, c.Email, types.CreatedAtText(c)})
	}
	var buf bytes.Buffer
	if err := csvfile.Write(&buf, ExportHeader, records); err != nil {
		return nil, err
	}
	es.metrics.IncExport("csv")
	return buf.Bytes(), nil
}
