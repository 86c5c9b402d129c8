package invoice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"proposalgen/pkg/proposal"
)

// ContentType is the media type of the generated invoice workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	firstServiceRow  = 41
	serviceRowStride = 2
	euroNumberFormat = "#,##0.00 €"
)

// Generator fills the XLSX invoice template at TemplatePath.
type Generator struct {
	TemplatePath string
	Log          logrus.FieldLogger

	// Now supplies the issue-day cell; tests pin it. Defaults to time.Now.
	Now func() time.Time
}

func NewGenerator(templatePath string, log logrus.FieldLogger) *Generator {
	return &Generator{TemplatePath: templatePath, Log: log}
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// sheetWriter wraps an excelize file with a sticky error so a cell-write
// failure aborts the remaining writes.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(cell string, value interface{}) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(w.sheet, cell, value); err != nil {
		w.err = fmt.Errorf("set cell %s: %w", cell, err)
	}
}

func (w *sheetWriter) style(cell string, styleID int) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellStyle(w.sheet, cell, cell, styleID); err != nil {
		w.err = fmt.Errorf("style cell %s: %w", cell, err)
	}
}

// purchaseOrderDateLine reformats the ISO issue date as "DD Month YYYY";
// missing or unparseable dates fall back to "Not specified".
func purchaseOrderDateLine(issueDate string) string {
	t, err := time.Parse("2006-01-02", issueDate)
	if err != nil {
		return "Purchase order date: Not specified"
	}
	return "Purchase order date: " + t.Format("02 January 2006")
}

// Generate fills the invoice template for one request and serializes it to
// memory. No partial output on failure.
func (g *Generator) Generate(req *Request) (*proposal.Result, error) {
	req.ApplyDefaults()

	if _, err := os.Stat(g.TemplatePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", proposal.ErrTemplateNotFound, g.TemplatePath)
		}
		return nil, fmt.Errorf("stat invoice template: %w", err)
	}

	f, err := excelize.OpenFile(g.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("load invoice template: %w", err)
	}
	defer f.Close()

	w := &sheetWriter{f: f, sheet: f.GetSheetName(0)}

	w.set("C13", req.Company.Name)
	if req.Invoice.PurchaseOrder != "" {
		w.set("C6", "Purchase Order: "+req.Invoice.PurchaseOrder)
	} else {
		w.set("C6", "Purchase Order: Not specified")
	}
	w.set("E3", req.Invoice.InvoiceNumber)
	w.set("F3", g.now().Format("02/01/2006"))
	w.set("C8", purchaseOrderDateLine(req.Invoice.IssueDate))
	if req.Invoice.CommercialInCharge != "" {
		w.set("C10", "Commercial in charge: "+req.Invoice.CommercialInCharge)
	} else {
		w.set("C10", "Commercial in charge: Not specified")
	}

	numFmt := euroNumberFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	writeRow := func(row, item int, name string, quantity int, unit, total float64) {
		w.set(fmt.Sprintf("A%d", row), item)
		w.set(fmt.Sprintf("B%d", row), name)
		w.set(fmt.Sprintf("D%d", row), quantity)
		w.set(fmt.Sprintf("E%d", row), unit)
		w.set(fmt.Sprintf("F%d", row), total)
		w.style(fmt.Sprintf("E%d", row), moneyStyle)
		w.style(fmt.Sprintf("F%d", row), moneyStyle)
	}

	row := firstServiceRow
	item := 1
	if len(req.Products) == 0 {
		// Fallback when no product breakdown came in: one aggregate line.
		writeRow(row, item, "Service pour "+req.Company.Name, 1,
			req.Invoice.TotalAmount, req.Invoice.TotalAmount)
		item++
	} else {
		for i := range req.Products {
			for _, line := range serviceLines(&req.Products[i]) {
				writeRow(row, item, line.Name, line.Quantity, line.UnitPrice(), line.Total)
				item++
				row += serviceRowStride
			}
		}
	}
	if w.err != nil {
		return nil, w.err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize invoice: %w", err)
	}

	g.Log.WithFields(logrus.Fields{
		"invoice": req.Invoice.InvoiceNumber,
		"company": req.Company.Name,
		"rows":    item - 1,
	}).Info("invoice generated")

	return &proposal.Result{
		Data:        buf.Bytes(),
		Filename:    "Invoice_" + req.Invoice.InvoiceNumber + ".xlsx",
		ContentType: ContentType,
	}, nil
}
