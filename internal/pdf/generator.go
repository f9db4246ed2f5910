package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/madina/boutique-orders/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders a single work order as an invoice.
func (g *Generator) Generate(order model.WorkOrder) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, "Work Order Invoice", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Order #%d", order.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", order.Status), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if order.Client != nil {
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Client", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 11)
		pdf.CellFormat(0, 6, order.Client.Name, "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Mobile: %s", order.Client.MobileNumber), "", 1, "L", false, 0, "")
		if order.Client.Email != nil {
			pdf.CellFormat(0, 6, fmt.Sprintf("Email: %s", *order.Client.Email), "", 1, "L", false, 0, "")
		}
		if order.Client.Address != nil {
			pdf.CellFormat(0, 6, *order.Client.Address, "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Dates", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	if order.OrderDate != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Ordered: %s", formatDate(*order.OrderDate)), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Expected delivery: %s", formatDate(order.ExpectedDeliveryDate)), "", 1, "L", false, 0, "")
	if order.Description != nil && *order.Description != "" {
		pdf.Ln(2)
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Description", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 11)
		pdf.MultiCell(0, 6, *order.Description, "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Billing", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)

	colWidths := []float64{90, 45}
	drawTableRow(pdf, g.fontName, []string{"Item", "Amount"}, colWidths, true)
	drawTableRow(pdf, g.fontName, []string{"Estimate", formatAmount(order.EstimatedAmount)}, colWidths, false)
	drawTableRow(pdf, g.fontName, []string{"Advance paid", formatAmount(order.AdvanceAmount)}, colWidths, false)
	drawTableRow(pdf, g.fontName, []string{"Actual", formatAmount(order.ActualAmount)}, colWidths, false)

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Amount due: %s", formatAmount(order.DueAmount)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cells []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006 03:04 PM")
}

func formatAmount(amount *float64) string {
	if amount == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *amount)
}
