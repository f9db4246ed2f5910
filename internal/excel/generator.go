package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/madina/boutique-orders/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the order book as a single-sheet workbook, one row
// per work order.
func (g *Generator) Generate(orders []model.WorkOrder, generatedAt time.Time) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Work Orders"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Generated")
	set("B1", generatedAt.Format("02/01/2006 15:04"))
	set("A2", "Orders")
	set("B2", len(orders))

	headerRow := 4
	headers := []string{
		"ID", "Client", "Mobile", "Order Date", "Delivery Date",
		"Status", "Overdue", "Advance", "Estimate", "Actual", "Due",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		set(cell, header)
	}

	for i, order := range orders {
		row := headerRow + 1 + i
		set(fmt.Sprintf("A%d", row), order.ID)
		set(fmt.Sprintf("B%d", row), order.ClientName())
		set(fmt.Sprintf("C%d", row), order.ClientMobile())
		set(fmt.Sprintf("D%d", row), formatDate(order.OrderDate))
		set(fmt.Sprintf("E%d", row), order.ExpectedDeliveryDate.Format("02/01/2006"))
		set(fmt.Sprintf("F%d", row), string(order.Status))
		set(fmt.Sprintf("G%d", row), order.IsOverdue)
		set(fmt.Sprintf("H%d", row), formatAmount(order.AdvanceAmount))
		set(fmt.Sprintf("I%d", row), formatAmount(order.EstimatedAmount))
		set(fmt.Sprintf("J%d", row), formatAmount(order.ActualAmount))
		set(fmt.Sprintf("K%d", row), formatAmount(order.DueAmount))
	}

	_ = file.SetColWidth(sheet, "B", "B", 28)
	_ = file.SetColWidth(sheet, "C", "C", 14)
	_ = file.SetColWidth(sheet, "D", "F", 18)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatAmount(amount *float64) string {
	if amount == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *amount)
}
