package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/tenant-improvements/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(statement model.AllowanceStatement) ([]byte, error) {
	allowance := statement.Allowance

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(fmt.Sprintf("Improvement allowance %s", allowance.ProjectID), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Improvement allowance statement", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s at ledger height %d", formatTime(statement.GeneratedAt), statement.Height), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Allowance", "", 1, "L", false, 0, "")
	lines := [][2]string{
		{"Project", allowance.ProjectID},
		{"Landlord", string(allowance.Landlord)},
		{"Tenant", string(allowance.Tenant)},
		{"Status", string(allowance.Status)},
		{"Total amount", formatAmount(allowance.TotalAmount)},
		{"Released amount", formatAmount(allowance.ReleasedAmount)},
		{"Remaining amount", formatAmount(allowance.RemainingAmount)},
	}
	for _, line := range lines {
		pdf.SetFont(g.fontName, "B", 10)
		pdf.CellFormat(45, 6, line[0], "", 0, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 6, tr(safeValue(line[1])), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Milestones", "", 1, "L", false, 0, "")

	headers := []string{"Milestone", "Description", "Amount", "Completed", "Paid"}
	colWidths := []float64{35, 75, 30, 20, 20}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)
	for _, milestone := range statement.Milestones {
		row := []string{
			tr(milestone.MilestoneID),
			tr(milestone.Description),
			formatAmount(milestone.Amount),
			yesNo(milestone.Completed),
			yesNo(milestone.Paid),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}
	if len(statement.Milestones) == 0 {
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 8, "No milestones recorded.", "", 1, "L", false, 0, "")
	}

	if allowance.IsClosed() {
		pdf.Ln(4)
		pdf.SetTextColor(200, 0, 0)
		pdf.MultiCell(0, 6, "This allowance is closed.", "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value int64) string {
	return fmt.Sprintf("%d", value)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006 15:04 MST")
}
