package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/tenant-improvements/internal/model"
)

const (
	summarySheet    = "Allowance"
	milestonesSheet = "Milestones"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(statement model.AllowanceStatement) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	g.writeSummary(file, statement)

	if _, err := file.NewSheet(milestonesSheet); err != nil {
		return nil, err
	}
	if err := g.writeMilestones(file, statement.Milestones); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, statement model.AllowanceStatement) {
	allowance := statement.Allowance
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Project")
	set("B1", allowance.ProjectID)
	set("A2", "Landlord")
	set("B2", string(allowance.Landlord))
	set("A3", "Tenant")
	set("B3", string(allowance.Tenant))
	set("A4", "Status")
	set("B4", string(allowance.Status))
	set("A5", "Total amount")
	set("B5", allowance.TotalAmount)
	set("A6", "Released amount")
	set("B6", allowance.ReleasedAmount)
	set("A7", "Remaining amount")
	set("B7", allowance.RemainingAmount)
	set("A8", "Committed to unpaid milestones")
	set("B8", unpaidTotal(statement.Milestones))
	set("A9", "Ledger height")
	set("B9", statement.Height)
	set("A10", "Generated at")
	set("B10", formatTime(statement.GeneratedAt))

	_ = file.SetColWidth(summarySheet, "A", "A", 32)
	_ = file.SetColWidth(summarySheet, "B", "B", 48)
}

func (g *Generator) writeMilestones(file *excelize.File, milestones []model.Milestone) error {
	headers := []string{"Milestone", "Description", "Amount", "Completed", "Paid"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		_ = file.SetCellValue(milestonesSheet, cell, header)
	}

	for i, milestone := range milestones {
		row := i + 2
		values := []interface{}{
			milestone.MilestoneID,
			milestone.Description,
			milestone.Amount,
			yesNo(milestone.Completed),
			yesNo(milestone.Paid),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			_ = file.SetCellValue(milestonesSheet, cell, value)
		}
	}

	totalRow := len(milestones) + 2
	_ = file.SetCellValue(milestonesSheet, fmt.Sprintf("B%d", totalRow), "Total")
	if len(milestones) > 0 {
		_ = file.SetCellFormula(milestonesSheet, fmt.Sprintf("C%d", totalRow), fmt.Sprintf("SUM(C2:C%d)", totalRow-1))
	} else {
		_ = file.SetCellValue(milestonesSheet, fmt.Sprintf("C%d", totalRow), 0)
	}

	_ = file.SetColWidth(milestonesSheet, "A", "A", 20)
	_ = file.SetColWidth(milestonesSheet, "B", "B", 45)
	_ = file.SetColWidth(milestonesSheet, "C", "E", 14)
	return nil
}

func unpaidTotal(milestones []model.Milestone) int64 {
	var total int64
	for _, milestone := range milestones {
		if !milestone.Paid {
			total += milestone.Amount
		}
	}
	return total
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
