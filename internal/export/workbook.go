package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

const (
	summarySheet = "Summary"
	changesSheet = "Changes"
)

// RunWorkbook renders an optimization run as an XLSX report: a summary sheet
// with the run metrics and a sheet listing every change, applied or
// suggested.
func RunWorkbook(run *models.OptimizationRun, loc *time.Location) (*bytes.Buffer, error) {
	changes, err := scheduling.DecodeChanges(run.Changes)
	if err != nil {
		return nil, err
	}
	applied := "yes"
	if len(changes) == 0 {
		applied = "no"
		if changes, err = scheduling.DecodeChanges(run.SuggestedChanges); err != nil {
			return nil, err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if _, err := f.NewSheet(changesSheet); err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// summary
	f.SetColWidth(summarySheet, "A", "A", 30)
	f.SetColWidth(summarySheet, "B", "B", 24)

	rows := [][2]any{
		{"Run", run.ID},
		{"Type", run.RunType},
		{"Status", run.Status},
		{"Start date", run.StartDate.In(loc).Format("2006-01-02")},
		{"End date", run.EndDate.In(loc).Format("2006-01-02")},
		{"Appointments considered", run.AppointmentsConsidered},
		{"Resources considered", run.ResourcesConsidered},
		{"Appointments optimized", run.AppointmentsOptimized},
		{"Appointments rescheduled", run.AppointmentsRescheduled},
		{"Travel time reduced (min)", run.TravelTimeReducedMinutes},
		{"Utilization before (%)", run.UtilizationBeforePct},
		{"Utilization after (%)", run.UtilizationAfterPct},
		{"Utilization improved (%)", run.UtilizationImprovedPct},
		{"Execution time (ms)", run.ExecutionTimeMs},
	}
	if run.ApprovedBy != nil {
		rows = append(rows, [2]any{"Approved by", *run.ApprovedBy})
	}
	if run.ErrorMessage != "" {
		rows = append(rows, [2]any{"Error", run.ErrorMessage})
	}

	f.SetCellValue(summarySheet, "A1", "Metric")
	f.SetCellValue(summarySheet, "B1", "Value")
	f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)
	for i, r := range rows {
		f.SetCellValue(summarySheet, cell("A", i+2), r[0])
		f.SetCellValue(summarySheet, cell("B", i+2), r[1])
	}

	// changes
	headers := []string{"Appointment", "Resource", "Original start", "New start", "Duration (min)", "Reason", "Applied"}
	for i, h := range headers {
		f.SetCellValue(changesSheet, cell(colName(i), 1), h)
		f.SetColWidth(changesSheet, colName(i), colName(i), 20)
	}
	f.SetCellStyle(changesSheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	for i, c := range changes {
		row := i + 2
		f.SetCellValue(changesSheet, cell("A", row), c.AppointmentID)
		f.SetCellValue(changesSheet, cell("B", row), c.ResourceID)
		f.SetCellValue(changesSheet, cell("C", row), c.OriginalStart.In(loc).Format("2006-01-02 15:04"))
		f.SetCellValue(changesSheet, cell("D", row), c.NewStart.In(loc).Format("2006-01-02 15:04"))
		f.SetCellValue(changesSheet, cell("E", row), c.DurationMinutes)
		f.SetCellValue(changesSheet, cell("F", row), c.Reason)
		f.SetCellValue(changesSheet, cell("G", row), applied)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write run workbook: %w", err)
	}
	return buf, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
