package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type DeductionLine struct {
	Label  string
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// PayslipData is everything printed on a payslip.
type PayslipData struct {
	CompanyName     string
	CompanyAddress  string
	Currency        string
	PayslipNumber   string
	Status          string
	EmployeeName    string
	EmployeeCode    string
	PayRunTitle     string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	DaysWorked      *int
	HoursWorked     *decimal.Decimal
	Gross           decimal.Decimal
	Deductions      []DeductionLine
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal
	Paid            decimal.Decimal
	Remaining       decimal.Decimal
}

// RenderPayslip draws an A4 payslip and returns the PDF bytes.
func RenderPayslip(d PayslipData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+d.PayslipNumber, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, d.CompanyName)
	pdf.Ln(8)
	if d.CompanyAddress != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, d.CompanyAddress)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Payslip %s", d.PayslipNumber))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	row(pdf, "Employee", fmt.Sprintf("%s (%s)", d.EmployeeName, d.EmployeeCode))
	row(pdf, "Pay run", d.PayRunTitle)
	row(pdf, "Period", fmt.Sprintf("%s to %s", d.PeriodStart.Format(time.DateOnly), d.PeriodEnd.Format(time.DateOnly)))
	if d.DaysWorked != nil {
		row(pdf, "Days worked", fmt.Sprintf("%d", *d.DaysWorked))
	}
	if d.HoursWorked != nil {
		row(pdf, "Hours worked", d.HoursWorked.StringFixed(2))
	}
	row(pdf, "Status", d.Status)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(100, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Rate", "B", 0, "R", false, 0, "")
	pdf.CellFormat(50, 8, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(100, 7, "Gross pay", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "", "", 0, "R", false, 0, "")
	pdf.CellFormat(50, 7, money(d.Gross, d.Currency), "", 1, "R", false, 0, "")
	for _, line := range d.Deductions {
		pdf.CellFormat(100, 7, line.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, line.Rate.Mul(decimal.NewFromInt(100)).StringFixed(2)+" %", "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, "-"+money(line.Amount, d.Currency), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(130, 8, "Total deductions", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, money(d.TotalDeductions, d.Currency), "T", 1, "R", false, 0, "")
	pdf.CellFormat(130, 8, "Net pay", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, money(d.Net, d.Currency), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(130, 7, "Paid", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, money(d.Paid, d.Currency), "", 1, "R", false, 0, "")
	pdf.CellFormat(130, 7, "Remaining", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, money(d.Remaining, d.Currency), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func money(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + " " + currency
}
