package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Govind-619/PayGate/models"
	"github.com/Govind-619/PayGate/repository"
	"github.com/Govind-619/PayGate/utils"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

const (
	StatementFormatPDF  = "pdf"
	StatementFormatXLSX = "xlsx"
)

// Statement is a user's transaction history prepared for export.
type Statement struct {
	User         models.User
	Transactions []models.Transaction
	GeneratedAt  time.Time
}

// BuildStatement collects the caller's full history for export.
func (s *PaymentService) BuildStatement(ctx context.Context, userID uint, format string) (*Statement, error) {
	if format != StatementFormatPDF && format != StatementFormatXLSX {
		return nil, utils.ValidationError("format: Must be pdf or xlsx.", nil)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.UnauthorizedError(utils.ErrLoginRequired, nil)
		}
		return nil, utils.InternalError("Failed to load user", err)
	}
	txns, err := s.TransactionHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Statement{User: *user, Transactions: txns, GeneratedAt: time.Now()}, nil
}

// Render writes the statement in format.
func (s Statement) Render(w io.Writer, format string) error {
	switch format {
	case StatementFormatPDF:
		return s.WritePDF(w)
	case StatementFormatXLSX:
		return s.WriteXLSX(w)
	}
	return fmt.Errorf("unsupported statement format %q", format)
}

// ContentType is the MIME type for format.
func ContentType(format string) string {
	if format == StatementFormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// StatementSummary totals a statement. Paid amounts are kept per currency.
type StatementSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Pending   int
	Refunded  int
	Paid      map[string]decimal.Decimal
}

func (s Statement) Summary() StatementSummary {
	summary := StatementSummary{Paid: make(map[string]decimal.Decimal)}
	for _, txn := range s.Transactions {
		summary.Total++
		switch txn.Status {
		case models.TransactionStatusSuccess:
			summary.Succeeded++
			summary.Paid[txn.Currency] = summary.Paid[txn.Currency].Add(txn.Amount)
		case models.TransactionStatusFailed:
			summary.Failed++
		case models.TransactionStatusPending:
			summary.Pending++
		case models.TransactionStatusRefunded:
			summary.Refunded++
		}
	}
	return summary
}

// PaidLines renders the per-currency paid totals in a stable order.
func (s StatementSummary) PaidLines() []string {
	currencies := make([]string, 0, len(s.Paid))
	for currency := range s.Paid {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)
	lines := make([]string, 0, len(currencies))
	for _, currency := range currencies {
		lines = append(lines, fmt.Sprintf("%s %s", FormatAmount(s.Paid[currency], currency), currency))
	}
	return lines
}

func (s StatementSummary) rows() [][]string {
	rows := [][]string{
		{"Total Transactions", fmt.Sprintf("%d", s.Total)},
		{"Successful", fmt.Sprintf("%d", s.Succeeded)},
		{"Failed", fmt.Sprintf("%d", s.Failed)},
		{"Pending", fmt.Sprintf("%d", s.Pending)},
		{"Refunded", fmt.Sprintf("%d", s.Refunded)},
	}
	for _, line := range s.PaidLines() {
		rows = append(rows, []string{"Total Paid", line})
	}
	return rows
}

var statementHeaders = []string{"Order ID", "Razorpay Order", "Payment ID", "Date", "Amount", "Currency", "Status", "Description"}

// FileName is the download name for the given format.
func (s Statement) FileName(format string) string {
	return fmt.Sprintf("statement_%d_%s.%s", s.User.ID, s.GeneratedAt.Format("20060102"), format)
}

// WriteXLSX renders the statement as an Excel workbook.
func (s Statement) WriteXLSX(w io.Writer) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Statement")
	if err != nil {
		return fmt.Errorf("failed to create Excel sheet: %v", err)
	}

	bold := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	bold.Font = *font

	title := sheet.AddRow().AddCell()
	title.SetString("PAYGATE - Transaction Statement")
	title.SetStyle(bold)
	sheet.AddRow().AddCell().SetString(fmt.Sprintf("Account: %s <%s>", s.User.DisplayName(), s.User.Email))
	sheet.AddRow().AddCell().SetString("Generated: " + s.GeneratedAt.Format("2006-01-02 15:04"))
	sheet.AddRow()

	headerRow := sheet.AddRow()
	for _, h := range statementHeaders {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(bold)
	}

	for _, txn := range s.Transactions {
		row := sheet.AddRow()
		row.AddCell().SetString(txn.OrderID)
		row.AddCell().SetString(models.StringValue(txn.ProviderOrderID))
		row.AddCell().SetString(models.StringValue(txn.ProviderPaymentID))
		row.AddCell().SetString(txn.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(FormatAmount(txn.Amount, txn.Currency))
		row.AddCell().SetString(txn.Currency)
		row.AddCell().SetString(string(txn.Status))
		row.AddCell().SetString(txn.Description)
	}

	sheet.AddRow()
	summaryCell := sheet.AddRow().AddCell()
	summaryCell.SetString("Summary")
	summaryCell.SetStyle(bold)
	for _, data := range s.Summary().rows() {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %v", err)
	}
	return nil
}

// WritePDF renders the statement as a landscape A4 PDF.
func (s Statement) WritePDF(w io.Writer) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 12, "PAYGATE - Transaction Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Account: %s <%s>", s.User.DisplayName(), s.User.Email))
	pdf.Ln(6)
	pdf.Cell(0, 8, "Generated: "+s.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	colWidths := []float64{32, 42, 42, 32, 26, 20, 22, 61}
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range statementHeaders {
		pdf.CellFormat(colWidths[i], 9, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	fill := false
	for _, txn := range s.Transactions {
		pdf.SetFillColor(230, 240, 255)
		pdf.CellFormat(colWidths[0], 8, txn.OrderID, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[1], 8, models.StringValue(txn.ProviderOrderID), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[2], 8, models.StringValue(txn.ProviderPaymentID), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[3], 8, txn.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[4], 8, FormatAmount(txn.Amount, txn.Currency), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(colWidths[5], 8, txn.Currency, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[6], 8, string(txn.Status), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(colWidths[7], 8, truncate(txn.Description, 40), "1", 0, "L", fill, 0, "")
		pdf.Ln(-1)
		fill = !fill
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 13)
	pdf.SetFillColor(220, 230, 250)
	pdf.CellFormat(90, 10, "Summary", "1", 0, "C", true, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	for _, data := range s.Summary().rows() {
		pdf.CellFormat(50, 8, data[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, data[1], "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF file: %v", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
