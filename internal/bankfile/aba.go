// Package bankfile renders completed pay runs into the fixed-width ABA
// format consumed by Australian banks: one descriptive header, one detail
// record per payslip and a file total trailer, every line exactly 120
// characters.
package bankfile

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const lineWidth = 120

// Record type indicators.
const (
	recordHeader  = "0"
	recordDetail  = "1"
	recordTrailer = "7"
)

// transactionCodePay marks a detail record as a credit (pay) transaction.
const transactionCodePay = "50"

// Config is the fixed identity written into header and lodgement fields.
type Config struct {
	InstitutionCode  string
	UserName         string
	UserID           string
	Description      string
	LodgementBSB     string
	LodgementAccount string
	RemitterName     string
}

// Detail is one payee line of the file.
type Detail struct {
	BSB           string
	AccountNumber string
	PayeeName     string
	AmountCents   int64
	TaxCents      int64
}

// Totals feeds the trailer record.
type Totals struct {
	NetCents   int64
	GrossCents int64
}

// Writer renders ABA files for a fixed configuration.
type Writer struct {
	cfg Config
}

// NewWriter constructs a Writer.
func NewWriter(cfg Config) *Writer {
	return &Writer{cfg: cfg}
}

// Render produces the complete newline-delimited file contents.
func (w *Writer) Render(processingDate time.Time, details []Detail, totals Totals) string {
	lines := make([]string, 0, len(details)+2)
	lines = append(lines, w.header(processingDate))
	for _, d := range details {
		lines = append(lines, w.detail(d))
	}
	lines = append(lines, w.trailer(totals, len(details)))
	return strings.Join(lines, "\n")
}

func (w *Writer) header(processingDate time.Time) string {
	var b strings.Builder
	b.WriteString(recordHeader)
	b.WriteString(strings.Repeat(" ", 17))
	b.WriteString("01") // reel sequence number
	b.WriteString(padRight(w.cfg.InstitutionCode, 3))
	b.WriteString(strings.Repeat(" ", 7))
	b.WriteString(padRight(w.cfg.UserName, 26))
	b.WriteString(padLeftZero(w.cfg.UserID, 6))
	b.WriteString(padRight(w.cfg.Description, 12))
	b.WriteString(processingDate.Format("20060102"))
	return padRight(b.String(), lineWidth)
}

func (w *Writer) detail(d Detail) string {
	var b strings.Builder
	b.WriteString(recordDetail)
	b.WriteString(padRight(d.BSB, 7))
	b.WriteString(padRight(d.AccountNumber, 8))
	b.WriteString(" ") // withholding indicator
	b.WriteString(transactionCodePay)
	b.WriteString(padCents(d.AmountCents))
	b.WriteString(padRight(d.PayeeName, 32))
	b.WriteString(padRight(w.cfg.LodgementBSB, 7))
	b.WriteString(padRight(w.cfg.LodgementAccount, 8))
	b.WriteString(padRight(w.cfg.RemitterName, 16))
	b.WriteString(padLeftZero(fmt.Sprintf("%d", d.TaxCents), 8))
	return padRight(b.String(), lineWidth)
}

func (w *Writer) trailer(totals Totals, count int) string {
	var b strings.Builder
	b.WriteString(recordTrailer)
	b.WriteString("999-999")
	b.WriteString(strings.Repeat(" ", 12))
	b.WriteString(padCents(totals.NetCents))
	b.WriteString(padCents(totals.GrossCents))
	b.WriteString(strings.Repeat(" ", 24))
	b.WriteString(padLeftZero(fmt.Sprintf("%d", count), 6))
	return padRight(b.String(), lineWidth)
}

// Cents converts a dollar amount into whole cents.
func Cents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func padCents(cents int64) string {
	return padLeftZero(fmt.Sprintf("%d", cents), 10)
}

func padRight(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padLeftZero(s string, width int) string {
	if len(s) > width {
		return s[len(s)-width:]
	}
	return strings.Repeat("0", width-len(s)) + s
}
