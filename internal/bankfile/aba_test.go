package bankfile

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		InstitutionCode:  "CBA",
		UserName:         "CareOps Disability Services",
		UserID:           "301500",
		Description:      "PAYROLL",
		LodgementBSB:     "062-000",
		LodgementAccount: "12345678",
		RemitterName:     "CAREOPS PAYROLL",
	}
}

func TestRenderLineWidthAndRecordTypes(t *testing.T) {
	w := NewWriter(testConfig())
	out := w.Render(time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC), []Detail{
		{BSB: "062-001", AccountNumber: "11112222", PayeeName: "JANE CITIZEN", AmountCents: 101175},
		{BSB: "484-799", AccountNumber: "33334444", PayeeName: "JOHN CITIZEN", AmountCents: 85000},
	}, Totals{NetCents: 186175, GrossCents: 250000})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	for i, line := range lines {
		assert.Len(t, line, 120, "line %d", i)
	}

	assert.Equal(t, "0", lines[0][:1])
	assert.Equal(t, "1", lines[1][:1])
	assert.Equal(t, "1", lines[2][:1])
	assert.Equal(t, "7", lines[3][:1])
}

func TestRenderHeaderFields(t *testing.T) {
	w := NewWriter(testConfig())
	out := w.Render(time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC), nil, Totals{})
	header := strings.Split(out, "\n")[0]

	assert.Equal(t, "01", header[18:20], "reel sequence")
	assert.Equal(t, "CBA", header[20:23])
	assert.Equal(t, "CareOps Disability Services"[:26], header[30:56])
	assert.Equal(t, "301500", header[56:62])
	assert.Equal(t, "PAYROLL     ", header[62:74])
	assert.Equal(t, "20250707", header[74:82])
}

func TestRenderDetailFields(t *testing.T) {
	w := NewWriter(testConfig())
	out := w.Render(time.Now(), []Detail{
		{BSB: "062-001", AccountNumber: "11112222", PayeeName: "JANE CITIZEN", AmountCents: 101175},
	}, Totals{NetCents: 101175, GrossCents: 142500})
	detail := strings.Split(out, "\n")[1]

	assert.Equal(t, "062-001", detail[1:8])
	assert.Equal(t, "11112222", detail[8:16])
	assert.Equal(t, " ", detail[16:17], "withholding indicator")
	assert.Equal(t, "50", detail[17:19], "pay transaction code")
	assert.Equal(t, "0000101175", detail[19:29], "net amount in cents")
	assert.Equal(t, "JANE CITIZEN", strings.TrimRight(detail[29:61], " "))
	assert.Equal(t, "062-000", detail[61:68], "lodgement BSB")
	assert.Equal(t, "12345678", detail[68:76], "lodgement account")
	assert.Equal(t, "CAREOPS PAYROLL", strings.TrimRight(detail[76:92], " "))
	assert.Equal(t, "00000000", detail[92:100], "tax amount")
}

func TestRenderTrailerTotalsAndCount(t *testing.T) {
	w := NewWriter(testConfig())
	out := w.Render(time.Now(), []Detail{
		{BSB: "062-001", AccountNumber: "1", PayeeName: "A", AmountCents: 100},
		{BSB: "062-001", AccountNumber: "2", PayeeName: "B", AmountCents: 200},
		{BSB: "062-001", AccountNumber: "3", PayeeName: "C", AmountCents: 300},
	}, Totals{NetCents: 600, GrossCents: 900})
	trailer := strings.Split(out, "\n")[4]

	assert.Equal(t, "7999-999", trailer[:8])
	assert.Equal(t, "0000000600", trailer[20:30], "net total")
	assert.Equal(t, "0000000900", trailer[30:40], "gross total")
	assert.Equal(t, "000003", trailer[64:70], "record count")
}

func TestRenderTruncatesOverlongNames(t *testing.T) {
	w := NewWriter(testConfig())
	out := w.Render(time.Now(), []Detail{
		{
			BSB:           "062-001",
			AccountNumber: "11112222",
			PayeeName:     strings.Repeat("X", 50),
			AmountCents:   1,
		},
	}, Totals{NetCents: 1, GrossCents: 1})
	detail := strings.Split(out, "\n")[1]

	assert.Len(t, detail, 120)
	assert.Equal(t, strings.Repeat("X", 32), detail[29:61])
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(101175), Cents(decimal.RequireFromString("1011.75")))
	assert.Equal(t, int64(0), Cents(decimal.Zero))
	assert.Equal(t, int64(3000), Cents(decimal.NewFromInt(30)))
	// Sub-cent amounts round to the nearest cent.
	assert.Equal(t, int64(1234), Cents(decimal.RequireFromString("12.336")))
}
