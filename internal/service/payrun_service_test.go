package service

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careops-au/ndis-ops-api/internal/bankfile"
	"github.com/careops-au/ndis-ops-api/internal/models"
	"github.com/careops-au/ndis-ops-api/pkg/storage"
)

type mockPayRunRepo struct {
	runs     map[string]*models.PayRun
	slips    map[string][]models.Payslip
	bankFile map[string]string
}

func (m *mockPayRunRepo) CreateWithSlips(ctx context.Context, run *models.PayRun, slips []models.Payslip) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	for i := range slips {
		slips[i].PayRunID = run.ID
	}
	if m.runs == nil {
		m.runs = make(map[string]*models.PayRun)
		m.slips = make(map[string][]models.Payslip)
	}
	m.runs[run.ID] = run
	m.slips[run.ID] = slips
	return nil
}

func (m *mockPayRunRepo) FindByID(ctx context.Context, id string) (*models.PayRun, error) {
	if r, ok := m.runs[id]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPayRunRepo) List(ctx context.Context, limit int) ([]models.PayRun, error) {
	var out []models.PayRun
	for _, r := range m.runs {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockPayRunRepo) ListPayslips(ctx context.Context, payRunID string) ([]models.Payslip, error) {
	return m.slips[payRunID], nil
}

func (m *mockPayRunRepo) UpdateBankFile(ctx context.Context, id, path string) error {
	if m.bankFile == nil {
		m.bankFile = make(map[string]string)
	}
	m.bankFile[id] = path
	return nil
}

type mockTotalsRepo struct {
	totals []models.StaffPeriodHours
}

func (m *mockTotalsRepo) TotalsByStaff(ctx context.Context, from, to time.Time) ([]models.StaffPeriodHours, error) {
	return m.totals, nil
}

type mockRateResolver struct {
	rates map[string]*models.AwardRate
}

func (m *mockRateResolver) ResolveRate(ctx context.Context, level string, employmentType models.EmploymentType, asOf time.Time) (*models.AwardRate, error) {
	if r, ok := m.rates[level]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func strPtr(s string) *string { return &s }

func newTestPayRunService(t *testing.T, runs *mockPayRunRepo, totals *mockTotalsRepo, staff *mockStaffReader, rates *mockRateResolver) (*PayRunService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	bank := bankfile.NewWriter(bankfile.Config{
		InstitutionCode:  "CBA",
		UserName:         "CAREOPS PTY LTD",
		UserID:           "301500",
		Description:      "PAYROLL",
		LodgementBSB:     "062-000",
		LodgementAccount: "12345678",
		RemitterName:     "CAREOPS",
	})
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	svc := NewPayRunService(runs, totals, staff, rates, nil, bank, store, signer, nil, validator.New(), zap.NewNop())
	return svc, store
}

func TestPayRunServiceProcess(t *testing.T) {
	banked := testCasualStaff("s1")
	banked.BSB = strPtr("062-001")
	banked.AccountNumber = strPtr("00112233")
	unbanked := testCasualStaff("s2")
	unbanked.FirstName = "Ben"
	unbanked.LastName = "Okafor"
	noRate := testCasualStaff("s3")
	noRate.AwardLevel = "9.9"

	staff := &mockStaffReader{staff: map[string]*models.Staff{"s1": banked, "s2": unbanked, "s3": noRate}}
	totals := &mockTotalsRepo{totals: []models.StaffPeriodHours{
		{StaffID: "s1", HoursBreakdown: models.HoursBreakdown{Ordinary: 20}},
		{StaffID: "s2", HoursBreakdown: models.HoursBreakdown{Ordinary: 10}},
		{StaffID: "s3", HoursBreakdown: models.HoursBreakdown{Ordinary: 38}},
	}}
	rates := &mockRateResolver{rates: map[string]*models.AwardRate{
		"2.1": {Level: "2.1", EmploymentType: models.EmploymentCasual, BaseHourlyRate: decimal.RequireFromString("32.00")},
	}}
	runs := &mockPayRunRepo{}
	svc, store := newTestPayRunService(t, runs, totals, staff, rates)

	run, slips, err := svc.ProcessPayRun(context.Background(), models.PayRunRequest{
		PeriodStart: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		PayDate:     time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// s3 has no active rate and is skipped; the other two are paid.
	require.Len(t, slips, 2)
	// 20h and 10h at 32.00 with 25% casual loading
	assert.True(t, slips[0].GrossPay.Equal(decimal.RequireFromString("800.00")), "got %s", slips[0].GrossPay)
	assert.True(t, slips[1].GrossPay.Equal(decimal.RequireFromString("400.00")), "got %s", slips[1].GrossPay)
	assert.True(t, run.TotalGross.Equal(decimal.RequireFromString("1200.00")), "got %s", run.TotalGross)
	assert.True(t, run.TotalNet.Equal(run.TotalGross.Sub(run.TotalTax)))

	// Only the staff member with bank details makes it into the ABA file.
	require.NotNil(t, run.BankFilePath)
	assert.Equal(t, *run.BankFilePath, runs.bankFile[run.ID])
	raw, err := os.ReadFile(store.Path(*run.BankFilePath))
	require.NoError(t, err)
	lines := strings.Split(string(raw), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "0", lines[0][:1])
	assert.Equal(t, "1", lines[1][:1])
	assert.Contains(t, lines[1], "062-001")
	assert.Equal(t, "7", lines[2][:1])
}

func TestPayRunServicePeriodOrder(t *testing.T) {
	svc, _ := newTestPayRunService(t, &mockPayRunRepo{}, &mockTotalsRepo{}, &mockStaffReader{}, &mockRateResolver{})

	_, _, err := svc.ProcessPayRun(context.Background(), models.PayRunRequest{
		PeriodStart: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		PayDate:     time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
}

func TestPayRunServiceExportPayslips(t *testing.T) {
	runs := &mockPayRunRepo{
		runs: map[string]*models.PayRun{"pr1": {ID: "pr1", Status: models.PayRunCompleted}},
		slips: map[string][]models.Payslip{"pr1": {
			{StaffID: "s1", StaffName: "Amy Nguyen", GrossPay: decimal.RequireFromString("800.00"), NetPay: decimal.RequireFromString("720.00")},
		}},
	}
	svc, store := newTestPayRunService(t, runs, &mockTotalsRepo{}, &mockStaffReader{}, &mockRateResolver{})

	token, expiresAt, err := svc.ExportPayslips(context.Background(), "pr1", "csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	path, err := svc.OpenExport(token)
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Amy Nguyen")
	assert.Equal(t, store.Path("payruns/pr1/payslips.csv"), path)
}

func TestPayRunServiceExportUnknownFormat(t *testing.T) {
	runs := &mockPayRunRepo{runs: map[string]*models.PayRun{"pr1": {ID: "pr1"}}}
	svc, _ := newTestPayRunService(t, runs, &mockTotalsRepo{}, &mockStaffReader{}, &mockRateResolver{})

	_, _, err := svc.ExportPayslips(context.Background(), "pr1", "xlsx")
	require.Error(t, err)
}
