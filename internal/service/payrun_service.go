package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/careops-au/ndis-ops-api/internal/bankfile"
	"github.com/careops-au/ndis-ops-api/internal/models"
	"github.com/careops-au/ndis-ops-api/internal/schads"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
	"github.com/careops-au/ndis-ops-api/pkg/export"
	"github.com/careops-au/ndis-ops-api/pkg/storage"
)

type payRunRepository interface {
	CreateWithSlips(ctx context.Context, run *models.PayRun, slips []models.Payslip) error
	FindByID(ctx context.Context, id string) (*models.PayRun, error)
	List(ctx context.Context, limit int) ([]models.PayRun, error)
	ListPayslips(ctx context.Context, payRunID string) ([]models.Payslip, error)
	UpdateBankFile(ctx context.Context, id, path string) error
}

type timesheetTotalsRepository interface {
	TotalsByStaff(ctx context.Context, from, to time.Time) ([]models.StaffPeriodHours, error)
}

type rateResolver interface {
	ResolveRate(ctx context.Context, level string, employmentType models.EmploymentType, asOf time.Time) (*models.AwardRate, error)
}

// PayRunService orchestrates a pay run end to end: aggregate timesheets,
// price every staff member, persist the run and render the bank file.
type PayRunService struct {
	runs       payRunRepository
	timesheets timesheetTotalsRepository
	staff      payrollStaffRepository
	rates      rateResolver
	calc       *schads.Calculator
	bank       *bankfile.Writer
	store      *storage.LocalStorage
	signer     *storage.SignedURLSigner
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewPayRunService constructs a PayRunService.
func NewPayRunService(
	runs payRunRepository,
	timesheets timesheetTotalsRepository,
	staff payrollStaffRepository,
	rates rateResolver,
	calc *schads.Calculator,
	bank *bankfile.Writer,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *PayRunService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if calc == nil {
		calc = schads.NewCalculator(nil)
	}
	return &PayRunService{
		runs:       runs,
		timesheets: timesheets,
		staff:      staff,
		rates:      rates,
		calc:       calc,
		bank:       bank,
		store:      store,
		signer:     signer,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
	}
}

// ProcessPayRun executes a full pay run over the requested period. Staff
// whose award rate cannot be resolved are skipped with a warning rather than
// failing the whole run.
func (s *PayRunService) ProcessPayRun(ctx context.Context, req models.PayRunRequest) (*models.PayRun, []models.Payslip, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pay run payload")
	}
	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "period end must not precede start")
	}

	totals, err := s.timesheets.TotalsByStaff(ctx, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate timesheets")
	}

	run := &models.PayRun{
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		PayDate:     req.PayDate,
		Status:      models.PayRunCompleted,
		TotalGross:  decimal.Zero,
		TotalTax:    decimal.Zero,
		TotalSuper:  decimal.Zero,
		TotalNet:    decimal.Zero,
	}

	slips := make([]models.Payslip, 0, len(totals))
	details := make([]bankfile.Detail, 0, len(totals))

	for _, period := range totals {
		staff, err := s.staff.FindByID(ctx, period.StaffID)
		if err != nil {
			s.logger.Warn("skipping staff with missing record",
				zap.String("staff_id", period.StaffID), zap.Error(err))
			continue
		}

		rate, err := s.rates.ResolveRate(ctx, staff.AwardLevel, staff.EmploymentType, req.PeriodEnd)
		if err != nil {
			s.logger.Warn("skipping staff with no active award rate",
				zap.String("staff_id", staff.ID),
				zap.String("award_level", staff.AwardLevel),
				zap.String("employment_type", string(staff.EmploymentType)))
			continue
		}

		result, err := s.calc.Calculate(schads.Input{
			Hours:          period.HoursBreakdown,
			BaseRate:       rate.BaseHourlyRate,
			EmploymentType: staff.EmploymentType,
		})
		if err != nil {
			s.logger.Warn("skipping staff with rejected calculation",
				zap.String("staff_id", staff.ID), zap.Error(err))
			continue
		}

		slips = append(slips, models.Payslip{
			StaffID:           staff.ID,
			StaffName:         staff.FullName(),
			GrossPay:          result.GrossPay,
			TaxWithheld:       result.Tax,
			SuperContribution: result.SuperContribution,
			NetPay:            result.NetPay,
			HoursBreakdown:    period.HoursBreakdown,
		})

		run.TotalGross = run.TotalGross.Add(result.GrossPay)
		run.TotalTax = run.TotalTax.Add(result.Tax)
		run.TotalSuper = run.TotalSuper.Add(result.SuperContribution)
		run.TotalNet = run.TotalNet.Add(result.NetPay)

		if staff.BSB != nil && staff.AccountNumber != nil {
			details = append(details, bankfile.Detail{
				BSB:           *staff.BSB,
				AccountNumber: *staff.AccountNumber,
				PayeeName:     staff.FullName(),
				AmountCents:   bankfile.Cents(result.NetPay),
			})
		} else {
			s.logger.Warn("staff missing bank details, excluded from bank file",
				zap.String("staff_id", staff.ID))
		}
	}

	if err := s.runs.CreateWithSlips(ctx, run, slips); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist pay run")
	}

	if path, err := s.renderBankFile(ctx, run, details); err != nil {
		s.logger.Error("failed to render bank file", zap.String("pay_run_id", run.ID), zap.Error(err))
	} else {
		run.BankFilePath = &path
	}

	if s.metrics != nil {
		s.metrics.RecordPayRun(len(slips))
	}
	s.logger.Info("pay run completed",
		zap.String("pay_run_id", run.ID),
		zap.Int("payslips", len(slips)),
		zap.String("total_gross", run.TotalGross.StringFixed(2)),
		zap.String("total_net", run.TotalNet.StringFixed(2)))

	return run, slips, nil
}

func (s *PayRunService) renderBankFile(ctx context.Context, run *models.PayRun, details []bankfile.Detail) (string, error) {
	contents := s.bank.Render(run.PayDate, details, bankfile.Totals{
		NetCents:   bankfile.Cents(run.TotalNet),
		GrossCents: bankfile.Cents(run.TotalGross),
	})

	filename := fmt.Sprintf("payruns/%s/payments.aba", run.ID)
	if _, err := s.store.Save(filename, []byte(contents)); err != nil {
		return "", err
	}
	if err := s.runs.UpdateBankFile(ctx, run.ID, filename); err != nil {
		return "", err
	}
	return filename, nil
}

// GetPayRun loads a pay run by ID.
func (s *PayRunService) GetPayRun(ctx context.Context, id string) (*models.PayRun, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pay run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pay run")
	}
	return run, nil
}

// ListPayRuns returns recent pay runs.
func (s *PayRunService) ListPayRuns(ctx context.Context, limit int) ([]models.PayRun, error) {
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pay runs")
	}
	return runs, nil
}

// GetPayslips returns every payslip in a run.
func (s *PayRunService) GetPayslips(ctx context.Context, payRunID string) ([]models.Payslip, error) {
	if _, err := s.GetPayRun(ctx, payRunID); err != nil {
		return nil, err
	}
	slips, err := s.runs.ListPayslips(ctx, payRunID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payslips")
	}
	return slips, nil
}

// ExportPayslips renders the run's payslips as CSV or PDF, stores the file
// and returns a signed download token.
func (s *PayRunService) ExportPayslips(ctx context.Context, payRunID, format string) (string, time.Time, error) {
	slips, err := s.GetPayslips(ctx, payRunID)
	if err != nil {
		return "", time.Time{}, err
	}

	dataset := payslipDataset(slips)

	var rendered []byte
	var ext string
	switch format {
	case "pdf":
		rendered, err = s.pdf.Render(dataset, fmt.Sprintf("Payslips %s", payRunID))
		ext = "pdf"
	case "", "csv":
		rendered, err = s.csv.Render(dataset)
		ext = "csv"
	default:
		return "", time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render payslips")
	}

	filename := fmt.Sprintf("payruns/%s/payslips.%s", payRunID, ext)
	if _, err := s.store.Save(filename, rendered); err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store payslip export")
	}

	token, expiresAt, err := s.signer.Generate(payRunID, filename)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download")
	}
	return token, expiresAt, nil
}

// OpenExport validates a signed token and opens the underlying file.
func (s *PayRunService) OpenExport(token string) (string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	return s.store.Path(relPath), nil
}

func payslipDataset(slips []models.Payslip) export.Dataset {
	headers := []string{"Staff", "Ordinary", "Overtime", "Weekend", "Public Holiday", "Evening", "Night", "Gross", "Tax", "Super", "Net"}
	rows := make([]map[string]string, 0, len(slips))
	for _, slip := range slips {
		rows = append(rows, map[string]string{
			"Staff":          slip.StaffName,
			"Ordinary":       fmt.Sprintf("%.2f", slip.Ordinary),
			"Overtime":       fmt.Sprintf("%.2f", slip.Overtime),
			"Weekend":        fmt.Sprintf("%.2f", slip.Weekend),
			"Public Holiday": fmt.Sprintf("%.2f", slip.PublicHoliday),
			"Evening":        fmt.Sprintf("%.2f", slip.Evening),
			"Night":          fmt.Sprintf("%.2f", slip.Night),
			"Gross":          slip.GrossPay.StringFixed(2),
			"Tax":            slip.TaxWithheld.StringFixed(2),
			"Super":          slip.SuperContribution.StringFixed(2),
			"Net":            slip.NetPay.StringFixed(2),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
