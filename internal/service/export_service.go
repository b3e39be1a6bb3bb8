package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-fee-api/internal/dto"
	"github.com/noah-isme/sma-fee-api/internal/models"
	"github.com/noah-isme/sma-fee-api/pkg/export"
	"github.com/noah-isme/sma-fee-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type snapshotProvider interface {
	Snapshot(ctx context.Context, academicYear string) (*dto.FinancialSnapshot, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds financial report datasets and persists rendered
// files. Statements replay the ledger derivation at generation time, so a
// statement generated after a payment lands reflects that payment even if
// the job was queued before it.
type ExportService struct {
	ledgers   ledgerBuilder
	dashboard snapshotProvider
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(ledgers ledgerBuilder, dashboard snapshotProvider, fs fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		ledgers:   ledgers,
		dashboard: dashboard,
		storage:   fs,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate builds the dataset for a job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/finance/reports/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL
// when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	yearPart := sanitizeFilename(job.Params.AcademicYear)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), yearPart, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeStatement:
		return s.buildStatementDataset(ctx, job.Params)
	case models.ReportTypeCollections:
		return s.buildCollectionsDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildStatementDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	if params.StudentID == nil || *params.StudentID == "" {
		return export.Dataset{}, "", fmt.Errorf("statement report requires a student")
	}
	ledger, err := s.ledgers.BuildLedger(ctx, *params.StudentID, params.AcademicYear)
	if err != nil {
		return export.Dataset{}, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"Month", "Due Date", "Base Fee", "Discount", "Late Fee", "Total Due", "Paid", "Outstanding", "Status"},
	}
	for _, month := range ledger.Months {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Month":       month.Label,
			"Due Date":    month.DueDate.Format("2006-01-02"),
			"Base Fee":    month.BaseFee.StringFixed(2),
			"Discount":    month.Discount.StringFixed(2),
			"Late Fee":    month.LateFee.StringFixed(2),
			"Total Due":   month.TotalDue.StringFixed(2),
			"Paid":        month.TotalPaid.StringFixed(2),
			"Outstanding": month.Outstanding.StringFixed(2),
			"Status":      string(month.Status),
		})
	}
	title := fmt.Sprintf("Fee Statement %s (%s)", ledger.StudentName, ledger.AcademicYear)
	return dataset, title, nil
}

func (s *ExportService) buildCollectionsDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	snapshot, err := s.dashboard.Snapshot(ctx, params.AcademicYear)
	if err != nil {
		return export.Dataset{}, "", err
	}

	metrics := [][2]string{
		{"Academic Year", snapshot.AcademicYear},
		{"Students", fmt.Sprintf("%d", snapshot.StudentCount)},
		{"Total Expected", snapshot.TotalExpected.StringFixed(2)},
		{"Total Collected", snapshot.TotalCollected.StringFixed(2)},
		{"Total Discount", snapshot.TotalDiscount.StringFixed(2)},
		{"Total Late Fees", snapshot.TotalLateFee.StringFixed(2)},
		{"Total Overdue", snapshot.TotalOverdue.StringFixed(2)},
		{"Selected Month", snapshot.SelectedMonth},
		{"Selected Month Expected", snapshot.SelectedExpected.StringFixed(2)},
		{"Selected Month Collected", snapshot.SelectedCollected.StringFixed(2)},
		{"Collection Rate", fmt.Sprintf("%.2f%%", snapshot.CollectionRate)},
		{"Skipped Students", fmt.Sprintf("%d", len(snapshot.SkippedStudents))},
	}
	dataset := export.Dataset{
		Headers: []string{"Metric", "Value"},
	}
	for _, m := range metrics {
		dataset.Rows = append(dataset.Rows, map[string]string{"Metric": m[0], "Value": m[1]})
	}
	title := fmt.Sprintf("Collections Summary %s", snapshot.AcademicYear)
	return dataset, title, nil
}
