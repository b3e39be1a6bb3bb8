package service

import (
	"context"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-fee-api/internal/dto"
	"github.com/noah-isme/sma-fee-api/internal/models"
	"github.com/noah-isme/sma-fee-api/pkg/export"
	"github.com/noah-isme/sma-fee-api/pkg/storage"
)

type snapshotStub struct{}

func (snapshotStub) Snapshot(_ context.Context, academicYear string) (*dto.FinancialSnapshot, error) {
	return &dto.FinancialSnapshot{
		AcademicYear:   academicYear,
		StudentCount:   2,
		TotalExpected:  dec("24000"),
		TotalCollected: dec("18500"),
		TotalDiscount:  dec("1200"),
		TotalLateFee:   dec("340"),
		TotalOverdue:   dec("5500"),
	}, nil
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	ledgers := &fakeLedgerBuilder{ledgers: map[string]*models.StudentLedger{
		"stu-1": singleMonthLedger("stu-1", "2025-04", "1000", "1000", models.MonthStatusPaid),
	}}
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(ledgers, snapshotStub{}, store, signer, cfg, zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, store
}

func TestExportServiceGenerateStatementCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	studentID := "stu-1"
	job := &models.ReportJob{
		ID:     "job-1",
		Type:   models.ReportTypeStatement,
		Params: models.ReportJobParams{AcademicYear: "2025-2026", StudentID: &studentID, Format: models.ReportFormatCSV},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/finance/reports/export/")

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceStatementCSVCellsFollowHeaders(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	studentID := "stu-1"
	job := &models.ReportJob{
		ID:     "job-cells",
		Type:   models.ReportTypeStatement,
		Params: models.ReportJobParams{AcademicYear: "2025-2026", StudentID: &studentID, Format: models.ReportFormatCSV},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	file, err := os.Open(store.Path(result.RelativePath))
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	header := records[0]
	row := records[1]
	require.Equal(t, "Total Due", header[5])
	require.Equal(t, "1000.00", row[5])
	require.Equal(t, "Paid", header[6])
	require.Equal(t, "1000.00", row[6])
	require.Equal(t, "Status", header[8])
	require.Equal(t, "PAID", row[8])
}

func TestExportServiceCollectionsCSVMetricRows(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-metrics",
		Type:   models.ReportTypeCollections,
		Params: models.ReportJobParams{AcademicYear: "2025-2026", Format: models.ReportFormatCSV},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	file, err := os.Open(store.Path(result.RelativePath))
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"Metric", "Value"}, records[0])
	require.Equal(t, []string{"Academic Year", "2025-2026"}, records[1])
	require.Equal(t, []string{"Total Collected", "18500.00"}, records[4])
}

func TestExportServiceGenerateCollectionsPDF(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-2",
		Type:   models.ReportTypeCollections,
		Params: models.ReportJobParams{AcademicYear: "2025-2026", Format: models.ReportFormatPDF},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, models.ReportFormatPDF, result.Format)

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceStatementRequiresStudent(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-3",
		Type:   models.ReportTypeStatement,
		Params: models.ReportJobParams{AcademicYear: "2025-2026", Format: models.ReportFormatCSV},
	}
	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)
}

func TestExportServiceTokenRoundTrip(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	studentID := "stu-1"
	job := &models.ReportJob{
		ID:     "job-4",
		Type:   models.ReportTypeStatement,
		Params: models.ReportJobParams{AcademicYear: "2025-2026", StudentID: &studentID, Format: models.ReportFormatCSV},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	jobID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	require.Equal(t, job.ID, jobID)
	require.Equal(t, result.RelativePath, relPath)
}
