package dto

import "github.com/noah-isme/sma-fee-api/internal/models"

// ReportRequest is the payload to queue a financial report export.
type ReportRequest struct {
	Type         models.ReportType   `json:"type" validate:"required"`
	AcademicYear string              `json:"academic_year" validate:"required"`
	StudentID    *string             `json:"student_id,omitempty"`
	Format       models.ReportFormat `json:"format" validate:"required"`
}

// ReportJobResponse acknowledges a queued job.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job lifecycle state to clients.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
