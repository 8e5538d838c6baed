package usecase

import (
	"context"

	"github.com/hubfolio/hubfolio/internal/domain"
)

type ReportUsecase struct {
	repo ReportRepository
}

func NewReportUsecase(repo ReportRepository) *ReportUsecase {
	return &ReportUsecase{repo: repo}
}

// OwnerReport returns per-owner counts for the back office. Callers gate on
// the admin flag before reaching this.
func (uc *ReportUsecase) OwnerReport(ctx context.Context) ([]domain.OwnerReport, error) {
	return uc.repo.OwnerReport(ctx)
}
