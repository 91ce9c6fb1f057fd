package stats

import (
	"context"

	"dokon/internal/domain"
)

type Service interface {
	Recompute(ctx context.Context, period domain.Period) (*domain.MonthlyStats, error)
	RecomputeYear(ctx context.Context, year int) ([]domain.MonthlyStats, error)
	Get(ctx context.Context, period domain.Period) (*domain.MonthlyStats, error)
	List(ctx context.Context, year *int) ([]domain.MonthlyStats, error)
}
