package stats

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"dokon/internal/commons"
	"dokon/internal/domain"
	apperrors "dokon/internal/errors"
)

type Controller struct {
	service Service
	logger  *zap.Logger
}

func NewController(service Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

// HandleList lists stored rows newest first. A malformed year is ignored.
func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	var year *int
	if raw := r.URL.Query().Get("year"); raw != "" {
		if y, err := strconv.Atoi(raw); err == nil {
			year = &y
		}
	}

	rows, err := c.service.List(r.Context(), year)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toDTOs(rows), c.logger)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()

	period, err := pathPeriod(r)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	m, err := c.service.Get(r.Context(), period)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toMonthlyStatsDTO(*m), c.logger)
}

func (c *Controller) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	period, err := pathPeriod(r)
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	m, err := c.service.Recompute(r.Context(), period)
	if err != nil {
		logger.Error("manual recompute failed", zap.String("period", period.String()), zap.Error(err))
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toMonthlyStatsDTO(*m), c.logger)
}

func (c *Controller) HandleRecomputeYear(w http.ResponseWriter, r *http.Request) {
	traceID := commons.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	year, err := commons.PathInt(r, "year")
	if err == nil {
		_, err = toPeriod(year, 1)
	}
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	rows, err := c.service.RecomputeYear(r.Context(), year)
	if err != nil {
		logger.Error("yearly recompute failed", zap.Int("year", year), zap.Error(err))
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toDTOs(rows), c.logger)
}

func pathPeriod(r *http.Request) (domain.Period, error) {
	year, err := commons.PathInt(r, "year")
	if err != nil {
		return domain.Period{}, err
	}
	month, err := commons.PathInt(r, "month")
	if err != nil {
		return domain.Period{}, err
	}
	return toPeriod(year, month)
}

func toPeriod(year, month int) (domain.Period, error) {
	p, err := domain.NewPeriod(year, month)
	if err != nil {
		return domain.Period{}, apperrors.NewValidationError("invalid period", apperrors.ValidationDetail{
			Field:   "period",
			Message: err.Error(),
		})
	}
	return p, nil
}

func toDTOs(rows []domain.MonthlyStats) []MonthlyStatsDTO {
	resp := make([]MonthlyStatsDTO, 0, len(rows))
	for _, m := range rows {
		resp = append(resp, toMonthlyStatsDTO(m))
	}
	return resp
}
