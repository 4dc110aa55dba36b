// internal/workers/interpretation/calculate-interpretation-price/handler.go
package calculateinterpretationprice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	apperrors "interpretation-workers/internal/common/errors"
	"interpretation-workers/internal/common/logger"
	"interpretation-workers/internal/common/metrics"
	"interpretation-workers/internal/common/observability"
	"interpretation-workers/internal/models"
	"interpretation-workers/internal/pricing"
	"interpretation-workers/internal/scheduling"
)

const (
	TaskType = "calculate-interpretation-price"
)

type Handler struct {
	config       *Config
	engine       *pricing.Engine
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, engine *pricing.Engine, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		obs:          obs,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx, span := h.obs.StartJobSpan(ctx, TaskType, job.Key)

	log := h.logger.WithFields(map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
		"requestId":   uuid.NewString(),
		"traceId":     observability.TraceID(ctx),
	})
	log.Info("processing job", nil)

	output, err := h.process(ctx, job.Variables, log)
	observability.EndSpan(span, err)
	if err != nil {
		code := h.errorHandler.HandleJobError(context.Background(), client, job, err)
		timer.Failed(string(code))
		h.obs.RecordJob(context.Background(), TaskType, "failed", timer.Elapsed())
		return
	}

	h.completeJob(client, job, output, log)
	timer.Completed()
	h.obs.RecordJob(context.Background(), TaskType, "completed", timer.Elapsed())
}

// process parses and validates the job variables, then prices them. Every
// returned error is a StandardError.
func (h *Handler) process(ctx context.Context, variables string, log logger.Logger) (*Output, error) {
	if h.config.InputSchema != nil {
		result, err := h.config.InputSchema.ValidateJSON(variables)
		if err != nil {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		}
		if !result.Valid {
			return nil, apperrors.NewInvalidInputError(result.Summary())
		}
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		return nil, toStandardError(err)
	}

	log.Info("quote priced", map[string]interface{}{
		"mode":        input.InterpretationSetting,
		"billedHours": output.BilledHours,
		"rateSource":  output.RateSource,
		"sameDayRush": output.SameDayRush,
		"total":       output.Total,
	})
	return output, nil
}

// Execute prices one request and returns the job output.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	req := models.PricingRequest{
		Pair: models.LanguagePair{
			SourceLanguageID: input.SourceLanguageID,
			TargetLanguageID: input.TargetLanguageID,
		},
		Mode:     models.ServiceMode(input.InterpretationSetting),
		State:    deref(input.State),
		TimeZone: deref(input.TimeZone),
		Windows:  input.DateTimeEntries,
	}

	result, err := h.engine.Price(ctx, req)
	if err != nil {
		return nil, err
	}

	metrics.PricingQuotes.WithLabelValues(input.InterpretationSetting, result.RateSource).Inc()
	if result.SameDayRush {
		metrics.PricingRushApplied.Inc()
	}
	return toOutput(result), nil
}

func toOutput(r *models.PricingResult) *Output {
	return &Output{
		TimeZone:       r.TimeZone,
		RequestedHours: r.RequestedHours,
		MinimumHours:   r.MinimumHours,
		BilledHours:    r.BilledHours,
		HourlyRate:     r.HourlyRate.InexactFloat64(),
		HoursSubtotal:  r.HoursSubtotal.InexactFloat64(),
		TravelFee:      r.TravelFee.InexactFloat64(),
		RushFee:        r.RushFee.InexactFloat64(),
		MinimumApplied: r.MinimumApplied,
		SameDayRush:    r.SameDayRush,
		Total:          r.Total.InexactFloat64(),
		RateSource:     r.RateSource,
		RuleID:         r.RuleID,
		Breakdown:      r.Breakdown,
	}
}

// toStandardError maps pricing failures onto process error codes.
func toStandardError(err error) *apperrors.StandardError {
	var (
		schedErr *scheduling.SchedulingError
		valErr   *pricing.ValidationError
		rateErr  *pricing.RateResolutionError
	)

	// Rate lookups wrap context errors in RateResolutionError, so the
	// deadline is checked first.
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("pricing", err)
	case errors.As(err, &schedErr):
		var stdErr *apperrors.StandardError
		if schedErr.Code == scheduling.CodePastDate {
			stdErr = apperrors.NewPastDateError(schedErr.Error(), err)
		} else {
			stdErr = apperrors.NewTooSoonError(schedErr.Error(), err)
		}
		stdErr.Metadata = map[string]interface{}{
			"timeZone":  schedErr.TimeZone,
			"date":      schedErr.Date,
			"startTime": schedErr.StartTime,
		}
		return stdErr
	case errors.As(err, &valErr):
		return apperrors.NewInvalidInputError(valErr.Error())
	case errors.As(err, &rateErr):
		return apperrors.NewRateResolutionFailedError(err)
	}
	return apperrors.Normalize(err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}
