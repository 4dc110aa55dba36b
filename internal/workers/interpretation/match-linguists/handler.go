// internal/workers/interpretation/match-linguists/handler.go
package matchlinguists

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
	"interpretation-workers/internal/matching"
	"interpretation-workers/internal/models"
)

const (
	TaskType = "match-linguists"
)

type Handler struct {
	config       *Config
	matcher      *matching.Matcher
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, matcher *matching.Matcher, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		matcher:      matcher,
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
		return nil, h.toStandardError(err)
	}

	log.Info("linguists matched", map[string]interface{}{
		"mode":         input.InterpretationSetting,
		"totalMatches": output.TotalMatches,
	})
	return output, nil
}

// Execute runs the matcher for one job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	criteria := models.MatchCriteria{
		Mode:             models.ServiceMode(input.InterpretationSetting),
		SourceLanguageID: deref(input.SourceLanguageID),
		TargetLanguageID: deref(input.TargetLanguageID),
		State:            deref(input.State),
		City:             deref(input.City),
		Latitude:         input.Latitude,
		Longitude:        input.Longitude,
		MaxDistance:      h.config.DefaultMaxDistance,
	}
	if input.MaxDistance != nil {
		criteria.MaxDistance = *input.MaxDistance
	}

	matches, err := h.matcher.Match(ctx, criteria)
	if err != nil {
		return nil, err
	}

	metrics.MatchingCandidatesReturned.WithLabelValues(input.InterpretationSetting).Observe(float64(len(matches)))

	out := &Output{
		Linguists:    make([]LinguistMatch, 0, len(matches)),
		TotalMatches: len(matches),
	}
	for _, m := range matches {
		out.Linguists = append(out.Linguists, LinguistMatch{
			ID:                   m.ID,
			FirstName:            m.FirstName,
			LastName:             m.LastName,
			Email:                m.Email,
			Phone:                m.Phone,
			City:                 m.City,
			State:                m.State,
			HourlyRate:           m.HourlyRate.InexactFloat64(),
			AverageRating:        m.AverageRating,
			TotalQuotesCompleted: m.TotalQuotesCompleted,
			Distance:             m.Distance,
			Languages:            m.Languages,
		})
	}
	return out, nil
}

func (h *Handler) toStandardError(err error) *apperrors.StandardError {
	var (
		valErr   *matching.ValidationError
		queryErr *matching.QueryError
	)

	// Repositories wrap context errors in QueryError, so the deadline is
	// checked first.
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("matching", err)
	case errors.As(err, &valErr):
		return apperrors.NewInvalidInputError(valErr.Error())
	case errors.As(err, &queryErr):
		if h.config.SearchIndex != "" {
			return apperrors.NewSearchQueryFailedError(h.config.SearchIndex, err)
		}
		return apperrors.NewLinguistQueryFailedError(err)
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
