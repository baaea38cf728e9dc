// internal/workers/plots/query-plots/handler.go
package queryplots

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "plot-query-service/internal/common/errors"
	"plot-query-service/internal/common/logger"
	"plot-query-service/internal/common/metrics"
	"plot-query-service/internal/common/validation"
	"plot-query-service/internal/models"
	"plot-query-service/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "query-plots"
)

// Querier runs a plot query; *service.PlotService implements it.
type Querier interface {
	Query(ctx context.Context, transport string, raw map[string]string) (*models.PlotList, error)
}

type Handler struct {
	config       *Config
	querier      Querier
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, querier Querier, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		querier:      querier,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := DecodeInput(job.Variables)
	if err != nil {
		h.fail(ctx, client, job, apperrors.NewInvalidFilterFormatError(err))
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		input = &Input{}
	}

	list, err := h.querier.Query(ctx, service.TransportWorker, ToRawParams(input.QueryParams))
	if err != nil {
		return nil, err
	}

	return &Output{
		Plots: list.Plots,
		Count: len(list.Plots),
	}, nil
}

// DecodeInput reads job variables, keeping numbers in their JSON text form,
// and checks them against InputSchema.
func DecodeInput(variables string) (*Input, error) {
	var input Input
	if strings.TrimSpace(variables) == "" {
		return &input, nil
	}

	var doc interface{}
	dec := json.NewDecoder(strings.NewReader(variables))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	result, err := validation.ValidateDocument(doc, InputSchema)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid input: %s", strings.Join(result.GetErrorMessages(), "; "))
	}

	vars, _ := doc.(map[string]interface{})
	if params, ok := vars["queryParams"].(map[string]interface{}); ok {
		input.QueryParams = params
	}
	return &input, nil
}

// ToRawParams turns variable values into query parameters. Strings are kept
// as-is and numbers are written without an exponent; any other value is
// dropped, so it is treated as absent.
func ToRawParams(params map[string]interface{}) map[string]string {
	raw := make(map[string]string, len(params))
	for key, value := range params {
		switch v := value.(type) {
		case string:
			raw[key] = v
		case json.Number:
			if f, err := v.Float64(); err == nil {
				raw[key] = strconv.FormatFloat(f, 'f', -1, 64)
			} else {
				raw[key] = v.String()
			}
		case float64:
			raw[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			raw[key] = strconv.Itoa(v)
		case int64:
			raw[key] = strconv.FormatInt(v, 10)
		}
	}
	return raw
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
		"count":  output.Count,
	})
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := apperrors.AsStandardError(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()

	// the job context may already be spent; reporting gets its own budget
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
