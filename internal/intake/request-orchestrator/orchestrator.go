// internal/intake/request-orchestrator/orchestrator.go
package requestorchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "eligibility-intake/internal/common/errors"
	"eligibility-intake/internal/common/logger"
	"eligibility-intake/internal/common/metrics"
	"eligibility-intake/internal/common/observability"
	resultrenderer "eligibility-intake/internal/intake/result-renderer"
	subjectvalidation "eligibility-intake/internal/intake/subject-validation"
	"eligibility-intake/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

const (
	MsgNoInstitution        = "select at least one institution"
	MsgPsychometricRequired = "psychometric score is required"
)

type Orchestrator struct {
	config   *Config
	computer Computer
	engine   *subjectvalidation.Engine
	renderer *resultrenderer.Renderer
	obs      *observability.Observability
	logger   logger.Logger
}

func NewOrchestrator(config *Config, computer Computer, renderer *resultrenderer.Renderer, obs *observability.Observability, log logger.Logger) *Orchestrator {
	if config == nil {
		config = LoadConfig()
	}
	if renderer == nil {
		renderer = resultrenderer.NewRenderer(nil)
	}
	return &Orchestrator{
		config:   config,
		computer: computer,
		engine:   subjectvalidation.NewEngine(log),
		renderer: renderer,
		obs:      obs,
		logger:   logger.Component(log, "request-orchestrator"),
	}
}

// Submit validates the session, calls the service when nothing is wrong and
// leaves the display in a definite end state on every path.
func (o *Orchestrator) Submit(ctx context.Context, src Source, display Display) Outcome {
	start := time.Now()
	ctx, end := o.obs.StartSpan(ctx, "intake.submit")

	outcome := o.submit(ctx, src, display)

	end(outcome.Status)
	metrics.SubmissionsTotal.WithLabelValues(outcome.Status).Inc()
	o.obs.RecordSubmission(ctx, time.Since(start), outcome.Status)
	o.logger.Info("submission finished", map[string]interface{}{
		"status":   outcome.Status,
		"errors":   len(outcome.Errors),
		"cards":    len(outcome.Cards),
		"duration": time.Since(start).String(),
	})
	return outcome
}

func (o *Orchestrator) submit(ctx context.Context, src Source, display Display) Outcome {
	display.Clear()

	var errs []string

	institutions := src.Institutions()
	if len(institutions) == 0 {
		errs = append(errs, MsgNoInstitution)
	}

	psychometric, msg := o.readPsychometric(src.Psychometric())
	if msg != "" {
		errs = append(errs, msg)
	}

	mandatory := o.engine.Read(subjectvalidation.SectionMandatory, src.MandatoryRows(), true)
	electives := o.engine.Read(subjectvalidation.SectionElective, src.ElectiveRows(), false)
	errs = append(errs, mandatory.Errors...)
	errs = append(errs, electives.Errors...)

	if len(errs) > 0 {
		display.ShowErrors(errs)
		o.logger.Warn("submission blocked by validation", map[string]interface{}{
			"error": apperrors.NewInputValidationError(errs),
		})
		return Outcome{Status: StatusBlocked, Errors: errs, Cards: []resultrenderer.Card{}}
	}

	programIDs := src.SelectedProgramIDs()
	if programIDs == nil {
		programIDs = []string{}
	}
	subjects := make([]models.SubjectEntry, 0, len(mandatory.Entries)+len(electives.Entries))
	subjects = append(subjects, mandatory.Entries...)
	subjects = append(subjects, electives.Entries...)

	req := &models.EligibilityRequest{
		Institutions:      institutions,
		PsychometricTotal: psychometric,
		Subjects:          subjects,
		ProgramIDs:        programIDs,
	}

	computeCtx, endCompute := o.obs.StartSpan(ctx, "intake.compute", computeAttrs(*req)...)
	body, err := o.computer.Compute(computeCtx, *req)
	if err != nil {
		status, message := describe(err)
		endCompute(status)
		display.ShowErrors([]string{message})
		o.logger.Error("compute request failed", map[string]interface{}{
			"status": status,
			"error":  err,
		})
		return Outcome{Status: status, Errors: []string{message}, Cards: []resultrenderer.Card{}, Request: req}
	}

	endCompute(StatusOK)
	cards := o.renderer.Render(resultrenderer.DecodeResults(body))
	display.ShowResults(cards)
	return Outcome{Status: StatusOK, Errors: []string{}, Cards: cards, Request: req}
}

func (o *Orchestrator) readPsychometric(raw string) (int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, MsgPsychometricRequired
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < o.config.PsychometricMin || v > o.config.PsychometricMax {
		return 0, fmt.Sprintf("psychometric score must be an integer between %d and %d", o.config.PsychometricMin, o.config.PsychometricMax)
	}
	return v, ""
}

// describe maps a compute failure to an outcome status and the single
// message shown to the user.
func describe(err error) (string, string) {
	var stdErr *apperrors.StandardError
	if !errors.As(err, &stdErr) {
		return StatusNetworkError, err.Error()
	}
	switch stdErr.Code {
	case apperrors.ErrCodeServerError:
		return StatusServerError, fmt.Sprintf("server error (%d): %s", stdErr.Status, stdErr.Details)
	case apperrors.ErrCodeNetworkError:
		if stdErr.Details != "" {
			return StatusNetworkError, stdErr.Details
		}
		return StatusNetworkError, stdErr.Message
	default:
		return StatusNetworkError, stdErr.Error()
	}
}

func computeAttrs(req models.EligibilityRequest) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("institutions", len(req.Institutions)),
		attribute.Int("subjects", len(req.Subjects)),
		attribute.Int("programs", len(req.ProgramIDs)),
	}
}
