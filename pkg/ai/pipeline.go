package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/closermetrix/engine/pkg/config"
	"github.com/closermetrix/engine/pkg/models"
	"github.com/closermetrix/engine/pkg/statemachine"
	"github.com/closermetrix/engine/pkg/warehouse"
)

// Pipeline runs the full AI scoring pipeline of §4.5 against a single
// Show call: assemble prompt, call the model, validate the response,
// persist scores/outcome via a state transition, write Objection rows,
// and record a Cost Entry. It satisfies transcript.AIPipeline without
// pkg/transcript importing pkg/ai.
type Pipeline struct {
	gw         warehouse.Gateway
	machine    *statemachine.Machine
	client     *Client
	tax        *config.Taxonomy
	thresholds *config.Thresholds
	pricing    *config.AIPricing
	logger     *slog.Logger
}

// NewPipeline builds a Pipeline.
func NewPipeline(gw warehouse.Gateway, machine *statemachine.Machine, client *Client, tax *config.Taxonomy, thresholds *config.Thresholds, pricing *config.AIPricing) *Pipeline {
	return &Pipeline{
		gw:         gw,
		machine:    machine,
		client:     client,
		tax:        tax,
		thresholds: thresholds,
		pricing:    pricing,
		logger:     slog.Default().With("component", "ai-pipeline"),
	}
}

// Process loads the call, builds and sends the prompt, validates the
// response, and persists the outcome. A validation failure marks the
// call's processing state error without touching attendance (§4.5); a
// model/provider failure does the same (§7 External degradation).
// transcriptText is the flattened transcript the transcript orchestrator
// evaluated to reach Show — the call itself stores only a transcript
// link, not the full text, so the caller supplies it directly.
func (p *Pipeline) Process(ctx context.Context, tenantID, callID, transcriptText string) error {
	call, err := p.gw.GetCall(ctx, tenantID, callID)
	if err != nil {
		return fmt.Errorf("ai: load call: %w", err)
	}

	tenant, err := p.gw.GetTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("ai: load tenant: %w", err)
	}

	closer, err := p.gw.GetCloser(ctx, tenantID, call.CloserID)
	closerName := ""
	if err == nil {
		closerName = closer.Name
	}

	system := BuildSystemPrompt(p.tax, tenant)
	user := BuildUserMessage(call, closerName, transcriptText)

	start := time.Now()
	completion, err := p.client.Complete(ctx, system, user)
	duration := time.Since(start)
	if err != nil {
		return p.fail(ctx, call, fmt.Sprintf("model call failed: %v", err))
	}

	if err := p.recordCost(ctx, call, completion, duration); err != nil {
		p.logger.Warn("failed to record cost entry", "call_id", call.ID, "error", err)
	}

	validated, err := ParseResponse(completion.Text, p.tax, p.thresholds)
	if err != nil {
		return p.fail(ctx, call, fmt.Sprintf("response validation failed: %v", err))
	}

	return p.apply(ctx, call, validated)
}

func (p *Pipeline) fail(ctx context.Context, call *models.Call, reason string) error {
	call.ProcessingState = models.ProcessingError
	call.UpdatedAt = time.Now()
	if err := p.gw.UpdateCall(ctx, call); err != nil {
		p.logger.Error("failed to persist error processing state", "call_id", call.ID, "error", err)
	}
	_ = p.gw.AppendAudit(ctx, &models.AuditEntry{
		ID:            uuid.NewString(),
		Timestamp:     time.Now(),
		TenantID:      call.TenantID,
		EntityType:    models.EntityCall,
		EntityID:      call.ID,
		Action:        models.ActionError,
		Field:         "processing_state",
		NewValue:      string(models.ProcessingError),
		TriggerSource: models.TriggerAIProcessing,
		Metadata:      map[string]string{"reason": reason},
	})
	return fmt.Errorf("ai: %s", reason)
}

// apply persists the validated AI output: a state transition to the
// outcome attendance, the scored/free-text fields, one Objection row per
// validated objection, and processing state = complete (§4.5
// Persistence).
func (p *Pipeline) apply(ctx context.Context, call *models.Call, v *ValidatedResponse) error {
	if err := p.machine.Transition(ctx, call, v.CallOutcome, statemachine.TriggerAIOutcome, models.TriggerAIProcessing); err != nil {
		return p.fail(ctx, call, fmt.Sprintf("state transition to %q rejected: %v", v.CallOutcome, err))
	}

	call.CallOutcome = string(v.CallOutcome)
	call.ScoreDiscovery = v.ScoreDiscovery
	call.ScorePitch = v.ScorePitch
	call.ScoreCloseAttempt = v.ScoreCloseAttempt
	call.ScoreObjectionHandling = v.ScoreObjectionHandling
	call.ScoreOverall = v.ScoreOverall
	call.ScoreScriptAdherence = v.ScoreScriptAdherence
	call.ScoreProspectFit = v.ScoreProspectFit
	call.ProspectTemperature = v.ProspectTemperature
	call.AIGoals = v.AIGoals
	call.AIPains = v.AIPains
	call.AISituation = v.AISituation
	call.AISummary = v.AISummary
	call.AIFeedback = v.AIFeedback
	call.ProcessingState = models.ProcessingComplete
	call.UpdatedAt = time.Now()

	if err := p.gw.UpdateCall(ctx, call); err != nil {
		return fmt.Errorf("ai: persist call: %w", err)
	}

	for _, o := range v.Objections {
		obj := &models.Objection{
			ID:             uuid.NewString(),
			TenantID:       call.TenantID,
			CloserID:       call.CloserID,
			CallID:         call.ID,
			Type:           o.Type,
			ProspectPhrase: o.ProspectPhrase,
			OffsetSeconds:  o.OffsetSeconds,
			Resolved:       o.Resolved,
			ResolverText:   o.ResolverText,
			ResolverOffset: o.ResolverOffsetSeconds,
			CreatedAt:      time.Now(),
		}
		if err := p.gw.CreateObjection(ctx, obj); err != nil {
			p.logger.Error("failed to persist objection", "call_id", call.ID, "error", err)
		}
	}
	return nil
}

// recordCost computes and appends a Cost Entry from the completion's
// usage metadata and the configured per-million rates (§4.5, §8 property
// 7: total_cost_usd = input_tokens*rate_in/1e6 + output_tokens*rate_out/1e6).
func (p *Pipeline) recordCost(ctx context.Context, call *models.Call, c *Completion, duration time.Duration) error {
	inputCost := p.pricing.InputCost(c.InputTokens)
	outputCost := p.pricing.OutputCost(c.OutputTokens)
	entry := &models.CostEntry{
		ID:                   uuid.NewString(),
		Timestamp:            time.Now(),
		TenantID:             call.TenantID,
		CallID:               call.ID,
		Model:                p.pricing.Model,
		InputTokens:          c.InputTokens,
		OutputTokens:         c.OutputTokens,
		InputCostUSD:         inputCost,
		OutputCostUSD:        outputCost,
		TotalCostUSD:         inputCost + outputCost,
		ProcessingDurationMS: duration.Milliseconds(),
	}
	return p.gw.AppendCost(ctx, entry)
}
