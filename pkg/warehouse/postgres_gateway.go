package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/closermetrix/engine/pkg/apperrors"
	"github.com/closermetrix/engine/pkg/models"
)

// PostgresGateway implements Gateway and AdminGateway over a *Client. It
// is the only place in the engine that writes SQL.
type PostgresGateway struct {
	db *sqlx.DB
}

// NewPostgresGateway wraps a connected Client.
func NewPostgresGateway(c *Client) *PostgresGateway {
	return &PostgresGateway{db: c.DB}
}

func wrapNotFound(op string, params map[string]any, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, op)
	}
	return NewOpError(op, params, err)
}

// --- Tenant ---------------------------------------------------------------

func (g *PostgresGateway) GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error) {
	var row tenantRow
	err := g.db.GetContext(ctx, &row, `SELECT * FROM tenants WHERE id = $1`, tenantID)
	if err != nil {
		return nil, wrapNotFound("get_tenant", map[string]any{"tenant_id": tenantID}, err)
	}
	return row.toModel(), nil
}

func (g *PostgresGateway) ListActiveTenants(ctx context.Context) ([]*models.Tenant, error) {
	var rows []tenantRow
	err := g.db.SelectContext(ctx, &rows, `SELECT * FROM tenants WHERE active = TRUE ORDER BY id`)
	if err != nil {
		return nil, NewOpError("list_active_tenants", nil, err)
	}
	out := make([]*models.Tenant, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (g *PostgresGateway) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	r := tenantRowFromModel(tenant)
	_, err := g.db.NamedExecContext(ctx, `
		INSERT INTO tenants (id, name, plan_tier, timezone, active, filter_phrases,
			prompt_fragments, default_transcript_provider, webhook_secret, created_at, updated_at)
		VALUES (:id, :name, :plan_tier, :timezone, :active, :filter_phrases,
			:prompt_fragments, :default_transcript_provider, :webhook_secret, :created_at, :updated_at)
	`, r)
	if err != nil {
		return NewOpError("create_tenant", map[string]any{"tenant_id": tenant.ID}, err)
	}
	return nil
}

func (g *PostgresGateway) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	r := tenantRowFromModel(tenant)
	_, err := g.db.NamedExecContext(ctx, `
		UPDATE tenants SET name = :name, plan_tier = :plan_tier, timezone = :timezone,
			active = :active, filter_phrases = :filter_phrases, prompt_fragments = :prompt_fragments,
			default_transcript_provider = :default_transcript_provider, webhook_secret = :webhook_secret,
			updated_at = :updated_at
		WHERE id = :id
	`, r)
	if err != nil {
		return NewOpError("update_tenant", map[string]any{"tenant_id": tenant.ID}, err)
	}
	return nil
}

// --- Closer -----------------------------------------------------------------

func (g *PostgresGateway) GetCloser(ctx context.Context, tenantID, closerID string) (*models.Closer, error) {
	var c models.Closer
	err := g.db.GetContext(ctx, &c, `SELECT * FROM closers WHERE tenant_id = $1 AND id = $2`, tenantID, closerID)
	if err != nil {
		return nil, wrapNotFound("get_closer", map[string]any{"tenant_id": tenantID, "closer_id": closerID}, err)
	}
	return &c, nil
}

func (g *PostgresGateway) GetCloserByWorkEmail(ctx context.Context, tenantID, workEmail string) (*models.Closer, error) {
	var c models.Closer
	err := g.db.GetContext(ctx, &c, `
		SELECT * FROM closers WHERE tenant_id = $1 AND lower(work_email) = lower($2) AND status = 'active'
	`, tenantID, workEmail)
	if err != nil {
		return nil, wrapNotFound("get_closer_by_work_email", map[string]any{"tenant_id": tenantID, "work_email": workEmail}, err)
	}
	return &c, nil
}

func (g *PostgresGateway) GetCloserByWorkEmailAnyTenant(ctx context.Context, workEmail string) (*models.Closer, error) {
	var c models.Closer
	err := g.db.GetContext(ctx, &c, `
		SELECT * FROM closers WHERE lower(work_email) = lower($1) AND status = 'active' LIMIT 1
	`, workEmail)
	if err != nil {
		return nil, wrapNotFound("get_closer_by_work_email_any_tenant", map[string]any{"work_email": workEmail}, err)
	}
	return &c, nil
}

func (g *PostgresGateway) GetCloserByWebhookID(ctx context.Context, tenantID, webhookID string) (*models.Closer, error) {
	var c models.Closer
	err := g.db.GetContext(ctx, &c, `
		SELECT * FROM closers WHERE tenant_id = $1 AND provider_webhook_id = $2
	`, tenantID, webhookID)
	if err != nil {
		return nil, wrapNotFound("get_closer_by_webhook_id", map[string]any{"tenant_id": tenantID, "webhook_id": webhookID}, err)
	}
	return &c, nil
}

func (g *PostgresGateway) ListActiveClosers(ctx context.Context, tenantID string) ([]*models.Closer, error) {
	var rows []models.Closer
	err := g.db.SelectContext(ctx, &rows, `
		SELECT * FROM closers WHERE tenant_id = $1 AND status = 'active' ORDER BY name
	`, tenantID)
	if err != nil {
		return nil, NewOpError("list_active_closers", map[string]any{"tenant_id": tenantID}, err)
	}
	out := make([]*models.Closer, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}

func (g *PostgresGateway) CreateCloser(ctx context.Context, closer *models.Closer) error {
	_, err := g.db.NamedExecContext(ctx, `
		INSERT INTO closers (id, tenant_id, name, work_email, status, transcript_provider,
			transcript_provider_credential, provider_webhook_id, provider_webhook_secret, created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :work_email, :status, :transcript_provider,
			:transcript_provider_credential, :provider_webhook_id, :provider_webhook_secret, :created_at, :updated_at)
	`, closer)
	if err != nil {
		return NewOpError("create_closer", map[string]any{"closer_id": closer.ID, "tenant_id": closer.TenantID}, err)
	}
	return nil
}

func (g *PostgresGateway) UpdateCloser(ctx context.Context, closer *models.Closer) error {
	_, err := g.db.NamedExecContext(ctx, `
		UPDATE closers SET name = :name, work_email = :work_email, status = :status,
			transcript_provider = :transcript_provider,
			transcript_provider_credential = :transcript_provider_credential,
			provider_webhook_id = :provider_webhook_id, provider_webhook_secret = :provider_webhook_secret,
			updated_at = :updated_at
		WHERE id = :id
	`, closer)
	if err != nil {
		return NewOpError("update_closer", map[string]any{"closer_id": closer.ID}, err)
	}
	return nil
}

// --- Call ---------------------------------------------------------------

var callColumns = `id, tenant_id, closer_id, external_event_id, prospect_email, prospect_name,
	scheduled_start, scheduled_end, timezone, attendance, call_outcome, call_type,
	transcript_provider, recording_link, transcript_link, call_link, duration_minutes,
	score_discovery, score_pitch, score_close_attempt, score_objection_handling, score_overall,
	score_script_adherence, score_prospect_fit, prospect_temperature, ai_goals, ai_pains,
	ai_situation, ai_summary, ai_feedback, revenue_generated, cash_collected, date_closed,
	payment_plan, lost_reason, processing_state, ingestion_source, created_at, updated_at`

func (g *PostgresGateway) CreateCall(ctx context.Context, call *models.Call) error {
	_, err := g.db.NamedExecContext(ctx, `
		INSERT INTO calls (`+callColumns+`)
		VALUES (:id, :tenant_id, :closer_id, :external_event_id, :prospect_email, :prospect_name,
			:scheduled_start, :scheduled_end, :timezone, :attendance, :call_outcome, :call_type,
			:transcript_provider, :recording_link, :transcript_link, :call_link, :duration_minutes,
			:score_discovery, :score_pitch, :score_close_attempt, :score_objection_handling, :score_overall,
			:score_script_adherence, :score_prospect_fit, :prospect_temperature, :ai_goals, :ai_pains,
			:ai_situation, :ai_summary, :ai_feedback, :revenue_generated, :cash_collected, :date_closed,
			:payment_plan, :lost_reason, :processing_state, :ingestion_source, :created_at, :updated_at)
	`, call)
	if err != nil {
		return NewOpError("create_call", map[string]any{"call_id": call.ID, "tenant_id": call.TenantID}, err)
	}
	return nil
}

func (g *PostgresGateway) UpdateCall(ctx context.Context, call *models.Call) error {
	_, err := g.db.NamedExecContext(ctx, `
		UPDATE calls SET
			closer_id = :closer_id, external_event_id = :external_event_id,
			prospect_email = :prospect_email, prospect_name = :prospect_name,
			scheduled_start = :scheduled_start, scheduled_end = :scheduled_end, timezone = :timezone,
			attendance = :attendance, call_outcome = :call_outcome, call_type = :call_type,
			transcript_provider = :transcript_provider, recording_link = :recording_link,
			transcript_link = :transcript_link, call_link = :call_link, duration_minutes = :duration_minutes,
			score_discovery = :score_discovery, score_pitch = :score_pitch,
			score_close_attempt = :score_close_attempt, score_objection_handling = :score_objection_handling,
			score_overall = :score_overall, score_script_adherence = :score_script_adherence,
			score_prospect_fit = :score_prospect_fit, prospect_temperature = :prospect_temperature,
			ai_goals = :ai_goals, ai_pains = :ai_pains, ai_situation = :ai_situation,
			ai_summary = :ai_summary, ai_feedback = :ai_feedback, revenue_generated = :revenue_generated,
			cash_collected = :cash_collected, date_closed = :date_closed, payment_plan = :payment_plan,
			lost_reason = :lost_reason, processing_state = :processing_state,
			ingestion_source = :ingestion_source, updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id
	`, call)
	if err != nil {
		return NewOpError("update_call", map[string]any{"call_id": call.ID, "tenant_id": call.TenantID}, err)
	}
	return nil
}

func (g *PostgresGateway) GetCall(ctx context.Context, tenantID, callID string) (*models.Call, error) {
	var c models.Call
	err := g.db.GetContext(ctx, &c, `SELECT * FROM calls WHERE tenant_id = $1 AND id = $2`, tenantID, callID)
	if err != nil {
		return nil, wrapNotFound("get_call", map[string]any{"tenant_id": tenantID, "call_id": callID}, err)
	}
	return &c, nil
}

func (g *PostgresGateway) GetCallByExternalEventID(ctx context.Context, tenantID, externalEventID string) (*models.Call, error) {
	var c models.Call
	err := g.db.GetContext(ctx, &c, `
		SELECT * FROM calls WHERE tenant_id = $1 AND external_event_id = $2
		ORDER BY created_at DESC LIMIT 1
	`, tenantID, externalEventID)
	if err != nil {
		return nil, wrapNotFound("get_call_by_external_event_id", map[string]any{"tenant_id": tenantID, "external_event_id": externalEventID}, err)
	}
	return &c, nil
}

// ListOverlappingPreOutcomeCalls finds calls for the same closer whose
// [scheduled_start, scheduled_end) window overlaps [start, end) and which
// are still pre-outcome (unset, scheduled, or waiting), used for
// double-booking detection (§4.3, §8). excludeCallID lets a reschedule of
// a call exclude itself from its own overlap check.
func (g *PostgresGateway) ListOverlappingPreOutcomeCalls(ctx context.Context, tenantID, closerID string, start, end time.Time, excludeCallID string) ([]*models.Call, error) {
	var rows []models.Call
	err := g.db.SelectContext(ctx, &rows, `
		SELECT * FROM calls
		WHERE tenant_id = $1 AND closer_id = $2 AND id != $3
			AND attendance IN ('', 'Scheduled', 'Waiting for Outcome')
			AND scheduled_start < $5 AND $4 < scheduled_end
	`, tenantID, closerID, excludeCallID, start, end)
	if err != nil {
		return nil, NewOpError("list_overlapping_pre_outcome_calls", map[string]any{"tenant_id": tenantID, "closer_id": closerID}, err)
	}
	out := make([]*models.Call, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}

func (g *PostgresGateway) ListCallsByProspectEmail(ctx context.Context, tenantID, prospectEmail string) ([]*models.Call, error) {
	var rows []models.Call
	err := g.db.SelectContext(ctx, &rows, `
		SELECT * FROM calls WHERE tenant_id = $1 AND lower(prospect_email) = lower($2)
		ORDER BY scheduled_start ASC
	`, tenantID, prospectEmail)
	if err != nil {
		return nil, NewOpError("list_calls_by_prospect_email", map[string]any{"tenant_id": tenantID, "prospect_email": prospectEmail}, err)
	}
	out := make([]*models.Call, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}

// FindPreOutcomeCallByCloserAndProspect is tier (a) of the transcript
// orchestrator's two-tier match (§4.4 step 4): the closer's work email,
// the prospect email, and a scheduled start within `window` of `near`.
// Only pre-outcome calls (unset, Scheduled, Waiting) are candidates.
func (g *PostgresGateway) FindPreOutcomeCallByCloserAndProspect(ctx context.Context, tenantID, closerWorkEmail, prospectEmail string, near time.Time, window time.Duration) (*models.Call, error) {
	var row models.Call
	err := g.db.GetContext(ctx, &row, `
		SELECT c.* FROM calls c
		JOIN closers cl ON cl.id = c.closer_id
		WHERE c.tenant_id = $1
			AND lower(cl.work_email) = lower($2)
			AND lower(c.prospect_email) = lower($3)
			AND c.attendance IN ('', 'Scheduled', 'Waiting for Outcome')
			AND c.scheduled_start BETWEEN $4 AND $5
		ORDER BY abs(extract(epoch FROM c.scheduled_start - $6)) ASC
		LIMIT 1
	`, tenantID, closerWorkEmail, prospectEmail, near.Add(-window), near.Add(window), near)
	if err != nil {
		return nil, wrapNotFound("find_pre_outcome_call_by_closer_and_prospect",
			map[string]any{"tenant_id": tenantID, "closer_work_email": closerWorkEmail, "prospect_email": prospectEmail}, err)
	}
	return &row, nil
}

// FindPreOutcomeCallByCloserAndTime is tier (b) of the transcript
// orchestrator's two-tier match: the closer's work email and a scheduled
// start within `window` of `near`, regardless of prospect identity.
func (g *PostgresGateway) FindPreOutcomeCallByCloserAndTime(ctx context.Context, tenantID, closerWorkEmail string, near time.Time, window time.Duration) (*models.Call, error) {
	var row models.Call
	err := g.db.GetContext(ctx, &row, `
		SELECT c.* FROM calls c
		JOIN closers cl ON cl.id = c.closer_id
		WHERE c.tenant_id = $1
			AND lower(cl.work_email) = lower($2)
			AND c.attendance IN ('', 'Scheduled', 'Waiting for Outcome')
			AND c.scheduled_start BETWEEN $3 AND $4
		ORDER BY abs(extract(epoch FROM c.scheduled_start - $5)) ASC
		LIMIT 1
	`, tenantID, closerWorkEmail, near.Add(-window), near.Add(window), near)
	if err != nil {
		return nil, wrapNotFound("find_pre_outcome_call_by_closer_and_time",
			map[string]any{"tenant_id": tenantID, "closer_work_email": closerWorkEmail}, err)
	}
	return &row, nil
}

// FindMostRecentConversationalCallByProspect locates the call a payment
// should attach to (§4.7 step 3): the newest call for the prospect whose
// attendance carries a call outcome, i.e. the conversation actually
// happened. Scheduled/Waiting/Ghosted/Canceled calls are never
// candidates.
func (g *PostgresGateway) FindMostRecentConversationalCallByProspect(ctx context.Context, tenantID, prospectEmail string) (*models.Call, error) {
	var row models.Call
	err := g.db.GetContext(ctx, &row, `
		SELECT * FROM calls
		WHERE tenant_id = $1 AND lower(prospect_email) = lower($2)
			AND attendance IN ('Show', 'Follow Up', 'Lost', 'Closed - Won', 'Deposit', 'Disqualified', 'Not Pitched')
		ORDER BY scheduled_start DESC
		LIMIT 1
	`, tenantID, prospectEmail)
	if err != nil {
		return nil, wrapNotFound("find_most_recent_conversational_call_by_prospect",
			map[string]any{"tenant_id": tenantID, "prospect_email": prospectEmail}, err)
	}
	return &row, nil
}

// ListPendingPastEnd returns pre-outcome calls whose scheduled end has
// already passed asOf, the first-phase scan of the timeout sweeper
// (§4.6): these transition to Waiting for Outcome.
func (g *PostgresGateway) ListPendingPastEnd(ctx context.Context, tenantID string, asOf time.Time) ([]*models.Call, error) {
	var rows []models.Call
	err := g.db.SelectContext(ctx, &rows, `
		SELECT * FROM calls
		WHERE tenant_id = $1 AND attendance IN ('', 'Scheduled') AND scheduled_end <= $2
	`, tenantID, asOf)
	if err != nil {
		return nil, NewOpError("list_pending_past_end", map[string]any{"tenant_id": tenantID}, err)
	}
	out := make([]*models.Call, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}

// ListWaitingOlderThan returns calls stuck in Waiting for Outcome past
// cutoff, the second-phase scan of the timeout sweeper (§4.6): these
// transition to Ghosted - No Show.
func (g *PostgresGateway) ListWaitingOlderThan(ctx context.Context, tenantID string, cutoff time.Time) ([]*models.Call, error) {
	var rows []models.Call
	err := g.db.SelectContext(ctx, &rows, `
		SELECT * FROM calls WHERE tenant_id = $1 AND attendance = 'Waiting for Outcome' AND scheduled_end <= $2
	`, tenantID, cutoff)
	if err != nil {
		return nil, NewOpError("list_waiting_older_than", map[string]any{"tenant_id": tenantID}, err)
	}
	out := make([]*models.Call, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}

// --- Objection ------------------------------------------------------------

func (g *PostgresGateway) CreateObjection(ctx context.Context, obj *models.Objection) error {
	_, err := g.db.NamedExecContext(ctx, `
		INSERT INTO objections (id, tenant_id, closer_id, call_id, objection_type, prospect_phrase,
			offset_seconds, resolved, resolver_text, resolver_offset_seconds, created_at)
		VALUES (:id, :tenant_id, :closer_id, :call_id, :objection_type, :prospect_phrase,
			:offset_seconds, :resolved, :resolver_text, :resolver_offset_seconds, :created_at)
	`, obj)
	if err != nil {
		return NewOpError("create_objection", map[string]any{"call_id": obj.CallID}, err)
	}
	return nil
}

func (g *PostgresGateway) ListObjectionsByCall(ctx context.Context, tenantID, callID string) ([]*models.Objection, error) {
	var rows []models.Objection
	err := g.db.SelectContext(ctx, &rows, `
		SELECT * FROM objections WHERE tenant_id = $1 AND call_id = $2 ORDER BY offset_seconds ASC
	`, tenantID, callID)
	if err != nil {
		return nil, NewOpError("list_objections_by_call", map[string]any{"tenant_id": tenantID, "call_id": callID}, err)
	}
	out := make([]*models.Objection, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}

// --- Prospect ---------------------------------------------------------------

// FindOrCreateProspect looks up a prospect by its normalized email within
// the tenant, creating one if absent. Email comparison and storage both
// go through models.NormalizeEmail (§8, §9).
func (g *PostgresGateway) FindOrCreateProspect(ctx context.Context, tenantID, email, name string) (*models.Prospect, error) {
	normalized := models.NormalizeEmail(email)
	var p models.Prospect
	err := g.db.GetContext(ctx, &p, `
		SELECT * FROM prospects WHERE tenant_id = $1 AND lower(email) = $2
	`, tenantID, normalized)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, NewOpError("find_or_create_prospect", map[string]any{"tenant_id": tenantID, "email": normalized}, err)
	}

	now := nowFunc()
	p = models.Prospect{
		ID:        newID(),
		TenantID:  tenantID,
		Email:     normalized,
		Name:      name,
		Status:    models.ProspectStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = g.db.NamedExecContext(ctx, `
		INSERT INTO prospects (id, tenant_id, email, name, call_count, show_count,
			total_cash_collected, total_revenue, payment_count, last_payment_at, status, created_at, updated_at)
		VALUES (:id, :tenant_id, :email, :name, :call_count, :show_count,
			:total_cash_collected, :total_revenue, :payment_count, :last_payment_at, :status, :created_at, :updated_at)
		ON CONFLICT (tenant_id, (lower(email))) DO NOTHING
	`, &p)
	if err != nil {
		return nil, NewOpError("find_or_create_prospect_insert", map[string]any{"tenant_id": tenantID, "email": normalized}, err)
	}

	var out models.Prospect
	if err := g.db.GetContext(ctx, &out, `
		SELECT * FROM prospects WHERE tenant_id = $1 AND lower(email) = $2
	`, tenantID, normalized); err != nil {
		return nil, NewOpError("find_or_create_prospect_reread", map[string]any{"tenant_id": tenantID, "email": normalized}, err)
	}
	return &out, nil
}

func (g *PostgresGateway) UpdateProspect(ctx context.Context, prospect *models.Prospect) error {
	_, err := g.db.NamedExecContext(ctx, `
		UPDATE prospects SET name = :name, call_count = :call_count, show_count = :show_count,
			total_cash_collected = :total_cash_collected, total_revenue = :total_revenue,
			payment_count = :payment_count, last_payment_at = :last_payment_at, status = :status,
			updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id
	`, prospect)
	if err != nil {
		return NewOpError("update_prospect", map[string]any{"tenant_id": prospect.TenantID, "prospect_id": prospect.ID}, err)
	}
	return nil
}

// --- Audit / Cost -----------------------------------------------------------

func (g *PostgresGateway) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	r := auditRowFromModel(entry)
	_, err := g.db.NamedExecContext(ctx, `
		INSERT INTO audit_log (id, "timestamp", tenant_id, entity_type, entity_id, action,
			field, old_value, new_value, trigger_source, metadata)
		VALUES (:id, :timestamp, :tenant_id, :entity_type, :entity_id, :action,
			:field, :old_value, :new_value, :trigger_source, :metadata)
	`, r)
	if err != nil {
		return NewOpError("append_audit", map[string]any{"tenant_id": entry.TenantID, "entity_id": entry.EntityID}, err)
	}
	return nil
}

func (g *PostgresGateway) AppendCost(ctx context.Context, entry *models.CostEntry) error {
	_, err := g.db.NamedExecContext(ctx, `
		INSERT INTO cost_tracking (id, "timestamp", tenant_id, call_id, model, input_tokens,
			output_tokens, input_cost_usd, output_cost_usd, total_cost_usd, processing_duration_ms)
		VALUES (:id, :timestamp, :tenant_id, :call_id, :model, :input_tokens,
			:output_tokens, :input_cost_usd, :output_cost_usd, :total_cost_usd, :processing_duration_ms)
	`, entry)
	if err != nil {
		return NewOpError("append_cost", map[string]any{"tenant_id": entry.TenantID, "call_id": entry.CallID}, err)
	}
	return nil
}

// --- AccessToken --------------------------------------------------------

func (g *PostgresGateway) GetAccessToken(ctx context.Context, tokenID string) (*models.AccessToken, error) {
	var row accessTokenRow
	err := g.db.GetContext(ctx, &row, `SELECT * FROM access_tokens WHERE id = $1`, tokenID)
	if err != nil {
		return nil, wrapNotFound("get_access_token", map[string]any{}, err)
	}
	return row.toModel(), nil
}

func (g *PostgresGateway) CreateAccessToken(ctx context.Context, token *models.AccessToken) error {
	row := &accessTokenRow{
		ID:        token.ID,
		Scope:     string(token.Scope),
		TenantIDs: jsonStringSlice(token.TenantIDs),
		CreatedAt: token.CreatedAt,
		RevokedAt: token.RevokedAt,
	}
	_, err := g.db.NamedExecContext(ctx, `
		INSERT INTO access_tokens (id, scope, tenant_ids, created_at, revoked_at)
		VALUES (:id, :scope, :tenant_ids, :created_at, :revoked_at)
	`, row)
	if err != nil {
		return NewOpError("create_access_token", map[string]any{}, err)
	}
	return nil
}

func (g *PostgresGateway) RevokeAccessToken(ctx context.Context, tokenID string) error {
	_, err := g.db.ExecContext(ctx, `UPDATE access_tokens SET revoked_at = now() WHERE id = $1`, tokenID)
	if err != nil {
		return NewOpError("revoke_access_token", map[string]any{}, err)
	}
	return nil
}

// Health delegates to the underlying Client's probe so callers holding
// only a Gateway/AdminGateway interface value can still check liveness.
func (g *PostgresGateway) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	err := g.db.PingContext(ctx)
	stats := g.db.Stats()
	return HealthStatus{
		Healthy:         err == nil,
		ResponseTime:    time.Since(start),
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
	}
}
