package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/karma.space/internal/platform/errors"
	"github.com/louisbranch/karma.space/internal/services/karma/domain/morality"
	"github.com/louisbranch/karma.space/internal/services/karma/storage"
)

const tracerName = "github.com/louisbranch/karma.space/internal/services/karma/app"

// Service records actions and answers morality queries for players.
type Service struct {
	store  storage.Store
	engine *morality.Engine
	locks  *playerLocks
	now    func() time.Time
	tracer trace.Tracer
	logger *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for inputs without a timestamp
// and for default states.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger routes operational logs to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracerProvider uses tp instead of the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewService builds a service over store and engine.
func NewService(store storage.Store, engine *morality.Engine, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	s := &Service{
		store:  store,
		engine: engine,
		locks:  newPlayerLocks(),
		now:    time.Now,
		tracer: otel.Tracer(tracerName),
		logger: log.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Close releases the underlying store.
func (s *Service) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}

// Store exposes the backend for maintenance tasks.
func (s *Service) Store() storage.Store { return s.store }

// Engine exposes the engine for maintenance tasks.
func (s *Service) Engine() *morality.Engine { return s.engine }

// RecordAction applies in to playerID and persists the new state together
// with the journaled input. A zero timestamp is replaced by the current time.
func (s *Service) RecordAction(ctx context.Context, playerID string, in morality.Input) (evt morality.KarmaEvent, err error) {
	ctx, span := s.tracer.Start(ctx, "karma.RecordAction", trace.WithAttributes(
		attribute.String("karma.player_id", playerID),
		attribute.String("karma.action", string(in.Action)),
	))
	defer func() { endSpan(span, err) }()

	playerID, err = normalizePlayerID(playerID)
	if err != nil {
		return morality.KarmaEvent{}, err
	}
	if !in.Action.Valid() {
		return morality.KarmaEvent{}, apperrors.Wrap(apperrors.CodeUnknownAction,
			fmt.Sprintf("record action for %s", playerID),
			fmt.Errorf("%w: %q", morality.ErrUnknownAction, in.Action))
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = s.now()
	}
	in.Timestamp = in.Timestamp.UTC()

	unlock := s.locks.lock(playerID)
	defer unlock()

	m, err := s.store.GetMorality(ctx, playerID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		m = morality.NewPlayerMorality(playerID, in.Timestamp)
	case err != nil:
		return morality.KarmaEvent{}, fmt.Errorf("load morality: %w", err)
	}

	previous := m.Alignment
	evt = s.engine.Record(&m, in)
	rec := storage.ActionRecord{PlayerID: playerID, Seq: evt.Seq, Input: in}
	if err := s.store.CommitAction(ctx, m, rec); err != nil {
		return morality.KarmaEvent{}, fmt.Errorf("commit action: %w", err)
	}

	span.SetAttributes(
		attribute.Int("karma.magnitude", evt.Magnitude),
		attribute.Int("karma.seq", evt.Seq),
		attribute.String("karma.alignment", string(m.Alignment)),
	)
	if m.Alignment != previous {
		s.logger.Printf("player %s alignment %s -> %s at event %d (trace %s)",
			playerID, previous, m.Alignment, evt.Seq, traceID(span))
	}
	return evt, nil
}

// Morality returns the current state of playerID.
func (s *Service) Morality(ctx context.Context, playerID string) (m morality.PlayerMorality, err error) {
	ctx, span := s.tracer.Start(ctx, "karma.Morality", trace.WithAttributes(
		attribute.String("karma.player_id", playerID),
	))
	defer func() { endSpan(span, err) }()
	return s.load(ctx, playerID)
}

// MoralitySummary returns the summary report of playerID.
func (s *Service) MoralitySummary(ctx context.Context, playerID string) (summary morality.MoralitySummary, err error) {
	ctx, span := s.tracer.Start(ctx, "karma.MoralitySummary", trace.WithAttributes(
		attribute.String("karma.player_id", playerID),
	))
	defer func() { endSpan(span, err) }()

	m, err := s.load(ctx, playerID)
	if err != nil {
		return morality.MoralitySummary{}, err
	}
	return morality.Summarize(m), nil
}

// ReputationLevel classifies a reputation score.
func (s *Service) ReputationLevel(score int) morality.ReputationLevel {
	return morality.ReputationLevelFor(score)
}

// CanStartQuest reports whether playerID meets req. questID only labels the
// check in traces.
func (s *Service) CanStartQuest(ctx context.Context, playerID, questID string, req morality.QuestRequirements) (ok bool, err error) {
	ctx, span := s.tracer.Start(ctx, "karma.CanStartQuest", trace.WithAttributes(
		attribute.String("karma.player_id", playerID),
		attribute.String("karma.quest_id", questID),
	))
	defer func() {
		span.SetAttributes(attribute.Bool("karma.quest_allowed", ok))
		endSpan(span, err)
	}()

	m, err := s.load(ctx, playerID)
	if err != nil {
		return false, err
	}
	return morality.CanStartQuest(m, req), nil
}

// AvailableChoices filters and extends base for playerID.
func (s *Service) AvailableChoices(ctx context.Context, playerID string, base []morality.Choice) (choices []morality.Choice, err error) {
	ctx, span := s.tracer.Start(ctx, "karma.AvailableChoices", trace.WithAttributes(
		attribute.String("karma.player_id", playerID),
		attribute.Int("karma.base_choices", len(base)),
	))
	defer func() { endSpan(span, err) }()

	m, err := s.load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return morality.AvailableChoices(m, base), nil
}

// NPCReactionModifier scores how an NPC is disposed toward playerID.
func (s *Service) NPCReactionModifier(ctx context.Context, playerID, npcType, npcAlignment string) (modifier float64, err error) {
	ctx, span := s.tracer.Start(ctx, "karma.NPCReactionModifier", trace.WithAttributes(
		attribute.String("karma.player_id", playerID),
		attribute.String("karma.npc_type", npcType),
	))
	defer func() { endSpan(span, err) }()

	m, err := s.load(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return morality.NPCReactionModifier(m, npcType, npcAlignment), nil
}

// load reads playerID, falling back to an unsaved default state.
func (s *Service) load(ctx context.Context, playerID string) (morality.PlayerMorality, error) {
	playerID, err := normalizePlayerID(playerID)
	if err != nil {
		return morality.PlayerMorality{}, err
	}
	m, err := s.store.GetMorality(ctx, playerID)
	if errors.Is(err, storage.ErrNotFound) {
		return morality.NewPlayerMorality(playerID, s.now()), nil
	}
	if err != nil {
		return morality.PlayerMorality{}, fmt.Errorf("load morality: %w", err)
	}
	return m, nil
}

func normalizePlayerID(playerID string) (string, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return "", apperrors.New(apperrors.CodePlayerIDRequired, "player id is required")
	}
	return playerID, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func traceID(span trace.Span) string {
	if sc := span.SpanContext(); sc.IsValid() {
		return sc.TraceID().String()
	}
	return "none"
}
