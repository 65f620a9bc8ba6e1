package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"vaulta-banking-be/internal/dto"
	"vaulta-banking-be/internal/pkg/logger"
	"vaulta-banking-be/internal/pkg/metrics"
	"vaulta-banking-be/pkg/ai/router"
	"vaulta-banking-be/pkg/auth"
	"vaulta-banking-be/pkg/credentials"
	"vaulta-banking-be/pkg/events"
	"vaulta-banking-be/pkg/flow"
	"vaulta-banking-be/pkg/intent"
	"vaulta-banking-be/pkg/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	moduleAssistant = "ASSISTANT"

	msgVerified           = "Thank you, you're verified."
	msgSessionUnavailable = "I'm having trouble right now. Please try again in a moment."

	publishTimeout = 2 * time.Second
)

// ErrMalformedTurn is the only error HandleTurn returns for bad input: the
// turn carried no session ID.
var ErrMalformedTurn = errors.New("malformed turn: no session id")

// EventPublisher receives escalation and fraud events. Publishing is best
// effort and never fails a turn.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IAssistantService interface {
	HandleTurn(ctx context.Context, req *dto.TurnRequest) (*dto.TurnResponse, error)
}

type assistantService struct {
	sessions  store.SessionStore
	locks     *store.KeyedMutex
	router    *router.Router
	gate      *auth.Gate
	handlers  *flow.Handlers
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    logger.ILogger
	tracer    trace.Tracer
}

type AssistantOption func(*assistantService)

func WithEventPublisher(p EventPublisher) AssistantOption {
	return func(s *assistantService) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) AssistantOption {
	return func(s *assistantService) { s.metrics = m }
}

func WithLogger(l logger.ILogger) AssistantOption {
	return func(s *assistantService) { s.logger = l }
}

func NewAssistantService(
	sessions store.SessionStore,
	locks *store.KeyedMutex,
	r *router.Router,
	gate *auth.Gate,
	handlers *flow.Handlers,
	opts ...AssistantOption,
) IAssistantService {
	s := &assistantService{
		sessions: sessions,
		locks:    locks,
		router:   r,
		gate:     gate,
		handlers: handlers,
		logger:   logger.NewNopLogger(),
		tracer:   otel.Tracer("vaulta-banking-be/assistant"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// turnState is what one turn accumulates before the session is saved.
type turnState struct {
	sess     store.ConversationSession
	intent   intent.Intent
	decision router.Decision
	outcome  auth.Outcome
	resp     flow.Response
	redacted string
	skipSave bool
}

// HandleTurn runs one load, route, gate, handle, save cycle. Turns for the
// same session are serialized; failures past input validation become a
// reply, never an error.
func (s *assistantService) HandleTurn(ctx context.Context, req *dto.TurnRequest) (*dto.TurnResponse, error) {
	if req == nil || strings.TrimSpace(req.SessionID) == "" {
		return nil, ErrMalformedTurn
	}
	start := time.Now()
	sessionID := strings.TrimSpace(req.SessionID)
	channel := store.ParseChannel(req.Channel)

	unlock, err := s.locks.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctx, span := s.tracer.Start(ctx, "assistant.turn", trace.WithAttributes(
		attribute.String("session.channel", string(channel)),
	))
	defer span.End()

	st := turnState{redacted: credentials.Redact(req.Text)}
	span.SetAttributes(attribute.String("turn.text", st.redacted))

	loaded, err := s.sessions.Load(ctx, sessionID, channel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session load failed")
		s.logger.Error(moduleAssistant, "Failed to load session", map[string]interface{}{
			"session_id": sessionID,
			"error":      err,
		})
		return &dto.TurnResponse{SessionID: sessionID, Reply: msgSessionUnavailable, Intent: string(intent.Unknown)}, nil
	}
	before := loaded.Clone()
	st.sess = loaded
	st.sess.Channel = channel
	st.sess.Turns++
	st.sess.LastActivity = time.Now().UTC()

	s.run(ctx, &st, req.Text)

	if !st.skipSave {
		if err := s.sessions.Save(ctx, st.sess); err != nil {
			span.RecordError(err)
			s.logger.Error(moduleAssistant, "Failed to save session", map[string]interface{}{
				"session_id": sessionID,
				"error":      err,
			})
		}
	}

	s.emitEvents(ctx, before, st)

	elapsed := time.Since(start)
	s.metrics.ObserveTurn(string(st.intent), string(channel), elapsed)
	span.SetAttributes(
		attribute.String("turn.intent", string(st.intent)),
		attribute.String("turn.source", string(st.decision.Source)),
		attribute.String("auth.outcome", string(st.outcome)),
		attribute.String("customer_ref", st.sess.CustomerRef),
		attribute.Bool("session.verified", st.sess.Verified),
		attribute.Bool("session.escalate", st.sess.Escalate),
	)
	if st.resp.FailedOp != "" {
		span.SetStatus(codes.Error, st.resp.FailedOp+" unavailable")
	}

	s.logger.Info(moduleAssistant, "Turn handled", map[string]interface{}{
		"session_id":   sessionID,
		"channel":      string(channel),
		"intent":       string(st.intent),
		"source":       string(st.decision.Source),
		"outcome":      string(st.outcome),
		"customer_ref": st.sess.CustomerRef,
		"text":         st.redacted,
		"reference":    st.resp.Reference,
		"duration":     elapsed.String(),
	})

	return &dto.TurnResponse{
		SessionID:  sessionID,
		Reply:      st.resp.Reply,
		EndSession: st.resp.EndSession,
		Intent:     string(st.intent),
		Reference:  st.resp.Reference,
		Verified:   st.sess.Verified,
		Escalate:   st.sess.Escalate,
	}, nil
}

func (s *assistantService) run(ctx context.Context, st *turnState, raw string) {
	creds := credentials.Extract(raw)
	st.decision = s.router.Route(ctx, raw, st.sess)
	st.decision.Slots = scrubSlots(st.decision.Slots, creds)
	st.intent = st.decision.Intent

	if st.decision.ClassifierErr != nil {
		s.metrics.IncClassifierError()
		s.logger.Warn(moduleAssistant, "Classifier failed, routed to unknown", map[string]interface{}{
			"session_id": st.sess.ID,
			"error":      st.decision.ClassifierErr,
		})
	}

	if !st.sess.Verified && !creds.Empty() && st.intent != intent.Feedback {
		s.verify(ctx, st, creds)
		return
	}

	if auth.RequiresAuth(st.intent) && !st.sess.HasCustomer() && st.intent != intent.Fraud {
		s.block(st)
		return
	}

	if st.sess.HasCustomer() && auth.RequiresAuth(st.intent) && st.intent != intent.Fraud {
		st.sess.OriginalIntent = ""
	}
	s.handle(ctx, st, st.intent, st.decision)
}

// verify runs the gate for a turn that volunteered credentials and, on
// success, resumes whatever the caller originally asked for.
func (s *assistantService) verify(ctx context.Context, st *turnState, creds credentials.Credentials) {
	res := s.gate.Attempt(ctx, st.sess, creds)
	st.outcome = res.Outcome
	s.metrics.IncAuthOutcome(string(res.Outcome))

	wanted := st.intent
	if st.sess.OriginalIntent == intent.Fraud || (!auth.RequiresAuth(wanted) && st.sess.OriginalIntent != "") {
		wanted = st.sess.OriginalIntent
	}

	switch res.Outcome {
	case auth.OutcomeVerified:
		st.sess = res.Session
		st.sess.OriginalIntent = ""
		if !auth.RequiresAuth(wanted) {
			st.resp = flow.Response{Session: st.sess, Reply: msgVerified + " How can I help you today?"}
			return
		}
		d := st.decision
		if wanted != st.intent {
			d = router.Decision{Intent: wanted, Confidence: 1, Source: router.SourceContinuation}
		}
		st.intent = wanted
		s.handle(ctx, st, wanted, d)
		st.resp.Reply = msgVerified + " " + st.resp.Reply
		return

	case auth.OutcomeUnavailable:
		s.logger.Warn(moduleAssistant, "Verification unavailable", map[string]interface{}{
			"session_id": st.sess.ID,
			"error":      res.Err,
		})
		s.metrics.IncUnavailable("verify_identity")
		if st.intent == intent.Fraud {
			s.handle(ctx, st, intent.Fraud, router.Decision{Intent: intent.Fraud, Source: st.decision.Source})
			st.resp.Reply = flow.MsgVerifyUnavailable + " " + st.resp.Reply
			return
		}
		st.skipSave = true
		st.resp = flow.Response{Session: st.sess, Reply: flow.MsgVerifyUnavailable, FailedOp: "verify_identity"}
		return
	}

	st.sess = res.Session
	if auth.RequiresAuth(wanted) {
		rememberIntent(&st.sess, wanted)
	}

	var reply string
	switch res.Outcome {
	case auth.OutcomeFailed:
		reply = flow.VerificationFailed(res.Remaining)
	case auth.OutcomeLocked:
		reply = flow.MsgLocked
	case auth.OutcomeNeedPIN:
		reply = flow.MsgNeedPIN
	case auth.OutcomeNeedCustomerID:
		reply = flow.MsgNeedCustomerID
	default:
		reply = flow.CredentialsPrompt(wanted)
	}

	// A fraud signal is filed even when identity could not be confirmed.
	if st.intent == intent.Fraud {
		s.handle(ctx, st, intent.Fraud, router.Decision{Intent: intent.Fraud, Source: st.decision.Source})
		st.resp.Reply = reply + " " + st.resp.Reply
		return
	}
	st.resp = flow.Response{Session: st.sess, Reply: reply}
}

// block answers a gated intent on a session that cannot run it.
func (s *assistantService) block(st *turnState) {
	if s.gate.IsLocked(st.sess) {
		st.outcome = auth.OutcomeLocked
		st.sess.Locked = true
		st.sess.Escalate = true
		st.sess.ClearFlow()
		st.resp = flow.Response{Session: st.sess, Reply: flow.MsgLocked}
		return
	}
	st.outcome = auth.OutcomeNoCredentials
	st.sess.ClearFlow()
	rememberIntent(&st.sess, st.intent)
	st.resp = flow.Response{Session: st.sess, Reply: flow.CredentialsPrompt(st.intent)}
}

// rememberIntent records what to resume after verification. An
// outstanding fraud freeze is never displaced by a later request.
func rememberIntent(sess *store.ConversationSession, it intent.Intent) {
	if sess.OriginalIntent == intent.Fraud {
		return
	}
	sess.OriginalIntent = it
}

func (s *assistantService) handle(ctx context.Context, st *turnState, it intent.Intent, d router.Decision) {
	st.resp = s.handlers.Handle(ctx, it, flow.Request{
		Session:  st.sess,
		Decision: d,
		Redacted: st.redacted,
	})
	st.sess = st.resp.Session
	if st.resp.FailedOp != "" {
		s.metrics.IncUnavailable(st.resp.FailedOp)
		s.logger.Warn(moduleAssistant, "Banking operation unavailable", map[string]interface{}{
			"session_id": st.sess.ID,
			"op":         st.resp.FailedOp,
			"intent":     string(it),
		})
	}
}

func (s *assistantService) emitEvents(ctx context.Context, before store.ConversationSession, st turnState) {
	if st.intent == intent.Fraud && st.resp.Reference != "" {
		s.metrics.IncFraudReport(st.sess.Verified)
		s.publish(ctx, events.NewFraudReported(st.sess.ID, st.sess.CustomerRef, string(st.sess.Channel),
			st.resp.Reference, st.sess.Verified))
	}
	lockedNow := st.sess.Locked && !before.Locked
	if lockedNow {
		s.metrics.IncLockout()
	}
	if st.sess.Escalate && !before.Escalate {
		reason := "fraud"
		if lockedNow {
			reason = "lockout"
		}
		s.metrics.IncEscalation()
		s.publish(ctx, events.NewSessionEscalated(st.sess.ID, st.sess.CustomerRef, string(st.sess.Channel), reason))
	}
}

func (s *assistantService) publish(ctx context.Context, ev events.Event) {
	if s.publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pctx, ev); err != nil {
		s.logger.Warn(moduleAssistant, "Failed to publish event", map[string]interface{}{
			"event": ev.EventType(),
			"error": err,
		})
	}
}

// scrubSlots drops a card number slot that is really one of the caller's
// credentials.
func scrubSlots(slots router.Slots, creds credentials.Credentials) router.Slots {
	if slots.CardLast4 != "" && (slots.CardLast4 == creds.CustomerID || slots.CardLast4 == creds.PIN) {
		slots.CardLast4 = ""
	}
	return slots
}
