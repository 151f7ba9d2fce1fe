package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Wikid82/lockward/internal/metrics"
	"github.com/Wikid82/lockward/internal/models"
	"github.com/Wikid82/lockward/internal/util"
)

// SyncProbeFlag is the only issync value that marks a heartbeat probe.
const SyncProbeFlag = "y"

// CardLookup is the read side of the card registry used on the access path.
type CardLookup interface {
	FindForAccess(ctx context.Context, uid string) (*models.Card, error)
}

// AccessRequest is one inbound access check from a lock controller.
type AccessRequest struct {
	LockID string
	CardID string
	// IsSync marks a periodic connectivity probe: evaluated but not logged.
	IsSync bool
}

// AccessDecision is the outcome returned to the controller.
type AccessDecision struct {
	LockID    string
	Granted   bool
	KnownCard bool
}

// IsSyncProbe reports whether the raw issync parameter marks a probe.
func IsSyncProbe(raw string) bool {
	return raw == SyncProbeFlag
}

// AccessService ties the card registry, the evaluator and the audit log
// together for each access request.
type AccessService struct {
	cards    CardLookup
	audit    AuditRecorder
	reporter Reporter
	now      func() time.Time
}

func NewAccessService(cards CardLookup, audit AuditRecorder, reporter Reporter) *AccessService {
	return &AccessService{
		cards:    cards,
		audit:    audit,
		reporter: reporter,
		now:      time.Now,
	}
}

// Check validates the request, evaluates it and logs the outcome unless the
// request is a sync probe. An unknown card is a denial, not an error. Audit
// failures are reported and never change the returned decision; only a
// validation or registry failure returns an error.
func (s *AccessService) Check(ctx context.Context, req AccessRequest) (AccessDecision, error) {
	if req.LockID == "" {
		return AccessDecision{}, MissingParameter("lock")
	}
	if req.CardID == "" {
		return AccessDecision{}, MissingParameter("card")
	}

	card, err := s.cards.FindForAccess(ctx, req.CardID)
	if err != nil {
		if KindOf(err) != KindNotFound {
			return AccessDecision{}, err
		}
		card = nil
	}

	decision := AccessDecision{
		LockID:    req.LockID,
		Granted:   Evaluate(req.LockID, card),
		KnownCard: card != nil,
	}
	metrics.ObserveDecision(decision.Granted, decision.KnownCard)

	if req.IsSync {
		metrics.IncSyncProbe()
		return decision, nil
	}

	attempt := AccessAttempt{
		LockID:  req.LockID,
		CardID:  req.CardID,
		Success: decision.Granted,
		NewCard: !decision.KnownCard,
		At:      s.now().UTC(),
	}
	if card != nil {
		name := card.Name
		attempt.CardName = &name
	}

	if err := s.audit.Record(ctx, attempt); err != nil {
		s.reporter.Report("audit.record", err, logrus.Fields{
			"lock":     util.SanitizeID(req.LockID),
			"card":     util.SanitizeID(req.CardID),
			"success":  attempt.Success,
			"new_card": attempt.NewCard,
		})
	}

	return decision, nil
}
