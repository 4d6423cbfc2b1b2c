package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pawhome/adoption-api/internal/domain"
	"github.com/pawhome/adoption-api/internal/metrics"
)

// storeTimeout bounds every storage call a transition makes. Expiry surfaces
// to the caller as context.DeadlineExceeded.
const storeTimeout = 5 * time.Second

// EventSink receives application lifecycle events for fan-out to connected
// observers.
type EventSink interface {
	ApplicationEvent(eventType string, app domain.Application)
}

// TransitionEngine validates a requested application status change and applies
// it, together with the correlated pet-availability write, as one atomic unit.
type TransitionEngine struct {
	logger *slog.Logger
	apps   domain.ApplicationRepository
	sink   EventSink
}

func NewTransitionEngine(logger *slog.Logger, apps domain.ApplicationRepository, sink EventSink) *TransitionEngine {
	return &TransitionEngine{
		logger: logger,
		apps:   apps,
		sink:   sink,
	}
}

// SetStatus moves the application to target. Any status is reachable from any
// other; operators use this to correct earlier decisions. The stored
// application row is authoritative for which pet is affected: callerPetID is
// only checked against it (0 skips the check), never written.
func (e *TransitionEngine) SetStatus(ctx context.Context, applicationID int64, target domain.ApplicationStatus, callerPetID int64) (domain.Application, error) {
	if !target.Valid() {
		return domain.Application{}, domain.NewValidationError("status", "must be one of 1, 0, -1")
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	app, err := e.apps.GetByID(ctx, applicationID)
	if err != nil {
		return domain.Application{}, err
	}
	if callerPetID != 0 && callerPetID != app.PetID {
		e.logger.Warn("caller petId contradicts application row",
			"applicationId", applicationID, "petId", callerPetID, "storedPetId", app.PetID)
		return domain.Application{}, domain.NewValidationError("petId", "does not match the application's pet")
	}

	updated, err := e.apps.Transition(ctx, applicationID, target)
	if err != nil {
		if errors.Is(err, domain.ErrPetReserved) {
			metrics.TransitionConflicts.Inc()
		}
		e.logger.Error("status transition failed", "error", err,
			"applicationId", applicationID, "petId", app.PetID, "target", target.String())
		return domain.Application{}, err
	}

	metrics.TransitionsApplied.WithLabelValues(target.String()).Inc()
	e.logger.Info("application status updated",
		"applicationId", updated.ID, "petId", updated.PetID, "status", target.String())
	if e.sink != nil {
		e.sink.ApplicationEvent(target.String(), updated)
	}
	return updated, nil
}
