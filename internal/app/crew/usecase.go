package crew

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/events"
	"missioncore/internal/domain/physiology"
)

var ErrInvalidRequest = errors.New("invalid crew request")

// UseCase advances and reports crew physiology. A crew member without stored state
// starts from the baseline.
type UseCase struct {
	TxManager ports.TxManager
	Crew      ports.CrewRepository
	Events    ports.EventRepository
	Metrics   ports.Metrics
	Engine    physiology.Engine
	Now       func() time.Time
}

func (u UseCase) Advance(ctx context.Context, req AdvanceRequest) (AdvanceResponse, error) {
	crewID := strings.TrimSpace(req.CrewID)
	if crewID == "" {
		return AdvanceResponse{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	var out AdvanceResponse
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		before, err := u.Crew.Get(txCtx, crewID)
		if errors.Is(err, ports.ErrNotFound) {
			before = physiology.Baseline()
		} else if err != nil {
			return err
		}
		next, err := u.Engine.Advance(before, req.Environment, req.DtDays)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		if err := u.Crew.Save(txCtx, crewID, next); err != nil {
			return err
		}
		evt := events.New(events.TypePhysiologyAdvanced, nowFn(), map[string]any{
			"crew_id":      crewID,
			"dt_days":      req.DtDays,
			"environment":  req.Environment,
			"state_before": before,
			"state_after":  next,
		})
		if err := u.Events.Append(txCtx, crewID, []events.DomainEvent{evt}); err != nil {
			return err
		}
		out = AdvanceResponse{Before: before, State: next, Display: next.Clamped()}
		return nil
	})
	if err != nil {
		if u.Metrics != nil && !errors.Is(err, ErrInvalidRequest) {
			u.Metrics.RecordFailure("crew_advance")
		}
		return AdvanceResponse{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordTick(ports.EnginePhysiology)
	}
	return out, nil
}

func (u UseCase) Status(ctx context.Context, req StatusRequest) (StatusResponse, error) {
	if strings.TrimSpace(req.CrewID) == "" {
		return StatusResponse{}, ErrInvalidRequest
	}
	state, err := u.Crew.Get(ctx, req.CrewID)
	if err != nil {
		return StatusResponse{}, err
	}
	return StatusResponse{State: state, Display: state.Clamped()}, nil
}
