package habitat

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/events"
	"missioncore/internal/domain/lifesupport"
)

var ErrInvalidRequest = errors.New("invalid habitat request")

type UseCase struct {
	TxManager ports.TxManager
	Habitats  ports.HabitatRepository
	Events    ports.EventRepository
	Metrics   ports.Metrics
	Engine    lifesupport.Engine
	Config    lifesupport.Config
	Modules   []lifesupport.Module
	Now       func() time.Time
}

// Step advances one habitat's reserves. A habitat without history starts from
// lifesupport.InitResourceState.
func (u UseCase) Step(ctx context.Context, req StepRequest) (StepResponse, error) {
	habitatID := strings.TrimSpace(req.HabitatID)
	if habitatID == "" || math.IsNaN(req.DtHours) || req.DtHours < 0 || math.IsInf(req.DtHours, 0) {
		return StepResponse{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	var out StepResponse
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		previous, err := u.Habitats.Latest(txCtx, habitatID)
		if errors.Is(err, ports.ErrNotFound) {
			previous = lifesupport.InitResourceState(nowFn())
		} else if err != nil {
			return err
		}

		result := u.Engine.Step(previous, u.Modules, u.Config, req.DtHours)
		if err := u.Habitats.Append(txCtx, habitatID, result.State, result.SustainabilityIndex); err != nil {
			return err
		}

		fresh := newWarnings(previous.Warnings, result.State.Warnings)
		evts := []events.DomainEvent{events.New(events.TypeHabitatStepped, nowFn(), map[string]any{
			"habitat_id":           habitatID,
			"tick":                 result.State.Tick,
			"dt_hours":             req.DtHours,
			"sustainability_index": result.SustainabilityIndex,
			"warning_flags":        result.WarningFlags,
			"state_after":          result.State,
		})}
		for _, w := range fresh {
			evts = append(evts, events.New(events.TypeResourceWarning, nowFn(), map[string]any{
				"habitat_id": habitatID,
				"warning_id": w.ID,
				"type":       string(w.Type),
				"severity":   string(w.Severity),
				"message":    w.Message,
				"at_tick":    w.AtTick,
			}))
		}
		if err := u.Events.Append(txCtx, habitatID, evts); err != nil {
			return err
		}
		out = StepResponse{Result: result, NewWarnings: fresh}
		return nil
	})
	if err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordFailure("habitat_step")
		}
		return StepResponse{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordTick(ports.EngineLifeSupport)
		u.Metrics.ObserveSustainability(habitatID, out.Result.SustainabilityIndex)
	}
	return out, nil
}

func newWarnings(before, after []lifesupport.ResourceWarning) []lifesupport.ResourceWarning {
	type key struct {
		kind     lifesupport.WarningType
		severity lifesupport.Severity
	}
	active := make(map[key]bool, len(before))
	for _, w := range before {
		active[key{w.Type, w.Severity}] = true
	}
	out := []lifesupport.ResourceWarning{}
	for _, w := range after {
		if !active[key{w.Type, w.Severity}] {
			out = append(out, w)
		}
	}
	return out
}
