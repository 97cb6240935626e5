package projection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"missioncore/internal/app/ports"
	"missioncore/internal/domain/physiology"
	"missioncore/internal/domain/predictive"
)

var ErrInvalidRequest = errors.New("invalid projection request")

// DefaultMaxSteps bounds a single projection's trajectory length.
const DefaultMaxSteps = predictive.DefaultMaxSteps

type UseCase struct {
	Catalog  predictive.Catalog
	Metrics  ports.Metrics
	MaxSteps int
}

// Execute resolves the scenario and plan (inline definitions win over ids) and runs the
// modeler from the supplied initial state or the baseline.
func (u UseCase) Execute(_ context.Context, req Request) (Response, error) {
	scenario, err := u.resolveScenario(req)
	if err != nil {
		return Response{}, err
	}
	plan, err := u.resolvePlan(req)
	if err != nil {
		return Response{}, err
	}

	days := req.Days
	if days == 0 {
		days = scenario.DurationDays
	}
	dt := req.DtDays
	if dt == 0 {
		dt = 1
	}
	if dt > 0 && days > 0 && days/dt > float64(u.maxSteps()) {
		return Response{}, fmt.Errorf("%w: %v steps exceeds limit %d", ErrInvalidRequest, math.Floor(days/dt), u.maxSteps())
	}

	initial := physiology.Baseline()
	if req.Initial != nil {
		initial = *req.Initial
	}

	proj, err := predictive.NewModeler(u.Catalog).Project(initial, scenario, predictive.Options{
		Plan:     plan,
		Days:     req.Days,
		DtDays:   req.DtDays,
		MaxSteps: u.maxSteps(),
	})
	if err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordFailure("projection")
		}
		if errors.Is(err, predictive.ErrInvalidHorizon) || errors.Is(err, physiology.ErrInvalidDelta) {
			return Response{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordTick(ports.EngineProjection)
	}
	return Response{Projection: proj, Final: proj.Final()}, nil
}

// CatalogView returns the scenarios, countermeasures and plans projections can reference.
func (u UseCase) CatalogView() predictive.Catalog {
	return u.Catalog
}

func (u UseCase) resolveScenario(req Request) (predictive.ScenarioProfile, error) {
	if req.Scenario != nil {
		if strings.TrimSpace(req.Scenario.ID) == "" {
			return predictive.ScenarioProfile{}, ErrInvalidRequest
		}
		return *req.Scenario, nil
	}
	id := strings.TrimSpace(req.ScenarioID)
	if id == "" {
		return predictive.ScenarioProfile{}, ErrInvalidRequest
	}
	scenario, ok := u.Catalog.Scenario(id)
	if !ok {
		return predictive.ScenarioProfile{}, fmt.Errorf("scenario %q: %w", id, ports.ErrNotFound)
	}
	return scenario, nil
}

func (u UseCase) resolvePlan(req Request) (*predictive.InterventionPlan, error) {
	if req.Plan != nil {
		return req.Plan, nil
	}
	id := strings.TrimSpace(req.PlanID)
	if id == "" {
		return nil, nil
	}
	plan, ok := u.Catalog.Plan(id)
	if !ok {
		return nil, fmt.Errorf("plan %q: %w", id, ports.ErrNotFound)
	}
	return &plan, nil
}

func (u UseCase) maxSteps() int {
	if u.MaxSteps > 0 {
		return u.MaxSteps
	}
	return DefaultMaxSteps
}
