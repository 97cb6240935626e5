package projection

import (
	"missioncore/internal/domain/physiology"
	"missioncore/internal/domain/predictive"
)

type Request struct {
	ScenarioID string                       `json:"scenario_id"`
	Scenario   *predictive.ScenarioProfile  `json:"scenario,omitempty"`
	PlanID     string                       `json:"plan_id,omitempty"`
	Plan       *predictive.InterventionPlan `json:"plan,omitempty"`
	Days       float64                      `json:"days,omitempty"`
	DtDays     float64                      `json:"dt_days,omitempty"`
	Initial    *physiology.HumanState       `json:"initial,omitempty"`
}

type Response struct {
	Projection predictive.Projection `json:"projection"`
	Final      physiology.HumanState `json:"final"`
}
