package crew

import "missioncore/internal/domain/physiology"

type AdvanceRequest struct {
	CrewID      string                      `json:"crew_id"`
	Environment physiology.EnvironmentState `json:"environment"`
	DtDays      float64                     `json:"dt_days"`
}

type AdvanceResponse struct {
	Before  physiology.HumanState `json:"before"`
	State   physiology.HumanState `json:"state"`
	Display physiology.HumanState `json:"display"`
}

type StatusRequest struct {
	CrewID string `json:"crew_id"`
}

type StatusResponse struct {
	State   physiology.HumanState `json:"state"`
	Display physiology.HumanState `json:"display"`
}
