package habitat

import "missioncore/internal/domain/lifesupport"

type StepRequest struct {
	HabitatID string  `json:"habitat_id"`
	DtHours   float64 `json:"dt_hours"`
}

type StepResponse struct {
	Result lifesupport.StepResult `json:"result"`
	// NewWarnings lists warnings that were not active, at the same severity, before
	// this step.
	NewWarnings []lifesupport.ResourceWarning `json:"new_warnings"`
}
