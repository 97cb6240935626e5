package physiology

import (
	"errors"
	"math"
)

var ErrInvalidDelta = errors.New("invalid delta days")

type Engine struct{}

// Advance applies one tick of dtDays to state under env. It is pure: the same inputs
// always produce the same output and state is not modified.
func (Engine) Advance(state HumanState, env EnvironmentState, dtDays float64) (HumanState, error) {
	if !(dtDays > 0) || math.IsInf(dtDays, 0) {
		return HumanState{}, ErrInvalidDelta
	}

	gravity := clamp(env.Gravity, 0, MaxGravity)
	oxygen := clamp(env.Oxygen, 0, 1)
	nutrition := clamp(env.Nutrition, 0, 1)
	radiation := math.Max(0, finite(env.Radiation))

	gravityDeficit := 1 - gravity

	next := state
	next.Time = state.Time + dtDays

	next.BoneDensity = math.Max(0, state.BoneDensity*(1-BoneDecayCoeff*gravityDeficit*dtDays))

	// Hyper-gravity has no deficit; the power term needs a non-negative base.
	muscleDeficit := math.Pow(math.Max(0, gravityDeficit), MuscleDecayPower)
	next.MuscleMass = math.Max(0, state.MuscleMass*(1-MuscleDecayCoeff*muscleDeficit*dtDays))

	bloodFlow := BloodFlowBase + BloodFlowOxygenGain*oxygen
	bloodFlow *= BloodFlowGravityBase + BloodFlowGravityGain*gravity
	next.BloodFlowIndex = clamp(bloodFlow, 0, 1)

	shielding := 1 + gravityDeficit*RadiationLowGravityBoost
	next.RadiationDose = state.RadiationDose + radiation*RadiationDoseCoeff*dtDays*shielding*RadiationDoseScale

	deficiency := 1 - FatigueNutritionWeight*nutrition - FatigueOxygenWeight*oxygen
	next.Fatigue = clamp(state.Fatigue+deficiency*FatigueRate*dtDays, 0, 1)

	next.StressLoad = clamp(
		StressRadiationWeight*radiation+StressGravityWeight*gravityDeficit+StressFatigueWeight*next.Fatigue,
		0, 1,
	)

	next.RecoveryPotential = math.Max(
		RecoveryFloor,
		RecoveryCeiling-next.RadiationDose/RecoveryDoseDivisor-next.StressLoad*RecoveryStressWeight,
	)

	return next, nil
}

func clamp(v, lo, hi float64) float64 {
	v = finite(v)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// finite maps NaN to 0 so defensive clamping never propagates it.
func finite(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
