package physiology

const (
	MaxGravity = 1.2

	BoneDecayCoeff   = 0.0009
	MuscleDecayCoeff = 0.0012
	MuscleDecayPower = 1.4

	BloodFlowBase        = 0.7
	BloodFlowOxygenGain  = 0.3
	BloodFlowGravityBase = 0.8
	BloodFlowGravityGain = 0.2

	RadiationDoseCoeff       = 0.04
	RadiationDoseScale       = 100
	RadiationLowGravityBoost = 0.3

	FatigueRate            = 0.02
	FatigueNutritionWeight = 0.7
	FatigueOxygenWeight    = 0.3

	StressRadiationWeight = 0.4
	StressGravityWeight   = 0.3
	StressFatigueWeight   = 0.3

	RecoveryCeiling           = 0.95
	RecoveryFloor             = 0.2
	RecoveryDoseDivisor       = 5000
	RecoveryStressWeight      = 0.3
	BaselineRecoveryPotential = RecoveryCeiling
)
