package ecosystem

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownGenome = errors.New("population references unknown genome")

// idNamespace scopes the name-based UUIDs derived from seeds.
var idNamespace = uuid.MustParse("6f1c8a52-3d7e-4b8e-9a0c-5e2f4d1b7c90")

// RandomSource is the only randomness the engine consumes. *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewSeededSource returns a reproducible source keyed off a string seed.
func NewSeededSource(seed string) *rand.Rand {
	return rand.New(rand.NewSource(SeedFromString(seed)))
}

func SeedFromString(seed string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return int64(h.Sum64())
}

// Initialize builds the first state for a lineage. It is reproducible for a given seed
// apart from the timestamp.
func Initialize(cfg Config) (State, []Genome) {
	seed := cfg.Seed
	if seed == "" {
		seed = DefaultSeed
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	rng := NewSeededSource(seed)

	genomes := append([]Genome(nil), cfg.InitialGenomes...)
	if len(genomes) == 0 {
		genomes = make([]Genome, 0, DefaultGenomeCount)
		for i := 0; i < DefaultGenomeCount; i++ {
			genomes = append(genomes, Genome{
				ID:      uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s/genome/%d", seed, i))).String(),
				Species: defaultSpecies[i%len(defaultSpecies)],
				Traits: Traits{
					RadiationResistance: radiationResistanceRange.draw(rng),
					GrowthRate:          growthRateRange.draw(rng),
					MutationRate:        mutationRateRange.draw(rng),
					ResourceEfficiency:  resourceEfficiencyRange.draw(rng),
					StressTolerance:     stressToleranceRange.draw(rng),
				},
				Lineage: []string{},
			})
		}
	}

	env := Environment{
		Temperature:    temperatureRange.draw(rng),
		Radiation:      radiationRange.draw(rng),
		Gravity:        MarsGravity,
		Pressure:       pressureRange.draw(rng),
		Nutrients:      nutrientsRange.draw(rng),
		LightIntensity: lightIntensityRange.draw(rng),
	}

	populations := make([]Population, 0, len(genomes))
	for _, g := range genomes {
		populations = append(populations, Population{
			GenomeID:       g.ID,
			Count:          InitialCountMin + int(rng.Float64()*InitialCountSpan),
			HealthIndex:    healthRange.draw(rng),
			DiversityIndex: diversityRange.draw(rng),
		})
	}

	state := State{
		ID:          uuid.NewSHA1(idNamespace, []byte(seed)).String(),
		Tick:        0,
		Timestamp:   now().UTC(),
		Environment: env,
		Populations: populations,
	}
	state.StabilityScore = stability(state)
	state.ResilienceScore = clamp(ResilienceFromStability*state.StabilityScore, 0, 1)
	return state, genomes
}

type Engine struct {
	Rand RandomSource
	Now  func() time.Time
}

// Advance performs one stochastic tick. The population list keeps its length, order and
// genome ids.
func (e Engine) Advance(state State, genomes []Genome) (State, error) {
	rng := e.Rand
	if rng == nil {
		rng = globalSource{}
	}
	now := e.Now
	if now == nil {
		now = time.Now
	}

	known := make(map[string]struct{}, len(genomes))
	for _, g := range genomes {
		known[g.ID] = struct{}{}
	}

	next := state.clone()
	nutrients := state.Environment.Nutrients
	for i, p := range next.Populations {
		if _, ok := known[p.GenomeID]; !ok {
			return State{}, fmt.Errorf("%w: %s", ErrUnknownGenome, p.GenomeID)
		}
		growth := 1 + (rng.Float64()-GrowthBias)*GrowthAmpl*nutrients
		p.Count = int(math.Max(0, float64(p.Count)*growth))
		p.HealthIndex = clamp(p.HealthIndex+(rng.Float64()-0.5)*HealthWalkStep, 0, 1)
		p.DiversityIndex = clamp(p.DiversityIndex+(rng.Float64()-0.5)*DiversityStep, 0, 1)
		next.Populations[i] = p
	}

	next.StabilityScore = stability(next)
	next.ResilienceScore = clamp(ResilienceFromStability*next.StabilityScore+rng.Float64()*ResilienceBonusMax, 0, 1)
	next.Tick = state.Tick + 1
	next.Timestamp = now().UTC()
	return next, nil
}

func stability(s State) float64 {
	meanHealth := 0.0
	if len(s.Populations) > 0 {
		for _, p := range s.Populations {
			meanHealth += p.HealthIndex
		}
		meanHealth /= float64(len(s.Populations))
	}
	return clamp(StabilityHealthWeight*meanHealth+StabilityNutrientsWeight*s.Environment.Nutrients, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
