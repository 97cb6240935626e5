package anomaly

import (
	"fmt"
	"math"
)

const (
	// ZThreshold is the absolute z-score above which the latest point is anomalous.
	ZThreshold = 2.5
	// ScoreScale maps |z| onto [0,1]; |z| of 6 or more scores 1.
	ScoreScale = 6.0
	MinStdDev  = 1.0
)

type Result struct {
	Score     float64 `json:"score"`
	ZScore    float64 `json:"z_score"`
	IsAnomaly bool    `json:"is_anomaly"`
	Reason    string  `json:"reason"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
}

// Detect scores the last point of series against the points before it. Mean and
// standard deviation use the population formula and the deviation is floored at
// MinStdDev. A series with fewer than two points yields a zero, non-anomalous result.
func Detect(series []float64) Result {
	if len(series) < 2 {
		return Result{Reason: "insufficient history"}
	}
	baseline := series[:len(series)-1]
	latest := series[len(series)-1]

	mean := 0.0
	for _, v := range baseline {
		mean += v
	}
	mean /= float64(len(baseline))

	variance := 0.0
	for _, v := range baseline {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(baseline))
	std := math.Max(MinStdDev, math.Sqrt(variance))

	z := (latest - mean) / std
	if math.IsNaN(z) {
		return Result{Reason: "non-numeric series"}
	}
	res := Result{
		Score:     math.Min(1, math.Abs(z)/ScoreScale),
		ZScore:    z,
		IsAnomaly: math.Abs(z) > ZThreshold,
		Mean:      mean,
		StdDev:    std,
	}
	if res.IsAnomaly {
		res.Reason = fmt.Sprintf("latest value %.2f deviates %.2f sigma from mean %.2f", latest, z, mean)
	} else {
		res.Reason = "within expected range"
	}
	return res
}

// Window returns at most the last n points of series. n <= 0 keeps everything.
func Window(series []float64, n int) []float64 {
	if n <= 0 || len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}
