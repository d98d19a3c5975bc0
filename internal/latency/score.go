package latency

import "math"

// defaultPrivacyScores rates jurisdictions for VPN privacy, 0-100.
var defaultPrivacyScores = map[string]int{
	"CH": 100, "PA": 95, "RO": 90, "IS": 90,
	"VG": 85, "LI": 85, "SC": 80, "AD": 80, "MC": 80,
	"MD": 75, "SM": 75, "VA": 70, "CY": 65, "IE": 60,
	"NO": 50, "PT": 50, "SE": 45, "IT": 45, "ES": 45,
	"DE": 40, "FR": 40, "NL": 40,
	"NZ": 35, "BE": 35, "DK": 35,
	"CA": 30, "AU": 30,
	"UK": 25,
	"US": 20,
}

// ScoreConfig controls composite scoring.
type ScoreConfig struct {
	PrivacyEnabled bool
	PrivacyWeight  float64        // share of the score given to privacy, 0-1
	PrivacyScores  map[string]int // country code -> 0-100, merged over defaults
}

// MergePrivacyScores overlays user overrides on the built-in country scores.
func MergePrivacyScores(overrides map[string]int) map[string]int {
	merged := make(map[string]int, len(defaultPrivacyScores)+len(overrides))
	for code, score := range defaultPrivacyScores {
		merged[code] = score
	}
	for code, score := range overrides {
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		merged[code] = score
	}
	return merged
}

// PrivacyScore returns the privacy score for a country code under cfg,
// 0 when scoring is disabled or the country is unknown.
func (cfg ScoreConfig) PrivacyScore(countryCode string) int {
	if !cfg.PrivacyEnabled || countryCode == "" {
		return 0
	}
	return cfg.PrivacyScores[countryCode]
}

// Score computes a composite 0-100 score for an outcome from latency,
// jitter, packet loss, and optionally the country privacy score. Failed
// probes score 0.
func Score(o Outcome, cfg ScoreConfig) float64 {
	if o.Status != StatusSuccess || o.AvgLatencyMS == nil {
		return 0.0
	}

	// Missing jitter data is treated as worst case.
	jitterStdDev := 100.0
	if o.Jitter != nil {
		jitterStdDev = o.Jitter.StdDevMS
	}

	// Each component normalized to 0-100, higher is better.
	// Latency: 0ms = 100, 500ms = 0. Jitter: 0ms = 100, 50ms = 0.
	latencyScore := math.Max(0, 100.0-(*o.AvgLatencyMS/5.0))
	jitterScore := math.Max(0, 100.0-(jitterStdDev*2.0))
	lossScore := math.Max(0, 100.0-o.PacketLossPct)

	var composite float64
	if cfg.PrivacyEnabled {
		remaining := 1.0 - cfg.PrivacyWeight
		composite = float64(cfg.PrivacyScore(o.Target.CountryCode))*cfg.PrivacyWeight +
			latencyScore*remaining*0.4 +
			jitterScore*remaining*0.3 +
			lossScore*remaining*0.3
	} else {
		composite = latencyScore*0.4 + jitterScore*0.3 + lossScore*0.3
	}

	return math.Round(composite*100) / 100
}
