package engine

import (
	"cmp"
	"math"
	"slices"
)

// Season is the growing season a soil sample was taken for.
type Season string

const (
	SeasonMonsoon Season = "monsoon"
	SeasonWinter  Season = "winter"
	SeasonSummer  Season = "summer"
)

// SoilSample is a set of soil measurements. Nutrients are in mg/kg.
type SoilSample struct {
	Nitrogen    float64  `json:"nitrogen"`
	Phosphorus  float64  `json:"phosphorus"`
	Potassium   float64  `json:"potassium"`
	PHLevel     float64  `json:"ph_level"`
	Season      Season   `json:"season"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Rainfall    *float64 `json:"rainfall,omitempty"`
}

// CropRecommendation is the engine's answer for a soil sample.
type CropRecommendation struct {
	Crop       string   `json:"crop"`
	Confidence int      `json:"confidence"`
	Tips       []string `json:"tips"`
}

type span struct{ lo, hi float64 }

func (s span) contains(v float64) bool { return v >= s.lo && v <= s.hi }

func between(lo, hi float64) span { return span{lo, hi} }

func atLeast(lo float64) span { return span{lo, math.Inf(1)} }

type cropRule struct {
	crop   string
	n      span
	p      span
	k      span
	ph     span
	season Season // empty matches any season
	score  int
	tips   []string
}

func (r cropRule) matches(s SoilSample) bool {
	if r.season != "" && r.season != s.Season {
		return false
	}
	return r.n.contains(s.Nitrogen) &&
		r.p.contains(s.Phosphorus) &&
		r.k.contains(s.Potassium) &&
		r.ph.contains(s.PHLevel)
}

// cropRules is evaluated in order; the index is the tie-break key.
var cropRules = []cropRule{
	{crop: "Rice", n: between(50, 100), p: atLeast(30), k: atLeast(30), ph: between(5.5, 7.5), score: 85,
		tips: []string{"Maintain waterlogged conditions", "Best planted in monsoon season"}},
	{crop: "Wheat", n: between(40, 80), p: atLeast(20), k: atLeast(20), ph: between(6.0, 7.5), season: SeasonWinter, score: 90,
		tips: []string{"Requires cool weather", "Irrigate at critical stages"}},
	{crop: "Maize", n: atLeast(60), p: atLeast(25), k: atLeast(25), ph: between(5.8, 7.0), score: 80,
		tips: []string{"Needs well-drained soil", "Regular irrigation required"}},
	{crop: "Sugarcane", n: atLeast(80), p: atLeast(40), k: atLeast(40), ph: between(6.0, 7.5), score: 75,
		tips: []string{"Long growing season", "Heavy water requirement"}},
	{crop: "Cotton", n: atLeast(40), p: atLeast(20), k: atLeast(20), ph: between(6.0, 8.0), season: SeasonSummer, score: 82,
		tips: []string{"Warm climate preferred", "Moderate water needs"}},
	{crop: "Soybean", n: atLeast(30), p: atLeast(20), k: atLeast(30), ph: between(6.0, 7.0), score: 78,
		tips: []string{"Fixes nitrogen in soil", "Good rotation crop"}},
	{crop: "Groundnut", n: atLeast(20), p: atLeast(30), k: atLeast(20), ph: between(5.5, 7.0), score: 77,
		tips: []string{"Sandy loam soil preferred", "Moderate water needs"}},
}

var (
	potatoFallback = CropRecommendation{Crop: "Potato", Confidence: 65,
		Tips: []string{"Acidic soil suitable for potatoes", "Consider adding lime to raise pH"}}
	legumesFallback = CropRecommendation{Crop: "Legumes", Confidence: 70,
		Tips: []string{"Low nitrogen suggests legumes", "Will help fix nitrogen in soil"}}
	vegetablesFallback = CropRecommendation{Crop: "Vegetables", Confidence: 60,
		Tips: []string{"Mixed vegetable cultivation", "Consider soil amendments"}}
)

// MatchCrops returns every crop whose rule accepts the sample, best first.
// Equal scores keep rule-table order.
func MatchCrops(s SoilSample) []CropRecommendation {
	type candidate struct {
		index int
		rule  cropRule
	}
	var matched []candidate
	for i, r := range cropRules {
		if r.matches(s) {
			matched = append(matched, candidate{index: i, rule: r})
		}
	}
	slices.SortFunc(matched, func(a, b candidate) int {
		if c := cmp.Compare(b.rule.score, a.rule.score); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
	out := make([]CropRecommendation, 0, len(matched))
	for _, m := range matched {
		out = append(out, CropRecommendation{
			Crop:       m.rule.crop,
			Confidence: m.rule.score,
			Tips:       slices.Clone(m.rule.tips),
		})
	}
	return out
}

// RecommendCrop picks the best-scoring crop for the sample. It never fails:
// when no rule matches it falls back on pH first, then nitrogen.
func RecommendCrop(s SoilSample) CropRecommendation {
	if matched := MatchCrops(s); len(matched) > 0 {
		return matched[0]
	}
	var fb CropRecommendation
	switch {
	case s.PHLevel < 6.0:
		fb = potatoFallback
	case s.Nitrogen < 40:
		fb = legumesFallback
	default:
		fb = vegetablesFallback
	}
	fb.Tips = slices.Clone(fb.Tips)
	return fb
}
