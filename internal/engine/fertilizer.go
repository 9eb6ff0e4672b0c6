package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NPK holds nitrogen, phosphorus and potassium levels in mg/kg.
type NPK struct {
	N float64 `json:"n"`
	P float64 `json:"p"`
	K float64 `json:"k"`
}

// FertilizerInput is the current soil state for a crop.
type FertilizerInput struct {
	Crop     string  `json:"crop"`
	CurrentN float64 `json:"current_n"`
	CurrentP float64 `json:"current_p"`
	CurrentK float64 `json:"current_k"`
}

// FertilizerRecommendation describes the primary fertilizer to apply, per acre.
type FertilizerRecommendation struct {
	FertilizerName  string   `json:"fertilizer_name"`
	QuantityPerAcre int      `json:"quantity_per_acre"`
	Schedule        string   `json:"schedule"`
	Details         []string `json:"details"`
}

const (
	// kgPerAcre converts the per-hectare-equivalent dose to kg/acre.
	kgPerAcre = 2.2
	// supplementFactor is used for secondary (non-primary) nutrients.
	supplementFactor = 1.5
	// deficitThreshold is the minimum deficit that calls for a primary fertilizer.
	deficitThreshold = 10
	// supplementThreshold is the minimum deficit that earns a secondary note.
	supplementThreshold = 20
	// maintenanceDose is the NPK complex dose when nothing is deficient.
	maintenanceDose = 50
)

var optimalNPK = map[string]NPK{
	"rice":      {N: 80, P: 40, K: 40},
	"wheat":     {N: 60, P: 30, K: 30},
	"maize":     {N: 100, P: 50, K: 50},
	"sugarcane": {N: 150, P: 60, K: 60},
	"cotton":    {N: 80, P: 40, K: 40},
	"soybean":   {N: 20, P: 40, K: 40},
	"groundnut": {N: 20, P: 40, K: 30},
	"potato":    {N: 100, P: 80, K: 100},
	"tomato":    {N: 80, P: 60, K: 80},
	"onion":     {N: 60, P: 40, K: 60},
}

var defaultNPK = NPK{N: 60, P: 30, K: 30}

type fertilizer struct {
	name      string
	short     string
	nutrient  string
	divisor   float64
	schedule  string
	rationale string
}

var (
	urea = fertilizer{
		name: "Urea (46-0-0)", short: "Urea", nutrient: "nitrogen", divisor: 0.46,
		schedule:  "Split application: 50% at sowing, 25% at 30 days, 25% at 60 days",
		rationale: "Urea provides fast-release nitrogen for leafy growth",
	}
	dap = fertilizer{
		name: "DAP (18-46-0)", short: "DAP", nutrient: "phosphorus", divisor: 0.46,
		schedule:  "Apply 100% as basal dose before sowing",
		rationale: "DAP promotes root development and flowering",
	}
	mop = fertilizer{
		name: "MOP (0-0-60)", short: "MOP", nutrient: "potassium", divisor: 0.60,
		schedule:  "Apply 50% at sowing, 50% at flowering stage",
		rationale: "MOP improves disease resistance and crop quality",
	}
	npkComplex = fertilizer{
		name:     "NPK Complex (10-26-26)",
		schedule: "Apply as basal dose at sowing time",
	}
)

// OptimalNPK returns the target nutrient levels for a crop and whether the
// crop is known. Unknown crops get the default 60/30/30.
func OptimalNPK(crop string) (NPK, bool) {
	v, ok := optimalNPK[strings.ToLower(strings.TrimSpace(crop))]
	if !ok {
		return defaultNPK, false
	}
	return v, true
}

// RecommendFertilizer picks a primary fertilizer for the largest nutrient
// deficit and adds supplemental notes for other large deficits.
func RecommendFertilizer(in FertilizerInput) FertilizerRecommendation {
	optimal, _ := OptimalNPK(in.Crop)
	dN := math.Max(0, optimal.N-in.CurrentN)
	dP := math.Max(0, optimal.P-in.CurrentP)
	dK := math.Max(0, optimal.K-in.CurrentK)

	var (
		primary fertilizer
		qty     int
		details []string
	)
	switch {
	case dN >= dP && dN >= dK && dN > deficitThreshold:
		primary, qty = urea, dose(dN, urea.divisor, kgPerAcre)
		details = append(details, deficiencyLine("Nitrogen", dN), urea.rationale)
	case dP >= dN && dP >= dK && dP > deficitThreshold:
		primary, qty = dap, dose(dP, dap.divisor, kgPerAcre)
		details = append(details, deficiencyLine("Phosphorus", dP), dap.rationale)
	case dK > deficitThreshold:
		primary, qty = mop, dose(dK, mop.divisor, kgPerAcre)
		details = append(details, deficiencyLine("Potassium", dK), mop.rationale)
	default:
		primary, qty = npkComplex, jsRound(maintenanceDose*kgPerAcre)
		details = append(details, "Soil nutrients are near optimal levels", "Maintenance fertilization recommended")
	}

	for _, s := range []struct {
		f       fertilizer
		deficit float64
	}{{urea, dN}, {dap, dP}, {mop, dK}} {
		if s.deficit > supplementThreshold && s.f.name != primary.name {
			details = append(details, fmt.Sprintf("Also apply %s: %d kg/acre for %s",
				s.f.short, dose(s.deficit, s.f.divisor, supplementFactor), s.f.nutrient))
		}
	}

	return FertilizerRecommendation{
		FertilizerName:  primary.name,
		QuantityPerAcre: qty,
		Schedule:        primary.schedule,
		Details:         details,
	}
}

func dose(deficit, divisor, factor float64) int {
	return jsRound(deficit / divisor * factor)
}

// jsRound rounds half toward positive infinity.
func jsRound(v float64) int {
	return int(math.Floor(v + 0.5))
}

func deficiencyLine(nutrient string, deficit float64) string {
	return nutrient + " deficiency: " + strconv.FormatFloat(deficit, 'f', -1, 64) + " mg/kg below optimal"
}
