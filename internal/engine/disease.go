package engine

import (
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"
)

// Severity grades how damaging a disease is.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// DiseaseRecord is a canned entry in the disease table.
type DiseaseRecord struct {
	Name       string   `json:"name"`
	Severity   Severity `json:"severity"`
	Causes     string   `json:"causes"`
	Prevention string   `json:"prevention"`
	Treatment  string   `json:"treatment"`
}

// DiseaseDetection is a record picked for a crop together with a confidence.
type DiseaseDetection struct {
	DiseaseRecord
	CropType   string `json:"crop_type"`
	Confidence int    `json:"confidence"`
}

const (
	defaultDiseaseCrop = "tomato"
	minConfidence      = 75
	confidenceSpread   = 20
)

var diseaseTable = map[string][]DiseaseRecord{
	"rice": {
		{Name: "Blast Disease", Severity: SeverityHigh, Causes: "Fungus Magnaporthe oryzae; humid conditions",
			Prevention: "Use resistant varieties, balanced fertilization", Treatment: "Apply Tricyclazole or Isoprothiolane fungicides"},
		{Name: "Bacterial Leaf Blight", Severity: SeverityMedium, Causes: "Xanthomonas oryzae bacteria; infected seeds",
			Prevention: "Use certified seeds, proper drainage", Treatment: "Copper-based bactericides, remove infected plants"},
	},
	"wheat": {
		{Name: "Rust Disease", Severity: SeverityHigh, Causes: "Puccinia fungi; cool moist conditions",
			Prevention: "Plant resistant varieties, early sowing", Treatment: "Apply propiconazole or tebuconazole"},
		{Name: "Powdery Mildew", Severity: SeverityMedium, Causes: "Blumeria graminis fungus; high humidity",
			Prevention: "Adequate spacing, avoid excess nitrogen", Treatment: "Sulfur-based fungicides"},
	},
	"tomato": {
		{Name: "Early Blight", Severity: SeverityMedium, Causes: "Alternaria solani fungus; warm wet weather",
			Prevention: "Crop rotation, remove infected debris", Treatment: "Chlorothalonil or mancozeb sprays"},
		{Name: "Late Blight", Severity: SeverityHigh, Causes: "Phytophthora infestans; cool moist conditions",
			Prevention: "Resistant varieties, good air circulation", Treatment: "Metalaxyl or copper fungicides"},
	},
	"potato": {
		{Name: "Late Blight", Severity: SeverityHigh, Causes: "Phytophthora infestans; humid conditions",
			Prevention: "Use certified tubers, proper hilling", Treatment: "Mancozeb or metalaxyl applications"},
		{Name: "Common Scab", Severity: SeverityLow, Causes: "Streptomyces scabies; alkaline soil",
			Prevention: "Maintain soil pH 5.0-5.2, avoid lime", Treatment: "No chemical control; use resistant varieties"},
	},
	"cotton": {
		{Name: "Bacterial Blight", Severity: SeverityMedium, Causes: "Xanthomonas citri; infected seeds",
			Prevention: "Acid-delinted certified seeds", Treatment: "Streptocycline sprays"},
		{Name: "Verticillium Wilt", Severity: SeverityHigh, Causes: "Verticillium dahliae fungus; soil-borne",
			Prevention: "Long crop rotation, resistant varieties", Treatment: "No effective chemical control"},
	},
}

// DiseasesFor returns the table entries for a crop, falling back to tomato.
func DiseasesFor(cropType string) []DiseaseRecord {
	if records, ok := diseaseTable[strings.ToLower(strings.TrimSpace(cropType))]; ok {
		return slices.Clone(records)
	}
	return slices.Clone(diseaseTable[defaultDiseaseCrop])
}

// DiseaseDetector simulates disease detection by picking a random entry from
// the table. It is safe for concurrent use.
type DiseaseDetector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDiseaseDetector returns a detector drawing from src. A nil src seeds
// from the clock.
func NewDiseaseDetector(src rand.Source) *DiseaseDetector {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>1|1)
	}
	return &DiseaseDetector{rng: rand.New(src)}
}

// Detect picks a disease for cropType with a confidence from 75 to 94.
func (d *DiseaseDetector) Detect(cropType string) DiseaseDetection {
	records := DiseasesFor(cropType)

	d.mu.Lock()
	pick := d.rng.IntN(len(records))
	confidence := d.rng.IntN(confidenceSpread) + minConfidence
	d.mu.Unlock()

	return DiseaseDetection{
		DiseaseRecord: records[pick],
		CropType:      cropType,
		Confidence:    confidence,
	}
}

var defaultDetector = NewDiseaseDetector(nil)

// DetectDisease runs Detect on a process-wide detector seeded from the clock.
func DetectDisease(cropType string) DiseaseDetection {
	return defaultDetector.Detect(cropType)
}
