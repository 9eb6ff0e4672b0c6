package recommendations

import (
	"context"
	"encoding/json"
	"fmt"

	"farmconnect-backend/internal/domain"
	"farmconnect-backend/internal/engine"
	"farmconnect-backend/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Service runs the engine and stores each result against the caller.
type Service struct {
	DB       *gorm.DB
	Detector *engine.DiseaseDetector
}

// NewService wires a Service with a clock-seeded disease detector.
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db, Detector: engine.NewDiseaseDetector(nil)}
}

type CropResult struct {
	ID uuid.UUID `json:"id"`
	engine.CropRecommendation
	// Alternatives lists every other matching crop, best first.
	Alternatives []engine.CropRecommendation `json:"alternatives"`
}

type FertilizerResult struct {
	ID uuid.UUID `json:"id"`
	engine.FertilizerRecommendation
	Optimal   engine.NPK `json:"optimal"`
	KnownCrop bool       `json:"known_crop"`
}

type DiseaseResult struct {
	ID uuid.UUID `json:"id"`
	engine.DiseaseDetection
}

func (s *Service) RecommendCrop(ctx context.Context, userID uuid.UUID, sample engine.SoilSample) (*CropResult, error) {
	rec := engine.RecommendCrop(sample)
	alternatives := []engine.CropRecommendation{}
	if matched := engine.MatchCrops(sample); len(matched) > 1 {
		alternatives = matched[1:]
	}

	tips, _ := json.Marshal(rec.Tips)
	row := domain.CropPrediction{
		UserID:        userID,
		Nitrogen:      sample.Nitrogen,
		Phosphorus:    sample.Phosphorus,
		Potassium:     sample.Potassium,
		PHLevel:       sample.PHLevel,
		Season:        string(sample.Season),
		Temperature:   sample.Temperature,
		Humidity:      sample.Humidity,
		Rainfall:      sample.Rainfall,
		PredictedCrop: rec.Crop,
		Confidence:    rec.Confidence,
		Tips:          datatypes.JSON(tips),
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("save crop prediction: %w", err)
	}
	metrics.Recommendations.WithLabelValues("crop", rec.Crop).Inc()
	zerolog.Ctx(ctx).Debug().Str("user_id", userID.String()).Str("crop", rec.Crop).Int("confidence", rec.Confidence).Msg("crop recommended")

	return &CropResult{ID: row.ID, CropRecommendation: rec, Alternatives: alternatives}, nil
}

func (s *Service) RecommendFertilizer(ctx context.Context, userID uuid.UUID, in engine.FertilizerInput) (*FertilizerResult, error) {
	rec := engine.RecommendFertilizer(in)
	optimal, known := engine.OptimalNPK(in.Crop)

	details, _ := json.Marshal(rec.Details)
	row := domain.FertilizerRecord{
		UserID:          userID,
		CropType:        in.Crop,
		CurrentN:        in.CurrentN,
		CurrentP:        in.CurrentP,
		CurrentK:        in.CurrentK,
		FertilizerName:  rec.FertilizerName,
		QuantityPerAcre: rec.QuantityPerAcre,
		Schedule:        rec.Schedule,
		Details:         datatypes.JSON(details),
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("save fertilizer recommendation: %w", err)
	}
	metrics.Recommendations.WithLabelValues("fertilizer", rec.FertilizerName).Inc()

	return &FertilizerResult{ID: row.ID, FertilizerRecommendation: rec, Optimal: optimal, KnownCrop: known}, nil
}

func (s *Service) DetectDisease(ctx context.Context, userID uuid.UUID, cropType string, imageURL *string) (*DiseaseResult, error) {
	det := s.Detector.Detect(cropType)
	row := domain.DiseaseDetection{
		UserID:      userID,
		CropType:    cropType,
		DiseaseName: det.Name,
		Severity:    string(det.Severity),
		Confidence:  det.Confidence,
		Causes:      det.Causes,
		Prevention:  det.Prevention,
		Treatment:   det.Treatment,
		ImageURL:    imageURL,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("save disease detection: %w", err)
	}
	metrics.Recommendations.WithLabelValues("disease", det.Name).Inc()

	return &DiseaseResult{ID: row.ID, DiseaseDetection: det}, nil
}

// AdviseIrrigation is not persisted.
func (s *Service) AdviseIrrigation(moisture float64) engine.IrrigationAdvice {
	advice := engine.AdviseIrrigation(moisture)
	metrics.Recommendations.WithLabelValues("irrigation", string(advice.Status)).Inc()
	return advice
}

// ClampLimit maps a requested page size into [1, MaxHistoryLimit].
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	}
	return limit
}

func (s *Service) CropHistory(ctx context.Context, userID uuid.UUID, limit int) ([]domain.CropPrediction, error) {
	out := []domain.CropPrediction{}
	err := s.history(ctx, userID, limit).Find(&out).Error
	return out, err
}

func (s *Service) FertilizerHistory(ctx context.Context, userID uuid.UUID, limit int) ([]domain.FertilizerRecord, error) {
	out := []domain.FertilizerRecord{}
	err := s.history(ctx, userID, limit).Find(&out).Error
	return out, err
}

func (s *Service) DiseaseHistory(ctx context.Context, userID uuid.UUID, limit int) ([]domain.DiseaseDetection, error) {
	out := []domain.DiseaseDetection{}
	err := s.history(ctx, userID, limit).Find(&out).Error
	return out, err
}

func (s *Service) history(ctx context.Context, userID uuid.UUID, limit int) *gorm.DB {
	return s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Limit(ClampLimit(limit))
}
