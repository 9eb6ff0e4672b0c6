package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CropPrediction stores a soil sample and the crop picked for it.
type CropPrediction struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Nitrogen      float64        `gorm:"column:nitrogen;not null" json:"nitrogen"`
	Phosphorus    float64        `gorm:"column:phosphorus;not null" json:"phosphorus"`
	Potassium     float64        `gorm:"column:potassium;not null" json:"potassium"`
	PHLevel       float64        `gorm:"column:ph_level;not null" json:"ph_level"`
	Season        string         `gorm:"column:season;type:varchar(20);not null" json:"season"`
	Temperature   *float64       `gorm:"column:temperature" json:"temperature"`
	Humidity      *float64       `gorm:"column:humidity" json:"humidity"`
	Rainfall      *float64       `gorm:"column:rainfall" json:"rainfall"`
	PredictedCrop string         `gorm:"column:predicted_crop;not null" json:"predicted_crop"`
	Confidence    int            `gorm:"column:confidence_score;not null" json:"confidence_score"`
	Tips          datatypes.JSON `gorm:"column:tips" json:"tips"`
	CreatedAt     time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (CropPrediction) TableName() string {
	return "crop_predictions"
}

func (p *CropPrediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type FertilizerRecord struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	CropType        string         `gorm:"column:crop_type;not null" json:"crop_type"`
	CurrentN        float64        `gorm:"column:current_n;not null" json:"current_n"`
	CurrentP        float64        `gorm:"column:current_p;not null" json:"current_p"`
	CurrentK        float64        `gorm:"column:current_k;not null" json:"current_k"`
	FertilizerName  string         `gorm:"column:fertilizer_name;not null" json:"fertilizer_name"`
	QuantityPerAcre int            `gorm:"column:quantity_per_acre;not null" json:"quantity_per_acre"`
	Schedule        string         `gorm:"column:application_schedule;not null" json:"application_schedule"`
	Details         datatypes.JSON `gorm:"column:details" json:"details"`
	CreatedAt       time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (FertilizerRecord) TableName() string {
	return "fertilizer_recommendations"
}

func (r *FertilizerRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type DiseaseDetection struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	CropType    string    `gorm:"column:crop_type;not null" json:"crop_type"`
	DiseaseName string    `gorm:"column:disease_name;not null" json:"disease_name"`
	Severity    string    `gorm:"column:severity;type:varchar(10);not null" json:"severity"`
	Confidence  int       `gorm:"column:confidence_score;not null" json:"confidence_score"`
	Causes      string    `gorm:"column:causes" json:"causes"`
	Prevention  string    `gorm:"column:prevention" json:"prevention"`
	Treatment   string    `gorm:"column:treatment" json:"treatment"`
	ImageURL    *string   `gorm:"column:image_url" json:"image_url"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (DiseaseDetection) TableName() string {
	return "disease_detections"
}

func (d *DiseaseDetection) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
