package engine

// IrrigationStatus classifies soil moisture.
type IrrigationStatus string

const (
	IrrigationCritical IrrigationStatus = "critical"
	IrrigationWarning  IrrigationStatus = "warning"
	IrrigationExcess   IrrigationStatus = "excess"
	IrrigationOptimal  IrrigationStatus = "optimal"
)

// IrrigationAdvice is the water-management verdict for a moisture reading.
type IrrigationAdvice struct {
	Status          IrrigationStatus `json:"status"`
	Message         string           `json:"message"`
	MoisturePercent float64          `json:"moisture_percent"`
}

// AdviseIrrigation maps a soil moisture percentage to an irrigation status.
func AdviseIrrigation(moisture float64) IrrigationAdvice {
	a := IrrigationAdvice{MoisturePercent: moisture}
	switch {
	case moisture < 30:
		a.Status, a.Message = IrrigationCritical, "Irrigation Required Immediately"
	case moisture < 50:
		a.Status, a.Message = IrrigationWarning, "Irrigation Recommended Soon"
	case moisture > 80:
		a.Status, a.Message = IrrigationExcess, "Excess Moisture - Stop Irrigation"
	default:
		a.Status, a.Message = IrrigationOptimal, "Moisture Level Optimal"
	}
	return a
}
