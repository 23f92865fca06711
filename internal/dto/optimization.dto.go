package dto

type RunOptimizationRequest struct {
	TerritoryID *uint  `json:"territory_id"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	RunType     string `json:"run_type" binding:"omitempty,oneof=MANUAL SCHEDULED"`
	AutoApply   bool   `json:"auto_apply"`
}
