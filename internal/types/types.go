package types

// PredictRequest represents the request structure for the predict endpoint
type PredictRequest struct {
	Date            string `json:"date" binding:"required"`
	AssignmentGroup string `json:"assignment_group" binding:"required"`
}

// PredictResponse echoes the request inputs alongside the priority breakdown
type PredictResponse struct {
	Date            string             `json:"date"`
	AssignmentGroup string             `json:"assignment_group"`
	Predictions     map[string]float64 `json:"predictions"`
}

// HistoryEntry is one recorded prediction, newest first in listings
type HistoryEntry struct {
	ID              string             `json:"id"`
	Date            string             `json:"date"`
	AssignmentGroup string             `json:"assignment_group"`
	Predictions     map[string]float64 `json:"predictions"`
	CreatedAt       string             `json:"created_at"`
}
