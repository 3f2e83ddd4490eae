package models

import (
	"fmt"
	"time"
)

// Analysis lifecycle statuses. A completed record may later be marked
// reviewed or invalid by an operator correcting the prediction.
const (
	AnalysisStatusCompleted = "completed"
	AnalysisStatusReviewed  = "reviewed"
	AnalysisStatusInvalid   = "invalid"
)

// Pagination bounds for analysis listings.
const (
	DefaultAnalysisLimit = 50
	MaxAnalysisLimit     = 500
)

// AnalysisRecord is one persisted inference: the prediction outcome plus the
// sanitized input payload that produced it, kept for audit, history and
// manual correction.
type AnalysisRecord struct {
	ID              string             `json:"id"`
	CowID           string             `json:"cow_id"`
	Prediction      int                `json:"prediction"`
	PredictionLabel string             `json:"prediction_label"`
	Probability     float64            `json:"probability"`
	Payload         map[string]float64 `json:"payload"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       *time.Time         `json:"updated_at,omitempty"`
}

// AnalysisUpdate carries the fields an operator may change after the fact.
// Nil pointers mean "leave unchanged".
type AnalysisUpdate struct {
	CowID  *string `json:"cow_id,omitempty"`
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// Validate checks the update for accepted values.
func (u *AnalysisUpdate) Validate() error {
	if u.CowID == nil && u.Status == nil && u.Notes == nil {
		return fmt.Errorf("no fields to update")
	}
	if u.Status != nil {
		switch *u.Status {
		case AnalysisStatusCompleted, AnalysisStatusReviewed, AnalysisStatusInvalid:
		default:
			return fmt.Errorf("invalid status: %s", *u.Status)
		}
	}
	if u.CowID != nil && *u.CowID == "" {
		return fmt.Errorf("cow_id cannot be empty")
	}
	return nil
}

// AnalysisFilter narrows and pages analysis listings.
type AnalysisFilter struct {
	CowID  string
	Status string
	Limit  int
	Offset int
}

// Normalize applies the default page size and the hard cap.
func (f *AnalysisFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultAnalysisLimit
	}
	if f.Limit > MaxAnalysisLimit {
		f.Limit = MaxAnalysisLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
