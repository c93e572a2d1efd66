package models

import "time"

// Quiz defines a timed multiple-choice quiz and its scoring parameters.
//
// RightMark and NegativeMark are both stored as non-negative magnitudes;
// NegativeMark is always subtracted during scoring regardless of the sign a
// caller supplies.
type Quiz struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"size:255;not null" json:"name"`
	QuestionCount    int        `gorm:"not null" json:"question_count"`
	RightMark        float64    `gorm:"not null" json:"right_mark"`
	NegativeMark     float64    `gorm:"not null" json:"negative_mark"`
	TimeLimitMinutes int        `gorm:"not null" json:"time_limit_minutes"`
	IsPaid           bool       `gorm:"not null;default:false" json:"is_paid"`
	Amount           *float64   `json:"amount"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Questions        []Question `gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions,omitempty"`
}

// IsReady reports whether the quiz has its full question set attached and may
// accept submissions.
func (q Quiz) IsReady() bool {
	return q.QuestionCount > 0 && len(q.Questions) == q.QuestionCount
}
