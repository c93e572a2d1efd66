package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// AnswerEntry records one question of an attempt as it was scored.
//
// Answer holds the canonical option snapshotted at scoring time, so the stored
// sheet stays stable even if the question bank is edited later. UserAnswer is
// nil when the question was not attempted; IsCorrect is nil whenever
// correctness was not resolved.
type AnswerEntry struct {
	QuestionID uint    `json:"question_id"`
	Answer     string  `json:"answer"`
	UserAnswer *string `json:"user_answer"`
	IsCorrect  *bool   `json:"is_correct"`
}

// Attempted reports whether the user supplied an answer for this entry.
func (e AnswerEntry) Attempted() bool {
	return e.UserAnswer != nil
}

// Decided reports whether correctness has been resolved for this entry.
func (e AnswerEntry) Decided() bool {
	return e.IsCorrect != nil
}

// Result is one scored attempt by one user at one quiz. Rows are append-only:
// a result is written exactly once by the scoring engine and never mutated,
// so every historical attempt stays available for ranking.
type Result struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	QuizID            uint           `gorm:"not null;index" json:"quiz_id"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	QuestionAnswer    datatypes.JSON `gorm:"type:json" json:"-"`
	TotalMarksGot     float64        `gorm:"not null" json:"total_marks_got"`
	RightAnswerCount  int            `gorm:"not null" json:"right_answer_count"`
	WrongAnswerCount  int            `gorm:"not null" json:"wrong_answer_count"`
	QuestionAttempted int            `gorm:"not null" json:"question_attempted"`
	CreatedAt         time.Time      `json:"created_at"`
	Quiz              Quiz           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"quiz,omitempty"`
	User              User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
}

// SetAnswers serializes the answer sheet into the JSON storage column.
func (r *Result) SetAnswers(entries []AnswerEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		r.QuestionAnswer = datatypes.JSON([]byte("[]"))
		return
	}
	r.QuestionAnswer = datatypes.JSON(data)
}

// Answers deserializes the stored answer sheet.
func (r Result) Answers() []AnswerEntry {
	if len(r.QuestionAnswer) == 0 {
		return nil
	}

	var entries []AnswerEntry
	if err := json.Unmarshal(r.QuestionAnswer, &entries); err != nil {
		return nil
	}

	return entries
}
