package models

import "time"

// Option letters accepted as answers.
const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
	OptionD = "D"
)

// Question is a single multiple-choice entry in a quiz's question bank.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	QuizID    uint      `gorm:"not null;index" json:"quiz_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	OptionA   string    `gorm:"size:512;not null" json:"option_a"`
	OptionB   string    `gorm:"size:512;not null" json:"option_b"`
	OptionC   string    `gorm:"size:512;not null" json:"option_c"`
	OptionD   string    `gorm:"size:512;not null" json:"option_d"`
	Answer    string    `gorm:"size:1;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidOption reports whether the given letter names one of the four options.
func IsValidOption(letter string) bool {
	switch letter {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	default:
		return false
	}
}

// IsCorrect reports whether the selected option matches the canonical answer.
func (q Question) IsCorrect(selected string) bool {
	return selected == q.Answer
}
