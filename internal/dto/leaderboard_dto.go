package dto

import "time"

// LeaderboardEntry is one ranked row of a quiz leaderboard. Tied scores share
// a rank; display order among ties follows submission time.
type LeaderboardEntry struct {
	Rank          int       `json:"rank"`
	ResultID      uint      `json:"result_id"`
	QuizID        uint      `json:"quiz_id"`
	UserID        uint      `json:"user_id"`
	UserName      string    `json:"user_name"`
	TotalMarksGot float64   `json:"total_marks_got"`
	RightAnswers  int       `json:"right_answer_count"`
	WrongAnswers  int       `json:"wrong_answer_count"`
	Attempted     int       `json:"question_attempted"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// LeaderboardResponse is a page of the full ranked sequence for a quiz.
type LeaderboardResponse struct {
	QuizID      uint               `json:"quiz_id"`
	Entries     []LeaderboardEntry `json:"entries"`
	CurrentPage int                `json:"current_page"`
	TotalPages  int                `json:"total_pages"`
	Total       int                `json:"total"`
}

// RankResponse pairs a single scored attempt with its dense rank.
type RankResponse struct {
	Rank   int            `json:"rank"`
	Result ResultResponse `json:"result"`
}
