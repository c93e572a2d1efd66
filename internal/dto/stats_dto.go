package dto

// QuestionStatsEntry aggregates correctness across every stored answer sheet
// that references the question.
type QuestionStatsEntry struct {
	QuestionID     uint    `json:"question_id"`
	TotalAnswers   int     `json:"total_answers"`
	CorrectAnswers int     `json:"correct_answers"`
	PercentCorrect float64 `json:"percent_correct"`
}

// QuizStatsResponse summarises a quiz across all submissions. HighestMark and
// AverageMark are nil when the quiz has no submissions; callers must not read
// them as zero.
type QuizStatsResponse struct {
	QuizID           uint     `json:"quiz_id"`
	TotalSubmissions int      `json:"total_submissions"`
	HighestMark      *float64 `json:"highest_mark"`
	AverageMark      *float64 `json:"average_mark"`
}
