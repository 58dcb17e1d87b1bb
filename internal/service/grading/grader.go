// Package grading turns a submitted answer set into a score, a percentage
// and a proficiency level. It is pure: no storage, no I/O.
package grading

import (
	"github.com/edustage/backend/internal/models"
)

// Score counts the points earned for a submission. Questions carry no
// answer key, so every question counts as correct and the score equals the
// question count.
// TODO: compare submitted answers against stored keys once questions carry
// an answer_key column.
func Score(questions []models.Question, answers []models.SubmittedAnswer) int {
	return len(questions)
}

// Percentage is score over total as a percentage. A test with no questions
// grades to 0 rather than dividing by zero.
func Percentage(score, totalQuestions int) float64 {
	if totalQuestions == 0 {
		return 0
	}
	return float64(score) / float64(totalQuestions) * 100
}
