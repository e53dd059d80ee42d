package studyplan

import (
	"sort"
	"time"

	"github.com/edutrack/edutrack/internal/quiz"
)

// ProgressPoint is one plotted attempt on the academic progress chart.
type ProgressPoint struct {
	CompletedAt time.Time `json:"completed_at"`
	Score       int       `json:"score"`
	CourseID    string    `json:"course_id"`
}

// ProgressPoints flattens a full attempt history into a chronological score
// series across all courses.
func ProgressPoints(history quiz.AttemptHistory) []ProgressPoint {
	out := []ProgressPoint{}
	for courseID, attempts := range history {
		for _, a := range attempts {
			out = append(out, ProgressPoint{
				CompletedAt: a.CompletedAt,
				Score:       a.Score,
				CourseID:    courseID,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CourseID < out[j].CourseID
		}
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out
}
