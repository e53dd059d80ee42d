package studyplan

import (
	"sort"

	"github.com/edutrack/edutrack/internal/quiz"
)

// DefaultThreshold is the mastery cutoff: topics averaging strictly below
// this are flagged for extra study.
const DefaultThreshold = 70

// Averages computes the arithmetic mean score per course over the full
// attempt history. Courses with zero attempts are excluded, not treated as
// zero.
func Averages(history quiz.AttemptHistory) map[string]float64 {
	out := make(map[string]float64, len(history))
	for courseID, attempts := range history {
		if len(attempts) == 0 {
			continue
		}
		total := 0
		for _, a := range attempts {
			total += a.Score
		}
		out[courseID] = float64(total) / float64(len(attempts))
	}
	return out
}

// LowScoreTopics returns the topic names whose course mean is strictly below
// threshold. A mean exactly at the threshold passes. Course IDs iterate in
// sorted order so the output is stable; IDs missing from topicMap map to
// themselves.
func LowScoreTopics(history quiz.AttemptHistory, threshold float64, topicMap map[string]string) []string {
	avgs := Averages(history)

	ids := make([]string, 0, len(avgs))
	for id := range avgs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var topics []string
	for _, id := range ids {
		if avgs[id] >= threshold {
			continue
		}
		if name, ok := topicMap[id]; ok {
			topics = append(topics, name)
		} else {
			topics = append(topics, id)
		}
	}
	return topics
}

// Recommend maps every under-threshold topic through the resource catalog
// and concatenates the matches. An empty result means the student has no
// weak topics (or flagged topics have no curated resources); it is not an
// error.
func Recommend(history quiz.AttemptHistory, threshold float64, topicMap map[string]string, catalog map[string][]Resource) []Resource {
	out := []Resource{}
	for _, topic := range LowScoreTopics(history, threshold, topicMap) {
		out = append(out, catalog[topic]...)
	}
	return out
}
