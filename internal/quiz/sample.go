package quiz

import "math/rand"

// sampleQuestions draws n questions uniformly at random without replacement
// using a partial Fisher-Yates shuffle: only the first n swap positions are
// materialized, so the draw stays uniform and the input slice is untouched.
// If n >= len(qs) the whole bank is returned in shuffled order.
func sampleQuestions(qs []Question, n int) []Question {
	if n > len(qs) {
		n = len(qs)
	}

	picked := make([]Question, len(qs))
	copy(picked, qs)

	for i := 0; i < n; i++ {
		j := i + rand.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}

	return picked[:n]
}
