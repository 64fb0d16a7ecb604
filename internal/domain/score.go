package domain

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

// StalenessScores rates every repository in the set between 0 and 1, where
// higher means "more likely abandoned". The score is a display hint only:
// it compares each repository's time since last push against the
// distribution of the whole set, then dampens repositories that still
// collect stars. It never influences what gets deleted.
func StalenessScores(repos []Repository, now time.Time) map[string]float64 {
	scores := make(map[string]float64, len(repos))
	if len(repos) == 0 {
		return scores
	}

	ages := make([]float64, len(repos))
	for i, repo := range repos {
		ages[i] = ageDays(repo, now)
	}

	median, err := stats.Median(ages)
	if err != nil {
		return scores
	}
	deviation, err := stats.StandardDeviation(ages)
	if err != nil {
		return scores
	}

	for i, repo := range repos {
		var score float64
		if deviation == 0 {
			// Uniform ages carry no ranking information.
			score = 0.5
		} else {
			z := (ages[i] - median) / deviation
			score = 1 / (1 + math.Exp(-z))
		}
		scores[repo.ID()] = score / (1 + math.Log1p(float64(repo.Stars)))
	}
	return scores
}

func ageDays(repo Repository, now time.Time) float64 {
	if repo.PushedAt.IsZero() || repo.PushedAt.After(now) {
		return 0
	}
	return now.Sub(repo.PushedAt).Hours() / 24
}
