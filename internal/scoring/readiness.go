// Package scoring computes how ready a candidate is for a role from their stated skills.
package scoring

import (
	"math"
	"strings"
)

// ReadinessResult partitions the required skills into matched and missing, in the order of
// the required list.
type ReadinessResult struct {
	Score   int      `json:"score"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// Score matches each required skill against the candidate skills. A required skill counts
// as matched when, case-insensitively, it contains a candidate skill or is contained by one.
// This is plain substring containment, so "ML" matches "HTML" and "R" matches almost anything.
// Score is round(100 * matched / required) and 0 for an empty required list.
func Score(current, required []string) ReadinessResult {
	candidates := normalize(current)

	result := ReadinessResult{
		Matched: []string{},
		Missing: []string{},
	}

	for _, skill := range required {
		if Matches(skill, candidates) {
			result.Matched = append(result.Matched, skill)
		} else {
			result.Missing = append(result.Missing, skill)
		}
	}

	if len(required) > 0 {
		result.Score = int(math.Round(100 * float64(len(result.Matched)) / float64(len(required))))
	}

	return result
}

// Matches reports whether required matches any of the already lower-cased candidates.
func Matches(required string, candidates []string) bool {
	r := strings.ToLower(strings.TrimSpace(required))
	for _, c := range candidates {
		if strings.Contains(c, r) || strings.Contains(r, c) {
			return true
		}
	}
	return false
}

// normalize lower-cases and trims candidate skills, dropping blanks. An empty candidate would
// otherwise be a substring of every required skill.
func normalize(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
