package scoring

// ChallengeState tallies attempts in a scored mode. Values are replaced
// wholesale by UpdateChallengeState, never edited in place.
type ChallengeState struct {
	Attempts     int
	CorrectCount int
	Streak       int
	BestStreak   int
	LastResult   *AccuracyResult
}

func NewChallengeState() ChallengeState {
	return ChallengeState{}
}

// UpdateChallengeState returns the state after recording result. The input
// is left untouched.
func UpdateChallengeState(state ChallengeState, result AccuracyResult) ChallengeState {
	next := state
	next.Attempts++
	if result.Correct() {
		next.CorrectCount++
		next.Streak++
	} else {
		next.Streak = 0
	}
	next.BestStreak = max(next.BestStreak, next.Streak)
	last := result
	next.LastResult = &last
	return next
}

// Accuracy is the fraction of attempts that scored.
func (s ChallengeState) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.Attempts)
}
