package compare

// Scoreboard tallies which controller won each compared metric.
type Scoreboard struct {
	PrimaryWins  int      `json:"primaryWins"`
	BaselineWins int      `json:"baselineWins"`
	Undecided    int      `json:"undecided"`
	Metrics      []string `json:"metrics"`
}

// Score counts verdicts over the given results.
func Score(results []Result) Scoreboard {
	sb := Scoreboard{Metrics: make([]string, 0, len(results))}
	for _, r := range results {
		sb.Metrics = append(sb.Metrics, r.Metric)
		switch r.Verdict() {
		case PrimaryBetter:
			sb.PrimaryWins++
		case BaselineBetter:
			sb.BaselineWins++
		default:
			sb.Undecided++
		}
	}
	return sb
}

// Winner summarizes the tally in one sentence.
func (s Scoreboard) Winner() string {
	switch {
	case s.PrimaryWins > s.BaselineWins:
		return "ML Agent shows better overall performance"
	case s.BaselineWins > s.PrimaryWins:
		return "Static Controller shows better overall performance"
	default:
		return "Both approaches show comparable performance"
	}
}
