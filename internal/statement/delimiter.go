package statement

// delimiterCandidates is also the tie-break preference order.
var delimiterCandidates = []rune{';', ',', '\t'}

// sampleSize is how many leading non-blank lines the detector inspects.
const sampleSize = 3

// fieldCountReward strongly favors candidates that produce the expected
// 3-column shape (date, description, amount) over raw field count, so a
// delimiter that merely appears inside description text does not win.
const fieldCountReward = 10

// DetectDelimiter inspects up to the first 3 non-blank lines and picks
// the most plausible column separator. Deterministic: equal scores fall
// back to the candidate order ';', ',', tab.
func DetectDelimiter(lines []string) rune {
	sample := lines
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	best := delimiterCandidates[0]
	bestScore := -1
	for _, candidate := range delimiterCandidates {
		score := 0
		for _, line := range sample {
			n := len(SplitFields(line, candidate))
			if n == 3 {
				score += fieldCountReward
			} else {
				score += n
			}
		}
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	return best
}
