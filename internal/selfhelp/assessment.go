package selfhelp

import (
	"fmt"

	"github.com/voiceout/platform/internal/domain"
)

type band struct {
	max   int
	label string
}

var severityBands = map[domain.AssessmentType][]band{
	domain.AssessmentPHQ9: {
		{4, "minimal"},
		{9, "mild"},
		{14, "moderate"},
		{19, "moderately_severe"},
		{27, "severe"},
	},
	domain.AssessmentGAD7: {
		{4, "minimal"},
		{9, "mild"},
		{14, "moderate"},
		{21, "severe"},
	},
}

// Severity maps a questionnaire score to its standard severity band. Unknown
// types and out-of-range scores return "".
func Severity(kind domain.AssessmentType, score int) string {
	if score < 0 {
		return ""
	}
	for _, b := range severityBands[kind] {
		if score <= b.max {
			return b.label
		}
	}
	return ""
}

var questionCounts = map[domain.AssessmentType]int{
	domain.AssessmentPHQ9: 9,
	domain.AssessmentGAD7: 7,
}

// ScoreAnswers validates a questionnaire's answers (each 0..3) and returns
// their total.
func ScoreAnswers(kind domain.AssessmentType, answers []int) (int, error) {
	want, ok := questionCounts[kind]
	if !ok {
		return 0, fmt.Errorf("unknown assessment type %q", kind)
	}
	if len(answers) != want {
		return 0, fmt.Errorf("%s expects %d answers, got %d", kind, want, len(answers))
	}
	total := 0
	for i, a := range answers {
		if a < 0 || a > 3 {
			return 0, fmt.Errorf("answer %d out of range: %d", i+1, a)
		}
		total += a
	}
	return total, nil
}
