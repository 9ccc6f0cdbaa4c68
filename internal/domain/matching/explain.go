package matching

import "strings"

const (
	maxExplanationReasons = 4
	FallbackExplanation   = "General match based on your persona preferences."
)

// Explain joins the first four non-empty reasons in scorer order into one sentence.
func Explain(results ...FactorResult) string {
	reasons := make([]string, 0, maxExplanationReasons)
	for _, r := range results {
		for _, s := range r.Reasons {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			reasons = append(reasons, s)
			if len(reasons) == maxExplanationReasons {
				return strings.Join(reasons, "; ") + "."
			}
		}
	}
	if len(reasons) == 0 {
		return FallbackExplanation
	}
	return strings.Join(reasons, "; ") + "."
}
