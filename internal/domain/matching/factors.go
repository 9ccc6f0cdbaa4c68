package matching

import (
	"fmt"
	"strings"
	"unicode"

	"persona-match/internal/domain/job"
	"persona-match/internal/domain/persona"
)

const (
	requiredSkillCeiling  = 25.0
	neutralRequiredSkills = requiredSkillCeiling / 2
	niceToHaveCeiling     = 10.0
	niceToHavePerMatch    = 2.0

	salaryUnspecified = 5.0
	salaryBelowMin    = 5.0
	salaryAboveMax    = 15.0
	salaryInRange     = 20.0
	salaryMeetsMin    = 18.0
	salaryPartial     = 10.0

	remoteNeutral  = 8.0
	remoteExact    = 15.0
	remoteClose    = 10.0
	remoteNear     = 8.0
	remoteMismatch = 3.0

	locationNeutral = 8.0
	locationMissing = 5.0
	locationExact   = 15.0
	locationPartial = 10.0
	locationNone    = 3.0

	industryNeutral  = 5.0
	industryPerMatch = 5.0
	industryNone     = 3.0

	titleNeutral  = 8.0
	titlePerMatch = 8.0
	titleNone     = 3.0
)

// MissingRequiredSkillsReason prefixes the reason emitted when the required skill gate fails.
const MissingRequiredSkillsReason = "Missing required skills"

// ScoreSkills returns 0..35. A persona with required skills of which none
// appear in the job is gated to zero.
func ScoreSkills(j job.Job, p persona.Preferences) FactorResult {
	tokens, text := jobSkillTokens(j)

	reasons := make([]string, 0, 2)
	requiredScore := neutralRequiredSkills
	if len(p.RequiredSkills) > 0 {
		matched := matchSkills(p.RequiredSkills, tokens, text)
		if len(matched) == 0 {
			return FactorResult{
				Score:   0,
				Reasons: []string{fmt.Sprintf("%s: %s", MissingRequiredSkillsReason, strings.Join(p.RequiredSkills, ", "))},
			}
		}
		ratio := float64(len(matched)) / float64(len(p.RequiredSkills))
		requiredScore = Clamp(ratio*requiredSkillCeiling, 0, requiredSkillCeiling)
		reasons = append(reasons, fmt.Sprintf("Matches %d/%d required skills (%s)", len(matched), len(p.RequiredSkills), strings.Join(matched, ", ")))
	}

	bonus := 0.0
	if len(p.NiceToHaveSkills) > 0 {
		matched := matchSkills(p.NiceToHaveSkills, tokens, text)
		if len(matched) > 0 {
			bonus = Clamp(float64(len(matched))*niceToHavePerMatch, 0, niceToHaveCeiling)
			reasons = append(reasons, fmt.Sprintf("Has %d nice-to-have skills (%s)", len(matched), strings.Join(matched, ", ")))
		}
	}

	return FactorResult{Score: Clamp(requiredScore+bonus, 0, MaxSkillScore), Reasons: reasons}
}

// jobSkillTokens is the union of the job keywords and the description keywords,
// plus the joined lowercase text used for multi-word skills.
func jobSkillTokens(j job.Job) ([]string, string) {
	tokens := make([]string, 0, len(j.Keywords)+16)
	for _, k := range j.Keywords {
		k = Normalize(k)
		if k == "" {
			continue
		}
		tokens = append(tokens, k)
	}
	tokens = append(tokens, ExtractKeywords(j.Description)...)

	text := Normalize(strings.Join(j.Keywords, " ") + " " + j.Description)
	return tokens, text
}

func matchSkills(skills, tokens []string, text string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = Normalize(s)
		if s == "" {
			continue
		}
		// Description tokens are split on spaces and punctuation, so skills
		// like "machine learning" or "node.js" are matched against the full text.
		if strings.ContainsFunc(s, isTokenSeparator) {
			if strings.Contains(text, s) {
				out = append(out, s)
			}
			continue
		}
		for _, t := range tokens {
			if strings.Contains(t, s) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func isTokenSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}

// ScoreSalary returns 0..20 comparing the job's max-or-min salary to the persona band.
func ScoreSalary(j job.Job, p persona.Preferences) FactorResult {
	eff, ok := j.Salary.Effective()
	if !ok {
		return FactorResult{Score: salaryUnspecified}
	}

	switch {
	case p.SalaryMin != nil && eff < *p.SalaryMin:
		return FactorResult{Score: salaryBelowMin, Reasons: []string{"Salary below your minimum"}}
	case p.SalaryMax != nil && eff > *p.SalaryMax:
		return FactorResult{Score: salaryAboveMax, Reasons: []string{"Salary exceeds your target range"}}
	case p.SalaryMin != nil && p.SalaryMax != nil:
		return FactorResult{Score: salaryInRange, Reasons: []string{"Salary within your range"}}
	case p.SalaryMin != nil:
		return FactorResult{Score: salaryMeetsMin, Reasons: []string{"Salary meets your minimum"}}
	default:
		return FactorResult{Score: salaryPartial}
	}
}

// ScoreRemote returns 0..15.
func ScoreRemote(j job.Job, p persona.Preferences) FactorResult {
	pref := p.RemotePreference
	if pref == "" || pref == persona.RemotePreferenceAny {
		return FactorResult{Score: remoteNeutral}
	}
	jt := j.RemoteType
	if string(pref) == string(jt) {
		return FactorResult{Score: remoteExact, Reasons: []string{fmt.Sprintf("Work arrangement matches your %s preference", pref)}}
	}

	var score float64
	switch {
	case pref == persona.RemotePreferenceRemote && jt == job.RemoteTypeHybrid:
		score = remoteClose
	case pref == persona.RemotePreferenceHybrid && jt == job.RemoteTypeRemote:
		score = remoteClose
	case pref == persona.RemotePreferenceHybrid && jt == job.RemoteTypeOnsite:
		score = remoteNear
	case pref == persona.RemotePreferenceOnsite && jt == job.RemoteTypeHybrid:
		score = remoteNear
	default:
		return FactorResult{Score: remoteMismatch}
	}
	return FactorResult{Score: score, Reasons: []string{fmt.Sprintf("%s role is compatible with your %s preference", capitalize(string(jt)), pref)}}
}

// ScoreLocation returns 0..15.
func ScoreLocation(j job.Job, p persona.Preferences) FactorResult {
	if len(p.PreferredLocations) == 0 {
		return FactorResult{Score: locationNeutral}
	}
	loc := Normalize(j.Location)
	if loc == "" {
		return FactorResult{Score: locationMissing}
	}

	for _, pl := range p.PreferredLocations {
		if ContainsFold(loc, pl) {
			return FactorResult{Score: locationExact, Reasons: []string{fmt.Sprintf("Located in %s", j.Location)}}
		}
	}
	for _, pl := range p.PreferredLocations {
		for _, w := range ExtractKeywords(pl) {
			if strings.Contains(loc, w) {
				return FactorResult{Score: locationPartial, Reasons: []string{fmt.Sprintf("Near your preferred location %s", pl)}}
			}
		}
	}
	return FactorResult{Score: locationNone}
}

// ScoreIndustry returns 0..10 by searching company and description.
func ScoreIndustry(j job.Job, p persona.Preferences) FactorResult {
	if len(p.PreferredIndustries) == 0 {
		return FactorResult{Score: industryNeutral}
	}
	n, matched := CountOverlap(p.PreferredIndustries, []string{j.Company + " " + j.Description})
	if n == 0 {
		return FactorResult{Score: industryNone}
	}
	return FactorResult{
		Score:   Clamp(float64(n)*industryPerMatch, 0, MaxIndustryScore),
		Reasons: []string{fmt.Sprintf("Industry match: %s", strings.Join(matched, ", "))},
	}
}

// ScoreTitle returns 0..15.
func ScoreTitle(j job.Job, p persona.Preferences) FactorResult {
	if len(p.TitleKeywords) == 0 {
		return FactorResult{Score: titleNeutral}
	}
	n, matched := CountOverlap(p.TitleKeywords, []string{j.Title})
	if n == 0 {
		return FactorResult{Score: titleNone}
	}
	return FactorResult{
		Score:   Clamp(float64(n)*titlePerMatch, 0, MaxTitleScore),
		Reasons: []string{fmt.Sprintf("Title matches: %s", strings.Join(matched, ", "))},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
