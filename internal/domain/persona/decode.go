package persona

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// rawPreferences mirrors the stored JSON document. Keys are matched after
// stripping separators, so both required_skills and requiredSkills decode.
type rawPreferences struct {
	RequiredSkills      []string `mapstructure:"requiredskills"`
	NiceToHaveSkills    []string `mapstructure:"nicetohaveskills"`
	MinSalary           *int     `mapstructure:"minsalary"`
	MaxSalary           *int     `mapstructure:"maxsalary"`
	RemotePreference    string   `mapstructure:"remotepreference"`
	PreferredLocations  []string `mapstructure:"preferredlocations"`
	PreferredIndustries []string `mapstructure:"preferredindustries"`
	TitleKeywords       []string `mapstructure:"titlekeywords"`
	ExcludedCompanies   []string `mapstructure:"excludedcompanies"`
}

// DecodePreferences converts a loosely typed preference document into Preferences.
// Numeric strings are accepted for salaries and comma separated strings for lists.
func DecodePreferences(doc map[string]any) (Preferences, error) {
	var raw rawPreferences

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return Preferences{}, err
	}
	if err := dec.Decode(normalizeKeys(doc)); err != nil {
		return Preferences{}, fmt.Errorf("decode persona preferences: %w", err)
	}

	p := Preferences{
		RequiredSkills:      cleanList(raw.RequiredSkills),
		NiceToHaveSkills:    cleanList(raw.NiceToHaveSkills),
		SalaryMin:           positiveOrNil(raw.MinSalary),
		SalaryMax:           positiveOrNil(raw.MaxSalary),
		RemotePreference:    ParseRemotePreference(raw.RemotePreference),
		PreferredLocations:  cleanList(raw.PreferredLocations),
		PreferredIndustries: cleanList(raw.PreferredIndustries),
		TitleKeywords:       cleanList(raw.TitleKeywords),
		ExcludedCompanies:   cleanList(raw.ExcludedCompanies),
	}
	if p.SalaryMin != nil && p.SalaryMax != nil && *p.SalaryMin > *p.SalaryMax {
		p.SalaryMin, p.SalaryMax = p.SalaryMax, p.SalaryMin
	}
	return p, nil
}

// normalizeKeys folds keys to their separator-free lowercase form. When two
// keys collide, a key with separators (required_skills) beats one without
// (requiredSkills); ties are broken by key order.
func normalizeKeys(doc map[string]any) map[string]any {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := hasKeySeparator(keys[i]), hasKeySeparator(keys[j])
		if si != sj {
			return !si
		}
		return keys[i] < keys[j]
	})

	out := make(map[string]any, len(doc))
	for _, k := range keys {
		out[strings.ToLower(keySeparators.Replace(k))] = doc[k]
	}
	return out
}

var keySeparators = strings.NewReplacer("_", "", "-", "", " ", "")

func hasKeySeparator(k string) bool {
	return strings.ContainsAny(k, "_- ")
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func positiveOrNil(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	n := *v
	return &n
}
