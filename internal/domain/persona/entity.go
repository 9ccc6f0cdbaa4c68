package persona

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type RemotePreference string

const (
	RemotePreferenceAny    RemotePreference = "any"
	RemotePreferenceRemote RemotePreference = "remote"
	RemotePreferenceHybrid RemotePreference = "hybrid"
	RemotePreferenceOnsite RemotePreference = "onsite"
)

func ParseRemotePreference(s string) RemotePreference {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remote":
		return RemotePreferenceRemote
	case "hybrid":
		return RemotePreferenceHybrid
	case "onsite", "on-site", "on_site", "office":
		return RemotePreferenceOnsite
	default:
		return RemotePreferenceAny
	}
}

type Persona struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Preferences is the fully typed preference record consumed by the scorers.
// List values are trimmed, lowercased and de-duplicated; salary bounds are nil when unset.
type Preferences struct {
	RequiredSkills      []string
	NiceToHaveSkills    []string
	SalaryMin           *int
	SalaryMax           *int
	RemotePreference    RemotePreference
	PreferredLocations  []string
	PreferredIndustries []string
	TitleKeywords       []string
	ExcludedCompanies   []string
}

func (p Preferences) HasSalaryBand() bool {
	return p.SalaryMin != nil || p.SalaryMax != nil
}
