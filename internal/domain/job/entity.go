package job

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type RemoteType string

const (
	RemoteTypeRemote      RemoteType = "remote"
	RemoteTypeHybrid      RemoteType = "hybrid"
	RemoteTypeOnsite      RemoteType = "onsite"
	RemoteTypeUnspecified RemoteType = "unspecified"
)

// ParseRemoteType maps a stored remote classification onto the enum.
// Unknown or empty values become RemoteTypeUnspecified.
func ParseRemoteType(s string) RemoteType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remote", "fully_remote", "fully remote":
		return RemoteTypeRemote
	case "hybrid":
		return RemoteTypeHybrid
	case "onsite", "on-site", "on_site", "office", "in-office":
		return RemoteTypeOnsite
	default:
		return RemoteTypeUnspecified
	}
}

type SalaryRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

func (r SalaryRange) IsEmpty() bool {
	return r.Min == nil && r.Max == nil
}

// Effective returns the maximum when present, otherwise the minimum.
func (r SalaryRange) Effective() (int, bool) {
	if r.Max != nil {
		return *r.Max, true
	}
	if r.Min != nil {
		return *r.Min, true
	}
	return 0, false
}

type Job struct {
	ID             uuid.UUID
	Title          string
	Company        string
	Location       string
	Industry       string
	EmploymentType string
	RemoteType     RemoteType
	Salary         SalaryRange
	Description    string
	Keywords       []string
	IsActive       bool
	CreatedAt      time.Time
}
