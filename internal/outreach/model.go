package outreach

import (
	"fmt"
	"strings"

	"applycraft-backend/internal/shared/textutil"
)

// Input caps, in code points.
const (
	MaxJobDescriptionChars = 5000
	MaxCompanyChars        = 140
	MaxRoleTitleChars      = 140
	MaxNameChars           = 140
	MaxHeadlineChars       = 200
	MaxSummaryChars        = 800
	MaxSkills              = 12
	MaxSkillsChars         = 400
)

// NamePlaceholder signs drafts for candidates who have not set a name.
const NamePlaceholder = "[Your Name]"

// JobContext is the part of an application record a generation reads.
type JobContext struct {
	ID             string
	Company        string
	RoleTitle      string
	JobDescription string
}

// Sanitize applies the prompt caps.
func (j JobContext) Sanitize() JobContext {
	return JobContext{
		ID:             j.ID,
		Company:        textutil.ClampTrimmed(j.Company, MaxCompanyChars),
		RoleTitle:      textutil.ClampTrimmed(j.RoleTitle, MaxRoleTitleChars),
		JobDescription: textutil.Clamp(strings.TrimSpace(j.JobDescription), MaxJobDescriptionChars),
	}
}

// ProfileContext is the optional candidate data woven into the drafts.
type ProfileContext struct {
	Name     string
	Headline string
	Summary  string
	Skills   []string
}

// Sanitize applies the prompt caps. Blank skills are dropped before the
// count cap applies.
func (p ProfileContext) Sanitize() ProfileContext {
	out := ProfileContext{
		Name:     textutil.ClampTrimmed(p.Name, MaxNameChars),
		Headline: textutil.ClampTrimmed(p.Headline, MaxHeadlineChars),
		Summary:  textutil.ClampTrimmed(p.Summary, MaxSummaryChars),
	}
	for _, skill := range p.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		out.Skills = append(out.Skills, skill)
		if len(out.Skills) == MaxSkills {
			break
		}
	}
	return out
}

// IsEmpty reports whether no profile field is set.
func (p ProfileContext) IsEmpty() bool {
	return strings.TrimSpace(p.Name) == "" &&
		strings.TrimSpace(p.Headline) == "" &&
		strings.TrimSpace(p.Summary) == "" &&
		len(p.Skills) == 0
}

// DisplayName returns the signature name, falling back to NamePlaceholder.
func (p ProfileContext) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return NamePlaceholder
}

// Draft holds the three generated documents.
type Draft struct {
	DM          string `json:"dm"`
	Email       string `json:"email"`
	CoverLetter string `json:"coverLetter"`
}

// Complete reports whether every document is non-empty after trimming.
func (d Draft) Complete() bool {
	return strings.TrimSpace(d.DM) != "" &&
		strings.TrimSpace(d.Email) != "" &&
		strings.TrimSpace(d.CoverLetter) != ""
}

// Range is an inclusive word-count window.
type Range struct {
	Min int
	Max int
}

// Contains reports whether n falls inside the window.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Limits are the word-count windows for each document.
type Limits struct {
	DM          Range
	Email       Range
	CoverLetter Range
}

// DefaultLimits is used for both the acceptance check and the retry wording.
var DefaultLimits = Limits{
	DM:          Range{Min: 80, Max: 120},
	Email:       Range{Min: 200, Max: 280},
	CoverLetter: Range{Min: 300, Max: 400},
}
