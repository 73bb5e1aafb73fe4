package infer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/solheim/briefd/internal/brand"
)

// Audience resolution order: an explicit description in the text, a known
// demographic keyword, a match against the brand's audience profiles, then
// the profile flagged primary. Malformed profiles (no name) are skipped
// rather than failing the call.

const (
	explicitAudienceConfidence = 0.85
	profileAudienceConfidence  = 0.85
	primaryAudienceConfidence  = 0.6
)

var explicitAudienceRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btarget(?:ing|ed\s+at)?\s+([^.,!?\n]{3,60})`),
	regexp.MustCompile(`(?i)\baudience\s+(?:is|of)\s+([^.,!?\n]{3,60})`),
	regexp.MustCompile(`(?i)\baimed\s+at\s+([^.,!?\n]{3,60})`),
	regexp.MustCompile(`(?i)\bfor\s+(?:an?\s+)?audience\s+of\s+([^.,!?\n]{3,60})`),
}

// demographicKeywords maps common demographic shorthand to canonical
// audience names. Checked in order; more specific phrases come first.
var demographicKeywords = []struct {
	keyword string
	name    string
}{
	{"small business owners", "Small Business Owners"},
	{"fitness enthusiasts", "Fitness Enthusiasts"},
	{"remote workers", "Remote Workers"},
	{"first-time buyers", "First-Time Buyers"},
	{"gen z", "Gen Z"},
	{"gen-z", "Gen Z"},
	{"zoomers", "Gen Z"},
	{"millennials", "Millennials"},
	{"gen x", "Gen X"},
	{"boomers", "Baby Boomers"},
	{"c-suite", "C-Suite Executives"},
	{"executives", "C-Suite Executives"},
	{"founders", "Founders"},
	{"entrepreneurs", "Entrepreneurs"},
	{"developers", "Developers"},
	{"engineers", "Engineers"},
	{"designers", "Designers"},
	{"marketers", "Marketers"},
	{"freelancers", "Freelancers"},
	{"parents", "Parents"},
	{"moms", "Parents"},
	{"dads", "Parents"},
	{"students", "Students"},
	{"teachers", "Teachers"},
	{"gamers", "Gamers"},
}

var ageRangeRe = regexp.MustCompile(`(?i)\bages?\s+(\d{1,2})\s*(?:-|–|to)\s*(\d{1,2})\b`)

// MatchAudience resolves the audience a message is addressed to. Exported
// because the brief merger re-runs it against the current message only,
// keeping stale history out of cross-turn audience decisions.
func MatchAudience(message string, profiles []brand.AudienceProfile) FieldValue[string] {
	text := lower(message)

	for _, re := range explicitAudienceRes {
		if m := re.FindStringSubmatch(message); m != nil {
			if desc, ok := cleanTopic(m[1], 3, 60); ok {
				return NewFieldValue(annotateAgeRange(desc, message), explicitAudienceConfidence)
			}
		}
	}

	for _, dk := range demographicKeywords {
		if strings.Contains(text, dk.keyword) {
			return NewFieldValue(annotateAgeRange(dk.name, message), explicitAudienceConfidence)
		}
	}

	for _, p := range profiles {
		if p.Name == "" {
			continue
		}
		if profileMentioned(text, p) {
			return NewFieldValue(p.Name, profileAudienceConfidence)
		}
	}

	if primary, ok := brand.Primary(profiles); ok {
		return NewFieldValue(primary.Name, primaryAudienceConfidence)
	}

	return Pending[string]()
}

func profileMentioned(text string, p brand.AudienceProfile) bool {
	if strings.Contains(text, lower(p.Name)) {
		return true
	}
	for _, group := range [][]string{p.JobTitles, p.Industries, p.Psychographics} {
		for _, term := range group {
			if term != "" && strings.Contains(text, lower(term)) {
				return true
			}
		}
	}
	return false
}

func annotateAgeRange(name, message string) string {
	m := ageRangeRe.FindStringSubmatch(message)
	if m == nil {
		return name
	}
	return fmt.Sprintf("%s (ages %s-%s)", name, m[1], m[2])
}
