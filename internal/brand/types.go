package brand

// AudienceProfile describes one audience a brand creates content for.
// Profiles are authored by the user (or imported from a brand kit) and are
// read-only to the inference engine.
type AudienceProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	JobTitles      []string `json:"job_titles,omitempty"`
	Industries     []string `json:"industries,omitempty"`
	Psychographics []string `json:"psychographics,omitempty"`
	Demographics   string   `json:"demographics,omitempty"`
	IsPrimary      bool     `json:"is_primary"`
}

// Primary returns the profile flagged as the brand's primary audience,
// or false if none is flagged.
func Primary(profiles []AudienceProfile) (AudienceProfile, bool) {
	for _, p := range profiles {
		if p.IsPrimary && p.Name != "" {
			return p, true
		}
	}
	return AudienceProfile{}, false
}
