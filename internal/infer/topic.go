package infer

import (
	"regexp"
	"strings"
	"unicode"
)

// Topic extraction runs against the current message only and works through a
// priority chain: explicit phrases, quoted spans, product-name phrases, a
// descriptive-phrase fallback, then a stop-word-stripped residual. A message
// that reads like a modification of an existing plan ("instead of that, make
// it more playful") must not produce a topic at all — refinements never
// overwrite what the user already told us the work is about.

var modificationRe = regexp.MustCompile(`(?i)\b(?:instead\s+of|rather\s+than|i'?d\s+rather|make\s+(?:it|them|that|this)\s+(?:more|less)\b|fewer\b|scrap\s+that|on\s+second\s+thought|change\s+(?:it|that|the)\b)`)

const (
	explicitTopicConfidence    = 0.85
	quotedTopicConfidence      = 0.9
	productTopicConfidence     = 0.8
	descriptiveTopicConfidence = 0.7
	residualTopicConfidence    = 0.5
)

var explicitTopicRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:about|regarding)\s+([^.,!?\n]{3,80})`),
	regexp.MustCompile(`(?i)\bon\s+the\s+topic\s+of\s+([^.,!?\n]{3,80})`),
	regexp.MustCompile(`(?i)\b(?:posts?|content|videos?|reels?|carousels?|banners?|ads?|graphics?|campaign|plan|calendar|flyers?|posters?|stor(?:y|ies)|thumbnails?|slides?|assets?)\s+for\s+([^.,!?\n]{3,80})`),
	regexp.MustCompile(`(?i)\bpromot(?:e|ing)\s+([^.,!?\n]{3,80})`),
	regexp.MustCompile(`(?i)\blaunch(?:ing)?\s+(?:of\s+)?([^.,!?\n]{3,80})`),
	regexp.MustCompile(`(?i)\bintroduc(?:es|ing)\s+([^.,!?\n]{3,80})`),
}

var quotedTopicRes = []*regexp.Regexp{
	regexp.MustCompile(`"([^"]{3,60})"`),
	regexp.MustCompile(`(?:^|\s)'([^']{3,60})'(?:[\s.,!?]|$)`),
}

var productTopicRe = regexp.MustCompile(`(?i)\b(?:my|our|the)\s+((?:[a-z0-9&'-]+\s+){1,4}?(?:app|product|service|company|brand|business|platform|tool|store|course|collection|line))\b`)

var descriptiveTopicRe = regexp.MustCompile(`(?i)\b((?:(?:polished|cinematic|modern|minimal(?:ist)?|bold|playful|elegant|professional|vibrant|sleek|clean|luxurious|edgy|retro|dreamy|moody)\s+)+(?:video|post|image|graphic|design|banner|animation|ad|visual|look|aesthetic|vibe))\b`)

// leadingArticles are stripped from the front of a captured phrase.
var leadingArticles = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "our": true, "your": true,
}

// danglingWords are connective fragments stripped from the tail of a phrase
// so topics never end in "of" or "for".
var danglingWords = map[string]bool{
	"of": true, "for": true, "the": true, "a": true, "an": true, "to": true,
	"on": true, "in": true, "with": true, "at": true, "by": true, "and": true,
	"or": true, "my": true, "our": true, "your": true, "that": true, "this": true,
}

// residualStopWords covers chatter, request verbs, platform and content
// nouns, and intent keywords — nothing in this set can be the topic itself.
var residualStopWords = map[string]bool{
	"i": true, "we": true, "you": true, "me": true, "us": true, "my": true,
	"our": true, "your": true, "a": true, "an": true, "the": true, "need": true,
	"want": true, "make": true, "create": true, "design": true, "please": true,
	"can": true, "could": true, "would": true, "like": true, "to": true,
	"for": true, "of": true, "and": true, "or": true, "some": true, "few": true,
	"that": true, "this": true, "it": true, "them": true, "they": true,
	"these": true, "those": true, "on": true, "in": true, "with": true,
	"is": true, "are": true, "be": true, "get": true, "hey": true, "hi": true,
	"new": true, "up": true, "let's": true, "lets": true, "also": true,
	"content": true, "plan": true, "calendar": true, "day": true, "days": true,
	"week": true, "weeks": true, "month": true, "months": true,
	"instagram": true, "linkedin": true, "facebook": true, "twitter": true,
	"youtube": true, "tiktok": true, "insta": true, "email": true, "web": true,
	"website": true, "print": true, "presentation": true,
	"post": true, "posts": true, "story": true, "stories": true, "reel": true,
	"reels": true, "carousel": true, "carousels": true, "banner": true,
	"banners": true, "ad": true, "ads": true, "thumbnail": true,
	"thumbnails": true, "slide": true, "slides": true, "flyer": true,
	"flyers": true, "poster": true, "posters": true, "video": true,
	"videos": true, "image": true, "images": true, "graphic": true,
	"graphics": true,
	"build": true, "boost": true, "drive": true, "grow": true, "increase": true,
	"authority": true, "awareness": true, "engagement": true, "sales": true,
	"signups": true, "leads": true, "education": true, "announcement": true,
}

// extractTopic returns the best topic phrase found in the message, or a
// pending value when the message is a modification of an existing plan or no
// usable phrase survives cleaning.
func extractTopic(message string) FieldValue[string] {
	if strings.TrimSpace(message) == "" {
		return Pending[string]()
	}
	if modificationRe.MatchString(message) {
		return Pending[string]()
	}

	for _, re := range explicitTopicRes {
		if m := re.FindStringSubmatch(message); m != nil {
			if topic, ok := cleanTopic(m[1], 4, 60); ok && !noiseOnly(topic) {
				return NewFieldValue(topic, explicitTopicConfidence)
			}
		}
	}

	for _, re := range quotedTopicRes {
		if m := re.FindStringSubmatch(message); m != nil {
			if topic, ok := cleanTopic(m[1], 3, 60); ok {
				return NewFieldValue(topic, quotedTopicConfidence)
			}
		}
	}

	if m := productTopicRe.FindStringSubmatch(message); m != nil {
		if topic, ok := cleanTopic(m[1], 4, 60); ok {
			return NewFieldValue(topic, productTopicConfidence)
		}
	}

	if m := descriptiveTopicRe.FindStringSubmatch(message); m != nil {
		if topic, ok := cleanTopic(m[1], 4, 60); ok {
			return NewFieldValue(topic, descriptiveTopicConfidence)
		}
	}

	if topic, ok := residualTopic(message); ok {
		return NewFieldValue(topic, residualTopicConfidence)
	}

	return Pending[string]()
}

// residualTopic strips stop words and numbers from the whole message and
// keeps what remains if it still reads like a short subject phrase.
func residualTopic(message string) (string, bool) {
	words := strings.Fields(lower(message))
	var kept []string
	for _, w := range words {
		w = strings.Trim(w, `.,!?;:"'()`)
		if w == "" || residualStopWords[w] || isNumeric(w) {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 || len(kept) > 6 {
		return "", false
	}
	phrase := strings.Join(kept, " ")
	if len(phrase) < 3 || len(phrase) > 40 {
		return "", false
	}
	return capitalizeFirst(phrase), true
}

// noiseOnly reports whether every word of a captured phrase is a stop word.
// "posts for LinkedIn please" captures "LinkedIn please", which names no
// subject at all and must not become the topic.
func noiseOnly(topic string) bool {
	for _, w := range strings.Fields(lower(topic)) {
		if !residualStopWords[strings.Trim(w, `.,!?;:"'`)] && !isNumeric(w) {
			return false
		}
	}
	return true
}

// cleanTopic trims punctuation, strips leading articles and trailing
// dangling words, enforces length bounds, and capitalizes the result.
func cleanTopic(raw string, minLen, maxLen int) (string, bool) {
	words := strings.Fields(strings.TrimSpace(raw))
	for len(words) > 0 && leadingArticles[lower(words[0])] {
		words = words[1:]
	}
	for len(words) > 0 && danglingWords[lower(strings.Trim(words[len(words)-1], `.,!?;:"'`))] {
		words = words[:len(words)-1]
	}
	topic := strings.Trim(strings.Join(words, " "), ` .,!?;:"'`)
	if len(topic) < minLen || len(topic) > maxLen {
		return "", false
	}
	return capitalizeFirst(lower(topic)), true
}

func lower(s string) string { return strings.ToLower(s) }

func capitalizeFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
