package infer

import "regexp"

// pattern is one row of a field registry: a text heuristic voting for a
// candidate value with a base confidence. Registries are package-level,
// compiled once, and never mutated, so they are safe to share across
// concurrently processed drafts.
type pattern struct {
	re         *regexp.Regexp
	value      string
	confidence float64
}

// Registration order matters: when two candidates aggregate to the same
// score, the one whose pattern was registered first wins.

var taskTypePatterns = []pattern{
	{regexp.MustCompile(`(?i)\bcontent\s+calendar\b`), string(TaskMultiAssetPlan), 0.95},
	{regexp.MustCompile(`(?i)\bcontent\s+plan\b`), string(TaskMultiAssetPlan), 0.95},
	{regexp.MustCompile(`(?i)\bposting\s+schedule\b`), string(TaskMultiAssetPlan), 0.9},
	{regexp.MustCompile(`(?i)\b\d+\s+(?:[a-z]+\s+){0,2}(?:posts|images|graphics|assets|pieces|videos|reels|stories|carousels|banners|ads|flyers|thumbnails|slides)\b`), string(TaskMultiAssetPlan), 0.9},
	{regexp.MustCompile(`(?i)\b(?:series|batch|set)\s+of\b`), string(TaskMultiAssetPlan), 0.85},
	{regexp.MustCompile(`(?i)\bmultiple\s+(?:posts|images|assets|pieces|versions)\b`), string(TaskMultiAssetPlan), 0.8},
	{regexp.MustCompile(`(?i)\bcampaign\b`), string(TaskCampaign), 0.9},
	{regexp.MustCompile(`(?i)\bad\s+set\b`), string(TaskCampaign), 0.8},
	{regexp.MustCompile(`(?i)\bone\s+(?:post|image|graphic|banner|video|reel|story|carousel|ad|flyer|poster|thumbnail|slide)\b`), string(TaskSingleAsset), 0.9},
	{regexp.MustCompile(`(?i)\ban?\s+(?:[a-z]+\s+){0,2}(?:post|image|graphic|banner|video|reel|story|carousel|ad|flyer|poster|thumbnail|slide)\b`), string(TaskSingleAsset), 0.85},
}

var intentPatterns = []pattern{
	{regexp.MustCompile(`(?i)\bsign[\s-]?ups?\b`), string(IntentSignups), 0.85},
	{regexp.MustCompile(`(?i)\b(?:registrations?|subscribers?|waitlist|leads?)\b`), string(IntentSignups), 0.8},
	{regexp.MustCompile(`(?i)\b(?:authority|thought\s+leader(?:ship)?|credibility)\b`), string(IntentAuthority), 0.85},
	{regexp.MustCompile(`(?i)\b(?:expertise|be\s+seen\s+as\s+an?\s+expert)\b`), string(IntentAuthority), 0.8},
	{regexp.MustCompile(`(?i)\b(?:awareness|brand\s+recognition|get\s+the\s+word\s+out)\b`), string(IntentAwareness), 0.85},
	{regexp.MustCompile(`(?i)\b(?:visibility|reach\s+more\s+people)\b`), string(IntentAwareness), 0.75},
	{regexp.MustCompile(`(?i)\b(?:sales|sell(?:ing)?|conversions?|revenue)\b`), string(IntentSales), 0.85},
	{regexp.MustCompile(`(?i)\b(?:purchases?|drive\s+orders|buy\s+now)\b`), string(IntentSales), 0.8},
	{regexp.MustCompile(`(?i)\bengag(?:e|ement|ing\s+our)\b`), string(IntentEngagement), 0.85},
	{regexp.MustCompile(`(?i)\b(?:likes\s+and\s+comments|interaction|community\s+building)\b`), string(IntentEngagement), 0.75},
	{regexp.MustCompile(`(?i)\b(?:educat(?:e|ion|ional)|teach|tutorial|how[\s-]?to|tips\s+and\s+tricks)\b`), string(IntentEducation), 0.85},
	{regexp.MustCompile(`(?i)\bexplain(?:er|ing)?\b`), string(IntentEducation), 0.75},
	{regexp.MustCompile(`(?i)\b(?:announc(?:e|ement|ing)|unveil(?:ing)?|reveal(?:ing)?)\b`), string(IntentAnnouncement), 0.85},
	{regexp.MustCompile(`(?i)\b(?:launch(?:ing)?|introduc(?:e|es|ing)|new\s+release)\b`), string(IntentAnnouncement), 0.8},
}

var platformPatterns = []pattern{
	{regexp.MustCompile(`(?i)\binstagram\b`), string(PlatformInstagram), 0.95},
	{regexp.MustCompile(`(?i)\binsta\b`), string(PlatformInstagram), 0.9},
	{regexp.MustCompile(`(?i)\breels?\b`), string(PlatformInstagram), 0.8},
	{regexp.MustCompile(`(?i)\bcarousels?\b`), string(PlatformInstagram), 0.6},
	{regexp.MustCompile(`(?i)\blinked\s?in\b`), string(PlatformLinkedIn), 0.95},
	{regexp.MustCompile(`(?i)\bfacebook\b`), string(PlatformFacebook), 0.95},
	{regexp.MustCompile(`(?i)\bfb\b`), string(PlatformFacebook), 0.85},
	{regexp.MustCompile(`(?i)\btwitter\b`), string(PlatformTwitter), 0.95},
	{regexp.MustCompile(`(?i)\btweets?\b`), string(PlatformTwitter), 0.9},
	{regexp.MustCompile(`(?i)\bx\s+post\b`), string(PlatformTwitter), 0.8},
	{regexp.MustCompile(`(?i)\byou\s?tube\b`), string(PlatformYouTube), 0.95},
	{regexp.MustCompile(`(?i)\bthumbnails?\b`), string(PlatformYouTube), 0.6},
	{regexp.MustCompile(`(?i)\btik\s?tok\b`), string(PlatformTikTok), 0.95},
	{regexp.MustCompile(`(?i)\bprint(?:ed)?\b`), string(PlatformPrint), 0.85},
	{regexp.MustCompile(`(?i)\b(?:flyers?|brochures?)\b`), string(PlatformPrint), 0.8},
	{regexp.MustCompile(`(?i)\bposters?\b`), string(PlatformPrint), 0.7},
	{regexp.MustCompile(`(?i)\bwebsite\b`), string(PlatformWeb), 0.85},
	{regexp.MustCompile(`(?i)\bweb\s+banner\b`), string(PlatformWeb), 0.85},
	{regexp.MustCompile(`(?i)\b(?:landing\s+page|blog)\b`), string(PlatformWeb), 0.75},
	{regexp.MustCompile(`(?i)\bemails?\b`), string(PlatformEmail), 0.9},
	{regexp.MustCompile(`(?i)\bnewsletters?\b`), string(PlatformEmail), 0.85},
	{regexp.MustCompile(`(?i)\bpresentations?\b`), string(PlatformPresentation), 0.9},
	{regexp.MustCompile(`(?i)\b(?:slide\s?deck|pitch\s+deck|powerpoint|keynote)\b`), string(PlatformPresentation), 0.85},
	{regexp.MustCompile(`(?i)\bslides?\b`), string(PlatformPresentation), 0.7},
}

var contentTypePatterns = []pattern{
	{regexp.MustCompile(`(?i)\breels?\b`), string(ContentReel), 0.9},
	{regexp.MustCompile(`(?i)\bcarousels?\b`), string(ContentCarousel), 0.9},
	{regexp.MustCompile(`(?i)\bstor(?:y|ies)\b`), string(ContentStory), 0.85},
	{regexp.MustCompile(`(?i)\bbanners?\b`), string(ContentBanner), 0.9},
	{regexp.MustCompile(`(?i)\bthumbnails?\b`), string(ContentThumbnail), 0.9},
	{regexp.MustCompile(`(?i)\bflyers?\b`), string(ContentFlyer), 0.9},
	{regexp.MustCompile(`(?i)\bposters?\b`), string(ContentPoster), 0.85},
	{regexp.MustCompile(`(?i)\bslides?\b`), string(ContentSlide), 0.8},
	{regexp.MustCompile(`(?i)\badvertisements?\b`), string(ContentAd), 0.85},
	{regexp.MustCompile(`(?i)\bads?\b`), string(ContentAd), 0.8},
	{regexp.MustCompile(`(?i)\bvideos?\b`), string(ContentVideo), 0.85},
	{regexp.MustCompile(`(?i)\bposts?\b`), string(ContentPost), 0.85},
}
