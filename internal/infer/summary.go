package infer

import (
	"strconv"
	"strings"
)

// Display names for summaries. Content nouns are singular; plural forms are
// used when a multi-asset plan has a known quantity.
var platformNames = map[Platform]string{
	PlatformInstagram:    "Instagram",
	PlatformLinkedIn:     "LinkedIn",
	PlatformFacebook:     "Facebook",
	PlatformTwitter:      "Twitter",
	PlatformYouTube:      "YouTube",
	PlatformTikTok:       "TikTok",
	PlatformPrint:        "Print",
	PlatformWeb:          "Web",
	PlatformEmail:        "Email",
	PlatformPresentation: "Presentation",
}

var contentNames = map[ContentType]string{
	ContentPost:      "Post",
	ContentStory:     "Story",
	ContentReel:      "Reel",
	ContentCarousel:  "Carousel",
	ContentBanner:    "Banner",
	ContentAd:        "Ad",
	ContentThumbnail: "Thumbnail",
	ContentSlide:     "Slide",
	ContentFlyer:     "Flyer",
	ContentPoster:    "Poster",
	ContentVideo:     "Video",
}

var contentPlurals = map[ContentType]string{
	ContentPost:      "Posts",
	ContentStory:     "Stories",
	ContentReel:      "Reels",
	ContentCarousel:  "Carousels",
	ContentBanner:    "Banners",
	ContentAd:        "Ads",
	ContentThumbnail: "Thumbnails",
	ContentSlide:     "Slides",
	ContentFlyer:     "Flyers",
	ContentPoster:    "Posters",
	ContentVideo:     "Videos",
}

var intentPhrases = map[Intent]string{
	IntentSignups:      "for Signups",
	IntentAuthority:    "for Authority",
	IntentAwareness:    "for Awareness",
	IntentSales:        "for Sales",
	IntentEngagement:   "for Engagement",
	IntentEducation:    "for Education",
	IntentAnnouncement: "for an Announcement",
}

// Summarize renders one display line from an inference result, in strict
// order: duration-or-quantity, platform, content/task noun, then the topic
// suffix. Falls back to the topic alone, then "New Brief".
func Summarize(res InferenceResult) string {
	var parts []string

	taskType, _ := res.TaskType.Get()
	quantity, hasQuantity := res.Quantity.Get()
	multiPlan := taskType == TaskMultiAssetPlan && hasQuantity && quantity >= 2

	// Lead: a duration reads better than a day-normalized count.
	if duration, ok := res.Duration.Get(); ok {
		parts = append(parts, duration)
	} else if multiPlan {
		parts = append(parts, strconv.Itoa(quantity))
	}

	if platform, ok := res.Platform.Get(); ok {
		parts = append(parts, platformNames[platform])
	}

	switch contentType, hasContent := res.ContentType.Get(); {
	case hasContent && multiPlan:
		parts = append(parts, contentPlurals[contentType])
	case hasContent:
		parts = append(parts, contentNames[contentType])
	case taskType == TaskMultiAssetPlan:
		parts = append(parts, "Content Plan")
	case len(parts) > 0:
		// Only a platform or span is known; name the work generically.
		parts = append(parts, "Content")
	}

	base := strings.Join(parts, " ")

	topic, hasTopic := res.Topic.Get()
	topicSuffix := summaryTopic(topic)

	if intent, ok := res.Intent.Get(); ok && topicSuffix == "" && tokenCount(base) <= 2 && base != "" {
		base += " " + intentPhrases[intent]
	}

	switch {
	case base != "" && topicSuffix != "":
		return base + " - " + topicSuffix
	case base != "":
		return base
	case hasTopic && topicSuffix != "":
		return topicSuffix
	}
	return "New Brief"
}

// summaryTopic strips dangling connective words and applies the display
// length bounds; an empty return means the topic is not shown.
func summaryTopic(topic string) string {
	if topic == "" {
		return ""
	}
	words := strings.Fields(topic)
	for len(words) > 0 && danglingWords[lower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	cleaned := strings.Join(words, " ")
	if len(cleaned) < 4 || len(cleaned) > 50 {
		return ""
	}
	return capitalizeFirst(cleaned)
}

func tokenCount(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Fields(s))
}
