package infer

// Source reports whether a field value has crossed the confidence threshold.
type Source string

const (
	// SourcePending marks a field that is absent or below threshold — not yet
	// actionable by the caller.
	SourcePending Source = "pending"
	// SourceInferred marks a field at or above the confidence threshold.
	SourceInferred Source = "inferred"
)

// ConfidenceThreshold is the confidence at which a field becomes actionable.
const ConfidenceThreshold = 0.75

// TaskType is the shape of the requested work.
type TaskType string

const (
	TaskSingleAsset    TaskType = "single_asset"
	TaskMultiAssetPlan TaskType = "multi_asset_plan"
	TaskCampaign       TaskType = "campaign"
)

// Intent is the communication goal behind a creative task.
type Intent string

const (
	IntentSignups      Intent = "signups"
	IntentAuthority    Intent = "authority"
	IntentAwareness    Intent = "awareness"
	IntentSales        Intent = "sales"
	IntentEngagement   Intent = "engagement"
	IntentEducation    Intent = "education"
	IntentAnnouncement Intent = "announcement"
)

// Platform is the distribution surface the content is made for.
type Platform string

const (
	PlatformInstagram    Platform = "instagram"
	PlatformLinkedIn     Platform = "linkedin"
	PlatformFacebook     Platform = "facebook"
	PlatformTwitter      Platform = "twitter"
	PlatformYouTube      Platform = "youtube"
	PlatformTikTok       Platform = "tiktok"
	PlatformPrint        Platform = "print"
	PlatformWeb          Platform = "web"
	PlatformEmail        Platform = "email"
	PlatformPresentation Platform = "presentation"
)

// ContentType is the kind of asset being produced.
type ContentType string

const (
	ContentPost      ContentType = "post"
	ContentStory     ContentType = "story"
	ContentReel      ContentType = "reel"
	ContentCarousel  ContentType = "carousel"
	ContentBanner    ContentType = "banner"
	ContentAd        ContentType = "ad"
	ContentThumbnail ContentType = "thumbnail"
	ContentSlide     ContentType = "slide"
	ContentFlyer     ContentType = "flyer"
	ContentPoster    ContentType = "poster"
	ContentVideo     ContentType = "video"
)

// FieldValue is one structured attribute of a brief together with the
// engine's confidence in it. A nil Value means the field is unknown;
// confidence is zero whenever Value is nil.
type FieldValue[T any] struct {
	Value      *T      `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// Pending returns an unknown field value.
func Pending[T any]() FieldValue[T] {
	return FieldValue[T]{Source: SourcePending}
}

// NewFieldValue returns a populated field value. Confidence is clamped to
// [0,1] and the source is derived from the threshold.
func NewFieldValue[T any](v T, confidence float64) FieldValue[T] {
	confidence = clamp01(confidence)
	return FieldValue[T]{Value: &v, Confidence: confidence, Source: sourceFor(confidence)}
}

// IsSet reports whether the field holds a value.
func (f FieldValue[T]) IsSet() bool { return f.Value != nil }

// Get returns the value and whether it is set.
func (f FieldValue[T]) Get() (T, bool) {
	if f.Value == nil {
		var zero T
		return zero, false
	}
	return *f.Value, true
}

func sourceFor(confidence float64) Source {
	if confidence >= ConfidenceThreshold {
		return SourceInferred
	}
	return SourcePending
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// InferenceResult is the immutable outcome of one inference call: seven
// brief fields plus the matched audience name. Produced fresh on every
// call and never mutated afterwards.
type InferenceResult struct {
	TaskType    FieldValue[TaskType]    `json:"task_type"`
	Intent      FieldValue[Intent]      `json:"intent"`
	Platform    FieldValue[Platform]    `json:"platform"`
	ContentType FieldValue[ContentType] `json:"content_type"`
	Quantity    FieldValue[int]         `json:"quantity"`
	Duration    FieldValue[string]      `json:"duration"`
	Topic       FieldValue[string]      `json:"topic"`
	Audience    FieldValue[string]      `json:"audience"`
}
