package brief

import (
	"testing"
	"time"

	"github.com/solheim/briefd/internal/brand"
	"github.com/solheim/briefd/internal/infer"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func mergeMessage(t *testing.T, m *Merger, b *LiveBrief, msg string, audiences []brand.AudienceProfile, at time.Time) infer.InferenceResult {
	t.Helper()
	res := infer.Infer(infer.Request{Message: msg, Audiences: audiences})
	m.Merge(b, res, msg, audiences, at)
	return res
}

func confidences(b *LiveBrief) map[string]float64 {
	return map[string]float64{
		"taskType":    b.TaskType.Confidence,
		"intent":      b.Intent.Confidence,
		"platform":    b.Platform.Confidence,
		"contentType": b.ContentType.Confidence,
		"quantity":    b.Quantity.Confidence,
		"duration":    b.Duration.Confidence,
		"topic":       b.Topic.Confidence,
		"audience":    b.Audience.Confidence,
	}
}

func TestMerge_PopulatesFreshBrief(t *testing.T) {
	m := NewMerger(PolicyMonotonic, nil)
	b := New("draft-1", t0)

	mergeMessage(t, m, b, "Create 5 Instagram posts about our product launch", nil, t0)

	if taskType, _ := b.TaskType.Get(); taskType != infer.TaskMultiAssetPlan {
		t.Errorf("expected multi_asset_plan, got %s", taskType)
	}
	if platform, _ := b.Platform.Get(); platform != infer.PlatformInstagram {
		t.Errorf("expected instagram, got %s", platform)
	}
	if summary, _ := b.Summary.Get(); summary != "5 Instagram Posts - Product launch" {
		t.Errorf("unexpected summary %q", summary)
	}
	if b.Dimensions == nil {
		t.Fatal("expected dimensions derived from platform")
	}
	if b.Dimensions.Width != 1080 || b.Dimensions.Height != 1350 {
		t.Errorf("unexpected dimensions %dx%d", b.Dimensions.Width, b.Dimensions.Height)
	}
	if !b.UpdatedAt.Equal(t0) {
		t.Errorf("expected UpdatedAt %v, got %v", t0, b.UpdatedAt)
	}
}

func TestMerge_MonotonicNeverDecreases(t *testing.T) {
	m := NewMerger(PolicyMonotonic, nil)
	b := New("draft-1", t0)

	turns := []string{
		"Create 5 Instagram posts about our product launch",
		"make it for LinkedIn maybe",
		"actually just something nice",
		"a 2 week plan targeting gen z",
	}

	prev := confidences(b)
	for i, msg := range turns {
		mergeMessage(t, m, b, msg, nil, t0.Add(time.Duration(i)*time.Minute))
		cur := confidences(b)
		for field, conf := range cur {
			if conf < prev[field] {
				t.Errorf("turn %d (%q): %s confidence decreased %v -> %v",
					i, msg, field, prev[field], conf)
			}
		}
		prev = cur
	}
}

func TestMerge_LowerConfidenceDoesNotReplace(t *testing.T) {
	m := NewMerger(PolicyMonotonic, nil)
	b := New("draft-1", t0)

	mergeMessage(t, m, b, "an Instagram reel about our product launch", nil, t0)
	platformConf := b.Platform.Confidence

	// A weaker platform hint must not displace the established value.
	mergeMessage(t, m, b, "add a carousel too", nil, t0.Add(time.Minute))
	if platform, _ := b.Platform.Get(); platform != infer.PlatformInstagram {
		t.Errorf("platform replaced by weaker evidence: %s", platform)
	}
	if b.Platform.Confidence != platformConf {
		t.Errorf("platform confidence changed %v -> %v", platformConf, b.Platform.Confidence)
	}
}

func TestMerge_ModificationKeepsTopic(t *testing.T) {
	m := NewMerger(PolicyMonotonic, nil)
	b := New("draft-1", t0)

	mergeMessage(t, m, b, "Create 5 Instagram posts about our product launch", nil, t0)
	mergeMessage(t, m, b, "instead of that, make it more playful", nil, t0.Add(time.Minute))

	topic, ok := b.Topic.Get()
	if !ok || topic != "Product launch" {
		t.Errorf("modification turn must leave topic untouched, got %q (set=%v)", topic, ok)
	}
}

func TestMerge_PlatformChangeRederivesDimensions(t *testing.T) {
	m := NewMerger(PolicyMonotonic, nil)
	b := New("draft-1", t0)

	mergeMessage(t, m, b, "a YouTube thumbnail", nil, t0)
	if b.Dimensions == nil || b.Dimensions.Label != "YouTube Thumbnail" {
		t.Fatalf("expected YouTube thumbnail dimensions, got %+v", b.Dimensions)
	}
}

func TestMerge_AudienceUsesCurrentMessageOnly(t *testing.T) {
	profiles := []brand.AudienceProfile{
		{ID: "a1", Name: "Founders", IsPrimary: true},
	}
	m := NewMerger(PolicyMonotonic, nil)
	b := New("draft-1", t0)

	mergeMessage(t, m, b, "posts targeting busy parents", profiles, t0)
	if audience, _ := b.Audience.Get(); audience != "Busy parents" {
		t.Fatalf("expected explicit audience, got %q", audience)
	}

	// The next turn has no audience signal; the explicit match must stand
	// against the weaker primary default.
	mergeMessage(t, m, b, "make them colorful", profiles, t0.Add(time.Minute))
	if audience, _ := b.Audience.Get(); audience != "Busy parents" {
		t.Errorf("audience replaced by weaker default: %q", audience)
	}
}

func TestMerge_FillEmptyPolicy(t *testing.T) {
	m := NewMerger(PolicyFillEmpty, nil)
	b := New("draft-1", t0)

	// Seed an established topic, then send a low-signal turn: fill-empty
	// populates empty fields but still never overwrites set ones downward.
	mergeMessage(t, m, b, "posts about our product launch", nil, t0)
	topicConf := b.Topic.Confidence

	mergeMessage(t, m, b, "sourdough workshop", nil, t0.Add(time.Minute))
	if topic, _ := b.Topic.Get(); topic != "Product launch" {
		t.Errorf("fill-empty must not overwrite a set field downward, got %q", topic)
	}
	if b.Topic.Confidence != topicConf {
		t.Errorf("topic confidence changed %v -> %v", topicConf, b.Topic.Confidence)
	}

	// An empty field is populated even below the stored summary confidence.
	if !b.ContentType.IsSet() {
		t.Error("expected content type filled from first turn")
	}
}

func TestMerge_SummaryTracksCompositeConfidence(t *testing.T) {
	m := NewMerger(PolicyMonotonic, nil)
	b := New("draft-1", t0)

	mergeMessage(t, m, b, "something for LinkedIn", nil, t0)
	firstSummary, _ := b.Summary.Get()

	mergeMessage(t, m, b, "a LinkedIn carousel about hiring trends, 5 slides", nil, t0.Add(time.Minute))
	secondSummary, _ := b.Summary.Get()

	if firstSummary == secondSummary {
		t.Errorf("richer evidence should update the summary, still %q", firstSummary)
	}
	if b.Summary.Confidence <= 0 || b.Summary.Confidence > 1 {
		t.Errorf("summary confidence out of range: %v", b.Summary.Confidence)
	}
}

func TestMerge_PlatformPhraseDoesNotBlockLaterTopic(t *testing.T) {
	m := NewMerger(PolicyMonotonic, nil)
	b := New("draft-1", t0)

	mergeMessage(t, m, b, "3 posts for LinkedIn", nil, t0)
	if topic, ok := b.Topic.Get(); ok {
		t.Fatalf("expected no topic from a platform-only request, got %q", topic)
	}

	mergeMessage(t, m, b, "make posts about our spring sale", nil, t0.Add(time.Minute))
	if topic, ok := b.Topic.Get(); !ok || topic != "Spring sale" {
		t.Errorf("expected %q, got %q (set=%v)", "Spring sale", topic, ok)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    MergePolicy
		wantErr bool
	}{
		{"", PolicyMonotonic, false},
		{"monotonic", PolicyMonotonic, false},
		{"fill-empty", PolicyFillEmpty, false},
		{"aggressive", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestNew_FreshBriefState(t *testing.T) {
	b := New("draft-1", t0)

	taskType, ok := b.TaskType.Get()
	if !ok || taskType != infer.TaskSingleAsset {
		t.Errorf("expected task type soft default, got %v (set=%v)", taskType, ok)
	}
	if b.TaskType.Confidence != 0.3 {
		t.Errorf("expected soft default confidence 0.3, got %v", b.TaskType.Confidence)
	}
	for field, conf := range confidences(b) {
		if field == "taskType" {
			continue
		}
		if conf != 0 {
			t.Errorf("fresh brief field %s has confidence %v", field, conf)
		}
	}
}
