package brief

import (
	"fmt"
	"time"

	"github.com/solheim/briefd/internal/brand"
	"github.com/solheim/briefd/internal/dimensions"
	"github.com/solheim/briefd/internal/infer"
)

// MergePolicy controls when a stored field is replaced by new evidence.
type MergePolicy string

const (
	// PolicyMonotonic replaces a field only when the new confidence is
	// strictly greater than the stored one. This is the primary contract:
	// a field's confidence never decreases across merges.
	PolicyMonotonic MergePolicy = "monotonic"
	// PolicyFillEmpty additionally populates fields that hold no value yet,
	// at any confidence. This is the one documented exception to the
	// monotonic rule: it trades the strict guarantee for responsiveness.
	PolicyFillEmpty MergePolicy = "fill-empty"
)

// ParsePolicy validates a policy name from configuration.
func ParsePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(s) {
	case PolicyMonotonic, PolicyFillEmpty:
		return MergePolicy(s), nil
	case "":
		return PolicyMonotonic, nil
	}
	return "", fmt.Errorf("unknown merge policy %q (want %q or %q)", s, PolicyMonotonic, PolicyFillEmpty)
}

// DimensionLookup resolves render dimensions for a platform and content
// type. The default is the built-in table.
type DimensionLookup func(infer.Platform, infer.ContentType) (dimensions.Spec, bool)

// Merger folds inference results into live briefs. Merges into a single
// brief must be serialized by the caller (one writer per draft); distinct
// drafts need no coordination.
type Merger struct {
	policy MergePolicy
	dims   DimensionLookup
}

// NewMerger creates a Merger. A nil lookup uses the built-in dimension
// table.
func NewMerger(policy MergePolicy, dims DimensionLookup) *Merger {
	if dims == nil {
		dims = dimensions.Lookup
	}
	return &Merger{policy: policy, dims: dims}
}

// Policy returns the merger's configured policy.
func (m *Merger) Policy() MergePolicy { return m.policy }

// Merge applies one turn's result to the brief, field by field, under the
// configured policy. The audience field is re-derived from the current
// message only, so an earlier turn's audience evidence cannot leak forward.
// A platform change re-derives dimensions, and the summary is recomputed
// from merged state under the same confidence-precedence rule using the
// composite confidence of the fields it draws on.
func (m *Merger) Merge(b *LiveBrief, res infer.InferenceResult, message string, audiences []brand.AudienceProfile, now time.Time) {
	platformChanged := mergeField(&b.Platform, res.Platform, m.policy)
	contentChanged := mergeField(&b.ContentType, res.ContentType, m.policy)
	mergeField(&b.TaskType, res.TaskType, m.policy)
	mergeField(&b.Intent, res.Intent, m.policy)
	mergeField(&b.Quantity, res.Quantity, m.policy)
	mergeField(&b.Duration, res.Duration, m.policy)
	mergeField(&b.Topic, res.Topic, m.policy)

	audience := infer.MatchAudience(message, audiences)
	mergeField(&b.Audience, audience, m.policy)

	if platformChanged || (contentChanged && b.Platform.IsSet()) {
		platform, _ := b.Platform.Get()
		contentType, _ := b.ContentType.Get()
		if spec, ok := m.dims(platform, contentType); ok {
			b.Dimensions = &spec
		}
	}

	summary := infer.Summarize(b.Result())
	conf := compositeConfidence(b)
	mergeField(&b.Summary, infer.NewFieldValue(summary, conf), m.policy)

	b.UpdatedAt = now
}

// mergeField replaces dst with src when the policy allows it. Reports
// whether a replacement happened. Unset incoming values never overwrite.
func mergeField[T any](dst *infer.FieldValue[T], src infer.FieldValue[T], policy MergePolicy) bool {
	if !src.IsSet() {
		return false
	}
	if src.Confidence > dst.Confidence || (policy == PolicyFillEmpty && !dst.IsSet()) {
		*dst = src
		return true
	}
	return false
}

// compositeConfidence averages the confidences of the set fields the
// summary draws on.
func compositeConfidence(b *LiveBrief) float64 {
	var sum float64
	var n int
	add := func(set bool, conf float64) {
		if set {
			sum += conf
			n++
		}
	}
	add(b.TaskType.IsSet(), b.TaskType.Confidence)
	add(b.Intent.IsSet(), b.Intent.Confidence)
	add(b.Platform.IsSet(), b.Platform.Confidence)
	add(b.ContentType.IsSet(), b.ContentType.Confidence)
	add(b.Quantity.IsSet(), b.Quantity.Confidence)
	add(b.Duration.IsSet(), b.Duration.Confidence)
	add(b.Topic.IsSet(), b.Topic.Confidence)
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
