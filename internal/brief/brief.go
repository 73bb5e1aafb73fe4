// Package brief holds the long-lived per-draft brief and the merge rules
// that fold each turn's inference result into it.
package brief

import (
	"time"

	"github.com/solheim/briefd/internal/dimensions"
	"github.com/solheim/briefd/internal/infer"
)

// LiveBrief is the persistent aggregate of current best field values for
// one draft, updated turn by turn. Dimensions and Summary are derived, not
// independently inferred.
type LiveBrief struct {
	ID          string                              `json:"id"`
	TaskType    infer.FieldValue[infer.TaskType]    `json:"task_type"`
	Intent      infer.FieldValue[infer.Intent]      `json:"intent"`
	Platform    infer.FieldValue[infer.Platform]    `json:"platform"`
	ContentType infer.FieldValue[infer.ContentType] `json:"content_type"`
	Quantity    infer.FieldValue[int]               `json:"quantity"`
	Duration    infer.FieldValue[string]            `json:"duration"`
	Topic       infer.FieldValue[string]            `json:"topic"`
	Audience    infer.FieldValue[string]            `json:"audience"`
	Dimensions  *dimensions.Spec                    `json:"dimensions,omitempty"`
	Summary     infer.FieldValue[string]            `json:"summary"`
	UpdatedAt   time.Time                           `json:"updated_at"`
}

// New returns a fresh brief for a draft: every field pending except the
// task-type soft default.
func New(id string, now time.Time) *LiveBrief {
	b := &LiveBrief{
		ID:          id,
		Intent:      infer.Pending[infer.Intent](),
		Platform:    infer.Pending[infer.Platform](),
		ContentType: infer.Pending[infer.ContentType](),
		Quantity:    infer.Pending[int](),
		Duration:    infer.Pending[string](),
		Topic:       infer.Pending[string](),
		Audience:    infer.Pending[string](),
		Summary:     infer.Pending[string](),
		UpdatedAt:   now,
	}
	defTask := infer.TaskSingleAsset
	b.TaskType = infer.FieldValue[infer.TaskType]{Value: &defTask, Confidence: 0.3, Source: infer.SourcePending}
	return b
}

// Result views the brief's current field values as an InferenceResult so
// the summary generator and question selector can run over merged state.
func (b *LiveBrief) Result() infer.InferenceResult {
	return infer.InferenceResult{
		TaskType:    b.TaskType,
		Intent:      b.Intent,
		Platform:    b.Platform,
		ContentType: b.ContentType,
		Quantity:    b.Quantity,
		Duration:    b.Duration,
		Topic:       b.Topic,
		Audience:    b.Audience,
	}
}

// QuestionContext exposes the fields the clarifying-question selector needs.
func (b *LiveBrief) QuestionContext() infer.QuestionContext {
	return infer.QuestionContext{
		TaskType: b.TaskType,
		Platform: b.Platform,
		Intent:   b.Intent,
	}
}
