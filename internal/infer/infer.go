// Package infer converts free-form chat about a creative task into a
// structured brief: platform, intent, task type, content type, quantity,
// duration, topic, and audience, each scored with a confidence. Matching is
// deterministic and pattern-based; every function here is pure and
// synchronous.
package infer

import (
	"strings"

	"github.com/solheim/briefd/internal/brand"
)

// historyWindow is how many trailing history messages contribute evidence
// alongside the current message.
const historyWindow = 3

// Request is the input to one inference call.
type Request struct {
	// Message is the user's current message.
	Message string
	// History holds prior user messages, most recent last. Only the last
	// historyWindow entries are used.
	History []string
	// Audiences are the brand's known audience profiles, if any.
	Audiences []brand.AudienceProfile
}

// Infer runs all field extractors over the request and returns a fresh
// InferenceResult. Pattern fields and quantity/duration read the message
// plus recent history; topic and audience read the current message only so
// a refinement turn cannot drag in stale context.
func Infer(req Request) InferenceResult {
	window := windowText(req.Message, req.History)

	defTask := TaskSingleAsset
	return InferenceResult{
		TaskType:    inferField(window, taskTypePatterns, &defTask),
		Intent:      inferField[Intent](window, intentPatterns, nil),
		Platform:    inferField[Platform](window, platformPatterns, nil),
		ContentType: inferField[ContentType](window, contentTypePatterns, nil),
		Quantity:    extractQuantity(window),
		Duration:    extractDuration(window),
		Topic:       extractTopic(req.Message),
		Audience:    MatchAudience(req.Message, req.Audiences),
	}
}

func windowText(message string, history []string) string {
	if len(history) == 0 {
		return message
	}
	start := len(history) - historyWindow
	if start < 0 {
		start = 0
	}
	parts := append([]string{}, history[start:]...)
	parts = append(parts, message)
	return strings.Join(parts, "\n")
}
