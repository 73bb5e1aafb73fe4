package infer

// ClarifyingQuestion is a single follow-up prompt surfaced when a critical
// field is still below threshold. Questions are recomputed each turn and
// never persisted.
type ClarifyingQuestion struct {
	ID       string   `json:"id"`
	Field    string   `json:"field"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	Priority int      `json:"priority"`
}

// QuestionContext carries the field states the selector inspects. Callers
// build it from a fresh inference result or from a merged live brief.
type QuestionContext struct {
	TaskType FieldValue[TaskType]
	Platform FieldValue[Platform]
	Intent   FieldValue[Intent]
}

type questionSpec struct {
	question ClarifyingQuestion
	applies  func(QuestionContext) bool
}

// questionTable is ordered by priority. Platform is always worth asking
// when unknown; intent only matters once the work is a multi-asset plan.
var questionTable = []questionSpec{
	{
		question: ClarifyingQuestion{
			ID:     "platform",
			Field:  "platform",
			Prompt: "Which platform or format is this for?",
			Options: []string{
				"Instagram", "LinkedIn", "Facebook", "Twitter", "YouTube",
				"TikTok", "Print", "Web", "Email", "Presentation",
			},
			Priority: 1,
		},
		applies: func(qc QuestionContext) bool {
			return qc.Platform.Confidence < ConfidenceThreshold
		},
	},
	{
		question: ClarifyingQuestion{
			ID:     "intent",
			Field:  "intent",
			Prompt: "What's the main goal of this plan?",
			Options: []string{
				"Get signups", "Build authority", "Raise awareness",
				"Drive sales", "Boost engagement", "Educate", "Announce something",
			},
			Priority: 2,
		},
		applies: func(qc QuestionContext) bool {
			taskType, ok := qc.TaskType.Get()
			return ok && taskType == TaskMultiAssetPlan && qc.Intent.Confidence < ConfidenceThreshold
		},
	},
}

// NextQuestion returns the single highest-priority outstanding question, or
// nil. Questions whose IDs appear in alreadyAsked are suppressed — the
// already-asked set is caller state, not engine state.
func NextQuestion(qc QuestionContext, alreadyAsked map[string]bool) *ClarifyingQuestion {
	for _, spec := range questionTable {
		if alreadyAsked[spec.question.ID] {
			continue
		}
		if spec.applies(qc) {
			q := spec.question
			return &q
		}
	}
	return nil
}
