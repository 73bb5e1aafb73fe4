// Package draft coordinates conversation turns: it loads a draft's stored
// brief, runs inference over the new message, merges the result, and decides
// whether a clarifying question should be surfaced.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solheim/briefd/internal/brand"
	"github.com/solheim/briefd/internal/brief"
	"github.com/solheim/briefd/internal/infer"
	"github.com/solheim/briefd/internal/storage"
)

// ErrDraftArchived is returned when a message is sent to an archived draft.
var ErrDraftArchived = errors.New("draft is archived")

// historyWindow is how many prior user messages feed the inference window.
const historyWindow = 3

// fetchLimit is how many stored messages to read when collecting the user
// history window; assistant turns are interleaved and filtered out.
const fetchLimit = 12

// Store defines the storage operations the Service needs.
// Implemented by storage.Store.
type Store interface {
	CreateDraft(d storage.Draft) error
	GetDraft(id string) (storage.Draft, error)
	ListDrafts(limit int) ([]storage.Draft, error)
	UpdateDraftBrief(id, briefJSON, summary string, updatedAt time.Time) error
	ArchiveDraft(id string) error
	AppendDraftMessage(m storage.DraftMessage) error
	RecentDraftMessages(draftID string, n int) ([]storage.DraftMessage, error)
	MarkQuestionAsked(draftID, questionID string, at time.Time) error
	AskedQuestions(draftID string) (map[string]bool, error)
}

// AudienceSource provides the brand's audience profiles.
// Implemented by brand.Manager.
type AudienceSource interface {
	Audiences() ([]brand.AudienceProfile, error)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Turn is the outcome of one handled message.
type Turn struct {
	DraftID  string                   `json:"draft_id"`
	Brief    *brief.LiveBrief         `json:"brief"`
	Summary  string                   `json:"summary"`
	Question *infer.ClarifyingQuestion `json:"question,omitempty"`
	Result   infer.InferenceResult    `json:"result"`
}

// Service owns draft lifecycle and turn handling. Turns on the same draft
// are serialized with a per-draft lock; distinct drafts proceed in parallel.
type Service struct {
	store     Store
	audiences AudienceSource
	merger    *brief.Merger
	clock     Clock

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a Service using the wall clock.
func NewService(store Store, audiences AudienceSource, merger *brief.Merger) *Service {
	return NewServiceWithClock(store, audiences, merger, realClock{})
}

// NewServiceWithClock creates a Service with a custom clock (for testing).
func NewServiceWithClock(store Store, audiences AudienceSource, merger *brief.Merger, clock Clock) *Service {
	return &Service{
		store:     store,
		audiences: audiences,
		merger:    merger,
		clock:     clock,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Create starts a fresh draft with an empty brief.
func (s *Service) Create() (storage.Draft, error) {
	now := s.clock.Now().UTC()
	b := brief.New(uuid.NewString(), now)

	briefJSON, err := json.Marshal(b)
	if err != nil {
		return storage.Draft{}, fmt.Errorf("encoding brief: %w", err)
	}

	d := storage.Draft{
		ID:        b.ID,
		Status:    storage.DraftActive,
		BriefJSON: string(briefJSON),
		Summary:   infer.Summarize(b.Result()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateDraft(d); err != nil {
		return storage.Draft{}, fmt.Errorf("creating draft: %w", err)
	}
	return d, nil
}

// Get loads a draft and decodes its brief.
func (s *Service) Get(id string) (storage.Draft, *brief.LiveBrief, error) {
	d, err := s.store.GetDraft(id)
	if err != nil {
		return storage.Draft{}, nil, err
	}
	b, err := decodeBrief(d)
	if err != nil {
		return storage.Draft{}, nil, err
	}
	return d, b, nil
}

// List returns the most recently updated drafts.
func (s *Service) List(limit int) ([]storage.Draft, error) {
	return s.store.ListDrafts(limit)
}

// Archive marks a draft archived; later messages to it are rejected.
func (s *Service) Archive(id string) error {
	return s.store.ArchiveDraft(id)
}

// HandleMessage runs one conversation turn against a draft. A failed or
// panicking inference leaves the stored brief unchanged and surfaces no
// question; the message itself is still recorded.
func (s *Service) HandleMessage(draftID, message string) (Turn, error) {
	lock := s.draftLock(draftID)
	lock.Lock()
	defer lock.Unlock()

	d, err := s.store.GetDraft(draftID)
	if err != nil {
		return Turn{}, err
	}
	if d.Status == storage.DraftArchived {
		return Turn{}, ErrDraftArchived
	}

	b, err := decodeBrief(d)
	if err != nil {
		return Turn{}, err
	}

	history, err := s.userHistory(draftID)
	if err != nil {
		return Turn{}, err
	}

	audiences, err := s.audiences.Audiences()
	if err != nil {
		return Turn{}, fmt.Errorf("loading audiences: %w", err)
	}

	now := s.clock.Now().UTC()
	if err := s.store.AppendDraftMessage(storage.DraftMessage{
		ID:        uuid.NewString(),
		DraftID:   draftID,
		Role:      "user",
		Content:   message,
		CreatedAt: now,
	}); err != nil {
		return Turn{}, fmt.Errorf("recording message: %w", err)
	}

	// Merge into a scratch copy so a panic mid-turn cannot leave the draft
	// half-updated.
	scratch := *b
	res, ok := s.runTurn(&scratch, message, history, audiences, now)
	if !ok {
		return Turn{DraftID: draftID, Brief: b, Summary: d.Summary}, nil
	}
	*b = scratch

	briefJSON, err := json.Marshal(b)
	if err != nil {
		return Turn{}, fmt.Errorf("encoding brief: %w", err)
	}
	summary, _ := b.Summary.Get()
	if err := s.store.UpdateDraftBrief(draftID, string(briefJSON), summary, now); err != nil {
		return Turn{}, fmt.Errorf("saving brief: %w", err)
	}

	question, err := s.nextQuestion(draftID, b, now)
	if err != nil {
		return Turn{}, err
	}

	return Turn{
		DraftID:  draftID,
		Brief:    b,
		Summary:  summary,
		Question: question,
		Result:   res,
	}, nil
}

// runTurn executes inference and merge, absorbing panics from pattern code
// so one bad message cannot take the draft down with it.
func (s *Service) runTurn(b *brief.LiveBrief, message string, history []string, audiences []brand.AudienceProfile, now time.Time) (res infer.InferenceResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("inference panicked, turn discarded", "draft_id", b.ID, "panic", r)
			ok = false
		}
	}()

	res = infer.Infer(infer.Request{
		Message:   message,
		History:   history,
		Audiences: audiences,
	})
	s.merger.Merge(b, res, message, audiences, now)
	return res, true
}

// nextQuestion selects at most one unasked clarifying question and records
// it, both as asked and as an assistant turn in the conversation.
func (s *Service) nextQuestion(draftID string, b *brief.LiveBrief, now time.Time) (*infer.ClarifyingQuestion, error) {
	asked, err := s.store.AskedQuestions(draftID)
	if err != nil {
		return nil, fmt.Errorf("loading asked questions: %w", err)
	}

	q := infer.NextQuestion(b.QuestionContext(), asked)
	if q == nil {
		return nil, nil
	}

	if err := s.store.MarkQuestionAsked(draftID, q.ID, now); err != nil {
		return nil, fmt.Errorf("marking question asked: %w", err)
	}
	if err := s.store.AppendDraftMessage(storage.DraftMessage{
		ID:        uuid.NewString(),
		DraftID:   draftID,
		Role:      "assistant",
		Content:   q.Prompt,
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("recording question: %w", err)
	}
	return q, nil
}

// userHistory returns the previous user messages, oldest first, capped to
// the inference history window.
func (s *Service) userHistory(draftID string) ([]string, error) {
	messages, err := s.store.RecentDraftMessages(draftID, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	var history []string
	for _, m := range messages {
		if m.Role == "user" {
			history = append(history, m.Content)
		}
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	return history, nil
}

func (s *Service) draftLock(draftID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[draftID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[draftID] = lock
	}
	return lock
}

func decodeBrief(d storage.Draft) (*brief.LiveBrief, error) {
	var b brief.LiveBrief
	if err := json.Unmarshal([]byte(d.BriefJSON), &b); err != nil {
		return nil, fmt.Errorf("decoding brief for draft %s: %w", d.ID, err)
	}
	return &b, nil
}
