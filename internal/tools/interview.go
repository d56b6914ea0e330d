package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/s2t-dev/s2t-mcp/internal/domain/catalog"
)

// interviewQuestions is the fixed discovery sequence. Every interview for a
// topic walks the same questions in the same order, so transcripts stay
// comparable across sessions.
var interviewQuestions = []string{
	"What problem does %q solve, and for whom?",
	"What does success look like for %q in measurable terms?",
	"What constraints (budget, compliance, deadlines) bound %q?",
	"What existing systems must %q integrate with?",
	"What is the biggest risk if %q fails or is delayed?",
}

type interview struct {
	id        string
	topic     string
	answers   []string
	cancelled bool
	createdAt time.Time
}

func (iv *interview) done() bool {
	return len(iv.answers) >= len(interviewQuestions)
}

func (iv *interview) question(index int) string {
	return fmt.Sprintf(interviewQuestions[index], iv.topic)
}

// interviewStore keeps active interviews in memory. Interviews never survive
// a process restart.
type interviewStore struct {
	mu sync.RWMutex
	m  map[string]*interview
}

func newInterviewStore() *interviewStore {
	return &interviewStore{m: make(map[string]*interview)}
}

func (s *interviewStore) create(topic string) *interview {
	iv := &interview{
		id:        uuid.NewString(),
		topic:     topic,
		createdAt: time.Now(),
	}
	s.mu.Lock()
	s.m[iv.id] = iv
	s.mu.Unlock()
	return iv
}

func (s *interviewStore) get(id string) (*interview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	iv, ok := s.m[id]
	return iv, ok
}

func (s *interviewStore) cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	iv, ok := s.m[id]
	if !ok {
		return false
	}
	iv.cancelled = true
	delete(s.m, id)
	return true
}

func startInterview(store *interviewStore) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_start_interview",
		Title:       "Start Interview",
		Description: "Start a structured discovery interview for a topic and return the first question.",
		Shape: []catalog.Field{
			{Name: "topic", Type: catalog.TypeString, Required: true, Description: "Subject of the interview"},
		},
		Handler: func(_ context.Context, args map[string]interface{}) (string, error) {
			iv := store.create(argString(args, "topic"))

			d := &doc{}
			d.title("Interview Started")
			d.field("Interview", iv.id)
			d.field("Topic", iv.topic)
			d.field("Questions", len(interviewQuestions))
			d.blank()
			d.section("Question 1")
			d.line("%s", iv.question(0))
			return d.String(), nil
		},
	}
}

func answerInterview(store *interviewStore) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_answer_interview",
		Title:       "Answer Interview Question",
		Description: "Record the answer to the current question and return the next one, or a completion summary.",
		Shape: []catalog.Field{
			{Name: "interview_id", Type: catalog.TypeString, Required: true, Description: "Identifier from starting the interview"},
			{Name: "answer", Type: catalog.TypeString, Required: true, Description: "Answer to the current question"},
		},
		Handler: func(_ context.Context, args map[string]interface{}) (string, error) {
			id := argString(args, "interview_id")
			iv, ok := store.get(id)
			if !ok {
				return "", fmt.Errorf("no active interview with id %s", id)
			}

			store.mu.Lock()
			if iv.done() {
				store.mu.Unlock()
				return "", fmt.Errorf("interview %s is already complete", id)
			}
			iv.answers = append(iv.answers, argString(args, "answer"))
			answered := len(iv.answers)
			complete := iv.done()
			transcript := append([]string(nil), iv.answers...)
			store.mu.Unlock()

			d := &doc{}
			if complete {
				d.title("Interview Complete")
				d.field("Interview", iv.id)
				d.field("Topic", iv.topic)
				d.blank()
				d.section("Transcript")
				for i, ans := range transcript {
					d.line("%d. %s", i+1, iv.question(i))
					d.line("   %s", ans)
				}
				return d.String(), nil
			}

			d.title("Answer Recorded")
			d.field("Progress", fmt.Sprintf("%d/%d", answered, len(interviewQuestions)))
			d.blank()
			d.section(fmt.Sprintf("Question %d", answered+1))
			d.line("%s", iv.question(answered))
			return d.String(), nil
		},
	}
}

func interviewStatus(store *interviewStore) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_interview_status",
		Title:       "Interview Status",
		Description: "Report progress of an active interview.",
		Shape: []catalog.Field{
			{Name: "interview_id", Type: catalog.TypeString, Required: true, Description: "Identifier from starting the interview"},
		},
		Annotations: catalog.Annotations{ReadOnly: true, Idempotent: true},
		Handler: func(_ context.Context, args map[string]interface{}) (string, error) {
			id := argString(args, "interview_id")
			iv, ok := store.get(id)
			if !ok {
				return "", fmt.Errorf("no active interview with id %s", id)
			}

			store.mu.RLock()
			answered := len(iv.answers)
			complete := iv.done()
			store.mu.RUnlock()

			d := &doc{}
			d.title("Interview Status")
			d.field("Interview", iv.id)
			d.field("Topic", iv.topic)
			d.field("Progress", fmt.Sprintf("%d/%d", answered, len(interviewQuestions)))
			d.field("Complete", complete)
			return d.String(), nil
		},
	}
}

func cancelInterview(store *interviewStore) catalog.Descriptor {
	return catalog.Descriptor{
		Name:        "s2t_cancel_interview",
		Title:       "Cancel Interview",
		Description: "Discard an interview and its recorded answers. Cancelling twice is harmless.",
		Shape: []catalog.Field{
			{Name: "interview_id", Type: catalog.TypeString, Required: true, Description: "Identifier from starting the interview"},
		},
		Annotations: catalog.Annotations{Destructive: true, Idempotent: true},
		Handler: func(_ context.Context, args map[string]interface{}) (string, error) {
			id := argString(args, "interview_id")
			existed := store.cancel(id)

			d := &doc{}
			d.title("Interview Cancelled")
			d.field("Interview", id)
			d.field("Was active", existed)
			return d.String(), nil
		},
	}
}
