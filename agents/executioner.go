package agents

import (
	"context"
	"fmt"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/intelligence"
)

// Executioner generates the dialogue turns of the interview: the next
// question to ask (guided by the strategy engine's current approach) and,
// under TaskDraftInvitation, the invitation sent before the session.
type Executioner struct {
	baseAgent
}

// NewExecutioner creates an Executioner backed by the given boundary.
func NewExecutioner(boundary *intelligence.Boundary) *Executioner {
	return &Executioner{baseAgent: newBaseAgent("Executioner", boundary)}
}

// Process implements core.Agent.
func (a *Executioner) Process(ctx context.Context, c *core.Context) (*core.InferenceOutput, error) {
	switch task := taskOf(c, TaskNextQuestion); task {
	case TaskNextQuestion:
		req, err := nextQuestionRequestFrom(c)
		if err != nil {
			return nil, err
		}
		return a.boundary.GenerateStructured(ctx, a.nextQuestionPrompt(req, c.History)), nil
	case TaskDraftInvitation:
		req, err := invitationRequestFrom(c)
		if err != nil {
			return nil, err
		}
		return a.boundary.GenerateStructured(ctx, a.invitationPrompt(req)), nil
	default:
		return nil, fmt.Errorf("executioner: unsupported task %q", task)
	}
}

func (a *Executioner) nextQuestionPrompt(req NextQuestionRequest, history []core.Turn) string {
	guidance := ""
	if req.Strategy != "" {
		guidance = fmt.Sprintf("Current interaction strategy: %s (%s). Shape the question accordingly.\n", req.Strategy, req.Guidance)
	}
	return fmt.Sprintf(
		"You are conducting a technical interview for the position %q.\n"+
			"%s"+
			"%s"+
			"Formulate question number %d.\n"+
			"%s\n"+
			`action_data must contain {"question_number": n, "question_text": "...", "question_category": "..."}.`,
		req.PositionTitle,
		historySection(history),
		guidance,
		req.QuestionNumber,
		envelope(TaskNextQuestion),
	)
}

func (a *Executioner) invitationPrompt(req InvitationRequest) string {
	return fmt.Sprintf(
		"Draft a short, professional interview invitation for %s regarding the position %q.\n"+
			"%s\n"+
			`action_data must contain {"subject": "...", "body": "..."}.`,
		req.CandidateName, req.PositionTitle,
		envelope(TaskDraftInvitation),
	)
}
