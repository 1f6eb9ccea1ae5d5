package agents

import (
	"context"
	"fmt"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/intelligence"
)

// Evaluator scores candidate material. Its default task scores a single
// interview answer on completeness, depth, accuracy and overall (0-100);
// TaskScoreFit instead scores how well a resume matches a job description.
// The returned scores feed both the ResponseScored event and the strategy
// engine, making this the agent whose output drives the adaptive loop.
type Evaluator struct {
	baseAgent
}

// NewEvaluator creates an Evaluator backed by the given boundary.
func NewEvaluator(boundary *intelligence.Boundary) *Evaluator {
	return &Evaluator{baseAgent: newBaseAgent("Evaluator", boundary)}
}

// Process implements core.Agent.
func (a *Evaluator) Process(ctx context.Context, c *core.Context) (*core.InferenceOutput, error) {
	switch task := taskOf(c, TaskScoreAnswer); task {
	case TaskScoreAnswer:
		req, err := scoreAnswerRequestFrom(c)
		if err != nil {
			return nil, err
		}
		return a.boundary.GenerateStructured(ctx, a.scoreAnswerPrompt(req)), nil
	case TaskScoreFit:
		req, err := scoreFitRequestFrom(c)
		if err != nil {
			return nil, err
		}
		return a.boundary.GenerateStructured(ctx, a.scoreFitPrompt(req)), nil
	default:
		return nil, fmt.Errorf("evaluator: unsupported task %q", task)
	}
}

func (a *Evaluator) scoreAnswerPrompt(req ScoreAnswerRequest) string {
	return fmt.Sprintf(
		"You are an expert interviewer scoring a candidate's answer.\n"+
			"Question %d (%s): %s\n"+
			"Answer: %s\n\n"+
			"Score the answer on a 0-100 scale for completeness, depth, accuracy and overall, "+
			"and explain your reasoning.\n"+
			"%s\n"+
			`action_data must contain {"scores": {"completeness": n, "depth": n, "accuracy": n, "overall": n}, "reasoning": "..."}.`,
		req.QuestionNumber, req.Category, req.QuestionText, req.AnswerText,
		envelope(TaskScoreAnswer),
	)
}

func (a *Evaluator) scoreFitPrompt(req ScoreFitRequest) string {
	return fmt.Sprintf(
		"You are screening a candidate for a position.\n"+
			"Job description:\n%s\n\nResume:\n%s\n\n"+
			"Score the fit between resume and job description on a 0-100 scale and name the decisive factors.\n"+
			"%s\n"+
			`action_data must contain {"fit_score": n, "strengths": [...], "gaps": [...]}.`,
		req.JobDescription, req.ResumeText,
		envelope(TaskScoreFit),
	)
}
