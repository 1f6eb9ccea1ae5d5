package agents

import "github.com/hupe1980/interviewmesh/core"

// Task keys select which request shape an agent decodes from the context
// metadata. The metadata bag stays generic only at this outermost boundary;
// past decoding, each role works with one validated structure per task.
const (
	// TaskKey names the metadata field carrying the task selector.
	TaskKey = "task"

	// TaskScoreAnswer asks the Evaluator to score one interview answer.
	TaskScoreAnswer = "score_answer"
	// TaskScoreFit asks the Evaluator to score resume / job-description fit.
	TaskScoreFit = "score_fit"
	// TaskNextQuestion asks the Executioner to generate the next question.
	TaskNextQuestion = "next_question"
	// TaskDraftInvitation asks the Executioner to draft an interview invitation.
	TaskDraftInvitation = "draft_invitation"
)

// taskOf returns the task selector, falling back to def when absent.
func taskOf(c *core.Context, def string) string {
	if t, ok := c.MetaString(TaskKey); ok && t != "" {
		return t
	}
	return def
}

// TrajectoryRequest is the Architect's input: design the interview
// trajectory and configuration before the session starts.
type TrajectoryRequest struct {
	PositionTitle    string
	CandidateSummary string
	QuestionCount    int
}

func trajectoryRequestFrom(c *core.Context) (TrajectoryRequest, error) {
	var req TrajectoryRequest
	var ok bool
	if req.PositionTitle, ok = c.MetaString("position_title"); !ok {
		return req, contractError("architect", "position_title")
	}
	req.CandidateSummary, _ = c.MetaString("candidate_summary")
	if req.QuestionCount, ok = c.MetaInt("question_count"); !ok {
		req.QuestionCount = 5
	}
	return req, nil
}

// ScoreAnswerRequest is the Evaluator's per-answer scoring input.
type ScoreAnswerRequest struct {
	QuestionNumber int
	QuestionText   string
	Category       string
	AnswerText     string
}

func scoreAnswerRequestFrom(c *core.Context) (ScoreAnswerRequest, error) {
	var req ScoreAnswerRequest
	var ok bool
	if req.QuestionNumber, ok = c.MetaInt("question_number"); !ok {
		return req, contractError("evaluator", "question_number")
	}
	if req.QuestionText, ok = c.MetaString("question_text"); !ok {
		return req, contractError("evaluator", "question_text")
	}
	if req.AnswerText, ok = c.MetaString("answer_text"); !ok {
		return req, contractError("evaluator", "answer_text")
	}
	req.Category, _ = c.MetaString("question_category")
	return req, nil
}

// ScoreFitRequest is the Evaluator's resume / job-description fit input.
type ScoreFitRequest struct {
	ResumeText     string
	JobDescription string
}

func scoreFitRequestFrom(c *core.Context) (ScoreFitRequest, error) {
	var req ScoreFitRequest
	var ok bool
	if req.ResumeText, ok = c.MetaString("resume_text"); !ok {
		return req, contractError("evaluator", "resume_text")
	}
	if req.JobDescription, ok = c.MetaString("job_description"); !ok {
		return req, contractError("evaluator", "job_description")
	}
	return req, nil
}

// NextQuestionRequest is the Executioner's dialogue-turn input. Strategy and
// Guidance carry the strategy engine's choice for this round.
type NextQuestionRequest struct {
	QuestionNumber int
	Strategy       string
	Guidance       string
	PositionTitle  string
}

func nextQuestionRequestFrom(c *core.Context) (NextQuestionRequest, error) {
	var req NextQuestionRequest
	var ok bool
	if req.QuestionNumber, ok = c.MetaInt("question_number"); !ok {
		return req, contractError("executioner", "question_number")
	}
	req.Strategy, _ = c.MetaString("strategy")
	req.Guidance, _ = c.MetaString("strategy_reason")
	req.PositionTitle, _ = c.MetaString("position_title")
	return req, nil
}

// InvitationRequest is the Executioner's invitation-drafting input.
type InvitationRequest struct {
	CandidateName string
	PositionTitle string
}

func invitationRequestFrom(c *core.Context) (InvitationRequest, error) {
	var req InvitationRequest
	var ok bool
	if req.CandidateName, ok = c.MetaString("candidate_name"); !ok {
		return req, contractError("executioner", "candidate_name")
	}
	if req.PositionTitle, ok = c.MetaString("position_title"); !ok {
		return req, contractError("executioner", "position_title")
	}
	return req, nil
}

// PlanRequest is the Planner's milestone-tracking input.
type PlanRequest struct {
	PositionTitle      string
	CompletedQuestions int
	TotalQuestions     int
}

func planRequestFrom(c *core.Context) (PlanRequest, error) {
	var req PlanRequest
	var ok bool
	if req.CompletedQuestions, ok = c.MetaInt("completed_questions"); !ok {
		return req, contractError("planner", "completed_questions")
	}
	if req.TotalQuestions, ok = c.MetaInt("total_questions"); !ok {
		return req, contractError("planner", "total_questions")
	}
	req.PositionTitle, _ = c.MetaString("position_title")
	return req, nil
}

// CritiqueRequest is the Critic's input: audit another agent's output.
type CritiqueRequest struct {
	TargetAgent  string
	TargetOutput string
}

func critiqueRequestFrom(c *core.Context) (CritiqueRequest, error) {
	var req CritiqueRequest
	var ok bool
	if req.TargetAgent, ok = c.MetaString("target_agent"); !ok {
		return req, contractError("critic", "target_agent")
	}
	if req.TargetOutput, ok = c.MetaString("target_output"); !ok {
		return req, contractError("critic", "target_output")
	}
	return req, nil
}

// ScanRequest is the Guardian's input: a payload crossing the trust boundary
// in either direction.
type ScanRequest struct {
	Payload   string
	Direction string // "input" or "output"
}

func scanRequestFrom(c *core.Context) (ScanRequest, error) {
	var req ScanRequest
	var ok bool
	if req.Payload, ok = c.MetaString("payload"); !ok {
		return req, contractError("guardian", "payload")
	}
	if req.Direction, ok = c.MetaString("direction"); !ok {
		req.Direction = "input"
	}
	return req, nil
}

// DecodeRequest is the Interpreter's input: raw text to decode semantically.
type DecodeRequest struct {
	RawInput string
}

func decodeRequestFrom(c *core.Context) (DecodeRequest, error) {
	var req DecodeRequest
	var ok bool
	if req.RawInput, ok = c.MetaString("raw_input"); !ok {
		return req, contractError("interpreter", "raw_input")
	}
	return req, nil
}
