package ai

import "context"

// Requirements is the structured result of analyzing a job description.
type Requirements struct {
	RoleTitle       string   `json:"role_title" mapstructure:"role_title"`
	TechnicalSkills []string `json:"technical_skills" mapstructure:"technical_skills"`
	SoftSkills      []string `json:"soft_skills" mapstructure:"soft_skills"`
	SeniorityLevel  string   `json:"seniority_level" mapstructure:"seniority_level"`
}

// Evaluation is the structured verdict on a single candidate answer. The score
// is taken from the model as-is and is not clamped locally.
type Evaluation struct {
	Score     int    `json:"score" mapstructure:"score"`
	Reasoning string `json:"reasoning" mapstructure:"reasoning"`
}

// ScoredAnswer is one entry of the interview log as presented to the
// recommendation stage.
type ScoredAnswer struct {
	Question  string
	Score     int
	Reasoning string
}

// Assistant is the model-backed collaborator driving every interview stage.
type Assistant interface {
	ExtractRequirements(ctx context.Context, jobDescription string) (*Requirements, error)
	GenerateQuestion(ctx context.Context, req *Requirements, previous []string, topic string) (string, error)
	EvaluateAnswer(ctx context.Context, question, answer string, skills []string) (*Evaluation, error)
	Recommend(ctx context.Context, candidate, role string, results []ScoredAnswer) (string, error)
}
