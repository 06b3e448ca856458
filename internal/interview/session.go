package interview

import (
	"errors"

	"github.com/google/uuid"
	"github.com/spigell/ai-interviewer/internal/ai"
)

// Evaluation is one scored question/answer pair of the interview log.
type Evaluation struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}

// Session holds the state of one candidate interview end to end. It is
// single-use and owned by exactly one pipeline run; requirements and the
// recommendation can be set only once, questions and evaluations are
// append-only.
type Session struct {
	ID             string           `json:"id"`
	Candidate      string           `json:"candidate"`
	JobDescription string           `json:"job_description"`
	Requirements   *ai.Requirements `json:"requirements,omitempty"`
	Questions      []string         `json:"questions"`
	Evaluations    []Evaluation     `json:"evaluations"`
	Recommendation string           `json:"recommendation,omitempty"`
}

func NewSession(candidate, jobDescription string) *Session {
	return &Session{
		ID:             uuid.NewString(),
		Candidate:      candidate,
		JobDescription: jobDescription,
	}
}

// SetRequirements stores the extracted requirements. It fails when called a
// second time.
func (s *Session) SetRequirements(req *ai.Requirements) error {
	if req == nil {
		return errors.New("requirements are required")
	}
	if s.Requirements != nil {
		return errors.New("requirements are already set")
	}

	s.Requirements = req
	return nil
}

func (s *Session) AddQuestion(question string) {
	s.Questions = append(s.Questions, question)
}

func (s *Session) AddEvaluation(e Evaluation) {
	s.Evaluations = append(s.Evaluations, e)
}

// SetRecommendation stores the final verdict. It fails when called a second
// time.
func (s *Session) SetRecommendation(text string) error {
	if s.Recommendation != "" {
		return errors.New("recommendation is already set")
	}

	s.Recommendation = text
	return nil
}

// ScoredAnswers projects the evaluation log into the shape consumed by the
// recommendation stage, in log order.
func (s *Session) ScoredAnswers() []ai.ScoredAnswer {
	results := make([]ai.ScoredAnswer, 0, len(s.Evaluations))
	for _, e := range s.Evaluations {
		results = append(results, ai.ScoredAnswer{
			Question:  e.Question,
			Score:     e.Score,
			Reasoning: e.Rationale,
		})
	}
	return results
}
