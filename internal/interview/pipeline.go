package interview

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/ai-interviewer/internal/ai"
	"go.uber.org/zap"
)

// DefaultMaxTopics bounds how many technical skills become interview topics
// when no cap is configured.
const DefaultMaxTopics = 2

// AnswerSource supplies the candidate's answer for a question. Reading blocks
// until an answer is available.
type AnswerSource interface {
	ReadAnswer(question string) (string, error)
}

// Pipeline runs the four interview stages strictly in order over one session.
// Any stage error aborts the run; there are no retries and no partial-result
// salvage.
type Pipeline struct {
	assistant ai.Assistant
	answers   AnswerSource
	maxTopics int
	logger    *zap.Logger
}

func New(assistant ai.Assistant, answers AnswerSource, maxTopics int, logger *zap.Logger) *Pipeline {
	if maxTopics <= 0 {
		maxTopics = DefaultMaxTopics
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		assistant: assistant,
		answers:   answers,
		maxTopics: maxTopics,
		logger:    logger,
	}
}

// Run conducts the interview: extract requirements, then one
// question/answer/evaluation cycle per selected topic, then the final
// recommendation.
func (p *Pipeline) Run(ctx context.Context, session *Session) error {
	if session == nil {
		return errors.New("session is required")
	}

	log := p.logger.With(
		zap.String("session_id", session.ID),
		zap.String("candidate", session.Candidate),
	)

	log.Info("analyzing job description")

	requirements, err := p.assistant.ExtractRequirements(ctx, session.JobDescription)
	if err != nil {
		return fmt.Errorf("extract requirements: %w", err)
	}

	if err := session.SetRequirements(requirements); err != nil {
		return err
	}

	log.Info("requirements extracted",
		zap.String("role", requirements.RoleTitle),
		zap.String("seniority", requirements.SeniorityLevel),
		zap.Int("technical_skills", len(requirements.TechnicalSkills)),
		zap.Int("soft_skills", len(requirements.SoftSkills)),
	)

	topics := requirements.TechnicalSkills
	if len(topics) > p.maxTopics {
		topics = topics[:p.maxTopics]
	}

	for _, topic := range topics {
		log.Info("generating question", zap.String("topic", topic))

		question, err := p.assistant.GenerateQuestion(ctx, requirements, session.Questions, topic)
		if err != nil {
			return fmt.Errorf("generate question for %q: %w", topic, err)
		}

		session.AddQuestion(question)

		answer, err := p.answers.ReadAnswer(question)
		if err != nil {
			return fmt.Errorf("collect answer: %w", err)
		}

		log.Info("evaluating answer", zap.String("topic", topic))

		evaluation, err := p.assistant.EvaluateAnswer(ctx, question, answer, requirements.TechnicalSkills)
		if err != nil {
			return fmt.Errorf("evaluate answer for %q: %w", topic, err)
		}

		session.AddEvaluation(Evaluation{
			Question:  question,
			Answer:    answer,
			Score:     evaluation.Score,
			Rationale: evaluation.Reasoning,
		})

		log.Info("answer evaluated",
			zap.String("topic", topic),
			zap.Int("score", evaluation.Score),
		)
	}

	log.Info("synthesizing recommendation", zap.Int("evaluations", len(session.Evaluations)))

	verdict, err := p.assistant.Recommend(ctx, session.Candidate, requirements.RoleTitle, session.ScoredAnswers())
	if err != nil {
		return fmt.Errorf("synthesize recommendation: %w", err)
	}

	return session.SetRecommendation(verdict)
}
