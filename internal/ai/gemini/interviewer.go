package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/ai-interviewer/internal/ai"
	"github.com/spigell/ai-interviewer/internal/logger"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

//go:embed prompts/extract.md
var extractTemplate string

//go:embed prompts/question.md
var questionTemplate string

//go:embed prompts/evaluate.md
var evaluateTemplate string

//go:embed prompts/recommend.md
var recommendTemplate string

const (
	extractSystem   = "You are an Expert Technical Recruiter. Analyze the job description and extract key requirements."
	questionSystem  = "You are a Technical Interviewer conducting a live interview."
	evaluateSystem  = "You are a Senior Engineer evaluating a candidate answer. Be strict but constructive."
	recommendSystem = "You are a Hiring Manager. Make a final hiring decision based on the interview logs."

	defaultMaxLogLength = 200
)

// Interviewer implements ai.Assistant on top of a Gemini content generator.
type Interviewer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewInterviewer(generator contentGenerator, maxLogLength int, log *zap.Logger) *Interviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Interviewer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// ExtractRequirements asks the model for the structured requirements of the
// job description. A response that does not decode into the requirements
// schema is a fatal error for the session.
func (i *Interviewer) ExtractRequirements(ctx context.Context, jobDescription string) (*ai.Requirements, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, errors.New("job description must not be empty")
	}

	prompt := strings.ReplaceAll(extractTemplate, "{{JOB_DESCRIPTION}}", jobDescription)

	raw, err := i.generate(ctx, "extract_requirements", extractSystem, prompt)
	if err != nil {
		return nil, err
	}

	requirements, err := parseRequirements(raw)
	if err != nil {
		return nil, fmt.Errorf("decode requirements response: %w", err)
	}

	return requirements, nil
}

// GenerateQuestion asks the model for one question on the topic, passing the
// full list of prior questions so the model can avoid duplicates. Uniqueness
// is not enforced locally.
func (i *Interviewer) GenerateQuestion(ctx context.Context, req *ai.Requirements, previous []string, topic string) (string, error) {
	if req == nil {
		return "", errors.New("requirements are required")
	}

	prior := "none"
	if len(previous) > 0 {
		prior = strings.Join(previous, "\n")
	}

	prompt := strings.ReplaceAll(questionTemplate, "{{ROLE}}", req.RoleTitle)
	prompt = strings.ReplaceAll(prompt, "{{TECH_SKILLS}}", strings.Join(req.TechnicalSkills, ", "))
	prompt = strings.ReplaceAll(prompt, "{{SENIORITY}}", req.SeniorityLevel)
	prompt = strings.ReplaceAll(prompt, "{{PREVIOUS_QUESTIONS}}", prior)
	prompt = strings.ReplaceAll(prompt, "{{TOPIC}}", topic)

	return i.generate(ctx, "generate_question", questionSystem, prompt)
}

// EvaluateAnswer asks the model to score one question/answer pair. The answer
// is passed through unvalidated; the score is trusted from the model.
func (i *Interviewer) EvaluateAnswer(ctx context.Context, question, answer string, skills []string) (*ai.Evaluation, error) {
	prompt := strings.ReplaceAll(evaluateTemplate, "{{QUESTION}}", question)
	prompt = strings.ReplaceAll(prompt, "{{ANSWER}}", answer)
	prompt = strings.ReplaceAll(prompt, "{{SKILLS}}", strings.Join(skills, ", "))

	raw, err := i.generate(ctx, "evaluate_answer", evaluateSystem, prompt)
	if err != nil {
		return nil, err
	}

	evaluation, err := parseEvaluation(raw)
	if err != nil {
		return nil, fmt.Errorf("decode evaluation response: %w", err)
	}

	return evaluation, nil
}

// Recommend asks the model for the final free-text hiring verdict. The
// response is stored verbatim, no parsing is attempted.
func (i *Interviewer) Recommend(ctx context.Context, candidate, role string, results []ai.ScoredAnswer) (string, error) {
	var summary strings.Builder
	for _, r := range results {
		fmt.Fprintf(&summary, "Q: %s\nScore: %d/10\nNotes: %s\n\n", r.Question, r.Score, r.Reasoning)
	}

	prompt := strings.ReplaceAll(recommendTemplate, "{{CANDIDATE}}", candidate)
	prompt = strings.ReplaceAll(prompt, "{{ROLE}}", role)
	prompt = strings.ReplaceAll(prompt, "{{EVALUATIONS}}", summary.String())

	return i.generate(ctx, "recommend", recommendSystem, prompt)
}

func (i *Interviewer) generate(ctx context.Context, stage, system, prompt string) (string, error) {
	i.logger.Debug("gemini generate content request",
		zap.String("stage", stage),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, i.maxLogLen)),
	)

	raw, err := i.generator.GenerateContent(ctx, system, prompt)
	if err != nil {
		return "", err
	}

	i.logger.Debug("gemini generate content response",
		zap.String("stage", stage),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, i.maxLogLen)),
	)

	return strings.TrimSpace(raw), nil
}

func parseRequirements(raw string) (*ai.Requirements, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	for _, key := range []string{"role_title", "technical_skills", "soft_skills", "seniority_level"} {
		if _, ok := data[key]; !ok {
			return nil, fmt.Errorf("missing field %q", key)
		}
	}

	var requirements ai.Requirements
	if err := weakDecode(data, &requirements); err != nil {
		return nil, err
	}

	if strings.TrimSpace(requirements.RoleTitle) == "" {
		return nil, errors.New("role_title is empty")
	}

	return &requirements, nil
}

func parseEvaluation(raw string) (*ai.Evaluation, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	for _, key := range []string{"score", "reasoning"} {
		if _, ok := data[key]; !ok {
			return nil, fmt.Errorf("missing field %q", key)
		}
	}

	var evaluation ai.Evaluation
	if err := weakDecode(data, &evaluation); err != nil {
		return nil, err
	}

	return &evaluation, nil
}

func decodeObject(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return data, nil
}

// weakDecode tolerates mild type drift in model output, e.g. a score encoded
// as "7" instead of 7.
func weakDecode(input map[string]any, target any) error {
	cfg := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
