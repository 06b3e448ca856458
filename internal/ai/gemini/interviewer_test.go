package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/ai-interviewer/internal/ai"
	"go.uber.org/zap"
)

type stubGenerator struct {
	response    string
	err         error
	calls       int
	lastSystem  string
	lastMessage string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastMessage = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestExtractRequirements(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{
		"role_title": "Senior Python Developer",
		"technical_skills": ["Django", "Azure"],
		"soft_skills": ["Communication"],
		"seniority_level": "Senior"
	}` + "\n```"}
	interviewer := NewInterviewer(stub, 0, zap.NewNop())

	requirements, err := interviewer.ExtractRequirements(context.Background(), "We need a Senior Python Developer with Django and Azure.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requirements.RoleTitle != "Senior Python Developer" {
		t.Fatalf("unexpected role title: %q", requirements.RoleTitle)
	}

	if len(requirements.TechnicalSkills) != 2 || requirements.TechnicalSkills[0] != "Django" {
		t.Fatalf("unexpected technical skills: %+v", requirements.TechnicalSkills)
	}

	if len(requirements.SoftSkills) != 1 {
		t.Fatalf("unexpected soft skills: %+v", requirements.SoftSkills)
	}

	if requirements.SeniorityLevel != "Senior" {
		t.Fatalf("unexpected seniority: %q", requirements.SeniorityLevel)
	}

	if !strings.Contains(stub.lastMessage, "We need a Senior Python Developer") {
		t.Fatalf("expected job description in prompt: %s", stub.lastMessage)
	}

	if stub.lastSystem != extractSystem {
		t.Fatalf("unexpected system instruction: %q", stub.lastSystem)
	}
}

func TestExtractRequirementsMissingField(t *testing.T) {
	stub := &stubGenerator{response: `{"technical_skills": [], "soft_skills": [], "seniority_level": "Mid"}`}
	interviewer := NewInterviewer(stub, 0, zap.NewNop())

	_, err := interviewer.ExtractRequirements(context.Background(), "some description")
	if err == nil {
		t.Fatal("expected error for missing role_title")
	}

	if !strings.Contains(err.Error(), "role_title") {
		t.Fatalf("expected role_title in error, got: %v", err)
	}
}

func TestExtractRequirementsMalformedResponse(t *testing.T) {
	stub := &stubGenerator{response: "Sure! Here are the requirements you asked for."}
	interviewer := NewInterviewer(stub, 0, zap.NewNop())

	if _, err := interviewer.ExtractRequirements(context.Background(), "some description"); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestExtractRequirementsEmptyJobDescription(t *testing.T) {
	stub := &stubGenerator{response: "{}"}
	interviewer := NewInterviewer(stub, 0, zap.NewNop())

	if _, err := interviewer.ExtractRequirements(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty job description")
	}

	if stub.calls != 0 {
		t.Fatalf("expected no model calls, got %d", stub.calls)
	}
}

func TestGenerateQuestionPromptContents(t *testing.T) {
	stub := &stubGenerator{response: "  How would you scale a Django application?  \n"}
	interviewer := NewInterviewer(stub, 0, zap.NewNop())

	req := &ai.Requirements{
		RoleTitle:       "Senior Python Developer",
		TechnicalSkills: []string{"Django", "Azure"},
		SeniorityLevel:  "Senior",
	}
	previous := []string{"What is a generator?", "Explain the GIL."}

	question, err := interviewer.GenerateQuestion(context.Background(), req, previous, "Django")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if question != "How would you scale a Django application?" {
		t.Fatalf("expected trimmed question, got %q", question)
	}

	prompt := stub.lastMessage
	for _, want := range []string{
		"Senior Python Developer",
		"Django, Azure",
		"Senior",
		"What is a generator?",
		"Explain the GIL.",
		"focusing on: Django",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected %q in prompt: %s", want, prompt)
		}
	}
}

func TestGenerateQuestionWithoutPrevious(t *testing.T) {
	stub := &stubGenerator{response: "First question?"}
	interviewer := NewInterviewer(stub, 0, zap.NewNop())

	req := &ai.Requirements{RoleTitle: "Developer", SeniorityLevel: "Mid"}

	if _, err := interviewer.GenerateQuestion(context.Background(), req, nil, "Go"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastMessage, "Avoid repeating these questions:\nnone") {
		t.Fatalf("expected 'none' placeholder for previous questions: %s", stub.lastMessage)
	}
}

func TestEvaluateAnswer(t *testing.T) {
	stub := &stubGenerator{response: `{"score": 7, "reasoning": "Solid but shallow."}`}
	interviewer := NewInterviewer(stub, 0, zap.NewNop())

	evaluation, err := interviewer.EvaluateAnswer(context.Background(), "What is Django?", "A web framework.", []string{"Django", "Azure"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if evaluation.Score != 7 {
		t.Fatalf("expected score 7, got %d", evaluation.Score)
	}

	if evaluation.Reasoning != "Solid but shallow." {
		t.Fatalf("unexpected reasoning: %q", evaluation.Reasoning)
	}

	for _, want := range []string{"What is Django?", "A web framework.", "Django, Azure"} {
		if !strings.Contains(stub.lastMessage, want) {
			t.Fatalf("expected %q in prompt: %s", want, stub.lastMessage)
		}
	}
}

func TestEvaluateAnswerStringScore(t *testing.T) {
	stub := &stubGenerator{response: `{"score": "7", "reasoning": "ok"}`}
	interviewer := NewInterviewer(stub, 0, zap.NewNop())

	evaluation, err := interviewer.EvaluateAnswer(context.Background(), "q", "a", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if evaluation.Score != 7 {
		t.Fatalf("expected score 7 from weak typing, got %d", evaluation.Score)
	}
}

func TestEvaluateAnswerMissingScore(t *testing.T) {
	stub := &stubGenerator{response: `{"reasoning": "no score here"}`}
	interviewer := NewInterviewer(stub, 0, zap.NewNop())

	_, err := interviewer.EvaluateAnswer(context.Background(), "q", "a", nil)
	if err == nil {
		t.Fatal("expected error for missing score")
	}

	if !strings.Contains(err.Error(), "score") {
		t.Fatalf("expected score in error, got: %v", err)
	}
}

func TestRecommendBuildsSummary(t *testing.T) {
	stub := &stubGenerator{response: "HIRE. Strong across both topics."}
	interviewer := NewInterviewer(stub, 0, zap.NewNop())

	results := []ai.ScoredAnswer{
		{Question: "What is Django?", Score: 7, Reasoning: "ok"},
		{Question: "Explain Azure Functions.", Score: 8, Reasoning: "good depth"},
	}

	verdict, err := interviewer.Recommend(context.Background(), "Alex Developer", "Senior Python Developer", results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if verdict != "HIRE. Strong across both topics." {
		t.Fatalf("expected verbatim verdict, got %q", verdict)
	}

	prompt := stub.lastMessage
	for _, want := range []string{
		"Candidate: Alex Developer",
		"Role: Senior Python Developer",
		"Q: What is Django?",
		"Score: 7/10",
		"Notes: ok",
		"Q: Explain Azure Functions.",
		"Score: 8/10",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected %q in prompt: %s", want, prompt)
		}
	}
}

func TestGenerateErrorsPropagate(t *testing.T) {
	stub := &stubGenerator{err: errors.New("endpoint unreachable")}
	interviewer := NewInterviewer(stub, 0, zap.NewNop())

	if _, err := interviewer.ExtractRequirements(context.Background(), "jd"); err == nil {
		t.Fatal("expected transport error to propagate")
	}

	if stub.calls != 1 {
		t.Fatalf("expected single call without retries, got %d", stub.calls)
	}
}

func TestExtractJSONHandlesCodeBlock(t *testing.T) {
	raw := "```json\n{\"score\": 5, \"reasoning\": \"meh\"}\n```"

	evaluation, err := parseEvaluation(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if evaluation.Score != 5 {
		t.Fatalf("expected score 5, got %d", evaluation.Score)
	}
}
