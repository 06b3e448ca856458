package interview

import (
	"testing"

	"github.com/spigell/ai-interviewer/internal/ai"
)

func TestNewSession(t *testing.T) {
	first := NewSession("Alex Developer", "some description")
	second := NewSession("Alex Developer", "some description")

	if first.Candidate != "Alex Developer" {
		t.Fatalf("unexpected candidate: %q", first.Candidate)
	}

	if first.JobDescription != "some description" {
		t.Fatalf("unexpected job description: %q", first.JobDescription)
	}

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct non-empty session ids, got %q and %q", first.ID, second.ID)
	}
}

func TestSetRequirementsOnlyOnce(t *testing.T) {
	session := NewSession("Alex", "jd")

	req := &ai.Requirements{RoleTitle: "Developer"}
	if err := session.SetRequirements(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := session.SetRequirements(req); err == nil {
		t.Fatal("expected error on second SetRequirements")
	}

	if err := session.SetRequirements(nil); err == nil {
		t.Fatal("expected error for nil requirements")
	}
}

func TestSetRecommendationOnlyOnce(t *testing.T) {
	session := NewSession("Alex", "jd")

	if err := session.SetRecommendation("HIRE"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := session.SetRecommendation("NO HIRE"); err == nil {
		t.Fatal("expected error on second SetRecommendation")
	}

	if session.Recommendation != "HIRE" {
		t.Fatalf("recommendation overwritten: %q", session.Recommendation)
	}
}

func TestScoredAnswersAlignment(t *testing.T) {
	session := NewSession("Alex", "jd")

	session.AddEvaluation(Evaluation{Question: "q1", Answer: "a1", Score: 7, Rationale: "ok"})
	session.AddEvaluation(Evaluation{Question: "q2", Answer: "a2", Score: 4, Rationale: "weak"})

	results := session.ScoredAnswers()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	for i, e := range session.Evaluations {
		if results[i].Question != e.Question {
			t.Fatalf("result %d question mismatch: %q vs %q", i, results[i].Question, e.Question)
		}
		if results[i].Score != e.Score {
			t.Fatalf("result %d score mismatch: %d vs %d", i, results[i].Score, e.Score)
		}
		if results[i].Reasoning != e.Rationale {
			t.Fatalf("result %d rationale mismatch: %q vs %q", i, results[i].Reasoning, e.Rationale)
		}
	}
}
