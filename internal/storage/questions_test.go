package storage

import (
	"testing"

	"github.com/conorfennell/examlog/internal/domain"
)

func sampleQuestion() *domain.Question {
	return &domain.Question{
		Module:       "数量关系",
		Source:       "2023国考",
		Content:      "甲乙两人相向而行……",
		Answer:       "C",
		Analysis:     "相遇时间 = 路程和 / 速度和",
		QuestionType: "行程问题",
		EnteredOn:    "2023-05-01",
	}
}

func TestAddQuestion(t *testing.T) {
	db := setupTestDB(t)

	older := sampleQuestion()
	older.Source = "2022省考"
	if _, err := db.AddQuestion(older); err != nil {
		t.Fatalf("add question: %v", err)
	}

	q := sampleQuestion()
	id, err := db.AddQuestion(q)
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if id == 0 || id == older.ID {
		t.Fatalf("Expected a fresh ID, got %d (previous %d)", id, older.ID)
	}
	if q.ID != id {
		t.Errorf("Expected record ID to be set to %d, got %d", id, q.ID)
	}

	questions, err := db.ListQuestions()
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(questions))
	}
	got := questions[0]
	if got.ID != id {
		t.Fatalf("Expected newest question %d first, got %d", id, got.ID)
	}
	if got.Module != q.Module || got.Source != q.Source || got.Content != q.Content ||
		got.Answer != q.Answer || got.Analysis != q.Analysis || got.QuestionType != q.QuestionType ||
		got.EnteredOn != q.EnteredOn {
		t.Errorf("Stored question %+v does not match %+v", got, *q)
	}
	if got.ReviewCount != 0 {
		t.Errorf("Expected review count 0, got %d", got.ReviewCount)
	}
	if !got.CreatedAt.Equal(q.CreatedAt) {
		t.Errorf("Expected created_at %v, got %v", q.CreatedAt, got.CreatedAt)
	}
}

func TestUpdateQuestionReplacesFields(t *testing.T) {
	db := setupTestDB(t)
	q := sampleQuestion()
	if _, err := db.AddQuestion(q); err != nil {
		t.Fatalf("add question: %v", err)
	}
	if err := db.IncrementReview(q.ID); err != nil {
		t.Fatalf("increment review: %v", err)
	}

	updated := domain.Question{
		ID:        q.ID,
		Module:    "资料分析",
		Source:    "2024国考",
		Content:   "增长率计算",
		Answer:    "A",
		EnteredOn: "2024-02-02",
	}
	if err := db.UpdateQuestion(&updated); err != nil {
		t.Fatalf("update question: %v", err)
	}

	got, err := db.Question(q.ID)
	if err != nil {
		t.Fatalf("find question: %v", err)
	}
	if got == nil {
		t.Fatal("Expected question to exist")
	}
	if got.Module != "资料分析" || got.Source != "2024国考" || got.Content != "增长率计算" ||
		got.Answer != "A" || got.Analysis != "" || got.QuestionType != "" || got.EnteredOn != "2024-02-02" {
		t.Errorf("Expected full replacement, got %+v", got)
	}
	if got.ReviewCount != 1 {
		t.Errorf("Expected update to keep review count 1, got %d", got.ReviewCount)
	}
}

func TestDeleteQuestion(t *testing.T) {
	db := setupTestDB(t)
	q := sampleQuestion()
	if _, err := db.AddQuestion(q); err != nil {
		t.Fatalf("add question: %v", err)
	}

	if err := db.DeleteQuestion(q.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	if err := db.DeleteQuestion(q.ID); err != nil {
		t.Errorf("Expected deleting a missing question to be a no-op, got %v", err)
	}

	questions, err := db.ListQuestions()
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("Expected no questions, got %d", len(questions))
	}
	got, err := db.Question(q.ID)
	if err != nil || got != nil {
		t.Errorf("Expected nil, nil for a deleted question, got %v, %v", got, err)
	}
}

func TestIncrementReview(t *testing.T) {
	db := setupTestDB(t)
	q := sampleQuestion()
	if _, err := db.AddQuestion(q); err != nil {
		t.Fatalf("add question: %v", err)
	}

	const n = 5
	for i := 0; i < n; i++ {
		if err := db.IncrementReview(q.ID); err != nil {
			t.Fatalf("increment review: %v", err)
		}
	}

	got, err := db.Question(q.ID)
	if err != nil {
		t.Fatalf("find question: %v", err)
	}
	if got.ReviewCount != n {
		t.Errorf("Expected review count %d, got %d", n, got.ReviewCount)
	}
}

func TestQuestionSources(t *testing.T) {
	db := setupTestDB(t)
	for _, source := range []string{"2023国考", "2022省考", "2023国考"} {
		q := sampleQuestion()
		q.Source = source
		if _, err := db.AddQuestion(q); err != nil {
			t.Fatalf("add question: %v", err)
		}
	}

	sources, err := db.QuestionSources()
	if err != nil {
		t.Fatalf("question sources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("Expected 2 distinct sources, got %v", sources)
	}
}
