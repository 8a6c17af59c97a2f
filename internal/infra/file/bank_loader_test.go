package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ham-quiz-trainer/internal/domain"
)

func TestLoadSectionsReadsIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, IndexFile, `{"sections":[{"id":"a1","label":"Радиотехника","file":"a1.json","count":2}]}`)

	loader := NewBankLoader(dir)
	sections, err := loader.LoadSections(context.Background())
	if err != nil {
		t.Fatalf("load sections: %v", err)
	}
	if len(sections) != 1 || sections[0].ID != "a1" || sections[0].Count != 2 {
		t.Fatalf("unexpected sections %+v", sections)
	}
}

func TestLoadSectionsMissingIndex(t *testing.T) {
	loader := NewBankLoader(t.TempDir())
	if _, err := loader.LoadSections(context.Background()); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}

func TestLoadSectionFiltersMalformedQuestions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a1.json", `[
		{"id":"q1","num":1,"question":"Валиден?","choices":{"А":"да","Б":"не","В":"може би","Г":"друго"},"answer":"А"},
		{"id":"q2","num":2,"question":"Без избор Г","choices":{"А":"а","Б":"б","В":"в"},"answer":"А"},
		{"id":"q3","num":3,"choices":{"А":"а","Б":"б","В":"в","Г":"г"},"answer":"Б"},
		{"id":"","num":4,"question":"Без id","choices":{"А":"а","Б":"б","В":"в","Г":"г"},"answer":"В"}
	]`)

	loader := NewBankLoader(dir)
	questions, err := loader.LoadSection(context.Background(), domain.Section{ID: "a1", File: "a1.json"})
	if err != nil {
		t.Fatalf("load section: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != "q1" {
		t.Fatalf("expected only q1 to survive, got %+v", questions)
	}
}

func TestLoadSectionMissingFile(t *testing.T) {
	loader := NewBankLoader(t.TempDir())
	_, err := loader.LoadSection(context.Background(), domain.Section{ID: "a1", File: "a1.json"})
	if !errors.Is(err, domain.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
