package handlers

import (
	"net/http"
	"testing"

	"coinsim/internal/content"
)

func TestListLessons(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/lessons", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Lessons []content.Lesson `json:"lessons"`
		Count   int              `json:"count"`
	}
	decodeJSON(t, w, &resp)

	if resp.Count != 5 || len(resp.Lessons) != 5 {
		t.Errorf("Expected 5 lessons, got %d", resp.Count)
	}
	if resp.Lessons[0].ID != "what-is-cryptocurrency" {
		t.Errorf("Unexpected first lesson: %s", resp.Lessons[0].ID)
	}
}

func TestGetLesson(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/lessons/understanding-bitcoin", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var lesson content.Lesson
	decodeJSON(t, w, &lesson)
	if lesson.Title != "Understanding Bitcoin" {
		t.Errorf("Unexpected lesson: %+v", lesson)
	}

	w = env.request(t, http.MethodGet, "/api/lessons/no-such-lesson", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown lesson, got %d", w.Code)
	}
}
