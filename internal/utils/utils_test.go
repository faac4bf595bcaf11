package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
)

func TestNormalizeLevel(t *testing.T) {
	cases := map[string]string{
		" Junior":         "Junior",
		"jr.":             "Junior",
		"Entry level":     "Junior",
		"MID-LEVEL":       "Mid-level",
		"sr":              "Senior",
		" Distinguished ": "Distinguished",
		"":                "",
	}
	for in, want := range cases {
		if got := NormalizeLevel(in); got != want {
			t.Fatalf("NormalizeLevel(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestStripFences(t *testing.T) {
	input := "```json\n[\"Q1\"]\n```\n"
	want := `["Q1"]`

	if got := StripFences(input); got != want {
		t.Fatalf("StripFences: expected %q, got %q", want, got)
	}

	raw := `  ["Q1"]  `
	if got := StripFences(raw); got != `["Q1"]` {
		t.Fatalf("StripFences (no fences): expected trimmed string, got %q", got)
	}
}

func TestRandomInterviewCover(t *testing.T) {
	for i := 0; i < 50; i++ {
		cover := RandomInterviewCover()
		if !strings.HasPrefix(cover, "/covers/") || !strings.HasSuffix(cover, ".png") {
			t.Fatalf("unexpected cover %s", cover)
		}
		found := false
		for _, c := range models.InterviewCovers {
			if "/covers"+c == cover {
				found = true
			}
		}
		if !found {
			t.Fatalf("cover %s not in shipped list", cover)
		}
	}
}

func TestJSONHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	payload := map[string]string{"hello": "world"}

	JSON(rec, http.StatusCreated, payload)

	if rec.Code != http.StatusCreated {
		t.Fatalf("JSON: expected status %d, got %d", http.StatusCreated, rec.Code)
	}
	if contentType := rec.Header().Get("Content-Type"); contentType != "application/json" {
		t.Fatalf("JSON: expected content-type application/json, got %s", contentType)
	}

	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("JSON decode failed: %v", err)
	}
	if got["hello"] != "world" {
		t.Fatalf("JSON body mismatch: %+v", got)
	}
}

func TestFailureResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	Failure(rec, models.NewFailure(models.FailureNotFound, "interview not found", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"code":"not_found"`) || !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
