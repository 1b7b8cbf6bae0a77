package extract

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/repolens/gh-miner/pkg/models"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty becomes NaN", "", "NaN"},
		{"plain text untouched", "hello world", "hello world"},
		{"newlines stripped", "line one\nline two", "line oneline two"},
		{"carriage returns stripped", "a\r\nb\r\n", "ab"},
		{"surrounding whitespace trimmed", "  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanString(tt.input); got != tt.want {
				t.Errorf("cleanString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 1, 31, 15, 4, 5, 0, time.UTC)
	if got, want := formatTime(ts), "01/31/24, 03:04:05 PM"; got != want {
		t.Errorf("formatTime() = %q, want %q", got, want)
	}
}

func TestClosedTime(t *testing.T) {
	if got := closedTime(nil); got != "NaN" {
		t.Errorf("closedTime(nil) = %q, want NaN", got)
	}
	ts := time.Date(2023, 6, 2, 9, 30, 0, 0, time.UTC)
	if got, want := closedTime(&ts), "06/02/23, 09:30:00 AM"; got != want {
		t.Errorf("closedTime() = %q, want %q", got, want)
	}
}

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name    string
		cat     Category
		fields  []string
		wantErr bool
	}{
		{"valid issue fields", CategoryIssue, []string{"issue_title", "issue_body"}, false},
		{"valid pr fields", CategoryPR, []string{"pr_merged", "pr_title"}, false},
		{"valid commit fields", CategoryCommit, []string{"commit_sha", "commit_files"}, false},
		{"empty list", CategoryIssue, nil, false},
		{"unknown issue field", CategoryIssue, []string{"issue_titel"}, true},
		{"field from wrong category", CategoryIssue, []string{"pr_title"}, true},
		{"unknown commit field", CategoryCommit, []string{"commit_tree"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFields(tt.cat, tt.fields)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFields() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFields_ErrorNamesField(t *testing.T) {
	err := ValidateFields(CategoryPR, []string{"pr_reviews"})
	if err == nil {
		t.Fatal("ValidateFields() = nil error for unknown field")
	}
	if !strings.Contains(err.Error(), "pr_reviews") {
		t.Errorf("error %q does not name the bad field", err)
	}
}

func TestValidFields_Sorted(t *testing.T) {
	for _, cat := range []Category{CategoryCommit, CategoryIssue, CategoryPR} {
		names := ValidFields(cat)
		if len(names) == 0 {
			t.Errorf("ValidFields(%s) is empty", cat)
		}
		for i := 1; i < len(names); i++ {
			if names[i-1] >= names[i] {
				t.Errorf("ValidFields(%s) not sorted: %v", cat, names)
			}
		}
	}
}

func TestCommitFiles(t *testing.T) {
	commit := &models.Commit{
		SHA: "abc123",
		Files: []models.CommitFile{
			{Filename: "a.go", Additions: 10, Deletions: 2, Changes: 12, Status: "modified", Patch: "@@ -1 +1 @@"},
			{Filename: "b.go", Additions: 3, Deletions: 1, Changes: 4, Status: "added", Patch: "@@ -0 +1 @@"},
		},
	}

	got, ok := commitFiles(commit).(map[string]any)
	if !ok {
		t.Fatalf("commitFiles() = %T, want map", commitFiles(commit))
	}

	if want := []string{"a.go", "b.go"}; !reflect.DeepEqual(got["file_list"], want) {
		t.Errorf("file_list = %v, want %v", got["file_list"], want)
	}
	if got["additions"] != 13 {
		t.Errorf("additions = %v, want 13", got["additions"])
	}
	if got["removals"] != 3 {
		t.Errorf("removals = %v, want 3", got["removals"])
	}
	if got["changes"] != 16 {
		t.Errorf("changes = %v, want 16", got["changes"])
	}
	status, _ := got["status"].(string)
	if !strings.Contains(status, "modified") || !strings.Contains(status, "added") {
		t.Errorf("status = %q, want both file statuses", status)
	}
}
