package models

import "testing"

func TestParseRepo(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantOrg  string
		wantRepo string
		wantErr  bool
	}{
		{"valid", "acme/widgets", "acme", "widgets", false},
		{"no slash", "acmewidgets", "", "", true},
		{"empty", "", "", "", true},
		{"empty owner", "/widgets", "", "", true},
		{"empty repo", "acme/", "", "", true},
		{"extra segment", "acme/widgets/extra", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org, repo, err := ParseRepo(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepo(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if org != tt.wantOrg || repo != tt.wantRepo {
				t.Errorf("ParseRepo(%q) = %q, %q, want %q, %q",
					tt.input, org, repo, tt.wantOrg, tt.wantRepo)
			}
		})
	}
}

func TestIssue_IsPullRequest(t *testing.T) {
	issue := &Issue{Number: 1}
	if issue.IsPullRequest() {
		t.Error("IsPullRequest() = true without a pull request link")
	}

	issue.PullRequest = &PullRequestLink{URL: "https://example.invalid/pull/1"}
	if !issue.IsPullRequest() {
		t.Error("IsPullRequest() = false with a pull request link")
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || b == "" {
		t.Fatal("NewRunID() returned empty string")
	}
	if a == b {
		t.Error("NewRunID() returned duplicate IDs")
	}
}
