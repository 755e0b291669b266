// Package testutil provides helper functions for testing.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// TempDir creates a temporary directory and registers a cleanup function.
// The directory is automatically deleted when the test completes.
func TempDir(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "wfcatalog-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Errorf("failed to cleanup temp dir %s: %v", dir, err)
		}
	})

	return dir
}

// NewCorpus creates an empty corpus root with a workflows/ directory.
func NewCorpus(t *testing.T) string {
	t.Helper()

	root := TempDir(t)
	if err := os.MkdirAll(filepath.Join(root, "workflows"), 0755); err != nil {
		t.Fatalf("failed to create workflows dir: %v", err)
	}
	return root
}

// WriteFile writes content to root/rel, creating parent directories,
// and returns the full path.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
	return path
}

// WriteMetadata marshals fields as a metadata document at root/rel.
func WriteMetadata(t *testing.T, root, rel string, fields map[string]any) string {
	t.Helper()

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal metadata for %s: %v", rel, err)
	}
	return WriteFile(t, root, rel, string(data))
}

// ValidMetadata returns a metadata document that passes every validator
// rule without warnings. Callers may override or delete keys.
func ValidMetadata(name string) map[string]any {
	return map[string]any{
		"name":               name,
		"description":        "A complete workflow description that is comfortably longer than one hundred characters so no length warning is raised.",
		"category":           "Healthcare",
		"subcategory":        "Clinics",
		"difficulty":         "Beginner",
		"tags":               []string{"patient-intake", "forms", "crm-sync"},
		"integrations":       []string{"Google Sheets", "Slack"},
		"triggerType":        "Webhook",
		"estimatedSetupTime": "15-30 minutes",
		"pricing":            map[string]any{"estimatedMonthlyCost": "$0"},
		"version":            "1.0.0",
		"author":             "Ops Team",
		"lastUpdated":        "2024-01-15",
		"useCase":            "Clinics collecting intake forms",
		"features":           []string{"Form parsing", "Notifications"},
		"requirements":       []string{"n8n account"},
		"support":            map[string]any{"email": "help@example.com"},
	}
}
