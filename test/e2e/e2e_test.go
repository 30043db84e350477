package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcncl/jsontree/internal/inspect"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runJSONTree(t testing.TB, args ...string) string {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	require.NoError(t, err, "CLI command failed: %s", stderr.String())
	return stderr.String()
}

// TestEndToEnd_ComplexNestedStructures renders a realistic document and reads it back
func TestEndToEnd_ComplexNestedStructures(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `{
		"id": 12345,
		"uuid": "550e8400-e29b-41d4-a716-446655440000",
		"created_at": "2023-05-20T14:56:23Z",
		"updated_at": null,
		"config": {
			"enabled": true,
			"timeout_seconds": 30,
			"features": ["logging", "metrics", "alerting"],
			"rate_limits": {"per_second": 100, "per_minute": 1000, "burst": 150},
			"environments": {
				"development": {"debug": true, "log_level": "debug"},
				"production": {"debug": false, "log_level": "info"}
			}
		},
		"users": [
			{"id": 1, "name": "Alice", "roles": ["admin", "user"], "metadata": {"login_count": 42}},
			{"id": 2, "name": "Bob", "roles": [], "metadata": {}}
		],
		"ratio": 0.75,
		"big": 1e400
	}`
	jsonFile := filepath.Join(tempDir, "complex.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0o644))

	for _, collapsed := range []bool{false, true} {
		t.Run(fmt.Sprintf("collapsed=%t", collapsed), func(t *testing.T) {
			outputFile := filepath.Join(tempDir, fmt.Sprintf("complex_%t.html", collapsed))
			args := []string{"-i", jsonFile, "-o", outputFile, "--verify", "--page"}
			if collapsed {
				args = append(args, "--collapsed")
			}
			runJSONTree(t, args...)

			content, err := os.ReadFile(outputFile)
			require.NoError(t, err)
			html := string(content)

			v, err := parser.ParseString(jsonContent)
			require.NoError(t, err)
			text, err := inspect.Text(html)
			require.NoError(t, err)
			assert.Contains(t, text, v.JSON())
			// Number literals pass through untouched, even out of float64 range.
			assert.Contains(t, html, `<span class="jsontree-value jsontree-number">1e400</span>`)

			counts, err := inspect.Count(html)
			require.NoError(t, err)
			// root, config, features, rate_limits, environments, development,
			// production, users, roles, metadata
			assert.Equal(t, 10, counts.Collapsible)
			if collapsed {
				// the keyed ones plus the two user objects
				assert.Equal(t, 12, counts.Collapsed)
			} else {
				assert.Zero(t, counts.Collapsed)
			}
		})
	}
}

// TestEndToEnd_EdgeCases covers inputs whose text needs escaping on the way through
func TestEndToEnd_EdgeCases(t *testing.T) {
	tempDir := t.TempDir()

	testCases := []struct {
		name    string
		content string
	}{
		{"scalar string", `"just a string"`},
		{"scalar number", `-0.5e-3`},
		{"empty object", `{}`},
		{"empty array", `[]`},
		{"markup in keys and values", `{"<b>key</b>": "</script><script>alert(1)</script>", "a&b": "&amp;"}`},
		{"quotes and escapes", `{"say \"hi\"": "tab\there\nnewline \\ backslash \u0001"}`},
		{"unicode", `{"日本語": "emoji 🎉", "é": " "}`},
		{"duplicate keys", `{"a": 1, "b": 2, "a": 3}`},
		{"nested empties", `[[], {}, [[]], {"x": {}}]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			jsonFile := filepath.Join(tempDir, strings.ReplaceAll(tc.name, " ", "_")+".json")
			require.NoError(t, os.WriteFile(jsonFile, []byte(tc.content), 0o644))
			outputFile := jsonFile + ".html"

			runJSONTree(t, "-i", jsonFile, "-o", outputFile, "--verify")

			content, err := os.ReadFile(outputFile)
			require.NoError(t, err)

			text, err := inspect.Text(string(content))
			require.NoError(t, err)
			assert.True(t, json.Valid([]byte(text)), "copied text must be JSON: %s", text)
			assert.NotContains(t, string(content), "<script>alert(1)</script>")
		})
	}
}

// TestEndToEnd_LargeDocument checks the streaming path on a sizable input
func TestEndToEnd_LargeDocument(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large document test in short mode")
	}
	tempDir := t.TempDir()

	jsonFile := filepath.Join(tempDir, "large.json")
	generateLargeJSON(t, jsonFile, 2000)
	outputFile := filepath.Join(tempDir, "large.html")

	runJSONTree(t, "-i", jsonFile, "-o", outputFile)

	data, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	v, err := parser.ParseBytes(data)
	require.NoError(t, err)

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.NoError(t, inspect.Verify(string(content), v))
}

// generateLargeJSON writes an array of itemCount records to filePath
func generateLargeJSON(t testing.TB, filePath string, itemCount int) {
	t.Helper()
	items := make([]map[string]interface{}, itemCount)
	for i := range items {
		items[i] = map[string]interface{}{
			"id":     i,
			"name":   fmt.Sprintf("Item %d", i),
			"active": i%2 == 0,
			"score":  float64(i) * 1.5,
			"tags":   []string{"tag1", "tag2"},
			"meta":   map[string]interface{}{"created": "2023-05-20", "owner": nil},
		}
	}
	data, err := json.Marshal(items)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filePath, data, 0o644))
}

// TestEndToEnd_Samples renders every sample document through the CLI
func TestEndToEnd_Samples(t *testing.T) {
	samples, err := filepath.Glob("../../testdata/samples/*.json")
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	for _, sample := range samples {
		t.Run(filepath.Base(sample), func(t *testing.T) {
			outputFile := filepath.Join(t.TempDir(), "out.html")
			runJSONTree(t, "-i", sample, "-o", outputFile, "-r", "sample")

			v, err := parser.ParseFile(sample)
			require.NoError(t, err)
			content, err := os.ReadFile(outputFile)
			require.NoError(t, err)
			assert.NoError(t, inspect.Verify(string(content), v))
			assert.Contains(t, string(content), ">sample<")
		})
	}
}
