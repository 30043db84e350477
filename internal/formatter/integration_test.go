package formatter

import (
	"testing"

	"github.com/mcncl/jsontree/internal/inspect"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/mcncl/jsontree/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_ParserRenderFormatter(t *testing.T) {
	// Test the full pipeline: Parser -> Render -> Formatter -> read back
	jsonInput := `{
		"user_id": 123,
		"username": "johndoe",
		"is_active": true,
		"profile": {
			"full_name": "John Doe",
			"email": "john.doe@example.com"
		},
		"roles": ["admin", "dev"]
	}`

	v, err := parser.ParseString(jsonInput)
	require.NoError(t, err)

	fragment := render.HTML(v, render.DefaultOptions())
	doc, err := NewFormatter().Page(fragment, "User")
	require.NoError(t, err)

	// The page body carries the whole component, so it still copies out as the input.
	text, err := inspect.Text(doc)
	require.NoError(t, err)
	assert.Contains(t, text, v.JSON())

	counts, err := inspect.Count(doc)
	require.NoError(t, err)
	// root, profile, roles
	assert.Equal(t, 3, counts.Collapsible)
}
