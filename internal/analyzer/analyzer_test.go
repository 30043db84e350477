package analyzer

import (
	"testing"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/inspect"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/mcncl/jsontree/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_SimpleObject(t *testing.T) {
	v, err := parser.ParseString(`{"name": "John Doe", "age": 30, "is_student": false, "score": 99.5, "nick": null}`)
	require.NoError(t, err)

	stats := Analyze(v)

	assert.Equal(t, 5, stats.Scalars)
	assert.Equal(t, 1, stats.Maps)
	assert.Zero(t, stats.Lists)
	assert.Equal(t, 5, stats.Keys)
	assert.Equal(t, 1, stats.Depth)
	assert.Equal(t, 1, stats.Collapsible)
	assert.Zero(t, stats.Collapsed)
	assert.Equal(t, map[models.Kind]int{
		models.Map:    1,
		models.String: 1,
		models.Number: 2,
		models.Bool:   1,
		models.Null:   1,
	}, stats.Kinds)
}

func TestAnalyze_NestedObject(t *testing.T) {
	v, err := parser.ParseString(`{
		"user_id": 123,
		"profile": {
			"full_name": "John Doe",
			"address": {
				"street": "123 Main St",
				"tags": [["a"], [], {}]
			}
		}
	}`)
	require.NoError(t, err)

	stats := Analyze(v)

	assert.Equal(t, 5, stats.Depth, "root > profile > address > tags > [a]")
	assert.Equal(t, 3, stats.Lists)
	assert.Equal(t, 4, stats.Maps)
	// root, profile, address, tags
	assert.Equal(t, 4, stats.Collapsible)
	// the four above plus ["a"]
	assert.Equal(t, 5, stats.Nested)
}

func TestAnalyze_Scalar(t *testing.T) {
	stats := Analyze(models.StringValue("abc"))

	assert.Equal(t, 1, stats.Scalars)
	assert.Zero(t, stats.Depth)
	assert.Zero(t, stats.Collapsible)
	assert.Zero(t, stats.Nested)
}

func TestAnalyze_EmptyContainers(t *testing.T) {
	stats := Analyze(models.ListValue(models.ListValue(), models.MapValue()))

	assert.Equal(t, 2, stats.Depth)
	assert.Equal(t, 1, stats.Collapsible)
	assert.Equal(t, 1, stats.Nested)
	assert.Zero(t, stats.Scalars)
}

func TestAnalyzeWithConfig_Collapsed(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Expanded = false

	v, err := parser.ParseString(`{"a": [1, {"b": null}], "c": {}, "d": [[1]]}`)
	require.NoError(t, err)

	stats := NewAnalyzerWithConfig(cfg).Analyze(v)
	assert.Equal(t, 5, stats.Collapsed)
	assert.Equal(t, stats.Nested, stats.Collapsed)
}

func TestNewAnalyzerWithConfig_Nil(t *testing.T) {
	a := NewAnalyzerWithConfig(nil)
	assert.True(t, a.config.Expanded)
}

// The stats must agree with what the renderer actually emits.
func TestAnalyze_MatchesRenderedTree(t *testing.T) {
	inputs := []string{
		`"x"`,
		`[]`,
		`[[1, [2]], {"k": {"j": []}}]`,
		`{"a": {"b": {"c": [true, {"d": [null]}]}}, "e": 1}`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v, err := parser.ParseString(input)
			require.NoError(t, err)

			for _, expanded := range []bool{true, false} {
				cfg := config.NewConfig()
				cfg.Expanded = expanded
				stats := NewAnalyzerWithConfig(cfg).Analyze(v)

				counts, err := inspect.Count(render.Tree(v, cfg.RenderOptions()))
				require.NoError(t, err)
				assert.Equal(t, stats.Collapsible, counts.Collapsible)
				assert.Equal(t, stats.Collapsed, counts.Collapsed)
				assert.Equal(t, stats.Keys+1, counts.Keys)
				assert.Equal(t, stats.Lists, counts.Hidden["["])
				assert.Equal(t, stats.Maps, counts.Hidden["{"])
			}
		})
	}
}

func TestStats_String(t *testing.T) {
	stats := Analyze(models.MapValue(models.Member{Key: "a", Value: models.ListValue(models.NullValue())}))
	assert.Equal(t, "1 scalars, 1 arrays, 1 objects, 1 keys, depth 2, 2 collapsible, 0 collapsed", stats.String())
}
