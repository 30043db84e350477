package formatter

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/mcncl/jsontree/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_Structure(t *testing.T) {
	formatter := NewFormatter()
	out, err := formatter.Page(`<div class="jsontree-value">x</div>`, "Report")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n"))
	assert.Contains(t, out, `<meta charset="utf-8">`)
	assert.Contains(t, out, "<title>Report</title>")
	assert.Contains(t, out, "<body>\n<div class=\"jsontree-value\">x</div>\n</body>")
	assert.True(t, strings.HasSuffix(out, "</html>\n"))
}

func TestPage_TitleEscaped(t *testing.T) {
	out, err := NewFormatter().Page("<div></div>", `</title><script>alert(1)</script>`)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;/title&gt;&lt;script&gt;")
}

func TestPage_FragmentVerbatim(t *testing.T) {
	fragment := `<div><span class="jsontree-hidden">&lbrace;</span><script defer>(function(){})()</script></div>`
	out, err := NewFormatter().Page(fragment, "JSON")
	require.NoError(t, err)

	assert.Contains(t, out, fragment)
}

func TestPage_EmptyFragment(t *testing.T) {
	_, err := NewFormatter().Page("  \n", "JSON")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrEmptyInput))

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorTypeFormat, appErr.Type)
}
