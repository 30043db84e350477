// Package inspect reads rendered trees back the way a browser presents them.
// It is used to check that a fragment copies out as the JSON it was rendered
// from, and to count structural markers in tests and diagnostics.
package inspect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/render"
)

// Text returns the text a reader gets when copying the whole fragment:
// markup is dropped, entities are decoded, hidden punctuation is kept, and
// styles, scripts and unselectable labels are left out.
func Text(fragment string) (string, error) {
	doc, err := parse(fragment)
	if err != nil {
		return "", err
	}
	doc.Find("style, script, ." + render.ClassUnselectable).Remove()
	return doc.Text(), nil
}

// Verify checks that the copied text of fragment is valid JSON and identical
// to the canonical text of v.
func Verify(fragment string, v models.Value) error {
	text, err := Text(fragment)
	if err != nil {
		return err
	}
	if !json.Valid([]byte(text)) {
		return errors.NewVerifyError("copied text is not valid JSON", errors.ErrInvalidJSON)
	}
	if want := v.JSON(); text != want {
		return errors.NewVerifyError(
			fmt.Sprintf("copied text differs from input at byte %d", firstDifference(text, want)),
			errors.ErrRoundTrip,
		)
	}
	return nil
}

// Counts summarizes the structural markers of a fragment.
type Counts struct {
	Entries     int            // list entries (<li>), root entry included
	Collapsible int            // keys marked collapsible
	Collapsed   int            // entries that start collapsed
	Keys        int            // key elements, root label included
	Hidden      map[string]int // hidden punctuation, by text
}

// Count parses fragment and tallies its structural markers.
func Count(fragment string) (Counts, error) {
	doc, err := parse(fragment)
	if err != nil {
		return Counts{}, err
	}
	counts := Counts{
		Entries:     doc.Find("li").Length(),
		Collapsible: doc.Find("." + render.ClassCollapsible).Length(),
		Collapsed:   doc.Find("li." + render.ClassCollapsed).Length(),
		Keys:        doc.Find("." + render.ClassKey).Length(),
		Hidden:      make(map[string]int),
	}
	doc.Find("." + render.ClassHidden).Each(func(_ int, s *goquery.Selection) {
		counts.Hidden[s.Text()]++
	})
	return counts, nil
}

func parse(fragment string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, errors.NewVerifyError("failed to parse HTML fragment", err)
	}
	return doc, nil
}

func firstDifference(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
