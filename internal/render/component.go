package render

import (
	"embed"
	"io"
	"iter"
	"sync"

	"github.com/mcncl/jsontree/internal/models"
)

//go:embed assets/jsontree.css assets/jsontree.js
var assets embed.FS

// Style returns the <style> block shared by every component. It is read once
// per process.
var Style = sync.OnceValue(func() string {
	return "<style>" + mustAsset("assets/jsontree.css") + "</style>"
})

// Script returns the <script> block that toggles collapsed entries. It is
// read once per process.
var Script = sync.OnceValue(func() string {
	return "<script defer>" + mustAsset("assets/jsontree.js") + "</script>"
})

func mustAsset(name string) string {
	data, err := assets.ReadFile(name)
	if err != nil {
		panic("render: missing embedded asset " + name + ": " + err.Error())
	}
	return string(data)
}

// Component yields the self-contained fragment for v: the tree followed by
// the stylesheet and the behavior script, all inside one element.
func Component(v models.Value, opts Options) iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield("<div>") {
			return
		}
		for c := range Chunks(v, opts) {
			if !yield(c) {
				return
			}
		}
		_ = yield(Style()) && yield(Script()) && yield("</div>")
	}
}

// HTML returns the concatenated fragment of Component.
func HTML(v models.Value, opts Options) string {
	return Join(Component(v, opts))
}

// WriteTo streams the fragment for v to w.
func WriteTo(w io.Writer, v models.Value, opts Options) (int64, error) {
	var total int64
	for c := range Component(v, opts) {
		n, err := io.WriteString(w, c)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
