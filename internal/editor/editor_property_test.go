//go:build property
// +build property

package editor

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/uistudio/internal/adapter"
	"github.com/conneroisu/uistudio/internal/content"
)

// structuralOps are the recorded edits a generated program draws from.
var structuralOps = []func(*Editor, int){
	func(e *Editor, n int) { e.SetURI(fmt.Sprintf("ui://gen/%d", n)) },
	func(e *Editor, n int) {
		if n%2 == 0 {
			e.SetEncoding(content.EncodingBlob)
		} else {
			e.SetEncoding(content.EncodingText)
		}
	},
	func(e *Editor, n int) { e.SetContentType(content.Kinds[n%len(content.Kinds)]) },
	func(e *Editor, n int) {
		if n%2 == 0 {
			e.SetFramework(content.FrameworkReact)
		} else {
			e.SetFramework(content.FrameworkWebComponents)
		}
	},
	func(e *Editor, n int) {
		types := []adapter.Type{adapter.TypeNone, adapter.TypeChatGPT, adapter.TypeGenericApps}
		e.SetAdapterType(types[n%len(types)])
	},
	func(e *Editor, n int) {
		e.SetHTMLString(fmt.Sprintf("<p>%d</p>", n))
		e.CommitEdit()
	},
}

func TestHistoryProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	program := gen.SliceOf(gen.IntRange(0, 10_000))

	properties.Property("n undos return to the initial state and n redos return", prop.ForAll(
		func(steps []int) bool {
			ed := New(content.NewEnvelope(content.RawHTML{HTML: "<p>start</p>"}), Config{HistoryLimit: -1})
			initial := ed.Envelope()

			for _, n := range steps {
				structuralOps[n%len(structuralOps)](ed, n)
			}
			final := ed.Envelope()

			for range steps {
				ed.Undo()
			}
			if !ed.Envelope().Equal(initial) {
				return false
			}
			for range steps {
				ed.Redo()
			}
			return ed.Envelope().Equal(final)
		},
		program,
	))

	properties.Property("a new edit after undo makes redo a no-op", prop.ForAll(
		func(steps []int, undos int) bool {
			if len(steps) == 0 {
				return true
			}
			ed := New(content.NewEnvelope(content.RawHTML{}), Config{HistoryLimit: -1})
			for _, n := range steps {
				structuralOps[n%len(structuralOps)](ed, n)
			}
			for i := 0; i < 1+undos%len(steps); i++ {
				ed.Undo()
			}
			ed.SetURI("ui://fresh/edit")
			after := ed.Envelope()
			ed.Redo()
			return !ed.CanRedo() && ed.Envelope().Equal(after)
		},
		gen.SliceOfN(8, gen.IntRange(0, 10_000)),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
