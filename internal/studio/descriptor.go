package studio

import "github.com/conneroisu/uistudio/internal/content"

// Surface identifies one code-editing widget in the studio.
type Surface string

const (
	SurfaceOptions Surface = "options"
	SurfaceMarkup  Surface = "markup"
	SurfaceScript  Surface = "script"
)

// EditorDescriptor tells the front end how to configure a code-editing
// widget. Diagnostics are always off: the studio reports its own.
type EditorDescriptor struct {
	Surface     Surface `json:"surface"`
	Language    string  `json:"language"`
	Diagnostics bool    `json:"diagnostics"`
}

// Descriptors lists the editing widgets shown for kind. The options-object
// editor is always present.
func Descriptors(kind content.Kind) []EditorDescriptor {
	out := []EditorDescriptor{{Surface: SurfaceOptions, Language: "typescript"}}
	switch kind {
	case content.KindRawHTML:
		out = append(out, EditorDescriptor{Surface: SurfaceMarkup, Language: "html"})
	case content.KindRemoteDOM:
		out = append(out, EditorDescriptor{Surface: SurfaceScript, Language: "javascript"})
	}
	return out
}
