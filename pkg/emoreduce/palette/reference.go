package palette

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

var referenceTmpl = template.Must(template.New("ref").Parse(`// Code generated by emopalette. DO NOT EDIT.

// Package {{.Package}} maps GoEmotions labels to display colors.
package {{.Package}}

// DefaultColor is returned for emotions without a mapping.
const DefaultColor = "{{.Default}}"

// EmotionColors maps each emotion to a #RRGGBB color.
var EmotionColors = map[string]string{
{{- range .Entries}}
	{{printf "%q" .Emotion}}: {{printf "%q" .Hex}}, // {{.Name}}
{{- end}}
}

// EmotionColor returns the color for emotion, falling back to DefaultColor.
func EmotionColor(emotion string) string {
	if c, ok := EmotionColors[emotion]; ok {
		return c
	}
	return DefaultColor
}
`))

// RenderReference returns gofmt'd Go source exposing the table as a map
// literal plus a lookup function with the default fallback.
func RenderReference(pkg string) ([]byte, error) {
	if pkg == "" {
		pkg = "emotioncolors"
	}
	var buf bytes.Buffer
	err := referenceTmpl.Execute(&buf, struct {
		Package string
		Default string
		Entries []Entry
	}{pkg, DefaultColor, Entries()})
	if err != nil {
		return nil, fmt.Errorf("render reference: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format reference: %w", err)
	}
	return src, nil
}

// WriteReference renders the reference source and writes it to path
func WriteReference(path, pkg string) error {
	src, err := RenderReference(pkg)
	if err != nil {
		return err
	}
	return writeFile(path, src)
}
