// Package render serializes processed conversations to their Markdown and
// JSON document forms.
package render

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/chatsift/pkg/document"
)

const markdownTemplate = `---
{{ .FrontMatter }}---

# {{ .Meta.Title }}

{{ range .Messages -}}
## {{ roleHeading .Role }}
{{ if and (eq .Role "user") .Files }}{{ range .Files }}[File: {{ . }}]
{{ end }}{{ end }}{{ .Content }}
{{ if .Citations }}
**Citations:**
{{ range .Citations }}- [{{ .Type | default "webpage" }}] {{ .Title | default "Untitled" }}{{ with .URL }} - {{ . }}{{ end }}
{{ end }}{{ end }}{{ if .WebURLs }}
**Web Search URLs:**
{{ range .WebURLs }}- {{ . }}
{{ end }}{{ end }}
{{ end -}}
`

var mdTemplate = template.Must(
	template.New("conversation").Funcs(sprig.TxtFuncMap()).Funcs(template.FuncMap{
		"roleHeading": roleHeading,
	}).Parse(markdownTemplate))

func roleHeading(role string) string {
	switch role {
	case "user":
		return "User"
	case "assistant":
		return "Assistant"
	case "system":
		return "System"
	case "":
		return "Unknown"
	default:
		return strings.ToUpper(role[:1]) + role[1:]
	}
}

type markdownContext struct {
	FrontMatter string
	Meta        document.Metadata
	Messages    []document.Message
}

// Markdown renders a conversation as a Markdown document with YAML
// frontmatter and one section per turn.
func Markdown(meta document.Metadata, messages []document.Message) (string, error) {
	frontMatter, err := yaml.Marshal(meta)
	if err != nil {
		return "", errors.Wrap(err, "could not marshal frontmatter")
	}

	var buf bytes.Buffer
	err = mdTemplate.Execute(&buf, markdownContext{
		FrontMatter: string(frontMatter),
		Meta:        meta,
		Messages:    messages,
	})
	if err != nil {
		return "", errors.Wrap(err, "could not render markdown")
	}

	return buf.String(), nil
}
