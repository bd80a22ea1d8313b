package render

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Static errors for filename rendering
var (
	ErrEmptyFilename  = errors.New("filename template produced an empty name")
	ErrUnsafeFilename = errors.New("filename template produced a path separator")
)

// Filename renders an output file name from a template with the sprig
// function set, so config-level templates can write things like
// "goes_{{ .Satellite }}_{{ .Month | lower }}_n{{ .Window }}.mp4".
func Filename(tmpl string, data map[string]any) (string, error) {
	t, err := template.New("filename").Funcs(sprig.FuncMap()).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("invalid filename template: %w", err)
	}

	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render filename template: %w", err)
	}

	name := strings.TrimSpace(sb.String())
	if name == "" {
		return "", ErrEmptyFilename
	}
	if strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("%w: %q", ErrUnsafeFilename, name)
	}

	return name, nil
}
