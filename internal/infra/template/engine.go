package template

import (
	"fmt"
	"strings"

	"notifyme/internal/domain/notification"
)

var _ notification.Renderer = (*Engine)(nil)

// Engine substitutes {{key}} placeholders by literal string replacement.
// It is deliberately not a parsing template engine: anything that is not an
// exact {{key}} match for a supplied key passes through untouched, malformed
// placeholder syntax included.
type Engine struct{}

// NewEngine creates a new substitution engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Render replaces every occurrence of {{key}} for each key in vars with the
// value's string form. A nil value substitutes an empty string; keys absent
// from vars leave their placeholders in place.
func (e *Engine) Render(pattern string, vars map[string]any) string {
	if pattern == "" || len(vars) == 0 {
		return pattern
	}

	out := pattern
	for key, value := range vars {
		text := ""
		if value != nil {
			text = fmt.Sprintf("%v", value)
		}
		out = strings.ReplaceAll(out, "{{"+key+"}}", text)
	}
	return out
}
