package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTool is returned when the model names a tool that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is one capability the model may call by name.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// InputRequired rejects empty inputs before Run is called.
	InputRequired bool `json:"input_required"`

	Run func(ctx context.Context, input string) (string, error) `json:"-"`
}

// Registry holds tools in registration order.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[strings.TrimSpace(name)]
	return t, ok
}

func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.tools[n])
	}
	return out
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Invoke validates the arguments and runs the named tool.
func (r *Registry) Invoke(ctx context.Context, name, input string) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	input = cleanInput(input)
	if t.InputRequired && input == "" {
		return "", fmt.Errorf("tool %s requires an input", t.Name)
	}
	return t.Run(ctx, input)
}

// cleanInput strips the quoting models like to wrap arguments in.
func cleanInput(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"`, "'", "`"} {
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// describe renders the tool list for the prompt.
func (r *Registry) describe() string {
	var b strings.Builder
	for _, t := range r.List() {
		fmt.Fprintf(&b, "%s: %s\n", t.Name, t.Description)
	}
	return b.String()
}
