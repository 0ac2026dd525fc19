package prompts

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var embedded []byte

// Registry holds the compiled prompt sets, keyed by model name.
type Registry struct {
	sets map[string]map[PromptName]Template
}

// Load compiles the prompt sets bundled with the binary.
func Load() (*Registry, error) {
	return Parse(embedded)
}

// Parse compiles prompt sets from YAML keyed by model name.
func Parse(data []byte) (*Registry, error) {
	var raw map[string]Spec
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompt sets: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no prompt sets defined")
	}
	r := &Registry{sets: make(map[string]map[PromptName]Template, len(raw))}
	for name, spec := range raw {
		tmpls, err := MakeTemplates(name, spec)
		if err != nil {
			return nil, err
		}
		r.sets[name] = tmpls
	}
	return r, nil
}

// Models lists the model names with a prompt set, sorted.
func (r *Registry) Models() []string {
	out := make([]string, 0, len(r.sets))
	for k := range r.sets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build renders prompt name for model, falling back to the default set.
func (r *Registry) Build(model string, name PromptName, in Input) (Prompt, error) {
	set := strings.TrimSpace(model)
	tmpls, ok := r.sets[set]
	if !ok {
		set = DefaultSet
		tmpls, ok = r.sets[set]
	}
	if !ok {
		return Prompt{}, fmt.Errorf("no prompt set for model %q", model)
	}
	t, ok := tmpls[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", string(name))
	}
	for _, v := range t.Validators {
		if err := v(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", string(name), err)
		}
	}
	sys, err := t.System(in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s system render: %w", string(name), err)
	}
	user, err := t.User(in)
	if err != nil {
		return Prompt{}, fmt.Errorf("%s user render: %w", string(name), err)
	}
	return Prompt{
		Name:    string(name),
		Set:     set,
		Version: t.Version,
		System:  sys,
		User:    user,
	}, nil
}
