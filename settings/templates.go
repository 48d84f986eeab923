package settings

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"slices"
	"sync"
)

//go:embed templates/*.json
var builtinTemplates embed.FS

const (
	TemplatePinballEmporium = "pinball-emporium"
	TemplatePinUPPopper     = "pinup-popper"
)

// Registry holds the built-in templates and the ones registered during a session.
// Registered templates are kept in memory only.
type Registry struct {
	lock      sync.Mutex
	templates map[string][]byte
}

// NewRegistry returns a registry loaded with the built-in templates.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string][]byte)}
	for _, id := range []string{TemplatePinballEmporium, TemplatePinUPPopper} {
		raw, err := builtinTemplates.ReadFile("templates/" + id + ".json")
		if err != nil {
			panic(fmt.Sprintf("missing built-in template %s: %v", id, err))
		}
		r.templates[id] = raw
	}
	return r
}

// Register validates a settings document and stores it under id,
// replacing any template with the same id.
func (r *Registry) Register(id string, src io.Reader) error {
	raw, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("could not read template: %w", err)
	}
	if _, err := ImportJSON(bytes.NewReader(raw)); err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	r.templates[id] = raw
	return nil
}

// Get returns the settings of the template id.
// The second value is false when no such template exists.
func (r *Registry) Get(id string) (PackageSettings, bool) {
	r.lock.Lock()
	raw, ok := r.templates[id]
	r.lock.Unlock()
	if !ok {
		return PackageSettings{}, false
	}

	s, err := Normalize(raw)
	if err != nil {
		return templateBase(), true
	}
	return s, true
}

// IDs returns the known template ids, sorted.
func (r *Registry) IDs() []string {
	r.lock.Lock()
	defer r.lock.Unlock()

	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
