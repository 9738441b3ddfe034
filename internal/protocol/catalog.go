package protocol

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexanderramin/regimen/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var builtin embed.FS

// Catalog is the read-only set of protocols available to sessions.
type Catalog struct {
	protocols map[string]*domain.Protocol
	order     []string
}

// Parse decodes and validates one YAML protocol document.
func Parse(data []byte) (*domain.Protocol, error) {
	var fp fileProtocol
	if err := yaml.Unmarshal(data, &fp); err != nil {
		return nil, fmt.Errorf("decoding protocol: %w", err)
	}
	p := fp.toDomain()
	if err := Validate(p); err != nil {
		return nil, fmt.Errorf("invalid protocol %q: %w", p.Name, err)
	}
	return p, nil
}

// Load returns the built-in protocols, overridden or extended by any
// *.yaml / *.yml files in dir. An empty dir loads only the built-ins.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{protocols: make(map[string]*domain.Protocol)}
	if err := c.addFS(builtin, "data"); err != nil {
		return nil, fmt.Errorf("loading built-in protocols: %w", err)
	}
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("protocol dir %s: %w", dir, err)
		}
		if err := c.addFS(os.DirFS(dir), "."); err != nil {
			return nil, fmt.Errorf("loading protocols from %s: %w", dir, err)
		}
	}
	return c, nil
}

// MustLoadBuiltin loads the embedded protocols and panics on failure.
func MustLoadBuiltin() *Catalog {
	c, err := Load("")
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog builds a catalog from already-constructed protocols.
func NewCatalog(protocols ...*domain.Protocol) (*Catalog, error) {
	c := &Catalog{protocols: make(map[string]*domain.Protocol)}
	for _, p := range protocols {
		if err := Validate(p); err != nil {
			return nil, fmt.Errorf("invalid protocol %q: %w", p.Name, err)
		}
		c.add(p)
	}
	return c, nil
}

func (c *Catalog) addFS(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, name)))
		if err != nil {
			return err
		}
		p, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		c.add(p)
	}
	return nil
}

func (c *Catalog) add(p *domain.Protocol) {
	if _, exists := c.protocols[p.Name]; !exists {
		c.order = append(c.order, p.Name)
	}
	c.protocols[p.Name] = p
}

// List returns protocols in load order.
func (c *Catalog) List() []*domain.Protocol {
	out := make([]*domain.Protocol, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.protocols[name])
	}
	return out
}

func (c *Catalog) Get(name string) (*domain.Protocol, error) {
	p, ok := c.protocols[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownProtocol)
	}
	return p, nil
}

// Session returns the ordered items for a session type.
func (c *Catalog) Session(t domain.SessionType) ([]domain.Item, error) {
	s, err := c.ProtocolSession(t)
	if err != nil {
		return nil, err
	}
	return append([]domain.Item(nil), s.Items...), nil
}

// ProtocolSession returns the full session definition, notes included.
func (c *Catalog) ProtocolSession(t domain.SessionType) (*domain.ProtocolSession, error) {
	p, err := c.Get(t.Protocol())
	if err != nil {
		return nil, err
	}
	s, ok := p.Session(t.Session())
	if !ok {
		return nil, fmt.Errorf("%q: %w", string(t), ErrUnknownSession)
	}
	return s, nil
}

// SessionTypes lists every session of every protocol, in catalog order.
func (c *Catalog) SessionTypes() []domain.SessionType {
	var out []domain.SessionType
	for _, p := range c.List() {
		out = append(out, p.SessionTypes()...)
	}
	return out
}

// Resolve accepts either a full "<protocol>/<session>" type or a bare
// protocol name with exactly one session.
func (c *Catalog) Resolve(s string) (domain.SessionType, error) {
	t := domain.SessionType(strings.TrimSpace(s))
	if t.Valid() {
		if _, err := c.ProtocolSession(t); err != nil {
			return "", err
		}
		return t, nil
	}
	p, err := c.Get(string(t))
	if err != nil {
		return "", err
	}
	if len(p.Sessions) != 1 {
		return "", fmt.Errorf("protocol %q has %d sessions, use <protocol>/<session>: %w",
			p.Name, len(p.Sessions), ErrUnknownSession)
	}
	return domain.NewSessionType(p.Name, p.Sessions[0].Name), nil
}
