package bot

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"github.com/park285/cheese-negamax/internal/obslog"
)

//go:embed presets.yaml
var defaultFiles embed.FS

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrDepthLimit    = errors.New("search depth above limit")
)

// Preset is a named search depth.
type Preset struct {
	Name        string   `yaml:"-"`
	Depth       int      `yaml:"depth"`
	Description string   `yaml:"description"`
	Aliases     []string `yaml:"aliases"`
}

type presetFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

// PresetCatalog holds the embedded presets plus directory overrides.
type PresetCatalog struct {
	mu       sync.RWMutex
	presets  map[string]Preset
	aliases  map[string]string
	maxDepth int
}

// LoadPresets reads the embedded defaults, then every *.yaml/*.yml file in
// overrideDir (when set) in name order. Embedded presets deeper than
// maxDepth are clamped to it; override presets deeper than maxDepth and a
// preset defined by two override files are errors.
func LoadPresets(overrideDir string, maxDepth int) (*PresetCatalog, error) {
	if maxDepth <= 0 {
		return nil, fmt.Errorf("max depth must be > 0: %d", maxDepth)
	}
	c := &PresetCatalog{
		presets:  make(map[string]Preset),
		aliases:  make(map[string]string),
		maxDepth: maxDepth,
	}

	raw, err := fs.ReadFile(defaultFiles, "presets.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded presets: %w", err)
	}
	defaults, err := parsePresets(raw)
	if err != nil {
		return nil, fmt.Errorf("parse embedded presets: %w", err)
	}
	for key, p := range defaults {
		if p.Depth > maxDepth {
			obslog.L().Warn("preset_depth_clamped",
				zap.String("preset", key),
				zap.Int("depth", p.Depth),
				zap.Int("max_depth", maxDepth),
			)
			p.Depth = maxDepth
			defaults[key] = p
		}
	}
	if err := c.apply(defaults); err != nil {
		return nil, err
	}

	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *PresetCatalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read preset dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	seen := make(map[string]string) // preset -> filename
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		presets, err := parsePresets(b)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for key := range presets {
			if prev, ok := seen[key]; ok {
				return fmt.Errorf("duplicate preset %q in %s and %s", key, prev, name)
			}
			seen[key] = name
		}
		if err := c.apply(presets); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func parsePresets(b []byte) (map[string]Preset, error) {
	var f presetFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	out := make(map[string]Preset, len(f.Presets))
	for name, p := range f.Presets {
		key := normalizeName(name)
		if key == "" {
			return nil, errors.New("preset with empty name")
		}
		p.Name = key
		out[key] = p
	}
	return out, nil
}

func (c *PresetCatalog) apply(presets map[string]Preset) error {
	for _, p := range presets {
		if err := ValidatePreset(p, c.maxDepth); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	// A redefined preset brings its own alias list.
	for alias, target := range c.aliases {
		if _, ok := presets[target]; ok {
			delete(c.aliases, alias)
		}
	}
	for key, p := range presets {
		c.presets[key] = p
		for _, alias := range p.Aliases {
			if a := normalizeName(alias); a != "" {
				c.aliases[a] = key
			}
		}
	}
	return nil
}

// Get resolves a preset by name or alias.
func (c *PresetCatalog) Get(name string) (Preset, error) {
	key := normalizeName(name)
	c.mu.RLock()
	defer c.mu.RUnlock()
	if target, ok := c.aliases[key]; ok {
		key = target
	}
	p, ok := c.presets[key]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	p.Aliases = append([]string(nil), p.Aliases...)
	return p, nil
}

// Names lists preset names in order.
func (c *PresetCatalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *PresetCatalog) MaxDepth() int { return c.maxDepth }

// ValidatePreset checks the depth against the configured ceiling.
func ValidatePreset(p Preset, maxDepth int) error {
	switch {
	case p.Depth <= 0:
		return fmt.Errorf("preset %s: depth must be > 0: %d", p.Name, p.Depth)
	case p.Depth > maxDepth:
		return fmt.Errorf("preset %s: %w: %d > %d", p.Name, ErrDepthLimit, p.Depth, maxDepth)
	}
	return nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
