package tournament

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/osse101/PrizeArena_Go/internal/domain"
)

// PresetCatalog holds named prize distributions that operators can refer to
// instead of spelling out a table.
type PresetCatalog struct {
	presets map[string]domain.PrizeDistribution
}

type presetFile struct {
	Presets map[string]map[int]yaml.Node `yaml:"presets"`
}

// NewPresetCatalog builds a catalog from already validated distributions.
func NewPresetCatalog(presets map[string]domain.PrizeDistribution) *PresetCatalog {
	c := &PresetCatalog{presets: make(map[string]domain.PrizeDistribution, len(presets))}
	for name, d := range presets {
		c.presets[normalizePresetName(name)] = d
	}
	return c
}

// LoadPresets reads and validates the YAML preset file at path.
func LoadPresets(path string) (*PresetCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextPresets, err)
	}
	return ParsePresets(data)
}

// ParsePresets decodes a preset document. Percentages are read from the raw
// scalar text so values such as 33.33 keep their exact decimal form.
func ParsePresets(data []byte) (*PresetCatalog, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextPresets, err)
	}

	presets := make(map[string]domain.PrizeDistribution, len(file.Presets))
	for name, places := range file.Presets {
		raw := make(map[int]string, len(places))
		for place, node := range places {
			raw[place] = node.Value
		}
		d, err := domain.ParseDistribution(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: preset %q: %w", ErrContextPresets, name, err)
		}
		presets[name] = d
	}
	return NewPresetCatalog(presets), nil
}

// Resolve returns a copy of the named distribution.
func (c *PresetCatalog) Resolve(name string) (domain.PrizeDistribution, error) {
	if c != nil {
		if d, ok := c.presets[normalizePresetName(name)]; ok {
			out := make(domain.PrizeDistribution, len(d))
			for place, pct := range d {
				out[place] = pct
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPreset, name)
}

// Names lists the preset names in sorted order.
func (c *PresetCatalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizePresetName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
