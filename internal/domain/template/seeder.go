package template

import (
	"fmt"
	"log"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"

	"github.com/uniforge/uniforge/internal/shared/types"
)

// Pack is the on-disk YAML format for a platform template pack
type Pack struct {
	Platform  types.Platform `yaml:"platform"`
	Version   string         `yaml:"version"`
	Templates []PackTemplate `yaml:"templates"`
}

// PackTemplate declares one template body for one or more kinds
type PackTemplate struct {
	Kind           types.Kind   `yaml:"kind,omitempty"`
	Kinds          []types.Kind `yaml:"kinds,omitempty"`
	SupportedProps []string     `yaml:"supported_props"`
	SatisfiedTags  []string     `yaml:"satisfied_tags,omitempty"`
	Body           string       `yaml:"body"`
}

// Seeder loads template packs into a registry during initialization
type Seeder struct {
	registry *Registry
	packDir  string
}

// NewSeeder creates a new template seeder
func NewSeeder(registry *Registry, packDir string) *Seeder {
	return &Seeder{
		registry: registry,
		packDir:  packDir,
	}
}

// SeedDefaults registers the built-in platform packs
func (s *Seeder) SeedDefaults() error {
	for _, pack := range DefaultPacks() {
		if err := s.registerPack(pack); err != nil {
			return err
		}
	}
	return nil
}

// SeedPacks loads all *.pack.yaml files under the pack directory. Pack
// definitions override built-in defaults for the same (kind, platform).
func (s *Seeder) SeedPacks() error {
	if _, err := os.Stat(s.packDir); os.IsNotExist(err) {
		log.Printf("Template pack directory not found: %s", s.packDir)
		return nil
	}

	matches, err := doublestar.FilepathGlob(s.packDir + "/**/*.pack.yaml")
	if err != nil {
		return fmt.Errorf("failed to scan pack directory: %w", err)
	}

	var loaded, failed int
	for _, path := range matches {
		if err := s.loadPack(path); err != nil {
			log.Printf("  Failed to load %s: %v", path, err)
			failed++
		} else {
			log.Printf("  Loaded %s", path)
			loaded++
		}
	}

	log.Printf("Template pack seeding complete: %d loaded, %d failed", loaded, failed)
	return nil
}

// loadPack parses and registers a single pack file
func (s *Seeder) loadPack(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return fmt.Errorf("failed to parse pack YAML: %w", err)
	}

	return s.registerPack(pack)
}

func (s *Seeder) registerPack(pack Pack) error {
	if pack.Platform == "" {
		return fmt.Errorf("pack is missing platform")
	}

	for _, tpl := range pack.Templates {
		kinds := tpl.Kinds
		if tpl.Kind != "" {
			kinds = append(kinds, tpl.Kind)
		}
		if len(kinds) == 0 {
			return fmt.Errorf("pack %s has a template with no kind", pack.Platform)
		}

		for _, kind := range kinds {
			def := &Definition{
				Kind:           kind,
				Platform:       pack.Platform,
				Version:        pack.Version,
				SupportedProps: tpl.SupportedProps,
				SatisfiedTags:  tpl.SatisfiedTags,
				Body:           tpl.Body,
			}
			if err := s.registry.Register(def); err != nil {
				return fmt.Errorf("failed to register %s/%s: %w", kind, pack.Platform, err)
			}
		}
	}
	return nil
}
