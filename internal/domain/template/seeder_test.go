package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uniforge/uniforge/internal/shared/types"
)

const packYAML = `platform: react
version: 9.9.9
templates:
  - kind: badge
    supported_props: [content, variant, icon]
    satisfied_tags: [a11y:aa]
    body: |
      export const {{.Name}} = () => <span>{{label .Props}}</span>;
  - kinds: [button, checkbox]
    supported_props: [label, size]
    body: |
      // shared {{.Kind}} body
`

func writePack(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write pack: %v", err)
	}
}

func TestSeedPacksOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "react.pack.yaml", packYAML)

	r := NewRegistry()
	seeder := NewSeeder(r, dir)
	if err := seeder.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	if err := seeder.SeedPacks(); err != nil {
		t.Fatalf("SeedPacks failed: %v", err)
	}

	def, err := r.Lookup("badge", types.PlatformReact)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if def.Version != "9.9.9" {
		t.Errorf("expected pack override version 9.9.9, got %s", def.Version)
	}
	if len(def.SatisfiedTags) != 1 || def.SatisfiedTags[0] != "a11y:aa" {
		t.Errorf("expected satisfied tags from pack, got %v", def.SatisfiedTags)
	}

	// The multi-kind form registers one definition per kind
	for _, kind := range []types.Kind{"button", "checkbox"} {
		def, err := r.Lookup(kind, types.PlatformReact)
		if err != nil {
			t.Fatalf("Lookup %s failed: %v", kind, err)
		}
		if def.Version != "9.9.9" {
			t.Errorf("expected %s overridden by pack, got version %s", kind, def.Version)
		}
	}

	// Overrides replace, never add
	if r.Len() != 70 {
		t.Errorf("expected registry to stay at 70 definitions, got %d", r.Len())
	}
}

func TestShippedPacksMatchKindSchemas(t *testing.T) {
	r := NewRegistry()
	seeder := NewSeeder(r, "../../../packs")
	if err := seeder.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	if err := seeder.SeedPacks(); err != nil {
		t.Fatalf("SeedPacks failed: %v", err)
	}

	// The shipped react badge override must keep the badge kind's props;
	// dropping content would strip the label text from every react badge.
	def, err := r.Lookup("badge", types.PlatformReact)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if def.Version != "1.1.0" {
		t.Fatalf("expected the shipped override loaded, got version %s", def.Version)
	}
	for _, prop := range []string{"content", "variant"} {
		if !def.Supports(prop) {
			t.Errorf("shipped badge override must support %q", prop)
		}
	}

	spec := &types.ComponentSpec{Kind: "badge", ComplianceTags: []string{"a11y:aa"}}
	artifact, err := def.Render(spec, map[string]interface{}{"content": "New", "variant": "primary"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(artifact, `aria-label="New"`) {
		t.Errorf("expected content rendered into the accessible label:\n%s", artifact)
	}
}

func TestSeedPacksMissingDirIsNotFatal(t *testing.T) {
	r := NewRegistry()
	seeder := NewSeeder(r, filepath.Join(t.TempDir(), "does-not-exist"))
	if err := seeder.SeedPacks(); err != nil {
		t.Errorf("missing pack dir must not fail startup: %v", err)
	}
}

func TestSeedPacksSkipsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "broken.pack.yaml", "platform: [not a scalar")

	r := NewRegistry()
	seeder := NewSeeder(r, dir)
	if err := seeder.SeedPacks(); err != nil {
		t.Errorf("a malformed pack must not fail the whole seed: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("expected nothing registered, got %d", r.Len())
	}
}
