package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/uniforge/uniforge/internal/shared/types"
)

func testDefinition(kind types.Kind, platform types.Platform) *Definition {
	return &Definition{
		Kind:           kind,
		Platform:       platform,
		SupportedProps: []string{"label"},
		Body:           `// {{.Name}} for {{.Platform}}`,
	}
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testDefinition("button", types.PlatformReact)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	def, err := r.Lookup("button", types.PlatformReact)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if def.ID == "" || def.Version != "1.0.0" {
		t.Errorf("expected assigned ID and default version, got %q %q", def.ID, def.Version)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 definition, got %d", r.Len())
	}
}

func TestLookupMissing(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("button", "gamma")
	if !errors.Is(err, types.ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestRegisterReplacesBeforeFreeze(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testDefinition("button", types.PlatformReact)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	override := testDefinition("button", types.PlatformReact)
	override.Version = "2.0.0"
	if err := r.Register(override); err != nil {
		t.Fatalf("override Register failed: %v", err)
	}

	def, _ := r.Lookup("button", types.PlatformReact)
	if def.Version != "2.0.0" {
		t.Errorf("expected override to win, got version %s", def.Version)
	}
	if r.Len() != 1 {
		t.Errorf("replacement must not grow the registry, got %d", r.Len())
	}
}

func TestFreezeRejectsRegistration(t *testing.T) {
	r := NewRegistry()
	r.Freeze()
	err := r.Register(testDefinition("button", types.PlatformReact))
	if !errors.Is(err, types.ErrRegistryFrozen) {
		t.Errorf("expected ErrRegistryFrozen, got %v", err)
	}
}

func TestRegisterRejectsBadTemplate(t *testing.T) {
	r := NewRegistry()
	def := testDefinition("button", types.PlatformReact)
	def.Body = `{{.Unclosed`
	if err := r.Register(def); err == nil {
		t.Error("expected compile error for malformed body")
	}
}

func TestDefaultPacksCoverAllPlatforms(t *testing.T) {
	r := NewRegistry()
	seeder := NewSeeder(r, t.TempDir())
	if err := seeder.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}

	platforms := r.Platforms()
	if len(platforms) != 7 {
		t.Errorf("expected 7 platforms, got %d: %v", len(platforms), platforms)
	}
	if r.Len() != 70 {
		t.Errorf("expected 10 kinds x 7 platforms = 70 definitions, got %d", r.Len())
	}

	// Native toolkits drop web-only props instead of failing
	def, err := r.Lookup("button", types.PlatformFlutter)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if def.Supports("icon") {
		t.Error("flutter button must not support icon")
	}
	if !def.Supports("label") {
		t.Error("flutter button must support label")
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := NewRegistry()
	seeder := NewSeeder(r, t.TempDir())
	if err := seeder.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}

	def, err := r.Lookup("button", types.PlatformReact)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	spec := &types.ComponentSpec{Kind: "button", ComplianceTags: []string{"a11y:aa"}}
	props := map[string]interface{}{"label": "Save", "variant": "primary", "size": "md"}

	first, err := def.Render(spec, props)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := def.Render(spec, props)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if again != first {
			t.Fatal("render output not deterministic")
		}
	}
	if !strings.Contains(first, `data-label="Save"`) {
		t.Errorf("expected applied prop in artifact:\n%s", first)
	}
}

func TestComponentName(t *testing.T) {
	cases := map[types.Kind]string{
		"button":       "Button",
		"payment-form": "PaymentForm",
		"text":         "Text",
	}
	for kind, want := range cases {
		if got := componentName(kind); got != want {
			t.Errorf("componentName(%s) = %s, want %s", kind, got, want)
		}
	}
}
