package resolve

import (
	"fmt"
	"math"
	"strings"

	"github.com/uniforge/uniforge/internal/shared/types"
)

// PropType is the declared type of a component prop
type PropType string

const (
	TypeString PropType = "string"
	TypeInt    PropType = "int"
	TypeBool   PropType = "bool"
	TypeEnum   PropType = "enum"
	TypeList   PropType = "list"
)

// PropSpec declares one prop of a component kind. Required props always
// have a default so resolved specs are fully defaulted.
type PropSpec struct {
	Type     PropType
	Required bool
	Default  interface{}
	Enum     []string
}

// kindSpec declares one entry of the closed kind registry
type kindSpec struct {
	Props       map[string]PropSpec
	ImpliedTags []string
	Keywords    []string
}

var sizeEnum = []string{"tiny", "xs", "sm", "md", "lg", "xl"}
var variantEnum = []string{"primary", "secondary", "outline", "ghost"}

// kindTable is the closed registry of component kinds. Every kind implies
// at least the baseline accessibility tag; payment components additionally
// imply the PCI security tags.
var kindTable = map[types.Kind]kindSpec{
	"button": {
		Props: map[string]PropSpec{
			"variant":  {Type: TypeEnum, Required: true, Default: "primary", Enum: variantEnum},
			"size":     {Type: TypeEnum, Required: true, Default: "md", Enum: sizeEnum},
			"label":    {Type: TypeString, Required: true, Default: "Button"},
			"disabled": {Type: TypeBool},
			"icon":     {Type: TypeString},
		},
		ImpliedTags: []string{"a11y:aa"},
		Keywords:    []string{"button", "click", "press", "submit", "cta"},
	},
	"input": {
		Props: map[string]PropSpec{
			"type":        {Type: TypeEnum, Required: true, Default: "text", Enum: []string{"text", "email", "password", "number"}},
			"placeholder": {Type: TypeString},
			"label":       {Type: TypeString, Required: true, Default: "Input"},
			"size":        {Type: TypeEnum, Required: true, Default: "md", Enum: sizeEnum},
			"required":    {Type: TypeBool},
		},
		ImpliedTags: []string{"a11y:aa"},
		Keywords:    []string{"input", "field", "form", "textbox"},
	},
	"card": {
		Props: map[string]PropSpec{
			"title":     {Type: TypeString, Required: true, Default: "Card"},
			"elevation": {Type: TypeInt, Required: true, Default: 1},
			"padding":   {Type: TypeInt},
		},
		ImpliedTags: []string{"a11y:aa"},
		Keywords:    []string{"card", "panel", "tile"},
	},
	"select": {
		Props: map[string]PropSpec{
			"label":   {Type: TypeString, Required: true, Default: "Select"},
			"options": {Type: TypeList},
			"size":    {Type: TypeEnum, Required: true, Default: "md", Enum: sizeEnum},
		},
		ImpliedTags: []string{"a11y:aa"},
		Keywords:    []string{"select", "dropdown", "choose", "picker"},
	},
	"checkbox": {
		Props: map[string]PropSpec{
			"label":   {Type: TypeString, Required: true, Default: "Checkbox"},
			"checked": {Type: TypeBool},
			"size":    {Type: TypeEnum, Required: true, Default: "md", Enum: sizeEnum},
		},
		ImpliedTags: []string{"a11y:aa"},
		Keywords:    []string{"checkbox", "check", "toggle"},
	},
	"modal": {
		Props: map[string]PropSpec{
			"title":       {Type: TypeString, Required: true, Default: "Modal"},
			"size":        {Type: TypeEnum, Required: true, Default: "md", Enum: sizeEnum},
			"dismissible": {Type: TypeBool, Required: true, Default: true},
		},
		ImpliedTags: []string{"a11y:aa"},
		Keywords:    []string{"modal", "dialog", "popup"},
	},
	"table": {
		Props: map[string]PropSpec{
			"caption": {Type: TypeString, Required: true, Default: "Table"},
			"striped": {Type: TypeBool},
			"size":    {Type: TypeEnum, Required: true, Default: "md", Enum: sizeEnum},
		},
		ImpliedTags: []string{"a11y:aa"},
		Keywords:    []string{"table", "rows", "columns", "data grid"},
	},
	"text": {
		Props: map[string]PropSpec{
			"content": {Type: TypeString, Required: true, Default: "Text"},
			"variant": {Type: TypeEnum, Required: true, Default: "body", Enum: []string{"h1", "h2", "h3", "body", "caption", "ghost"}},
		},
		ImpliedTags: []string{"a11y:aa"},
		Keywords:    []string{"text", "heading", "paragraph", "label"},
	},
	"badge": {
		Props: map[string]PropSpec{
			"content": {Type: TypeString, Required: true, Default: "Badge"},
			"variant": {Type: TypeEnum, Required: true, Default: "primary", Enum: variantEnum},
		},
		ImpliedTags: []string{"a11y:aa"},
		Keywords:    []string{"badge", "chip", "tag", "pill"},
	},
	"payment-form": {
		Props: map[string]PropSpec{
			"label":    {Type: TypeString, Required: true, Default: "Payment details"},
			"provider": {Type: TypeEnum, Required: true, Default: "stripe", Enum: []string{"stripe", "adyen", "braintree"}},
			"currency": {Type: TypeString, Required: true, Default: "USD"},
			"size":     {Type: TypeEnum, Required: true, Default: "md", Enum: sizeEnum},
		},
		ImpliedTags: []string{"a11y:aa", "security:high", "security:pci"},
		Keywords:    []string{"payment", "checkout", "pay", "billing"},
	},
}

// Kinds returns the closed set of known component kinds
func Kinds() []types.Kind {
	kinds := make([]types.Kind, 0, len(kindTable))
	for k := range kindTable {
		kinds = append(kinds, k)
	}
	return kinds
}

// matchKeywords maps a natural-language hint to a kind with a deterministic
// keyword lookup. Ties break lexicographically; fuzzy matching stays with
// the external collaborator.
func matchKeywords(hint string) types.Kind {
	lower := strings.ToLower(hint)

	best := types.Kind("")
	bestScore := 0
	for kind, ks := range kindTable {
		score := 0
		for _, kw := range ks.Keywords {
			if strings.Contains(lower, kw) {
				score += len(kw)
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && kind < best) {
			best = kind
			bestScore = score
		}
	}
	return best
}

// coerce validates a raw prop value against its spec, converting JSON
// number decoding artifacts where safe.
func coerce(name string, spec PropSpec, value interface{}) (interface{}, error) {
	switch spec.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return s, nil
	case TypeInt:
		switch n := value.(type) {
		case int:
			return n, nil
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("expected integer, got %v", n)
			}
			return int(n), nil
		default:
			return nil, fmt.Errorf("expected integer, got %T", value)
		}
	case TypeBool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", value)
		}
		return b, nil
	case TypeEnum:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		for _, allowed := range spec.Enum {
			if s == allowed {
				return s, nil
			}
		}
		return nil, fmt.Errorf("value %q not in [%s]", s, strings.Join(spec.Enum, ", "))
	case TypeList:
		l, ok := value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("expected list, got %T", value)
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown prop type %q for %s", spec.Type, name)
	}
}
