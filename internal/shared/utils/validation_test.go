package utils

import (
	"strings"
	"testing"

	"github.com/uniforge/uniforge/internal/shared/types"
)

func validRequest() *types.SubmitRequest {
	return &types.SubmitRequest{
		Kind:      "button",
		Props:     map[string]interface{}{"label": "Save"},
		Platforms: []string{"react"},
	}
}

func TestValidateSubmitRequestAccepts(t *testing.T) {
	if err := ValidateSubmitRequest(validRequest()); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func TestValidateSubmitRequestRejects(t *testing.T) {
	cases := map[string]func(*types.SubmitRequest){
		"no kind or hint": func(r *types.SubmitRequest) {
			r.Kind = ""
			r.NaturalLanguageHint = ""
		},
		"oversized hint": func(r *types.SubmitRequest) {
			r.NaturalLanguageHint = strings.Repeat("a", MaxHintLength+1)
		},
		"no platforms": func(r *types.SubmitRequest) {
			r.Platforms = nil
		},
		"too many platforms": func(r *types.SubmitRequest) {
			r.Platforms = make([]string, MaxPlatforms+1)
		},
		"oversized string prop": func(r *types.SubmitRequest) {
			r.Props["label"] = strings.Repeat("x", MaxStringProp+1)
		},
		"empty compliance tag": func(r *types.SubmitRequest) {
			r.ComplianceTags = []string{""}
		},
	}

	for name, mutate := range cases {
		req := validRequest()
		mutate(req)
		if err := ValidateSubmitRequest(req); err == nil {
			t.Errorf("%s: expected rejection", name)
		}
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("job_01ABCDEF", "job id"); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	for _, bad := range []string{"", "has space", "semi;colon", strings.Repeat("a", MaxIDLength+1)} {
		if err := ValidateID(bad, "job id"); err == nil {
			t.Errorf("expected rejection for %q", bad)
		}
	}
}

func TestDedupePlatforms(t *testing.T) {
	got := DedupePlatforms([]string{"react", "vue", "react", "", "vue", "flutter"})
	want := []types.Platform{"react", "vue", "flutter"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v at %d, got %v", want[i], i, got[i])
		}
	}
}
