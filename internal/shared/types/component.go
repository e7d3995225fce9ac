package types

import "time"

// Kind identifies a platform-neutral component kind
type Kind string

// Platform identifies a target UI framework/runtime
type Platform string

// Built-in target platforms
const (
	PlatformReact   Platform = "react"
	PlatformVue     Platform = "vue"
	PlatformAngular Platform = "angular"
	PlatformSvelte  Platform = "svelte"
	PlatformSolid   Platform = "solid"
	PlatformFlutter Platform = "flutter"
	PlatformSwiftUI Platform = "swiftui"
)

// Severity classifies a constraint rule
type Severity string

const (
	SeverityBlocking Severity = "blocking"
	SeverityAdvisory Severity = "advisory"
)

// ViolationCode identifies a class of constraint failure
type ViolationCode string

const (
	CodeUnsupportedPlatform ViolationCode = "UnsupportedPlatform"
	CodeUnsupportedProp     ViolationCode = "UnsupportedProp"
	CodeRenderFailed        ViolationCode = "RenderFailed"
	CodeCancelled           ViolationCode = "Cancelled"
	CodeRuleFailed          ViolationCode = "RuleFailed"
)

// ViolationOrigin records which stage produced a violation
type ViolationOrigin string

const (
	OriginExpansion  ViolationOrigin = "expansion"
	OriginValidation ViolationOrigin = "validation"
	OriginLifecycle  ViolationOrigin = "lifecycle"
)

// Violation is a first-class constraint failure attached to a variant.
// Violations are data, never errors; they are always reported to the caller.
type Violation struct {
	Rule     string          `json:"rule,omitempty"`
	Code     ViolationCode   `json:"code"`
	Severity Severity        `json:"severity"`
	Origin   ViolationOrigin `json:"origin"`
	Message  string          `json:"message"`
}

// VariantStatus represents per-platform output lifecycle states
type VariantStatus string

const (
	VariantDraft     VariantStatus = "draft"
	VariantValidated VariantStatus = "validated"
	VariantAccepted  VariantStatus = "accepted"
	VariantRejected  VariantStatus = "rejected"
)

// Terminal reports whether the variant reached a terminal status
func (s VariantStatus) Terminal() bool {
	return s == VariantAccepted || s == VariantRejected
}

// ComponentSpec is the canonical, platform-neutral description of a
// component. It is immutable once produced by the resolver; every
// downstream stage treats it as read-only.
type ComponentSpec struct {
	Kind           Kind                   `json:"kind"`
	Props          map[string]interface{} `json:"props"`
	ComplianceTags []string               `json:"compliance_tags"`
}

// HasTag checks whether the spec carries a compliance tag
func (s *ComponentSpec) HasTag(tag string) bool {
	for _, t := range s.ComplianceTags {
		if t == tag {
			return true
		}
	}
	return false
}

// PlatformVariant is the generated implementation of one component for one
// platform. Owned exclusively by the job that created it.
type PlatformVariant struct {
	Platform       Platform               `json:"platform"`
	SourceArtifact string                 `json:"source_artifact"`
	AppliedProps   map[string]interface{} `json:"applied_props"`
	NativeTags     []string               `json:"native_tags,omitempty"`
	Violations     []Violation            `json:"violations"`
	Status         VariantStatus          `json:"status"`
}

// HasNativeTag checks whether the rendering template natively satisfies a tag
func (v *PlatformVariant) HasNativeTag(tag string) bool {
	for _, t := range v.NativeTags {
		if t == tag {
			return true
		}
	}
	return false
}

// JobStatus represents generation job lifecycle states
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the job reached a terminal status
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// GenerationJob aggregates one spec, the requested platform set, and one
// variant per platform. It is the unit of lifecycle and cancellation.
type GenerationJob struct {
	ID          string             `json:"id"`
	RequestHash string             `json:"request_hash,omitempty"`
	Spec        *ComponentSpec     `json:"spec,omitempty"`
	Platforms   []Platform         `json:"platforms"`
	Variants    []*PlatformVariant `json:"variants"`
	Status      JobStatus          `json:"status"`
	Error       *string            `json:"error,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// Phase identifies a progress event phase
type Phase string

const (
	PhaseResolved         Phase = "resolved"
	PhaseVariantStarted   Phase = "variant-started"
	PhaseVariantValidated Phase = "variant-validated"
	PhaseVariantDone      Phase = "variant-done"
	PhaseJobDone          Phase = "job-done"
)

// ProgressEvent is an immutable record emitted during a job's life.
// Within one platform, started precedes validated precedes done; across
// platforms no ordering is guaranteed.
type ProgressEvent struct {
	ID        string         `json:"id"`
	JobID     string         `json:"job_id"`
	Phase     Phase          `json:"phase"`
	Platform  *Platform      `json:"platform,omitempty"`
	Job       *GenerationJob `json:"job,omitempty"` // populated on job-done only
	Timestamp time.Time      `json:"timestamp"`
}
