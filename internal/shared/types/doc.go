// Package types provides shared data structures for the generation engine.
//
// This package defines core types used across all engine components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - ComponentSpec: Canonical, platform-neutral component description
//   - PlatformVariant: Generated implementation for one platform
//   - GenerationJob: One generation request across all requested platforms
//   - ProgressEvent: Immutable progress record emitted during a job's life
//   - Violation: First-class constraint failure attached to a variant
//
// Request Types:
//   - SubmitRequest: Component generation submission
//   - WSMessage: WebSocket communication
//
// Error Taxonomy:
//   - ResolutionError: Fatal normalization failure (UnknownKind, InvalidProp)
//   - ErrTemplateNotFound: Localized to one platform, never aborts a job
//   - ErrJobNotFound: Unknown job id on get/cancel
//
// Example Usage:
//
//	spec := &types.ComponentSpec{
//	    Kind:           "button",
//	    Props:          map[string]interface{}{"variant": "primary"},
//	    ComplianceTags: []string{"a11y:aa"},
//	}
package types
