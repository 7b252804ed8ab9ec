// Package config holds the option structs threaded through parse,
// build, and diff operations, following the teacher's per-concern
// Config-struct-plus-DefaultXxxConfig convention.
package config

import (
	"time"

	"ddexcore/model"
)

// Canonicalization selects the DB-C14N mode applied when re-emitting.
type Canonicalization string

const (
	CanonNone    Canonicalization = "none"
	CanonC14N    Canonicalization = "c14n"
	CanonC14N11  Canonicalization = "c14n11"
	CanonDBC14N  Canonicalization = "db_c14n"
)

// ParseOptions configures a single parse operation (spec.md §6.1).
type ParseOptions struct {
	FidelityLevel                model.FidelityLevel `json:"fidelity_level"`
	PreserveComments              bool                `json:"preserve_comments"`
	PreservePIs                   bool                `json:"preserve_processing_instructions"`
	PreserveExtensions            bool                `json:"preserve_extensions"`
	PreserveAttributeOrder        bool                `json:"preserve_attribute_order"`
	PreserveNamespacePrefixes     bool                `json:"preserve_namespace_prefixes"`
	Canonicalization              Canonicalization    `json:"canonicalization"`
	ResolveReferences             bool                `json:"resolve_references"`
	MaxMemoryBytes                int64               `json:"max_memory_bytes"`
	DepthLimit                    int                 `json:"depth_limit"`
	TimeoutMS                     int64               `json:"timeout_ms"`
	CollectStatistics              bool                `json:"collect_statistics"`
	// ProgressCallback, if set, receives periodic progress reports
	// during streaming parse (supplemented from the original Rust
	// implementation's StreamingProgress, see SPEC_FULL.md §D.2).
	ProgressCallback func(Progress)
}

// Progress reports streaming-parse advancement.
type Progress struct {
	BytesProcessed      int64
	ElementsParsed      int
	ReleasesParsed      int
	ResourcesParsed     int
	PartiesParsed       int
	DealsParsed         int
	Elapsed             time.Duration
	EstimatedTotalBytes int64
	CurrentDepth        int
}

// DefaultParseOptions returns the spec-mandated defaults.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		FidelityLevel:             model.FidelityBalanced,
		PreserveComments:          false,
		PreservePIs:               false,
		PreserveExtensions:        true,
		PreserveAttributeOrder:    true,
		PreserveNamespacePrefixes: true,
		Canonicalization:          CanonNone,
		ResolveReferences:         true,
		MaxMemoryBytes:            256 * 1024 * 1024,
		DepthLimit:                100,
		TimeoutMS:                 30_000,
		CollectStatistics:         false,
	}
}

// MemoryOptimization trades build speed for peak memory.
type MemoryOptimization string

const (
	MemSpeed    MemoryOptimization = "speed"
	MemBalanced MemoryOptimization = "balanced"
	MemMemory   MemoryOptimization = "memory"
)

// BuildOptions configures a single build operation (spec.md §6.2):
// the parse fidelity options plus build-specific knobs.
type BuildOptions struct {
	ParseOptions
	EnableVerification         bool                `json:"enable_verification"`
	EnableChecksums            bool                `json:"enable_checksums"`
	EnableDeterministicOrdering bool                `json:"enable_deterministic_ordering"`
	ChunkSize                  int                 `json:"chunk_size"`
	MemoryOptimization         MemoryOptimization  `json:"memory_optimization"`
}

// DefaultBuildOptions returns the spec-mandated defaults layered atop
// DefaultParseOptions.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		ParseOptions:                DefaultParseOptions(),
		EnableVerification:         false,
		EnableChecksums:            false,
		EnableDeterministicOrdering: true,
		ChunkSize:                  64 * 1024,
		MemoryOptimization:         MemBalanced,
	}
}

// DiffConfig configures the structural diff engine (spec.md §4.7).
type DiffConfig struct {
	// IgnoreFormatting suppresses diff.DiffParsed's side-channel
	// comparison (comments, processing instructions) entirely; it has
	// no effect on diff.Diff, which never sees non-semantic content.
	IgnoreFormatting   bool `json:"ignore_formatting"`
	IgnoreReferenceIDs bool `json:"ignore_reference_ids"`
	IgnoreOrderChanges bool `json:"ignore_order_changes"`
}

// DefaultDiffConfig returns the diff engine's conservative defaults:
// every change is significant until the caller opts out.
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{
		IgnoreFormatting:   false,
		IgnoreReferenceIDs: false,
		IgnoreOrderChanges: false,
	}
}
