package errors

// ErrorCode identifies a failure category.  Codes are grouped by module
// prefix so that log aggregation can slice failures per subsystem.
type ErrorCode string

// ─────────────────────────────────────────────────────────────
// Generic codes
// ─────────────────────────────────────────────────────────────

const (
	// CodeOK marks the absence of an error; returned by GetCode(nil).
	CodeOK ErrorCode = "OK"

	// CodeUnknown is the fallback for non-AppError chains.
	CodeUnknown ErrorCode = "UNKNOWN"

	// CodeInternal marks an unexpected internal failure.
	CodeInternal ErrorCode = "SYS_001"

	// CodeInvalidParam marks an invalid caller-supplied parameter.
	CodeInvalidParam ErrorCode = "SYS_002"

	// CodeNotFound marks a missing generic resource.
	CodeNotFound ErrorCode = "SYS_003"

	// CodeSerialization marks a failure to encode or decode structured data.
	CodeSerialization ErrorCode = "SYS_004"
)

// ─────────────────────────────────────────────────────────────
// Geometry codes
// ─────────────────────────────────────────────────────────────

const (
	// CodePlaneUndefined marks a plane-normal request on a site with
	// fewer than the three connections needed to define a plane.
	CodePlaneUndefined ErrorCode = "GEO_001"

	// CodeZeroVector marks an attempt to normalize or orient along a
	// zero-length vector.
	CodeZeroVector ErrorCode = "GEO_002"
)

// ─────────────────────────────────────────────────────────────
// Topology codes
// ─────────────────────────────────────────────────────────────

const (
	// CodeInvalidBlocks marks an invalid building-block configuration,
	// such as a block with zero functional groups.
	CodeInvalidBlocks ErrorCode = "TOP_001"

	// CodeSiteMismatch marks a mismatch between the topology's sites and
	// the supplied building blocks, or a reference to an unknown site.
	CodeSiteMismatch ErrorCode = "TOP_002"

	// CodeUnknownTopology marks a request for a topology name that is not
	// registered with the assembly service.
	CodeUnknownTopology ErrorCode = "TOP_003"
)

// ─────────────────────────────────────────────────────────────
// Functional-group codes
// ─────────────────────────────────────────────────────────────

const (
	// CodeMissingFunctionalGroup marks a placeholder element encountered
	// during bonding that maps to no registered functional group.
	CodeMissingFunctionalGroup ErrorCode = "FG_001"

	// CodeUnknownFunctionalGroup marks a request for a functional-group
	// name absent from the registry.
	CodeUnknownFunctionalGroup ErrorCode = "FG_002"
)

// ─────────────────────────────────────────────────────────────
// Molecule codes
// ─────────────────────────────────────────────────────────────

const (
	// CodeMoleculeNotFound marks a lookup of a molecule id absent from
	// storage.
	CodeMoleculeNotFound ErrorCode = "MOL_001"

	// CodeMoleculeParse marks a failure to parse a molecule input file.
	CodeMoleculeParse ErrorCode = "MOL_002"
)

// ─────────────────────────────────────────────────────────────
// Infrastructure codes
// ─────────────────────────────────────────────────────────────

const (
	// CodeDatabaseError marks a relational storage failure.
	CodeDatabaseError ErrorCode = "DB_001"

	// CodeCacheError marks a cache layer failure.
	CodeCacheError ErrorCode = "CACHE_001"

	// CodeConfigError marks a configuration load or validation failure.
	CodeConfigError ErrorCode = "CFG_001"

	// CodeRenderError marks a failure to render a molecule image.
	CodeRenderError ErrorCode = "RND_001"
)
