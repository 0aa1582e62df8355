// Package domain defines the core business entities for vecseed.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRecord: A record as read from a snapshot file or produced by the crawler
//   - Document: The canonical record with the fixed metadata schema
//   - LifecycleMode: How a collection is treated when a session opens
//   - IndexTarget: The index endpoint and collection an operation addresses
//   - CommitResult / SearchResult / IngestionRun: Operation outcomes
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
