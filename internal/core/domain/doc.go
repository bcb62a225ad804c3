// Package domain defines the core business entities for Corpus.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Store: A named collection of documents held by the file-search backend
//   - Document: An ingested, chunked unit of content inside a Store
//   - Operation: An async handle for long-running backend ingestion
//   - Citation / SearchResult: Grounded answers with source evidence
//   - MetadataEntry: Typed custom annotations attached to a Document
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
