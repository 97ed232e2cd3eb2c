// Package domain defines the core business entities for normaq.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A stored normative text with its kind and creation time
//   - DocumentPreview: A document with its content cut for listings
//   - Query: A validated question with a result limit
//   - RetrievalResult: The answer, ranked documents and timing of a query
//   - DistanceMetric: The vector distance a store ranks by
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
