// Package domain defines the core entities for codewiki-mcp.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - WikiDocument: A parsed repository wiki page (sections, TOC, diagrams)
//   - Section: One heading-delimited block of wiki content
//   - Diagram: A tagged diagram variant extracted from the page
//   - RepoRef: A normalised "host/owner/repo" repository identifier
//   - SearchResult: A candidate repository returned by a keyword search
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
