// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PageRenderer: Renders a client-side application to HTML (headless browser)
//   - DocumentExtractor: Turns rendered HTML into a WikiDocument
//   - ChatClient: Drives the wiki page's embedded chat widget
//   - IndexRequester: Drives the site's "request a repository" form
//   - RepoSearcher: Keyword search over the wiki's own search page
//   - Cache: Key-value store with expiry
//   - RateLimiter: Per-key sliding-window admission control
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RepoSearcher (fallback): Code-host search used when the wiki finds nothing.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
