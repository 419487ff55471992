package mcp

import (
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Wiki reads rendered wiki pages.
	Wiki driving.WikiService

	// Chat asks the wiki's chat.
	Chat driving.ChatService

	// Resolver turns repo_url inputs into repositories.
	Resolver driving.ResolverService

	// Indexing requests indexing of missing repositories. Optional.
	Indexing driving.IndexingService

	// Quota limits calls per repository. Optional.
	Quota driving.QuotaService

	// Stats backs the stats resource. Optional.
	Stats driving.StatsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Wiki == nil {
		return ErrMissingWikiService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Resolver == nil {
		return ErrMissingResolverService
	}
	return nil
}
