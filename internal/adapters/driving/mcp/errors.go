// Package mcp provides the MCP (Model Context Protocol) server adapter for
// codewiki-mcp. It exposes the wiki reader, the chat and the indexing
// request as tools, and runtime statistics as a resource.
package mcp

import "errors"

// Errors returned by NewServer for missing ports.
var (
	ErrMissingWikiService     = errors.New("mcp: wiki service is required")
	ErrMissingChatService     = errors.New("mcp: chat service is required")
	ErrMissingResolverService = errors.New("mcp: resolver service is required")
)
