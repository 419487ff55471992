package mcp

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
)

// Envelope statuses.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusPartial = "partial"
)

// Envelope is the JSON body of every tool response, success or failure.
type Envelope struct {
	Status  string      `json:"status"`
	Code    domain.Code `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    *string     `json:"data,omitempty"`
	RepoURL string      `json:"repo_url,omitempty"`
	Query   string      `json:"query,omitempty"`
	Meta    Meta        `json:"meta"`
}

// Meta carries timing, size and pagination details.
type Meta struct {
	ElapsedMS      int64  `json:"elapsed_ms"`
	CharCount      int    `json:"char_count"`
	Attempt        int    `json:"attempt"`
	MaxAttempts    int    `json:"max_attempts"`
	Truncated      bool   `json:"truncated"`
	Cached         bool   `json:"cached,omitempty"`
	CallsRemaining *int   `json:"calls_remaining,omitempty"`
	ResolvedFrom   string `json:"resolved_from,omitempty"`
	RequestID      string `json:"request_id,omitempty"`

	*PageMeta
}

// PageMeta describes one page of a paginated read.
type PageMeta struct {
	Offset     int  `json:"offset"`
	Returned   int  `json:"returned"`
	Total      int  `json:"total_sections"`
	HasMore    bool `json:"has_more"`
	NextOffset *int `json:"next_offset,omitempty"`
}

func newPageMeta(p *domain.ContentsPage) *PageMeta {
	m := &PageMeta{Offset: p.Offset, Returned: p.Returned, Total: p.Total, HasMore: p.HasMore}
	if p.HasMore {
		next := p.NextOffset
		m.NextOffset = &next
	}
	return m
}

// setData stores data and its size. Truncated data is reported as partial.
func (e *Envelope) setData(data string, truncated bool) {
	e.Status = StatusOK
	if truncated {
		e.Status = StatusPartial
	}
	e.Data = &data
	e.Meta.CharCount = utf8.RuneCountInString(data)
	e.Meta.Truncated = truncated
}

// setError records err under its taxonomy code.
func (e *Envelope) setError(code domain.Code, message string) {
	e.Status = StatusError
	e.Code = code
	e.Message = message
	e.Data = nil
}

// JSON renders the envelope with two-space indentation.
func (e *Envelope) JSON() string {
	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return `{"status":"error","code":"INTERNAL","message":"encoding response failed"}`
	}
	return string(b)
}

// result wraps the envelope as a text tool result.
func (e *Envelope) result() *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: e.JSON()}},
		IsError: e.Status == StatusError,
	}
}
