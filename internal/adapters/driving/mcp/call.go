package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// call tracks one tool invocation from input to envelope.
type call struct {
	tool  string
	start time.Time
	log   *zap.SugaredLogger
	env   Envelope

	// timeoutLabel names the operation in timeout messages.
	timeoutLabel string
}

func (s *Server) begin(tool, repoURL, query string) *call {
	id := uuid.NewString()
	c := &call{
		tool:         tool,
		start:        time.Now(),
		log:          logger.With("tool", tool, "request_id", id),
		timeoutLabel: "Request",
	}
	c.env.RepoURL = repoURL
	c.env.Query = query
	c.env.Meta.Attempt = 1
	c.env.Meta.MaxAttempts = 1
	c.env.Meta.RequestID = id

	c.log.Infof("%s: repo=%q query=%q", tool, repoURL, query)
	return c
}

// target resolves raw to a repository and admits the call against the
// quota. ok is false once the envelope holds an error.
func (s *Server) target(
	ctx context.Context, req *mcp.CallToolRequest, c *call, raw string,
) (repo domain.RepoRef, note string, ok bool) {
	repo, res, err := s.ports.Resolver.ResolveRepo(ctx, raw, s.chooser(req))
	if err != nil {
		s.fail(c, err)
		return domain.RepoRef{}, "", false
	}
	c.env.RepoURL = repo.URL()
	if res != nil {
		note = res.Note()
		c.env.Meta.ResolvedFrom = res.Keyword
	}

	if s.ports.Quota != nil {
		key := repo.URL()
		if err := s.ports.Quota.Admit(key); err != nil {
			s.fail(c, err)
			return domain.RepoRef{}, "", false
		}
		remaining := s.ports.Quota.Remaining(key)
		c.env.Meta.CallsRemaining = &remaining
	}
	return repo, note, true
}

// chooser returns an elicitation-backed chooser for the calling session,
// or nil when there is no session to ask.
func (s *Server) chooser(req *mcp.CallToolRequest) driven.Chooser {
	if req == nil || req.Session == nil {
		return nil
	}
	return &elicitChooser{session: req.Session}
}

// fail records err in the envelope under its taxonomy code.
func (s *Server) fail(c *call, err error) {
	code := domain.CodeOf(err)
	msg := err.Error()
	switch {
	case code == domain.CodeTimeout && s.opts.HardTimeout > 0:
		msg = fmt.Sprintf("%s timed out after %ds.", c.timeoutLabel, int(s.opts.HardTimeout.Seconds()))
	case errors.Is(err, context.Canceled):
		msg = "Request cancelled."
	}
	c.env.setError(code, msg)
	c.log.Warnf("%s failed: %s: %v", c.tool, code, err)
}

// finish stamps the elapsed time and wraps the envelope.
func (c *call) finish() (*mcp.CallToolResult, any, error) {
	c.env.Meta.ElapsedMS = time.Since(c.start).Milliseconds()
	c.log.Debugf("%s done: status=%s chars=%d elapsed=%dms",
		c.tool, c.env.Status, c.env.Meta.CharCount, c.env.Meta.ElapsedMS)
	return c.env.result(), nil, nil
}
