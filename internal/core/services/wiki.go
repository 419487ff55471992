package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driving"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// Ensure WikiService implements the interface.
var _ driving.WikiService = (*WikiService)(nil)

// maxListedSections caps the titles named when a section is not found.
const maxListedSections = 20

// WikiConfig holds the wiki reader's settings.
type WikiConfig struct {
	// BaseURL is the wiki site root.
	BaseURL string

	// MaxChars is the response character budget. Zero disables truncation.
	MaxChars int

	// TopicPreviewChars caps each topic's content preview.
	TopicPreviewChars int
}

// WikiCaches are the caches the wiki reader fills. Any may be nil.
type WikiCaches struct {
	// HTML holds rendered markup by page URL.
	HTML driven.Cache[string]

	// Documents holds parsed documents by repository ID.
	Documents driven.Cache[*domain.WikiDocument]

	// Topics holds rendered topic lists by repository ID.
	Topics driven.Cache[string]
}

// WikiService renders, parses and formats repository wiki pages.
// Concurrent reads of the same repository share one render.
type WikiService struct {
	renderer  driven.PageRenderer
	extractor driven.DocumentExtractor
	caches    WikiCaches
	cfg       WikiConfig
	inflight  singleflight.Group
}

// NewWikiService creates a new wiki service.
func NewWikiService(
	renderer driven.PageRenderer,
	extractor driven.DocumentExtractor,
	caches WikiCaches,
	cfg WikiConfig,
) *WikiService {
	return &WikiService{
		renderer:  renderer,
		extractor: extractor,
		caches:    caches,
		cfg:       cfg,
	}
}

// Topics lists section titles with short previews.
func (s *WikiService) Topics(ctx context.Context, repo domain.RepoRef) (domain.Text, error) {
	if s.caches.Topics != nil {
		if body, ok := s.caches.Topics.Get(repo.ID()); ok {
			logger.Debug("Topics cache hit: %s", repo.ID())
			return domain.Text{Body: body, Cached: true}, nil
		}
	}

	doc, cached, err := s.document(ctx, repo)
	if err != nil {
		return domain.Text{}, err
	}

	body, truncated := domain.Truncate(domain.TopicList(doc, s.cfg.TopicPreviewChars), s.cfg.MaxChars)
	if s.caches.Topics != nil {
		s.caches.Topics.Set(repo.ID(), body)
	}
	return domain.Text{Body: body, Truncated: truncated, Cached: cached}, nil
}

// Structure outlines the document's sections.
func (s *WikiService) Structure(ctx context.Context, repo domain.RepoRef) (domain.Structure, error) {
	doc, _, err := s.document(ctx, repo)
	if err != nil {
		return domain.Structure{}, err
	}
	return domain.NewStructure(doc), nil
}

// Contents renders one section when req.Section is set, otherwise a page
// of sections starting at req.Offset.
func (s *WikiService) Contents(
	ctx context.Context, repo domain.RepoRef, req domain.ContentsRequest,
) (domain.Contents, error) {
	if req.Offset < 0 {
		return domain.Contents{}, fmt.Errorf("%w: offset must not be negative", domain.ErrInvalidInput)
	}
	if req.Limit < 0 {
		return domain.Contents{}, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidInput)
	}

	doc, cached, err := s.document(ctx, repo)
	if err != nil {
		return domain.Contents{}, err
	}

	if req.Section != "" {
		sec, ok := doc.FindSection(req.Section)
		if !ok {
			return domain.Contents{}, &domain.SectionNotFoundError{
				Title:     req.Section,
				Available: doc.SectionTitles(maxListedSections),
			}
		}
		body, truncated := domain.Truncate(domain.SectionMarkdown(sec), s.cfg.MaxChars)
		return domain.Contents{Text: domain.Text{Body: body, Truncated: truncated, Cached: cached}}, nil
	}

	page := domain.Paginate(doc, req.Offset, req.Limit)
	body, truncated := domain.Truncate(page.Markdown, s.cfg.MaxChars)
	return domain.Contents{
		Text: domain.Text{Body: body, Truncated: truncated, Cached: cached},
		Page: &page,
	}, nil
}

// document returns the parsed document for repo. cached reports whether
// it came from the document cache.
func (s *WikiService) document(ctx context.Context, repo domain.RepoRef) (*domain.WikiDocument, bool, error) {
	key := repo.ID()
	if s.caches.Documents != nil {
		if doc, ok := s.caches.Documents.Get(key); ok {
			logger.Debug("Document cache hit: %s", key)
			return doc, true, nil
		}
	}

	// The shared fetch must outlive any one caller giving up.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(key, func() (any, error) {
		return s.fetch(fetchCtx, repo)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, false, r.Err
		}
		if r.Shared {
			logger.Debug("Shared in-flight fetch: %s", key)
		}
		return r.Val.(*domain.WikiDocument), false, nil
	}
}

// fetch renders and parses repo's page, filling the HTML and document
// caches only for pages with content.
func (s *WikiService) fetch(ctx context.Context, repo domain.RepoRef) (*domain.WikiDocument, error) {
	logger.Section("Wiki Fetch")
	url := repo.WikiURL(s.cfg.BaseURL)

	html, hit := "", false
	if s.caches.HTML != nil {
		html, hit = s.caches.HTML.Get(url)
	}
	if !hit {
		logger.Debug("Rendering %s", url)
		var err error
		html, err = s.renderer.Render(ctx, url)
		if err != nil {
			return nil, err
		}
	}

	doc := s.extractor.Extract(html, repo, url)
	if doc.IsContentAbsent() {
		logger.Warn("wiki: no content for %s", repo.ID())
		return nil, &domain.NotIndexedError{
			Repo:       repo,
			RequestURL: domain.SearchPageURL(s.cfg.BaseURL, repo.SearchQuery()),
		}
	}

	if s.caches.HTML != nil && !hit {
		s.caches.HTML.Set(url, html)
	}
	if s.caches.Documents != nil {
		s.caches.Documents.Set(repo.ID(), doc)
	}
	logger.Debug("Parsed %s: %d sections", repo.ID(), len(doc.Sections))
	return doc, nil
}
