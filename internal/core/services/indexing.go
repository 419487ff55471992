package services

import (
	"context"
	"fmt"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driving"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
)

// Ensure IndexingService implements the interface.
var _ driving.IndexingService = (*IndexingService)(nil)

// IndexingService submits repositories to the wiki's indexing queue and
// explains the outcome.
type IndexingService struct {
	requester driven.IndexRequester
	baseURL   string
}

// NewIndexingService creates a new indexing service.
func NewIndexingService(requester driven.IndexRequester, baseURL string) *IndexingService {
	return &IndexingService{requester: requester, baseURL: baseURL}
}

// RequestIndexing drives the request form. Every stage the form reaches is
// a successful outcome with a Message; only browser failures are errors.
func (s *IndexingService) RequestIndexing(ctx context.Context, repo domain.RepoRef) (domain.IndexRequest, error) {
	logger.Section("Request Indexing")

	req, err := s.requester.RequestIndexing(ctx, repo)
	if err != nil {
		return req, fmt.Errorf("browser error during indexing request: %w", err)
	}

	req.Repo = repo
	req.WikiURL = repo.WikiURL(s.baseURL)
	if req.SearchURL == "" {
		req.SearchURL = domain.SearchPageURL(s.baseURL, repo.SearchQuery())
	}
	req.Message = indexMessage(req)

	logger.Info("indexing: %s reached stage %s", repo.ID(), req.Stage)
	return req, nil
}

func indexMessage(req domain.IndexRequest) string {
	repoURL := req.Repo.URL()
	switch req.Stage {
	case domain.IndexConfirmed:
		return fmt.Sprintf("**Indexing request submitted successfully** for **%s**.\n\n"+
			"Google CodeWiki confirmed: *\"Repo requested — Thanks for reaching out. We'll review your request.\"*\n\n"+
			"**What to do next:**\n"+
			"- The wiki will be generated once Google reviews and approves the request.\n"+
			"- Check back later at: %s\n"+
			"- Indexing timelines vary; popular repos with more stars and activity are typically indexed sooner.\n"+
			"- Try querying this repo again in a few days.",
			repoURL, req.WikiURL)
	case domain.IndexUnconfirmed:
		return fmt.Sprintf("The indexing request was submitted for **%s**, but we could not confirm whether it was accepted.\n\n"+
			"**What to do next:**\n"+
			"- Check: %s\n"+
			"- Or submit manually at: %s\n"+
			"- Try again in a few days.",
			repoURL, req.WikiURL, req.SearchURL)
	case domain.IndexSubmitFailed:
		return fmt.Sprintf("Filled URL but could not click Submit for **%s**: %s\n\nPlease submit manually at: %s",
			repoURL, req.Detail, req.SearchURL)
	case domain.IndexInputMissing:
		return fmt.Sprintf("The request dialog opened but the URL input field was not found for **%s**.\n\n"+
			"Please submit manually at: %s", repoURL, req.SearchURL)
	default:
		return fmt.Sprintf("Could not find the 'Request repository' button for **%s**. "+
			"The repo may already be queued for indexing, or CodeWiki's UI has changed.\n\n"+
			"You can try manually at: %s", repoURL, req.SearchURL)
	}
}
