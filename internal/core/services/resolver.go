package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudmeru/codewiki-mcp/internal/core/domain"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driven"
	"github.com/cloudmeru/codewiki-mcp/internal/core/ports/driving"
	"github.com/cloudmeru/codewiki-mcp/internal/logger"
	"github.com/cloudmeru/codewiki-mcp/internal/reporef"
)

// Ensure ResolverService implements the interface.
var _ driving.ResolverService = (*ResolverService)(nil)

// MaxChoices caps the candidates offered to a chooser.
const MaxChoices = 6

// Selection rules, in priority order.
const (
	RuleSingle       = "single-result"
	RuleCanonical    = "canonical"
	RuleChosen       = "chosen"
	RuleExactName    = "exact-name"
	RuleOwnerMatch   = "owner-match"
	RuleNameContains = "name-contains"
	RuleFirst        = "first-result"
)

// ResolverService maps bare keywords to repositories by searching each
// source in turn until one returns results.
type ResolverService struct {
	sources []driven.RepoSearcher
	cache   driven.Cache[[]domain.SearchResult]
}

// NewResolverService creates a resolver. sources are tried in order; the
// first to return any results wins.
func NewResolverService(cache driven.Cache[[]domain.SearchResult], sources ...driven.RepoSearcher) *ResolverService {
	return &ResolverService{sources: sources, cache: cache}
}

// ResolveRepo parses raw and resolves it when it is a bare keyword.
func (s *ResolverService) ResolveRepo(
	ctx context.Context, raw string, chooser driven.Chooser,
) (domain.RepoRef, *domain.Resolution, error) {
	in, err := reporef.Parse(raw)
	if err != nil {
		return domain.RepoRef{}, nil, err
	}
	if in.Kind == reporef.KindRepo {
		return in.Ref, nil, nil
	}

	res, err := s.Resolve(ctx, in.Keyword, chooser)
	if err != nil {
		return domain.RepoRef{}, nil, err
	}
	ref, err := reporef.FromFullName(res.Selected)
	if err != nil {
		return domain.RepoRef{}, nil, err
	}
	return ref, &res, nil
}

// Resolve searches for keyword and picks one repository.
func (s *ResolverService) Resolve(ctx context.Context, keyword string, chooser driven.Chooser) (domain.Resolution, error) {
	kw := strings.TrimSpace(keyword)
	if !reporef.IsBareKeyword(kw) {
		return domain.Resolution{}, fmt.Errorf("%w: %q is not a bare keyword", domain.ErrInvalidInput, keyword)
	}

	logger.Section("Resolve Keyword")
	logger.Debug("Keyword: %q", kw)

	res := domain.Resolution{Keyword: kw}
	for _, src := range s.sources {
		results, err := s.search(ctx, src, kw)
		if err != nil {
			return res, err
		}
		if len(results) > 0 {
			res.Candidates = results
			res.Source = src.Source()
			break
		}
		logger.Debug("No results from %s for %q", src.Source(), kw)
	}

	if len(res.Candidates) == 0 {
		return res, fmt.Errorf("%w: no repositories found for %q. Pass owner/repo or a full repository URL instead",
			domain.ErrNoMatch, kw)
	}

	res.Selected, res.Rule = s.choose(ctx, kw, res.Candidates, chooser)
	logger.Info("resolver: %q -> %s (%s, %d candidates from %s)",
		kw, res.Selected, res.Rule, len(res.Candidates), res.Source)
	return res, nil
}

// search returns cached results for src, or queries it. Failed searches
// count as empty and are not cached; a cancelled context is returned.
func (s *ResolverService) search(ctx context.Context, src driven.RepoSearcher, kw string) ([]domain.SearchResult, error) {
	key := string(src.Source()) + ":" + strings.ToLower(kw)
	if s.cache != nil {
		if results, ok := s.cache.Get(key); ok {
			logger.Debug("Search cache hit: %s", key)
			return results, nil
		}
	}

	results, err := src.Search(ctx, kw)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("resolver: %s search for %q failed: %v", src.Source(), kw, err)
		return nil, nil
	}

	if s.cache != nil {
		s.cache.Set(key, results)
	}
	return results, nil
}

// choose short-circuits single and canonical results, then asks chooser,
// then falls back to the heuristics.
func (s *ResolverService) choose(
	ctx context.Context, kw string, results []domain.SearchResult, chooser driven.Chooser,
) (string, string) {
	if len(results) == 1 {
		return results[0].FullName(), RuleSingle
	}
	if r, ok := canonical(kw, results); ok {
		return r.FullName(), RuleCanonical
	}

	if chooser != nil {
		top := results
		if len(top) > MaxChoices {
			top = top[:MaxChoices]
		}
		selected, ok, err := chooser.Choose(ctx, kw, top)
		switch {
		case err != nil:
			logger.Debug("Chooser unavailable: %v", err)
		case ok && contains(top, selected):
			return selected, RuleChosen
		default:
			logger.Debug("Chooser declined for %q", kw)
		}
	}

	return SelectBest(kw, results)
}

// SelectBest picks a repository for kw without asking anyone and names
// the rule that matched. Ties go to the most starred. results must not be
// empty.
func SelectBest(kw string, results []domain.SearchResult) (string, string) {
	kw = strings.ToLower(kw)

	if r, ok := canonical(kw, results); ok {
		return r.FullName(), RuleCanonical
	}

	if r, ok := mostStarred(results, func(r domain.SearchResult) bool {
		return strings.ToLower(r.Repo) == kw
	}); ok {
		return r.FullName(), RuleExactName
	}

	var owners []domain.SearchResult
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.Owner), kw) {
			owners = append(owners, r)
		}
	}
	if len(owners) > 0 {
		if r, ok := mostStarred(owners, func(r domain.SearchResult) bool {
			return strings.ToLower(r.Repo) == kw
		}); ok {
			return r.FullName(), RuleOwnerMatch
		}
		r, _ := mostStarred(owners, nil)
		return r.FullName(), RuleOwnerMatch
	}

	if r, ok := mostStarred(results, func(r domain.SearchResult) bool {
		return strings.Contains(strings.ToLower(r.Repo), kw)
	}); ok {
		return r.FullName(), RuleNameContains
	}

	return results[0].FullName(), RuleFirst
}

func canonical(kw string, results []domain.SearchResult) (domain.SearchResult, bool) {
	return mostStarred(results, func(r domain.SearchResult) bool {
		return strings.EqualFold(r.Owner, kw) && strings.EqualFold(r.Repo, kw)
	})
}

// mostStarred returns the highest-starred result accepted by match, the
// earliest on ties. A nil match accepts everything.
func mostStarred(results []domain.SearchResult, match func(domain.SearchResult) bool) (domain.SearchResult, bool) {
	var best domain.SearchResult
	found := false
	for _, r := range results {
		if match != nil && !match(r) {
			continue
		}
		if !found || r.Stars > best.Stars {
			best, found = r, true
		}
	}
	return best, found
}

func contains(results []domain.SearchResult, fullName string) bool {
	for _, r := range results {
		if r.FullName() == fullName {
			return true
		}
	}
	return false
}
