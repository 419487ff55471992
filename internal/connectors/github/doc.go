// Package github searches GitHub for repositories matching a keyword.
//
// It is the fallback used when the wiki's own search page returns nothing
// for a keyword, typically because of a typo ("veu") or because the project
// has not been indexed yet. GitHub's repository search matches fuzzily and
// is sorted by stars here, so its results feed the same selection rules as
// wiki results.
//
// # Architecture
//
//   - Client: wraps go-github with rate limiting and error mapping
//   - Searcher: implements [driven.RepoSearcher] on top of Client
//   - RateLimiter: proactive token bucket plus GitHub's rate limit headers
//
// # Authentication
//
// A token is optional. Without one the search API allows 10 requests per
// minute; with a personal access token (GITHUB_TOKEN) it allows 30.
package github
