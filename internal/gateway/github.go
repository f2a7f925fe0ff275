// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/repodigest/repodigest/internal/domain"
)

const requestTimeout = 30 * time.Second

// Fetcher defines the behavior of a gateway for fetching repository activity.
type Fetcher interface {
	FetchActivity(ctx context.Context, ref domain.RepoRef, window domain.Window) (domain.Bundle, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// discussionsQuery lists the most recently updated repository discussions.
// Repository discussions have no stable REST list endpoint, so this is the
// one fetch that goes through GraphQL.
type discussionsQuery struct {
	Repository struct {
		Discussions struct {
			Nodes []struct {
				Title     githubv4.String
				URL       githubv4.URI `graphql:"url"`
				UpdatedAt githubv4.DateTime
			}
		} `graphql:"discussions(first: 100, orderBy: {field: UPDATED_AT, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The token is optional; without one, requests go out unauthenticated.
func NewGitHubGateway(token string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	httpClient := &http.Client{Transport: transport, Timeout: requestTimeout}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchActivity collects pull requests, issues, commits, and discussions
// for one repository within the window. The four fetches are independent
// and run concurrently; an API-level error on any one of them degrades
// that sequence to empty rather than failing the bundle. Only a
// transport-level fault is fatal.
func (g *GitHubGateway) FetchActivity(ctx context.Context, ref domain.RepoRef, window domain.Window) (domain.Bundle, error) {
	var bundle domain.Bundle

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		bundle.PullRequests, err = g.fetchPullRequests(egCtx, ref, window)
		return err
	})
	eg.Go(func() error {
		var err error
		bundle.Issues, err = g.fetchIssues(egCtx, ref, window)
		return err
	})
	eg.Go(func() error {
		var err error
		bundle.Commits, err = g.fetchCommits(egCtx, ref, window)
		return err
	})
	eg.Go(func() error {
		bundle.Discussions = g.fetchDiscussions(egCtx, ref)
		return nil
	})

	if err := eg.Wait(); err != nil {
		return domain.Bundle{}, err
	}
	return bundle, nil
}

func (g *GitHubGateway) fetchPullRequests(ctx context.Context, ref domain.RepoRef, window domain.Window) ([]domain.PullRequest, error) {
	g.logger.Println("[1/4] Fetching pull requests...")
	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	prs, _, err := g.restClient.PullRequests.List(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		if isAPIError(err) {
			g.logger.Printf("Pull request endpoint returned an error, treating as no pull requests: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pull requests: %w", err)
	}

	// The list endpoint has no "since" filter, so the window is applied here.
	var out []domain.PullRequest
	for _, pr := range prs {
		if !window.Contains(pr.GetUpdatedAt().Time) {
			continue
		}
		out = append(out, domain.PullRequest{
			Title:     pr.GetTitle(),
			State:     pr.GetState(),
			URL:       pr.GetHTMLURL(),
			UpdatedAt: pr.GetUpdatedAt().Time,
		})
	}
	g.logger.Printf("Found %d pull requests in the window", len(out))
	return out, nil
}

func (g *GitHubGateway) fetchIssues(ctx context.Context, ref domain.RepoRef, window domain.Window) ([]domain.Issue, error) {
	g.logger.Println("[2/4] Fetching issues...")
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	issues, _, err := g.restClient.Issues.ListByRepo(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		if isAPIError(err) {
			g.logger.Printf("Issue endpoint returned an error, treating as no issues: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}

	var out []domain.Issue
	for _, issue := range issues {
		// The issues endpoint conflates issues and pull requests.
		if issue.IsPullRequest() {
			continue
		}
		if !window.Contains(issue.GetUpdatedAt().Time) {
			continue
		}
		out = append(out, domain.Issue{
			Title:     issue.GetTitle(),
			State:     issue.GetState(),
			URL:       issue.GetHTMLURL(),
			UpdatedAt: issue.GetUpdatedAt().Time,
		})
	}
	g.logger.Printf("Found %d issues in the window", len(out))
	return out, nil
}

func (g *GitHubGateway) fetchCommits(ctx context.Context, ref domain.RepoRef, window domain.Window) ([]domain.Commit, error) {
	g.logger.Println("[3/4] Fetching commits...")
	opts := &github.CommitsListOptions{
		Since:       window.Start,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	commits, _, err := g.restClient.Repositories.ListCommits(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		if isAPIError(err) {
			g.logger.Printf("Commit endpoint returned an error, treating as no commits: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch commits: %w", err)
	}

	var out []domain.Commit
	for _, c := range commits {
		out = append(out, domain.Commit{
			Message:    c.GetCommit().GetMessage(),
			Author:     c.GetCommit().GetAuthor().GetName(),
			URL:        c.GetHTMLURL(),
			AuthoredAt: c.GetCommit().GetAuthor().GetDate().Time,
		})
	}
	g.logger.Printf("Found %d commits in the window", len(out))
	return out, nil
}

// fetchDiscussions is best-effort: discussions may be disabled on the
// repository, and unauthenticated GraphQL calls are rejected outright.
// Every failure mode degrades to zero discussions.
func (g *GitHubGateway) fetchDiscussions(ctx context.Context, ref domain.RepoRef) []domain.Discussion {
	g.logger.Println("[4/4] Fetching discussions...")
	variables := map[string]interface{}{
		"owner": githubv4.String(ref.Owner),
		"name":  githubv4.String(ref.Name),
	}
	var q discussionsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		g.logger.Printf("Discussions not available: %v", err)
		return nil
	}

	var out []domain.Discussion
	for _, node := range q.Repository.Discussions.Nodes {
		d := domain.Discussion{
			Title:     string(node.Title),
			UpdatedAt: node.UpdatedAt.Time,
		}
		if node.URL.URL != nil {
			d.URL = node.URL.String()
		}
		out = append(out, d)
	}
	g.logger.Printf("Found %d discussions", len(out))
	return out
}

// isAPIError reports whether err is an API-level response (error envelope,
// rate limiting) rather than a transport fault.
func isAPIError(err error) bool {
	var errResp *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	return errors.As(err, &errResp) || errors.As(err, &rateErr) || errors.As(err, &abuseErr)
}
