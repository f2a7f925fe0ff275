// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/repodigest/repodigest/internal/domain"
	"github.com/repodigest/repodigest/internal/gateway"
	"github.com/repodigest/repodigest/internal/notifier"
	"github.com/repodigest/repodigest/internal/repourl"
	"github.com/repodigest/repodigest/internal/summarizer"
)

// ErrInvalidRepoURL reports a URL that does not point at a GitHub
// repository. It is user-correctable and surfaced as-is.
var ErrInvalidRepoURL = errors.New("invalid GitHub repository URL")

// Pipeline runs one summary invocation end to end: parse the URL, fetch
// activity, generate the summary, and email it. All collaborators are
// injected; the pipeline holds no state across invocations.
type Pipeline struct {
	fetcher    gateway.Fetcher
	summarizer summarizer.Summarizer
	notifier   notifier.Notifier
	logger     *log.Logger
	window     time.Duration
	now        func() time.Time
}

// NewPipeline creates a Pipeline instance.
func NewPipeline(fetcher gateway.Fetcher, s summarizer.Summarizer, n notifier.Notifier, logger *log.Logger, window time.Duration) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		summarizer: s,
		notifier:   n,
		logger:     logger,
		window:     window,
		now:        time.Now,
	}
}

// Run executes one invocation. Stages run strictly in order and the
// first failure is terminal; there are no retries. When the repository
// shows no activity at all in the window, the run stops before the
// summarizer so no paid call is made and no vacuous summary is emailed.
func (p *Pipeline) Run(ctx context.Context, rawURL, email string) error {
	ref, ok := repourl.Parse(rawURL)
	if !ok {
		return ErrInvalidRepoURL
	}
	window := domain.NewWindow(p.now(), p.window)
	p.logger.Printf("Processing %s for the period %s to %s", ref, window.StartDate(), window.EndDate())

	bundle, err := p.fetcher.FetchActivity(ctx, ref, window)
	if err != nil {
		return fmt.Errorf("fetching repository activity: %w", err)
	}
	p.logger.Printf("Fetched %d pull requests, %d issues, %d commits, %d discussions",
		len(bundle.PullRequests), len(bundle.Issues), len(bundle.Commits), len(bundle.Discussions))

	if bundle.Empty() {
		return fmt.Errorf("no activity found in this repository between %s and %s",
			window.StartDate(), window.EndDate())
	}

	summary, err := p.summarizer.Summarize(ctx, ref, bundle, window)
	if err != nil {
		return fmt.Errorf("generating summary: %w", err)
	}

	if err := p.notifier.Send(ctx, email, summary, rawURL); err != nil {
		return fmt.Errorf("sending summary email: %w", err)
	}
	p.logger.Println("Invocation completed successfully")
	return nil
}
