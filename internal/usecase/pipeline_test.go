package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/repodigest/repodigest/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchActivity(ctx context.Context, ref domain.RepoRef, window domain.Window) (domain.Bundle, error) {
	args := m.Called(ctx, ref, window)
	return args.Get(0).(domain.Bundle), args.Error(1)
}

// mockSummarizer is a mock implementation of the summarizer.Summarizer interface.
type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) Summarize(ctx context.Context, ref domain.RepoRef, bundle domain.Bundle, window domain.Window) (string, error) {
	args := m.Called(ctx, ref, bundle, window)
	return args.String(0), args.Error(1)
}

// mockNotifier is a mock implementation of the notifier.Notifier interface.
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, recipient, summary, originURL string) error {
	args := m.Called(ctx, recipient, summary, originURL)
	return args.Error(0)
}

func newTestPipeline(f *mockFetcher, s *mockSummarizer, n *mockNotifier) *Pipeline {
	p := NewPipeline(f, s, n, log.New(io.Discard, "", 0), 7*24*time.Hour)
	p.now = func() time.Time { return time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestPipeline_Run(t *testing.T) {
	const (
		repoURL = "https://github.com/foo/bar"
		email   = "dev@example.com"
	)

	activeBundle := domain.Bundle{
		PullRequests: []domain.PullRequest{
			{Title: "PR one", State: "open"},
			{Title: "PR two", State: "closed"},
		},
		Issues: []domain.Issue{{Title: "Issue one", State: "open"}},
	}

	t.Run("invalid URL fails before any fetch", func(t *testing.T) {
		fetcher := new(mockFetcher)
		summarizer := new(mockSummarizer)
		notifier := new(mockNotifier)
		pipeline := newTestPipeline(fetcher, summarizer, notifier)

		err := pipeline.Run(context.Background(), "https://example.com/not-github", email)
		require.ErrorIs(t, err, ErrInvalidRepoURL)

		fetcher.AssertNumberOfCalls(t, "FetchActivity", 0)
		summarizer.AssertNumberOfCalls(t, "Summarize", 0)
		notifier.AssertNumberOfCalls(t, "Send", 0)
	})

	t.Run("empty bundle fails naming the date range, without summarizing or notifying", func(t *testing.T) {
		fetcher := new(mockFetcher)
		summarizer := new(mockSummarizer)
		notifier := new(mockNotifier)
		fetcher.On("FetchActivity", mock.Anything, mock.Anything, mock.Anything).Return(domain.Bundle{}, nil)
		pipeline := newTestPipeline(fetcher, summarizer, notifier)

		err := pipeline.Run(context.Background(), repoURL, email)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no activity found")
		assert.Contains(t, err.Error(), "June 2, 2025")
		assert.Contains(t, err.Error(), "June 9, 2025")

		summarizer.AssertNumberOfCalls(t, "Summarize", 0)
		notifier.AssertNumberOfCalls(t, "Send", 0)
	})

	t.Run("fetch failure is terminal", func(t *testing.T) {
		fetcher := new(mockFetcher)
		summarizer := new(mockSummarizer)
		notifier := new(mockNotifier)
		fetcher.On("FetchActivity", mock.Anything, mock.Anything, mock.Anything).
			Return(domain.Bundle{}, errors.New("network unreachable"))
		pipeline := newTestPipeline(fetcher, summarizer, notifier)

		err := pipeline.Run(context.Background(), repoURL, email)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "network unreachable")
		summarizer.AssertNumberOfCalls(t, "Summarize", 0)
		notifier.AssertNumberOfCalls(t, "Send", 0)
	})

	t.Run("summarizer failure is terminal and the notifier is never called", func(t *testing.T) {
		fetcher := new(mockFetcher)
		summarizer := new(mockSummarizer)
		notifier := new(mockNotifier)
		fetcher.On("FetchActivity", mock.Anything, mock.Anything, mock.Anything).Return(activeBundle, nil)
		summarizer.On("Summarize", mock.Anything, mock.Anything, activeBundle, mock.Anything).
			Return("", errors.New("invalid response from Gemini API"))
		pipeline := newTestPipeline(fetcher, summarizer, notifier)

		err := pipeline.Run(context.Background(), repoURL, email)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid response from Gemini API")
		notifier.AssertNumberOfCalls(t, "Send", 0)
	})

	t.Run("notifier failure is terminal", func(t *testing.T) {
		fetcher := new(mockFetcher)
		summarizer := new(mockSummarizer)
		notifier := new(mockNotifier)
		fetcher.On("FetchActivity", mock.Anything, mock.Anything, mock.Anything).Return(activeBundle, nil)
		summarizer.On("Summarize", mock.Anything, mock.Anything, activeBundle, mock.Anything).Return("S", nil)
		notifier.On("Send", mock.Anything, email, "S", repoURL).Return(errors.New("failed to send email: 403 Forbidden"))
		pipeline := newTestPipeline(fetcher, summarizer, notifier)

		err := pipeline.Run(context.Background(), repoURL, email)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403 Forbidden")
	})

	t.Run("happy path - summary is emailed exactly once", func(t *testing.T) {
		fetcher := new(mockFetcher)
		summarizer := new(mockSummarizer)
		notifier := new(mockNotifier)
		fetcher.On("FetchActivity", mock.Anything, domain.RepoRef{Owner: "foo", Name: "bar", Label: "bar"}, mock.Anything).
			Return(activeBundle, nil)
		summarizer.On("Summarize", mock.Anything, mock.Anything, activeBundle, mock.Anything).Return("S", nil)
		notifier.On("Send", mock.Anything, email, "S", repoURL).Return(nil)
		pipeline := newTestPipeline(fetcher, summarizer, notifier)

		err := pipeline.Run(context.Background(), repoURL, email)
		require.NoError(t, err)

		notifier.AssertNumberOfCalls(t, "Send", 1)
		fetcher.AssertExpectations(t)
		summarizer.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})
}
