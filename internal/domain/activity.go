// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// RepoRef identifies a single GitHub repository.
// It is derived once per invocation from a user-supplied URL.
// Name is the exact repository name for API paths; Label is the
// sanitized form safe for display and email subject composition.
type RepoRef struct {
	Owner string
	Name  string
	Label string
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// Window is the trailing time interval used to decide which items
// count as recent activity.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the window ending at now and extending back by length.
func NewWindow(now time.Time, length time.Duration) Window {
	return Window{Start: now.Add(-length), End: now}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

const windowDateLayout = "January 2, 2006"

// StartDate and EndDate format the window bounds for user-facing text
// (prompt banner, empty-activity errors, email metadata).
func (w Window) StartDate() string { return w.Start.Format(windowDateLayout) }

func (w Window) EndDate() string { return w.End.Format(windowDateLayout) }

// PullRequest is the compact projection of a pull request kept for summarization.
type PullRequest struct {
	Title     string
	State     string
	URL       string
	UpdatedAt time.Time
}

// Issue is the compact projection of an issue kept for summarization.
type Issue struct {
	Title     string
	State     string
	URL       string
	UpdatedAt time.Time
}

// Commit is the compact projection of a commit kept for summarization.
type Commit struct {
	Message    string
	Author     string
	URL        string
	AuthoredAt time.Time
}

// Discussion is the compact projection of a repository discussion.
type Discussion struct {
	Title     string
	URL       string
	UpdatedAt time.Time
}

// Bundle holds all activity collected for one invocation. The four
// sequences are independent: a fetch that fails or is unavailable leaves
// its sequence empty without affecting the others.
type Bundle struct {
	PullRequests []PullRequest
	Issues       []Issue
	Commits      []Commit
	Discussions  []Discussion
}

// Empty reports whether the bundle holds no activity at all.
func (b Bundle) Empty() bool {
	return len(b.PullRequests) == 0 && len(b.Issues) == 0 &&
		len(b.Commits) == 0 && len(b.Discussions) == 0
}
