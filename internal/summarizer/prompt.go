package summarizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/repodigest/repodigest/internal/domain"
)

// Compact projections embedded in the prompt. Only the fields the model
// needs to write a useful summary are carried.
type prItem struct {
	Title string `json:"title"`
	State string `json:"state"`
	URL   string `json:"url"`
}

type commitItem struct {
	Message string `json:"message"`
	Author  string `json:"author"`
	URL     string `json:"url"`
}

type discussionItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// buildPrompt assembles the summarization instructions plus a JSON
// projection of every item in the bundle.
func buildPrompt(ref domain.RepoRef, bundle domain.Bundle, window domain.Window) (string, error) {
	prs := make([]prItem, 0, len(bundle.PullRequests))
	for _, pr := range bundle.PullRequests {
		prs = append(prs, prItem{Title: pr.Title, State: pr.State, URL: pr.URL})
	}
	issues := make([]prItem, 0, len(bundle.Issues))
	for _, issue := range bundle.Issues {
		issues = append(issues, prItem{Title: issue.Title, State: issue.State, URL: issue.URL})
	}
	commits := make([]commitItem, 0, len(bundle.Commits))
	for _, c := range bundle.Commits {
		commits = append(commits, commitItem{Message: c.Message, Author: c.Author, URL: c.URL})
	}
	discussions := make([]discussionItem, 0, len(bundle.Discussions))
	for _, d := range bundle.Discussions {
		discussions = append(discussions, discussionItem{Title: d.Title, URL: d.URL})
	}

	prJSON, err := json.Marshal(prs)
	if err != nil {
		return "", fmt.Errorf("failed to encode pull requests for prompt: %w", err)
	}
	issueJSON, err := json.Marshal(issues)
	if err != nil {
		return "", fmt.Errorf("failed to encode issues for prompt: %w", err)
	}
	commitJSON, err := json.Marshal(commits)
	if err != nil {
		return "", fmt.Errorf("failed to encode commits for prompt: %w", err)
	}
	discussionJSON, err := json.Marshal(discussions)
	if err != nil {
		return "", fmt.Errorf("failed to encode discussions for prompt: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please create a concise summary of the following activity in the %s GitHub repository from %s to %s:\n\n",
		ref.String(), window.StartDate(), window.EndDate())
	fmt.Fprintf(&b, "Pull Requests (%d): %s\n\n", len(prs), prJSON)
	fmt.Fprintf(&b, "Issues (%d): %s\n\n", len(issues), issueJSON)
	fmt.Fprintf(&b, "Commits (%d): %s\n\n", len(commits), commitJSON)
	fmt.Fprintf(&b, "Discussions (%d): %s\n\n", len(discussions), discussionJSON)

	if line := commitCadenceLine(bundle.Commits, window); line != "" {
		b.WriteString(line)
		b.WriteString("\n\n")
	}

	b.WriteString("Format the summary in a clear, readable way highlighting the most important changes and discussions. ")
	b.WriteString("Please include the titles of the PRs, Issues and Discussions in the summary. ")
	b.WriteString("Give a short summary for each of these items above. ")
	b.WriteString("Use markdown to delineate the different sections and format the headings to each section in bold.\n\n")
	fmt.Fprintf(&b, "Start the summary with \"GitHub Activity Summary for the period of %s to %s:\"",
		window.StartDate(), window.EndDate())

	return b.String(), nil
}

// commitCadenceLine describes how commit volume was spread over the
// window, giving the model a sense of pace beyond the raw item list.
func commitCadenceLine(commits []domain.Commit, window domain.Window) string {
	days := int(window.End.Sub(window.Start).Hours() / 24)
	if len(commits) == 0 || days < 2 {
		return ""
	}

	perDay := make([]float64, days)
	for _, c := range commits {
		day := int(c.AuthoredAt.Sub(window.Start).Hours() / 24)
		if day < 0 || day >= days {
			continue
		}
		perDay[day]++
	}

	mean, err := stats.Mean(perDay)
	if err != nil {
		return ""
	}
	median, err := stats.Median(perDay)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("Commit cadence over the period: mean %.1f and median %.1f commits per day.", mean, median)
}
