package gateway

import (
	"context"
	"fmt"

	"github.com/google/go-github/v84/github"
	"github.com/naka-gawa/github-activity/internal/domain"
)

// CommitDiff is the per-file footprint of a single commit.
type CommitDiff struct {
	SHA       string
	Additions int
	Deletions int
	Files     []FileDiff
}

// FileDiff is one changed file of a commit.
type FileDiff struct {
	Filename  string
	Additions int
	Deletions int
	Patch     string
}

// GetRepoOverview fetches the repository metadata used for the overview section.
func (g *GitHubGateway) GetRepoOverview(ctx context.Context, owner, repo string, rl *domain.RateLimitInfo) (*domain.RepoOverview, error) {
	r, resp, err := g.restClient.Repositories.Get(ctx, owner, repo)
	observe(rl, resp)
	if err != nil {
		return nil, newFetchError("get repository", repo, err)
	}
	return &domain.RepoOverview{
		Description:   r.GetDescription(),
		Language:      r.GetLanguage(),
		Topics:        r.Topics,
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		DefaultBranch: r.GetDefaultBranch(),
		Archived:      r.GetArchived(),
		PushedAt:      timePtr(r.PushedAt),
	}, nil
}

// GetReadme returns the decoded README, or ErrNotFound when the repository has none.
func (g *GitHubGateway) GetReadme(ctx context.Context, owner, repo string, rl *domain.RateLimitInfo) (string, error) {
	content, resp, err := g.restClient.Repositories.GetReadme(ctx, owner, repo, nil)
	observe(rl, resp)
	if err != nil {
		if isNotFound(err) {
			return "", ErrNotFound
		}
		return "", newFetchError("get readme", repo, err)
	}
	return decodeContent(content, repo)
}

// GetFileContent returns the decoded file at path, or ErrNotFound when the
// path does not exist or is a directory.
func (g *GitHubGateway) GetFileContent(ctx context.Context, owner, repo, path string, rl *domain.RateLimitInfo) (string, error) {
	file, _, resp, err := g.restClient.Repositories.GetContents(ctx, owner, repo, path, nil)
	observe(rl, resp)
	if err != nil {
		if isNotFound(err) {
			return "", ErrNotFound
		}
		return "", newFetchError("get "+path, repo, err)
	}
	if file == nil {
		return "", ErrNotFound
	}
	return decodeContent(file, repo)
}

// GetCommitDiff fetches a single commit with its file list and patches.
func (g *GitHubGateway) GetCommitDiff(ctx context.Context, owner, repo, sha string, rl *domain.RateLimitInfo) (*CommitDiff, error) {
	commit, resp, err := g.restClient.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	observe(rl, resp)
	if err != nil {
		return nil, newFetchError("get commit "+sha, repo, err)
	}
	diff := &CommitDiff{
		SHA:       commit.GetSHA(),
		Additions: commit.GetStats().GetAdditions(),
		Deletions: commit.GetStats().GetDeletions(),
		Files:     make([]FileDiff, 0, len(commit.Files)),
	}
	for _, f := range commit.Files {
		diff.Files = append(diff.Files, FileDiff{
			Filename:  f.GetFilename(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Patch:     f.GetPatch(),
		})
	}
	return diff, nil
}

func decodeContent(content *github.RepositoryContent, repo string) (string, error) {
	text, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode %s in %s: %w", content.GetPath(), repo, err)
	}
	return text, nil
}
