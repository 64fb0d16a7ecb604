// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/naka-gawa/repo-sweeper/internal/domain"
)

const (
	listPageSize = 100

	// maxNetworkAttempts bounds retries of transient failures per request.
	maxNetworkAttempts = 3

	// defaultBackoffBase is the first exponential backoff delay.
	defaultBackoffBase = 500 * time.Millisecond

	// defaultRateLimitWait is used when a rate-limited response carries
	// no usable reset time.
	defaultRateLimitWait = 30 * time.Second
)

// RepositoryAPI defines the behavior of a gateway for listing and deleting
// repositories on behalf of the authenticated account.
type RepositoryAPI interface {
	// AuthenticatedLogin resolves the login of the token's owner.
	AuthenticatedLogin(ctx context.Context) (string, error)
	// ListRepositories drains every page of the authenticated user's
	// repository listing into a single slice, in pagination order.
	ListRepositories(ctx context.Context) ([]domain.Repository, error)
	// DeleteRepository permanently deletes one repository. There is no undo.
	DeleteRepository(ctx context.Context, owner, name string) error
}

// GitHubGateway is the concrete implementation of the RepositoryAPI interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *zap.Logger

	// Injected for deterministic tests.
	sleep       func(time.Duration)
	now         func() time.Time
	backoffBase time.Duration
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *zap.Logger) (RepositoryAPI, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
		sleep:         time.Sleep,
		now:           time.Now,
		backoffBase:   defaultBackoffBase,
	}, nil
}

// AuthenticatedLogin asks the GraphQL API who owns the token.
func (g *GitHubGateway) AuthenticatedLogin(ctx context.Context) (string, error) {
	var q struct {
		Viewer struct {
			Login githubv4.String
		}
	}
	if err := g.graphqlClient.Query(ctx, &q, nil); err != nil {
		return "", fmt.Errorf("failed to resolve authenticated login: %w", err)
	}
	return string(q.Viewer.Login), nil
}

func (g *GitHubGateway) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	g.logger.Debug("listing repositories for authenticated user")
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	seen := make(map[string]struct{})
	var records []domain.Repository
	for {
		var (
			repos []*github.Repository
			resp  *github.Response
		)
		err := g.call(ctx, func() error {
			var callErr error
			repos, resp, callErr = g.restClient.Repositories.ListByAuthenticatedUser(ctx, opts)
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories: %w", err)
		}
		for _, repo := range repos {
			record := toRecord(repo)
			// Pages can shift underneath the cursor while a listing is
			// in flight; drop anything already collected.
			if _, dup := seen[record.FullName]; dup {
				g.logger.Debug("dropping duplicate listing entry", zap.String("repository", record.FullName))
				continue
			}
			seen[record.FullName] = struct{}{}
			records = append(records, record)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("fetching next page of repositories", zap.Int("page", resp.NextPage))
	}
	g.logger.Debug("completed repository listing", zap.Int("count", len(records)))
	return records, nil
}

func (g *GitHubGateway) DeleteRepository(ctx context.Context, owner, name string) error {
	g.logger.Debug("deleting repository", zap.String("owner", owner), zap.String("name", name))
	err := g.call(ctx, func() error {
		_, callErr := g.restClient.Repositories.Delete(ctx, owner, name)
		return callErr
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", owner, name, err)
	}
	return nil
}

// call runs a single API operation, classifying failures into the domain
// taxonomy. A rate-limited response is waited out once and the operation
// retried; a second rate-limit hit on the same operation is surfaced.
// Transient failures are retried with exponential backoff up to
// maxNetworkAttempts total attempts. Authentication failures are never
// retried.
func (g *GitHubGateway) call(ctx context.Context, op func() error) error {
	var (
		rateLimitWaited bool
		attempts        int
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := op()
		if err == nil {
			return nil
		}
		classified := g.classify(err)

		var rle *domain.RateLimitError
		if errors.As(classified, &rle) {
			if rateLimitWaited {
				return classified
			}
			rateLimitWaited = true
			wait := rle.Reset.Sub(g.now())
			if wait <= 0 {
				wait = defaultRateLimitWait
			}
			g.logger.Warn("rate limit exhausted, waiting for reset",
				zap.Time("reset", rle.Reset), zap.Duration("wait", wait))
			g.sleep(wait)
			continue
		}

		if errors.Is(classified, domain.ErrNetwork) {
			attempts++
			if attempts >= maxNetworkAttempts {
				return classified
			}
			backoff := g.backoffBase << (attempts - 1)
			g.logger.Debug("transient failure, backing off",
				zap.Duration("backoff", backoff), zap.Error(classified))
			g.sleep(backoff)
			continue
		}

		return classified
	}
}

// classify maps go-github error types onto the domain error taxonomy.
func (g *GitHubGateway) classify(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &domain.RateLimitError{Reset: rateErr.Rate.Reset.Time}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		reset := g.now().Add(defaultRateLimitWait)
		if abuseErr.RetryAfter != nil {
			reset = g.now().Add(*abuseErr.RetryAfter)
		}
		return &domain.RateLimitError{Reset: reset}
	}
	var apiErr *github.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		switch code := apiErr.Response.StatusCode; {
		case code == http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", domain.ErrUnauthorized, apiErr.Message)
		case code == http.StatusForbidden:
			return fmt.Errorf("%w: %s", domain.ErrForbidden, apiErr.Message)
		case code == http.StatusNotFound:
			return fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr.Message)
		case code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: server returned %d: %s", domain.ErrNetwork, code, apiErr.Message)
		default:
			return err
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	// Anything not shaped like an API response is a transport failure.
	return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
}

func toRecord(repo *github.Repository) domain.Repository {
	visibility := repo.GetVisibility()
	if visibility == "" {
		visibility = domain.VisibilityPublic
		if repo.GetPrivate() {
			visibility = domain.VisibilityPrivate
		}
	}
	return domain.Repository{
		Owner:         repo.GetOwner().GetLogin(),
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Visibility:    visibility,
		Fork:          repo.GetFork(),
		Archived:      repo.GetArchived(),
		DefaultBranch: repo.GetDefaultBranch(),
		PushedAt:      repo.GetPushedAt().Time,
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
	}
}
