// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"slices"

	"github.com/naka-gawa/repo-sweeper/internal/domain"
	"github.com/naka-gawa/repo-sweeper/internal/gateway"
)

// Catalog is an ordered, read-only snapshot of an account's repositories.
// Order is the API's pagination order; identifiers are unique. A catalog is
// never mutated after construction, only rebuilt by a fresh fetch.
type Catalog struct {
	records []domain.Repository
	index   map[string]int
}

// BuildCatalog drains the gateway's repository listing into a fresh catalog.
// Listing errors are propagated unmasked; no partial catalog is returned.
func BuildCatalog(ctx context.Context, api gateway.RepositoryAPI) (*Catalog, error) {
	records, err := api.ListRepositories(ctx)
	if err != nil {
		return nil, err
	}
	return NewCatalog(records), nil
}

// NewCatalog builds a catalog from already-fetched records, dropping any
// duplicate identifiers while preserving first-seen order.
func NewCatalog(records []domain.Repository) *Catalog {
	c := &Catalog{index: make(map[string]int, len(records))}
	for _, record := range records {
		if _, dup := c.index[record.ID()]; dup {
			continue
		}
		c.index[record.ID()] = len(c.records)
		c.records = append(c.records, record)
	}
	return c
}

// Len returns the number of repositories in the catalog.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns the repositories in catalog order. The slice is a copy;
// callers cannot mutate the catalog through it.
func (c *Catalog) Records() []domain.Repository {
	return slices.Clone(c.records)
}

// IDs returns every repository identifier in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.records))
	for i, record := range c.records {
		ids[i] = record.ID()
	}
	return ids
}

// Get looks up a repository by identifier.
func (c *Catalog) Get(id string) (domain.Repository, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Repository{}, false
	}
	return c.records[i], true
}

// Contains reports whether the identifier is part of the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Filter returns a new catalog holding the ordered subsequence of records
// matching the predicate. The receiver is left untouched.
func (c *Catalog) Filter(pred func(domain.Repository) bool) *Catalog {
	var matched []domain.Repository
	for _, record := range c.records {
		if pred(record) {
			matched = append(matched, record)
		}
	}
	return NewCatalog(matched)
}

// ListFilter mirrors the CLI's selection criteria: which repositories are
// even offered for deletion. Zero value matches everything.
type ListFilter struct {
	// Owners restricts to these logins when non-empty.
	Owners []string
	// Visibilities restricts to these visibility values when non-empty.
	Visibilities []string
	// ForksOnly keeps only forks when set.
	ForksOnly bool
	// MaxStars drops repositories with more stars than this when >= 0.
	MaxStars int
}

// Matches implements the predicate for Catalog.Filter.
func (f ListFilter) Matches(repo domain.Repository) bool {
	if len(f.Owners) > 0 && !slices.Contains(f.Owners, repo.Owner) {
		return false
	}
	if len(f.Visibilities) > 0 && !slices.Contains(f.Visibilities, repo.Visibility) {
		return false
	}
	if f.ForksOnly && !repo.Fork {
		return false
	}
	if f.MaxStars >= 0 && repo.Stars > f.MaxStars {
		return false
	}
	return true
}
