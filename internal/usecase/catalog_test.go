package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-sweeper/internal/domain"
)

// mockRepositoryAPI is a mock implementation of the gateway.RepositoryAPI interface.
// It allows us to simulate the GitHub gateway without making real API calls.
type mockRepositoryAPI struct {
	mock.Mock
}

func (m *mockRepositoryAPI) AuthenticatedLogin(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockRepositoryAPI) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

func (m *mockRepositoryAPI) DeleteRepository(ctx context.Context, owner, name string) error {
	args := m.Called(ctx, owner, name)
	return args.Error(0)
}

func repo(owner, name string) domain.Repository {
	return domain.Repository{
		Owner:    owner,
		Name:     name,
		FullName: owner + "/" + name,
	}
}

func TestBuildCatalog(t *testing.T) {
	testCases := []struct {
		name        string
		listed      []domain.Repository
		listErr     error
		expectedIDs []string
		expectError bool
	}{
		{
			name:        "pagination order is preserved",
			listed:      []domain.Repository{repo("o", "a"), repo("o", "b"), repo("o", "c")},
			expectedIDs: []string{"o/a", "o/b", "o/c"},
		},
		{
			name:        "duplicates keep first occurrence",
			listed:      []domain.Repository{repo("o", "a"), repo("o", "b"), repo("o", "a")},
			expectedIDs: []string{"o/a", "o/b"},
		},
		{
			name:        "empty account",
			listed:      []domain.Repository{},
			expectedIDs: []string{},
		},
		{
			name:        "listing errors are propagated unmasked",
			listErr:     domain.ErrRateLimited,
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := new(mockRepositoryAPI)
			if tc.listErr != nil {
				api.On("ListRepositories", mock.Anything).Return(nil, tc.listErr)
			} else {
				api.On("ListRepositories", mock.Anything).Return(tc.listed, nil)
			}

			catalog, err := BuildCatalog(context.Background(), api)

			if tc.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.listErr)
				assert.Nil(t, catalog)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedIDs, catalog.IDs())
			api.AssertExpectations(t)
		})
	}
}

func TestCatalog_FilterReturnsOrderedViewWithoutMutating(t *testing.T) {
	catalog := NewCatalog([]domain.Repository{
		{Owner: "o", Name: "a", FullName: "o/a", Fork: true, Stars: 0},
		{Owner: "o", Name: "b", FullName: "o/b", Fork: false, Stars: 7},
		{Owner: "o", Name: "c", FullName: "o/c", Fork: true, Stars: 2},
	})

	forks := catalog.Filter(func(r domain.Repository) bool { return r.Fork })

	assert.Equal(t, []string{"o/a", "o/c"}, forks.IDs())
	// The underlying catalog is untouched.
	assert.Equal(t, []string{"o/a", "o/b", "o/c"}, catalog.IDs())
	assert.True(t, catalog.Contains("o/b"))
	assert.False(t, forks.Contains("o/b"))
}

func TestCatalog_RecordsIsACopy(t *testing.T) {
	catalog := NewCatalog([]domain.Repository{repo("o", "a")})
	records := catalog.Records()
	records[0].Name = "mutated"

	got, ok := catalog.Get("o/a")
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
}

func TestListFilter_Matches(t *testing.T) {
	now := time.Now()
	candidate := domain.Repository{
		Owner:      "octocat",
		Name:       "sandbox",
		FullName:   "octocat/sandbox",
		Visibility: domain.VisibilityPublic,
		Fork:       true,
		Stars:      1,
		PushedAt:   now.Add(-400 * 24 * time.Hour),
	}

	testCases := []struct {
		name     string
		filter   ListFilter
		expected bool
	}{
		{name: "zero star ceiling rejects starred repos", filter: ListFilter{MaxStars: 0}, expected: false},
		{name: "star ceiling admits within budget", filter: ListFilter{MaxStars: 1}, expected: true},
		{name: "disabled star ceiling admits anything", filter: ListFilter{MaxStars: -1}, expected: true},
		{name: "owner mismatch", filter: ListFilter{Owners: []string{"someone-else"}, MaxStars: -1}, expected: false},
		{name: "owner match", filter: ListFilter{Owners: []string{"octocat"}, MaxStars: -1}, expected: true},
		{name: "visibility mismatch", filter: ListFilter{Visibilities: []string{domain.VisibilityPrivate}, MaxStars: -1}, expected: false},
		{name: "forks only admits forks", filter: ListFilter{ForksOnly: true, MaxStars: -1}, expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.filter.Matches(candidate))
		})
	}

	t.Run("forks only rejects sources", func(t *testing.T) {
		source := candidate
		source.Fork = false
		assert.False(t, ListFilter{ForksOnly: true, MaxStars: -1}.Matches(source))
	})
}

func TestBuildCatalog_ErrorLeavesNoPartialCatalog(t *testing.T) {
	api := new(mockRepositoryAPI)
	api.On("ListRepositories", mock.Anything).Return(nil, errors.New("connection reset"))

	catalog, err := BuildCatalog(context.Background(), api)

	require.Error(t, err)
	assert.Nil(t, catalog)
}
