// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Visibility values as reported by the GitHub API.
const (
	VisibilityPublic   = "public"
	VisibilityInternal = "internal"
	VisibilityPrivate  = "private"
)

// Repository is an immutable snapshot of a single GitHub repository,
// taken at catalog-build time. It is the core domain entity of this application.
type Repository struct {
	Owner         string    `json:"owner"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Visibility    string    `json:"visibility"`
	Fork          bool      `json:"fork"`
	Archived      bool      `json:"archived"`
	DefaultBranch string    `json:"default_branch"`
	PushedAt      time.Time `json:"pushed_at"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
}

// ID returns the identifier used everywhere a repository is referenced:
// the owner-qualified full name, unique within an account.
func (r Repository) ID() string {
	return r.FullName
}
