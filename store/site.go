package store

import (
	"context"

	"github.com/google/uuid"
)

// Site is a job site, or the tenant's overhead bucket for non-site work.
type Site struct {
	ID         string
	TenantID   string
	Name       string
	Identifier string
	Address    string
	IsOverhead bool
	Active     bool
	CreatedTs  int64
	UpdatedTs  int64
}

// FindSite is the find condition for site.
type FindSite struct {
	ID         *string
	TenantID   *string
	Active     *bool
	IsOverhead *bool
}

// CreateSite creates a new site, assigning a UUID when ID is empty.
func (s *Store) CreateSite(ctx context.Context, create *Site) (*Site, error) {
	if create.ID == "" {
		create.ID = uuid.NewString()
	}
	return s.driver.CreateSite(ctx, create)
}

// ListSites lists sites ordered by name.
func (s *Store) ListSites(ctx context.Context, find *FindSite) ([]*Site, error) {
	return s.driver.ListSites(ctx, find)
}

// GetSite returns the first matching site, or nil if none matches.
func (s *Store) GetSite(ctx context.Context, find *FindSite) (*Site, error) {
	list, err := s.driver.ListSites(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListActiveSites returns the tenant's active sites.
func (s *Store) ListActiveSites(ctx context.Context, tenantID string) ([]*Site, error) {
	active := true
	return s.driver.ListSites(ctx, &FindSite{TenantID: &tenantID, Active: &active})
}
