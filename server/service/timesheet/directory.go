package timesheet

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hrygo/sitevoice/store"
	"github.com/hrygo/sitevoice/store/cache"
)

// DefaultSiteCacheTTL is how long a tenant's active sites are reused.
const DefaultSiteCacheTTL = 5 * time.Minute

// unknownSiteName is spoken when an entry references a site that no longer exists.
const unknownSiteName = "an unknown site"

// SiteDirectory serves a tenant's active sites from a short-lived cache.
// Concurrent misses for the same tenant share one store read.
type SiteDirectory struct {
	store Store
	cache *cache.Cache
	group singleflight.Group
}

// NewSiteDirectory creates a directory. A non-positive ttl uses DefaultSiteCacheTTL.
func NewSiteDirectory(st Store, ttl time.Duration) *SiteDirectory {
	if ttl <= 0 {
		ttl = DefaultSiteCacheTTL
	}
	return &SiteDirectory{
		store: st,
		cache: cache.New(cache.Config{
			DefaultTTL:      ttl,
			CleanupInterval: ttl,
			MaxItems:        1000,
		}),
	}
}

// ActiveSites returns the tenant's active sites ordered by name.
func (d *SiteDirectory) ActiveSites(ctx context.Context, tenantID string) ([]*store.Site, error) {
	if v, ok := d.cache.Get(ctx, tenantID); ok {
		return v.([]*store.Site), nil
	}

	v, err, _ := d.group.Do(tenantID, func() (any, error) {
		sites, err := withRetry(ctx, "list_active_sites", func() ([]*store.Site, error) {
			return d.store.ListActiveSites(ctx, tenantID)
		})
		if err != nil {
			return nil, err
		}
		// An empty directory is not cached so newly configured sites show up at once.
		if len(sites) > 0 {
			d.cache.Set(ctx, tenantID, sites)
		}
		return sites, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*store.Site), nil
}

// Lookup returns the tenant's active site with the given id, or nil.
func (d *SiteDirectory) Lookup(ctx context.Context, tenantID, siteID string) (*store.Site, error) {
	sites, err := d.ActiveSites(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, site := range sites {
		if site.ID == siteID {
			return site, nil
		}
	}
	return nil, nil
}

// SiteNames maps site ids to names for display, including sites that have since been deactivated.
func (d *SiteDirectory) SiteNames(ctx context.Context, tenantID string, siteIDs []string) map[string]string {
	names := make(map[string]string, len(siteIDs))
	if sites, err := d.ActiveSites(ctx, tenantID); err == nil {
		for _, site := range sites {
			names[site.ID] = site.Name
		}
	}

	for _, id := range siteIDs {
		if _, ok := names[id]; ok {
			continue
		}
		siteID := id
		site, err := d.store.GetSite(ctx, &store.FindSite{ID: &siteID, TenantID: &tenantID})
		if err != nil || site == nil {
			names[id] = unknownSiteName
			continue
		}
		names[id] = site.Name
	}
	return names
}

// Invalidate drops the cached sites of a tenant.
func (d *SiteDirectory) Invalidate(ctx context.Context, tenantID string) {
	d.cache.Delete(ctx, tenantID)
}

// Close stops the cache sweeper.
func (d *SiteDirectory) Close() error {
	return d.cache.Close()
}
