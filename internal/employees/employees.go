// Package employees reads the employee directory from the Dataverse table
// cr6df_sgsw_mitarbeitende. The directory changes rarely, so list results
// are held in a short-lived in-process cache.
package employees

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog"

	"github.com/sgsw/ideenboard/internal/dataverse"
)

// EntitySet is the plural OData entity set name.
const EntitySet = "cr6df_sgsw_mitarbeitendes"

const cacheKey = "employees"

// Employee mirrors a row of the employee table.
type Employee struct {
	ID        string `json:"cr6df_sgsw_mitarbeitendeid,omitempty"`
	FirstName string `json:"cr6df_vorname,omitempty"`
	LastName  string `json:"cr6df_nachname,omitempty"`
	Email     string `json:"cr6df_email,omitempty"`
}

// Service exposes the employee directory.
type Service struct {
	client *dataverse.Client
	cache  *ttlcache.Cache[string, []Employee]
	logger zerolog.Logger
}

func NewService(client *dataverse.Client, ttl time.Duration, logger zerolog.Logger) *Service {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []Employee](ttl),
		ttlcache.WithDisableTouchOnHit[string, []Employee](),
	)
	go cache.Start()
	return &Service{client: client, cache: cache, logger: logger}
}

// List returns all employees sorted by last name, served from the cache
// when a fresh entry exists.
func (s *Service) List(ctx context.Context) ([]Employee, error) {
	if item := s.cache.Get(cacheKey); item != nil {
		return item.Value(), nil
	}

	records, err := dataverse.List[Employee](ctx, s.client, EntitySet, dataverse.Query{
		Select:  []string{"cr6df_sgsw_mitarbeitendeid", "cr6df_vorname", "cr6df_nachname", "cr6df_email"},
		OrderBy: "cr6df_nachname asc",
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, records, ttlcache.DefaultTTL)
	s.logger.Debug().Int("count", len(records)).Msg("employee directory refreshed")
	return records, nil
}

// Invalidate drops the cached directory so the next List hits the API.
func (s *Service) Invalidate() {
	s.cache.Delete(cacheKey)
}

// Close stops the cache janitor.
func (s *Service) Close() {
	s.cache.Stop()
}
