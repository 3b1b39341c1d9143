package service

import (
	"github.com/couchcryptid/hko-rainfall-monitor/internal/domain"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/history"
)

// DataService is the read-only query surface over the collected data. It is
// safe to call concurrently with an updating pipeline.
type DataService struct {
	store *history.Store
}

func New(store *history.Store) *DataService {
	return &DataService{store: store}
}

// Latest returns the most recent snapshot, or false when nothing has been
// collected yet.
func (s *DataService) Latest() (domain.Snapshot, bool) {
	return s.store.Latest()
}

// History returns the entries recorded within the last N hours, oldest
// first. A non-positive window returns everything retained; an oversized one
// is bounded by the store's retention anyway.
func (s *DataService) History(hours int) []domain.HistoryEntry {
	return s.store.Window(hours)
}

// Districts returns the reference coordinate table for Hong Kong's eighteen
// districts, in a fixed order.
func (s *DataService) Districts() []domain.District {
	return domain.DistrictCoordinates()
}

// LookupDistrict maps a rainfall region name onto a district entry.
func (s *DataService) LookupDistrict(region string) (domain.District, bool) {
	return domain.LookupDistrict(region)
}
