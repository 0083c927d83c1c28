// Service is the programmatic surface the browsing core exposes to its
// collaborators (the HTTP layer, CLIs). It operates on an explicit store
// handle.

package browse

import (
	"github.com/lbassi/jsondb/internal/store"
)

// Service bundles listing, navigation and breadcrumb building over one
// store handle.
type Service struct {
	st store.Store
}

// NewService wraps a store handle.
func NewService(st store.Store) *Service {
	return &Service{st: st}
}

// ListTables returns the table names in store order.
func (s *Service) ListTables() []string {
	return s.st.Tables()
}

// ListDocuments returns every document of a table.
func (s *Service) ListDocuments(table string) ([]*store.Document, error) {
	coll, err := s.st.Table(table)
	if err != nil {
		return nil, err
	}
	return coll.All(), nil
}

// GetDocument looks one document up by identifier.
func (s *Service) GetDocument(table, id string) (*store.Document, error) {
	coll, err := s.st.Table(table)
	if err != nil {
		return nil, err
	}
	return coll.Get(id)
}

// Resolve navigates a full slash-delimited address, starting at the table
// segment.
func (s *Service) Resolve(path string) *Resolution {
	return Resolve(s.st, ParseAddress(path))
}

// Breadcrumb renders the trail for a path against its resolved root.
func (s *Service) Breadcrumb(path string, root *store.Document) []Crumb {
	return Breadcrumb(path, root)
}
