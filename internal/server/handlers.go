// HTTP handlers of the browse API. They are thin adapters from requests to
// the store, browse and split packages.

package server

import (
	"encoding/json"
	"net/http"

	"github.com/lbassi/jsondb/internal/browse"
	"github.com/lbassi/jsondb/internal/jsonval"
	"github.com/lbassi/jsondb/internal/server/dto"
	"github.com/lbassi/jsondb/internal/store"
)

// Server holds the shared state of the API handlers.
type Server struct {
	// defaultDB is the selector opened when a request carries no db query
	// parameter.
	defaultDB string
	cache     *StoreCache
	version   string
}

// NewServer builds the handler state around a default database selector.
func NewServer(defaultDB, version string) *Server {
	return &Server{defaultDB: defaultDB, cache: NewStoreCache(), version: version}
}

// storeFor resolves the database selector of a request. The db query
// parameter overrides the configured default.
func (s *Server) storeFor(r *http.Request) (store.Store, string, error) {
	selector := r.URL.Query().Get("db")
	if selector == "" {
		selector = s.defaultDB
	}
	st, err := s.cache.GetOrOpen(selector)
	return st, selector, err
}

// Health answers the liveness probe.
func (s *Server) Health(_ *http.Request) (*dto.HealthResponse, error) {
	return &dto.HealthResponse{Status: "ok", Version: s.version}, nil
}

// Tables lists the tables of the selected database.
func (s *Server) Tables(r *http.Request) (*dto.TablesResponse, error) {
	st, selector, err := s.storeFor(r)
	if err != nil {
		return nil, err
	}
	return &dto.TablesResponse{Database: selector, Tables: st.Tables()}, nil
}

// Table lists every document of one table.
func (s *Server) Table(r *http.Request) (*dto.TableResponse, error) {
	st, _, err := s.storeFor(r)
	if err != nil {
		return nil, err
	}
	svc := browse.NewService(st)
	name := r.PathValue("table")
	docs, err := svc.ListDocuments(name)
	if err != nil {
		return nil, err
	}
	out := &dto.TableResponse{Table: name, Documents: []dto.DocumentResponse{}}
	for _, d := range docs {
		out.Documents = append(out.Documents, docResponse(d))
	}
	return out, nil
}

// Document looks one document up by identifier.
func (s *Server) Document(r *http.Request) (*dto.DocumentResponse, error) {
	st, _, err := s.storeFor(r)
	if err != nil {
		return nil, err
	}
	svc := browse.NewService(st)
	doc, err := svc.GetDocument(r.PathValue("table"), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	out := docResponse(doc)
	return &out, nil
}

// Browse resolves a slash-delimited address and returns the full navigation
// state: resolved chain, innermost value, breadcrumb trail and truncation
// leftovers. Lookup misses never fail the request.
func (s *Server) Browse(r *http.Request) (*dto.BrowseResponse, error) {
	st, _, err := s.storeFor(r)
	if err != nil {
		return nil, err
	}
	svc := browse.NewService(st)
	path := r.PathValue("path")
	segments := browse.ParseAddress(path)
	res := svc.Resolve(path)

	out := &dto.BrowseResponse{
		Path:      path,
		Table:     res.Table,
		Truncated: res.Truncated,
		Remaining: res.Remaining,
	}
	if len(segments) == 0 {
		out.Tables = svc.ListTables()
	}
	if res.Collection != nil && res.Root == nil {
		for _, d := range res.Collection.All() {
			out.Documents = append(out.Documents, docResponse(d))
		}
	}
	if res.Root != nil {
		out.DocumentID = res.Root.ID.String()
		out.Document = rawJSON(res.Root.Value)
	}
	for _, n := range res.Chain {
		out.Nodes = append(out.Nodes, dto.NodeResponse{
			Kind:        string(n.Kind),
			Index:       n.Index,
			ArrayField:  n.ArrayField,
			Name:        n.Name,
			FieldKind:   string(n.FieldKind),
			ParentLabel: n.ParentLabel,
			Value:       rawJSON(n.Value),
		})
	}
	if res.Value != nil {
		out.Value = rawJSON(res.Value)
		if res.Value.IsObject() {
			for _, field := range res.Value.ArrayObjectFields() {
				arr, _ := res.Value.Field(field)
				out.SubArrays = append(out.SubArrays, dto.SubArray{Field: field, Count: arr.Len()})
			}
		}
	}
	for _, c := range svc.Breadcrumb(path, res.Root) {
		out.Breadcrumb = append(out.Breadcrumb, dto.CrumbResponse{URL: c.URL, Label: c.Label})
	}
	if index, field, ok := browse.IsArrayItemAddress(segments); ok {
		out.ArrayItem = &dto.ArrayItemInfo{Index: index, Field: field}
	}
	return out, nil
}

// docResponse converts a store document to its response form.
func docResponse(d *store.Document) dto.DocumentResponse {
	return dto.DocumentResponse{ID: d.ID.String(), Document: rawJSON(d.Value)}
}

// rawJSON serializes a value compactly for embedding in a response.
func rawJSON(v *jsonval.Value) json.RawMessage {
	return json.RawMessage(v.JSON(true))
}
