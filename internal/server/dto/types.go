// Package dto defines the JSON response types of the browse API.
package dto

import "encoding/json"

// --- Common Responses ---

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error" jsonschema:"description=Human readable error message"`
}

// HealthResponse is a liveness probe response.
type HealthResponse struct {
	Status  string `json:"status" jsonschema:"description=Always ok when the server is up"`
	Version string `json:"version" jsonschema:"description=Server version string"`
}

// --- Store Responses ---

// TablesResponse lists the tables of the selected database.
type TablesResponse struct {
	Database string   `json:"database" jsonschema:"description=Selector of the database the tables belong to"`
	Tables   []string `json:"tables" jsonschema:"description=Table names in on-disk order"`
}

// DocumentResponse is one document plus its identifier.
type DocumentResponse struct {
	ID       string          `json:"id" jsonschema:"description=Document identifier within its table"`
	Document json.RawMessage `json:"document" jsonschema:"description=The document body"`
}

// TableResponse lists every document of one table.
type TableResponse struct {
	Table     string             `json:"table" jsonschema:"description=Table name"`
	Documents []DocumentResponse `json:"documents" jsonschema:"description=Documents in table order"`
}

// --- Browse Responses ---

// CrumbResponse is one breadcrumb entry. An empty URL marks the current page.
type CrumbResponse struct {
	URL   string `json:"url,omitempty" jsonschema:"description=Link target of the crumb or empty for the current page"`
	Label string `json:"label" jsonschema:"description=Display label of the crumb"`
}

// NodeResponse is one resolved navigation step.
type NodeResponse struct {
	Kind        string          `json:"kind" jsonschema:"description=Either array_element or field_value"`
	Index       int             `json:"index,omitempty" jsonschema:"description=Element index for array_element nodes"`
	ArrayField  string          `json:"array_field,omitempty" jsonschema:"description=Name of the indexed array field for array_element nodes"`
	Name        string          `json:"name,omitempty" jsonschema:"description=Field name for field_value nodes"`
	FieldKind   string          `json:"field_kind,omitempty" jsonschema:"description=Display classification: simple object or array"`
	ParentLabel string          `json:"parent_label,omitempty" jsonschema:"description=Label of the node the field was read from"`
	Value       json.RawMessage `json:"value" jsonschema:"description=The resolved value"`
}

// ArrayItemInfo describes an address whose final segment selects an array
// element rather than a document.
type ArrayItemInfo struct {
	Index int    `json:"index" jsonschema:"description=Selected element index"`
	Field string `json:"field" jsonschema:"description=Array field the index applies to"`
}

// SubArray names an array-of-objects field of the current document.
type SubArray struct {
	Field string `json:"field" jsonschema:"description=Name of the array field"`
	Count int    `json:"count" jsonschema:"description=Number of elements"`
}

// BrowseResponse is the full navigation state for one address.
type BrowseResponse struct {
	Path       string             `json:"path" jsonschema:"description=The address that was resolved"`
	Tables     []string           `json:"tables,omitempty" jsonschema:"description=All table names for the empty address"`
	Table      string             `json:"table,omitempty" jsonschema:"description=Selected table"`
	Documents  []DocumentResponse `json:"documents,omitempty" jsonschema:"description=Table listing when no document is selected"`
	DocumentID string             `json:"document_id,omitempty" jsonschema:"description=Identifier of the resolved root document"`
	Document   json.RawMessage    `json:"document,omitempty" jsonschema:"description=The resolved root document"`
	Nodes      []NodeResponse     `json:"nodes,omitempty" jsonschema:"description=Navigation chain below the root document"`
	Value      json.RawMessage    `json:"value,omitempty" jsonschema:"description=Innermost value reached"`
	Truncated  bool               `json:"truncated" jsonschema:"description=True when navigation stopped before the end of the address"`
	Remaining  []string           `json:"remaining,omitempty" jsonschema:"description=Address segments that did not resolve"`
	Breadcrumb []CrumbResponse    `json:"breadcrumb" jsonschema:"description=Breadcrumb trail for the address"`
	SubArrays  []SubArray         `json:"sub_arrays,omitempty" jsonschema:"description=Array-of-objects fields of the current document"`
	ArrayItem  *ArrayItemInfo     `json:"array_item,omitempty" jsonschema:"description=Set when the trailing segment selects an array element"`
}

// --- Schema Responses ---

// SchemasResponse maps response type names to their JSON Schemas.
type SchemasResponse struct {
	Schemas map[string]json.RawMessage `json:"schemas" jsonschema:"description=JSON Schema per response type"`
}
