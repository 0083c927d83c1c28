// Breadcrumb trails mirror an address for display: the URL prefix keeps
// every segment, while "doc" and "field" are label-suppressed.

package browse

import (
	"strings"

	"github.com/lbassi/jsondb/internal/store"
)

// Crumb is one breadcrumb entry. An empty URL marks the current page.
type Crumb struct {
	URL   string `json:"url,omitempty"`
	Label string `json:"label"`
}

// Breadcrumb derives the (url, label) trail for a path. The resolved root
// document, when present, labels the segment following "doc" with its
// "nome" field. The final segment carries no URL.
func Breadcrumb(path string, root *store.Document) []Crumb {
	crumbs := []Crumb{{URL: "/", Label: "Home"}}
	segments := ParseAddress(path)

	var prefix []string
	for i, seg := range segments {
		prefix = append(prefix, seg)

		// doc and field contribute to the URL but get no entry of their own.
		if seg == "doc" || seg == "field" {
			continue
		}

		label := seg
		if i >= 2 && segments[i-1] == "doc" {
			if root != nil {
				if nome, ok := root.Value.StringField("nome"); ok {
					label = nome
				} else {
					label = "#" + seg
				}
			} else {
				label = "#" + seg
			}
		}

		url := ""
		if i != len(segments)-1 {
			url = "/browse/" + strings.Join(prefix, "/")
		}
		crumbs = append(crumbs, Crumb{URL: url, Label: label})
	}
	return crumbs
}
