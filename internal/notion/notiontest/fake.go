// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notiontest

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/pdiddy/n2y/internal/notion"
)

// Fake is an in-memory stand-in for the Notion API. Ids are matched with
// hyphens removed. Missing objects produce object_not_found errors.
type Fake struct {
	mu            sync.Mutex
	pages         map[string]*notion.Page
	databases     map[string]*notion.Database
	blocks        map[string]notion.Block
	children      map[string][]notion.Block
	rows          map[string][]notion.Page
	propertyItems map[string][]notion.PropertyItem

	// Calls counts requests by method name.
	Calls map[string]int
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		pages:         make(map[string]*notion.Page),
		databases:     make(map[string]*notion.Database),
		blocks:        make(map[string]notion.Block),
		children:      make(map[string][]notion.Block),
		rows:          make(map[string][]notion.Page),
		propertyItems: make(map[string][]notion.PropertyItem),
		Calls:         make(map[string]int),
	}
}

func key(id string) string { return strings.ReplaceAll(id, "-", "") }

// AddPage stores p along with the block that represents its body.
func (f *Fake) AddPage(p *notion.Page, children ...notion.Block) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[key(p.ID)] = p
	root := Block("child_page", map[string]string{"title": ""}, len(children) > 0)
	root.ID = p.ID
	f.blocks[key(p.ID)] = root
	f.children[key(p.ID)] = children
}

// AddDatabase stores d and the pages a query returns.
func (f *Fake) AddDatabase(d *notion.Database, rows ...*notion.Page) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.databases[key(d.ID)] = d
	var list []notion.Page
	for _, r := range rows {
		r.Parent = notion.Parent{Type: "database_id", DatabaseID: d.ID}
		list = append(list, *r)
	}
	f.rows[key(d.ID)] = list
}

// AddChildren sets the children of the block with id parentID.
func (f *Fake) AddChildren(parentID string, children ...notion.Block) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range children {
		if children[i].Parent == nil {
			children[i].Parent = &notion.Parent{Type: "block_id", BlockID: parentID}
		}
		f.blocks[key(children[i].ID)] = children[i]
	}
	f.children[key(parentID)] = children
}

// AddPropertyItems sets the paginated items of one page property.
func (f *Fake) AddPropertyItems(pageID, propertyID string, items ...notion.PropertyItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.propertyItems[key(pageID)+"/"+propertyID] = items
}

func notFound(id string) error {
	return &notion.APIError{
		Status:  http.StatusNotFound,
		Code:    notion.CodeObjectNotFound,
		Message: "Could not find object with ID: " + id + ".",
	}
}

func (f *Fake) count(method string) {
	f.Calls[method]++
}

// GetPage returns the stored page.
func (f *Fake) GetPage(_ context.Context, id string) (*notion.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetPage")
	p, ok := f.pages[key(id)]
	if !ok {
		return nil, notFound(id)
	}
	cp := *p
	return &cp, nil
}

// GetDatabase returns the stored database.
func (f *Fake) GetDatabase(_ context.Context, id string) (*notion.Database, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetDatabase")
	d, ok := f.databases[key(id)]
	if !ok {
		return nil, notFound(id)
	}
	cp := *d
	return &cp, nil
}

// GetBlock returns the stored block.
func (f *Fake) GetBlock(_ context.Context, id string) (*notion.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetBlock")
	b, ok := f.blocks[key(id)]
	if !ok {
		return nil, notFound(id)
	}
	return &b, nil
}

// GetBlockChildren returns the stored children, or none.
func (f *Fake) GetBlockChildren(_ context.Context, id string) ([]notion.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetBlockChildren")
	return append([]notion.Block(nil), f.children[key(id)]...), nil
}

// QueryDatabase returns every stored row; filter and sorts are ignored.
func (f *Fake) QueryDatabase(_ context.Context, id string, _, _ any) ([]notion.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("QueryDatabase")
	if _, ok := f.databases[key(id)]; !ok {
		return nil, notFound(id)
	}
	return append([]notion.Page(nil), f.rows[key(id)]...), nil
}

// GetPagePropertyItems returns the stored property items.
func (f *Fake) GetPagePropertyItems(_ context.Context, pageID, propertyID string) ([]notion.PropertyItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GetPagePropertyItems")
	return append([]notion.PropertyItem(nil), f.propertyItems[key(pageID)+"/"+propertyID]...), nil
}

// Download returns a fixed payload for any url.
func (f *Fake) Download(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Download")
	return []byte("content of " + url), nil
}
