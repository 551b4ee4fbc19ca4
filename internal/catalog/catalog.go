// Package catalog holds the immutable product catalog and its loader.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	pkgerrors "github.com/fusionwear/storefront/pkg/errors"
)

// Catalog is the read-only product set for a session.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// Rejection describes a catalog record that was dropped while decoding.
type Rejection struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// New builds a catalog from products, dropping invalid records and repeated
// ids. The first occurrence of an id wins.
func New(products []Product) (*Catalog, []Rejection) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	var rejected []Rejection
	for i, p := range products {
		if err := p.Validate(); err != nil {
			rejected = append(rejected, Rejection{Index: i, ID: p.ID, Reason: err.Error()})
			continue
		}
		if _, dup := c.byID[p.ID]; dup {
			rejected = append(rejected, Rejection{Index: i, ID: p.ID, Reason: "duplicate id"})
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, rejected
}

// Decode reads a JSON array of product records. Records are decoded one by
// one so a malformed entry only rejects itself.
func Decode(r io.Reader) (*Catalog, []Rejection, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog")
	}

	products := make([]Product, 0, len(raw))
	indexes := make([]int, 0, len(raw))
	var rejected []Rejection
	for i, msg := range raw {
		var p Product
		if err := json.Unmarshal(bytes.TrimSpace(msg), &p); err != nil {
			rejected = append(rejected, Rejection{Index: i, Reason: fmt.Sprintf("malformed record: %v", err)})
			continue
		}
		products = append(products, p)
		indexes = append(indexes, i)
	}

	c, more := New(products)
	for _, rej := range more {
		rej.Index = indexes[rej.Index]
		rejected = append(rejected, rej)
	}
	return c, rejected, nil
}

// Products returns the catalog in source order.
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// FindByID looks a product up by id.
func (c *Catalog) FindByID(id string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// Index returns the source position of id, or -1.
func (c *Catalog) Index(id string) int {
	if c == nil {
		return -1
	}
	if idx, ok := c.byID[id]; ok {
		return idx
	}
	return -1
}

// Collections lists the distinct collection names in first-seen order.
func (c *Catalog) Collections() []string {
	if c == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, p := range c.products {
		if p.Collection == "" {
			continue
		}
		if _, ok := seen[p.Collection]; ok {
			continue
		}
		seen[p.Collection] = struct{}{}
		out = append(out, p.Collection)
	}
	return out
}

// Resolve maps ids through the catalog in order. Unknown ids are skipped.
func (c *Catalog) Resolve(ids []string) []Product {
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.FindByID(id); ok {
			out = append(out, p)
		}
	}
	return out
}
