// Package packer turns booked services into packing checklists.  A Catalog
// maps service names to the equipment they need; the matcher resolves a
// free-text booked name against it and the generator assembles the list.
package packer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Entry maps one canonical service name to its equipment, in packing order.
type Entry struct {
	Service string
	Items   []string
}

// Table is an ordered service → equipment mapping.  Order matters because
// containment matching returns the first entry that fits, so the JSON form
// is an object whose key order is kept on decode and encode.
type Table []Entry

// Lookup returns the items of the entry with exactly this name.
func (t Table) Lookup(service string) ([]string, bool) {
	for _, e := range t {
		if e.Service == service {
			return e.Items, true
		}
	}
	return nil, false
}

// MarshalJSON writes the table as an object in table order.
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Service)
		if err != nil {
			return nil, err
		}
		items := e.Items
		if items == nil {
			items = []string{}
		}
		v, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping key order.  A repeated key replaces
// the earlier value in place.
func (t *Table) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog table: expected object, got %v", tok)
	}
	out := Table{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog table: expected key, got %v", tok)
		}
		var items []string
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("catalog table %q: %w", key, err)
		}
		if i, seen := index[key]; seen {
			out[i].Items = items
			continue
		}
		index[key] = len(out)
		out = append(out, Entry{Service: key, Items: items})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

// Tier is one catalog: base services plus add-ons.
type Tier struct {
	Services Table `json:"services"`
	Addons   Table `json:"addons"`
}

// Catalog holds the corporate and non-corporate tiers.
type Catalog struct {
	Corporate    Tier `json:"corporate"`
	NonCorporate Tier `json:"nonCorporate"`
}

// Clone copies the catalog so callers can hold it without sharing slices.
func (c *Catalog) Clone() *Catalog {
	cp := func(t Table) Table {
		out := make(Table, len(t))
		for i, e := range t {
			out[i] = Entry{Service: e.Service, Items: append([]string(nil), e.Items...)}
		}
		return out
	}
	return &Catalog{
		Corporate:    Tier{Services: cp(c.Corporate.Services), Addons: cp(c.Corporate.Addons)},
		NonCorporate: Tier{Services: cp(c.NonCorporate.Services), Addons: cp(c.NonCorporate.Addons)},
	}
}

// tier picks the corporate or non-corporate tier.
func (c *Catalog) tier(corporate bool) Tier {
	if corporate {
		return c.Corporate
	}
	return c.NonCorporate
}

var corporateMarkers = []string{"corporate brand activation", "brand marketing"}

// IsCorporate classifies an event type.  Corporate events use the corporate
// catalog first.
func IsCorporate(eventType string) bool {
	lower := strings.ToLower(eventType)
	for _, m := range corporateMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
