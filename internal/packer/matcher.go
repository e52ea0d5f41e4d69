package packer

import (
	"regexp"
	"strings"
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases a service name, strips punctuation and collapses
// whitespace.
func Normalize(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Strategy tries to match a normalized booked name against one table.
type Strategy func(name string, t Table) ([]string, bool)

// Strategies are tried in order over the whole table; the first hit wins.
// Each strategy scans every entry before the next one runs, so an exact entry
// later in the table beats a containment hit on an earlier entry: a booked
// "Step and Repeat Backdrop 12x10 ft" resolves to its own entry, not to the
// shorter "Step and Repeat Backdrop" listed before it.
var Strategies = []Strategy{ExactMatch, ContainsMatch, SpecialCaseMatch}

// ExactMatch matches when the normalized names are equal.
func ExactMatch(name string, t Table) ([]string, bool) {
	for _, e := range t {
		if Normalize(e.Service) == name {
			return e.Items, true
		}
	}
	return nil, false
}

// ContainsMatch matches when either normalized name contains the other.
func ContainsMatch(name string, t Table) ([]string, bool) {
	for _, e := range t {
		key := Normalize(e.Service)
		if key == "" {
			continue
		}
		if strings.Contains(name, key) || strings.Contains(key, name) {
			return e.Items, true
		}
	}
	return nil, false
}

type specialCase struct {
	trigger string // substring of the booked name
	key     string // substring of the catalog key
}

var specialCases = []specialCase{
	{trigger: "ai photo booth", key: "ai photo booth"},
	{trigger: "360", key: "360 booth"},
	{trigger: "kande station", key: "kande station"},
}

// SpecialCaseMatch covers booked names that carry extra words around a
// known product, for example "360 Spin Experience" → "360 Booth".
func SpecialCaseMatch(name string, t Table) ([]string, bool) {
	for _, sc := range specialCases {
		if !strings.Contains(name, sc.trigger) {
			continue
		}
		for _, e := range t {
			if strings.Contains(Normalize(e.Service), sc.key) {
				return e.Items, true
			}
		}
	}
	return nil, false
}

// Match runs the strategies against the table.  An empty normalized name
// never matches.
func (t Table) Match(service string) ([]string, bool) {
	name := Normalize(service)
	if name == "" {
		return nil, false
	}
	for _, s := range Strategies {
		if items, ok := s(name, t); ok {
			return items, true
		}
	}
	return nil, false
}

// Link identifies which table of the resolution chain produced a match.
type Link int

const (
	NoMatch Link = iota
	PrimaryServices
	PrimaryAddons
	FallbackServices
	FallbackAddons
)

func (l Link) String() string {
	switch l {
	case PrimaryServices:
		return "primary_services"
	case PrimaryAddons:
		return "primary_addons"
	case FallbackServices:
		return "fallback_services"
	case FallbackAddons:
		return "fallback_addons"
	}
	return "none"
}

// Fallback reports whether the match came from the opposite catalog.
func (l Link) Fallback() bool { return l == FallbackServices || l == FallbackAddons }

// Resolution is the outcome of resolving one booked service.
type Resolution struct {
	Service string
	Items   []string
	Link    Link
}

type chainLink struct {
	link  Link
	table Table
}

func (c *Catalog) chain(corporate bool) []chainLink {
	primary, opposite := c.tier(corporate), c.tier(!corporate)
	return []chainLink{
		{PrimaryServices, primary.Services},
		{PrimaryAddons, primary.Addons},
		{FallbackServices, opposite.Services},
		{FallbackAddons, opposite.Addons},
	}
}

// Resolve walks primary services, primary add-ons, then the opposite tier's
// services and add-ons.  ok is false when nothing matched; that is not an
// error.
func (c *Catalog) Resolve(service string, corporate bool) (Resolution, bool) {
	for _, cl := range c.chain(corporate) {
		if items, ok := cl.table.Match(service); ok {
			return Resolution{Service: service, Items: items, Link: cl.link}, true
		}
	}
	return Resolution{Service: service, Link: NoMatch}, false
}
