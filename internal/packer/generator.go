package packer

import (
	"fmt"
	"strings"

	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/model"
)

// Generator builds packer checklists from booked services.
type Generator struct {
	catalog *Catalog
}

// NewGenerator wraps a catalog.  A nil catalog means the built-in one.
func NewGenerator(c *Catalog) *Generator {
	if c == nil {
		c = DefaultCatalog()
	}
	return &Generator{catalog: c}
}

// Catalog returns the catalog the generator resolves against.
func (g *Generator) Catalog() *Catalog { return g.catalog }

func isLaptopPlaceholder(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "laptop") && strings.Contains(lower, "ipad booth")
}

// isDSLRIpadBooth matches the "Ipad Booth + DSLR" base item.  The no-DSLR
// kiosk of Kande Station does not count.
func isDSLRIpadBooth(text string) bool {
	return strings.Contains(strings.ToLower(text), "ipad booth + dslr")
}

// HasIpadBooth reports whether any booked service is an iPad booth by name,
// or resolves to equipment built on the DSLR iPad booth.
func (g *Generator) HasIpadBooth(services []string, corporate bool) bool {
	for _, s := range services {
		if strings.Contains(strings.ToLower(s), "ipad booth") {
			return true
		}
		res, ok := g.catalog.Resolve(s, corporate)
		if !ok {
			continue
		}
		for _, it := range res.Items {
			if isDSLRIpadBooth(it) {
				return true
			}
		}
	}
	return false
}

// Generate resolves every booked service in booking order and returns the
// de-duplicated equipment list.  An empty result means nothing matched and
// the caller should use DefaultChecklist.
func (g *Generator) Generate(eventType string, services []string) []model.ChecklistItem {
	corporate := IsCorporate(eventType)
	ipad := g.HasIpadBooth(services, corporate)

	items := []model.ChecklistItem{}
	seen := map[string]bool{}
	for _, s := range services {
		res, ok := g.catalog.Resolve(s, corporate)
		if !ok {
			continue
		}
		if res.Link.Fallback() {
			logger.Warn("service matched opposite catalog", map[string]interface{}{
				"service":   s,
				"corporate": corporate,
				"link":      res.Link.String(),
			})
		}
		for _, text := range res.Items {
			if isLaptopPlaceholder(text) && !ipad {
				continue
			}
			key := strings.ToLower(text)
			if seen[key] {
				continue
			}
			seen[key] = true
			items = append(items, model.ChecklistItem{
				ID:            fmt.Sprintf("auto_%d", len(items)),
				Text:          text,
				Required:      true,
				AutoGenerated: true,
				Source:        s,
			})
		}
	}
	return items
}

// Initial returns the first packer list for an event: generated items, or
// the default checklist when no service matched.
func (g *Generator) Initial(eventType string, services []string) []model.ChecklistItem {
	if items := g.Generate(eventType, services); len(items) > 0 {
		return items
	}
	return DefaultChecklist()
}

// Regenerate rebuilds the packer list from services while keeping what
// people did by hand: removed texts stay removed, completion carries over
// by text, and custom or edited items are appended unchanged.
func (g *Generator) Regenerate(eventType string, services []string, existing []model.ChecklistItem, removed []string) []model.ChecklistItem {
	dropped := make(map[string]bool, len(removed))
	for _, r := range removed {
		dropped[strings.ToLower(strings.TrimSpace(r))] = true
	}

	done := map[string]model.ChecklistItem{}
	var preserved []model.ChecklistItem
	keep := map[string]bool{}
	for _, it := range existing {
		key := strings.ToLower(it.Text)
		if it.Custom || it.Edited {
			preserved = append(preserved, it)
			keep[key] = true
			continue
		}
		if it.Completed {
			if _, ok := done[key]; !ok {
				done[key] = it
			}
		}
	}

	out := []model.ChecklistItem{}
	for _, it := range g.Generate(eventType, services) {
		key := strings.ToLower(it.Text)
		if dropped[key] || keep[key] {
			continue
		}
		if prev, ok := done[key]; ok {
			it.Completed = true
			it.CompletedBy = prev.CompletedBy
			it.CompletedAt = prev.CompletedAt
		}
		out = append(out, it)
	}
	return append(out, preserved...)
}
