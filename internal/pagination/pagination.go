// Package pagination lays out page buttons for client-side paged lists.
package pagination

import (
	"bytes"
	"html/template"
	"log/slog"
)

type ItemKind int

const (
	Prev ItemKind = iota
	Page
	Ellipsis
	Next
)

type Item struct {
	Kind   ItemKind
	Page   int
	Active bool
}

type Layout struct {
	TotalPages int
	Current    int
	Items      []Item
}

func (l Layout) Empty() bool {
	return len(l.Items) == 0
}

// TotalPages is ceil(total/perPage); 0 when perPage is not positive.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Build returns the buttons for current out of ceil(total/perPage) pages:
// prev, the first and last page, pages within two of current, a single
// ellipsis at exactly current±3 when that page is not shown, and next.
// A single page (or none) yields an empty layout.
func Build(total, perPage, current int) Layout {
	pages := TotalPages(total, perPage)
	if pages <= 1 {
		return Layout{TotalPages: pages, Current: current}
	}

	var items []Item
	if current > 1 {
		items = append(items, Item{Kind: Prev, Page: current - 1})
	}
	for i := 1; i <= pages; i++ {
		switch {
		case i == 1 || i == pages || (i >= current-2 && i <= current+2):
			items = append(items, Item{Kind: Page, Page: i, Active: i == current})
		case i == current-3 || i == current+3:
			items = append(items, Item{Kind: Ellipsis})
		}
	}
	if current < pages {
		items = append(items, Item{Kind: Next, Page: current + 1})
	}
	return Layout{TotalPages: pages, Current: current, Items: items}
}

// Clamp keeps page inside [1, pages].
func Clamp(page, pages int) int {
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Slice returns the items of page (1-based).
func Slice[T any](items []T, perPage, page int) []T {
	if perPage <= 0 || page < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}

var navTmpl = template.Must(template.New("pagination").Parse(
	`<nav class="pagination">{{range .Items}}` +
		`{{if eq .Kind 2}}<span class="pagination-ellipsis">...</span>` +
		`{{else}}<a class="btn btn-sm {{if .Active}}btn-primary{{else}}btn-ghost{{end}}" href="{{call $.Href .Page}}" hx-boost="true">` +
		`{{if eq .Kind 0}}‹{{else if eq .Kind 3}}›{{else}}{{.Page}}{{end}}</a>{{end}}` +
		`{{end}}</nav>`))

// Render emits the nav element, or nothing for an empty layout. href maps a
// page number to the link that loads it.
func Render(l Layout, href func(page int) string) template.HTML {
	if l.Empty() {
		return ""
	}
	var buf bytes.Buffer
	err := navTmpl.Execute(&buf, struct {
		Items []Item
		Href  func(int) string
	}{l.Items, href})
	if err != nil {
		slog.Error("failed to render pagination", "err", err)
		return ""
	}
	return template.HTML(buf.String())
}
