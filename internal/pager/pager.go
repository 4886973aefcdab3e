// Package pager walks cursor-paged JSON APIs that link pages through a "next" URL.
package pager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ErrMissingResults is returned when a page document has no "results" list.
var ErrMissingResults = errors.New("page has no results list")

// Fetcher retrieves one JSON document and decodes it into out.
// key identifies the document (page index included) for tracing and caching.
type Fetcher interface {
	FetchJSON(ctx context.Context, url, key string, out any) error
}

// Handler receives every record of every page, in API order.
type Handler interface {
	Handle(record map[string]any)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(record map[string]any)

func (f HandlerFunc) Handle(record map[string]any) { f(record) }

// Page is the envelope of one page of results.
type Page struct {
	Count   int               `json:"count"`
	Next    *string           `json:"next"`
	Results *[]map[string]any `json:"results"`
}

type Pager struct {
	Fetcher Fetcher
}

func New(f Fetcher) *Pager {
	return &Pager{Fetcher: f}
}

// Walk fetches startURL and every page linked from it, handing each record to h.
// keyTemplate is expanded with the 0-based page index in place of "{index}".
// Any fetch or decode failure stops the walk and is returned; pages are never skipped.
func (p *Pager) Walk(ctx context.Context, startURL, keyTemplate string, h Handler) (int, error) {
	url := startURL
	pages := 0
	for url != "" {
		key := PageKey(keyTemplate, pages)

		var page Page
		if err := p.Fetcher.FetchJSON(ctx, url, key, &page); err != nil {
			return pages, fmt.Errorf("page %d (%s): %w", pages, url, err)
		}
		if page.Results == nil {
			return pages, fmt.Errorf("page %d (%s): %w", pages, url, ErrMissingResults)
		}

		slog.Debug("page fetched", "key", key, "results", len(*page.Results), "count", page.Count)
		for _, rec := range *page.Results {
			h.Handle(rec)
		}

		pages++
		url = ""
		if page.Next != nil {
			url = strings.TrimSpace(*page.Next)
		}
	}
	return pages, nil
}

// PageKey expands the "{index}" placeholder of template.
func PageKey(template string, index int) string {
	return strings.ReplaceAll(template, "{index}", strconv.Itoa(index))
}
