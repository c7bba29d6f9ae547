package api

import (
	"net/url"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/receitaapp/receita-server/internal/config"
	domainerrors "github.com/receitaapp/receita-server/internal/errors"
	"github.com/receitaapp/receita-server/internal/store"
)

var errInvalidPage = domainerrors.NotFound("Invalid page.")

// ListParams holds the paging parameters shared by list endpoints, and keeps
// the request URL so the envelope can link to neighbouring pages.
type ListParams struct {
	Page     string `query:"page" doc:"1-based page number"`
	PageSize string `query:"page_size" doc:"Results per page (max 100)"`

	self url.URL
}

// Resolve captures the request URL. It implements huma.Resolver.
func (p *ListParams) Resolve(ctx huma.Context) []error {
	p.self = ctx.URL()
	if p.self.Host == "" {
		p.self.Host = ctx.Host()
	}
	if p.self.Scheme == "" {
		p.self.Scheme = "http"
		if ctx.TLS() != nil || ctx.Header("X-Forwarded-Proto") == "https" {
			p.self.Scheme = "https"
		}
	}
	return nil
}

// Query returns the request's query parameters, filters included.
func (p *ListParams) Query() url.Values {
	return p.self.Query()
}

// page turns the parameters into a store.Page. A malformed page number is
// reported like an out-of-range one; a malformed page size falls back to the
// default.
func (p *ListParams) page(defaultSize int) (store.Page, error) {
	page := store.Page{Number: 1, Size: defaultSize}

	if p.Page != "" {
		n, err := strconv.Atoi(p.Page)
		if err != nil || n < 1 {
			return page, errInvalidPage
		}
		page.Number = n
	}

	if p.PageSize != "" {
		if n, err := strconv.Atoi(p.PageSize); err == nil && n > 0 {
			page.Size = min(n, config.MaxPageSize)
		}
	}
	return page, nil
}

// link returns the URL of page n. The first page carries no page parameter.
func (p *ListParams) link(n int) *string {
	u := p.self
	q := u.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// Page is the envelope every list endpoint returns.
type Page[T any] struct {
	Count    int     `json:"count" doc:"Total number of matching results"`
	Next     *string `json:"next" doc:"URL of the next page, null on the last"`
	Previous *string `json:"previous" doc:"URL of the previous page, null on the first"`
	Results  []T     `json:"results"`
}

// newPage wraps one page of store results, converting each with conv.
func newPage[T, U any](p *ListParams, page store.Page, res *store.Result[T], conv func(T) U) Page[U] {
	out := Page[U]{
		Count:   res.Count,
		Results: make([]U, 0, len(res.Items)),
	}
	for _, item := range res.Items {
		out.Results = append(out.Results, conv(item))
	}
	if res.HasNext(page) {
		out.Next = p.link(page.Number + 1)
	}
	if page.Number > 1 {
		out.Previous = p.link(page.Number - 1)
	}
	return out
}
