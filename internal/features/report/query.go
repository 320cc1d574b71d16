package report

import (
	"fmt"
	"sync"

	"go-reports/internal/connectors"
)

// BuildRequest combines page state, search and sort into the uniform request
// descriptor for the active provider. Pure function of its inputs. Returns
// nil when the configuration lacks a fully specified source; no request
// should be issued in that case.
func BuildRequest(cfg *ReportConfig, page, pageSize int, searchTerm, sortColumn string, sortOrder SortOrder) *connectors.PageRequest {
	if cfg == nil || !cfg.Source().Complete() {
		return nil
	}

	if page < 1 {
		page = 1
	}
	order := "asc"
	if sortOrder == SortDesc {
		order = "desc"
	}

	return &connectors.PageRequest{
		Page:       page,
		PageSize:   pageSize,
		SearchTerm: searchTerm,
		SortBy:     sortColumn,
		SortOrder:  order,
		Columns:    cfg.Columns.Visible(),
	}
}

// RequestKey identifies a (source, request) pair. Responses are keyed by it
// so out-of-order resolutions can be matched to the parameters that produced
// them.
type RequestKey string

// KeyFor derives the key for a request against a source
func KeyFor(src connectors.Source, req *connectors.PageRequest) RequestKey {
	if req == nil {
		return ""
	}
	return RequestKey(fmt.Sprintf("%s#%d#%d#%s#%s#%s",
		src.CacheKey(), req.Page, req.PageSize, req.SearchTerm, req.SortBy, req.SortOrder))
}

// RequestMemo returns the identical descriptor while the input tuple is
// unchanged, so callers comparing by reference skip re-issuing the fetch.
type RequestMemo struct {
	mu   sync.Mutex
	key  RequestKey
	last *connectors.PageRequest
}

func (m *RequestMemo) Build(cfg *ReportConfig, page, pageSize int, searchTerm, sortColumn string, sortOrder SortOrder) *connectors.PageRequest {
	req := BuildRequest(cfg, page, pageSize, searchTerm, sortColumn, sortOrder)
	if req == nil {
		return nil
	}

	key := KeyFor(cfg.Source(), req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if key == m.key && m.last != nil {
		return m.last
	}
	m.key = key
	m.last = req
	return req
}

// Pager owns the pagination state machine: the page resets to 1 whenever the
// search term, sort column, sort order or active source changes; otherwise
// it moves only by explicit navigation. Callers clamp to [1, totalPages].
type Pager struct {
	page       int
	searchTerm string
	sortColumn string
	sortOrder  SortOrder
	sourceKey  string
}

func NewPager() *Pager {
	return &Pager{page: 1}
}

// Observe records the current fetch inputs and resets the page when any of
// them changed since the last call.
func (p *Pager) Observe(src connectors.Source, searchTerm, sortColumn string, sortOrder SortOrder) {
	key := src.CacheKey()
	if searchTerm != p.searchTerm || sortColumn != p.sortColumn || sortOrder != p.sortOrder || key != p.sourceKey {
		p.page = 1
	}
	p.searchTerm = searchTerm
	p.sortColumn = sortColumn
	p.sortOrder = sortOrder
	p.sourceKey = key
}

// SetPage records explicit user navigation
func (p *Pager) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	p.page = page
}

func (p *Pager) Page() int {
	if p.page < 1 {
		return 1
	}
	return p.page
}

// LatestWins implements last-request-wins supersession: a new Issue makes
// every earlier key stale, and Accept reports whether a resolved response
// still matches the newest request.
type LatestWins struct {
	mu     sync.Mutex
	latest RequestKey
}

func (l *LatestWins) Issue(key RequestKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latest = key
}

func (l *LatestWins) Accept(key RequestKey) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return key == l.latest
}
