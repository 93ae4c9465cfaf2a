// Package datatable is a server side engine for ajax grids. It applies the
// filter, search, order and paging parameters of a grid request to a gorm
// query and maps the resulting records to typed rows.
package datatable

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultLength = 10
	// MaxLength caps the page size a client may ask for.
	MaxLength  = 100
	escapeChar = "!"
)

// Column declares one grid column. Only searchable and orderable columns
// ever reach the SQL built by the engine.
type Column struct {
	Data       string `json:"data"`
	Name       string `json:"name"`
	Searchable bool   `json:"searchable"`
	Orderable  bool   `json:"orderable"`
}

// Heading is the title and relative width of a visible column.
type Heading struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Width string `json:"width"`
}

// Filter is a free text input bound to the column at index Column.
type Filter struct {
	Column      int    `json:"column"`
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
}

// GroupAction is one entry of the bulk action menu.
type GroupAction struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ActionLink is a per row action rendered by the view layer.
type ActionLink struct {
	Label   string `json:"label"`
	Href    string `json:"href"`
	Method  string `json:"method"`
	Confirm string `json:"confirm,omitempty"`
	Class   string `json:"class,omitempty"`
}

// View is everything the page shell needs to draw the grid.
type View struct {
	AjaxURL      string        `json:"ajaxUrl"`
	Method       string        `json:"method"`
	Columns      []Column      `json:"columns"`
	Headings     []Heading     `json:"headings"`
	Filters      []Filter      `json:"filters"`
	GroupActions []GroupAction `json:"groupActions"`
	PageLengths  []int         `json:"pageLengths"`
}

// PageLengths are the page sizes offered by the grid pager.
var PageLengths = []int{DefaultLength, 25, 50, MaxLength}

// Response is the json payload of the ajax endpoint.
type Response[R any] struct {
	Draw                int    `json:"draw"`
	RecordsTotal        int64  `json:"recordsTotal"`
	RecordsFiltered     int64  `json:"recordsFiltered"`
	Data                []R    `json:"data"`
	CustomActionMessage string `json:"customActionMessage,omitempty"`
	CustomActionStatus  string `json:"customActionStatus,omitempty"`
}

// With merges the outcome of a group action into the response.
func (r *Response[R]) With(result GroupActionResult) *Response[R] {
	r.CustomActionMessage = result.Message
	r.CustomActionStatus = result.Status
	return r
}

// GroupActionResult is the status of a bulk action, empty when none ran.
type GroupActionResult struct {
	Message string
	Status  string
}

type Engine[T any, R any] struct {
	query   *gorm.DB
	columns []Column
	mapper  func(T) R
	order   clause.OrderByColumn
}

// Of builds an engine over query. Records are scanned into T.
func Of[T any, R any](query *gorm.DB, columns []Column) *Engine[T, R] {
	return &Engine[T, R]{
		query:   query,
		columns: columns,
		order:   clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true},
	}
}

// Map sets how a record becomes a row.
func (e *Engine[T, R]) Map(fn func(T) R) *Engine[T, R] {
	e.mapper = fn
	return e
}

// DefaultOrder is used when the request carries no usable order.
func (e *Engine[T, R]) DefaultOrder(column string, desc bool) *Engine[T, R] {
	e.order = clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
	return e
}

func (e *Engine[T, R]) Make(ctx context.Context, req Request) (*Response[R], error) {
	resp := &Response[R]{Draw: req.Draw, Data: []R{}}

	if err := e.base(ctx).Count(&resp.RecordsTotal).Error; err != nil {
		return nil, err
	}

	filtered := e.filter(e.base(ctx), req)
	if err := filtered.Count(&resp.RecordsFiltered).Error; err != nil {
		return nil, err
	}

	q := e.filter(e.base(ctx), req)
	q = q.Order(e.orderFor(req))
	if req.Start > 0 {
		q = q.Offset(req.Start)
	}
	if req.Length >= 0 {
		q = q.Limit(req.Length)
	}

	var records []T
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}

	for _, rec := range records {
		if e.mapper == nil {
			if row, ok := any(rec).(R); ok {
				resp.Data = append(resp.Data, row)
			}
			continue
		}
		resp.Data = append(resp.Data, e.mapper(rec))
	}
	return resp, nil
}

func (e *Engine[T, R]) base(ctx context.Context) *gorm.DB {
	return e.query.Session(&gorm.Session{}).WithContext(ctx)
}

func (e *Engine[T, R]) filter(q *gorm.DB, req Request) *gorm.DB {
	for name, value := range req.Filters {
		col, ok := e.searchable(name)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		q = q.Where(likeExpr(col.Name), likePattern(value))
	}

	if term := strings.TrimSpace(req.Search); term != "" {
		var or *gorm.DB
		pattern := likePattern(term)
		for _, col := range e.columns {
			if !col.Searchable {
				continue
			}
			if or == nil {
				or = e.query.Session(&gorm.Session{NewDB: true}).Where(likeExpr(col.Name), pattern)
				continue
			}
			or = or.Or(likeExpr(col.Name), pattern)
		}
		if or != nil {
			q = q.Where(or)
		}
	}
	return q
}

func (e *Engine[T, R]) searchable(name string) (Column, bool) {
	for _, col := range e.columns {
		if col.Name == name && col.Searchable {
			return col, true
		}
	}
	return Column{}, false
}

func (e *Engine[T, R]) orderFor(req Request) clause.OrderByColumn {
	for _, o := range req.Order {
		if o.Column < 0 || o.Column >= len(e.columns) {
			continue
		}
		col := e.columns[o.Column]
		if !col.Orderable {
			continue
		}
		return clause.OrderByColumn{Column: clause.Column{Name: col.Name}, Desc: o.Desc}
	}
	return e.order
}

// likeExpr quotes nothing itself; column names only come from declared
// columns, never from the request.
func likeExpr(column string) string {
	return "LOWER(" + column + ") LIKE LOWER(?) ESCAPE '" + escapeChar + "'"
}

func likePattern(value string) string {
	r := strings.NewReplacer(escapeChar, escapeChar+escapeChar, "%", escapeChar+"%", "_", escapeChar+"_")
	return "%" + r.Replace(strings.TrimSpace(value)) + "%"
}
