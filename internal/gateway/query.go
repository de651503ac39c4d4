package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Query builds one table request: GET /rest/v1/<table>?select=..&col=eq.v..
type Query struct {
	c     *Client
	table string
	q     url.Values
}

func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, q: url.Values{}}
}

func (q *Query) Select(cols string) *Query {
	q.q.Set("select", cols)
	return q
}

func (q *Query) Eq(col, v string) *Query {
	q.q.Add(col, "eq."+v)
	return q
}

func (q *Query) Gte(col string, v float64) *Query {
	q.q.Add(col, "gte."+strconv.FormatFloat(v, 'f', -1, 64))
	return q
}

func (q *Query) Order(col string, asc bool) *Query {
	dir := ".desc"
	if asc {
		dir = ".asc"
	}
	if prev := q.q.Get("order"); prev != "" {
		q.q.Set("order", prev+","+col+dir)
	} else {
		q.q.Set("order", col+dir)
	}
	return q
}

func (q *Query) Limit(n int) *Query {
	q.q.Set("limit", strconv.Itoa(n))
	return q
}

func (q *Query) path() string { return "/rest/v1/" + q.table }

// Get decodes the matching rows into out, a pointer to a slice.
func (q *Query) Get(ctx context.Context, out any) error {
	resp, err := q.c.Do(ctx, http.MethodGet, q.path(), q.q, nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// Insert posts rows (a struct, map or slice). When out is non-nil the
// created rows are decoded into it.
func (q *Query) Insert(ctx context.Context, rows, out any) error {
	h := http.Header{}
	if out != nil {
		h.Set("Prefer", "return=representation")
	} else {
		h.Set("Prefer", "return=minimal")
	}
	resp, err := q.c.Do(ctx, http.MethodPost, q.path(), q.q, h, rows)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

// Upsert inserts rows, merging into existing ones that collide on onConflict.
func (q *Query) Upsert(ctx context.Context, rows any, onConflict string) error {
	q.q.Set("on_conflict", onConflict)
	h := http.Header{}
	h.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	resp, err := q.c.Do(ctx, http.MethodPost, q.path(), q.q, h, rows)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil)
}

// Update patches the filtered rows and reports how many were changed.
func (q *Query) Update(ctx context.Context, patch any) (int, error) {
	h := http.Header{}
	h.Set("Prefer", "return=representation")
	q.q.Set("select", "id")
	resp, err := q.c.Do(ctx, http.MethodPatch, q.path(), q.q, h, patch)
	if err != nil {
		return 0, err
	}
	var rows []struct{}
	if err := decodeJSON(resp, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (q *Query) Delete(ctx context.Context) error {
	resp, err := q.c.Do(ctx, http.MethodDelete, q.path(), q.q, nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil)
}
