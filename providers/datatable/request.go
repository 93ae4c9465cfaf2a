package datatable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Order struct {
	Column int
	Desc   bool
}

// Request holds the grid parameters of one ajax call.
type Request struct {
	Draw    int
	Start   int
	Length  int
	Order   []Order
	Search  string
	Filters map[string]string
}

// ParseRequest reads the grid parameters posted by the client. Filter
// values are read from the inputs declared in filters as well as from the
// per column search fields, and are keyed by column name. The page length
// is kept within MaxLength; a request for all rows (-1) gets MaxLength.
func ParseRequest(c *fiber.Ctx, columns []Column, filters []Filter) Request {
	req := Request{
		Draw:    atoi(c.FormValue("draw"), 0),
		Start:   atoi(c.FormValue("start"), 0),
		Length:  atoi(c.FormValue("length"), DefaultLength),
		Search:  c.FormValue("search[value]"),
		Filters: make(map[string]string),
	}
	if req.Start < 0 {
		req.Start = 0
	}
	switch {
	case req.Length == -1 || req.Length > MaxLength:
		req.Length = MaxLength
	case req.Length <= 0:
		req.Length = DefaultLength
	}

	for i := range columns {
		v := c.FormValue(fmt.Sprintf("columns[%d][search][value]", i))
		if v != "" {
			req.Filters[columns[i].Name] = v
		}
	}
	for _, f := range filters {
		if f.Column < 0 || f.Column >= len(columns) {
			continue
		}
		if v := c.FormValue(f.Name); v != "" {
			req.Filters[columns[f.Column].Name] = v
		}
	}

	for i := 0; i < len(columns); i++ {
		raw := c.FormValue(fmt.Sprintf("order[%d][column]", i))
		if raw == "" {
			break
		}
		idx, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		dir := strings.ToLower(c.FormValue(fmt.Sprintf("order[%d][dir]", i)))
		req.Order = append(req.Order, Order{Column: idx, Desc: dir == "desc"})
	}
	return req
}

func atoi(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}
