package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/streamlineer/streamlineer/core"
)

const orderingParam = "ordering"

// Ordering binds the "ordering" query param: a comma-separated field list
// where a leading "-" flips a field to descending, e.g. ?ordering=-created_at,email.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	raw := ctx.QueryParam(orderingParam)
	if raw == "" {
		return
	}

	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:]
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}
