package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type Page struct {
	Limit  int
	Offset int
}

// parsePage reads limit and offset from the query string.
func parsePage(r *http.Request) (Page, []FieldError) {
	p := Page{Limit: defaultPageLimit}
	var errs []FieldError

	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageLimit {
			errs = append(errs, FieldError{Field: "limit", Message: "must be between 1 and 100"})
		} else {
			p.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, FieldError{Field: "offset", Message: "must be zero or greater"})
		} else {
			p.Offset = n
		}
	}
	return p, errs
}

func idFromPath(r *http.Request) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}
