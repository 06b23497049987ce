package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/rickgao/marketdata/internal/contract"
)

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Render implements render.Renderer.
func (p *Problem) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	return nil
}

func problemFor(err error) *Problem {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, contract.ErrMalformedInput):
		status = http.StatusBadRequest
	case errors.Is(err, contract.ErrNotFound):
		status = http.StatusNotFound
	}
	return &Problem{
		Title:  http.StatusText(status),
		Status: status,
		Detail: err.Error(),
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	_ = render.Render(w, r, problemFor(err))
}
