package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/docpager/internal/convert"
	"github.com/dgallion1/docpager/internal/doctree"
)

type convertRequest struct {
	Tree json.RawMessage `json:"tree"`
	HTML *string         `json:"html"`
}

// handleConvert turns a tree into markup, or markup into a tree, depending
// on which field the body carries.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", maxErr.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case len(req.Tree) > 0:
		tree, err := doctree.Decode(req.Tree)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"html": convert.ToMarkup(tree)})
	case req.HTML != nil:
		tree, err := convert.FromMarkup(*req.HTML)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		enc, err := doctree.Encode(tree)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]json.RawMessage{"tree": enc})
	default:
		jsonError(w, "body must carry tree or html", http.StatusBadRequest)
	}
}
