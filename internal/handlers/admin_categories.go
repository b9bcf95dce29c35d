// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"cheonwon/internal/catalog"
	"cheonwon/internal/category"
	"cheonwon/internal/models"
)

// Change log listing limits.
const (
	defaultChangeLimit = 50
	maxChangeLimit     = 200
)

type createCategoryRequest struct {
	ParentPathIDs []string `json:"parentPathIds"`
	Name          string   `json:"name"`
}

type renameCategoryRequest struct {
	Name string `json:"name"`
}

type resolveResponse struct {
	PathIDs   []string `json:"pathIds"`
	PathNames []string `json:"pathNames"`
}

// writeCategoryError maps category and catalog errors to HTTP responses.
func writeCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, category.ErrEmptyName), errors.Is(err, category.ErrDepthExceeded):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, category.ErrDuplicateName):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, category.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, category.ErrHasChildren):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Reason: "has_children"})
	case errors.Is(err, category.ErrInUse):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Reason: "in_use"})
	case errors.Is(err, catalog.ErrPersist):
		writePersistError(w, err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// CategoriesList returns the flattened category table with usage counts.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.catalog.Rows())
}

// CategoriesTree returns the nested category tree.
func (a *Admin) CategoriesTree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.catalog.Tree())
}

// CategoryCreate adds a category under the given parent path.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	name := sanitizeText(req.Name)
	if errMsg := validateCategoryName(name); errMsg != "" {
		writeError(w, http.StatusUnprocessableEntity, errMsg)
		return
	}

	node, err := a.catalog.Add(r.Context(), req.ParentPathIDs, name)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, node)
}

// CategoryRename renames a category and reports how many products were
// moved along with it.
func (a *Admin) CategoryRename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req renameCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	name := sanitizeText(req.Name)
	if errMsg := validateCategoryName(name); errMsg != "" {
		writeError(w, http.StatusUnprocessableEntity, errMsg)
		return
	}

	out, err := a.catalog.Rename(r.Context(), id, name)
	if err != nil {
		writeCategoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CategoryDelete removes a leaf category that no product uses.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeCategoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CategoryPicker returns the cascading picker columns. The selection comes
// from ?ids=a,b,c when present and from ?value= otherwise.
func (a *Admin) CategoryPicker(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if ids := q.Get("ids"); ids != "" {
		writeJSON(w, http.StatusOK, a.catalog.PickerForIDs(strings.Split(ids, ",")))
		return
	}
	writeJSON(w, http.StatusOK, a.catalog.Picker(q.Get("value")))
}

// CategoryResolve maps a stored category value to its id and name chains.
func (a *Admin) CategoryResolve(w http.ResponseWriter, r *http.Request) {
	ids, names := a.catalog.Resolve(r.URL.Query().Get("value"))
	writeJSON(w, http.StatusOK, resolveResponse{PathIDs: ids, PathNames: names})
}

// CategoryChanges lists recent category changes from the change log.
func (a *Admin) CategoryChanges(w http.ResponseWriter, r *http.Request) {
	if a.changes == nil {
		writeJSON(w, http.StatusOK, []models.CategoryChange{})
		return
	}

	limit := defaultChangeLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number.")
			return
		}
		limit = min(n, maxChangeLimit)
	}

	changes, err := a.changes.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not load the change log.")
		return
	}
	if changes == nil {
		changes = []models.CategoryChange{}
	}
	writeJSON(w, http.StatusOK, changes)
}
