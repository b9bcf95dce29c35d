// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cheonwon/internal/catalog"
	"cheonwon/internal/category"
	"cheonwon/internal/models"
)

// productView is a product as the admin list and forms render it, with
// the storefront's derived sale flags.
type productView struct {
	models.Product
	OnSale       bool `json:"onSale"`
	DiscountRate int  `json:"discountRate"`
}

func newProductView(p models.Product) productView {
	return productView{Product: p, OnSale: p.IsOnSale(), DiscountRate: p.DiscountRate()}
}

// ProductsList returns every product. With ?category= only the products
// filed under that category or one of its descendants are returned.
func (a *Admin) ProductsList(w http.ResponseWriter, r *http.Request) {
	products := a.catalog.Products()

	value := strings.TrimSpace(r.URL.Query().Get("category"))
	views := make([]productView, 0, len(products))
	for _, p := range products {
		if value == "" || category.Contains(value, p.Category) {
			views = append(views, newProductView(p))
		}
	}
	writeJSON(w, http.StatusOK, views)
}

// ProductGet returns a single product.
func (a *Admin) ProductGet(w http.ResponseWriter, r *http.Request) {
	p, ok := a.catalog.Product(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, catalog.ErrProductNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, newProductView(p))
}

// ProductCreate stores a new product. A client-supplied id is ignored.
func (a *Admin) ProductCreate(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = ""
	a.saveProduct(w, r, p, http.StatusCreated)
}

// ProductUpdate replaces an existing product.
func (a *Admin) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := a.catalog.Product(id); !ok {
		writeError(w, http.StatusNotFound, catalog.ErrProductNotFound.Error())
		return
	}

	var p models.Product
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = id
	a.saveProduct(w, r, p, http.StatusOK)
}

func (a *Admin) saveProduct(w http.ResponseWriter, r *http.Request, p models.Product, status int) {
	sanitizeProduct(&p)
	if errMsg := validateProduct(&p); errMsg != "" {
		writeError(w, http.StatusUnprocessableEntity, errMsg)
		return
	}

	saved, err := a.catalog.SaveProduct(r.Context(), p)
	if err != nil {
		writePersistError(w, err)
		return
	}
	writeJSON(w, status, newProductView(saved))
}

// ProductDelete removes a product.
func (a *Admin) ProductDelete(w http.ResponseWriter, r *http.Request) {
	err := a.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		writePersistError(w, err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
