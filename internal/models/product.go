// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures shared by the store,
// catalog, and handler packages.
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ProductStatus represents the storefront visibility of a product.
type ProductStatus string

const (
	ProductStatusOnSale  ProductStatus = "on_sale"
	ProductStatusSoldOut ProductStatus = "sold_out"
	ProductStatusHidden  ProductStatus = "hidden"
)

// Product is a storefront product as managed from the admin screens.
// Category holds a category path string (e.g. "차량용품 > 방향제") or ""
// when the product is uncategorized. It is copied from the category picker
// and never validated against the tree on write.
type Product struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Price         int           `json:"price"`
	OriginalPrice int           `json:"originalPrice"`
	Stock         int           `json:"stock"`
	Category      string        `json:"category"`
	Images        []string      `json:"images"`
	Tags          []string      `json:"tags"`
	Description   string        `json:"description"`
	Status        ProductStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// IsOnSale returns true if the product is visible and purchasable.
func (p *Product) IsOnSale() bool {
	return p.Status == ProductStatusOnSale && p.Stock > 0
}

// DiscountRate returns the discount against the original price as a whole
// percentage, or 0 when there is no discount.
func (p *Product) DiscountRate() int {
	if p.OriginalPrice <= 0 || p.Price >= p.OriginalPrice {
		return 0
	}
	return int(math.Round(float64(p.OriginalPrice-p.Price) * 100 / float64(p.OriginalPrice)))
}

// UnmarshalJSON decodes a product leniently so that records written by
// older versions of the admin stay loadable: missing or mistyped numbers
// become 0, missing arrays become empty, and numeric ids are accepted.
func (p *Product) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode product: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("decode product: not an object")
	}

	*p = Product{
		ID:            looseString(fields["id"]),
		Name:          looseString(fields["name"]),
		Price:         looseInt(fields["price"]),
		OriginalPrice: looseInt(fields["originalPrice"]),
		Stock:         looseInt(fields["stock"]),
		Category:      looseString(fields["category"]),
		Images:        looseStrings(fields["images"]),
		Tags:          looseStrings(fields["tags"]),
		Description:   looseString(fields["description"]),
		Status:        ProductStatus(looseString(fields["status"])),
		CreatedAt:     looseTime(fields["createdAt"]),
		UpdatedAt:     looseTime(fields["updatedAt"]),
	}
	if p.Status == "" {
		p.Status = ProductStatusOnSale
	}
	return nil
}

// DecodeProducts decodes a persisted product collection. Entries that are
// not JSON objects are skipped. It fails only when data is not an array.
func DecodeProducts(data []byte) ([]Product, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode products: not an array")
	}

	products := make([]Product, 0, len(raw))
	for _, r := range raw {
		var p Product
		if err := json.Unmarshal(r, &p); err != nil {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func looseString(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(data, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(data, &n) == nil {
		return n.String()
	}
	return ""
}

func looseInt(data json.RawMessage) int {
	if len(data) == 0 {
		return 0
	}
	var f float64
	if json.Unmarshal(data, &f) == nil {
		return int(f)
	}
	var s string
	if json.Unmarshal(data, &s) == nil {
		if n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64); err == nil {
			return int(n)
		}
	}
	return 0
}

func looseStrings(data json.RawMessage) []string {
	out := []string{}
	var items []json.RawMessage
	if len(data) == 0 || json.Unmarshal(data, &items) != nil {
		return out
	}
	for _, item := range items {
		if s := looseString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func looseTime(data json.RawMessage) time.Time {
	var t time.Time
	if len(data) == 0 || json.Unmarshal(data, &t) != nil {
		return time.Time{}
	}
	return t
}
