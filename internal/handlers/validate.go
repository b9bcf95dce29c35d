// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"cheonwon/internal/models"
)

// Validation limits for category and product fields.
const (
	maxCategoryNameLen = 50
	maxProductNameLen  = 100
	maxDescriptionLen  = 5_000
	maxTagLen          = 30
	maxTags            = 20
	maxImages          = 10
)

// strictPolicy strips every HTML tag from user-entered text.
var strictPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds the unescape/sanitize loop in sanitizeText.
const maxSanitizePasses = 8

// sanitizeText removes markup from s and trims surrounding whitespace.
// Input is unescaped before sanitizing so entity-encoded tags are stripped
// too, and the policy's own escaping is undone afterwards so names like
// "욕실 & 청소" keep their literal text. The loop repeats until the value
// is stable; a value that never settles is returned in escaped form.
func sanitizeText(s string) string {
	for range maxSanitizePasses {
		next := html.UnescapeString(strictPolicy.Sanitize(html.UnescapeString(s)))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// validateCategoryName checks a sanitized category name and returns the
// first error found.
func validateCategoryName(name string) string {
	if name == "" {
		return "Category name is required."
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "Category name is too long (max 50 characters)."
	}
	return ""
}

// validateProduct checks a sanitized product and returns the first error found.
func validateProduct(p *models.Product) string {
	if p.Name == "" {
		return "Product name is required."
	}
	if utf8.RuneCountInString(p.Name) > maxProductNameLen {
		return "Product name is too long (max 100 characters)."
	}
	if p.Price < 0 || p.OriginalPrice < 0 {
		return "Price cannot be negative."
	}
	if p.Stock < 0 {
		return "Stock cannot be negative."
	}
	if utf8.RuneCountInString(p.Description) > maxDescriptionLen {
		return "Description is too long (max 5,000 characters)."
	}
	if len(p.Images) > maxImages {
		return "Too many images (max 10)."
	}
	if len(p.Tags) > maxTags {
		return "Too many tags (max 20)."
	}
	for _, tag := range p.Tags {
		if utf8.RuneCountInString(tag) > maxTagLen {
			return "Tag is too long (max 30 characters)."
		}
	}
	switch p.Status {
	case "", models.ProductStatusOnSale, models.ProductStatusSoldOut, models.ProductStatusHidden:
	default:
		return "Unknown product status."
	}
	return ""
}

// sanitizeProduct strips markup from the free-text fields of p and drops
// empty tags. The category value is only trimmed.
func sanitizeProduct(p *models.Product) {
	p.Name = sanitizeText(p.Name)
	p.Description = sanitizeText(p.Description)
	p.Category = strings.TrimSpace(p.Category)

	tags := p.Tags[:0]
	for _, tag := range p.Tags {
		if tag = sanitizeText(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	p.Tags = tags
}
