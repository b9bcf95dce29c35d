// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"cheonwon/internal/category"
)

// CategoryRow is one line of the category management table: a flattened
// category path plus the figures the admin needs to act on it.
type CategoryRow struct {
	category.Path

	// Virtual fields populated by the catalog service.
	ChildCount int  `json:"childCount"`
	Usage      int  `json:"usage"`
	Deletable  bool `json:"deletable"`
}

// CategoryChangeAction names a kind of category tree change.
type CategoryChangeAction string

const (
	CategoryChangeCreate CategoryChangeAction = "create"
	CategoryChangeRename CategoryChangeAction = "rename"
	CategoryChangeDelete CategoryChangeAction = "delete"
)

// CategoryChange is one entry of the category audit log.
type CategoryChange struct {
	ID              int64                `json:"id"`
	Action          CategoryChangeAction `json:"action"`
	NodeID          string               `json:"nodeId"`
	OldValue        string               `json:"oldValue"`
	NewValue        string               `json:"newValue"`
	ProductsUpdated int                  `json:"productsUpdated"`
	CreatedAt       time.Time            `json:"createdAt"`
}
