// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"cheonwon/internal/models"
)

// productsKey is the app_state key holding the product collection.
const productsKey = "products"

// demoProducts are the development sample products. Their categories use
// the default top-level category names.
func demoProducts(now time.Time) []models.Product {
	p := func(id, name string, price, original, stock int, cat string) models.Product {
		return models.Product{
			ID: id, Name: name, Price: price, OriginalPrice: original, Stock: stock,
			Category: cat, Images: []string{}, Tags: []string{}, Status: models.ProductStatusOnSale,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	return []models.Product{
		p("demo-1", "차량용 송풍구 방향제", 1000, 2000, 120, "차량용품"),
		p("demo-2", "극세사 수세미 3입", 1000, 1500, 300, "주방용품"),
		p("demo-3", "USB-C 고속 충전 케이블", 1000, 3000, 80, "전자기기"),
		p("demo-4", "미니 립밤", 1000, 1000, 0, "뷰티"),
	}
}

// Seed populates the database with development sample products.
// It does nothing if a product collection is already stored.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM app_state WHERE key = $1", productsKey).Scan(&count); err != nil {
		return fmt.Errorf("seed check products: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	data, err := json.Marshal(demoProducts(time.Now()))
	if err != nil {
		return fmt.Errorf("seed encode products: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO NOTHING
	`, productsKey, data)
	if err != nil {
		return fmt.Errorf("seed insert products: %w", err)
	}

	slog.Info("database seeded with demo products", "count", 4)
	return nil
}
