// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cheonwon/internal/category"
	"cheonwon/internal/models"
)

var (
	// categoryChanges counts category mutations by action and result.
	categoryChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cheonwon_category_changes_total",
		Help: "Category mutations by action and result",
	}, []string{"action", "result"})

	// renameCascade tracks how many products each rename rewrote.
	renameCascade = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cheonwon_category_rename_products_updated",
		Help:    "Products rewritten per category rename",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500},
	})

	// categoryNodes is the number of nodes in the live tree.
	categoryNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cheonwon_category_nodes",
		Help: "Nodes in the category tree",
	})

	// memoryOnlyMode is 1 while changes are not being persisted.
	memoryOnlyMode = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cheonwon_category_memory_only",
		Help: "1 when category changes are kept in memory only",
	})
)

// Results recorded in categoryChanges.
const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultPersist  = "persist_error"
)

// recordChange counts one mutation attempt.
func recordChange(action models.CategoryChangeAction, err error) {
	result := resultOK
	switch {
	case errors.Is(err, ErrPersist):
		result = resultPersist
	case err != nil:
		result = resultRejected
	}
	categoryChanges.WithLabelValues(string(action), result).Inc()
}

// observeTree refreshes the tree gauges after a load or mutation.
func observeTree(tree []category.Node, memoryOnly bool) {
	categoryNodes.Set(float64(len(category.Flatten(tree))))
	if memoryOnly {
		memoryOnlyMode.Set(1)
	} else {
		memoryOnlyMode.Set(0)
	}
}
