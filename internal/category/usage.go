// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import "strings"

// UsageCounts returns, for every path, how many of the given product
// category values reference that node or one of its descendants. A value
// matches a path when it equals the path string or starts with the path
// string followed by Delimiter, so a single product counts toward its own
// node and every ancestor.
func UsageCounts(paths []Path, categories []string) map[string]int {
	counts := make(map[string]int, len(paths))
	for _, p := range paths {
		counts[p.ID] = 0
	}

	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		for _, p := range paths {
			if Contains(p.Value, c) {
				counts[p.ID]++
			}
		}
	}
	return counts
}

// Contains reports whether the product category value c is filed under
// the path string value, either exactly or below it.
func Contains(value, c string) bool {
	if value == "" {
		return false
	}
	return c == value || strings.HasPrefix(c, value+Delimiter)
}
