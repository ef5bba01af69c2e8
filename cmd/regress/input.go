// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// parseRows parses "1,0,0;0,1,0" into equal-length rows.
func parseRows(s string) ([][]float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty input")
	}

	var rows [][]float32
	for i, line := range strings.Split(s, ";") {
		fields := strings.Split(line, ",")
		row := make([]float32, len(fields))
		for j, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			row[j] = float32(v)
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
