package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/regpath/carp/fusiongraph"
)

// loadMatrix reads a CSV file of n rows by p columns into an
// observation-major []float64 of length n*p, matching spec.md §6's x
// layout. Weight construction (Gaussian-kernel, k-NN) is explicitly out
// of scope (spec.md §1 Non-goals); carppath consumes a precomputed edge
// list instead (loadEdges).
func loadMatrix(path string) (x []float64, n, p int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, 0, 0, fmt.Errorf("%s: no rows", path)
	}

	n = len(rows)
	p = len(rows[0])
	x = make([]float64, 0, n*p)
	for i, row := range rows {
		if len(row) != p {
			return nil, 0, 0, fmt.Errorf("%s: row %d has %d columns, want %d", path, i, len(row), p)
		}
		for _, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, 0, 0, fmt.Errorf("%s: row %d: %w", path, i, err)
			}
			x = append(x, v)
		}
	}
	return x, n, p, nil
}

// loadEdges reads a CSV file of (l, m, w) triples — 1-based indices per
// spec.md §6's external convention — into fusiongraph.Edge's 0-based form.
func loadEdges(path string) ([]fusiongraph.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	edges := make([]fusiongraph.Edge, 0, len(rows))
	for i, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("%s: row %d has %d fields, want 3 (l,m,w)", path, i, len(row))
		}
		l, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i, err)
		}
		m, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i, err)
		}
		w, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i, err)
		}
		if l == m {
			return nil, fmt.Errorf("%s: row %d: self-loop (%d,%d) not allowed", path, i, l, m)
		}
		if l > m {
			l, m = m, l
		}
		edges = append(edges, fusiongraph.Edge{L: l - 1, M: m - 1, W: w})
	}
	return edges, nil
}
