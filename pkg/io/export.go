package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/analogtopo/pkg/constraint"
)

// Constraint kinds understood by the placer.
const (
	KindSymmetricBlocks = "SymmetricBlocks"
	KindGroupBlocks     = "GroupBlocks"
)

// Record is one entry of the exported constraint array. Symmetry records fill
// Pairs and Direction; group records fill Instances and Name.
type Record struct {
	Constraint string               `json:"constraint"`
	Pairs      [][2]string          `json:"pairs,omitempty"`
	Direction  constraint.Direction `json:"direction,omitempty"`
	Instances  []string             `json:"instances,omitempty"`
	Name       string               `json:"name,omitempty"`
}

// Records converts a constraint set into export records: every symmetry
// constraint in detection order, then every group. The result is never nil.
func Records(set *constraint.Set) []Record {
	out := make([]Record, 0, set.Len())
	for _, s := range set.Symmetry {
		out = append(out, Record{
			Constraint: KindSymmetricBlocks,
			Pairs:      [][2]string{s.Pair},
			Direction:  s.Direction,
		})
	}
	for _, g := range set.Groups {
		out = append(out, Record{
			Constraint: KindGroupBlocks,
			Instances:  g.Instances,
			Name:       g.Name,
		})
	}
	return out
}

// WriteJSON encodes the constraint set as an indented JSON array and writes
// it to w. An empty set is written as []. The only possible failure is a
// write error from w.
func WriteJSON(set *constraint.Set, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Records(set)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the constraint set to a JSON file at path, replacing any
// existing file.
func ExportJSON(set *constraint.Set, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteJSON(set, f)
}
