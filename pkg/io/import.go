package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/errors"
)

// ReadJSON decodes an exported constraint array from r.
//
// Symmetry records yield one [constraint.Symmetry] per entry of "pairs", named
// sym_<a>_<b>; a missing direction defaults to vertical. Group records yield a
// [constraint.Group] with the current-mirror role when the name starts with
// "cm_".
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, a record
// has an unknown constraint kind, a direction is not V or H, or a group has no
// instances. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*constraint.Set, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode constraints")
	}

	set := &constraint.Set{}
	for i, rec := range records {
		switch rec.Constraint {
		case KindSymmetricBlocks:
			dir := rec.Direction
			if dir == "" {
				dir = constraint.Vertical
			}
			if !dir.Valid() {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "record %d: invalid direction %q", i, dir)
			}
			for _, p := range rec.Pairs {
				set.AddSymmetry(constraint.NewSymmetry(p[0], p[1], dir))
			}
		case KindGroupBlocks:
			if len(rec.Instances) == 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "record %d: group %q has no instances", i, rec.Name)
			}
			g := constraint.Group{Name: rec.Name, Instances: rec.Instances}
			if strings.HasPrefix(rec.Name, "cm_") {
				g.Role = constraint.RoleCurrentMirror
			}
			set.AddGroups(g)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "record %d: unknown constraint %q", i, rec.Constraint)
		}
	}
	return set, nil
}

// ImportJSON reads an exported constraint file at path.
func ImportJSON(path string) (*constraint.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
