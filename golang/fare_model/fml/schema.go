package fml

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

//Kind is the value type of a column.
type Kind int

const (
	//Float columns hold float64 values such as coordinates or fares.
	Float Kind = iota
	//Time columns hold timestamps.
	Time
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Time:
		return "time"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

//Column names a column and its kind.
type Column struct {
	Name string
	Kind Kind
}

//Schema is an ordered list of columns.
type Schema []Column

//Names returns column names in schema order.
func (s Schema) Names() []string {
	return lo.Map(s, func(c Column, _ int) string { return c.Name })
}

//Lookup finds a column by name.
func (s Schema) Lookup(name string) (Column, bool) {
	return lo.Find(s, func(c Column) bool { return c.Name == name })
}

//Require checks that every required column exists in the schema with the same kind.
func (s Schema) Require(required ...Column) error {
	var problems []string
	for _, req := range required {
		col, ok := s.Lookup(req.Name)
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("missing column %q", req.Name))
		case col.Kind != req.Kind:
			problems = append(problems, fmt.Sprintf("column %q is %s, want %s", req.Name, col.Kind, req.Kind))
		}
	}
	if len(problems) > 0 {
		return errors.Wrap(ErrSchemaMismatch, strings.Join(problems, "; "))
	}
	return nil
}

//Equal reports whether two schemas have the same columns in the same order.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s Schema) String() string {
	parts := lo.Map(s, func(c Column, _ int) string { return c.Name + ":" + c.Kind.String() })
	return "[" + strings.Join(parts, ", ") + "]"
}
