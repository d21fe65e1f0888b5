package params

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/vaultlinks/internal/model"
)

// FieldResult is the validation outcome of one field.
type FieldResult struct {
	Field  string
	OK     bool
	Reason string
}

// Validation is the single result of validating a parameter set.
type Validation struct {
	// Params holds the typed parameters. Fields that failed keep their
	// default value.
	Params model.Params

	// Fields lists one outcome per recognized key in validation order.
	Fields []FieldResult

	errs []FieldError
}

// OK reports whether every field passed.
func (v Validation) OK() bool {
	return len(v.errs) == 0
}

// Err returns a *ValidationError when any field failed, otherwise nil.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return &ValidationError{Fields: v.errs}
}

// Validate merges defaults and raw (raw wins) and checks every field.
func Validate(raw Raw, defaults Raw) Validation {
	merged := Merge(defaults, raw)
	v := Validation{Params: model.DefaultParams()}

	for _, key := range Keys() {
		value, present := merged[key]
		var err error
		if present {
			err = v.apply(key, value)
		}
		if err != nil {
			var fe FieldError
			if !errors.As(err, &fe) {
				fe = FieldError{Field: key, Value: value, Reason: err.Error()}
			}
			v.errs = append(v.errs, fe)
			v.Fields = append(v.Fields, FieldResult{Field: key, Reason: fe.Reason})
			continue
		}
		v.Fields = append(v.Fields, FieldResult{Field: key, OK: true})
	}
	return v
}

func (v *Validation) apply(key string, value any) error {
	fail := func(format string, args ...any) error {
		return FieldError{Field: key, Value: value, Reason: fmt.Sprintf(format, args...)}
	}

	switch key {
	case KeyPaths:
		paths, err := stringList(value)
		if err != nil {
			return fail("%v", err)
		}
		v.Params.Paths = paths

	case KeySort:
		s, ok := value.(string)
		if !ok {
			return fail("must be a string")
		}
		field, err := model.ParseSortField(s)
		if err != nil {
			return fail("must be one of name, outgoingCount, incomingCount")
		}
		v.Params.Sort = field

	case KeySortOrder:
		s, ok := value.(string)
		if !ok {
			return fail("must be a string")
		}
		order, err := model.ParseSortOrder(s)
		if err != nil {
			return fail("must be one of asc, desc")
		}
		v.Params.SortOrder = order

	case KeyExcludeCol:
		names, err := stringList(value)
		if err != nil {
			return fail("%v", err)
		}
		cols, err := columns(names)
		if err != nil {
			return fail("%v", err)
		}
		v.Params.ExcludeCol = cols

	case KeyFileType:
		s, ok := value.(string)
		if !ok {
			return fail("must be a string")
		}
		category, err := model.ParseCategory(s)
		if err != nil {
			return fail("must be one of %s", strings.Join(categoryNames(), ", "))
		}
		v.Params.FileType = category

	case KeyShowStats:
		b, err := boolean(value)
		if err != nil {
			return fail("%v", err)
		}
		v.Params.ShowStats = b
	}
	return nil
}

func stringList(value any) ([]string, error) {
	switch t := value.(type) {
	case nil:
		return []string{}, nil
	case string:
		return splitList(t), nil
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is not a string", i+1)
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return nil, errors.New("must be a list of strings")
	}
}

func columns(names []string) ([]model.Column, error) {
	seen := make(map[model.Column]bool, len(names))
	cols := make([]model.Column, 0, len(names))
	for _, name := range names {
		c, err := model.ParseColumn(name)
		if err != nil {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	if len(seen) == len(model.AllColumns()) {
		return nil, errors.New("cannot exclude every column")
	}
	return cols, nil
}

func boolean(value any) (bool, error) {
	switch t := value.(type) {
	case bool:
		return t, nil
	case string:
		switch t {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, errors.New("must be boolean")
}

func categoryNames() []string {
	names := make([]string, 0, len(model.AllCategories()))
	for _, c := range model.AllCategories() {
		names = append(names, c.String())
	}
	return names
}
