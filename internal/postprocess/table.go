package postprocess

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"go.starlark.net/starlark"

	"duckgs/internal/domain"
)

// DataFrame exposes a domain.Result to Starlark as the `df` binding.
//
// Supported operations:
//
//	df["a"]          column values as a list
//	df[["a", "b"]]   projection to the named columns
//	df.columns       column names
//	df.rows          row-major values
//	df.head(n)       first n rows (default 5)
//	df.t()           transposed view
//	df.to_csv()      CSV text
//	df.to_json()     JSON text, one object per row
type DataFrame struct {
	res    *domain.Result
	frozen bool
}

var (
	_ starlark.Value    = (*DataFrame)(nil)
	_ starlark.HasAttrs = (*DataFrame)(nil)
	_ starlark.Mapping  = (*DataFrame)(nil)
)

// NewDataFrame wraps a result for Starlark evaluation.
func NewDataFrame(res *domain.Result) *DataFrame {
	return &DataFrame{res: res}
}

// Result returns the wrapped result.
func (d *DataFrame) Result() *domain.Result { return d.res }

// String implements starlark.Value.
func (d *DataFrame) String() string {
	return fmt.Sprintf("dataframe(%d columns, %d rows)", len(d.res.Columns), d.res.RowCount())
}

// Type implements starlark.Value.
func (d *DataFrame) Type() string { return "dataframe" }

// Freeze implements starlark.Value.
func (d *DataFrame) Freeze() { d.frozen = true }

// Truth implements starlark.Value.
func (d *DataFrame) Truth() starlark.Bool { return d.res.RowCount() > 0 }

// Hash implements starlark.Value.
func (d *DataFrame) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: dataframe")
}

// Get implements starlark.Mapping: a string key selects a column's values,
// a list of strings projects to those columns.
func (d *DataFrame) Get(k starlark.Value) (starlark.Value, bool, error) {
	switch key := k.(type) {
	case starlark.String:
		values, err := d.res.Column(string(key))
		if err != nil {
			return nil, false, err
		}
		out := make([]starlark.Value, len(values))
		for i, v := range values {
			out[i] = toStarlark(v)
		}
		return starlark.NewList(out), true, nil
	case *starlark.List:
		names := make([]string, 0, key.Len())
		for i := 0; i < key.Len(); i++ {
			name, ok := starlark.AsString(key.Index(i))
			if !ok {
				return nil, false, fmt.Errorf("column selector must be a string, got %s", key.Index(i).Type())
			}
			names = append(names, name)
		}
		projected, err := d.res.Project(names)
		if err != nil {
			return nil, false, err
		}
		return NewDataFrame(projected), true, nil
	default:
		return nil, false, fmt.Errorf("dataframe index must be a column name or list of names, got %s", k.Type())
	}
}

// AttrNames implements starlark.HasAttrs.
func (d *DataFrame) AttrNames() []string {
	return []string{"columns", "head", "rows", "t", "to_csv", "to_json"}
}

// Attr implements starlark.HasAttrs.
func (d *DataFrame) Attr(name string) (starlark.Value, error) {
	switch name {
	case "columns":
		out := make([]starlark.Value, len(d.res.Columns))
		for i, c := range d.res.Columns {
			out[i] = starlark.String(c)
		}
		return starlark.NewList(out), nil
	case "rows":
		rows := make([]starlark.Value, len(d.res.Rows))
		for i, row := range d.res.Rows {
			cells := make([]starlark.Value, len(row))
			for j, v := range row {
				cells[j] = toStarlark(v)
			}
			rows[i] = starlark.NewList(cells)
		}
		return starlark.NewList(rows), nil
	case "head":
		return d.method(name, d.headImpl), nil
	case "t":
		return d.method(name, d.transposeImpl), nil
	case "to_csv":
		return d.method(name, d.toCSVImpl), nil
	case "to_json":
		return d.method(name, d.toJSONImpl), nil
	default:
		return nil, nil // no such attr
	}
}

type methodImpl func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

func (d *DataFrame) method(name string, impl methodImpl) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return impl(args, kwargs)
	})
}

func (d *DataFrame) headImpl(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	n := 5
	if err := starlark.UnpackArgs("head", args, kwargs, "n?", &n); err != nil {
		return nil, err
	}
	return NewDataFrame(d.res.Head(n)), nil
}

func (d *DataFrame) transposeImpl(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("t", args, kwargs); err != nil {
		return nil, err
	}
	return NewDataFrame(d.res.Transpose()), nil
}

func (d *DataFrame) toCSVImpl(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("to_csv", args, kwargs); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(d.res.Columns); err != nil {
		return nil, err
	}
	for _, row := range d.res.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatCell(v)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return starlark.String(buf.String()), nil
}

func (d *DataFrame) toJSONImpl(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("to_json", args, kwargs); err != nil {
		return nil, err
	}
	objects := make([]map[string]interface{}, 0, len(d.res.Rows))
	for _, row := range d.res.Rows {
		obj := make(map[string]interface{}, len(d.res.Columns))
		for i, col := range d.res.Columns {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		objects = append(objects, obj)
	}
	data, err := json.Marshal(objects)
	if err != nil {
		return nil, err
	}
	return starlark.String(data), nil
}

// toStarlark converts a scanned database value to its Starlark counterpart.
func toStarlark(v interface{}) starlark.Value {
	switch val := v.(type) {
	case nil:
		return starlark.None
	case bool:
		return starlark.Bool(val)
	case int:
		return starlark.MakeInt(val)
	case int32:
		return starlark.MakeInt64(int64(val))
	case int64:
		return starlark.MakeInt64(val)
	case uint64:
		return starlark.MakeUint64(val)
	case float32:
		return starlark.Float(val)
	case float64:
		return starlark.Float(val)
	case string:
		return starlark.String(val)
	case []byte:
		return starlark.Bytes(val)
	case time.Time:
		return starlark.String(val.Format(time.RFC3339))
	default:
		return starlark.String(fmt.Sprintf("%v", val))
	}
}

// fromStarlark converts an evaluated Starlark value back to a cell value.
func fromStarlark(v starlark.Value) interface{} {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(val)
	case starlark.Int:
		if i, ok := val.Int64(); ok {
			return i
		}
		return val.String()
	case starlark.Float:
		return float64(val)
	case starlark.String:
		return string(val)
	case starlark.Bytes:
		return []byte(val)
	default:
		return v.String()
	}
}

func formatCell(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
