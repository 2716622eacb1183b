package client

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

// scanMaps reads every row into a map keyed by column name. Byte slices
// become strings.
func scanMaps(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	results := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Decode copies mapped rows into structs. Columns match fields by `db` tag,
// then by case-insensitive field name. Unmatched columns are ignored.
func Decode[T any](rows []map[string]any) ([]T, error) {
	results := make([]T, 0, len(rows))
	for _, row := range rows {
		var result T
		val := reflect.ValueOf(&result).Elem()
		if val.Kind() != reflect.Struct {
			return nil, fmt.Errorf("cannot decode into %s: not a struct", val.Type())
		}
		for col, v := range row {
			field, ok := findFieldByName(val.Type(), col)
			if !ok || v == nil {
				continue
			}
			if err := assign(val.FieldByIndex(field.Index), v); err != nil {
				return nil, fmt.Errorf("column %s: %w", col, err)
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func assign(dst reflect.Value, v any) error {
	src := reflect.ValueOf(v)
	switch {
	case src.Type().AssignableTo(dst.Type()):
		dst.Set(src)
	case src.Type().ConvertibleTo(dst.Type()) && dst.Kind() != reflect.String:
		dst.Set(src.Convert(dst.Type()))
	case dst.Kind() == reflect.String:
		dst.SetString(fmt.Sprint(v))
	default:
		return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
	}
	return nil
}

// findFieldByName finds a struct field by database column name (db tag or field name)
func findFieldByName(typ reflect.Type, colName string) (reflect.StructField, bool) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		if tag := field.Tag.Get("db"); tag != "" {
			if strings.Split(tag, ",")[0] == colName {
				return field, true
			}
			continue
		}
		if strings.EqualFold(field.Name, colName) {
			return field, true
		}
	}
	return reflect.StructField{}, false
}
