// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package transfer

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ColumnType is an inferred column type for table creation on import.
type ColumnType int

const (
	TypeInteger ColumnType = iota
	TypeReal
	TypeBool
	TypeTimestamp
	TypeText
)

// SQL returns the column type's DDL spelling, chosen to be understood by
// every supported backend.
func (t ColumnType) SQL() string {
	switch t {
	case TypeInteger:
		return "bigint"
	case TypeReal:
		return "double precision"
	case TypeBool:
		return "boolean"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

// timestampLayouts are the formats accepted for timestamp inference, covering
// this tool's own export output and common ISO-8601 spellings.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// inferColumnTypes picks a type per column from the values in the dataset.
// Nil values are ignored; a column with no non-nil values is text. A column
// is only as specific as all of its values allow: integers widen to real if
// any value has a fraction, and any unclassifiable value makes the whole
// column text.
func inferColumnTypes(ds *dataset) []ColumnType {
	types := make([]ColumnType, len(ds.columns))
	for i := range ds.columns {
		types[i] = inferColumn(ds, i)
	}
	return types
}

func inferColumn(ds *dataset, col int) ColumnType {
	inferred := ColumnType(-1)
	for _, row := range ds.rows {
		if row[col] == nil {
			continue
		}
		t := classifyValue(row[col])
		switch {
		case inferred == ColumnType(-1):
			inferred = t
		case inferred == t:
		case inferred == TypeInteger && t == TypeReal,
			inferred == TypeReal && t == TypeInteger:
			inferred = TypeReal
		default:
			return TypeText
		}
	}
	if inferred == ColumnType(-1) {
		return TypeText
	}
	return inferred
}

func classifyValue(v any) ColumnType {
	switch val := v.(type) {
	case bool:
		return TypeBool
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return TypeInteger
		}
		return TypeReal
	case string:
		return classifyString(val)
	default:
		return TypeText
	}
}

func classifyString(s string) ColumnType {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return TypeInteger
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return TypeReal
	}
	switch strings.ToLower(s) {
	case "true", "false":
		return TypeBool
	}
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return TypeTimestamp
		}
	}
	return TypeText
}

// coerceRows converts every value to the native form of its column's
// inferred type so the driver binds proper parameter types. Values that fail
// to convert are left as-is; the column is text in that case anyway.
func coerceRows(ds *dataset, types []ColumnType) {
	for _, row := range ds.rows {
		for i, t := range types {
			if row[i] == nil {
				continue
			}
			row[i] = coerceValue(row[i], t)
		}
	}
}

func coerceValue(v any, t ColumnType) any {
	switch t {
	case TypeInteger:
		switch val := v.(type) {
		case json.Number:
			if n, err := val.Int64(); err == nil {
				return n
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
				return n
			}
		}
	case TypeReal:
		switch val := v.(type) {
		case json.Number:
			if f, err := val.Float64(); err == nil {
				return f
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
				return f
			}
		}
	case TypeBool:
		switch val := v.(type) {
		case bool:
			return val
		case string:
			return strings.EqualFold(strings.TrimSpace(val), "true")
		}
	case TypeTimestamp:
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			for _, layout := range timestampLayouts {
				if ts, err := time.Parse(layout, s); err == nil {
					return ts
				}
			}
		}
	case TypeText:
		if n, ok := v.(json.Number); ok {
			return n.String()
		}
	}
	return v
}
