package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"time"

	"github.com/goatkit/novadmin/internal/convert"
)

const utf8BOM = "\ufeff"

func renderCSV(data []Record, cols []Column) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.title()
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	row := make([]string, len(cols))
	for _, rec := range data {
		for i, col := range cols {
			row[i] = CellText(col, rec)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderJSON(data []Record, cols []Column) ([]byte, error) {
	if len(cols) == 0 {
		return json.MarshalIndent(data, "", "  ")
	}

	var raw bytes.Buffer
	raw.WriteByte('[')
	for i, rec := range data {
		if i > 0 {
			raw.WriteByte(',')
		}
		raw.WriteByte('{')
		for j, col := range cols {
			if j > 0 {
				raw.WriteByte(',')
			}
			key, err := json.Marshal(col.Key)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(jsonValue(col, rec))
			if err != nil {
				return nil, err
			}
			raw.Write(key)
			raw.WriteByte(':')
			raw.Write(val)
		}
		raw.WriteByte('}')
	}
	raw.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func jsonValue(col Column, rec Record) interface{} {
	v := Value(rec, col.Key)
	if col.Formatter != nil {
		return col.Formatter(v, rec)
	}
	return v
}

// CellText is the text a column shows for rec: the formatter's output when
// set, otherwise the value as a string. Nested maps and slices are written as
// JSON.
func CellText(col Column, rec Record) string {
	v := Value(rec, col.Key)
	if col.Formatter != nil {
		return col.Formatter(v, rec)
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}, []string:
		b, err := json.Marshal(v)
		if err == nil {
			return string(b)
		}
	}
	return convert.ToString(v, "")
}

// excelCell keeps numbers, booleans and times typed so the workbook can format
// them; everything else becomes text.
func excelCell(col Column, rec Record) interface{} {
	if col.Formatter != nil {
		return CellText(col, rec)
	}
	switch v := Value(rec, col.Key).(type) {
	case nil:
		return ""
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	}
	return CellText(col, rec)
}
