package finance

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// ParseStatement decodes a statement answer into a numeric table. The
// payload is a dictionary rendered with single quotes, holding a "Year"
// list of integers, one or more line items as lists of string-formatted
// figures (space or comma thousands separators, parenthesized negatives),
// and exactly one non-numeric "Unit" field kept out of the matrix.
func ParseStatement(text string) (*Table, error) {
	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return nil, &ParseError{Reason: "payload is not a dictionary: " + err.Error()}
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, &ParseError{Reason: "decode payload: " + err.Error()}
	}

	rawYears, ok := payload["Year"]
	if !ok {
		return nil, &ParseError{Reason: `missing "Year" field`}
	}
	var years []int
	if err := json.Unmarshal(rawYears, &years); err != nil {
		return nil, &ParseError{Reason: `"Year" is not a list of integers`}
	}
	if len(years) == 0 {
		return nil, &ParseError{Reason: `"Year" is empty`}
	}

	t := &Table{
		Years: years,
		Cells: make(map[string]map[int]float64),
	}

	for _, key := range orderedKeys([]byte(repaired)) {
		switch key {
		case "Year":
			continue
		case "Unit":
			var unit string
			if err := json.Unmarshal(payload[key], &unit); err != nil {
				return nil, &ParseError{Reason: `"Unit" is not a string`}
			}
			t.Unit = unit
			continue
		}

		var figures []string
		if err := json.Unmarshal(payload[key], &figures); err != nil {
			return nil, &ParseError{Reason: "line item " + strconv.Quote(key) + " is not a list of strings"}
		}
		if len(figures) != len(years) {
			return nil, &ParseError{Reason: "line item " + strconv.Quote(key) + " has a different length than Year"}
		}

		col := make(map[int]float64, len(figures))
		for i, fig := range figures {
			v, err := parseFigure(fig)
			if err != nil {
				return nil, &ParseError{Reason: "figure " + strconv.Quote(fig) + " in " + strconv.Quote(key) + ": " + err.Error()}
			}
			col[years[i]] = v
		}
		t.Columns = append(t.Columns, key)
		t.Cells[key] = col
	}

	if len(t.Columns) == 0 {
		return nil, &ParseError{Reason: "payload holds no line items"}
	}
	return t, nil
}

// parseFigure converts an accountant-formatted figure string: thousands
// separators (spaces or commas) are stripped, and a value wrapped in
// parentheses is negative.
func parseFigure(s string) (float64, error) {
	negative := strings.Contains(s, "(") && strings.Contains(s, ")")
	cleaned := strings.NewReplacer(",", "", " ", "", "(", "", ")", "").Replace(s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if negative {
		v = -v
	}
	return v, nil
}

// orderedKeys returns the top-level object keys in payload order.
// encoding/json maps lose ordering, and the rendered table must keep the
// statement's line-item order.
func orderedKeys(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))

	// Opening brace.
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)

		// Skip the value, whatever its shape.
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}
