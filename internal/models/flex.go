package models

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FlexString is a string field read from a record that may have been written
// by any historical client. Numbers and booleans are accepted and rendered as
// text; null, objects, arrays and the empty string leave Valid false.
type FlexString struct {
	Value string
	Valid bool
}

func NewFlexString(value string) FlexString {
	return FlexString{Value: value, Valid: value != ""}
}

func (s *FlexString) UnmarshalJSON(data []byte) error {
	*s = FlexString{}

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '"':
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return nil
		}
		*s = NewFlexString(str)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			*s = FlexString{Value: strconv.FormatBool(b), Valid: true}
		}
	case '{', '[':
		// not representable as text
	default:
		var num json.Number
		if err := json.Unmarshal(raw, &num); err == nil {
			*s = FlexString{Value: num.String(), Valid: true}
		}
	}

	return nil
}

func (s FlexString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// Or returns the value when present, otherwise fallback.
func (s FlexString) Or(fallback string) string {
	if s.Valid {
		return s.Value
	}
	return fallback
}

// FlexInt is an integer field that older clients may have stored as a number,
// a float or a numeric string ("2024", "12,00,000").
type FlexInt struct {
	Value int64
	Valid bool
}

func NewFlexInt(value int64) FlexInt {
	return FlexInt{Value: value, Valid: true}
}

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	*n = FlexInt{}

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	text := string(raw)
	if raw[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return nil
		}
		text = str
	} else if raw[0] == '{' || raw[0] == '[' || raw[0] == 't' || raw[0] == 'f' {
		return nil
	}

	if value, ok := parseLooseInt(text); ok {
		*n = FlexInt{Value: value, Valid: true}
	}

	return nil
}

func (n FlexInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(n.Value, 10)), nil
}

func (n FlexInt) Or(fallback int64) int64 {
	if n.Valid {
		return n.Value
	}
	return fallback
}

func parseLooseInt(text string) (int64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' || r == '_' {
			return -1
		}
		return r
	}, strings.TrimSpace(text))
	if cleaned == "" {
		return 0, false
	}

	if value, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return value, true
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// FeatureList decodes a feature list from either a JSON array or the
// index-keyed object the realtime database returns for sparse arrays.
// Entries that are not feature objects are dropped.
type FeatureList []MainFeature

func (l *FeatureList) UnmarshalJSON(data []byte) error {
	*l = nil

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		return nil
	}

	var items []json.RawMessage
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
	case '{':
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keyed); err != nil {
			return nil
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, errA := strconv.Atoi(keys[i])
			b, errB := strconv.Atoi(keys[j])
			if errA == nil && errB == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		for _, k := range keys {
			items = append(items, keyed[k])
		}
	default:
		return nil
	}

	features := make(FeatureList, 0, len(items))
	for _, item := range items {
		var feature MainFeature
		if err := json.Unmarshal(item, &feature); err != nil || feature.Name == "" {
			continue
		}
		features = append(features, feature)
	}
	*l = features

	return nil
}
