package httpapi

import (
	"encoding/json"
	"fmt"

	"cfwai/internal/model"
)

// filterItems implements the GET /get_item filtering rules (spec.md §6):
// name+value both set => exact string equality on that field; name only =>
// field exists; value only => value appears among any field's stringified
// value.
func filterItems(items []model.Item, name, value string) ([]model.Item, error) {
	if name == "" && value == "" {
		return items, nil
	}

	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		fields, err := toFieldMap(item)
		if err != nil {
			return nil, err
		}

		switch {
		case name != "" && value != "":
			v, ok := fields[name]
			if ok && stringify(v) == value {
				out = append(out, item)
			}
		case name != "":
			if _, ok := fields[name]; ok {
				out = append(out, item)
			}
		default:
			for _, v := range fields {
				if stringify(v) == value {
					out = append(out, item)
					break
				}
			}
		}
	}
	return out, nil
}

func toFieldMap(item model.Item) (map[string]any, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("marshal item for filtering: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal item for filtering: %w", err)
	}
	return fields, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	}
}
