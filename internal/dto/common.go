package dto

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

func boolMapFromJSON(data datatypes.JSONMap) map[string]bool {
	result := make(map[string]bool, len(data))
	for key, value := range data {
		if flag, ok := value.(bool); ok {
			result[key] = flag
		}
	}
	return result
}

// JSONMapFromBool converts a permission map into the JSON column form.
func JSONMapFromBool(flags map[string]bool) datatypes.JSONMap {
	result := make(datatypes.JSONMap, len(flags))
	for key, value := range flags {
		result[key] = value
	}
	return result
}

func stringsFromJSON(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}

// JSONFromStrings converts a string list into the JSON column form.
func JSONFromStrings(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}
