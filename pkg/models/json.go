package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONStringArray is a []string stored as a JSON TEXT column.
type JSONStringArray []string

// Scan implements sql.Scanner.
func (a *JSONStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			*a = nil
			return nil
		}
		return json.Unmarshal([]byte(v), a)
	case []byte:
		if len(v) == 0 {
			*a = nil
			return nil
		}
		return json.Unmarshal(v, a)
	default:
		return fmt.Errorf("unsupported type for JSONStringArray: %T", value)
	}
}

// Value implements driver.Valuer. Nil arrays are stored as empty JSON
// arrays so downstream consumers never see SQL NULL.
func (a JSONStringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// JSONGroupArray is a []Group stored as a JSON TEXT column.
type JSONGroupArray []Group

// Scan implements sql.Scanner.
func (g *JSONGroupArray) Scan(value interface{}) error {
	if value == nil {
		*g = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			*g = nil
			return nil
		}
		return json.Unmarshal([]byte(v), g)
	case []byte:
		if len(v) == 0 {
			*g = nil
			return nil
		}
		return json.Unmarshal(v, g)
	default:
		return fmt.Errorf("unsupported type for JSONGroupArray: %T", value)
	}
}

// Value implements driver.Valuer.
func (g JSONGroupArray) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	data, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
