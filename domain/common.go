package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DateLayout is the calendar date format used for joining and creation dates.
const DateLayout = "2006-01-02"

// Today returns the current date formatted with DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

type FindManyOption struct {
	Sort   []string `json:"sort" form:"sort"`
	Limit  *int     `json:"limit" form:"limit"`
	Offset *int     `json:"offset" form:"offset"`
}

// StringSlice persists an ordered list of strings as a JSON array column.
type StringSlice []string

func NewStringSlice(s []string) StringSlice {
	return StringSlice(s)
}

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	val, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(val), nil
}

func (s *StringSlice) Scan(input interface{}) error {
	switch v := input.(type) {
	case nil:
		*s = StringSlice{}
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(s))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(s))
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", input)
	}
}

func (StringSlice) GormDataType() string {
	return "jsonb"
}
