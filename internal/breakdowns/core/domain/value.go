package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidValue = errors.New("breakdown value must be a string or an integer")

// AllCohorts is the cohort sentinel standing for "all users".
var AllCohorts = StringValue("all")

// Value is a breakdown value: a property name or a cohort id.
type Value struct {
	str   string
	num   int64
	isNum bool
}

func StringValue(s string) Value {
	return Value{str: s}
}

func IntValue(n int64) Value {
	return Value{num: n, isNum: true}
}

func (v Value) IsNumber() bool {
	return v.isNum
}

// Int returns the numeric value, false for string values.
func (v Value) Int() (int64, bool) {
	return v.num, v.isNum
}

func (v Value) String() string {
	if v.isNum {
		return strconv.FormatInt(v.num, 10)
	}
	return v.str
}

// Equal compares kind and content; the string "1" and the number 1 differ.
func (v Value) Equal(o Value) bool {
	return v == o
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return []byte(strconv.FormatInt(v.num, 10)), nil
	}
	return json.Marshal(v.str)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidValue, data)
	}
	*v = IntValue(n)
	return nil
}

// BreakdownValue is the legacy breakdown: one value, or an ordered list of
// cohort values.
type BreakdownValue struct {
	scalar Value
	list   []Value
	isList bool
}

func ScalarBreakdown(v Value) BreakdownValue {
	return BreakdownValue{scalar: v}
}

func ListBreakdown(vs ...Value) BreakdownValue {
	list := make([]Value, len(vs))
	copy(list, vs)
	return BreakdownValue{list: list, isList: true}
}

func (b BreakdownValue) IsList() bool {
	return b.isList
}

// Values returns the list, or the scalar as a one element list.
func (b BreakdownValue) Values() []Value {
	if !b.isList {
		return []Value{b.scalar}
	}
	out := make([]Value, len(b.list))
	copy(out, b.list)
	return out
}

// Scalar returns the single value; false for list breakdowns.
func (b BreakdownValue) Scalar() (Value, bool) {
	return b.scalar, !b.isList
}

func (b BreakdownValue) Equal(o BreakdownValue) bool {
	if b.isList != o.isList {
		return false
	}
	if !b.isList {
		return b.scalar.Equal(o.scalar)
	}
	if len(b.list) != len(o.list) {
		return false
	}
	for i := range b.list {
		if !b.list[i].Equal(o.list[i]) {
			return false
		}
	}
	return true
}

func (b BreakdownValue) MarshalJSON() ([]byte, error) {
	if b.isList {
		list := b.list
		if list == nil {
			list = []Value{}
		}
		return json.Marshal(list)
	}
	return b.scalar.MarshalJSON()
}

func (b *BreakdownValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []Value
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*b = ListBreakdown(list...)
		return nil
	}

	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	*b = ScalarBreakdown(v)
	return nil
}
