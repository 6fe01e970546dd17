package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

const (
	keyBreakdownType              = "breakdown_type"
	keyBreakdown                  = "breakdown"
	keyBreakdownGroupTypeIndex    = "breakdown_group_type_index"
	keyBreakdownHistogramBinCount = "breakdown_histogram_bin_count"
	keyBreakdownNormalizeURL      = "breakdown_normalize_url"
	keyBreakdowns                 = "breakdowns"
)

var nullJSON = []byte("null")

// MarshalJSON writes undefined keys as null and leaves absent keys out.
func (f BreakdownFilter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true

	write := func(key string, set bool, value any) error {
		if !set {
			return nil
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')

		if value == nil {
			buf.Write(nullJSON)
			return nil
		}
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		buf.Write(b)
		return nil
	}

	fields := []struct {
		key   string
		set   bool
		value any
	}{
		{keyBreakdownType, f.BreakdownType.Set, valueOrNil(f.BreakdownType)},
		{keyBreakdown, f.Breakdown.Set, valueOrNil(f.Breakdown)},
		{keyBreakdownGroupTypeIndex, f.BreakdownGroupTypeIndex.Set, valueOrNil(f.BreakdownGroupTypeIndex)},
		{keyBreakdownHistogramBinCount, f.BreakdownHistogramBinCount.Set, valueOrNil(f.BreakdownHistogramBinCount)},
		{keyBreakdownNormalizeURL, f.BreakdownNormalizeURL.Set, valueOrNil(f.BreakdownNormalizeURL)},
		{keyBreakdowns, f.Breakdowns.Set, breakdownsOrNil(f.Breakdowns)},
	}
	for _, fd := range fields {
		if err := write(fd.key, fd.set, fd.value); err != nil {
			return nil, err
		}
	}

	extraKeys := make([]string, 0, len(f.Extra))
	for k := range f.Extra {
		if isManagedKey(k) {
			continue
		}
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		if err := write(k, true, f.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f *BreakdownFilter) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out BreakdownFilter
	var err error

	if out.BreakdownType, err = decodeField[BreakdownType](raw, keyBreakdownType); err != nil {
		return err
	}
	if t, ok := out.BreakdownType.Get(); ok {
		if _, err := ParseBreakdownType(string(t)); err != nil {
			return err
		}
	}
	if out.Breakdown, err = decodeField[BreakdownValue](raw, keyBreakdown); err != nil {
		return err
	}
	if out.BreakdownGroupTypeIndex, err = decodeField[int](raw, keyBreakdownGroupTypeIndex); err != nil {
		return err
	}
	if out.BreakdownHistogramBinCount, err = decodeField[int](raw, keyBreakdownHistogramBinCount); err != nil {
		return err
	}
	if out.BreakdownNormalizeURL, err = decodeField[bool](raw, keyBreakdownNormalizeURL); err != nil {
		return err
	}
	if out.Breakdowns, err = decodeField[[]Breakdown](raw, keyBreakdowns); err != nil {
		return err
	}
	if list, ok := out.Breakdowns.Get(); ok {
		for _, b := range list {
			if _, err := ParseBreakdownType(string(b.Type)); err != nil {
				return err
			}
		}
	}

	for k, v := range raw {
		if isManagedKey(k) {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v
	}

	*f = out
	return nil
}

func decodeField[T any](raw map[string]json.RawMessage, key string) (Field[T], error) {
	data, ok := raw[key]
	if !ok {
		return Field[T]{}, nil
	}
	if bytes.Equal(bytes.TrimSpace(data), nullJSON) {
		return Undefined[T](), nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return Field[T]{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return Defined(v), nil
}

func valueOrNil[T any](f Field[T]) any {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	return v
}

func breakdownsOrNil(f Field[[]Breakdown]) any {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	if v == nil {
		return []Breakdown{}
	}
	return v
}

func isManagedKey(k string) bool {
	switch k {
	case keyBreakdownType, keyBreakdown, keyBreakdownGroupTypeIndex,
		keyBreakdownHistogramBinCount, keyBreakdownNormalizeURL, keyBreakdowns:
		return true
	}
	return false
}
