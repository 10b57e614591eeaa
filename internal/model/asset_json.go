package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

// assetField describes how one catalog key is read from and written to an
// Asset. omit reports whether a freshly built asset leaves the key out.
type assetField struct {
	key    string
	price  bool
	encode func(a *Asset) json.RawMessage
	omit   func(a *Asset) bool
}

var assetFields = []assetField{
	{key: "name", encode: func(a *Asset) json.RawMessage { return jsonString(a.Symbol) }},
	{key: "api_source", encode: func(a *Asset) json.RawMessage { return jsonString(string(a.Source)) }},
	{key: "label", encode: func(a *Asset) json.RawMessage { return jsonString(a.Label) }},
	{
		key:    "friendlyName",
		encode: func(a *Asset) json.RawMessage { return jsonString(a.FriendlyName) },
		omit:   func(a *Asset) bool { return a.FriendlyName == "" },
	},
	{
		key:    "category",
		encode: func(a *Asset) json.RawMessage { return jsonString(a.Category) },
		omit:   func(a *Asset) bool { return a.Category == "" },
	},
	{
		key:    "sector",
		encode: func(a *Asset) json.RawMessage { return jsonString(a.Sector) },
		omit:   func(a *Asset) bool { return a.Sector == "" },
	},
	{
		key:    "link",
		encode: func(a *Asset) json.RawMessage { return jsonString(a.Link) },
		omit:   func(a *Asset) bool { return a.Link == "" },
	},
	{
		key:    "start_date",
		encode: func(a *Asset) json.RawMessage { return jsonString(a.StartDate) },
		omit:   func(a *Asset) bool { return a.StartDate == "" },
	},
	{key: "currentPrice", price: true, encode: func(a *Asset) json.RawMessage { return json.RawMessage(a.CurrentPrice.String()) }},
	{
		key:    "currentPriceDate",
		price:  true,
		encode: func(a *Asset) json.RawMessage { return jsonTime(a.CurrentPriceDate) },
		omit:   func(a *Asset) bool { return a.CurrentPriceDate == nil },
	},
	{key: "ath", price: true, encode: func(a *Asset) json.RawMessage { return json.RawMessage(a.ATH.String()) }},
	{key: "athDate", price: true, encode: func(a *Asset) json.RawMessage { return jsonTime(a.ATHDate) }},
	{key: "cheap", price: true, encode: func(a *Asset) json.RawMessage { return json.RawMessage(fmt.Sprint(a.Cheap)) }},
	{key: "percentBelow", price: true, encode: func(a *Asset) json.RawMessage { return json.RawMessage(a.PercentBelow.String()) }},
}

func knownField(key string) (assetField, bool) {
	for _, f := range assetFields {
		if f.key == key {
			return f, true
		}
	}
	return assetField{}, false
}

// hasPrices reports whether a freshly built asset carries price fields.
func (a *Asset) hasPrices() bool {
	return a.quoted || a.CurrentPriceDate != nil || a.ATHDate != nil ||
		!a.CurrentPrice.IsZero() || !a.ATH.IsZero()
}

// plainAsset has Asset's fields and tags but none of its methods.
type plainAsset Asset

// UnmarshalJSON decodes a catalog record and remembers its key order, its
// raw values and the keys the struct does not know.
func (a *Asset) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("asset: expected object, got %v", tok)
	}

	var (
		keys []string
		raw  = make(map[string]json.RawMessage)
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("asset: unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("asset: key %q: %w", key, err)
		}
		if _, seen := raw[key]; !seen {
			keys = append(keys, key)
		}
		raw[key] = value
	}

	var fields plainAsset
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	decoded := Asset(fields)
	snapshot := decoded
	*a = decoded
	a.keys = keys
	a.raw = raw
	a.decoded = &snapshot
	for _, key := range keys {
		if _, ok := knownField(key); ok {
			continue
		}
		if a.Extra == nil {
			a.Extra = make(map[string]json.RawMessage)
		}
		a.Extra[key] = raw[key]
	}
	return nil
}

// MarshalJSON writes the record. A decoded record keeps its key order and
// the original bytes of every unchanged value; keys it never had are only
// added when their value changed or the asset was refreshed. A record built
// in code writes the known keys in declaration order.
func (a Asset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value json.RawMessage) {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(jsonString(key))
		buf.WriteByte(':')
		buf.Write(value)
	}

	written := make(map[string]bool)

	for _, key := range a.keys {
		if f, ok := knownField(key); ok {
			if value, ok := a.fieldValue(f); ok {
				write(key, value)
			}
		} else if value, ok := a.Extra[key]; ok {
			write(key, value)
		}
		written[key] = true
	}

	for _, f := range assetFields {
		if written[f.key] {
			continue
		}
		if value, ok := a.fieldValue(f); ok {
			write(f.key, value)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(a.Extra)) {
		if !written[key] {
			write(key, a.Extra[key])
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a Asset) fieldValue(f assetField) (json.RawMessage, bool) {
	current := f.encode(&a)

	if a.decoded == nil {
		if f.price && !a.hasPrices() {
			return nil, false
		}
		if f.omit != nil && f.omit(&a) {
			return nil, false
		}
		return current, true
	}

	changed := !bytes.Equal(current, f.encode(a.decoded))
	raw, present := a.raw[f.key]
	switch {
	case present && !changed:
		return raw, true
	case present, changed:
		return current, true
	case f.price && a.quoted:
		if f.omit != nil && f.omit(&a) {
			return nil, false
		}
		return current, true
	}
	return nil, false
}

func jsonString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

func jsonTime(t *time.Time) json.RawMessage {
	if t == nil {
		return json.RawMessage("null")
	}
	return jsonString(t.Format(time.RFC3339Nano))
}
