package codec

import gojson "github.com/goccy/go-json"

// GoJSON is the default snapshot codec, backed by github.com/goccy/go-json.
//
// Snapshots are never embedded in HTML, so string columns (SMILES, ids) are
// written without escaping '<', '>' and '&'. The output stays plain JSON and
// decodes with the JSON codec too.
type GoJSON struct{}

// Name returns the unique name of the codec ("go-json").
func (GoJSON) Name() string { return "go-json" }

// Marshal encodes v without HTML escaping. Non-finite floats are rejected.
func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.MarshalNoEscape(v) }

// Unmarshal decodes the JSON data into v.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }
