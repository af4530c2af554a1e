package core

import (
	"bytes"

	"github.com/tidwall/gjson"
)

// Payload wraps the raw event payload. Reads go through gjson paths so key
// order and number formatting survive untouched.
type Payload struct {
	raw []byte
}

func NewPayload(raw []byte) Payload {
	return Payload{raw: bytes.TrimSpace(append([]byte(nil), raw...))}
}

func (p Payload) Raw() []byte {
	return append([]byte(nil), p.raw...)
}

func (p Payload) IsEmpty() bool {
	return len(p.raw) == 0
}

// IsObject reports whether the payload is a well formed JSON object.
func (p Payload) IsObject() bool {
	if len(p.raw) == 0 || !gjson.ValidBytes(p.raw) {
		return false
	}
	return gjson.ParseBytes(p.raw).IsObject()
}

// Has reports whether key is present at the top level, regardless of value.
func (p Payload) Has(key string) bool {
	if !p.IsObject() {
		return false
	}
	_, ok := gjson.ParseBytes(p.raw).Map()[key]
	return ok
}

func (p Payload) Get(path string) gjson.Result {
	if len(p.raw) == 0 {
		return gjson.Result{}
	}
	return gjson.GetBytes(p.raw, path)
}

func (p Payload) String(path string) string {
	return p.Get(path).String()
}

// Run returns the run sub-object, or an empty object when absent.
func (p Payload) Run() gjson.Result {
	run := p.Get("run")
	if !run.IsObject() {
		return gjson.Parse("{}")
	}
	return run
}

func (p Payload) RunString(path string) string {
	return p.Run().Get(path).String()
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte("null"), nil
	}
	return p.Raw(), nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	*p = NewPayload(data)
	return nil
}
