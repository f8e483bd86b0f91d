package doctree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// wireNode is the canonical JSON shape: {"TYPE": kind, "VALUE": payload}.
type wireNode struct {
	Type  Kind `json:"TYPE"`
	Value any  `json:"VALUE"`
}

// Decode parses a JSON tree. Both the TYPE/VALUE and the lowercase
// type/value spellings are accepted. Only malformed JSON is an error.
func Decode(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	return FromValue(v), nil
}

// FromValue converts a generic JSON value into a Node.
func FromValue(v any) Node {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return Text(val)
	case json.Number:
		return Text(val.String())
	case float64:
		return Text(fmt.Sprint(val))
	case bool:
		return Text(fmt.Sprint(val))
	case []any:
		seq := make(Seq, 0, len(val))
		for _, item := range val {
			if n := FromValue(item); n != nil {
				seq = append(seq, n)
			}
		}
		return seq
	case map[string]any:
		return fromObject(val)
	}
	return nil
}

func fromObject(m map[string]any) Node {
	kind := Kind(strings.TrimSpace(stringField(m, "TYPE", "type")))
	payload := FromValue(field(m, "VALUE", "value"))
	if kind == kindText {
		if payload == nil {
			return Text("")
		}
		return payload
	}
	return &Container{Kind: kind, Payload: payload}
}

func field(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

func stringField(m map[string]any, keys ...string) string {
	s, _ := field(m, keys...).(string)
	return s
}

// Encode renders n in the canonical TYPE/VALUE shape.
func Encode(n Node) ([]byte, error) {
	return encode(n, "")
}

// EncodeIndent renders n with two-space indentation.
func EncodeIndent(n Node) (string, error) {
	b, err := encode(n, "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encode(n Node, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(toValue(n)); err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func toValue(n Node) any {
	switch v := n.(type) {
	case Text:
		return wireNode{Type: kindText, Value: string(v)}
	case Seq:
		out := make([]any, 0, len(v))
		for _, c := range v {
			out = append(out, toValue(c))
		}
		return out
	case *Container:
		if v == nil {
			return nil
		}
		value := toValue(v.Payload)
		if value == nil {
			value = []any{}
		}
		return wireNode{Type: v.Kind, Value: value}
	}
	return nil
}
