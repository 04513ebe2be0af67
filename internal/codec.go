package internal

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"paygate/entity"
	"strings"
)

const xmlRoot = "xml"

// Codec encodes V2 messages as flat <xml> documents and V3 bodies as JSON.
type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

// EncodeXml writes <xml><k>v</k>...</xml> with keys in ascending order.
func (c *Codec) EncodeXml(fields entity.Fields) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<" + xmlRoot + ">")
	for _, key := range fields.Keys() {
		if !validXmlName(key) {
			return nil, fmt.Errorf("encode xml: invalid field name %q", key)
		}
		buf.WriteString("<" + key + ">")
		if err := xml.EscapeText(&buf, []byte(fields[key])); err != nil {
			return nil, fmt.Errorf("encode xml: %v", err)
		}
		buf.WriteString("</" + key + ">")
	}
	buf.WriteString("</" + xmlRoot + ">")
	return buf.Bytes(), nil
}

// DecodeXml reads the direct children of the root element; names are lower-cased
// and CDATA sections are unwrapped.
func (c *Codec) DecodeXml(data []byte) (entity.Fields, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	fields := entity.Fields{}
	depth := 0
	var current string
	var text strings.Builder
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %v", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				current = strings.ToLower(t.Name.Local)
				text.Reset()
			}
		case xml.CharData:
			if depth == 2 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				fields[current] = text.String()
			}
			depth--
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("decode xml: unbalanced document")
	}
	return fields, nil
}

// EncodeJson keeps non-ASCII and HTML characters unescaped.
func (c *Codec) EncodeJson(value any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, fmt.Errorf("encode json: %v", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeJson decodes a JSON object; numbers are kept as json.Number. An empty body is an empty map.
func (c *Codec) DecodeJson(data []byte) (map[string]any, error) {
	result := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return result, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("decode json: %v", err)
	}
	return result, nil
}

func validXmlName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r == '-' || r == '.' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}
