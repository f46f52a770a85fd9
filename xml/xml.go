// Package xml provides an XML document codec.
//
// Each document key becomes an element named after the key, in document
// order, under an <item> root. Values other than strings carry their kind
// in a "t" attribute so the document can be rebuilt exactly:
//
//	<item><type>BOW</type><amount t="int">2</amount>
//	  <lore t="list"><v>First line</v></lore></item>
package xml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/zoobzio/satchel/document"
)

const (
	rootElement = "item"
	listElement = "v"
	kindAttr    = "t"
)

// Value kinds carried in the "t" attribute. Strings carry no attribute.
const (
	kindInt   = "int"
	kindFloat = "float"
	kindBool  = "bool"
	kindNull  = "null"
	kindList  = "list"
	kindDoc   = "doc"
)

// ErrNotItem is returned when the root element is not <item>.
var ErrNotItem = errors.New("root element is not <item>")

// xmlCodec implements document.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
func New() document.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes d as an <item> element.
func (c *xmlCodec) Marshal(d *document.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := encodeElement(enc, rootElement, d); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes an <item> element, keeping child order.
func (c *xmlCodec) Unmarshal(data []byte) (*document.Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	start, err := nextStart(dec)
	if err != nil {
		return nil, err
	}
	if start.Name.Local != rootElement {
		return nil, ErrNotItem
	}
	v, err := decodeElement(dec, start)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*document.Document)
	if !ok {
		return nil, ErrNotItem
	}

	if _, err := nextStart(dec); err != io.ErrUnexpectedEOF {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected element after <item>")
	}
	return d, nil
}

// nextStart skips prolog, comments and whitespace up to the next start
// element. The end of input is reported as io.ErrUnexpectedEOF.
func nextStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return xml.StartElement{}, io.ErrUnexpectedEOF
		}
		if err != nil {
			return xml.StartElement{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return xml.StartElement{}, fmt.Errorf("unexpected text %q", string(t))
			}
		case xml.EndElement:
			return xml.StartElement{}, fmt.Errorf("unexpected </%s>", t.Name.Local)
		}
	}
}

func encodeElement(enc *xml.Encoder, name string, v any) error {
	if !validName(name) {
		return fmt.Errorf("key %q is not a valid element name", name)
	}
	v, err := document.Normalize(v)
	if err != nil {
		return err
	}

	start := xml.StartElement{Name: xml.Name{Local: name}}
	text := ""
	switch x := v.(type) {
	case nil:
		start.Attr = kind(kindNull)
	case bool:
		start.Attr = kind(kindBool)
		text = strconv.FormatBool(x)
	case string:
		text = x
	case int64:
		start.Attr = kind(kindInt)
		text = strconv.FormatInt(x, 10)
	case float64:
		start.Attr = kind(kindFloat)
		text = strconv.FormatFloat(x, 'g', -1, 64)
	case []any:
		start.Attr = kind(kindList)
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, e := range x {
			if err := encodeElement(enc, listElement, e); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	case *document.Document:
		if name != rootElement {
			start.Attr = kind(kindDoc)
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, f := range x.Fields() {
			if err := encodeElement(enc, f.Key, f.Value); err != nil {
				return fmt.Errorf("field %q: %w", f.Key, err)
			}
		}
		return enc.EncodeToken(start.End())
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func kind(k string) []xml.Attr {
	return []xml.Attr{{Name: xml.Name{Local: kindAttr}, Value: k}}
}

func kindOf(start xml.StartElement) string {
	for _, a := range start.Attr {
		if a.Name.Local == kindAttr {
			return a.Value
		}
	}
	return ""
}

func decodeElement(dec *xml.Decoder, start xml.StartElement) (any, error) {
	k := kindOf(start)
	if start.Name.Local == rootElement && k == "" {
		k = kindDoc
	}

	switch k {
	case kindDoc:
		d := document.New()
		err := children(dec, func(child xml.StartElement) error {
			v, err := decodeElement(dec, child)
			if err != nil {
				return err
			}
			d.Set(child.Name.Local, v)
			return nil
		})
		return d, err
	case kindList:
		out := []any{}
		err := children(dec, func(child xml.StartElement) error {
			if child.Name.Local != listElement {
				return fmt.Errorf("unexpected <%s> in list", child.Name.Local)
			}
			v, err := decodeElement(dec, child)
			if err != nil {
				return err
			}
			out = append(out, v)
			return nil
		})
		return out, err
	}

	text, err := textContent(dec)
	if err != nil {
		return nil, err
	}
	switch k {
	case "":
		return text, nil
	case kindNull:
		return nil, nil
	case kindBool:
		return strconv.ParseBool(text)
	case kindInt:
		return strconv.ParseInt(text, 10, 64)
	case kindFloat:
		return strconv.ParseFloat(text, 64)
	}
	return nil, fmt.Errorf("unknown value kind %q on <%s>", k, start.Name.Local)
}

// children calls fn for every child element until the parent closes.
// Whitespace between children is ignored.
func children(dec *xml.Decoder, fn func(xml.StartElement) error) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("unexpected text %q", string(t))
			}
		}
	}
}

// textContent reads character data up to the closing tag.
func textContent(dec *xml.Decoder) (string, error) {
	var buf bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			return "", fmt.Errorf("unexpected <%s> in text value", t.Name.Local)
		case xml.EndElement:
			return buf.String(), nil
		}
	}
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// validName accepts the subset of XML names item documents use.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || r == '.' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return len(s) < 3 || !(s[0]|0x20 == 'x' && s[1]|0x20 == 'm' && s[2]|0x20 == 'l')
}
