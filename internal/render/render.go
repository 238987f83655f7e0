// Package render serialises clocktalk documents as property lists or JSON.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"howett.net/plist"
)

// Format selects an output encoding.
type Format string

const (
	XML      Format = "xml"      // XML plist, accepted by `defaults import`
	Binary   Format = "binary"   // binary plist, accepted by `defaults import`
	OpenStep Format = "openstep" // inline text form, accepted by `defaults write`
	JSON     Format = "json"     // indented JSON for inspection
)

var formats = []Format{JSON, XML, Binary, OpenStep}

// Formats lists the supported formats.
func Formats() []Format { return append([]Format(nil), formats...) }

// ParseFormat maps a name to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, 0, len(formats))
	for _, known := range formats {
		names = append(names, string(known))
	}
	return "", fmt.Errorf("unknown format %q (choose from %s)", s, strings.Join(names, ", "))
}

func (f Format) String() string { return string(f) }

// Set implements flag.Value.
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Marshal encodes v in format f. Text formats end with a newline.
func Marshal(v any, f Format) ([]byte, error) {
	switch f {
	case JSON:
		b, err := json.MarshalIndent(v, "", "    ")
		if err != nil {
			return nil, fmt.Errorf("json marshal: %w", err)
		}
		return append(b, '\n'), nil
	case XML:
		return marshalPlist(v, plist.XMLFormat)
	case Binary:
		return marshalPlist(v, plist.BinaryFormat)
	case OpenStep:
		return marshalPlist(v, plist.OpenStepFormat)
	default:
		return nil, fmt.Errorf("unknown format %q", string(f))
	}
}

func marshalPlist(v any, format int) ([]byte, error) {
	var buf bytes.Buffer
	enc := plist.NewEncoderForFormat(&buf, format)
	if format != plist.BinaryFormat {
		enc.Indent("\t")
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("plist marshal: %w", err)
	}
	if format != plist.BinaryFormat && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Write encodes v to w in format f.
func Write(w io.Writer, v any, f Format) error {
	b, err := Marshal(v, f)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Unmarshal decodes a plist in any format (XML, binary or OpenStep) into v.
func Unmarshal(data []byte, v any) error {
	if _, err := plist.Unmarshal(data, v); err != nil {
		return fmt.Errorf("plist unmarshal: %w", err)
	}
	return nil
}
