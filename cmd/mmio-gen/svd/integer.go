package svd

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Integer is an SVD scaledNonNegativeInteger: decimal, 0x hexadecimal or #
// binary.
type Integer uint64

func (i *Integer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var v string
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	return i.parse(v)
}

func (i *Integer) UnmarshalXMLAttr(attr xml.Attr) error {
	return i.parse(attr.Value)
}

func (i *Integer) parse(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		*i = 0
		return nil
	}

	var value uint64
	var err error
	switch lower := strings.ToLower(v); {
	case strings.HasPrefix(lower, "0x"):
		value, err = strconv.ParseUint(lower[2:], 16, 64)
	case strings.HasPrefix(lower, "#"):
		value, err = strconv.ParseUint(lower[1:], 2, 64)
	default:
		value, err = strconv.ParseUint(lower, 10, 64)
	}
	if err != nil {
		return err
	}
	*i = Integer(value)
	return nil
}
