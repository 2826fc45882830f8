// Package svd reads CMSIS-SVD device descriptions and converts them to the
// mmio-gen register schema.
package svd

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

type DeviceElement struct {
	Name          string             `xml:"name"`
	Description   string             `xml:"description"`
	Series        string             `xml:"series"`
	Version       string             `xml:"version"`
	Vendor        string             `xml:"vendor"`
	CPU           CPUElement         `xml:"cpu"`
	BitWidth      Integer            `xml:"width"`
	RegisterSize  Integer            `xml:"size"`
	DefaultAccess string             `xml:"access"`
	ResetValue    Integer            `xml:"resetValue"`
	Peripherals   PeripheralsElement `xml:"peripherals"`
}

type CPUElement struct {
	Name     string `xml:"name"`
	Revision string `xml:"revision"`
	Endian   string `xml:"endian"`
}

type PeripheralsElement struct {
	Elements []PeripheralElement `xml:"peripheral"`
}

func (p PeripheralsElement) Find(name string) (int, bool) {
	if len(name) > 0 {
		for i, pp := range p.Elements {
			if pp.Name == name {
				return i, true
			}
		}
	}
	return -1, false
}

type PeripheralElement struct {
	Name        string           `xml:"name"`
	Description string           `xml:"description"`
	Group       string           `xml:"groupName"`
	BaseAddress Integer          `xml:"baseAddress"`
	Size        Integer          `xml:"size"`
	Access      string           `xml:"access"`
	ResetValue  *Integer         `xml:"resetValue"`
	Registers   RegistersElement `xml:"registers"`
	DerivedFrom string           `xml:"derivedFrom,attr"`
	Count       Integer          `xml:"dim"`
}

type RegistersElement struct {
	RegisterElements []RegisterElement `xml:"register"`
	ClusterElements  []ClusterElement  `xml:"cluster"`
}

type ClusterElement struct {
	Name          string            `xml:"name"`
	Description   string            `xml:"description"`
	Count         Integer           `xml:"dim"`
	Increment     Integer           `xml:"dimIncrement"`
	Index         string            `xml:"dimIndex"`
	AddressOffset Integer           `xml:"addressOffset"`
	Registers     []RegisterElement `xml:"register"`
}

type RegisterElement struct {
	Name          string        `xml:"name"`
	Description   string        `xml:"description"`
	AddressOffset Integer       `xml:"addressOffset"`
	Size          Integer       `xml:"size"`
	Access        string        `xml:"access"`
	ResetValue    *Integer      `xml:"resetValue"`
	Fields        FieldElements `xml:"fields"`
	Count         Integer       `xml:"dim"`
	Increment     Integer       `xml:"dimIncrement"`
	Index         string        `xml:"dimIndex"`
	DerivedFrom   string        `xml:"derivedFrom,attr"`
	Alternative   string        `xml:"alternateRegister"`
	ModifiedWrite string        `xml:"modifiedWriteValues"`
}

type FieldElements struct {
	Elements []FieldElement `xml:"field"`
}

type FieldElement struct {
	Name             string                    `xml:"name"`
	Description      string                    `xml:"description"`
	BitOffset        *Integer                  `xml:"bitOffset"`
	BitWidth         Integer                   `xml:"bitWidth"`
	LSB              *Integer                  `xml:"lsb"`
	MSB              Integer                   `xml:"msb"`
	BitRange         string                    `xml:"bitRange"`
	Access           string                    `xml:"access"`
	ModifiedWrite    string                    `xml:"modifiedWriteValues"`
	EnumeratedValues []EnumeratedValuesElement `xml:"enumeratedValues"`
}

type EnumeratedValuesElement struct {
	Name     string                   `xml:"name"`
	Usage    string                   `xml:"usage"`
	Elements []EnumeratedValueElement `xml:"enumeratedValue"`
}

type EnumeratedValueElement struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Value       string `xml:"value"`
	IsDefault   bool   `xml:"isDefault"`
}

// Decode reads an SVD document.
func Decode(r io.Reader) (*DeviceElement, error) {
	var d DeviceElement
	if err := xml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("xml decode error: %w", err)
	}
	return &d, nil
}

// Load reads the SVD document at path.
func Load(path string) (*DeviceElement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
