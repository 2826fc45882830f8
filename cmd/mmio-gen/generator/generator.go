// Package generator emits the Go register and field types of a schema.
//
// Every peripheral becomes one file. A register CTRL of peripheral TIMER is
// the type TIMER_CTRL, its field EN the type TIMER_CTRL_EN with the bit
// constants TIMER_CTRL_EN_BIT0.. and one constant per enumerated value. The
// peripheral itself is a struct of register handles, TIMER_Type, with a
// constructor NewTIMER and a package variable TIMER bound to mmio.Direct.
package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/tools/imports"

	"omibyte.io/mmio"
	"omibyte.io/mmio/cmd/mmio-gen/schema"
)

var (
	ErrFormat            = errors.New("generated code does not format")
	ErrUnknownPeripheral = errors.New("unknown peripheral")
	errNoPackage         = errors.New("no package name")
)

// markers are the kind marker types of package mmio by field kind.
var markers = map[mmio.FieldKind]string{
	mmio.KindReadOnly:     "ReadOnly",
	mmio.KindWriteOnly:    "WriteOnly",
	mmio.KindReadWrite:    "ReadWrite",
	mmio.KindSelfClearing: "SelfClearing",
	mmio.KindWriteClear:   "WriteClear",
}

// File is one generated source file.
type File struct {
	Name   string
	Source []byte
}

// --- Template data types ---

type fileData struct {
	Package     string
	Name        string
	Type        string
	Description string
	Registers   []registerData
}

type registerData struct {
	Name        string
	Type        string
	Description string
	Base        uint64
	Offset      uint64
	Reset       uint32
	Aliases     bool
	Handle      string
	Open        string
	Fields      []fieldData
}

type fieldData struct {
	Type        string
	Register    string
	Description string
	Marker      string
	Offset      uint8
	Width       uint8
	Reset       uint32
	Sole        bool
	Values      []valueData
}

type valueData struct {
	Const       string
	Value       uint32
	Description string
}

// Generate renders the peripherals of d. With only set, just the peripherals
// named in it are rendered.
func Generate(d *schema.Device, only []string) ([]File, error) {
	periphs, err := selected(d, only)
	if err != nil {
		return nil, err
	}

	var files []File
	for _, p := range periphs {
		name := FileName(p.Name)
		code, err := Render(d, p)
		if err != nil {
			return files, err
		}
		src, err := Format(name, code)
		if err != nil {
			return files, err
		}
		files = append(files, File{Name: name, Source: src})
	}
	return files, nil
}

// Write generates the peripherals of d into dir and returns the paths
// written. Output that does not format is written to <file>.broken for
// inspection and ErrFormat is returned.
func Write(d *schema.Device, dir string, only []string) ([]string, error) {
	periphs, err := selected(d, only)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	var written []string
	for _, p := range periphs {
		path := filepath.Join(dir, FileName(p.Name))
		code, err := Render(d, p)
		if err != nil {
			return written, err
		}
		if err := writeFormatted(path, code); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func selected(d *schema.Device, only []string) ([]schema.Peripheral, error) {
	if d.Package == "" {
		return nil, errNoPackage
	}
	for _, name := range only {
		if _, ok := d.Peripheral(name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPeripheral, name)
		}
	}

	var out []schema.Peripheral
	for _, p := range d.Peripherals {
		if len(only) == 0 || slices.Contains(only, p.Name) {
			out = append(out, p)
		}
	}
	return out, nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := Format(path, code)
	if err != nil {
		// Write unformatted so the generator output can be debugged
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return err
	}
	return os.WriteFile(path, formatted, 0o644)
}

// Format runs goimports over code.
func Format(path string, code string) ([]byte, error) {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, filepath.Base(path), err)
	}
	return formatted, nil
}

// FileName returns the name of the file generated for a peripheral.
func FileName(peripheral string) string {
	return strings.ToLower(peripheral) + "_gen.go"
}

// Render returns the unformatted source of peripheral p.
func Render(d *schema.Device, p schema.Peripheral) (string, error) {
	data, err := peripheralData(d, p)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, "file", data); err != nil {
		return "", fmt.Errorf("template file: %w", err)
	}
	return b.String(), nil
}

func peripheralData(d *schema.Device, p schema.Peripheral) (fileData, error) {
	data := fileData{
		Package:     d.Package,
		Name:        p.Name,
		Type:        p.Name + "_Type",
		Description: p.Description,
	}
	aliases := p.HasAliases(d.Aliases)

	for _, r := range p.Registers {
		rd := registerData{
			Name:        r.Name,
			Type:        p.Name + "_" + r.Name,
			Description: r.Description,
			Base:        p.Base,
			Offset:      r.Offset,
			Reset:       r.Reset,
			Aliases:     aliases,
		}
		switch r.RegisterAccess() {
		case schema.AccessReadOnly:
			rd.Handle, rd.Open = "ReadOnlyRegister", "OpenReadOnly"
		case schema.AccessWriteOnly:
			rd.Handle, rd.Open = "WriteOnlyRegister", "OpenWriteOnly"
		default:
			rd.Handle, rd.Open = "ReadWriteRegister", "OpenReadWrite"
		}

		for _, f := range r.Fields {
			kind, err := f.Kind(r.RegisterAccess())
			if err != nil {
				return fileData{}, fmt.Errorf("%s.%s.%s: %w", p.Name, r.Name, f.Name, err)
			}

			fd := fieldData{
				Type:        rd.Type + "_" + f.Name,
				Register:    rd.Type,
				Description: f.Description,
				Marker:      markers[kind],
				Offset:      f.Offset,
				Width:       f.Width,
				Reset:       f.Reset,
				Sole:        d.ReservedZero() && len(r.Fields) == 1,
			}
			for _, v := range f.Values {
				fd.Values = append(fd.Values, valueData{
					Const:       fd.Type + "_" + v.Name,
					Value:       v.Value,
					Description: v.Description,
				})
			}
			rd.Fields = append(rd.Fields, fd)
		}
		data.Registers = append(data.Registers, rd)
	}
	return data, nil
}
