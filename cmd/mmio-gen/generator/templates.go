package generator

import (
	"fmt"
	"strings"
	"text/template"
)

var funcMap = template.FuncMap{
	"hex":     func(v uint64) string { return fmt.Sprintf("0x%08X", v) },
	"hex32":   func(v uint32) string { return fmt.Sprintf("0x%08X", v) },
	"comment": comment,
	"upto": func(n uint8) []uint8 {
		out := make([]uint8, n)
		for i := range out {
			out[i] = uint8(i)
		}
		return out
	},
}

var templates = template.Must(template.New("").Funcs(funcMap).Parse(
	fileTmpl +
		registerTmpl +
		fieldTmpl +
		peripheralTmpl,
))

// comment renders text as the body of a // comment, one line per line of
// text.
func comment(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", "\n// ")
}

const fileTmpl = `{{define "file"}}// Code generated by mmio-gen. DO NOT EDIT.

package {{.Package}}

import "omibyte.io/mmio"
{{range .Registers}}
{{template "register" .}}
{{- end}}
{{template "peripheral" .}}
{{- end}}`

const registerTmpl = `{{define "register"}}
{{- if .Description}}
// {{.Type}}: {{comment .Description}}
{{- end}}
type {{.Type}} struct{}

func ({{.Type}}) Descriptor() mmio.Descriptor {
	return mmio.Descriptor{Base: {{hex .Base}}, Offset: {{hex .Offset}}, Reset: {{hex32 .Reset}}, Aliases: {{.Aliases}}}
}
{{range .Fields}}
{{template "field" .}}
{{- end}}
{{- end}}`

const fieldTmpl = `{{define "field"}}
{{- if .Description}}
// {{.Type}}: {{comment .Description}}
{{- end}}
type {{.Type}} struct {
	mmio.Of[{{.Register}}]
	mmio.{{.Marker}}
}

func ({{.Type}}) Span() mmio.Span {
	return mmio.Span{Offset: {{.Offset}}, Width: {{.Width}}{{if .Reset}}, Reset: {{hex32 .Reset}}{{end}}{{if .Sole}}, Sole: true{{end}}}
}

// Bit returns bit n of the field.
func ({{.Type}}) Bit(n uint8) mmio.Bit[{{.Register}}, {{.Type}}] {
	return mmio.Bit[{{.Register}}, {{.Type}}](n)
}

// Value returns v as a value of the field.
func ({{.Type}}) Value(v uint32) mmio.Value[{{.Register}}, {{.Type}}] {
	return mmio.Value[{{.Register}}, {{.Type}}](v)
}

const (
{{- $f := .}}
{{- range upto .Width}}
	{{$f.Type}}_BIT{{.}} = mmio.Bit[{{$f.Register}}, {{$f.Type}}]({{.}})
{{- end}}
)
{{- if .Values}}

const (
{{- range .Values}}
{{- if .Description}}
	// {{comment .Description}}
{{- end}}
	{{.Const}} = mmio.Value[{{$f.Register}}, {{$f.Type}}]({{.Value}})
{{- end}}
)
{{- end}}
{{- end}}`

const peripheralTmpl = `{{define "peripheral"}}
// {{.Type}} holds the register handles of {{.Name}}.
{{- if .Description}}
// {{comment .Description}}
{{- end}}
type {{.Type}} struct {
{{- range .Registers}}
	{{.Name}} mmio.{{.Handle}}[{{.Type}}]
{{- end}}
}

// New{{.Name}} opens the registers of {{.Name}} on bus.
func New{{.Name}}(bus mmio.Bus) *{{.Type}} {
	return &{{.Type}}{
{{- range .Registers}}
		{{.Name}}: mmio.{{.Open}}[{{.Type}}](bus),
{{- end}}
	}
}

// {{.Name}} is the {{.Name}} peripheral of the running chip.
var {{.Name}} = New{{.Name}}(mmio.Direct{})
{{end}}`
