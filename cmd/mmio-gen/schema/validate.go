package schema

import (
	"errors"
	"fmt"
	"go/token"

	"golang.org/x/exp/slices"

	"omibyte.io/mmio"
)

var ErrInvalidSchema = errors.New("invalid register schema")

// YAML reads an unquoted null, Null, NULL or ~ as null, which decodes to an
// empty name.
const nullNameHint = "; quote names YAML reads as null, such as NULL"

// Validate checks d and reports every problem found, wrapped in
// ErrInvalidSchema.
func (d *Device) Validate() error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if d.Package != "" && !token.IsIdentifier(d.Package) {
		report("package %q is not an identifier", d.Package)
	}

	seenPeriph := map[string]bool{}
	for _, p := range d.Peripherals {
		if !token.IsIdentifier(p.Name) {
			report("peripheral %q: name is not an identifier", p.Name)
		}
		if seenPeriph[p.Name] {
			report("peripheral %s: duplicate name", p.Name)
		}
		seenPeriph[p.Name] = true

		if p.Base%4 != 0 {
			report("peripheral %s: base %#x is not word aligned", p.Name, p.Base)
		}
		if p.HasAliases(d.Aliases) && p.Base&uint64(mmio.AliasClear) != 0 {
			report("peripheral %s: base %#x overlaps the alias windows", p.Name, p.Base)
		}

		seenReg := map[string]bool{}
		for _, r := range p.Registers {
			where := p.Name + "." + r.Name
			if !token.IsIdentifier(r.Name) {
				report("%s: register name is not an identifier", where)
			}
			if seenReg[r.Name] {
				report("%s: duplicate register", where)
			}
			seenReg[r.Name] = true
			if r.Offset%4 != 0 {
				report("%s: offset %#x is not word aligned", where, r.Offset)
			}
			if p.HasAliases(d.Aliases) && (p.Base+r.Offset)&uint64(mmio.AliasClear) != 0 {
				report("%s: address %#x overlaps the alias windows", where, p.Base+r.Offset)
			}
			errs = append(errs, validateRegister(where, r)...)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSchema, errors.Join(errs...))
	}
	return nil
}

func validateRegister(where string, r Register) []error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %s", where, fmt.Sprintf(format, args...)))
	}

	access := r.RegisterAccess()
	if !slices.Contains([]string{AccessReadOnly, AccessWriteOnly, AccessReadWrite}, access) {
		report("unknown register access %q", access)
		return errs
	}

	fields := slices.Clone(r.Fields)
	slices.SortFunc(fields, func(a, b Field) bool { return a.Offset < b.Offset })

	seen := map[string]bool{}
	var used uint32
	var reset uint32
	for _, f := range fields {
		fwhere := f.Name
		if f.Name == "" {
			report("field at bit %d has no name%s", f.Offset, nullNameHint)
		} else if !token.IsIdentifier(f.Name) {
			report("field %q: name is not an identifier", f.Name)
		}
		if seen[f.Name] {
			report("field %s: duplicate name", fwhere)
		}
		seen[f.Name] = true

		s := f.Span()
		if !s.Valid() {
			report("field %s: bits [%d:%d) do not fit a %d-bit register", fwhere, f.Offset, int(f.Offset)+int(f.Width), mmio.RegisterWidth)
			continue
		}
		if used&s.Mask() != 0 {
			report("field %s: overlaps another field", fwhere)
		}
		used |= s.Mask()

		if !s.Fits(f.Reset) {
			report("field %s: reset value %#x does not fit %d bits", fwhere, f.Reset, f.Width)
		}
		reset |= s.Insert(f.Reset)

		kind, err := f.Kind(access)
		if err != nil {
			report("field %s: %v", fwhere, err)
			continue
		}
		switch access {
		case AccessReadOnly:
			if kind != mmio.KindReadOnly {
				report("field %s: %s field in a read-only register", fwhere, kind)
			}
		case AccessWriteOnly:
			if kind != mmio.KindWriteOnly {
				report("field %s: %s field in a write-only register", fwhere, kind)
			}
		}

		seenValue := map[string]bool{}
		for _, v := range f.Values {
			if v.Name == "" {
				report("field %s: value %d has no name%s", fwhere, v.Value, nullNameHint)
			} else if !token.IsIdentifier(v.Name) {
				report("field %s: value name %q is not an identifier", fwhere, v.Name)
			}
			if seenValue[v.Name] {
				report("field %s: duplicate value %s", fwhere, v.Name)
			}
			seenValue[v.Name] = true
			if !s.Fits(v.Value) {
				report("field %s: value %s = %#x does not fit %d bits", fwhere, v.Name, v.Value, f.Width)
			}
		}
	}

	if r.Reset&used != reset {
		report("register reset %#x disagrees with the field resets %#x", r.Reset&used, reset)
	}
	return errs
}
