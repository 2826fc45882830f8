package svd

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"omibyte.io/mmio"
	"omibyte.io/mmio/cmd/mmio-gen/schema"
)

var ErrUnsupported = errors.New("unsupported SVD construct")

// Options control the conversion of an SVD device. The SVD format has no
// notion of atomic alias windows or of reserved bits reading as zero, so they
// are given here.
type Options struct {
	Package            string
	Aliases            bool
	AssumeReservedZero bool
}

// registerProps are the properties registers inherit from their device and
// peripheral.
type registerProps struct {
	size   Integer
	access string
	reset  uint32
}

func (p registerProps) with(size Integer, access string, reset *Integer) registerProps {
	if size != 0 {
		p.size = size
	}
	if access != "" {
		p.access = access
	}
	if reset != nil {
		p.reset = uint32(*reset)
	}
	return p
}

// Convert maps d to a register schema. Derived peripherals and registers are
// resolved, register and cluster arrays are expanded and the result is
// validated.
func Convert(d *DeviceElement, opts Options) (*schema.Device, error) {
	out := &schema.Device{
		Package:            opts.Package,
		Aliases:            opts.Aliases,
		AssumeReservedZero: &opts.AssumeReservedZero,
	}
	if out.Package == "" {
		out.Package = Identifier(strings.ToLower(d.Name))
	}

	defaults := registerProps{size: 32, access: d.DefaultAccess, reset: uint32(d.ResetValue)}
	defaults = defaults.with(d.RegisterSize, "", nil)

	for _, p := range d.Peripherals.Elements {
		if p.Count > 1 {
			return nil, fmt.Errorf("peripheral %s: peripheral arrays: %w", p.Name, ErrUnsupported)
		}

		regs, err := convertPeripheral(p, defaults.with(p.Size, p.Access, p.ResetValue))
		if err != nil {
			return nil, fmt.Errorf("peripheral %s: %w", p.Name, err)
		}
		out.Peripherals = append(out.Peripherals, schema.Peripheral{
			Name:        Identifier(p.Name),
			Base:        uint64(p.BaseAddress),
			Description: clean(p.Description),
			DerivedFrom: Identifier(p.DerivedFrom),
			Registers:   regs,
		})
	}

	if err := out.Resolve(); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func convertPeripheral(p PeripheralElement, props registerProps) ([]schema.Register, error) {
	elems, err := resolveRegisters(p.Registers.RegisterElements)
	if err != nil {
		return nil, err
	}

	var flat []RegisterElement
	for _, r := range elems {
		expanded, err := expand(r)
		if err != nil {
			return nil, err
		}
		flat = append(flat, expanded...)
	}
	for _, c := range p.Registers.ClusterElements {
		regs, err := flattenCluster(c)
		if err != nil {
			return nil, err
		}
		flat = append(flat, regs...)
	}

	var out []schema.Register
	for _, r := range flat {
		if r.Alternative != "" {
			log.Printf("skipping %s.%s: alternate view of %s", p.Name, r.Name, r.Alternative)
			continue
		}
		sr, err := convertRegister(r, props)
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", r.Name, err)
		}
		out = append(out, sr)
	}
	return out, nil
}

// resolveRegisters fills in registers derived from another register of the
// same peripheral. A derived register keeps its own name, offset and
// description and takes everything else from its base.
func resolveRegisters(regs []RegisterElement) ([]RegisterElement, error) {
	order, err := schema.DeriveOrder(regs, func(r RegisterElement) (string, string) {
		return r.Name, r.DerivedFrom
	})
	if err != nil {
		return nil, err
	}

	out := append([]RegisterElement(nil), regs...)
	byName := map[string]int{}
	for i, r := range out {
		byName[r.Name] = i
	}
	for _, i := range order {
		r := out[i]
		if r.DerivedFrom == "" {
			continue
		}
		derived := out[byName[r.DerivedFrom]]
		derived.Name = r.Name
		derived.AddressOffset = r.AddressOffset
		derived.DerivedFrom = ""
		if r.Description != "" {
			derived.Description = r.Description
		}
		out[i] = derived
	}
	return out, nil
}

// expand turns a register array into its elements.
func expand(r RegisterElement) ([]RegisterElement, error) {
	if r.Count <= 1 {
		return []RegisterElement{r}, nil
	}

	indices, err := dimIndices(r.Index, int(r.Count))
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", r.Name, err)
	}
	out := make([]RegisterElement, len(indices))
	for i, idx := range indices {
		e := r
		e.Name = dimName(r.Name, idx)
		e.AddressOffset = r.AddressOffset + Integer(i)*r.Increment
		e.Count = 0
		out[i] = e
	}
	return out, nil
}

// flattenCluster returns the registers of every instance of c, named
// <cluster>_<register> at their offset from the peripheral base.
func flattenCluster(c ClusterElement) ([]RegisterElement, error) {
	count := int(c.Count)
	if count < 1 {
		count = 1
	}
	indices := []string{""}
	if c.Count > 1 {
		var err error
		if indices, err = dimIndices(c.Index, count); err != nil {
			return nil, fmt.Errorf("cluster %s: %w", c.Name, err)
		}
	}

	var out []RegisterElement
	for i, idx := range indices {
		prefix := dimName(c.Name, idx)
		base := c.AddressOffset + Integer(i)*c.Increment
		for _, r := range c.Registers {
			expanded, err := expand(r)
			if err != nil {
				return nil, fmt.Errorf("cluster %s: %w", prefix, err)
			}
			for _, e := range expanded {
				e.Name = prefix + "_" + e.Name
				e.AddressOffset += base
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func dimName(name, index string) string {
	name = strings.ReplaceAll(name, "[%s]", index)
	return strings.ReplaceAll(name, "%s", index)
}

// dimIndices parses a dimIndex list: empty for 0..n-1, a range like 0-3 or
// A-D, or a comma separated list.
func dimIndices(index string, n int) ([]string, error) {
	var out []string
	switch {
	case index == "":
		for i := 0; i < n; i++ {
			out = append(out, strconv.Itoa(i))
		}
	case strings.Contains(index, ","):
		for _, s := range strings.Split(index, ",") {
			out = append(out, strings.TrimSpace(s))
		}
	case strings.Contains(index, "-"):
		lo, hi, _ := strings.Cut(index, "-")
		if a, err := strconv.Atoi(lo); err == nil {
			b, err := strconv.Atoi(hi)
			if err != nil {
				return nil, fmt.Errorf("dimIndex %q: %w", index, ErrUnsupported)
			}
			for i := a; i <= b; i++ {
				out = append(out, strconv.Itoa(i))
			}
		} else if len(lo) == 1 && len(hi) == 1 {
			for c := lo[0]; c <= hi[0]; c++ {
				out = append(out, string(c))
			}
		}
	default:
		out = []string{index}
	}

	if len(out) != n {
		return nil, fmt.Errorf("dimIndex %q has %d entries for dim %d: %w", index, len(out), n, ErrUnsupported)
	}
	return out, nil
}

func convertRegister(r RegisterElement, props registerProps) (schema.Register, error) {
	props = props.with(r.Size, r.Access, r.ResetValue)
	if props.size != mmio.RegisterWidth {
		return schema.Register{}, fmt.Errorf("%d-bit register: %w", props.size, ErrUnsupported)
	}

	sr := schema.Register{
		Name:        Identifier(r.Name),
		Description: clean(r.Description),
		Offset:      uint64(r.AddressOffset),
	}

	fields := r.Fields.Elements
	if len(fields) == 0 {
		// A register without fields is one field covering all of it.
		fields = []FieldElement{{Name: "VALUE", BitRange: "[31:0]"}}
	}

	var used uint32
	kinds := map[mmio.FieldKind]int{}
	for _, f := range fields {
		offset, width, err := bitPlacement(f)
		if err != nil {
			return schema.Register{}, fmt.Errorf("field %s: %w", f.Name, err)
		}

		access := f.Access
		if access == "" {
			access = props.access
		}
		modified := f.ModifiedWrite
		if modified == "" {
			modified = r.ModifiedWrite
		}
		kind, err := fieldKind(access, modified, f.Description)
		if err != nil {
			return schema.Register{}, fmt.Errorf("field %s: %w", f.Name, err)
		}
		kinds[kind]++

		s := mmio.Span{Offset: offset, Width: width}
		used |= s.Mask()
		sr.Fields = append(sr.Fields, schema.Field{
			Name:        Identifier(f.Name),
			Description: clean(f.Description),
			Offset:      offset,
			Width:       width,
			Access:      kind.String(),
			Reset:       s.Extract(props.reset),
			Values:      enumValues(f, s),
		})
	}
	sr.Reset = props.reset & used

	switch len(fields) {
	case kinds[mmio.KindReadOnly]:
		sr.Access = schema.AccessReadOnly
	case kinds[mmio.KindWriteOnly]:
		sr.Access = schema.AccessWriteOnly
	default:
		sr.Access = schema.AccessReadWrite
	}
	return sr, nil
}

func bitPlacement(f FieldElement) (offset, width uint8, err error) {
	switch {
	case f.BitOffset != nil:
		w := f.BitWidth
		if w == 0 {
			w = 1
		}
		return uint8(*f.BitOffset), uint8(w), nil
	case f.LSB != nil:
		if f.MSB < *f.LSB {
			return 0, 0, fmt.Errorf("msb %d below lsb %d: %w", f.MSB, *f.LSB, ErrUnsupported)
		}
		return uint8(*f.LSB), uint8(f.MSB - *f.LSB + 1), nil
	case f.BitRange != "":
		var msb, lsb uint8
		if _, err := fmt.Sscanf(f.BitRange, "[%d:%d]", &msb, &lsb); err != nil || msb < lsb {
			return 0, 0, fmt.Errorf("bitRange %q: %w", f.BitRange, ErrUnsupported)
		}
		return lsb, msb - lsb + 1, nil
	}
	return 0, 0, fmt.Errorf("no bit position: %w", ErrUnsupported)
}

// fieldKind maps SVD access and modifiedWriteValues to a field kind. Fields
// documented as self-clearing become SelfClearing.
func fieldKind(access, modified, description string) (mmio.FieldKind, error) {
	var kind mmio.FieldKind
	switch access {
	case "read-only":
		return mmio.KindReadOnly, nil
	case "write-only", "writeOnce":
		kind = mmio.KindWriteOnly
	case "read-write", "read-writeOnce", "":
		kind = mmio.KindReadWrite
	default:
		return 0, fmt.Errorf("access %q: %w", access, ErrUnsupported)
	}

	if modified == "oneToClear" {
		return mmio.KindWriteClear, nil
	}
	desc := strings.ToLower(description)
	if strings.Contains(desc, "self-clearing") || strings.Contains(desc, "self clearing") {
		return mmio.KindSelfClearing, nil
	}
	return kind, nil
}

func enumValues(f FieldElement, s mmio.Span) []schema.EnumValue {
	var out []schema.EnumValue
	seen := map[string]bool{}
	for _, set := range f.EnumeratedValues {
		for _, e := range set.Elements {
			if e.IsDefault {
				continue
			}
			name := Identifier(e.Name)
			if seen[name] {
				continue
			}

			var v Integer
			if err := v.parse(e.Value); err != nil {
				log.Printf("field %s: skipping value %s = %q: %v", f.Name, e.Name, e.Value, err)
				continue
			}
			if !s.Fits(uint32(v)) || uint64(v) > uint64(^uint32(0)) {
				log.Printf("field %s: skipping value %s = %#x wider than the field", f.Name, e.Name, uint64(v))
				continue
			}

			seen[name] = true
			out = append(out, schema.EnumValue{
				Name:        name,
				Value:       uint32(v),
				Description: clean(e.Description),
			})
		}
	}
	return out
}

// Identifier turns an SVD name into a Go identifier.
func Identifier(name string) string {
	if name == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
