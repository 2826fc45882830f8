package schema

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Resolve fills in the registers of derived peripherals. A peripheral with a
// derivedFrom reference and no registers of its own gets a copy of the
// registers of the peripheral it names, after that one has been resolved.
func (d *Device) Resolve() error {
	order, err := DeriveOrder(d.Peripherals, func(p Peripheral) (string, string) {
		return p.Name, p.DerivedFrom
	})
	if err != nil {
		return err
	}

	for _, i := range order {
		p := &d.Peripherals[i]
		if p.DerivedFrom == "" || len(p.Registers) > 0 {
			continue
		}
		src, _ := d.Peripheral(p.DerivedFrom)
		p.Registers = copyRegisters(src.Registers)
		if p.Description == "" {
			p.Description = src.Description
		}
	}
	return nil
}

func copyRegisters(regs []Register) []Register {
	out := make([]Register, len(regs))
	for i, r := range regs {
		out[i] = r
		out[i].Fields = make([]Field, len(r.Fields))
		for j, f := range r.Fields {
			out[i].Fields[j] = f
			out[i].Fields[j].Values = append([]EnumValue(nil), f.Values...)
		}
	}
	return out
}

type itemNode struct {
	id    int64
	index int
}

func (n itemNode) ID() int64 {
	return n.id
}

// DeriveOrder returns the indices of items ordered so that every item comes
// after the item it derives from. ref returns the name of an item and the
// name of the item it derives from, empty if none.
func DeriveOrder[T any](items []T, ref func(T) (name, base string)) ([]int, error) {
	g := simple.NewDirectedGraph()
	nodes := make(map[string]itemNode, len(items))
	for i, it := range items {
		name, _ := ref(it)
		n := itemNode{id: int64(i), index: i}
		nodes[name] = n
		g.AddNode(n)
	}

	var errs []error
	for _, it := range items {
		name, base := ref(it)
		if base == "" {
			continue
		}
		from, ok := nodes[base]
		if !ok {
			errs = append(errs, fmt.Errorf("%s derives from unknown %s", name, base))
			continue
		}
		if base == name {
			errs = append(errs, fmt.Errorf("%s derives from itself", name))
			continue
		}
		g.SetEdge(g.NewEdge(from, nodes[name]))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, errors.Join(errs...))
	}

	sorted, err := topo.Sort(g)
	if err != nil {
		var cycles topo.Unorderable
		if errors.As(err, &cycles) {
			return nil, fmt.Errorf("%w: derivedFrom cycle between %s", ErrInvalidSchema, cycleNames(cycles, items, ref))
		}
		return nil, err
	}

	order := make([]int, len(sorted))
	for i, n := range sorted {
		order[i] = n.(itemNode).index
	}
	return order, nil
}

func cycleNames[T any](cycles topo.Unorderable, items []T, ref func(T) (string, string)) string {
	var s string
	for _, component := range cycles {
		for _, n := range component {
			if s != "" {
				s += ", "
			}
			name, _ := ref(items[n.(itemNode).index])
			s += name
		}
	}
	return s
}

var _ graph.Node = itemNode{}
