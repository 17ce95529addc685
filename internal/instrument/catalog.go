package instrument

import (
	"fmt"
)

// Catalog resolves instrument names to instruments. It holds the presets
// plus any custom instruments, all tuned against one reference. A Catalog
// is never modified after NewCatalog returns and is safe for concurrent use.
type Catalog struct {
	reference float64
	order     []string
	byName    map[string]*Instrument
}

// NewCatalog builds the presets tuned against reference and adds custom
// instruments after them. Custom instruments must share the catalog's
// reference and may not reuse a name.
func NewCatalog(reference float64, custom ...*Instrument) (*Catalog, error) {
	c := &Catalog{
		reference: reference,
		byName:    make(map[string]*Instrument, len(presets)+len(custom)),
	}

	for _, p := range Presets() {
		inst, err := p.Instrument(reference)
		if err != nil {
			return nil, err
		}
		c.add(inst)
	}

	for _, inst := range custom {
		if _, exists := c.byName[inst.Name()]; exists {
			return nil, &DefinitionError{Name: inst.Name(), Message: "name is already defined"}
		}
		if inst.Reference() != reference {
			return nil, &DefinitionError{
				Name:    inst.Name(),
				Message: fmt.Sprintf("tuned to A4 = %v Hz, catalog uses %v Hz", inst.Reference(), reference),
			}
		}
		c.add(inst)
	}

	return c, nil
}

func (c *Catalog) add(inst *Instrument) {
	c.order = append(c.order, inst.Name())
	c.byName[inst.Name()] = inst
}

// Lookup returns the instrument with exactly this name.
func (c *Catalog) Lookup(name string) (*Instrument, error) {
	inst, ok := c.byName[name]
	if !ok {
		return nil, &UnknownError{Name: name, Known: c.Names()}
	}
	return inst, nil
}

// Names lists instrument names, presets first, then custom instruments in
// the order given.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Instruments lists instruments in Names order.
func (c *Catalog) Instruments() []*Instrument {
	out := make([]*Instrument, len(c.order))
	for i, name := range c.order {
		out[i] = c.byName[name]
	}
	return out
}

// Reference returns the A4 frequency the catalog is tuned against.
func (c *Catalog) Reference() float64 {
	return c.reference
}
