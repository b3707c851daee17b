package object

import (
	"fmt"
	"io"
)

// Dump writes the fixed, bit-exact textual representation of obj: a symbol
// table section, then for each section a byte dump followed by a
// relocation table when non-empty.
func Dump(w io.Writer, obj *Object) error {
	d := &dumper{w: w, obj: obj}
	return d.dump()
}

type dumper struct {
	w   io.Writer
	obj *Object
}

func (d *dumper) dump() error {
	if err := d.dumpSymbols(); err != nil {
		return err
	}
	for _, sec := range d.obj.Sections {
		if err := d.dumpSection(sec); err != nil {
			return err
		}
	}
	return nil
}

func (d *dumper) dumpSymbols() error {
	if _, err := fmt.Fprintln(d.w, "number name section value scope"); err != nil {
		return err
	}
	for _, sym := range d.obj.Symbols {
		if _, err := fmt.Fprintf(d.w, "%d %s %d %d %s\n", sym.Number, sym.Name, sym.Section, sym.Value, sym.Scope); err != nil {
			return err
		}
	}
	return nil
}

func (d *dumper) dumpSection(sec SectionDump) error {
	if _, err := fmt.Fprintf(d.w, "section %d\n", sec.Number); err != nil {
		return err
	}
	for i, b := range sec.Bytes {
		if _, err := fmt.Fprintf(d.w, "%d : %02X\n", i, b); err != nil {
			return err
		}
	}
	if len(sec.Relocations) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(d.w, "offset type symbol"); err != nil {
		return err
	}
	for _, r := range sec.Relocations {
		if _, err := fmt.Fprintf(d.w, "0x%X %s %d\n", r.Offset, r.Type.Name(), r.Symbol); err != nil {
			return err
		}
	}
	return nil
}
