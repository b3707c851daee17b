package object

import (
	"io"

	"gopkg.in/yaml.v3"
)

// DumpYAML writes obj as a YAML document: an alternate, machine-parseable
// serialization alongside the fixed textual dump in dump.go. Unlike Dump,
// this format is not bit-exact-pinned by any test; it exists for tooling
// that wants structured output (see cmd/asm/dump.go's --format flag).
func DumpYAML(w io.Writer, obj *Object) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(obj)
}
