package catalog

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"

	"flexPlan/internal/fpp"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtin возвращает встроенный экземпляр по имени.
func Builtin(name string) (*fpp.Instance, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownBuiltin)
	}
	doc, err := Parse(data, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("builtin %q: %w", name, err)
	}
	return doc.Instance()
}

// MustBuiltin — Builtin с паникой при ошибке.
func MustBuiltin(name string) *fpp.Instance {
	inst, err := Builtin(name)
	if err != nil {
		panic(err)
	}
	return inst
}

// Builtins возвращает имена встроенных экземпляров по алфавиту.
func Builtins() []string {
	entries, _ := builtinFS.ReadDir("builtin")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(names)
	return names
}
