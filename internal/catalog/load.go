package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"flexPlan/internal/fpp"
)

// Format — формат файла экземпляра.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf определяет формат по расширению файла.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// Load читает экземпляр из файла. Если в документе нет имени,
// используется имя файла без расширения.
func Load(path string) (*fpp.Instance, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instance: %w", err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	inst, err := doc.Instance()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

// Parse разбирает документ заданного формата.
func Parse(data []byte, format Format) (Document, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		var doc Document
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return doc, nil
	case FormatTOML:
		var doc Document
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return doc, nil
	default:
		return Document{}, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}

func parseJSON(data []byte) (Document, error) {
	if !gjson.ValidBytes(data) {
		return Document{}, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Document{}, fmt.Errorf("%w: top level must be an object", ErrMalformed)
	}

	doc := Document{Name: root.Get("name").String()}
	ch, err := costTable(root.Get("changeover"), "changeover")
	if err != nil {
		return Document{}, err
	}
	doc.Changeover = fpp.Changeover{
		Machine: ch["machine"],
		Tool:    ch["tool"],
		Setup:   ch["setup"],
	}

	if doc.Machines, err = costTable(root.Get("machines"), "machines"); err != nil {
		return Document{}, err
	}
	if doc.Tools, err = costTable(root.Get("tools"), "tools"); err != nil {
		return Document{}, err
	}

	ops := root.Get("operations")
	if !ops.IsArray() {
		return Document{}, fmt.Errorf("%w: operations must be an array", ErrMalformed)
	}
	for i, o := range ops.Array() {
		if !o.IsObject() {
			return Document{}, fmt.Errorf("%w: operations[%d] must be an object", ErrMalformed, i)
		}
		doc.Operations = append(doc.Operations, OperationDoc{
			ID:          o.Get("id").String(),
			Alternative: stringList(o.Get("alternative")),
			Prior:       stringList(o.Get("prior")),
			Machine:     stringList(o.Get("machine")),
			Tool:        stringList(o.Get("tool")),
			Direction:   stringList(o.Get("direction")),
		})
	}
	return doc, nil
}

func costTable(r gjson.Result, key string) (map[string]float64, error) {
	if !r.Exists() {
		return map[string]float64{}, nil
	}
	if !r.IsObject() {
		return nil, fmt.Errorf("%w: %s must be an object", ErrMalformed, key)
	}
	out := make(map[string]float64)
	var err error
	r.ForEach(func(k, v gjson.Result) bool {
		if v.Type != gjson.Number {
			err = fmt.Errorf("%w: %s.%s must be a number", ErrMalformed, key, k.String())
			return false
		}
		out[k.String()] = v.Float()
		return true
	})
	return out, err
}

func stringList(r gjson.Result) StringList {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return nil
	case r.IsArray():
		items := r.Array()
		out := make(StringList, len(items))
		for i, it := range items {
			out[i] = it.String()
		}
		return out
	default:
		return StringList{r.String()}
	}
}
