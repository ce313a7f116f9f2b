package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"flexPlan/internal/fpp"
)

// Encode сериализует документ в заданном формате.
func Encode(doc Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}

// Save записывает экземпляр в файл; формат выбирается по расширению.
func Save(path string, inst *fpp.Instance) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(FromInstance(inst), format)
	if err != nil {
		return fmt.Errorf("encode instance: %w", err)
	}
	if d := filepath.Dir(path); d != "." {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
