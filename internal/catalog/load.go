package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/conn-castle/toolbelt/internal/messages"
)

//go:embed builtin.toml
var builtinTOML []byte

// ErrCatalogValidation wraps definition validation failures, as opposed to
// syntax or filesystem errors.
var ErrCatalogValidation = errors.New(messages.CatalogValidationFailed)

// Builtin returns the embedded default catalog.
func Builtin() (Catalog, error) {
	return ParseTOML(builtinTOML, "builtin catalog")
}

// Load reads a catalog file, choosing the decoder from the file extension.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf(messages.CatalogReadFailedFmt, path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data, path)
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	default:
		return Catalog{}, fmt.Errorf(messages.CatalogUnknownFormatFmt, path)
	}
}

// ParseTOML decodes and validates TOML catalog data; source is used in error messages.
func ParseTOML(data []byte, source string) (Catalog, error) {
	var c Catalog
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf(messages.CatalogInvalidFmt, source, err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf(messages.CatalogInvalidFmt, source, err)
	}
	return c, nil
}

// ParseYAML decodes and validates YAML catalog data; source is used in error messages.
func ParseYAML(data []byte, source string) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf(messages.CatalogInvalidFmt, source, err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf(messages.CatalogInvalidFmt, source, err)
	}
	return c, nil
}

// LoadAll returns the builtin catalog merged with each extra file in order.
func LoadAll(paths []string) (Catalog, error) {
	c, err := Builtin()
	if err != nil {
		return Catalog{}, err
	}
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		extra, err := Load(path)
		if err != nil {
			return Catalog{}, err
		}
		c = c.Merge(extra)
	}
	return c, nil
}
