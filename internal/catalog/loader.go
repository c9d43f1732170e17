package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/blitzkarten/pkg/models"
)

//go:embed data/german.yaml
var germanData []byte

// document is the on-disk shape of a catalog
type document struct {
	Language string         `yaml:"language"`
	Topics   []models.Topic `yaml:"topics"`
}

// German builds the built-in German catalog
func German() (*Catalog, error) {
	c, err := ParseYAML(GermanLanguage, germanData)
	if err != nil {
		return nil, fmt.Errorf("built-in german catalog: %w", err)
	}
	return c, nil
}

// ParseYAML builds a catalog from a YAML document
func ParseYAML(lang Language, data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if doc.Language != "" && doc.Language != lang.Slug {
		return nil, fmt.Errorf("catalog is for %q, expected %q", doc.Language, lang.Slug)
	}
	return New(lang, doc.Topics)
}

// Load reads a catalog file. The format follows the extension:
// .yaml/.yml, .xlsx or .csv.
func Load(lang Language, path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		return ParseYAML(lang, data)
	case ".xlsx", ".csv":
		cfg := DefaultImportConfig()
		cfg.FilePath = path
		result, err := Import(cfg)
		if err != nil {
			return nil, err
		}
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("catalog %s has %d bad rows, first: %s", path, len(result.Errors), result.Errors[0])
		}
		return New(lang, result.Topics)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", path)
	}
}
