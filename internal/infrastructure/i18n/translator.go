package i18n

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// CatalogTranslator resolves diagnostic keys against an embedded YAML
// catalog. Unknown keys pass through unchanged so a missing entry
// degrades to the raw key instead of an empty string.
type CatalogTranslator struct {
	messages map[string]string
}

// NewCatalogTranslator loads the embedded catalog for the given locale.
func NewCatalogTranslator(locale string) (*CatalogTranslator, error) {
	data, err := localeFS.ReadFile(fmt.Sprintf("locales/%s.yaml", locale))
	if err != nil {
		return nil, fmt.Errorf("unknown locale %q: %w", locale, err)
	}
	return parseCatalog(locale, data)
}

// NewCatalogTranslatorFromDir loads <dir>/<locale>.yaml instead of the
// embedded catalogs, so operators can ship their own translations.
func NewCatalogTranslatorFromDir(dir, locale string) (*CatalogTranslator, error) {
	data, err := os.ReadFile(filepath.Join(dir, locale+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read locale %q from %s: %w", locale, dir, err)
	}
	return parseCatalog(locale, data)
}

func parseCatalog(locale string, data []byte) (*CatalogTranslator, error) {
	var messages map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse locale %q: %w", locale, err)
	}
	return &CatalogTranslator{messages: messages}, nil
}

// Translate resolves a key to operator-facing text.
func (t *CatalogTranslator) Translate(key string) string {
	if msg, ok := t.messages[key]; ok {
		return msg
	}
	return key
}
