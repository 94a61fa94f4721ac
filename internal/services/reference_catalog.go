package services

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var defaultReferenceYAML []byte

// ReferenceCatalog maps a reference type (marital_status, social_status,
// gender, role) to stored value -> display label.
type ReferenceCatalog struct {
	types map[string]map[string]string
}

type referenceFile struct {
	Reference map[string]map[string]string `yaml:"reference"`
}

func DefaultReferenceCatalog() *ReferenceCatalog {
	catalog, err := parseReferenceCatalog(defaultReferenceYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded reference catalog is invalid: %v", err))
	}
	return catalog
}

// LoadReferenceCatalog overlays the labels in path on the embedded defaults.
// An empty path or a missing file yields the defaults.
func LoadReferenceCatalog(path string) (*ReferenceCatalog, error) {
	catalog := DefaultReferenceCatalog()
	path = strings.TrimSpace(path)
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("reference file not found, using defaults", "path", path)
			return catalog, nil
		}
		return nil, fmt.Errorf("read reference file %s: %w", path, err)
	}

	override, err := parseReferenceCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parse reference file %s: %w", path, err)
	}
	for refType, labels := range override.types {
		base, known := catalog.types[refType]
		if !known {
			catalog.types[refType] = labels
			continue
		}
		for key, label := range labels {
			if _, allowed := base[key]; !allowed {
				slog.Warn("ignoring unknown reference key", "type", refType, "key", key)
				continue
			}
			base[key] = label
		}
	}
	return catalog, nil
}

func parseReferenceCatalog(data []byte) (*ReferenceCatalog, error) {
	var file referenceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	types := make(map[string]map[string]string, len(file.Reference))
	for refType, labels := range file.Reference {
		normalizedType := strings.ToLower(strings.TrimSpace(refType))
		if normalizedType == "" {
			continue
		}
		copied := make(map[string]string, len(labels))
		for key, label := range labels {
			copied[strings.TrimSpace(key)] = strings.TrimSpace(label)
		}
		types[normalizedType] = copied
	}
	return &ReferenceCatalog{types: types}, nil
}

func (catalog *ReferenceCatalog) Labels(refType string) (map[string]string, bool) {
	labels, ok := catalog.types[strings.ToLower(strings.TrimSpace(refType))]
	if !ok {
		return nil, false
	}
	copied := make(map[string]string, len(labels))
	for key, label := range labels {
		copied[key] = label
	}
	return copied, true
}

func (catalog *ReferenceCatalog) Types() []string {
	types := make([]string, 0, len(catalog.types))
	for refType := range catalog.types {
		types = append(types, refType)
	}
	sort.Strings(types)
	return types
}
