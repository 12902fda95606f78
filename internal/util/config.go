package util

import (
	"etfgrid/internal/domain"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads the configuration document. JSON is accepted as well
// as YAML since the parser handles both.
func LoadConfig(path string) (*domain.Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %s: %v", domain.ErrConfig, path, err)
	}
	return ParseConfig(f)
}

func ParseConfig(b []byte) (*domain.Config, error) {
	cfg := domain.Config{}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", domain.ErrConfig, err)
	}

	order, err := assetOrder(b)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", domain.ErrConfig, err)
	}
	cfg.AssetOrder = order

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// assetOrder walks the raw document to recover the declaration order of
// ETF_CONFIG keys, which a Go map loses.
func assetOrder(b []byte) ([]string, error) {
	root := yaml.Node{}
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping")
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "ETF_CONFIG" {
			continue
		}
		assets := doc.Content[i+1]
		names := []string{}
		for j := 0; j+1 < len(assets.Content); j += 2 {
			names = append(names, assets.Content[j].Value)
		}
		return names, nil
	}
	return nil, nil
}
