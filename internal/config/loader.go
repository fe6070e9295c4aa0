package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"

	"github.com/okian/secretsanta/internal/domain/model"
)

// Environment variables read by the loader.
const (
	EnvPrefix     = "SANTA_"
	EnvConfigPath = EnvPrefix + "CONFIG"
)

const exclusionsKey = "exclusions"

// Load builds a Config by layering defaults, the config file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML or TOML by extension): path, else SANTA_CONFIG, else config.yaml
//  3. env (prefix SANTA_, "__" separates nested keys: SANTA_TEMPLATE__SUBJECT)
//
// An explicitly named file must exist; the default file is optional.
func Load(ctx context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path, explicit = DefaultConfigFile, false
	}

	raw, err := loadFile(k, path, explicit)
	if err != nil {
		return nil, err
	}

	// Map env keys like SANTA_RECORD_FILE -> record_file and
	// SANTA_TEMPLATE__FROM_NAME -> template.from_name.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, model.NewConfigError(model.ErrInvalidConfig, path, "invalid configuration in %s: %v", path, err)
	}

	// Exclusion names may contain the key delimiter ("J. Smith"), so they are
	// taken from the parsed file rather than from the flattened koanf tree.
	exclusions, err := decodeExclusions(raw[exclusionsKey])
	if err != nil {
		return nil, err
	}
	cfg.Exclusions = exclusions

	return &cfg, nil
}

// loadFile merges the config file into k and returns its parsed top level.
func loadFile(k *koanf.Koanf, path string, explicit bool) (map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !explicit {
				return nil, nil
			}
			return nil, model.NewConfigError(model.ErrInvalidConfig, path, "The configuration file %q was not found.", path)
		}
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = TOMLParser()
	case ".yaml", ".yml", "":
		parser = yaml.Parser()
	default:
		return nil, model.NewConfigError(model.ErrInvalidConfig, path,
			"unsupported configuration format %q: use .yaml, .yml or .toml", filepath.Ext(path))
	}

	provider := file.Provider(path)
	b, err := provider.ReadBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	raw, err := parser.Unmarshal(b)
	if err != nil {
		return nil, model.NewConfigError(model.ErrInvalidConfig, path, "cannot parse %s: %v", path, err)
	}
	if err := k.Load(provider, parser); err != nil {
		return nil, model.NewConfigError(model.ErrInvalidConfig, path, "cannot parse %s: %v", path, err)
	}
	return raw, nil
}

// decodeExclusions accepts only a mapping of names to lists of names. A bare
// string is rejected rather than treated as a one-element list.
func decodeExclusions(raw any) (model.Exclusions, error) {
	out := model.Exclusions{}
	if raw == nil {
		return out, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, model.NewConfigError(model.ErrMalformedExclusions, exclusionsKey,
			"The exclusion list must map santa names to lists of names, got %T.", raw)
	}

	santas := lo.Keys(m)
	slices.Sort(santas)

	for _, santa := range santas {
		switch v := m[santa].(type) {
		case nil:
			out[santa] = nil
		case []any:
			names := make([]string, 0, len(v))
			for _, item := range v {
				name, ok := item.(string)
				if !ok {
					return nil, model.NewConfigError(model.ErrMalformedExclusions, santa,
						"The exclusion list for %s must only contain names, got %v.", santa, item)
				}
				names = append(names, name)
			}
			out[santa] = names
		default:
			return nil, model.NewConfigError(model.ErrMalformedExclusions, santa,
				"The exclusion list for %s must be a list.", santa)
		}
	}
	return out, nil
}
