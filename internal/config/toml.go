package config

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

// tomlParser implements koanf.Parser on top of BurntSushi/toml.
type tomlParser struct{}

// TOMLParser returns a koanf parser for TOML config files.
func TOMLParser() *tomlParser { //nolint:revive // unexported type satisfies koanf.Parser
	return &tomlParser{}
}

func (p *tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if _, err := toml.NewDecoder(bytes.NewReader(b)).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *tomlParser) Marshal(m map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
