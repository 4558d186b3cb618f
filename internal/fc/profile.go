package fc

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProfile 从 YAML 板卡配置文件加载配置，文件中未出现的字段保留出厂默认
func LoadProfile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile 解析 YAML 配置
func ParseProfile(data []byte) (*Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if len(cfg.Pilot.Name) > MaxNameLength {
		return nil, fmt.Errorf("parse profile: name longer than %d bytes", MaxNameLength)
	}
	return cfg, nil
}

// MarshalProfile 导出 YAML
func MarshalProfile(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
