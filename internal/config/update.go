package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rileyhilliard/rtop/internal/errors"
	"gopkg.in/yaml.v3"
)

// sectionComments head each top-level section of a generated file.
var sectionComments = map[string]string{
	"refresh_rates": "How often each category is sampled, in milliseconds.",
	"colors":        "Themes: cyan, synthwave, green, mono. Graph symbols: braille, block, tty.",
	"display":       "Panels to show. history_size is the number of samples per graph.",
	"thresholds":    "Warning and critical levels that color metrics, in percent (temperature in °C).",
	"network":       "Latency probes go to the first ping host that answers. rate_floor is the\nsmallest full-scale value of the throughput graphs.",
	"scheduler":     "fixed_phase keeps samples on a fixed grid instead of restarting each\ncadence from the moment a sample was taken.",
	"export":        "Append one CSV row per log_interval (ms) to log_path while the dashboard runs.",
}

// Marshal renders cfg as YAML with a comment above each section.
func Marshal(cfg *Config) ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if doc.Kind == yaml.MappingNode {
		for i := 0; i < len(doc.Content)-1; i += 2 {
			if c, ok := sectionComments[doc.Content[i].Value]; ok {
				doc.Content[i].HeadComment = c
			}
		}
	}
	return encode(&doc)
}

func encode(node *yaml.Node) ([]byte, error) {
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()
	return []byte(buf.String()), nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory",
			"Check permissions on "+filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check permissions on "+path)
	}
	return nil
}

// WriteDefault writes the default config to path. An existing file is only
// replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			"Config file already exists: "+path,
			"Use --force to overwrite it")
	}
	return Save(DefaultConfig(), path)
}

// Set changes one dotted key (e.g. "colors.theme") in the config file at
// path, keeping the rest of the file and its comments as they are. Missing
// sections are created. Comma-separated values set list keys. The result is
// validated before it is written.
func Set(path, key, value string) error {
	if !isKnownKey(key) {
		return checkUnknownKeys([]string{key})
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to read config file", "Check permissions on "+path)
	}

	var root yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Failed to parse config file", "Check the YAML syntax in "+path)
		}
	}
	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) == 0 {
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return errors.New(errors.ErrConfig, "Expected a mapping at the top of "+path, "Regenerate it with 'rtop init-config --force'")
	}

	node := root.Content[0]
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next := findMapValue(node, part)
		if next == nil {
			next = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, scalar(part), next)
		}
		node = next
	}

	leaf := parts[len(parts)-1]
	val := valueNode(key, value)
	if existing := findMapValue(node, leaf); existing != nil {
		val.HeadComment, val.LineComment = existing.HeadComment, existing.LineComment
		*existing = *val
	} else {
		node.Content = append(node.Content, scalar(leaf), val)
	}

	out, err := encode(&root)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	cfg, err := parse(out, path)
	if err != nil {
		return err
	}
	if err := Validate(cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to create config directory", "")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to write config file", "Check permissions on "+path)
	}
	return nil
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// valueNode builds the YAML node for value, typed so it round-trips: list
// keys become sequences, numbers and booleans keep their tags.
func valueNode(key, value string) *yaml.Node {
	if key == "network.ping_hosts" {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				seq.Content = append(seq.Content, scalar(item))
			}
		}
		return seq
	}

	n := scalar(value)
	if _, err := strconv.ParseBool(value); err == nil {
		n.Tag = "!!bool"
	} else if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		n.Tag = "!!int"
	} else if _, err := strconv.ParseFloat(value, 64); err == nil {
		n.Tag = "!!float"
	}
	return n
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
