package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Config represents the application configuration.
type Config struct {
	// DebugDir overrides where sanitized debug artifacts land; empty means
	// next to the output database.
	DebugDir string `hcl:"debug_dir,optional"`
	// DefaultMode is the import mode when the caller doesn't pick one:
	// "overwrite" or "append".
	DefaultMode string `hcl:"default_mode,optional"`
	// ListenAddr is the HTTP server bind address.
	ListenAddr string `hcl:"listen_addr,optional"`
	// ConnectionsPath is the JSON file backing the connection store.
	ConnectionsPath string `hcl:"connections_path,optional"`
	// OntologyPath is the JSON knowledge-base file for the ontology index;
	// empty starts with an empty index.
	OntologyPath string `hcl:"ontology_path,optional"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultMode:     "overwrite",
		ListenAddr:      ":8080",
		ConnectionsPath: "db_connections.json",
	}
}

// Load reads the configuration from the given HCL file.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	cfg := DefaultConfig()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	return cfg, nil
}

// Export writes the configuration to the specified file in HCL format.
func Export(path string, cfg *Config) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	root.SetAttributeValue("debug_dir", cty.StringVal(cfg.DebugDir))
	root.SetAttributeValue("default_mode", cty.StringVal(cfg.DefaultMode))
	root.SetAttributeValue("listen_addr", cty.StringVal(cfg.ListenAddr))
	root.SetAttributeValue("connections_path", cty.StringVal(cfg.ConnectionsPath))
	root.SetAttributeValue("ontology_path", cty.StringVal(cfg.OntologyPath))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(f.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write config to file: %w", err)
	}

	return nil
}
