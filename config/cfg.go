package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	ExportConfig struct {
		Supersample int    `yaml:"supersample" validate:"min=1,max=4"`
		JPEGQuality int    `yaml:"jpeg_quality_level" validate:"min=40,max=100"`
		Background  string `yaml:"background" validate:"required,hexcolor"`
		Placeholder string `yaml:"placeholder_color" validate:"required,hexcolor"`
	}

	DocumentConfig struct {
		BlockWidth            int          `yaml:"block_width" validate:"min=320,max=2048"`
		ImageFit              string       `yaml:"image_fit" validate:"oneof=cover contain stretch"`
		OutputNameTemplate    string       `yaml:"output_name_template"`
		FileNameTransliterate bool         `yaml:"file_name_transliterate"`
		Export                ExportConfig `yaml:"export"`
	}

	FontSourceConfig struct {
		Name string `yaml:"name" validate:"required"`
		URL  string `yaml:"url" validate:"required,url"`
	}

	FontsConfig struct {
		Sources      []FontSourceConfig `yaml:"sources" validate:"dive"`
		FallbackPath string             `yaml:"fallback_path,omitempty" sanitize:"assure_file_access" validate:"omitempty,filepath"`
		FetchTimeout int                `yaml:"fetch_timeout_sec" validate:"min=1,max=600"`
	}

	StorageConfig struct {
		Path string `yaml:"path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
	}

	GenerationConfig struct {
		Endpoint string       `yaml:"endpoint" validate:"omitempty,url"`
		APIKey   SecretString `yaml:"api_key,omitempty"`
		Model    string       `yaml:"model"`
		Language string       `yaml:"language" validate:"omitempty,bcp47_language_tag"`
		Timeout  int          `yaml:"timeout_sec" validate:"min=1,max=600"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Document   DocumentConfig   `yaml:"document"`
		Fonts      FontsConfig      `yaml:"fonts"`
		Storage    StorageConfig    `yaml:"storage"`
		Generation GenerationConfig `yaml:"generation"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
