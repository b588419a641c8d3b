package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML representation of user-supplied settings.
// Zero values mean "keep the default".
type FileConfig struct {
	Frames int `yaml:"frames"`

	Encoding struct {
		MaxBytes     uint64 `yaml:"max_bytes"`
		QualityStart int    `yaml:"quality_start"`
		QualityStep  int    `yaml:"quality_step"`
		QualityFloor int    `yaml:"quality_floor"`
	} `yaml:"encoding"`

	Timeouts struct {
		ProbeSecs   int `yaml:"probe_secs"`
		ExtractSecs int `yaml:"extract_secs"`
		VisionSecs  int `yaml:"vision_secs"`
	} `yaml:"timeouts"`

	Vision struct {
		Model     string `yaml:"model"`
		BaseURL   string `yaml:"base_url"`
		MaxTokens int    `yaml:"max_tokens"`
	} `yaml:"vision"`

	LogDir  string `yaml:"log_dir"`
	TempDir string `yaml:"temp_dir"`
	Workers int    `yaml:"workers"`
}

// LoadFile reads a YAML config file and applies it on top of cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.Frames != 0 {
		cfg.FrameCount = fc.Frames
	}
	if fc.Encoding.MaxBytes != 0 {
		cfg.MaxEncodedBytes = fc.Encoding.MaxBytes
	}
	if fc.Encoding.QualityStart != 0 {
		cfg.JPEGQualityStart = fc.Encoding.QualityStart
	}
	if fc.Encoding.QualityStep != 0 {
		cfg.JPEGQualityStep = fc.Encoding.QualityStep
	}
	if fc.Encoding.QualityFloor != 0 {
		cfg.JPEGQualityFloor = fc.Encoding.QualityFloor
	}
	if fc.Timeouts.ProbeSecs != 0 {
		cfg.ProbeTimeout = time.Duration(fc.Timeouts.ProbeSecs) * time.Second
	}
	if fc.Timeouts.ExtractSecs != 0 {
		cfg.ExtractTimeout = time.Duration(fc.Timeouts.ExtractSecs) * time.Second
	}
	if fc.Timeouts.VisionSecs != 0 {
		cfg.VisionTimeout = time.Duration(fc.Timeouts.VisionSecs) * time.Second
	}
	if fc.Vision.Model != "" {
		cfg.VisionModel = fc.Vision.Model
	}
	if fc.Vision.BaseURL != "" {
		cfg.VisionBaseURL = fc.Vision.BaseURL
	}
	if fc.Vision.MaxTokens != 0 {
		cfg.VisionMaxTokens = fc.Vision.MaxTokens
	}
	if fc.LogDir != "" {
		cfg.LogDir = fc.LogDir
	}
	if fc.TempDir != "" {
		cfg.TempDir = fc.TempDir
	}
	if fc.Workers != 0 {
		cfg.Workers = fc.Workers
	}
}
