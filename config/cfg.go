package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"mkbook/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	LabelsConfig struct {
		Preface             string `yaml:"preface" validate:"required"`
		Contents            string `yaml:"contents" validate:"required"`
		WrittenBy           string `yaml:"written_by"`
		PortraitCaption     string `yaml:"portrait_caption"`
		PortraitPlaceholder string `yaml:"portrait_placeholder"`
		Editor              string `yaml:"editor"`
		Rights              string `yaml:"rights"`
		CoverFront          string `yaml:"cover_front"`
		CoverFrontInner     string `yaml:"cover_front_inner"`
		CoverBackInner      string `yaml:"cover_back_inner"`
		CoverBack           string `yaml:"cover_back"`
	}

	BookConfig struct {
		Title    string       `yaml:"title" validate:"required"`
		Subtitle string       `yaml:"subtitle"`
		Editor   string       `yaml:"editor"`
		Year     string       `yaml:"year"`
		Language string       `yaml:"language" validate:"required,bcp47_language_tag"`
		Labels   LabelsConfig `yaml:"labels"`
	}

	MarkersConfig struct {
		Title       string `yaml:"title" validate:"required"`
		Author      string `yaml:"author" validate:"required"`
		AuthorDraft string `yaml:"author_draft" validate:"required"`
		Preface     string `yaml:"preface" validate:"required"`
	}

	ManuscriptConfig struct {
		FileName           string        `yaml:"file_name" validate:"required"`
		Encoding           string        `yaml:"encoding"`
		Markers            MarkersConfig `yaml:"markers"`
		SubheadingMaxRunes int           `yaml:"subheading_max_length" validate:"gte=0"`
	}

	ImagesConfig struct {
		Directory   string                     `yaml:"directory" validate:"required"`
		Extensions  []string                   `yaml:"extensions" validate:"min=1,dive,required,startswith=."`
		Covers      map[common.CoverPos]string `yaml:"covers" validate:"dive,keys,required,endkeys,required"`
		Optimize    bool                       `yaml:"optimize"`
		MaxHeight   int                        `yaml:"max_height" validate:"gte=0"`
		JPEGQuality int                        `yaml:"jpeg_quality_level" validate:"min=40,max=100"`
	}

	LayoutConfig struct {
		DeriveFromStylesheet bool `yaml:"derive_from_stylesheet"`
		LinesPerPage         int  `yaml:"lines_per_page" validate:"min=5"`
		CharsPerLine         int  `yaml:"chars_per_line" validate:"min=10"`
		HeadingLines         int  `yaml:"heading_lines" validate:"gte=0"`
		HeadingBuffer        int  `yaml:"heading_buffer" validate:"gte=0"`
		SubheadingLines      int  `yaml:"subheading_lines" validate:"gte=0"`
		SignatureLines       int  `yaml:"signature_lines" validate:"gte=0"`
		DropCapLines         int  `yaml:"drop_cap_lines" validate:"gte=0"`
		ParagraphSpacing     int  `yaml:"paragraph_spacing" validate:"gte=0"`
	}

	TOCConfig struct {
		PageNumbers    common.TOCPageNumbers `yaml:"page_numbers" validate:"gte=0"`
		IncludePreface bool                  `yaml:"include_preface"`
	}

	RenderConfig struct {
		OutputNameTemplate    string `yaml:"output_name_template"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
		StylesheetPath        string `yaml:"stylesheet_path" validate:"omitempty,filepath"`
		PagedJSURL            string `yaml:"pagedjs_url" validate:"omitempty,url"`
		DropCap               bool   `yaml:"drop_cap"`
	}

	PreviewConfig struct {
		Listen   string `yaml:"listen" validate:"required,hostname_port"`
		Debounce int    `yaml:"debounce_ms" validate:"gte=0"`
	}

	DocumentConfig struct {
		Book       BookConfig       `yaml:"book"`
		Manuscript ManuscriptConfig `yaml:"manuscript"`
		Images     ImagesConfig     `yaml:"images"`
		Layout     LayoutConfig     `yaml:"layout"`
		TOC        TOCConfig        `yaml:"toc"`
		Render     RenderConfig     `yaml:"render"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Preview   PreviewConfig  `yaml:"preview"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
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
