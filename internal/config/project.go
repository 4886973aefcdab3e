// Package config holds the project configuration (feeds, tags, templates) and
// the environment-provided delivery settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL   = errors.New("base_url is required")
	ErrMissingURLPath   = errors.New("url_path is required")
	ErrMissingFilename  = errors.New("filename is required")
	ErrMissingIndex     = errors.New("filename must contain {index}")
	ErrMissingHeading   = errors.New("heading is required")
	ErrMissingOrg       = errors.New("organisation is required")
	ErrMissingFrequency = errors.New("update_frequency is required")
)

// Project is the project_configuration.yml document.
type Project struct {
	BaseURL         string            `yaml:"base_url"`
	GetParams       string            `yaml:"get_params"`
	Organisation    string            `yaml:"organisation"`
	Maintainer      string            `yaml:"maintainer"`
	UpdateFrequency string            `yaml:"update_frequency"`
	ShowcaseImage   string            `yaml:"showcase_image_url"`
	DatasetURLBase  string            `yaml:"dataset_url_base"`
	CountryNames    map[string]string `yaml:"country_name_overrides"`

	Countries    FeedConfig `yaml:"countries"`
	Appeals      FeedConfig `yaml:"appeals"`
	WhoWhatWhere FeedConfig `yaml:"whowhatwhere"`
}

// FeedConfig describes one paged endpoint and the datasets built from it.
type FeedConfig struct {
	URLPath          string            `yaml:"url_path"`
	AdditionalParams string            `yaml:"additional_params"`
	Filename         string            `yaml:"filename"`
	Heading          string            `yaml:"heading"`
	Tags             []string          `yaml:"tags"`
	HXLTags          map[string]string `yaml:"hxltags"`
	ShowcaseURLs     ShowcaseURLs      `yaml:"showcase_urls"`
	// Notes prepended to the generated dataset notes.
	DatasetNotes string `yaml:"dataset_notes"`
	// Quick-chart view templates; "{{#status+name}}" is replaced by the country QC status.
	GlobalResourceView  string `yaml:"global_resource_view"`
	CountryResourceView string `yaml:"country_resource_view"`
}

type ShowcaseURLs struct {
	Global  string `yaml:"global"`
	Country string `yaml:"country"` // "{id}" is replaced by the provider country id
}

// LoadProject reads and validates a project configuration file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project configuration: %w", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("project configuration validation failed: %w", err)
	}
	return &p, nil
}

// Validate checks the fields every component relies on.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	if p.Organisation == "" {
		return ErrMissingOrg
	}
	if p.UpdateFrequency == "" {
		return ErrMissingFrequency
	}

	for name, f := range map[string]FeedConfig{"countries": p.Countries, "appeals": p.Appeals, "whowhatwhere": p.WhoWhatWhere} {
		if err := f.validate(name != "countries"); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (f FeedConfig) validate(published bool) error {
	if f.URLPath == "" {
		return ErrMissingURLPath
	}
	if f.Filename == "" {
		return ErrMissingFilename
	}
	if !strings.Contains(f.Filename, "{index}") {
		return ErrMissingIndex
	}
	if published && f.Heading == "" {
		return ErrMissingHeading
	}
	return nil
}

// CountriesURL is the first page of the countries endpoint.
func (p *Project) CountriesURL() string {
	return p.BaseURL + p.Countries.URLPath + p.GetParams
}

// AppealsURL is the first page of the appeals endpoint, bounded by lastRunDate (YYYY-MM-DD).
func (p *Project) AppealsURL(lastRunDate string) string {
	return p.BaseURL + p.Appeals.URLPath + p.GetParams + p.Appeals.AdditionalParams + lastRunDate + "T00:00:00"
}

// WhoWhatWhereURL is the first page of the projects endpoint.
func (p *Project) WhoWhatWhereURL() string {
	return p.BaseURL + p.WhoWhatWhere.URLPath + p.GetParams + p.WhoWhatWhere.AdditionalParams
}
