// Package dataset turns aggregated feed rows into publishable dataset descriptors
// and their CSV resources.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"ifrc-sync/internal/config"
	"ifrc-sync/internal/dates"
	"ifrc-sync/internal/domain"
	"ifrc-sync/internal/export"
	"ifrc-sync/internal/slug"
)

var (
	// ErrNoData means the grouping has no rows; callers skip publication.
	ErrNoData = errors.New("no data")
	// ErrUnknownCountry means the ISO3 code has no resolvable name.
	ErrUnknownCountry = errors.New("unknown ISO 3 code")
)

// StatusPlaceholder is replaced by the country QC status in resource view templates.
const StatusPlaceholder = "{{#status+name}}"

// Feed is one aggregated feed ready for dataset construction.
type Feed struct {
	Key    string // "appeals", "whowhatwhere"
	Config config.FeedConfig
	Agg    *domain.Aggregate
}

type CountryNames interface {
	NameForISO3(code string) (string, bool)
}

// Dataset is the descriptor written next to each CSV resource.
type Dataset struct {
	Name            string      `yaml:"name"`
	Title           string      `yaml:"title"`
	Notes           string      `yaml:"notes"`
	Maintainer      string      `yaml:"maintainer"`
	Organisation    string      `yaml:"owner_org"`
	UpdateFrequency string      `yaml:"data_update_frequency"`
	Subnational     bool        `yaml:"subnational"`
	Location        string      `yaml:"location"`
	Tags            []string    `yaml:"tags"`
	Coverage        dates.Range `yaml:"dataset_date,omitempty"`
	QCStatus        string      `yaml:"qc_status,omitempty"`
	Resource        Resource    `yaml:"resource"`
	ResourceView    string      `yaml:"resource_view,omitempty"`
	Showcase        *Showcase   `yaml:"showcase,omitempty"`
}

type Resource struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Filename    string `yaml:"filename"`
	Rows        int    `yaml:"rows"`
	// rows whose end date precedes their start date
	InvalidDates int `yaml:"invalid_dates"`
}

type Showcase struct {
	Name     string   `yaml:"name"`
	Title    string   `yaml:"title"`
	Notes    string   `yaml:"notes"`
	URL      string   `yaml:"url"`
	ImageURL string   `yaml:"image_url"`
	Tags     []string `yaml:"tags"`
}

// Builder builds datasets for one run. It only reads shared state and is safe for
// concurrent use once constructed.
type Builder struct {
	Project    *config.Project
	Names      CountryNames
	Dates      *dates.Validator
	CountryIDs map[string]string
	// BaseDir resolves relative resource view paths, usually the project config's repo root.
	BaseDir string
}

// Build returns the dataset and the CSV table for feed, globally when iso3 is "" or for
// one country otherwise. globalURL is linked from country dataset notes.
func (b *Builder) Build(feed Feed, iso3, globalURL string) (*Dataset, export.Table, error) {
	if feed.Agg.Empty() {
		return nil, export.Table{}, ErrNoData
	}
	heading := feed.Config.Heading
	lower := strings.ToLower(heading)

	var rows []domain.Row
	var title, name, filename, notes, location string
	if iso3 != "" {
		countryName, ok := b.Names.NameForISO3(iso3)
		if !ok {
			slog.Error("unknown ISO 3 code", "iso3", iso3, "feed", feed.Key)
			return nil, export.Table{}, fmt.Errorf("%w %s", ErrUnknownCountry, iso3)
		}
		rows = feed.Agg.ByCountry[iso3]
		title = fmt.Sprintf("%s - IFRC %s", countryName, heading)
		name = fmt.Sprintf("IFRC %s Data for %s", heading, countryName)
		filename = fmt.Sprintf("%s_data_%s.csv", lower, strings.ToLower(iso3))
		notes = fmt.Sprintf("There is also a [global dataset](%s).", globalURL)
		location = iso3
	} else {
		rows = feed.Agg.Rows
		title = fmt.Sprintf("Global - IFRC %s", heading)
		name = fmt.Sprintf("Global IFRC %s Data", heading)
		filename = fmt.Sprintf("%s_data_global.csv", lower)
		notes = "This data can also be found as individual country datasets on HDX."
		location = "world"
	}
	if len(rows) == 0 {
		slog.Warn("dataset has no data", "name", name)
		return nil, export.Table{}, ErrNoData
	}

	slog.Info("creating dataset", "title", title)
	slugName := slug.Make(name)
	tags := Tags(feed.Config.Tags)

	ds := &Dataset{
		Name:            slugName,
		Title:           title,
		Notes:           joinNotes(feed.Config.DatasetNotes, notes),
		Maintainer:      b.Project.Maintainer,
		Organisation:    b.Project.Organisation,
		UpdateFrequency: b.Project.UpdateFrequency,
		Location:        location,
		Tags:            tags,
		Resource: Resource{
			Name:        name,
			Description: fmt.Sprintf("IFRC %s data with HXL tags", heading),
			Filename:    filename,
			Rows:        len(rows),
		},
	}

	for _, r := range rows {
		rng, ok, err := b.Dates.Validate(r)
		if err != nil {
			return nil, export.Table{}, fmt.Errorf("%s: %w", name, err)
		}
		if !ok {
			ds.Resource.InvalidDates++
			continue
		}
		ds.Coverage = ds.Coverage.Merge(rng)
	}

	if iso3 != "" {
		ds.QCStatus = feed.Agg.Status[iso3]
	}
	view, err := b.resourceView(feed.Config, iso3, ds.QCStatus)
	if err != nil {
		return nil, export.Table{}, err
	}
	ds.ResourceView = view
	ds.Showcase = b.showcase(feed.Config, iso3, slugName, title, heading, tags)

	table := export.Table{
		Columns: Columns(feed.Agg.Columns, rows),
		HXLTags: feed.Config.HXLTags,
		Rows:    rows,
	}
	return ds, table, nil
}

// URL is the catalog address of a dataset.
func (b *Builder) URL(ds *Dataset) string {
	return b.Project.DatasetURLBase + ds.Name
}

func (b *Builder) showcase(fc config.FeedConfig, iso3, slugName, title, heading string, tags []string) *Showcase {
	url := fc.ShowcaseURLs.Global
	if iso3 != "" {
		url = ""
		if tmpl := fc.ShowcaseURLs.Country; tmpl != "" {
			id, ok := b.CountryIDs[iso3]
			if !ok {
				slog.Warn("no provider id for country, skipping showcase", "iso3", iso3)
				return nil
			}
			url = strings.ReplaceAll(tmpl, "{id}", id)
		}
	}
	if url == "" {
		return nil
	}
	return &Showcase{
		Name:     slugName + "-showcase",
		Title:    title + " showcase",
		Notes:    fmt.Sprintf("IFRC Go Dashboard of %s Data", heading),
		URL:      url,
		ImageURL: b.Project.ShowcaseImage,
		Tags:     tags,
	}
}

// resourceView renders the quick-chart template, substituting the QC status for countries.
func (b *Builder) resourceView(fc config.FeedConfig, iso3, status string) (string, error) {
	path := fc.GlobalResourceView
	if iso3 != "" {
		path = fc.CountryResourceView
	}
	if path == "" {
		return "", nil
	}
	if !filepath.IsAbs(path) && b.BaseDir != "" {
		path = filepath.Join(b.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read resource view %s: %w", path, err)
	}
	view := string(data)
	if iso3 != "" && status != "" {
		view = strings.ReplaceAll(view, StatusPlaceholder, status)
	}
	return view, nil
}

// Write stores the CSV resource and the YAML descriptor in dir and returns both paths.
func Write(dir string, ds *Dataset, table export.Table) ([]string, error) {
	csvPath := filepath.Join(dir, ds.Resource.Filename)
	if err := export.WriteCSVFile(csvPath, table); err != nil {
		return nil, err
	}

	data, err := yaml.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("marshal dataset %s: %w", ds.Name, err)
	}
	metaPath := filepath.Join(dir, ds.Name+".yml")
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write dataset %s: %w", ds.Name, err)
	}
	return []string{csvPath, metaPath}, nil
}

// Tags returns "hxl" followed by the configured tags, without duplicates.
func Tags(configured []string) []string {
	out := []string{"hxl"}
	seen := map[string]bool{"hxl": true}
	for _, t := range configured {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Columns returns fixed when set, else the sorted keys of the first row.
func Columns(fixed []string, rows []domain.Row) []string {
	if len(fixed) > 0 {
		return fixed
	}
	if len(rows) == 0 {
		return nil
	}
	cols := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// joinNotes puts the configured notes first and forces markdown line breaks.
func joinNotes(configured, generated string) string {
	notes := generated
	if configured = strings.TrimSpace(configured); configured != "" {
		notes = configured + "\n\n" + generated
	}
	return strings.ReplaceAll(notes, "\n", "  \n")
}
