// Package ifrc runs one synchronisation: fetch the three feeds, aggregate them and
// write the global and per-country datasets.
package ifrc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/ubuntu/decorate"

	"ifrc-sync/internal/concurrency"
	"ifrc-sync/internal/config"
	"ifrc-sync/internal/country"
	"ifrc-sync/internal/dataset"
	"ifrc-sync/internal/dates"
	"ifrc-sync/internal/domain"
	"ifrc-sync/internal/feeds"
	"ifrc-sync/internal/pager"
	"ifrc-sync/internal/sftpclient"
	"ifrc-sync/internal/state"
	"ifrc-sync/internal/summary"
)

const (
	FeedCountries    = "countries"
	FeedAppeals      = "appeals"
	FeedWhoWhatWhere = "whowhatwhere"

	dateLayout = "2006-01-02"
)

// Options wires a Runner. Project and Fetcher are required; Run also needs State and OutDir.
type Options struct {
	Project *config.Project
	// ProjectDir resolves relative paths found in the project configuration.
	ProjectDir string
	Fetcher    pager.Fetcher
	State      *state.Store
	OutDir     string
	// DefaultLastRunDate bounds the appeals query on the first run.
	DefaultLastRunDate string
	Workers            int
	SFTP               config.SFTP
	Now                func() time.Time
}

type Runner struct {
	opts  Options
	pager *pager.Pager
	names *country.Lookup
}

func New(opts Options) (*Runner, error) {
	if opts.Project == nil || opts.Fetcher == nil {
		return nil, errors.New("ifrc: project and fetcher are required")
	}
	if opts.DefaultLastRunDate == "" {
		opts.DefaultLastRunDate = "2000-01-01"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		opts:  opts,
		pager: pager.New(opts.Fetcher),
		names: country.NewLookup(opts.Project.CountryNames),
	}, nil
}

// Names is the country lookup used for rows and dataset titles.
func (r *Runner) Names() *country.Lookup { return r.names }

type aggregator interface {
	pager.Handler
	Aggregate() *domain.Aggregate
}

// Countries walks the countries feed and returns the ISO3 -> provider id table.
func (r *Runner) Countries(ctx context.Context) (map[string]string, int, error) {
	h := feeds.NewCountryHandler()
	pages, err := r.pager.Walk(ctx, r.opts.Project.CountriesURL(), r.opts.Project.Countries.Filename, h)
	if err != nil {
		return nil, pages, fmt.Errorf("%s: %w", FeedCountries, err)
	}
	slog.Info("countries fetched", "count", len(h.IDs()), "pages", pages)
	return h.IDs(), pages, nil
}

func (r *Runner) walk(ctx context.Context, key, url string, fc config.FeedConfig, h aggregator) (dataset.Feed, summary.Feed, error) {
	pages, err := r.pager.Walk(ctx, url, fc.Filename, h)
	if err != nil {
		return dataset.Feed{}, summary.Feed{}, fmt.Errorf("%s: %w", key, err)
	}
	agg := h.Aggregate()
	slog.Info("feed fetched", "feed", key, "pages", pages, "rows", len(agg.Rows), "countries", len(agg.ByCountry))

	sf := summary.Feed{Key: key, Pages: pages, Rows: len(agg.Rows), Countries: len(agg.ByCountry), PrevRows: -1}
	prev, ok, err := r.opts.State.Watermark(ctx, key)
	if err != nil {
		return dataset.Feed{}, summary.Feed{}, err
	}
	if ok {
		sf.PrevRows = prev.RowCount
		if prev.RowCount > 0 && sf.Rows == 0 {
			slog.Warn("feed returned no rows but had rows last run", "feed", key, "previous", prev.RowCount)
		}
	}
	return dataset.Feed{Key: key, Config: fc, Agg: agg}, sf, nil
}

// Run performs a full synchronisation. State is only advanced when every step succeeded.
func (r *Runner) Run(ctx context.Context) (s *summary.Summary, err error) {
	defer decorate.OnError(&err, "ifrc run failed")

	if r.opts.State == nil || r.opts.OutDir == "" {
		return nil, errors.New("state store and output dir are required")
	}
	p := r.opts.Project
	lastRun, err := r.opts.State.LastRunDate(ctx, r.opts.DefaultLastRunDate)
	if err != nil {
		return nil, err
	}
	s = &summary.Summary{LastRunDate: lastRun}
	slog.Info("starting run", "last_run_date", lastRun)

	ids, pages, err := r.Countries(ctx)
	if err != nil {
		return nil, err
	}
	s.Feeds = append(s.Feeds, summary.Feed{Key: FeedCountries, Pages: pages, Rows: len(ids), Countries: len(ids), PrevRows: -1})

	appeals, sf, err := r.walk(ctx, FeedAppeals, p.AppealsURL(lastRun), p.Appeals, feeds.NewAppealHandler(r.names))
	if err != nil {
		return nil, err
	}
	s.Feeds = append(s.Feeds, sf)

	www, sf, err := r.walk(ctx, FeedWhoWhatWhere, p.WhoWhatWhereURL(), p.WhoWhatWhere, feeds.NewProjectHandler(r.names))
	if err != nil {
		return nil, err
	}
	s.Feeds = append(s.Feeds, sf)

	if err := os.MkdirAll(r.opts.OutDir, 0o755); err != nil {
		return nil, err
	}
	b := &dataset.Builder{
		Project:    p,
		Names:      r.names,
		Dates:      dates.NewValidator(),
		CountryIDs: ids,
		BaseDir:    r.opts.ProjectDir,
	}

	published := []dataset.Feed{appeals, www}
	globalURLs := map[string]string{}
	for _, f := range published {
		res, err := r.build(b, f, "", "")
		if err != nil {
			return nil, err
		}
		if res.skipped != nil {
			s.Skipped = append(s.Skipped, *res.skipped)
			continue
		}
		globalURLs[f.Key] = res.url
		s.Datasets = append(s.Datasets, res.dataset)
		s.Files = append(s.Files, res.files...)
	}

	countries := unionCountries(appeals.Agg, www.Agg)
	slog.Info("building country datasets", "countries", len(countries))

	type job struct {
		feed dataset.Feed
		iso3 string
	}
	var jobs []job
	for _, iso3 := range countries {
		for _, f := range published {
			jobs = append(jobs, job{feed: f, iso3: iso3})
		}
	}
	results, errs := concurrency.ProcessParallel(ctx, jobs, concurrency.ParallelOptions{MaxWorkers: r.opts.Workers},
		func(_ context.Context, _ int, j job) (built, error) {
			return r.build(b, j.feed, j.iso3, globalURLs[j.feed.Key])
		})
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	for _, res := range results {
		if res.skipped != nil {
			s.Skipped = append(s.Skipped, *res.skipped)
			continue
		}
		s.Datasets = append(s.Datasets, res.dataset)
		s.Files = append(s.Files, res.files...)
	}

	if r.opts.SFTP.Enabled() {
		if err := sftpclient.Upload(ctx, r.opts.SFTP, s.Files); err != nil {
			return nil, err
		}
		s.Uploaded = true
	}

	for _, f := range s.Feeds {
		if err := r.opts.State.SetWatermark(ctx, state.Watermark{Feed: f.Key, RowCount: f.Rows, Pages: f.Pages}); err != nil {
			return nil, err
		}
	}
	today := r.opts.Now().UTC().Format(dateLayout)
	if err := r.opts.State.SetLastRunDate(ctx, today); err != nil {
		return nil, err
	}
	slog.Info("run complete", "datasets", len(s.Datasets), "skipped", len(s.Skipped), "next_last_run_date", today)
	return s, nil
}

type built struct {
	dataset summary.Dataset
	files   []string
	url     string
	skipped *summary.Skipped
}

// build creates and writes one dataset. Empty groupings and unknown countries are
// reported as skipped instead of failing the run.
func (r *Runner) build(b *dataset.Builder, f dataset.Feed, iso3, globalURL string) (built, error) {
	location := iso3
	if location == "" {
		location = "world"
	}
	ds, table, err := b.Build(f, iso3, globalURL)
	if errors.Is(err, dataset.ErrNoData) || errors.Is(err, dataset.ErrUnknownCountry) {
		return built{skipped: &summary.Skipped{Feed: f.Key, Location: location, Reason: err.Error()}}, nil
	}
	if err != nil {
		return built{}, fmt.Errorf("%s %s: %w", f.Key, location, err)
	}

	files, err := dataset.Write(r.opts.OutDir, ds, table)
	if err != nil {
		return built{}, err
	}
	return built{
		dataset: summary.Dataset{
			Feed:         f.Key,
			Name:         ds.Name,
			Location:     ds.Location,
			QCStatus:     ds.QCStatus,
			Rows:         ds.Resource.Rows,
			InvalidDates: ds.Resource.InvalidDates,
		},
		files: files,
		url:   b.URL(ds),
	}, nil
}

// unionCountries returns the sorted union of the ISO3 codes of every aggregate.
func unionCountries(aggs ...*domain.Aggregate) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range aggs {
		for _, iso3 := range a.Countries() {
			if !seen[iso3] {
				seen[iso3] = true
				out = append(out, iso3)
			}
		}
	}
	sort.Strings(out)
	return out
}
