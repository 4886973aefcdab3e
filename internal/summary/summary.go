// Package summary collects what a run fetched and built, and renders it as text tables.
package summary

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Feed struct {
	Key       string
	Pages     int
	Rows      int
	Countries int
	// PrevRows is the row count of the previous successful run, -1 when unknown.
	PrevRows int
}

type Dataset struct {
	Feed         string
	Name         string
	Location     string
	QCStatus     string
	Rows         int
	InvalidDates int
}

type Skipped struct {
	Feed     string
	Location string
	Reason   string
}

type Summary struct {
	LastRunDate string
	Feeds       []Feed
	Datasets    []Dataset
	Skipped     []Skipped
	Files       []string
	Uploaded    bool
}

// Statuses returns location -> QC status for one feed's country datasets.
func (s *Summary) Statuses(feed string) map[string]string {
	out := map[string]string{}
	for _, d := range s.Datasets {
		if d.Feed == feed && d.QCStatus != "" {
			out[d.Location] = d.QCStatus
		}
	}
	return out
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	return t
}

// Render writes the feed table, the dataset table and the skipped list to w.
func Render(w io.Writer, s *Summary) error {
	feeds := newTable("Feeds since " + s.LastRunDate)
	feeds.AppendHeader(table.Row{"Feed", "Pages", "Rows", "Countries", "Previous rows"})
	for _, f := range s.Feeds {
		prev := "-"
		if f.PrevRows >= 0 {
			prev = fmt.Sprint(f.PrevRows)
		}
		feeds.AppendRow(table.Row{f.Key, f.Pages, f.Rows, f.Countries, prev})
	}
	feeds.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	if _, err := fmt.Fprintln(w, feeds.Render()); err != nil {
		return err
	}

	datasets := newTable("Datasets")
	datasets.AppendHeader(table.Row{"Feed", "Location", "Name", "Rows", "Invalid dates", "QC status"})
	ds := append([]Dataset(nil), s.Datasets...)
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].Feed != ds[j].Feed {
			return ds[i].Feed < ds[j].Feed
		}
		return ds[i].Location < ds[j].Location
	})
	for _, d := range ds {
		datasets.AppendRow(table.Row{d.Feed, d.Location, d.Name, d.Rows, d.InvalidDates, d.QCStatus})
	}
	datasets.AppendFooter(table.Row{"", "", "Total", len(ds), "", ""})
	if _, err := fmt.Fprintln(w, datasets.Render()); err != nil {
		return err
	}

	if len(s.Skipped) == 0 {
		return nil
	}
	skipped := newTable("Skipped")
	skipped.AppendHeader(table.Row{"Feed", "Location", "Reason"})
	for _, k := range s.Skipped {
		skipped.AppendRow(table.Row{k.Feed, k.Location, k.Reason})
	}
	_, err := fmt.Fprintln(w, skipped.Render())
	return err
}
