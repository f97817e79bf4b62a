package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/query/page"
	"github.com/kailas-cloud/archivist/internal/domain/record"
	"github.com/kailas-cloud/archivist/internal/repository/seed"
	"github.com/kailas-cloud/archivist/internal/usecase/listing"
)

type queryOptions struct {
	fixture    string
	term       string
	filters    []string
	searchable []string
	sortKey    string
	order      string
	page       int
	pageSize   int
	columns    []string
	output     string
}

var defaultColumns = []string{record.FieldID, record.FieldTitle, record.FieldType, record.FieldStatus, record.FieldUploadDate}

func newQueryCmd() *cobra.Command {
	o := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a list query over a fixture file",
		Example: `  archivistctl query -f config/fixtures/content.yaml --filter status=Published --sort uploadDate --order desc
  archivistctl query -f config/fixtures/content.yaml -q history -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd.OutOrStdout(), o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.fixture, "fixture", "f", "", "YAML fixture with a top-level records list")
	f.StringVarP(&o.term, "query", "q", "", "free-text search term")
	f.StringArrayVar(&o.filters, "filter", nil, "equality filter field=value (repeatable)")
	f.StringSliceVar(&o.searchable, "searchable", nil, "fields the term is matched against (default title,author,tags)")
	f.StringVar(&o.sortKey, "sort", "", "sort field")
	f.StringVar(&o.order, "order", "asc", "sort direction: asc or desc")
	f.IntVar(&o.page, "page", 1, "page index, 1-based")
	f.IntVar(&o.pageSize, "page-size", query.DefaultPageSize, "page size")
	f.StringSliceVar(&o.columns, "columns", defaultColumns, "table columns")
	f.StringVarP(&o.output, "output", "o", "table", "output format: table or json")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

func runQuery(w io.Writer, o *queryOptions) error {
	recs, err := seed.LoadFile(o.fixture)
	if err != nil {
		return err
	}
	d, err := o.descriptor()
	if err != nil {
		return err
	}
	pg := listing.New(o.searchable...).Run(recs, d)

	switch o.output {
	case "json":
		return writeJSONPage(w, pg)
	case "table":
		return writeTable(w, pg, o.columns)
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
}

func (o *queryOptions) descriptor() (query.Descriptor, error) {
	eq := make(map[string]string, len(o.filters))
	for _, f := range o.filters {
		field, value, ok := strings.Cut(f, "=")
		if !ok || field == "" {
			return query.Descriptor{}, fmt.Errorf("filter %q must be field=value", f)
		}
		eq[field] = value
	}
	dir, ok := query.ParseDirection(o.order)
	if !ok {
		return query.Descriptor{}, fmt.Errorf("invalid order %q", o.order)
	}
	d, err := query.New(o.term, eq, query.By(o.sortKey, dir), query.Page{Index: o.page, Size: o.pageSize})
	if err != nil {
		return query.Descriptor{}, fmt.Errorf("build query: %w", err)
	}
	return d, nil
}

type jsonPage struct {
	Items        []map[string]any `json:"items"`
	TotalMatched int              `json:"total_matched"`
	TotalPages   int              `json:"total_pages"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
}

func writeJSONPage(w io.Writer, pg page.Page[record.Record]) error {
	out := jsonPage{
		Items:        make([]map[string]any, len(pg.Items())),
		TotalMatched: pg.TotalMatched(),
		TotalPages:   pg.TotalPages(),
		Page:         pg.Index(),
		PageSize:     pg.Size(),
	}
	for i, r := range pg.Items() {
		out.Items[i] = record.ToMap(r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	return nil
}

func writeTable(w io.Writer, pg page.Page[record.Record], columns []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	for _, r := range pg.Items() {
		cells := make([]string, len(columns))
		for i, c := range columns {
			if c == record.FieldID {
				cells[i] = r.ID()
				continue
			}
			cells[i] = r.Get(c).Text()
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	_, err := fmt.Fprintf(w, "page %d/%d, %d matched\n", pg.Index(), pg.TotalPages(), pg.TotalMatched())
	return err
}
