package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nemanja-m/wasimpi/internal/controller/api/rest"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return &printer{w: w, format: format}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// structured writes v as JSON or YAML. It reports false for table output.
func (p *printer) structured(v any) (bool, error) {
	switch p.format {
	case outputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case outputYAML:
		return true, writeYAML(p.w, v)
	}
	return false, nil
}

// writeYAML goes through JSON so keys keep their wire names and order.
func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return err
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle | yaml.DoubleQuotedStyle
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func (p *printer) jobs(resp *rest.ListJobsResponse) error {
	if ok, err := p.structured(resp); ok {
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tWORLD\tPATH\tSUBMITTED")
	for _, j := range resp.Jobs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", j.ID, j.State, j.WorldSize, j.Path, j.SubmittedAt.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if resp.NextOffset != nil {
		fmt.Fprintf(p.w, "\n%d of %d shown, next offset %d\n", len(resp.Jobs), resp.Total, *resp.NextOffset)
	}
	return nil
}

func (p *printer) job(j *rest.JobResponse) error {
	if ok, err := p.structured(j); ok {
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", j.ID)
	fmt.Fprintf(tw, "State:\t%s\n", j.State)
	fmt.Fprintf(tw, "Path:\t%s\n", j.Path)
	fmt.Fprintf(tw, "Argv:\t%s\n", strings.Join(j.Argv, " "))
	fmt.Fprintf(tw, "World size:\t%d\n", j.WorldSize)
	fmt.Fprintf(tw, "Callback:\t%s\n", j.Callback)
	fmt.Fprintf(tw, "Submitted:\t%s\n", j.SubmittedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "Updated:\t%s\n", j.UpdatedAt.Format(time.RFC3339))
	return tw.Flush()
}

func (p *printer) slots(s *rest.SlotsResponse) error {
	if ok, err := p.structured(s); ok {
		return err
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UNIVERSE\tFREE\tIN USE")
	fmt.Fprintf(tw, "%d\t%d\t%d\n", s.UniverseSize, s.FreeSlots, s.InUse)
	return tw.Flush()
}
