package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Output modes understood by Printer.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Printer handles all display output for the CLI.
type Printer struct {
	Mode    string
	Verbose bool
	Writer  io.Writer
}

// NewPrinter creates a Printer writing to stdout.
func NewPrinter(mode string, verbose bool) *Printer {
	if mode == "" {
		mode = OutputText
	}
	return &Printer{Mode: mode, Verbose: verbose, Writer: os.Stdout}
}

// PrintMetadata renders one record extracted from name.
func (p *Printer) PrintMetadata(name string, m *Metadata) error {
	switch p.Mode {
	case OutputJSON:
		return p.printJSON(name, m)
	case OutputYAML:
		return p.printYAML(name, m)
	default:
		p.printText(name, m)
		return nil
	}
}

type fileRecord struct {
	File     string    `json:"file" yaml:"file"`
	Metadata *Metadata `json:"metadata" yaml:"metadata"`
}

func (p *Printer) printText(name string, m *Metadata) {
	fmt.Fprintf(p.Writer, "File   : %s\n", name)
	fmt.Fprintf(p.Writer, "Summary: %s\n", m.Summary())
	fmt.Fprintln(p.Writer)

	// Group by category
	groups := make(map[string][]MetaField)
	order := []string{}
	seen := map[string]bool{}
	for _, f := range m.Fields() {
		if f.Value == "" && !p.Verbose {
			continue
		}
		if !seen[f.Category] {
			seen[f.Category] = true
			order = append(order, f.Category)
		}
		groups[f.Category] = append(groups[f.Category], f)
	}
	if len(order) == 0 {
		fmt.Fprintln(p.Writer, "(no metadata found)")
		fmt.Fprintln(p.Writer)
		return
	}

	for _, cat := range order {
		fmt.Fprintf(p.Writer, "── %s ──\n", cat)
		for _, f := range groups[cat] {
			fmt.Fprintf(p.Writer, "  %-22s %s\n", f.Key+":", f.Value)
		}
		fmt.Fprintln(p.Writer)
	}
}

func (p *Printer) printJSON(name string, m *Metadata) error {
	b, err := json.MarshalIndent(fileRecord{File: name, Metadata: m}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.Writer, string(b))
	return err
}

func (p *Printer) printYAML(name string, m *Metadata) error {
	b, err := yaml.Marshal([]fileRecord{{File: name, Metadata: m}})
	if err != nil {
		return err
	}
	_, err = p.Writer.Write(b)
	return err
}

// PrintError prints an error to stderr.
func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, "✗ Error: "+msg)
}
