// Command phplit converts a PHP literal expression to JSON or YAML.
//
// It reads the literal from a file argument or from stdin and writes
// the converted document to stdout:
//
//	phplit config.php
//	echo "['debug' => true]" | phplit --format yaml
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/KimNorgaard/go-phplit"
)

var CLI struct {
	Input    string `help:"Path to input file. If not specified, reads from stdin." arg:"" optional:"" type:"path"`
	Format   string `help:"Output format." short:"f" enum:"json,yaml" default:"json"`
	MaxDepth int    `help:"Maximum nesting depth accepted by the parser." default:"1000"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("phplit"),
		kong.Description("Convert a PHP literal expression to JSON or YAML."),
		kong.UsageOnError(),
	)
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		ctx.Exit(1)
	}
}

func run() error {
	data, err := readInput()
	if err != nil {
		return err
	}

	var doc any
	if err := phplit.Unmarshal(data, &doc, phplit.MaxDepth(CLI.MaxDepth)); err != nil {
		return err
	}

	out, err := render(doc)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func readInput() ([]byte, error) {
	if CLI.Input == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(CLI.Input)
}

func render(doc any) ([]byte, error) {
	switch CLI.Format {
	case "yaml":
		return yaml.Marshal(doc)
	default:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}
