package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/celldraw/pkg/pipeline"
)

// extensions maps output formats to file suffixes.
var extensions = map[string]string{
	pipeline.FormatJSON: ".json",
	pipeline.FormatSVG:  ".svg",
	pipeline.FormatDOT:  ".dot",
	pipeline.FormatDeps: ".deps.svg",
}

// suffixes lists the extensions longest first, so ".deps.svg" wins over ".svg".
var suffixes = []string{".deps.svg", ".json", ".svg", ".dot"}

// stdinName is the input argument that reads from stdin.
const stdinName = "-"

// inputArg returns the input path, defaulting to stdin.
func inputArg(args []string) string {
	if len(args) == 0 {
		return stdinName
	}
	return args[0]
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. A known format
// extension on output is stripped too, so "-o out.svg -f svg,json" writes
// out.svg and out.json.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, ext := range suffixes {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// artifactPath names the file for one format. A single format written to
// an explicit output keeps that exact path.
func artifactPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + extensions[format]
}

// writeOutput writes data to path, or to stdout when path is "" or "-".
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == stdinName {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// artifactWriteParams describes the outputs of one render run.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	stdout    io.Writer
}

// writeArtifacts writes every rendered format and reports the paths.
// With stdin input and no -o, a single format goes to stdout.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	single := len(p.formats) == 1
	if p.input == stdinName && p.output == "" {
		if !single {
			return nil, fmt.Errorf("reading from stdin with several formats requires --output")
		}
		return nil, writeOutput(p.stdout, "", p.artifacts[p.formats[0]])
	}

	var paths []string
	for _, format := range p.formats {
		path := artifactPath(p.output, p.input, format, single)
		if err := writeOutput(p.stdout, path, p.artifacts[format]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
