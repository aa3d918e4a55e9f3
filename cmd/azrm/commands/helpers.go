package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/azrm/internal/constants"
	"github.com/fivetwenty-io/azrm/pkg/azrm"
)

// Common string constants used throughout the commands package.
const (
	// Output formats.
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"

	// JSON and YAML indentation.
	defaultJSONIndent = 2

	NotAvailable = "N/A"
	Masked       = "***"
)

// Common static errors used throughout the commands package.
var (
	ErrFiltersNeedCollection = errors.New("--where and --jq apply to collection queries only")
	ErrNoResult              = errors.New("query returned no resource")
	ErrUnknownProfile        = errors.New("unknown profile")
)

// ExitError carries a process exit status. A nil Err exits silently.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}

	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return 1
}

// outputFormat returns the validated --output value.
func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString("output"))

	switch format {
	case "", OutputFormatTable:
		return OutputFormatTable, nil
	case OutputFormatJSON, OutputFormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

// colorEnabled reports whether w is a terminal and color was not turned off.
func colorEnabled(w io.Writer) bool {
	if viper.GetBool("no-color") {
		return false
	}

	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}

	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// newLogger builds the console logger. --verbose lowers the level to debug.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !colorEnabled(w),
	}))
}

// renderRecords writes records in the selected format. Table output uses
// columns as the header; json and yaml keep each record's field order.
func renderRecords(w io.Writer, format string, columns []string, records []*azrm.Record) error {
	switch format {
	case OutputFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

		if records == nil {
			records = []*azrm.Record{}
		}

		return encoder.Encode(records)
	case OutputFormatYAML:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, rec := range records {
			seq.Content = append(seq.Content, yamlNode(rec))
		}

		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(defaultJSONIndent)

		defer func() { _ = encoder.Close() }()

		return encoder.Encode(seq)
	default:
		if len(records) == 0 {
			_, _ = io.WriteString(w, "No resources found\n")

			return nil
		}

		table := tablewriter.NewWriter(w)
		table.Header(headerRow(columns)...)

		for _, rec := range records {
			row := make([]any, len(columns))
			for i, column := range columns {
				v, _ := rec.Lookup(column)
				row[i] = formatCell(v)
			}

			_ = table.Append(row...)
		}

		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

func headerRow(columns []string) []any {
	out := make([]any, len(columns))
	for i, column := range columns {
		out[i] = column
	}

	return out
}

// formatCell renders one table value. Nested values print as compact JSON.
func formatCell(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case json.Number:
		return typed.String()
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}

		return string(data)
	}
}

// yamlNode converts a value into a yaml node, keeping record field order.
func yamlNode(v any) *yaml.Node {
	switch typed := v.(type) {
	case *azrm.Record:
		if typed == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}

		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, field := range typed.Fields() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: field.Name},
				yamlNode(field.Value))
		}

		return node
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range typed {
			node.Content = append(node.Content, yamlNode(item))
		}

		return node
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range keys {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: key},
				yamlNode(typed[key]))
		}

		return node
	default:
		node := &yaml.Node{}
		if err := node.Encode(typed); err != nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(typed)}
		}

		return node
	}
}

// writeStructured encodes v as json or yaml.
func writeStructured(w io.Writer, format string, v any) error {
	if format == OutputFormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

		return encoder.Encode(v)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultJSONIndent)

	defer func() { _ = encoder.Close() }()

	return encoder.Encode(v)
}
