package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ConradIrwin/treejson"
	"github.com/ConradIrwin/treejson/evaluator"
	"github.com/ConradIrwin/treejson/internal/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	version := buildinfo.Read()
	root := &cobra.Command{
		Use:   "treejson [file]",
		Short: "Print configuration files as indented JSON",
		Long: `treejson evaluates a configuration document (CONL, YAML, TOML or JSON)
and prints the resulting tree as indented JSON-like text, keeping keys in
document order. With no file, or when file is -, the document is read from
standard input.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(log.WithContext(cmd.Context(), c.Logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, used, err := loadOptions(cmd.Flags(), configPath)
			if err != nil {
				return err
			}
			if used != "" {
				log.FromContext(cmd.Context()).Debug("loaded config", "file", used)
			}
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			return c.convert(cmd, name, opts)
		},
	}

	root.SetVersionTemplate(version.Template())

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/treejson/treejson.yaml)")
	root.Flags().StringP("format", "f", "", "input format: "+strings.Join(evaluator.Formats(), ", ")+" (default: by file extension, else conl)")
	root.Flags().Int("indent", 0, "base indentation in spaces")
	root.Flags().Bool("escape", false, "escape strings as JSON")
	root.Flags().Int("max-depth", 0, "maximum container nesting (0 for no limit)")
	root.Flags().StringP("select", "s", "", "print only the value at this dotted path")
	root.Flags().StringP("output", "o", "", "write to file instead of stdout")

	root.AddCommand(c.formatsCommand())

	return root
}

func (c *CLI) convert(cmd *cobra.Command, name string, opts *options) error {
	ctx := cmd.Context()
	timer := startTimings(log.FromContext(ctx), displayName(name))

	source, err := readSource(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}
	timer.stage("read", "bytes", len(source))

	format := opts.Format
	if format == "" {
		detected, ok := evaluator.Detect(name)
		if !ok {
			detected = "conl"
		}
		format = detected
	}
	ev, err := evaluator.For(format)
	if err != nil {
		return err
	}
	root, err := ev.Evaluate(source)
	if err != nil {
		var evalErr *evaluator.Error
		if errors.As(err, &evalErr) && evalErr.Lno > 0 {
			msg := evalErr.Msg
			if msg == "" {
				msg = evalErr.Err.Error()
			}
			return fmt.Errorf("%s:%d: %s", displayName(name), evalErr.Lno, msg)
		}
		return fmt.Errorf("%s: %w", displayName(name), err)
	}
	timer.stage("evaluated", "format", format)

	if opts.Select != "" {
		selected, ok := treejson.Lookup(root, opts.Select)
		if !ok {
			return fmt.Errorf("%s: no value at %q", displayName(name), opts.Select)
		}
		root = selected
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s := treejson.Serializer{EscapeStrings: opts.Escape, MaxDepth: opts.MaxDepth}
	text, err := s.Serialize(root, opts.Indent)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(name), err)
	}
	timer.stage("serialized", "bytes", len(text))

	if opts.Output == "" || opts.Output == "-" {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(opts.Output, []byte(text+"\n"), 0o644); err != nil {
			return err
		}
		printSuccess(cmd.ErrOrStderr(), "Wrote %s", opts.Output)
	}
	return nil
}

func readSource(stdin io.Reader, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func displayName(name string) string {
	if name == "-" {
		return "<stdin>"
	}
	return name
}

func (c *CLI) formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported input formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, name := range evaluator.Formats() {
				fmt.Fprintf(w, "%s %s\n",
					StyleHighlight.Render(fmt.Sprintf("%-5s", name)),
					StyleDim.Render(strings.Join(evaluator.Extensions(name), " ")))
			}
		},
	}
}
