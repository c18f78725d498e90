package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tplout/pkg/fragments"
	"github.com/goliatone/go-tplout/pkg/html"
	"github.com/goliatone/go-tplout/pkg/logging"
	"github.com/goliatone/go-tplout/pkg/output"
	"github.com/goliatone/go-tplout/pkg/render/template/gotemplate"
)

type options struct {
	verbosity int
	output    string
	capacity  int
	dataFile  string
	extension string

	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:          "tplout",
		Short:        "Render template output through the tplout sinks",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logger = logging.Setup(opts.verbosity, cmd.ErrOrStderr())
			opts.logger.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
	}
	root.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v, -vv, -vvv)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	root.PersistentFlags().IntVar(&opts.capacity, "capacity", output.DefaultCapacity, "initial output buffer capacity in bytes")

	root.AddCommand(newRenderCmd(opts), newTemplateCmd(opts))
	return root
}

func newRenderCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "render <fragments.yaml>",
		Short: "Render a YAML fragment document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open fragments: %w", err)
			}
			defer f.Close()

			doc, err := fragments.Load(f)
			if err != nil {
				return err
			}

			capacity := opts.capacity
			if doc.Capacity > 0 && !cmd.Flags().Changed("capacity") {
				capacity = doc.Capacity
			}
			acc := output.NewByteArrayOutputSize(capacity)
			logger := logging.Component(opts.logger, "html")
			if err := doc.Render(html.NewOutput(acc, html.WithLogger(logger))); err != nil {
				return err
			}

			opts.logger.Info().
				Int("fragments", len(doc.Fragments)).
				Int("bytes", acc.Len()).
				Int("capacity", acc.Cap()).
				Msg("Fragments rendered")
			return writeResult(cmd.OutOrStdout(), opts.output, acc)
		},
	}
}

func newTemplateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template <dir> <name>",
		Short: "Render a pongo2 template from dir",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadData(opts.dataFile)
			if err != nil {
				return err
			}

			engine, err := gotemplate.New(
				gotemplate.WithBaseDir(args[0]),
				gotemplate.WithExtension(opts.extension),
				gotemplate.WithLogger(logging.Component(opts.logger, "template")),
			)
			if err != nil {
				return err
			}

			acc := output.NewByteArrayOutputSize(opts.capacity)
			if err := engine.RenderTo(args[1], data, acc); err != nil {
				return err
			}

			opts.logger.Info().Str("template", args[1]).Int("bytes", acc.Len()).Msg("Template rendered")
			return writeResult(cmd.OutOrStdout(), opts.output, acc)
		},
	}
	cmd.Flags().StringVar(&opts.dataFile, "data", "", "YAML file with template data")
	cmd.Flags().StringVar(&opts.extension, "ext", ".tpl", "template file extension")
	return cmd
}

func loadData(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return data, nil
}

func writeResult(stdout io.Writer, path string, acc *output.ByteArrayOutput) error {
	if path == "" {
		_, err := acc.WriteTo(stdout)
		return err
	}
	if err := os.WriteFile(path, acc.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
