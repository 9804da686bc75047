// Command search-parser compiles the search query language into
// elasticsearch query documents, either one-shot on the command line or as
// an HTTP service backed by a sqlite index.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/repr"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/cultpony/search-parser/pkg/dsl"
	"github.com/cultpony/search-parser/pkg/search"
	"github.com/cultpony/search-parser/pkg/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "search-parser",
		Short:         "Compile search queries into elasticsearch query documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newParseCmd(), newDslCmd(), newServeCmd())
	return cmd
}

func newParseCmd() *cobra.Command {
	var (
		schemaPath   string
		defaultField string
		nowFlag      string
		fromFile     bool
		pretty       bool
	)
	cmd := &cobra.Command{
		Use:   "parse [term]",
		Short: "Compile one query and print the document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args[0], fromFile)
			if err != nil {
				return err
			}

			cfg := search.Config{DefaultField: defaultField}
			if schemaPath != "" {
				b, err := os.ReadFile(schemaPath)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(b, &cfg); err != nil {
					return fmt.Errorf("schema file %s: %w", schemaPath, err)
				}
				if cfg.DefaultField == "" {
					cfg.DefaultField = defaultField
				}
			}

			clock := clockwork.Clock(clockwork.NewRealClock())
			if nowFlag != "" {
				now, err := time.Parse(time.RFC3339, nowFlag)
				if err != nil {
					return fmt.Errorf("--now: %w", err)
				}
				clock = clockwork.NewFakeClockAt(now)
			}

			p, err := search.NewParser(cfg, clock)
			if err != nil {
				return err
			}
			q, err := p.Parse(input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), q, pretty)
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "field schema file (JSON)")
	cmd.Flags().StringVarP(&defaultField, "default-field", "d", "text", "field receiving bare terms")
	cmd.Flags().StringVar(&nowFlag, "now", "", "fix the clock at this RFC3339 instant")
	cmd.Flags().BoolVarP(&fromFile, "file", "f", false, `read the term from this file instead; "-" reads stdin`)
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "indent the output")
	return cmd
}

func newDslCmd() *cobra.Command {
	var (
		fromFile bool
		pretty   bool
	)
	cmd := &cobra.Command{
		Use:   "dsl [document]",
		Short: "Parse a textual query document and re-emit it normalized",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args[0], fromFile)
			if err != nil {
				return err
			}
			d := &dsl.Dsl{}
			if err := dsl.DslParser.ParseString("", input, d); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d.ToRequest(), pretty)
		},
	}
	cmd.Flags().BoolVarP(&fromFile, "file", "f", false, `read the document from this file instead; "-" reads stdin`)
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "indent the output")
	return cmd
}

func newServeCmd() *cobra.Command {
	cfg := server.Config{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler and a sqlite-backed search API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel(cfg.Debug),
			}))
			if cfg.Debug {
				logger.Debug("config", "cfg", repr.String(cfg))
			}

			s := server.New(cfg, logger)
			if err := s.Init(); err != nil {
				return err
			}
			defer s.Close()

			addr := fmt.Sprintf("%s:%d", cfg.ListenAddr, cfg.Port)
			logger.Info("server started", "addr", addr)
			return http.ListenAndServe(addr, s.Router)
		},
	}
	cmd.Flags().StringVar(&cfg.DbLocation, "db", "test.db", "location of sqlite database")
	cmd.Flags().StringVar(&cfg.ListenAddr, "listen", "", "listen address")
	cmd.Flags().IntVar(&cfg.Port, "port", 8080, "listen port")
	cmd.Flags().StringVar(&cfg.SchemaLocation, "schema", "", "index schema file (JSON)")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "log request bodies")
	return cmd
}

func logLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func readInput(arg string, fromFile bool) (string, error) {
	if !fromFile {
		return arg, nil
	}
	if arg == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(arg)
	return string(b), err
}

func printJSON(w io.Writer, v any, pretty bool) error {
	var (
		j   []byte
		err error
	)
	if pretty {
		j, err = json.MarshalIndent(v, "", "  ")
	} else {
		j, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(j))
	return err
}
