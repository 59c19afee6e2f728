package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/app"
	"github.com/hamed0406/sitecheck/internal/config"
	"github.com/hamed0406/sitecheck/internal/domain"
)

type globalOpts struct {
	apiBase string
	apiKey  string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}
	root := &cobra.Command{
		Use:          "sitecheck",
		Short:        "check that a website renders, how fast it answers and whether it uses HTTPS",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.apiBase, "api", envOr("API_BASE", "http://localhost:8080"), "API base URL")
	root.PersistentFlags().StringVar(&opts.apiKey, "key", os.Getenv("API_KEY"), "API key (public or admin)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "request timeout")

	root.AddCommand(newProbeCmd(), newSubmitCmd(opts), newExportCmd(opts), newClearCmd(opts))
	return root
}

func newProbeCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "probe <url>",
		Short: "run the checks locally and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := normalizeArg(args[0])
			if err != nil {
				return err
			}
			runner, err := app.NewRunner(config.FromEnv(), zap.NewNop())
			if err != nil {
				return err
			}
			rep := runner.Probe(cmd.Context(), target)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			printReport(cmd.OutOrStdout(), &rep)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func newSubmitCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <url>",
		Short: "ask the API to probe a URL and store the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := normalizeArg(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			rep, err := newClient(opts).Submit(ctx, target)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), rep)
			return nil
		},
	}
}

func newExportCmd(opts *globalOpts) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "download stored reports as CSV or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "csv" && format != "pdf" {
				return fmt.Errorf("unsupported format %q (want csv or pdf)", format)
			}
			if output == "" {
				output = "reports." + format
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			n, err := newClient(opts).Export(ctx, format, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", n, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default reports.<format>)")
	return cmd
}

func newClearCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "delete every stored report (admin key)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			n, err := newClient(opts).Clear(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d reports\n", n)
			return nil
		},
	}
}

// normalizeArg defaults a bare host to https and rejects anything that is
// not an http(s) URL.
func normalizeArg(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q", raw)
	}
	if s := strings.ToLower(u.Scheme); s != "http" && s != "https" {
		return "", fmt.Errorf("invalid URL %q: only http and https are supported", raw)
	}
	return raw, nil
}

func printReport(w io.Writer, r *domain.Report) {
	mark := func(o domain.Outcome) string {
		if o.OK {
			return "✔"
		}
		return "✖"
	}
	fmt.Fprintf(w, "%s\n", r.URL)
	fmt.Fprintf(w, "  %s render:   %s\n", mark(r.Render), r.Render.Message)
	fmt.Fprintf(w, "  %s latency:  %s\n", mark(r.Latency), r.Latency.Message)
	fmt.Fprintf(w, "  %s security: %s\n", mark(r.Security), r.Security.Message)
	fmt.Fprintf(w, "  checked at %s\n", r.ObservedAt.Format(time.RFC3339))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
