package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/verapi/internal/app"
	"github.com/vk/verapi/internal/hcl"
	"sigs.k8s.io/yaml"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks flag and argument mistakes, which exit with code 2.
func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// globalOptions resolves the persistent flags. A flag left unset falls back
// to the matching VERAPI_* environment variable, then to its default.
type globalOptions struct {
	v *viper.Viper
}

func newGlobalOptions() *globalOptions {
	v := viper.New()
	v.SetEnvPrefix("verapi")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &globalOptions{v: v}
}

func (o *globalOptions) configPaths() []string { return o.v.GetStringSlice("config") }
func (o *globalOptions) logLevel() string      { return strings.ToLower(o.v.GetString("log-level")) }
func (o *globalOptions) logFormat() string     { return strings.ToLower(o.v.GetString("log-format")) }

// NewRootCommand builds the verapi command tree. Command output goes to
// outW; logs go to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := newGlobalOptions()

	root := &cobra.Command{
		Use:   "verapi",
		Short: "Versioned API resolver",
		Long: `verapi resolves independently-versioned API modules into one bundle per
declared SDK version, and lets you inspect how every name resolved.

Versions, names and static modules are declared in HCL files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringSliceP("config", "c", nil, "Path to an .hcl file or a directory of .hcl files. Repeatable. Env: VERAPI_CONFIG.")
	pf.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. Env: VERAPI_LOG_LEVEL.")
	pf.String("log-format", "text", "Log output format. Options: 'text' or 'json'. Env: VERAPI_LOG_FORMAT.")
	// BindPFlags only fails on a nil flag set.
	_ = opts.v.BindPFlags(pf)

	root.AddCommand(newDescribeCommand(opts))
	root.AddCommand(newResolveCommand(opts))
	root.AddCommand(newServeCommand(opts))
	return root
}

// Execute runs the command tree with args. Usage mistakes are returned as
// *ExitError with code 2.
func Execute(ctx context.Context, outW, errW io.Writer, args []string) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) && isUsageError(err) {
			err = usageError(err)
		}
		color.New(color.FgRed, color.Bold).Fprintf(errW, "Error: %v\n", err)
		return err
	}
	return nil
}

// isUsageError recognizes the argument errors cobra reports without calling
// the flag error func.
func isUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "accepts ") ||
		strings.HasPrefix(msg, "requires at least")
}

// buildApp validates the global flags and constructs the application.
func (o *globalOptions) buildApp(cmd *cobra.Command, port int) (*app.App, error) {
	slog.Debug("Building application from CLI flags.", "config", o.configPaths())
	cfg, err := app.NewConfig(app.Config{
		ConfigPaths: o.configPaths(),
		LogLevel:    o.logLevel(),
		LogFormat:   o.logFormat(),
		Port:        port,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(cmd.ErrOrStderr(), cfg, hcl.NewLoader())
}

func checkFormat(format string) error {
	switch format {
	case "text", "yaml", "json":
		return nil
	default:
		return usageError(fmt.Errorf("invalid output format %q: must be 'text', 'yaml' or 'json'", format))
	}
}

func newDescribeCommand(opts *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print every registered version and how each api resolved",
		Example: `  verapi describe -c ./config
  verapi describe -c main.hcl -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			a, err := opts.buildApp(cmd, 0)
			if err != nil {
				return err
			}
			return a.Describe(cmd.OutOrStdout(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format. Options: 'text', 'yaml' or 'json'.")
	return cmd
}

func newResolveCommand(opts *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "resolve <name> [version]",
		Short: "Show how one api resolves at a version (latest by default)",
		Example: `  verapi resolve -c ./config cache
  verapi resolve -c ./config cache 1.2
  verapi resolve -c ./config cache '#10200'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			a, err := opts.buildApp(cmd, 0)
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 2 {
				query = args[1]
			}
			report, err := a.APIReport(query, args[0])
			if err != nil {
				return err
			}
			return writeAPIReport(cmd.OutOrStdout(), output, report)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format. Options: 'text', 'yaml' or 'json'.")
	return cmd
}

func writeAPIReport(w io.Writer, format string, r app.APIReport) error {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	title := color.New(color.FgCyan, color.Bold)
	title.Fprintf(w, "%s@%s", r.Name, r.Version)
	fmt.Fprintf(w, " (%s)", r.Kind)
	if r.FromLatest {
		fmt.Fprint(w, " from latest")
	}
	fmt.Fprintln(w)
	for _, p := range r.Probes {
		line := fmt.Sprintf("  %-7s %s", p.Outcome, p.Path)
		if p.Error != "" {
			line += ": " + p.Error
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func newServeCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the introspection HTTP server",
		Example: `  verapi serve -c ./config --port 8080
  curl localhost:8080/v/1.2/cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			port := opts.v.GetInt("port")
			if port <= 0 {
				return usageError(fmt.Errorf("invalid port %d: must be positive", port))
			}
			a, err := opts.buildApp(cmd, port)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx)
		},
	}
	cmd.Flags().Int("port", 8080, "Port for the introspection HTTP server. Env: VERAPI_PORT.")
	_ = opts.v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}
