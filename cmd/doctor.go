package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"

	"github.com/layera/stylegen/internal/catalog"
	"github.com/layera/stylegen/internal/generator"
	"github.com/layera/stylegen/internal/lint"
	"github.com/layera/stylegen/internal/version"
)

// Check statuses.
const (
	statusOK      = "ok"
	statusWarning = "warning"
	statusError   = "error"
)

// DiagnosticResult is the outcome of one doctor check.
type DiagnosticResult struct {
	Name       string `json:"name" yaml:"name"`
	Status     string `json:"status" yaml:"status"`
	Message    string `json:"message" yaml:"message"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// DoctorReport is the full doctor output.
type DoctorReport struct {
	Timestamp time.Time          `json:"timestamp" yaml:"timestamp"`
	Version   string             `json:"version" yaml:"version"`
	Config    string             `json:"config" yaml:"config"`
	Results   []DiagnosticResult `json:"results" yaml:"results"`
	Summary   ReportSummary      `json:"summary" yaml:"summary"`
}

// ReportSummary counts results by status.
type ReportSummary struct {
	Total    int `json:"total" yaml:"total"`
	OK       int `json:"ok" yaml:"ok"`
	Warnings int `json:"warnings" yaml:"warnings"`
	Errors   int `json:"errors" yaml:"errors"`
}

func newDoctorCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, sources and output",
		Long: `Check that the configuration resolves, every builder loads and
validates, the compiled CSS lints cleanly, the output directory is writable and
the preview port is free.

Examples:
  stylegen doctor
  stylegen doctor --format yaml`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(format, "text", "json", "yaml")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			report := a.diagnose(cmd.Context())

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			case "yaml":
				data, err := yaml.Marshal(report)
				if err != nil {
					return err
				}
				out.Write(data)
			default:
				printDoctorText(cmd, report)
			}

			if report.Summary.Errors > 0 {
				return fmt.Errorf("doctor found %d error(s)", report.Summary.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text|json|yaml)")
	return cmd
}

func (a *app) diagnose(ctx context.Context) *DoctorReport {
	report := &DoctorReport{
		Timestamp: time.Now().UTC(),
		Version:   version.GetShortVersion(),
		Config:    a.v.ConfigFileUsed(),
	}
	if report.Config == "" {
		report.Config = "(defaults)"
	}

	c, loadResult := a.checkSources()
	report.Results = append(report.Results, loadResult)
	if c != nil {
		report.Results = append(report.Results,
			checkValidation(ctx, a, c),
			checkLint(ctx, a, c),
		)
	}
	report.Results = append(report.Results,
		checkOutputDir(a.cfg.Output.Dir),
		checkPort(a.cfg.Server.Address()),
	)

	for _, r := range report.Results {
		report.Summary.Total++
		switch r.Status {
		case statusOK:
			report.Summary.OK++
		case statusWarning:
			report.Summary.Warnings++
		case statusError:
			report.Summary.Errors++
		}
	}
	return report
}

func (a *app) checkSources() (*catalog.Catalog, DiagnosticResult) {
	res := DiagnosticResult{Name: "sources"}
	c, err := a.loadCatalog()
	if err != nil {
		res.Status = statusError
		res.Message = err.Error()
		res.Suggestion = "Fix the builder document or remove the directory from sources.dirs"
		return nil, res
	}
	if c.Len() == 0 {
		res.Status = statusWarning
		res.Message = "no builders loaded"
		res.Suggestion = "Enable sources.builtin or add directories to sources.dirs"
		return c, res
	}
	res.Status = statusOK
	res.Message = fmt.Sprintf("%d builder(s) loaded from %d project dir(s)", c.Len(), len(a.cfg.Sources.Dirs))
	return c, res
}

func checkValidation(ctx context.Context, a *app, c *catalog.Catalog) DiagnosticResult {
	res := DiagnosticResult{Name: "validation", Status: statusOK, Message: "every section is well formed"}
	err := generator.New(a.logger).ValidateCatalog(ctx, c)
	if err == nil {
		return res
	}
	res.Message = fmt.Sprintf("%d malformed section(s)", len(multierr.Errors(err)))
	res.Suggestion = "Run 'stylegen validate' for details"
	res.Status = statusWarning
	if a.cfg.Validation.Strict {
		res.Status = statusError
	}
	return res
}

func checkLint(ctx context.Context, a *app, c *catalog.Catalog) DiagnosticResult {
	l := lint.New(a.logger)
	var findings []lint.Finding
	for _, b := range c.Builders() {
		findings = append(findings, l.Lint(ctx, []byte(b.CSS()), b.Name)...)
	}

	res := DiagnosticResult{Name: "lint", Status: statusOK, Message: "compiled CSS tokenizes cleanly"}
	switch {
	case lint.HasErrors(findings):
		res.Status = statusError
	case len(findings) > 0:
		res.Status = statusWarning
	default:
		return res
	}
	res.Message = fmt.Sprintf("%d finding(s)", len(findings))
	res.Suggestion = "Run 'stylegen lint' for details"
	return res
}

func checkOutputDir(dir string) DiagnosticResult {
	res := DiagnosticResult{Name: "output"}

	probeDir := dir
	for {
		info, err := os.Stat(probeDir)
		if err == nil {
			if !info.IsDir() {
				res.Status = statusError
				res.Message = probeDir + " is not a directory"
				return res
			}
			break
		}
		parent := filepath.Dir(probeDir)
		if parent == probeDir {
			break
		}
		probeDir = parent
	}

	f, err := os.CreateTemp(probeDir, ".stylegen-doctor-*")
	if err != nil {
		res.Status = statusError
		res.Message = fmt.Sprintf("%s is not writable: %v", probeDir, err)
		res.Suggestion = "Set output.dir to a writable directory"
		return res
	}
	f.Close()
	os.Remove(f.Name())

	res.Status = statusOK
	res.Message = dir + " is writable"
	return res
}

func checkPort(addr string) DiagnosticResult {
	res := DiagnosticResult{Name: "server"}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		res.Status = statusWarning
		res.Message = fmt.Sprintf("%s is not available: %v", addr, err)
		res.Suggestion = "Use 'stylegen serve --port <port>' or set server.port"
		return res
	}
	ln.Close()
	res.Status = statusOK
	res.Message = addr + " is available"
	return res
}

func printDoctorText(cmd *cobra.Command, report *DoctorReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "stylegen doctor (%s)\n", report.Version)
	fmt.Fprintf(out, "Config: %s\n\n", report.Config)
	for _, r := range report.Results {
		fmt.Fprintf(out, "[%s] %s: %s\n", r.Status, r.Name, r.Message)
		if r.Suggestion != "" {
			fmt.Fprintf(out, "    %s\n", r.Suggestion)
		}
	}
	fmt.Fprintf(out, "\n%d check(s): %d ok, %d warning(s), %d error(s)\n",
		report.Summary.Total, report.Summary.OK, report.Summary.Warnings, report.Summary.Errors)
}
