package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/promptcmd/internal/config"
	"github.com/opencode-ai/promptcmd/internal/logging"
	"github.com/opencode-ai/promptcmd/internal/templates"
)

var validateAllowWarnings bool

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateAllowWarnings, "allow-warnings", false, "accept templates that only have warnings")
}

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate command templates",
	Long: `Validate inline templates from the config file and the template files given
as arguments. Without arguments, the configured template directories, every
directory on the search path and the builtin templates are checked as well.

Any diagnostic rejects the run; --allow-warnings accepts warning-only results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		report, err := buildValidationReport(cfg, args)
		if err != nil {
			return err
		}
		report.finish(cfg.AllowWarnings || validateAllowWarnings)

		out := cmd.OutOrStdout()
		if IsJSONOutput() {
			if err := WriteOutput(out, report); err != nil {
				return err
			}
		} else if err := writeValidationReport(out, report); err != nil {
			return err
		}

		if !report.Valid {
			return fmt.Errorf("template validation failed: %s, %s",
				pluralize(report.ErrorCount, "error"), pluralize(report.WarningCount, "warning"))
		}
		return nil
	},
}

// validationReport aggregates diagnostics across every checked source.
type validationReport struct {
	Valid        bool                  `json:"valid"`
	Sources      []string              `json:"sources"`
	Accepted     int                   `json:"accepted"`
	ErrorCount   int                   `json:"errors"`
	WarningCount int                   `json:"warnings"`
	Diagnostics  templates.Diagnostics `json:"diagnostics"`
}

func (r *validationReport) add(source string, accepted int, diags templates.Diagnostics) {
	r.Sources = append(r.Sources, source)
	r.Accepted += accepted
	r.Diagnostics = append(r.Diagnostics, diags...)
}

func (r *validationReport) finish(allowWarnings bool) {
	if r.Diagnostics == nil {
		r.Diagnostics = templates.Diagnostics{}
	}
	r.ErrorCount = len(r.Diagnostics.Errors())
	r.WarningCount = len(r.Diagnostics.Warnings())
	r.Valid = r.ErrorCount == 0 && (r.WarningCount == 0 || allowWarnings)
}

func buildValidationReport(cfg *config.Config, files []string) (*validationReport, error) {
	logger := logging.Component("validate")
	report := &validationReport{Sources: []string{}}

	if len(cfg.Templates) > 0 {
		source := configSourceLabel(cfg)
		resolved, diags := templates.Resolve(cfg.Templates, templates.ListKey, source)
		report.add(source, len(resolved), diags.WithFile(source))
	}

	for _, file := range files {
		loaded, diags, err := templates.LoadFile(file)
		if err != nil {
			return nil, err
		}
		report.add(file, len(loaded), diags)
	}

	if len(files) == 0 {
		dirs := append([]string{}, cfg.TemplateDirs...)
		dirs = append(dirs, templates.SearchPaths(resolveProjectDir(cfg))...)
		for _, dir := range dirs {
			loaded, diags, err := templates.LoadFromDir(dir)
			if err != nil {
				return nil, err
			}
			if len(loaded) == 0 && len(diags) == 0 {
				continue
			}
			report.add(dir, len(loaded), diags)
		}

		builtins, err := templates.LoadBuiltin()
		if err != nil {
			return nil, err
		}
		report.add(templates.BuiltinSource, len(builtins), nil)
	}

	logger.Info().
		Int("sources", len(report.Sources)).
		Int("accepted", report.Accepted).
		Int("diagnostics", len(report.Diagnostics)).
		Msg("validation finished")
	return report, nil
}

func writeValidationReport(out io.Writer, report *validationReport) error {
	st := outputStyles(out)

	current := ""
	for _, diag := range report.Diagnostics {
		if diag.File != current {
			current = diag.File
			fmt.Fprintln(out, st.Title.Render(current))
		}
		label := st.Error.Render("ERR ")
		if diag.IsWarning() {
			label = st.Warning.Render("WARN")
		}
		fmt.Fprintf(out, "  %s %s  %s\n", label, st.Accent.Render(diag.Path), diag.Message)
	}

	summary := fmt.Sprintf("%s accepted from %s: %s, %s",
		pluralize(report.Accepted, "template"),
		pluralize(len(report.Sources), "source"),
		pluralize(report.ErrorCount, "error"),
		pluralize(report.WarningCount, "warning"))
	if report.Valid {
		fmt.Fprintln(out, st.Success.Render(summary))
	} else {
		fmt.Fprintln(out, st.Error.Render(summary))
	}
	return nil
}

func configSourceLabel(cfg *config.Config) string {
	if cfg.Source != "" {
		return cfg.Source
	}
	return "config"
}
