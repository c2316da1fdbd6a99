package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/promptcmd/internal/config"
	"github.com/opencode-ai/promptcmd/internal/logging"
	"github.com/opencode-ai/promptcmd/internal/templates"
)

var listTags []string

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)

	listCmd.Flags().StringSliceVar(&listTags, "tag", nil, "filter by tag (repeatable)")
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available templates",
	Long: `List templates from the config file, configured template directories,
the search path and the builtins. Earlier sources shadow later ones by name
or alias; invalid templates are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := loadTemplates(GetConfig())
		if err != nil {
			return err
		}
		items = filterTemplates(items, listTags)

		out := cmd.OutOrStdout()
		if IsJSONOutput() {
			return WriteOutput(out, items)
		}
		if len(items) == 0 {
			fmt.Fprintln(out, "No templates found.")
			return nil
		}

		rows := make([][]string, 0, len(items))
		for _, tmpl := range items {
			rows = append(rows, []string{
				tmpl.Name,
				formatList(tmpl.Aliases),
				formatYesNo(tmpl.HasPlaceholder()),
				tmpl.Source,
				tmpl.Description,
			})
		}
		return writeTable(out, []string{"NAME", "ALIASES", "ARGS", "SOURCE", "DESCRIPTION"}, rows)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template",
	Long:  "Show a template by name or alias.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := loadTemplates(GetConfig())
		if err != nil {
			return err
		}

		tmpl, err := templates.Lookup(items, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() {
			return WriteOutput(out, tmpl)
		}
		writeTemplateDetails(out, tmpl)
		return nil
	},
}

// loadTemplates resolves every template source in precedence order.
func loadTemplates(cfg *config.Config) ([]*templates.Template, error) {
	logger := logging.Component("templates")

	inline, diags := templates.Resolve(cfg.Templates, templates.ListKey, configSourceLabel(cfg))
	diags = diags.WithFile(configSourceLabel(cfg))
	sets := [][]*templates.Template{inline}

	for _, dir := range cfg.TemplateDirs {
		loaded, dirDiags, err := templates.LoadFromDir(dir)
		if err != nil {
			return nil, err
		}
		diags = append(diags, dirDiags...)
		sets = append(sets, loaded)
	}

	searched, searchDiags, err := templates.LoadFromSearchPaths(resolveProjectDir(cfg))
	if err != nil {
		return nil, err
	}
	diags = append(diags, searchDiags...)
	sets = append(sets, searched)

	for _, diag := range diags {
		logger.Warn().
			Str("file", diag.File).
			Str("path", diag.Path).
			Str("severity", string(diag.Severity)).
			Msg(diag.Message)
	}

	return templates.Merge(sets...), nil
}

func filterTemplates(items []*templates.Template, tags []string) []*templates.Template {
	if len(tags) == 0 {
		return items
	}

	wanted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		wanted[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}

	filtered := make([]*templates.Template, 0, len(items))
	for _, tmpl := range items {
		for _, tag := range tmpl.Tags {
			if _, ok := wanted[strings.ToLower(tag)]; ok {
				filtered = append(filtered, tmpl)
				break
			}
		}
	}
	return filtered
}

func writeTemplateDetails(out io.Writer, tmpl *templates.Template) {
	st := outputStyles(out)

	fmt.Fprintln(out, st.Title.Render(tmpl.Name))
	fmt.Fprintf(out, "  %s %s\n", st.Muted.Render("Description:"), tmpl.Description)
	fmt.Fprintf(out, "  %s %s\n", st.Muted.Render("Command:    "), st.Accent.Render(tmpl.Command))
	fmt.Fprintf(out, "  %s %s\n", st.Muted.Render("Aliases:    "), formatList(tmpl.Aliases))
	fmt.Fprintf(out, "  %s %s\n", st.Muted.Render("Tags:       "), formatList(tmpl.Tags))
	fmt.Fprintf(out, "  %s %s\n", st.Muted.Render("Takes args: "), formatYesNo(tmpl.HasPlaceholder()))
	fmt.Fprintf(out, "  %s %s\n", st.Muted.Render("Source:     "), tmpl.Source)
}
