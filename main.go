// strman is a strings manager: a multi-project localization dictionary with
// spreadsheet import and iOS/Android string bundle export.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/minios-linux/strman/config"
	"github.com/minios-linux/strman/export"
	"github.com/minios-linux/strman/i18n"
	"github.com/minios-linux/strman/journal"
	"github.com/minios-linux/strman/lockfile"
	"github.com/minios-linux/strman/merge"
	"github.com/minios-linux/strman/settings"
	"github.com/minios-linux/strman/sheet"
	"github.com/minios-linux/strman/store"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Logging
// ---------------------------------------------------------------------------

var logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})

func logInfo(format string, args ...any) {
	logger.Infof(format, args...)
}

func logSuccess(format string, args ...any) {
	logger.WithPrefix("ok").Infof(format, args...)
}

func logWarning(format string, args ...any) {
	logger.Warnf(format, args...)
}

// setupLogging applies the configured level; --verbose forces debug.
func setupLogging(level string, verbose bool) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	if verbose {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	log.SetDefault(logger)
	return nil
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configFile string
	verbose    bool

	cfg *config.Config
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "strman",
		Short: i18n.T("Simple strings generator and manager"),
		Long: `strman is a simple strings generator and manager.

Keeps the translations of several projects in one JSON dictionary,
imports translated spreadsheets (xlsx, csv, Google Sheets) and exports
per-language string bundles for iOS and Android.

Commands:
  template      Write a starter dictionary
  import        Merge a translation sheet into the dictionary
  export        Write iOS/Android string bundles
  export-xlsx   Write a project's translations to a spreadsheet
  projects      List projects
  project add   Declare a new project
  history       Show journaled imports
  auth          Manage the Google Sheets API key`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configFile != "" {
				cfg, err = config.LoadFile(configFile)
			} else {
				cfg, err = config.Load(rootDir)
			}
			if err != nil {
				return err
			}
			return setupLogging(cfg.LogLevel, verbose)
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default <root>/"+config.FileName+")")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newTemplateCmd(),
		newImportCmd(),
		newExportCmd(),
		newExportXLSXCmd(),
		newProjectsCmd(),
		newProjectCmd(),
		newHistoryCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("strman version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// template
// ---------------------------------------------------------------------------

func newTemplateCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "template <file>",
		Short: "Write a starter dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.WriteTemplate(args[0], force); err != nil {
				return err
			}
			logSuccess(i18n.T("Template written to %s"), args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// ---------------------------------------------------------------------------
// import
// ---------------------------------------------------------------------------

type importArgs struct {
	dataFile      string
	source        string
	project       string
	sheetName     string
	apiKey        string
	ignoreUnknown bool
	dryRun        bool
}

func newImportCmd() *cobra.Command {
	var a importArgs

	cmd := &cobra.Command{
		Use:   "import <file> <sheet> <project>",
		Short: "Merge a translation sheet into the dictionary",
		Long: `Merge a translation sheet into the dictionary for one project.

The first sheet row is the header: a key column followed by one column per
language. Every header language must be declared by the project unless
--ignore-unknown is given, in which case undeclared languages are dropped
and keys missing from the dictionary are skipped instead of added.

<sheet> is an .xlsx/.xlsm workbook, a .csv file, or gsheet:<spreadsheet-id>.

Examples:
  strman import strings.json translations.xlsx MyApp
  strman import strings.json gsheet:1AbC... MyApp --sheet-name Strings
  strman import strings.json update.csv MyApp -i --dry-run`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.dataFile, a.source, a.project = args[0], args[1], args[2]
			if !cmd.Flags().Changed("ignore-unknown") {
				a.ignoreUnknown = cfg.IgnoreUnknown
			}
			if a.sheetName == "" {
				a.sheetName = cfg.Sheet
			}
			_, err := runImport(cmd.Context(), cfg, a, os.Stdout)
			return err
		},
	}

	cmd.Flags().BoolVarP(&a.ignoreUnknown, "ignore-unknown", "i", false, "Ignore unknown keys and undeclared languages instead of adding/failing")
	cmd.Flags().StringVar(&a.sheetName, "sheet-name", "", "Worksheet to read (default: first)")
	cmd.Flags().StringVar(&a.apiKey, "api-key", "", "Google API key (or "+settings.GoogleAPIKeyEnv+" env var)")
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Show what would change without saving")

	return cmd
}

func runImport(ctx context.Context, c *config.Config, a importArgs, out io.Writer) (*merge.Result, error) {
	st, err := store.Load(a.dataFile)
	if err != nil {
		return nil, err
	}
	project, err := st.ProjectByName(a.project)
	if err != nil {
		return nil, err
	}

	src, err := sheet.Open(a.source, sheet.Options{
		Sheet:           a.sheetName,
		APIKey:          settings.GoogleAPIKey(a.apiKey),
		CredentialsFile: c.CredentialsPath(),
		Context:         ctx,
	})
	if err != nil {
		return nil, err
	}

	target := st
	if a.dryRun {
		target = st.Clone()
	}

	logInfo(i18n.T("Importing %s into project %s"), a.source, project.Name)
	res, err := merge.Merge(src, target, project, a.ignoreUnknown)
	if err != nil {
		var langErr *merge.InvalidLanguageError
		if errors.As(err, &langErr) {
			return nil, fmt.Errorf("%w (declared: %s; use --ignore-unknown to skip the column)", err, strings.Join(project.Langs, ", "))
		}
		return nil, err
	}

	printResult(out, res)

	switch {
	case a.dryRun:
		logWarning(i18n.T("Dry run: %s was not modified"), a.dataFile)
	case !res.Changed():
		logInfo(i18n.T("No changes; %s was not rewritten"), a.dataFile)
	default:
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", a.dataFile, err)
		}
		if err := st.Save(a.dataFile); err != nil {
			return nil, err
		}
		logSuccess(i18n.T("Saved %s"), a.dataFile)
	}

	if path := c.JournalPath(); path != "" {
		if err := recordRun(ctx, path, a, project, res); err != nil {
			logWarning(i18n.T("Could not write journal %s: %v"), path, err)
		}
	}

	return res, nil
}

func printResult(out io.Writer, res *merge.Result) {
	section := func(title string, keys []string) {
		fmt.Fprintf(out, "%s (%d)\n", title, len(keys))
		for _, k := range keys {
			fmt.Fprintf(out, "  %s\n", k)
		}
	}
	section(i18n.T("Added"), res.Added)
	section(i18n.T("Updated"), res.Updated)
	section(i18n.T("Ignored"), res.Ignored)
	fmt.Fprintln(out, fmt.Sprintf(i18n.N("%d key in sheet", "%d keys in sheet", res.Total()), res.Total()))
}

func recordRun(ctx context.Context, path string, a importArgs, project store.Project, res *merge.Result) error {
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	_, err = j.Record(ctx, journal.Run{
		DataFile:      a.dataFile,
		Source:        a.source,
		Project:       project.Name,
		IgnoreUnknown: a.ignoreUnknown,
		DryRun:        a.dryRun,
		Added:         res.Added,
		Updated:       res.Updated,
		Ignored:       res.Ignored,
	})
	return err
}

// ---------------------------------------------------------------------------
// export
// ---------------------------------------------------------------------------

type exportArgs struct {
	dataFile string
	project  string
	formats  []string
	langs    string
	outDir   string
	force    bool
}

func newExportCmd() *cobra.Command {
	var a exportArgs

	cmd := &cobra.Command{
		Use:   "export <file> <project> [ios|and]...",
		Short: "Write iOS/Android string bundles",
		Long: `Write one string bundle per project language and output format.

  ios   Localized_<lang>.strings
  and   values[-<locale>]/strings.xml (values/ for the default language)

Keys without a translation are exported with the key as their value.
Bundles whose content matches the checksum recorded in ` + lockfile.FileName + `
are not rewritten.
Formats default to the "formats" list of ` + config.FileName + `.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.dataFile, a.project, a.formats = args[0], args[1], args[2:]
			if len(a.formats) == 0 {
				a.formats = cfg.Formats
			}
			if a.outDir == "" {
				a.outDir = cfg.OutputPath()
			}
			_, err := runExport(a)
			return err
		},
	}

	cmd.Flags().StringVar(&a.langs, "lang", "", "Languages to export (comma-separated, default: all project languages)")
	cmd.Flags().StringVarP(&a.outDir, "out", "o", "", "Output directory (default: output_dir from config)")
	cmd.Flags().BoolVarP(&a.force, "force", "f", false, "Rewrite bundles even if unchanged since the last export")

	return cmd
}

func runExport(a exportArgs) ([]string, error) {
	st, err := store.Load(a.dataFile)
	if err != nil {
		return nil, err
	}
	project, err := st.ProjectByName(a.project)
	if err != nil {
		return nil, err
	}

	formatters, err := resolveFormatters(a.formats)
	if err != nil {
		return nil, err
	}

	langs := project.Langs
	if a.langs != "" {
		langs = splitList(a.langs)
		for _, lang := range langs {
			if !project.HasLang(lang) {
				return nil, fmt.Errorf("language %q is not declared for project %q", lang, project.Name)
			}
		}
	}

	lock, err := lockfile.Load(a.outDir)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, f := range formatters {
		target := lockfile.Target(project.Name, f.format.String())
		var bundles []string
		for _, lang := range langs {
			data, err := export.Bundle(st, project, lang, f.Formatter)
			if err != nil {
				return written, err
			}
			rel := f.FileName(project, lang)
			bundles = append(bundles, filepath.ToSlash(rel))

			if !a.force && !lock.IsChanged(target, rel, data) && fileExists(filepath.Join(a.outDir, rel)) {
				log.Debug("bundle unchanged", "file", rel)
				continue
			}
			path, err := export.WriteFile(a.outDir, rel, data)
			if err != nil {
				return written, err
			}
			lock.Update(target, rel, data)
			logSuccess(i18n.T("Wrote %s"), path)
			written = append(written, path)
		}
		// Only a run over every project language knows which bundles of
		// this format are stale.
		if a.langs == "" {
			lock.Clean(target, bundles)
		}
	}

	if err := lock.Save(); err != nil {
		return written, err
	}
	if len(written) == 0 {
		logInfo(i18n.T("All bundles are up to date"))
	}
	return written, nil
}

// outputFormat pairs a formatter with the format it renders.
type outputFormat struct {
	export.Formatter
	format export.Format
}

// resolveFormatters parses format names, dropping duplicates.
func resolveFormatters(names []string) ([]outputFormat, error) {
	if len(names) == 0 {
		return nil, errors.New("no output format given (ios, and)")
	}
	seen := make(map[export.Format]bool)
	var out []outputFormat
	for _, name := range names {
		format, err := export.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if seen[format] {
			continue
		}
		seen[format] = true
		f, err := export.NewFormatter(format)
		if err != nil {
			return nil, err
		}
		out = append(out, outputFormat{Formatter: f, format: format})
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// export-xlsx
// ---------------------------------------------------------------------------

func newExportXLSXCmd() *cobra.Command {
	var untranslatedOnly bool

	cmd := &cobra.Command{
		Use:   "export-xlsx <file> <out> <project>",
		Short: "Write a project's translations to a spreadsheet",
		Long: `Write a project's keys and values to an xlsx workbook.

The sheet has a key column and one column per project language, in the
layout expected by "strman import", so it can be sent to translators and
imported back.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportXLSX(args[0], args[1], args[2], untranslatedOnly)
		},
	}
	cmd.Flags().BoolVarP(&untranslatedOnly, "untranslated-only", "u", false, "Only export keys missing at least one translation")
	return cmd
}

func runExportXLSX(dataFile, out, projectName string, untranslatedOnly bool) error {
	st, err := store.Load(dataFile)
	if err != nil {
		return err
	}
	project, err := st.ProjectByName(projectName)
	if err != nil {
		return err
	}

	rows := export.Table(st, project, untranslatedOnly)
	if err := sheet.WriteXLSX(out, project.Name, rows); err != nil {
		return err
	}
	logSuccess(i18n.N("Exported %d key to %s", "Exported %d keys to %s", len(rows)-1), len(rows)-1, out)
	return nil
}

// ---------------------------------------------------------------------------
// projects / project add
// ---------------------------------------------------------------------------

func newProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects <file>",
		Short: "List projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Load(args[0])
			if err != nil {
				return err
			}
			printProjects(os.Stdout, st)
			return nil
		},
	}
}

func printProjects(out io.Writer, st *store.Store) {
	if len(st.Projects) == 0 {
		fmt.Fprintln(out, i18n.T("No projects"))
		return
	}
	for _, p := range st.Projects {
		keys, values := st.Stats(p)
		total := keys * len(p.Langs)
		percent := 0
		if total > 0 {
			percent = values * 100 / total
		}
		fmt.Fprintf(out, "%3d  %-20s  %-24s  %4d keys  %3d%%\n",
			p.ID, p.Name, strings.Join(p.Langs, ","), keys, percent)
	}
}

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectAddCmd())
	return cmd
}

func newProjectAddCmd() *cobra.Command {
	var (
		defaultLang string
		id          int
	)

	cmd := &cobra.Command{
		Use:   "add <file> <name> <langs>",
		Short: "Declare a new project",
		Long: `Declare a new project with a comma-separated list of language tags.

Example:
  strman project add strings.json MyApp en-US,de-DE,pl-PL --default-lang en-US`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runProjectAdd(args[0], store.Project{
				ID:          id,
				Name:        args[1],
				Langs:       splitList(args[2]),
				DefaultLang: defaultLang,
			})
			return err
		},
	}
	cmd.Flags().StringVar(&defaultLang, "default-lang", "", "Default language (default: first language)")
	cmd.Flags().IntVar(&id, "id", 0, "Project id (default: next free id)")
	return cmd
}

func runProjectAdd(dataFile string, p store.Project) (store.Project, error) {
	st, err := store.Load(dataFile)
	if err != nil {
		return store.Project{}, err
	}
	p, err = st.AddProject(p)
	if err != nil {
		return store.Project{}, err
	}
	if err := st.Validate(); err != nil {
		return store.Project{}, fmt.Errorf("%s: %w", dataFile, err)
	}
	if err := st.Save(dataFile); err != nil {
		return store.Project{}, err
	}
	logSuccess(i18n.T("Added project %s (id %d)"), p.Name, p.ID)
	return p, nil
}

// ---------------------------------------------------------------------------
// history
// ---------------------------------------------------------------------------

func newHistoryCmd() *cobra.Command {
	var (
		project string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled imports",
		Long:  `List imports recorded in the journal configured in ` + config.FileName + `.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.JournalPath()
			if path == "" {
				return fmt.Errorf("no journal configured (set \"journal\" in %s)", config.FileName)
			}
			j, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.List(cmd.Context(), project, limit)
			if err != nil {
				return err
			}
			printRuns(os.Stdout, runs)
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Only show imports into this project")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of imports to show (0 = all)")
	return cmd
}

func printRuns(out io.Writer, runs []*journal.Run) {
	for _, r := range runs {
		flags := ""
		if r.IgnoreUnknown {
			flags += " ignore-unknown"
		}
		if r.DryRun {
			flags += " dry-run"
		}
		fmt.Fprintf(out, "#%d  %s  %s <- %s  +%d ~%d -%d%s\n",
			r.ID, r.RanAt.Local().Format("2006-01-02 15:04"), r.Project, filepath.Base(r.Source),
			len(r.Added), len(r.Updated), len(r.Ignored), flags)
	}
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Google Sheets API key",
		Long: `Store or remove the Google API key used to read gsheet:<id> sources.

Service accounts are configured with google.credentials_file in ` + config.FileName + `.
Credentials are stored in ` + "$XDG_DATA_HOME/strman/auth.json" + `.`,
	}

	var key string
	login := &cobra.Command{
		Use:   "login",
		Short: "Store a Google API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return errors.New("--api-key is required")
			}
			if err := settings.SetAPIKey(settings.ProviderGoogle, key); err != nil {
				return err
			}
			logSuccess(i18n.T("Stored Google API key %s in %s"), settings.MaskKey(key), settings.FilePath())
			return nil
		},
	}
	login.Flags().StringVar(&key, "api-key", "", "Google API key")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored Google API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.Remove(settings.ProviderGoogle); err != nil {
				return err
			}
			logSuccess(i18n.T("Removed Google API key"))
			return nil
		},
	}

	cmd.AddCommand(login, logout)
	return cmd
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// splitList splits a comma-separated list, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
