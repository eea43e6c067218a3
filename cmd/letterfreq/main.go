// Package main provides the CLI entrypoint for letterfreq.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/letterfreq/internal/config"
	"github.com/verte-zerg/letterfreq/internal/freqview"
	"github.com/verte-zerg/letterfreq/internal/model"
	"github.com/verte-zerg/letterfreq/internal/report"
	"github.com/verte-zerg/letterfreq/internal/solver"
	"github.com/verte-zerg/letterfreq/internal/store"
	"github.com/verte-zerg/letterfreq/internal/tally"
	"github.com/verte-zerg/letterfreq/internal/wordlist"
)

const (
	defaultInput        = "src/words.csv"
	defaultHistoryLimit = 20
	defaultSuggestTop   = 5
)

var (
	tallyInput    string
	tallyPolicy   string
	tallyFormat   string
	tallyTemplate string
	tallySave     bool
	tallyTable    bool
	tallyByFreq   bool
	tallyNoCounts bool
	verbose       bool

	historyLimit int

	suggestMeasure string
	suggestGuesses []string
	suggestTop     int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "letterfreq [path]",
		Short:         "Letter frequency tally and snippet generator",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setVerbose(verbose)
		},
		RunE: runTallyCmd,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	addFormatFlags(rootCmd)
	addCorpusFlags(rootCmd)
	rootCmd.Flags().BoolVar(&tallySave, "save", false, "store the run in the history database")
	rootCmd.Flags().BoolVar(&tallyTable, "table", false, "print a table with percentages and bars")
	rootCmd.Flags().BoolVar(&tallyByFreq, "by-freq", false, "order the table by frequency")
	rootCmd.Flags().BoolVar(&tallyNoCounts, "no-counts", false, "do not print the raw counts mapping")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newSuggestCmd())

	return rootCmd
}

func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&tallyFormat, "format", report.DefaultFormat, "snippet preset: "+strings.Join(report.Formats(), ", "))
	cmd.Flags().StringVar(&tallyTemplate, "template", "", "custom snippet template (fields: .Letter .Count .Percent .Value)")
}

func addCorpusFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&tallyInput, "input", defaultInput, "word list path ('-' for stdin)")
	cmd.Flags().StringVar(&tallyPolicy, "policy", string(tally.PolicyStrict), "unrecognized character policy: "+tally.PolicyNames(", "))
}

func runTallyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadTallyConfig(cmd, args)
	if err != nil {
		return err
	}
	policy, err := tally.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}
	snippet, err := report.NewSnippet(cfg.Format, cfg.Template)
	if err != nil {
		return err
	}

	counts, err := tallyFile(cfg.Input, policy)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !tallyNoCounts {
		if err := report.RenderCounts(out, counts); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := report.RenderSnippets(out, counts, snippet); err != nil {
		return snippetError(err)
	}
	if tallyTable {
		if err := writeTable(out, counts); err != nil {
			return err
		}
	}

	if cfg.Save {
		id, err := saveRun(cfg, policy, counts)
		if err != nil {
			return err
		}
		log.WithField("id", id).Info("saved run")
	}
	return nil
}

func loadTallyConfig(cmd *cobra.Command, args []string) (model.Config, error) {
	configPath := config.ResolveConfigPath()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	log.WithField("path", configPath).Debug("loaded config")

	applyStringConfig(cmd, "input", &tallyInput, fileCfg.Tally.Input)
	applyStringConfig(cmd, "policy", &tallyPolicy, fileCfg.Tally.Policy)
	applySnippetConfig(cmd, fileCfg.Tally)
	applyBoolConfig(cmd, "save", &tallySave, fileCfg.Tally.Save)

	input := tallyInput
	if len(args) > 0 {
		input = args[0]
	}
	return model.Config{
		Input:    input,
		Policy:   tallyPolicy,
		Format:   tallyFormat,
		Template: tallyTemplate,
		Save:     tallySave,
	}, nil
}

// applySnippetConfig fills --format and --template from the config file. A
// config template outranks a config format but never an explicit --format.
func applySnippetConfig(cmd *cobra.Command, cfg config.TallyConfig) {
	applyStringConfig(cmd, "format", &tallyFormat, cfg.Format)
	if cmd.Flags().Changed("format") {
		return
	}
	applyStringConfig(cmd, "template", &tallyTemplate, cfg.Template)
}

func loadSnippet(cmd *cobra.Command) (*report.Snippet, error) {
	configPath := config.ResolveConfigPath()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applySnippetConfig(cmd, fileCfg.Tally)
	return report.NewSnippet(tallyFormat, tallyTemplate)
}

func tallyFile(path string, policy tally.Policy) (tally.Counts, error) {
	rc, err := wordlist.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tally.Counts{}, fmt.Errorf("failed to open corpus: %w (pass a word list path or --input)", err)
		}
		return tally.Counts{}, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close corpus")
		}
	}()

	counts, err := tally.TallyReader(rc, policy)
	if err != nil {
		return tally.Counts{}, policyError(err)
	}
	log.WithFields(logrus.Fields{
		"input":   wordlist.Label(path),
		"policy":  policy,
		"total":   counts.Total,
		"skipped": counts.Skipped,
	}).Debug("tallied corpus")
	return counts, nil
}

func policyError(err error) error {
	var charErr *tally.UnrecognizedCharError
	if errors.As(err, &charErr) {
		return fmt.Errorf("%w (use --policy skip or --policy count-total to tolerate it)", err)
	}
	return err
}

func snippetError(err error) error {
	if errors.Is(err, tally.ErrEmptyCorpus) {
		return err
	}
	return fmt.Errorf("failed to write snippets: %w", err)
}

func saveRun(cfg model.Config, policy tally.Policy, counts tally.Counts) (int64, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return 0, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close db")
		}
	}()

	run := model.Run{
		CreatedAt: time.Now(),
		Input:     wordlist.Label(cfg.Input),
		Policy:    string(policy),
	}
	id, err := st.InsertRun(context.Background(), run, counts)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	return id, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.ResolveConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		log.WithField("path", path).Info("created config")
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "number of runs to list (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close db")
		}
	}()

	runs, err := st.ListRuns(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No runs saved. Use --save to record one.")
		return err
	}
	for _, run := range runs {
		if _, err := fmt.Fprintf(out, "%d\t%s\t%s\t%s\ttotal=%d skipped=%d\n",
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Policy,
			run.Input,
			run.Total,
			run.Skipped,
		); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print counts and snippets of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
	addFormatFlags(cmd)
	cmd.Flags().BoolVar(&tallyTable, "table", false, "print a table with percentages and bars")
	cmd.Flags().BoolVar(&tallyByFreq, "by-freq", false, "order the table by frequency")
	return cmd
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}
	snippet, err := loadSnippet(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close db")
		}
	}()

	run, counts, err := st.GetRun(context.Background(), id)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	log.WithFields(logrus.Fields{"id": run.ID, "input": run.Input}).Debug("loaded run")

	out := cmd.OutOrStdout()
	if err := report.RenderCounts(out, counts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderSnippets(out, counts, snippet); err != nil {
		return snippetError(err)
	}
	if tallyTable {
		return writeTable(out, counts)
	}
	return nil
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [path]",
		Short: "Browse a tally interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runViewCmd,
	}
	addFormatFlags(cmd)
	addCorpusFlags(cmd)
	return cmd
}

func runViewCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadTallyConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Input == wordlist.StdinPath {
		return fmt.Errorf("view needs a file path; stdin is used by the terminal UI")
	}
	policy, err := tally.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}
	snippet, err := report.NewSnippet(cfg.Format, cfg.Template)
	if err != nil {
		return err
	}
	counts, err := tallyFile(cfg.Input, policy)
	if err != nil {
		return err
	}

	viewer := freqview.NewModel(wordlist.Label(cfg.Input), counts, snippet)
	program := tea.NewProgram(viewer, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

func newSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest [path]",
		Short: "Rank the next guesses of a word game by letter frequency",
		Long: `Rank candidate words by the summed percentage of their letters. A letter
repeated within a word scores half. Feedback from earlier guesses narrows the
candidates: --guess crane:xygxx marks c, n, e absent, r present and a correct.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSuggestCmd,
	}
	addCorpusFlags(cmd)
	cmd.Flags().StringVar(&suggestMeasure, "measure", string(tally.MeasurePresence), "letter share: presence (share of words) or chars (share of characters)")
	cmd.Flags().StringArrayVarP(&suggestGuesses, "guess", "g", nil, "played word with feedback, word:marks (g correct, y present, x absent)")
	cmd.Flags().IntVar(&suggestTop, "top", defaultSuggestTop, "number of suggestions to print (0 for all)")
	return cmd
}

func runSuggestCmd(cmd *cobra.Command, args []string) error {
	if suggestTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	cfg, err := loadTallyConfig(cmd, args)
	if err != nil {
		return err
	}
	policy, err := tally.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}
	measure, err := tally.ParseMeasure(suggestMeasure)
	if err != nil {
		return err
	}
	guesses := make([]solver.Guess, 0, len(suggestGuesses))
	for _, raw := range suggestGuesses {
		guess, err := solver.ParseGuess(raw)
		if err != nil {
			return err
		}
		guesses = append(guesses, guess)
	}

	corpus, err := wordlist.LoadCorpus(cfg.Input)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	counts, err := tally.CountLines(corpus, policy, measure)
	if err != nil {
		return policyError(err)
	}
	pcts, err := counts.Percentages()
	if err != nil {
		return err
	}

	s := solver.New(wordlist.Words(corpus))
	for _, guess := range guesses {
		if err := s.Apply(guess); err != nil {
			return err
		}
	}
	candidates := s.Candidates()
	log.WithFields(logrus.Fields{
		"input":      wordlist.Label(cfg.Input),
		"measure":    measure,
		"guesses":    len(guesses),
		"candidates": len(candidates),
	}).Debug("filtered words")
	if len(candidates) == 0 {
		return solver.ErrNoCandidates
	}

	out := cmd.OutOrStdout()
	for _, ranked := range solver.Rank(candidates, pcts, suggestTop) {
		if _, err := fmt.Fprintf(out, "%s\t%s\n", ranked.Word, report.FormatPercent(ranked.Score)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func writeTable(out io.Writer, counts tally.Counts) error {
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderTable(out, counts, tallyByFreq, false, 0); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# letterfreq configuration
# Uncomment a value to enable it. CLI flags override config values.

[tally]
# input = %q    # Word list path, "-" for stdin
# policy = %q          # strict, skip or count-total
# format = %q            # Snippet preset: %s
# template = ""            # Custom snippet template, overrides format (not --format)
# save = false             # Store every run in the history database
`,
		defaultInput,
		tally.PolicyStrict,
		report.DefaultFormat,
		strings.Join(report.Formats(), ", "),
	)
}
