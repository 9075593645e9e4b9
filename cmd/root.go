package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/corpeningc/unconflict/internal/config"
	"github.com/corpeningc/unconflict/internal/errors"
	"github.com/corpeningc/unconflict/internal/git"
	"github.com/corpeningc/unconflict/internal/logging"
	"github.com/corpeningc/unconflict/internal/ui"
)

type options struct {
	verbosity   int
	configFile  string
	dryRun      bool
	tokens      []string
	markerSize  int
	diff3       bool
	recursive   bool
	selectFiles bool
	preview     bool
}

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree. The shell builds one per input line
// so flag values never leak between commands.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "unconflict <directory> <pattern>",
		Short: "Resolve trivial merge conflicts",
		Long: `Scans the files in <directory> matching <pattern> for merge conflict markers
and resolves every conflict whose sides contain only blank lines or ignorable
tokens (GO by default). Files are rewritten only when at least one conflict
was resolved; every other conflict is left exactly as it was.`,
		Example: `  unconflict ./migrations "*.sql"
  unconflict --dry-run --recursive . "*.sql"
  unconflict git --stage`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, opts, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase log verbosity (-v, -vv, -vvv)")
	flags.StringVar(&opts.configFile, "config", "", "Read configuration from this TOML or YAML file")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "Report what would be resolved without writing files")
	flags.StringSliceVarP(&opts.tokens, "token", "t", nil, "Ignorable token; repeat to set several (replaces configured tokens)")
	flags.IntVar(&opts.markerSize, "marker-size", 0, "Length of conflict marker runs (default from config, 7)")
	flags.BoolVar(&opts.diff3, "diff3", false, "Skip ||||||| base sections written by the diff3 conflict style")
	flags.BoolVarP(&opts.selectFiles, "select", "s", false, "Choose interactively which files to process")
	flags.BoolVarP(&opts.preview, "preview", "p", false, "Page through each file's conflicts after processing")

	rootCmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Also match files in subdirectories")

	rootCmd.AddCommand(newGitCmd(opts))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newShellCmd())

	initTemplateFormatting(rootCmd)

	return rootCmd
}

func runResolve(cmd *cobra.Command, opts *options, args []string) error {
	out := cmd.OutOrStdout()
	reporter := ui.NewReporter(out)

	if len(args) != 2 {
		return cmd.Usage()
	}
	dir, pattern := args[0], args[1]

	cfg, err := loadConfig(cmd, opts, dir)
	if err != nil {
		return err
	}

	files, err := git.FindFiles(dir, pattern, cfg.Files.Recursive)
	if errors.IsCode(err, errors.ErrDirNotFound) {
		reporter.Info(errors.UserMessage(err))
		return nil
	}
	if err != nil {
		return err
	}
	if len(files) == 0 {
		reporter.Info(errors.UserMessage(git.NoMatchesError(dir, pattern)))
		return nil
	}

	_, err = processFiles(cmd, opts, cfg, files)
	return err
}

// loadConfig layers command-line flags over the configuration files. Only
// flags the user actually set override configured values.
func loadConfig(cmd *cobra.Command, opts *options, projectDir string) (*config.Config, error) {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()

	if flags.Changed("marker-size") {
		overrides["markers.size"] = opts.markerSize
	}
	if flags.Changed("diff3") {
		overrides["markers.diff3"] = opts.diff3
	}
	if flags.Changed("token") {
		overrides["resolve.ignorable_tokens"] = opts.tokens
	}
	if flags.Changed("dry-run") {
		overrides["resolve.dry_run"] = opts.dryRun
	}
	if flags.Lookup("recursive") != nil && flags.Changed("recursive") {
		overrides["files.recursive"] = opts.recursive
	}

	return config.Load(config.Options{
		ProjectDir: projectDir,
		File:       opts.configFile,
		Overrides:  overrides,
	})
}

func processFiles(cmd *cobra.Command, opts *options, cfg *config.Config, files []string) ([]git.ConflictFile, error) {
	reporter := ui.NewReporter(cmd.OutOrStdout())

	if opts.selectFiles {
		if !isTerminal(os.Stdout) {
			return nil, errors.New(errors.ErrInvalidInput, "--select needs an interactive terminal")
		}
		selected, err := ui.SelectFiles(files)
		if err != nil {
			return nil, err
		}
		if len(selected) == 0 {
			reporter.Info("No files selected.")
			return nil, nil
		}
		files = selected
	}

	processor := git.NewProcessor(cfg.Policy(), cfg.Resolve.DryRun)
	results, err := processor.ProcessFiles(files, reporter.Processing, reporter.Result)
	if err != nil {
		return results, err
	}
	reporter.Totals(results)

	if opts.preview && isTerminal(os.Stdout) {
		for _, cf := range results {
			if cf.Result.Total() == 0 {
				continue
			}
			if err := ui.ShowPreview(cf.Path, cf.Original, cf.Result); err != nil {
				return results, err
			}
		}
	}

	return results, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
