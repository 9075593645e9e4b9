package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpeningc/unconflict/internal/git"
	"github.com/corpeningc/unconflict/internal/ui"
)

func newGitCmd(opts *options) *cobra.Command {
	var stage bool

	gitCmd := &cobra.Command{
		Use:   "git",
		Short: "Resolve trivial conflicts in files git reports as unmerged",
		Long: `Asks git for the unmerged files of the repository in the current directory and
processes each of them. With --stage, files left without any conflict are
added to the index.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := ui.NewReporter(cmd.OutOrStdout())
			repo := git.New(".")

			files, err := repo.ConflictedFiles()
			if err != nil {
				return err
			}
			if len(files) == 0 {
				reporter.Info("No unmerged files.")
				return nil
			}

			root, err := repo.TopLevel()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, opts, root)
			if err != nil {
				return err
			}

			results, err := processFiles(cmd, opts, cfg, files)
			if err != nil {
				return err
			}

			if !stage {
				return nil
			}
			resolved := git.FullyResolved(results)
			if err := repo.AddFiles(resolved); err != nil {
				return err
			}
			reporter.Info(fmt.Sprintf("Staged %d of %d unmerged files.", len(resolved), len(files)))
			return nil
		},
	}

	gitCmd.Flags().BoolVar(&stage, "stage", false, "git add files whose conflicts were all resolved")

	return gitCmd
}
