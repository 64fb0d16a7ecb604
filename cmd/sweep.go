// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/naka-gawa/repo-sweeper/internal/domain"
	"github.com/naka-gawa/repo-sweeper/internal/gateway"
	"github.com/naka-gawa/repo-sweeper/internal/tui"
	"github.com/naka-gawa/repo-sweeper/internal/usecase"
)

var allowedVisibilities = []string{
	domain.VisibilityPublic,
	domain.VisibilityInternal,
	domain.VisibilityPrivate,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Interactively select and delete repositories",
	Long: `Fetches every repository the token's account can administer, filters the
list by the given criteria, opens an interactive multi-select, and deletes
the confirmed selection. The exit status is zero unless a deletion failed.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := newLogger(verbose)
		defer func() { _ = logger.Sync() }()

		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			token = os.Getenv("GITHUB_TOKEN")
		}
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: supply a token via --token or the GITHUB_TOKEN environment variable.")
			os.Exit(1)
		}

		owners, _ := cmd.Flags().GetStringSlice("owner")
		visibilities, _ := cmd.Flags().GetStringSlice("visibility")
		forksOnly, _ := cmd.Flags().GetBool("fork")
		maxStars, _ := cmd.Flags().GetInt("star")
		workers, _ := cmd.Flags().GetInt("workers")

		for _, visibility := range visibilities {
			if !slices.Contains(allowedVisibilities, visibility) {
				fmt.Fprintf(os.Stderr, "Error: invalid --visibility %q (allowed: public, internal, private)\n", visibility)
				os.Exit(1)
			}
		}

		// Inject dependencies and run the main workflow.
		api, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		login, err := api.AuthenticatedLogin(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to authenticate with GitHub: %v\n", err)
			os.Exit(1)
		}
		logger.Debug("authenticated", zap.String("login", login))

		catalog, err := usecase.BuildCatalog(ctx, api)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list repositories: %v\n", err)
			os.Exit(1)
		}

		filter := usecase.ListFilter{
			Owners:       owners,
			Visibilities: visibilities,
			ForksOnly:    forksOnly,
			MaxStars:     maxStars,
		}
		view := catalog.Filter(filter.Matches)
		if view.Len() == 0 {
			fmt.Println("No repositories matched the filters.")
			return
		}
		logger.Debug("catalog ready",
			zap.Int("fetched", catalog.Len()), zap.Int("matched", view.Len()))

		scores := domain.StalenessScores(view.Records(), time.Now())
		session := usecase.NewSelectionSession(view)
		// Everything that matched the filters starts marked, the way the
		// filters imply the user already decided these are candidates.
		session.SelectAll()

		proceed, err := tui.Run(session, scores)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Selection failed: %v\n", err)
			os.Exit(1)
		}
		if !proceed || session.Count() == 0 {
			fmt.Println("Cancelled, nothing deleted.")
			return
		}

		confirmed, err := tui.ConfirmDeletion(session.Count())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Confirmation failed: %v\n", err)
			os.Exit(1)
		}
		if !confirmed {
			fmt.Println("Cancelled, nothing deleted.")
			return
		}

		executor := usecase.NewExecutor(api, logger, workers)
		outcomes := executor.Execute(ctx, view, session.Confirmed())

		if failed := writeReport(os.Stdout, outcomes); failed > 0 {
			os.Exit(1)
		}
	},
}

// writeReport prints one line per outcome plus a summary, returning the
// number of failures.
func writeReport(w io.Writer, outcomes []domain.DeletionOutcome) int {
	var deleted, failed, skipped int
	for _, outcome := range outcomes {
		switch outcome.Status {
		case domain.StatusDeleted:
			deleted++
			fmt.Fprintf(w, "deleted  %s\n", outcome.ID)
		case domain.StatusFailed:
			failed++
			fmt.Fprintf(w, "FAILED   %s: %v\n", outcome.ID, outcome.Err)
		case domain.StatusSkipped:
			skipped++
			fmt.Fprintf(w, "skipped  %s\n", outcome.ID)
		}
	}
	fmt.Fprintf(w, "\n%d deleted, %d failed, %d skipped\n", deleted, failed, skipped)
	return failed
}

func newLogger(verbose bool) *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{"stderr"}
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().StringP("token", "t", "", "GitHub personal access token (falls back to GITHUB_TOKEN)")
	sweepCmd.Flags().StringSliceP("owner", "o", nil, "Only offer repositories under these owners")
	sweepCmd.Flags().StringSlice("visibility", []string{domain.VisibilityPublic}, "Only offer these visibility values (public, internal, private)")
	sweepCmd.Flags().Bool("fork", true, "Only offer forks (use --fork=false to include everything)")
	sweepCmd.Flags().IntP("star", "s", 0, "Only offer repositories with at most this many stars (-1 disables)")
	sweepCmd.Flags().Int("workers", 1, "Concurrent delete calls (max 5; 1 is sequential)")
}
