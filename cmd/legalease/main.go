package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/BerylCAtieno/legalease/internal/client"
	"github.com/BerylCAtieno/legalease/internal/models"
)

const maxParallelUploads = 3

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var serverURL string

	root := &cobra.Command{
		Use:          "legalease",
		Short:        "Plain-language analysis of legal documents",
		SilenceUsage: true,
	}

	defaultServer := os.Getenv("LEGALEASE_SERVER")
	if defaultServer == "" {
		defaultServer = client.DefaultBaseURL
	}
	root.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "LegalEase API base URL")

	newClient := func() *client.Client { return client.New(serverURL) }

	root.AddCommand(
		newAnalyzeCmd(newClient),
		newHealthCmd(newClient),
		newTestAICmd(newClient),
	)
	return root
}

func newAnalyzeCmd(newClient func() *client.Client) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Upload PDF, DOC, DOCX or TXT files for analysis",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			// Status lines and reports come from several goroutines.
			var mu sync.Mutex
			board := client.NewBoard(func(_ string, s client.UploadStatus) {
				if quiet {
					if _, ok := s.(client.StatusFailed); !ok {
						return
					}
				}
				mu.Lock()
				defer mu.Unlock()
				client.RenderStatus(errOut, s)
			})

			results := make([]*models.AnalysisResponse, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxParallelUploads)

			var failures int
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					// Keyed per argument: different paths may share a base name.
					key := strconv.Itoa(i) + ":" + path
					resp, err := c.AnalyzeDocument(ctx, path, board.Reporter(key))
					if err != nil {
						mu.Lock()
						failures++
						mu.Unlock()
						return nil
					}
					results[i] = resp
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for _, resp := range results {
				if resp == nil {
					continue
				}
				fmt.Fprintln(out, strings.Repeat("-", 78))
				if err := client.RenderAnalysis(out, resp); err != nil {
					return err
				}
			}

			if failures > 0 {
				return fmt.Errorf("%d of %d documents failed", failures, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only report failures while uploading")
	return cmd
}

func newHealthCmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().Health(cmd.Context())
			if err != nil {
				return err
			}
			return client.RenderHealth(cmd.OutOrStdout(), resp)
		},
	}
}

func newTestAICmd(newClient func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "test-ai [text]",
		Short: "Analyze raw text, or the built-in sample when none is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().TestAI(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return client.RenderTestAI(cmd.OutOrStdout(), resp)
		},
	}
}
