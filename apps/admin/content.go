package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/trezcool/aucontent/services/contentapi"
)

func (cli *commandLine) contentCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Query a running API (lists and searches fall back on the embedded catalog)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return usage(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (default: the configured client base URL)")

	query := func(use, short string, nArgs int, fn func(context.Context, *contentapi.Client, []string) (interface{}, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(nArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := cli.newClient(baseURL)
				if err != nil {
					return err
				}
				res, err := fn(cmd.Context(), client, args)
				if err != nil {
					return err
				}
				return cli.printJSON(res)
			},
		}
	}

	cmd.AddCommand(
		query("plays", "List the plays", 0, func(ctx context.Context, c *contentapi.Client, _ []string) (interface{}, error) {
			return c.GetAllPlays(ctx)
		}),
		query("movies", "List the movies", 0, func(ctx context.Context, c *contentapi.Client, _ []string) (interface{}, error) {
			return c.GetAllMovies(ctx)
		}),
		query("resources", "List the educational resources", 0, func(ctx context.Context, c *contentapi.Client, _ []string) (interface{}, error) {
			return c.GetResourceSummaries(ctx)
		}),
		query("search QUERY", "Search plays and movies by title, author or theme", 1, func(ctx context.Context, c *contentapi.Client, args []string) (interface{}, error) {
			return c.Search(ctx, args[0])
		}),
		query("play ID", "Show a play", 1, func(ctx context.Context, c *contentapi.Client, args []string) (interface{}, error) {
			return c.GetPlay(ctx, args[0])
		}),
		query("movie ID", "Show a movie", 1, func(ctx context.Context, c *contentapi.Client, args []string) (interface{}, error) {
			return c.GetMovie(ctx, args[0])
		}),
	)
	return cmd
}

func (cli *commandLine) newClient(baseURL string) (*contentapi.Client, error) {
	conf := cli.conf.Client
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	return contentapi.NewDefaultClient(conf, cli.logger)
}
