// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli implements truyenctl, the operator tool for a TruyenNet deployment.

Every command runs against the same storage backend and key prefix as the API
server, so backups taken here restore cleanly through POST /api/v1/me/import
and vice versa.
*/
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/truyennet/internal/library"
	"github.com/taibuivan/truyennet/internal/otruyen"
	"github.com/taibuivan/truyennet/internal/platform/config"
	"github.com/taibuivan/truyennet/internal/platform/httpclient"
	"github.com/taibuivan/truyennet/internal/platform/kv"
)

// Deps are the collaborators every command needs.
type Deps struct {
	Config *config.Config
	Logger *slog.Logger
	Out    io.Writer

	// OpenStore connects to the configured backend; the command closes it.
	OpenStore func(ctx context.Context) (kv.Backend, error)
}

// NewRootCommand builds the truyenctl command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "truyenctl",
		Short:         "truyenctl manages TruyenNet reader data and the comic API cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(deps.Out)

	root.AddCommand(
		exportCommand(deps),
		importCommand(deps),
		clearCommand(deps),
		historyCommand(deps),
		favoritesCommand(deps),
		prefsCommand(deps),
		fetchCommand(deps),
	)

	return root
}

// withLibrary opens the backend, runs fn against a library over it, and closes the backend.
func withLibrary(ctx context.Context, deps Deps, fn func(*library.Library) error) (err error) {
	backend, err := deps.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	lib := library.New(backend,
		library.WithPrefix(deps.Config.StoragePrefix),
		library.WithLogger(deps.Logger),
	)
	defer lib.Events().Close()

	return fn(lib)
}

// # Backup

func exportCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every reader collection as a JSON backup (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd.Context(), deps, func(lib *library.Library) error {
				data, err := lib.Export(cmd.Context())
				if err != nil {
					return err
				}

				if len(args) == 0 {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}
				if err := os.WriteFile(args[0], data, 0o644); err != nil {
					return fmt.Errorf("write backup: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", args[0])
				return nil
			})
		},
	}
}

func importCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace reader data with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}

			return withLibrary(cmd.Context(), deps, func(lib *library.Library) error {
				if err := lib.Import(cmd.Context(), data); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", args[0])
				return nil
			})
		},
	}
}

func clearCommand(deps Deps) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every reader collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to clear without --yes")
			}
			return withLibrary(cmd.Context(), deps, func(lib *library.Library) error {
				if err := lib.ClearAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion")

	return cmd
}

// # Listings

func historyCommand(deps Deps) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently read chapters, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLibrary(cmd.Context(), deps, func(lib *library.Library) error {
				items, err := lib.History.All(cmd.Context())
				if err != nil {
					return err
				}

				table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(table, "COMIC\tCHAPTER\tREAD AT")
				for _, item := range items[:min(max(limit, 0), len(items))] {
					fmt.Fprintf(table, "%s\t%s\t%s\n", item.ComicSlug,
						otruyen.FormatChapterNumber(item.ChapterNumber), item.ReadAt.Format(time.DateTime))
				}
				return table.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to print")

	return cmd
}

func favoritesCommand(deps Deps) *cobra.Command {
	var byUpdate bool

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List followed comics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLibrary(cmd.Context(), deps, func(lib *library.Library) error {
				items, err := lib.Favorites.All(cmd.Context())
				if err != nil {
					return err
				}
				if byUpdate {
					items = library.SortByLatestUpdate(items)
				}

				table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(table, "COMIC\tNAME\tLATEST")
				for _, fav := range items {
					fmt.Fprintf(table, "%s\t%s\t%s\n", fav.ComicSlug, fav.ComicName, fav.LatestChapter)
				}
				return table.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&byUpdate, "by-update", false, "order by latest chapter update instead of follow time")

	return cmd
}

// # Preferences

func prefsCommand(deps Deps) *cobra.Command {
	prefs := &cobra.Command{
		Use:   "prefs",
		Short: "Read or change reader preferences",
	}

	prefs.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the effective preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLibrary(cmd.Context(), deps, func(lib *library.Library) error {
				current, err := lib.Preferences.Get(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), current)
			})
		},
	})

	prefs.AddCommand(&cobra.Command{
		Use:     "set key=value...",
		Short:   "Change preferences (theme, readingMode, autoNextChapter, imageQuality, language)",
		Example: "  truyenctl prefs set theme=dark readingMode=page",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parsePatch(args)
			if err != nil {
				return err
			}
			return withLibrary(cmd.Context(), deps, func(lib *library.Library) error {
				updated, err := lib.Preferences.Patch(cmd.Context(), patch)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), updated)
			})
		},
	})

	return prefs
}

func parsePatch(args []string) (library.PreferencesPatch, error) {
	var patch library.PreferencesPatch

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return patch, fmt.Errorf("expected key=value, got %q", arg)
		}

		switch key {
		case "theme":
			patch.Theme = &value
		case "readingMode":
			patch.ReadingMode = &value
		case "imageQuality":
			patch.ImageQuality = &value
		case "language":
			patch.Language = &value
		case "autoNextChapter":
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return patch, fmt.Errorf("autoNextChapter: %w", err)
			}
			patch.AutoNextChapter = &enabled
		default:
			return patch, fmt.Errorf("unknown preference %q", key)
		}
	}

	return patch, nil
}

// # Comic API

func fetchCommand(deps Deps) *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:     "fetch <endpoint>",
		Short:   "GET one comic API endpoint and print the JSON body",
		Example: "  truyenctl fetch /danh-sach/truyen-hot --param page=2",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := make(map[string]string, len(params))
			for _, param := range params {
				key, value, found := strings.Cut(param, "=")
				if !found {
					return fmt.Errorf("expected key=value, got %q", param)
				}
				query[key] = value
			}

			client := httpclient.New(deps.Config.APIBaseURL,
				httpclient.WithTTL(deps.Config.CacheTTL),
				httpclient.WithLogger(deps.Logger),
			)
			body, err := client.Get(cmd.Context(), args[0], httpclient.RequestOptions{
				Params:  query,
				Timeout: deps.Config.HTTPTimeout,
			})
			if err != nil {
				return err
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, body, "", "  "); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			return err
		},
	}
	cmd.Flags().StringArrayVar(&params, "param", nil, "query parameter as key=value (repeatable)")

	return cmd
}

func printJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
