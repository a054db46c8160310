package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/flickergrid/flickergrid/pkg/design"
	"github.com/flickergrid/flickergrid/pkg/errors"
	"github.com/flickergrid/flickergrid/pkg/session"
)

// sessionCommand creates the session management command.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Manage saved designs",
		Long: `Session manages named designs in the configured store (files by default,
or Redis or MongoDB per the [session] config table).`,
	}

	cmd.AddCommand(c.sessionListCommand())
	cmd.AddCommand(c.sessionGetCommand())
	cmd.AddCommand(c.sessionSaveCommand())
	cmd.AddCommand(c.sessionDeleteCommand())
	cmd.AddCommand(c.sessionBrowseCommand())
	cmd.AddCommand(c.sessionWatchCommand())

	return cmd
}

// withSessions opens the store for the duration of fn.
func (c *CLI) withSessions(ctx context.Context, fn func(session.Store) error) error {
	store, err := c.openSessions(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// completeSessionNames offers saved session names for the first argument.
func (c *CLI) completeSessionNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	_ = c.withSessions(cmd.Context(), func(s session.Store) error {
		var err error
		names, err = s.List(cmd.Context())
		return err
	})
	return names, cobra.ShellCompDirectiveNoFileComp
}

func (c *CLI) sessionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSessions(cmd.Context(), func(s session.Store) error {
				names, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(names) == 0 {
					printInfo("No saved sessions")
					return nil
				}
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			})
		},
	}
}

func (c *CLI) sessionGetCommand() *cobra.Command {
	var (
		output string
		asCSV  bool
	)
	cmd := &cobra.Command{
		Use:               "get <name>",
		Short:             "Print a saved design",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSessionNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSessions(cmd.Context(), func(s session.Store) error {
				text, err := s.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out, err := openOutput(output)
				if err != nil {
					return err
				}
				defer out.Close()

				if asCSV {
					patches, err := design.ParseSpectral(text)
					if err != nil {
						return err
					}
					return session.WriteCSV(out, patches)
				}
				_, err = fmt.Fprintln(out, text)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "print as a session CSV file")
	return cmd
}

func (c *CLI) sessionSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> [design-file|-]",
		Short: "Save a design under a name",
		Long: `Save stores design text under name, replacing any session with that name.
Pass "" as the name to have one generated from the date and patch count.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, _, err := c.readDesign(ctx, args[1:], "")
			if err != nil {
				return err
			}
			return c.withSessions(ctx, func(s session.Store) error {
				name, err := s.Save(ctx, args[0], text)
				if err != nil {
					return err
				}
				printSuccess("Saved session %s", StyleHighlight.Render(name))
				return nil
			})
		},
	}
}

func (c *CLI) sessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>",
		Aliases:           []string{"rm"},
		Short:             "Delete a saved session",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeSessionNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSessions(cmd.Context(), func(s session.Store) error {
				if err := s.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted session %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) sessionBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a saved session interactively and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withSessions(ctx, func(s session.Store) error {
				entries, err := loadSessionEntries(ctx, s)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					printInfo("No saved sessions")
					return nil
				}

				final, err := tea.NewProgram(NewSessionListModel(entries), tea.WithContext(ctx)).Run()
				if err != nil {
					return err
				}
				m, ok := final.(SessionListModel)
				if !ok || m.Selected == nil {
					return nil
				}
				fmt.Println(m.Selected.Text)
				return nil
			})
		},
	}
}

// loadSessionEntries reads every session for the browser.
func loadSessionEntries(ctx context.Context, s session.Store) ([]SessionEntry, error) {
	names, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]SessionEntry, 0, len(names))
	for _, name := range names {
		text, err := s.Get(ctx, name)
		if errors.Is(err, errors.ErrCodeSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		d := design.Parse(text)
		entries = append(entries, SessionEntry{
			Name:       name,
			Text:       text,
			Patches:    len(d),
			Duplicates: len(design.ValidateUnique(d)),
		})
	}
	return entries, nil
}

func (c *CLI) sessionWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print sessions as they are saved or removed",
		Long: `Watch follows the session directory of the file backend, including changes
made by other processes such as a running server, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withSessions(ctx, func(s session.Store) error {
				fs, ok := s.(*session.FileStore)
				if !ok {
					return errors.New(errors.ErrCodeUnsupported, "watch needs the file session backend")
				}
				printInfo("Watching %s", fs.Path())
				err := fs.Watch(ctx, func(ch session.Change) {
					switch ch.Kind {
					case session.ChangeSaved:
						printSuccess("saved %s", ch.Name)
					case session.ChangeRemoved:
						printWarning("removed %s", ch.Name)
					}
				})
				if ctx.Err() != nil {
					return nil
				}
				return err
			})
		},
	}
}
