// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cheonwon/internal/backend"
	"cheonwon/internal/catalog"
	"cheonwon/internal/category"
	"cheonwon/internal/config"
	"cheonwon/internal/middleware"
	"cheonwon/internal/store"
)

// app holds the lazily opened storage shared by all subcommands.
type app struct {
	open func() (*backend.Backend, []catalog.Option, error)

	backend *backend.Backend
	opts    []catalog.Option
	svc     *catalog.Service
}

func (a *app) storage() (*backend.Backend, error) {
	if a.backend == nil {
		b, opts, err := a.open()
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		a.backend, a.opts = b, opts
	}
	return a.backend, nil
}

func (a *app) catalog(ctx context.Context) (*catalog.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	b, err := a.storage()
	if err != nil {
		return nil, err
	}
	a.svc = b.Catalog(ctx, a.opts...)
	if a.svc.MemoryOnly() {
		return nil, errors.New("storage is not writable")
	}
	return a.svc, nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "categoryctl",
		Short:         "Inspect and edit the 천원마켓 category tree",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newTreeCmd(a),
		newRowsCmd(a),
		newAddCmd(a),
		newRenameCmd(a),
		newDeleteCmd(a),
		newResolveCmd(a),
		newSeedCmd(a),
		newChangesCmd(a),
		newHashTokenCmd(),
	)
	return root
}

func newTreeCmd(a *app) *cobra.Command {
	var showIDs bool
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the category tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), svc.Tree(), 0, showIDs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showIDs, "ids", false, "show node ids")
	return cmd
}

func printTree(w io.Writer, nodes []category.Node, depth int, showIDs bool) {
	for _, n := range nodes {
		indent := strings.Repeat("  ", depth)
		if showIDs {
			fmt.Fprintf(w, "%s%s (%s)\n", indent, n.Name, n.ID)
		} else {
			fmt.Fprintf(w, "%s%s\n", indent, n.Name)
		}
		printTree(w, n.Children, depth+1, showIDs)
	}
}

func newRowsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "List every category with its usage and child counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			rows := svc.Rows()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPATH\tDEPTH\tCHILDREN\tUSAGE\tDELETABLE")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%t\n", r.ID, r.Value, r.Depth, r.ChildCount, r.Usage, r.Deletable)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var parent []string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category, at the top level or under --parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			node, err := svc.Add(cmd.Context(), parent, args[0])
			if err != nil {
				return err
			}
			path, _ := category.Find(svc.Tree(), node.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", path.Value, node.ID)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&parent, "parent", nil, "comma-separated id chain of the parent node")
	return cmd
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a category and move its products along",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.Rename(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed %s -> %s (%d products updated)\n",
				out.OldValue, out.NewValue, out.UpdatedProducts)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an unused leaf category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			path, _ := category.Find(svc.Tree(), args[0])
			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", path.Value)
			return nil
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve VALUE",
		Short: "Resolve a stored category value to its node ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			ids, names := svc.Resolve(args[0])
			if len(ids) == 0 {
				return fmt.Errorf("%q does not match any category", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", strings.Join(ids, ","), category.JoinPath(names))
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	var (
		file  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the initial category tree from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := config.LoadSeedTree(file)
			if err != nil {
				return err
			}
			b, err := a.storage()
			if err != nil {
				return err
			}

			st := store.NewCategoryStore(b.KV)
			if !force {
				existing, err := st.ReadTree(cmd.Context())
				if err != nil {
					return err
				}
				if existing != nil {
					return errors.New("a category tree is already stored (use --force to replace it)")
				}
			}
			if err := st.SaveTree(cmd.Context(), tree); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories\n", len(category.Flatten(tree)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (default tree when empty)")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing tree")
	return cmd
}

func newChangesCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "changes",
		Short: "List recent category changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.storage()
			if err != nil {
				return err
			}
			if b.ChangeLog == nil {
				return errors.New("the change log needs the postgres backend")
			}
			changes, err := b.ChangeLog.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tACTION\tOLD\tNEW\tPRODUCTS")
			for _, c := range changes {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
					c.CreatedAt.Format("2006-01-02 15:04"), c.Action, c.OldValue, c.NewValue, c.ProductsUpdated)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	return cmd
}

func newHashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token [TOKEN]",
		Short: "Print the bcrypt hash of an admin token for ADMIN_TOKEN_HASH",
		Long:  "Hashes TOKEN, or the first line of stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				token = strings.TrimSpace(line)
			}
			if token == "" {
				return errors.New("token is empty")
			}

			hash, err := middleware.HashToken(token)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
