package command

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mlibrary/solr-cloud-connection/solrcloudx"
	"github.com/spf13/cobra"
)

func newAliasesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "aliases",
		Aliases: []string{"alias"},
		Short:   "Manage aliases",
	}
	cmd.AddCommand(
		newAliasesListCommand(a),
		newAliasesCreateCommand(a),
		newAliasesDeleteCommand(a),
		newAliasesRetargetCommand(a),
	)
	return cmd
}

func newAliasesListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List aliases and the collection they point to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			m, err := conn.AliasMap(ctx)
			if err != nil {
				return err
			}
			for _, name := range slices.Sorted(maps.Keys(m)) {
				printLine(cmd, fmt.Sprintf("%s -> %s", name, m[name]))
			}
			return nil
		},
	}
}

func newAliasesCreateCommand(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "create NAME COLLECTION",
		Short: "Point a new alias at a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			alias, err := conn.CreateAlias(cmd.Context(), args[0], args[1], overwritePolicy(force))
			if err != nil {
				return err
			}
			desc, err := alias.Describe(cmd.Context())
			if err != nil {
				return err
			}
			printLine(cmd, desc)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "rebind an existing alias")
	return cmd
}

func newAliasesDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an alias, doing nothing if it doesn't exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			return conn.DeleteAlias(cmd.Context(), args[0])
		},
	}
}

func newAliasesRetargetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "retarget NAME COLLECTION",
		Short: "Point an existing alias at another collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			alias, err := conn.Alias(ctx, args[0])
			if err != nil {
				return err
			}
			if err := alias.Retarget(ctx, solrcloudx.CollectionName(args[1])); err != nil {
				return err
			}
			desc, err := alias.Describe(ctx)
			if err != nil {
				return err
			}
			printLine(cmd, desc)
			return nil
		},
	}
}
