package command

import (
	"github.com/mlibrary/solr-cloud-connection/solrcloudx"
	"github.com/spf13/cobra"
)

func newConfigSetsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "configsets",
		Aliases: []string{"configset", "cs"},
		Short:   "Manage configsets",
	}
	cmd.AddCommand(
		newConfigSetsListCommand(a),
		newConfigSetsCreateCommand(a),
		newConfigSetsDeleteCommand(a),
		newConfigSetsInUseCommand(a),
	)
	return cmd
}

func newConfigSetsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configset names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			names, err := conn.ConfigSetNames(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				printLine(cmd, name)
			}
			return nil
		},
	}
}

func newConfigSetsCreateCommand(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "create NAME DIR",
		Short: "Upload the files of DIR as configset NAME",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			cs, err := conn.CreateConfigSet(cmd.Context(), args[0], args[1], overwritePolicy(force))
			if err != nil {
				return err
			}
			printLine(cmd, cs.Name())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing configset")
	return cmd
}

func newConfigSetsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a configset no collection uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			return conn.DeleteConfigSet(cmd.Context(), args[0])
		},
	}
}

func newConfigSetsInUseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "in-use NAME",
		Short: "List the collections using a configset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			cs, err := conn.ConfigSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			used, err := cs.UsedBy(cmd.Context())
			if err != nil {
				return err
			}
			for _, coll := range used {
				printLine(cmd, coll.Name())
			}
			return nil
		},
	}
}

func overwritePolicy(force bool) solrcloudx.OverwritePolicy {
	if force {
		return solrcloudx.OverwriteForce
	}
	return solrcloudx.OverwriteRefuse
}
