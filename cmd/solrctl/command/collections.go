package command

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	"github.com/mlibrary/solr-cloud-connection/solrcloudx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCollectionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection", "coll"},
		Short:   "Manage collections",
	}
	cmd.AddCommand(
		newCollectionsListCommand(a),
		newCollectionsCreateCommand(a),
		newCollectionsDeleteCommand(a),
		newCollectionsHealthCommand(a),
		newCollectionsCountCommand(a),
		newCollectionsCommitCommand(a),
		newCollectionsIndexCommand(a),
	)
	return cmd
}

func newCollectionsListCommand(a *app) *cobra.Command {
	var withAliases, long bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collection names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if long {
				colls, err := conn.Collections(ctx)
				if err != nil {
					return err
				}
				for _, coll := range colls {
					desc, err := coll.Describe(ctx)
					if err != nil {
						return err
					}
					printLine(cmd, desc)
				}
				return nil
			}

			list := conn.CollectionNames
			if withAliases {
				list = conn.CollectionAndAliasNames
			}
			names, err := list(ctx)
			if err != nil {
				return err
			}
			for _, name := range names {
				printLine(cmd, name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withAliases, "with-aliases", false, "include alias names")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show the aliases of every collection")
	return cmd
}

func newCollectionsCreateCommand(a *app) *cobra.Command {
	var (
		configSet string
		opts      solrcloudx.CreateCollectionOptions
	)
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a collection from an existing configset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			coll, err := conn.CreateCollection(cmd.Context(), args[0], configSet, &opts)
			if err != nil {
				return err
			}
			printLine(cmd, coll.Name())
			return nil
		},
	}
	cmd.Flags().StringVarP(&configSet, "configset", "c", "", "configset of the collection")
	cmd.Flags().IntVar(&opts.Shards, "shards", 1, "number of shards")
	cmd.Flags().IntVar(&opts.ReplicationFactor, "replication-factor", 1, "replicas per shard")
	_ = cmd.MarkFlagRequired("configset")
	return cmd
}

// realCollection looks name up and refuses aliases.
func (a *app) realCollection(cmd *cobra.Command, name string) (solrcloudx.Collectioner, error) {
	conn, err := a.connection(cmd)
	if err != nil {
		return nil, err
	}
	coll, err := conn.Collection(cmd.Context(), name)
	if err != nil {
		return nil, err
	}
	if coll.IsAlias() {
		return nil, errorx.InvalidArgumentErrorf("'%s' is an alias, use the aliases commands", name)
	}
	return coll, nil
}

func newCollectionsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a collection no alias points to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := a.realCollection(cmd, args[0])
			if err != nil {
				return err
			}
			return coll.Delete(cmd.Context())
		},
	}
}

func newCollectionsHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health NAME",
		Short: "Print whether a collection or alias is alive and its health",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			coll, err := conn.Collection(ctx, args[0])
			if err != nil {
				return err
			}
			alive, err := coll.Alive(ctx)
			if err != nil {
				return err
			}
			info, err := coll.Info(ctx)
			if err != nil {
				return err
			}
			printLine(cmd, "alive:", alive)
			printLine(cmd, "health:", info.Health)
			return nil
		},
	}
}

func newCollectionsCountCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count NAME",
		Short: "Print the number of committed documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			coll, err := conn.Collection(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			n, err := coll.Count(cmd.Context())
			if err != nil {
				return err
			}
			printLine(cmd, strconv.FormatInt(n, 10))
			return nil
		},
	}
}

func newCollectionsCommitCommand(a *app) *cobra.Command {
	var hard bool
	cmd := &cobra.Command{
		Use:   "commit NAME",
		Short: "Commit pending documents, soft unless --hard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			coll, err := conn.Collection(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = coll.Commit(cmd.Context(), commitMode(hard))
			return err
		},
	}
	cmd.Flags().BoolVar(&hard, "hard", false, "flush to stable storage")
	return cmd
}

func newCollectionsIndexCommand(a *app) *cobra.Command {
	var commit bool
	cmd := &cobra.Command{
		Use:   "index NAME FILE",
		Short: "Send the JSON array of documents in FILE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := readDocuments(args[1])
			if err != nil {
				return err
			}
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			coll, err := conn.Collection(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := coll.AddDocuments(cmd.Context(), docs...); err != nil {
				return err
			}
			if commit {
				if _, err := coll.Commit(cmd.Context(), solrcloudx.SoftCommit); err != nil {
					return err
				}
			}
			printLine(cmd, len(docs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&commit, "commit", false, "soft commit once sent")
	return cmd
}

func readDocuments(path string) ([]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var docs []any
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, errorx.InvalidArgumentErrorf("%s must hold a JSON array of documents", path).WithOriginalError(err)
	}
	return docs, nil
}

func commitMode(hard bool) solrcloudx.CommitMode {
	if hard {
		return solrcloudx.HardCommit
	}
	return solrcloudx.SoftCommit
}
