// Command solrctl administers the configsets, collections and aliases of a
// SolrCloud cluster.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/mlibrary/solr-cloud-connection/cmd/solrctl/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := command.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
