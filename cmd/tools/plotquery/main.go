// cmd/tools/plotquery/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"plot-query-service/internal/catalog"
	"plot-query-service/internal/catalog/sources"
	apiclient "plot-query-service/internal/common/http"
	"plot-query-service/internal/common/logger"
	"plot-query-service/internal/models"
	"plot-query-service/internal/query"
	"plot-query-service/internal/service"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "plotquery",
		Short:         "Query and validate plot catalogs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newListCmd(), newValidateCmd())
	return root
}

// --- list ---

func newListCmd() *cobra.Command {
	var (
		catalogPath string
		server      string
		timeout     time.Duration
		strict      bool
		verbose     bool
	)
	flagParams := map[string]string{
		"min-price": query.ParamMinPrice,
		"max-price": query.ParamMaxPrice,
		"location":  query.ParamLocation,
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the plots matching the given filters as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewNoOpLogger()
			if verbose {
				log = logger.NewStructured("debug", "console", "stderr")
			}

			raw := map[string]string{}
			for flagName, param := range flagParams {
				if f := cmd.Flags().Lookup(flagName); f != nil && f.Changed {
					raw[param] = f.Value.String()
				}
			}

			var list *models.PlotList
			if server != "" {
				log.Debug("querying remote service", map[string]interface{}{"server": server})
				remote, err := apiclient.NewClient(server, timeout).QueryPlots(contextOf(cmd), raw)
				if err != nil {
					return err
				}
				list = remote
			} else {
				c, err := loadCatalog(contextOf(cmd), catalogPath, log)
				if err != nil {
					return err
				}
				svc := service.NewPlotService(c, service.Options{StrictValidation: strict}, log)
				if list, err = svc.Query(contextOf(cmd), service.TransportCLI, raw); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		},
	}

	cmd.Flags().String("min-price", "", "lower price bound, inclusive")
	cmd.Flags().String("max-price", "", "upper price bound, inclusive")
	cmd.Flags().String("location", "", "case-insensitive location substring")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog JSON file (default: built-in seed catalog)")
	cmd.Flags().StringVar(&server, "server", "", "query a running plot service at this base URL instead of a local catalog")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout for --server")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject malformed prices instead of ignoring them (local catalog only)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	// with --server the service's own query.strict_validation and catalog apply
	cmd.MarkFlagsMutuallyExclusive("server", "strict")
	cmd.MarkFlagsMutuallyExclusive("server", "catalog")
	return cmd
}

// --- validate ---

func newValidateCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog file against the plot schema and catalog rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(contextOf(cmd), catalogPath, logger.NewNoOpLogger())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d plots, fingerprint %s\n", c.Len(), c.Fingerprint())
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog JSON file")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func loadCatalog(ctx context.Context, path string, log logger.Logger) (*catalog.Catalog, error) {
	var src catalog.Source = sources.NewSeedSource()
	if path != "" {
		src = sources.NewFileSource(path)
	}
	return catalog.Load(ctx, src, log)
}
