package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	mention "github.com/grovetools/archive/composer"
	"github.com/grovetools/archive/cli"
	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/errors"
	"github.com/grovetools/archive/pkg/archiveapi"
)

// session bundles what most commands need: the merged configuration and a
// gateway client built from it.
type session struct {
	cfg    *config.Config
	client *archiveapi.HTTPClient
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	opts, err := archiveapi.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts.Logger = cli.GetLogger(cmd)

	client, err := archiveapi.NewHTTPClient(opts)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, client: client}, nil
}

// requestContext bounds a single gateway call by api.timeout.
func (s *session) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), s.cfg.RequestTimeout())
}

// resolveField canonicalizes a --field value against the configured catalog.
// An empty value means all fields.
func resolveField(cfg *config.Config, field string) (string, error) {
	if field == "" {
		return "", nil
	}
	catalog, err := mention.NewCatalog(cfg.CategoryIDs())
	if err != nil {
		return "", err
	}
	cat, ok := catalog.Lookup(strings.TrimPrefix(field, "@"))
	if !ok {
		return "", errors.InvalidInput(
			fmt.Sprintf("unknown field '%s' (choose from %s)", field, strings.Join(cfg.CategoryIDs(), ", ")), nil).
			WithDetail("field", field)
	}
	return string(cat), nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func jsonOutput(cmd *cobra.Command) bool {
	return cli.GetOptions(cmd).JSONOutput
}

func outln(cmd *cobra.Command, a ...interface{}) {
	fmt.Fprintln(cmd.OutOrStdout(), a...)
}
