package cli

import (
	nethttp "net/http"

	"github.com/spf13/cobra"
)

func newPostCmd() *cobra.Command {
	postCmd := &cobra.Command{
		Use:     "post URL|PATH",
		Short:   "Make a POST request against the users API",
		Example: `  usercheck post /users --json '{"name":"morpheus","job":"leader"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exchange(cmd, nethttp.MethodPost, args[0], true)
		},
	}
	addExchangeFlags(postCmd, true)
	return postCmd
}
