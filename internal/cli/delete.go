// Copyright (c) 2025, Wesley Brown
// All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	nethttp "net/http"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	deleteCmd := &cobra.Command{
		Use:   "delete URL|PATH",
		Short: "Make a DELETE request against the users API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exchange(cmd, nethttp.MethodDelete, args[0], false)
		},
	}
	addExchangeFlags(deleteCmd, false)
	return deleteCmd
}
