package cli

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirosfoundation/go-netsuite/pkg/restlet"
)

func newRestletCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restlet",
		Short: "Make NetSuite Restlet requests",
	}
	cmd.AddCommand(
		newRestletMethodCommand(r, http.MethodGet, false),
		newRestletMethodCommand(r, http.MethodPost, true),
		newRestletMethodCommand(r, http.MethodPut, true),
		newRestletMethodCommand(r, http.MethodDelete, false),
	)
	return cmd
}

func newRestletMethodCommand(r *runner, method string, withPayload bool) *cobra.Command {
	var (
		deploy  int
		headers []string
	)

	use := "<script_id>"
	nargs := 1
	if withPayload {
		use += " <payload_file>"
		nargs = 2
	}

	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " " + use,
		Short: fmt.Sprintf("Make a %s request to a NetSuite Restlet", method),
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid script id %q", args[0])
			}
			h, err := ParseHeaders(headers)
			if err != nil {
				return err
			}

			client, err := r.netsuiteClient()
			if err != nil {
				return err
			}
			rl, err := client.Restlet()
			if err != nil {
				return err
			}

			opts := []restlet.CallOption{restlet.WithDeploy(deploy), restlet.WithHeaders(h)}
			if withPayload {
				payload, err := readPayload(args[1], cmd.InOrStdin())
				if err != nil {
					return err
				}
				opts = append(opts, restlet.WithPayload(payload))
			}

			resp, err := rl.Request(cmd.Context(), method, scriptID, opts...)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().IntVarP(&deploy, "deploy", "d", restlet.DefaultDeploy, "The deployment version")
	addHeaderFlag(cmd, &headers)
	return cmd
}
