package cli

import (
	"github.com/spf13/cobra"

	"github.com/sirosfoundation/go-netsuite/pkg/soap"
)

func newSOAPCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soap-api",
		Short: "Make NetSuite SuiteTalk Web Services SOAP requests",
	}
	cmd.AddCommand(
		newSOAPGetCommand(r),
		newSOAPGetListCommand(r),
		newSOAPGetAllCommand(r),
	)
	return cmd
}

func (r *runner) soapClient() (*soap.Client, error) {
	client, err := r.netsuiteClient()
	if err != nil {
		return nil, err
	}
	return client.SOAP()
}

func newSOAPGetCommand(r *runner) *cobra.Command {
	var ref soap.RecordRef

	cmd := &cobra.Command{
		Use:   "get <record_type>",
		Short: "Call the get method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := r.soapClient()
			if err != nil {
				return err
			}
			resp, err := c.Get(cmd.Context(), args[0], ref)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVarP(&ref.ExternalID, "externalId", "e", "", "External ID to get")
	cmd.Flags().StringVarP(&ref.InternalID, "internalId", "i", "", "Internal ID to get")
	return cmd
}

func newSOAPGetListCommand(r *runner) *cobra.Command {
	var internalIDs, externalIDs []string

	cmd := &cobra.Command{
		Use:   "getList <record_type>",
		Short: "Call the getList method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := r.soapClient()
			if err != nil {
				return err
			}
			resp, err := c.GetList(cmd.Context(), args[0], internalIDs, externalIDs)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringArrayVarP(&externalIDs, "externalId", "e", nil, "External IDs to get")
	cmd.Flags().StringArrayVarP(&internalIDs, "internalId", "i", nil, "Internal IDs to get")
	return cmd
}

func newSOAPGetAllCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "getAll <record_type>",
		Short: "Call the getAll method, e.g. for currency or state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := r.soapClient()
			if err != nil {
				return err
			}
			resp, err := c.GetAll(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
}
