package cli

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirosfoundation/go-netsuite/internal/server"
	"github.com/sirosfoundation/go-netsuite/pkg/restapi"
)

func newRestAPICommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rest-api",
		Aliases: []string{"r"},
		Short:   "Make requests to NetSuite REST web services",
	}

	cmd.AddCommand(
		newRestAPIGetCommand(r),
		newRestAPIWriteCommand(r, "post", "Make a POST request to NetSuite REST web services", "/record/v1/salesOrder"),
		newRestAPIWriteCommand(r, "put", "Make a PUT request to NetSuite REST web services", "/record/v1/salesOrder/eid:abc123"),
		newRestAPIWriteCommand(r, "patch", "Make a PATCH request to NetSuite REST web services", "/record/v1/salesOrder/eid:abc123"),
		newRestAPIDeleteCommand(r),
		newRestAPISuiteQLCommand(r),
		newRestAPIJSONSchemaCommand(r),
		newRestAPIOpenAPICommand(r),
		newRestAPIOpenAPIServeCommand(r),
	)
	return cmd
}

func (r *runner) restAPI() (*restapi.API, error) {
	client, err := r.netsuiteClient()
	if err != nil {
		return nil, err
	}
	return client.RestAPI()
}

// headerOption turns -H flags into a request option
func headerOption(raw []string) (restapi.RequestOption, error) {
	h, err := ParseHeaders(raw)
	if err != nil {
		return nil, err
	}
	return restapi.WithHeaders(h), nil
}

func addHeaderFlag(cmd *cobra.Command, target *[]string) {
	cmd.Flags().StringArrayVarP(target, "header", "H", nil, "Headers to append. Can be specified multiple times, each as `NAME: VALUE`")
}

func newRestAPIGetCommand(r *runner) *cobra.Command {
	var (
		query              string
		expandSubResources bool
		limit, offset      int
		fields, expand     []string
		headers            []string
	)

	cmd := &cobra.Command{
		Use:   "get <subpath>",
		Short: "Make a GET request to NetSuite REST web services, e.g. /record/v1/salesOrder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := r.restAPI()
			if err != nil {
				return err
			}
			hdr, err := headerOption(headers)
			if err != nil {
				return err
			}

			opts := []restapi.RequestOption{hdr}
			if expandSubResources {
				opts = append(opts, restapi.WithParam("expandSubResources", "true"))
			}
			if cmd.Flags().Changed("limit") {
				opts = append(opts, restapi.WithParam("limit", strconv.Itoa(limit)))
			}
			if cmd.Flags().Changed("offset") {
				opts = append(opts, restapi.WithParam("offset", strconv.Itoa(offset)))
			}
			if len(fields) > 0 {
				opts = append(opts, restapi.WithParam("fields", strings.Join(fields, ",")))
			}
			if len(expand) > 0 {
				opts = append(opts, restapi.WithParam("expand", strings.Join(expand, ",")))
			}
			if query != "" {
				opts = append(opts, restapi.WithParam("q", query))
			}

			resp, err := api.Get(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&query, "query", "q", "", "Search query used to filter results. Only works for list endpoints e.g. /record/v1/customer")
	f.BoolVarP(&expandSubResources, "expandSubResources", "e", false, "Expand all sublists, sublist lines and subrecords. Only works for detail endpoints e.g. /record/v1/invoice/123")
	f.IntVarP(&limit, "limit", "l", 0, "Maximum number of results")
	f.IntVarP(&offset, "offset", "o", 0, "Offset of the first result")
	f.StringSliceVarP(&fields, "fields", "f", nil, "Only include the given fields in the response")
	f.StringSliceVarP(&expand, "expand", "E", nil, "Expand the given sublist lines and subrecords. Only works for detail endpoints")
	addHeaderFlag(cmd, &headers)
	return cmd
}

func newRestAPIWriteCommand(r *runner, method, short, example string) *cobra.Command {
	var headers []string

	cmd := &cobra.Command{
		Use:     method + " <subpath> <payload_file>",
		Short:   short,
		Example: "  netsuite rest-api " + method + " " + example + " payload.json",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := r.restAPI()
			if err != nil {
				return err
			}
			hdr, err := headerOption(headers)
			if err != nil {
				return err
			}
			payload, err := readPayload(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}

			resp, err := api.Request(cmd.Context(), strings.ToUpper(method), args[0], hdr, restapi.WithJSON(payload))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	addHeaderFlag(cmd, &headers)
	return cmd
}

func newRestAPIDeleteCommand(r *runner) *cobra.Command {
	var headers []string

	cmd := &cobra.Command{
		Use:   "delete <subpath>",
		Short: "Make a DELETE request to NetSuite REST web services, e.g. /record/v1/salesOrder/eid:abc123",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := r.restAPI()
			if err != nil {
				return err
			}
			hdr, err := headerOption(headers)
			if err != nil {
				return err
			}

			resp, err := api.Delete(cmd.Context(), args[0], hdr)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	addHeaderFlag(cmd, &headers)
	return cmd
}

func newRestAPISuiteQLCommand(r *runner) *cobra.Command {
	var (
		limit, offset int
		headers       []string
	)

	cmd := &cobra.Command{
		Use:   "suiteql <q_file>",
		Short: "Make a SuiteQL request to NetSuite REST web services. The query is read from q_file, or stdin when it is -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := r.restAPI()
			if err != nil {
				return err
			}
			hdr, err := headerOption(headers)
			if err != nil {
				return err
			}
			q, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			resp, err := api.SuiteQL(cmd.Context(), string(q), limit, offset, hdr)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Maximum number of rows")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Offset of the first row")
	addHeaderFlag(cmd, &headers)
	return cmd
}

func newRestAPIJSONSchemaCommand(r *runner) *cobra.Command {
	var headers []string

	cmd := &cobra.Command{
		Use:   "jsonschema <record_type>",
		Short: "Retrieve JSON Schema for the given record type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := r.restAPI()
			if err != nil {
				return err
			}
			hdr, err := headerOption(headers)
			if err != nil {
				return err
			}

			resp, err := api.JSONSchema(cmd.Context(), args[0], hdr)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	addHeaderFlag(cmd, &headers)
	return cmd
}

func newRestAPIOpenAPICommand(r *runner) *cobra.Command {
	var headers []string

	cmd := &cobra.Command{
		Use:     "openapi <record_type>...",
		Aliases: []string{"oas"},
		Short:   "Retrieve OpenAPI spec for the given record types",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := r.restAPI()
			if err != nil {
				return err
			}
			hdr, err := headerOption(headers)
			if err != nil {
				return err
			}

			resp, err := api.OpenAPI(cmd.Context(), args, hdr)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	addHeaderFlag(cmd, &headers)
	return cmd
}

func newRestAPIOpenAPIServeCommand(r *runner) *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:     "openapi-serve [record_type...]",
		Aliases: []string{"oas-serve"},
		Short:   "Start a HTTP server on localhost serving the OpenAPI spec via Swagger UI",
		Long: "Start a HTTP server on localhost serving the OpenAPI spec via Swagger UI. " +
			"If no record types are given the spec for all known record types is retrieved.",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := r.restAPI()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				r.logger.Warn("fetching OpenAPI spec for ALL known record types, this will take a long time " +
					"(consider passing only the record types of interest)")
			} else {
				r.logger.Info("fetching OpenAPI spec", "record_types", strings.Join(args, ", "))
			}
			spec, err := api.OpenAPI(cmd.Context(), args)
			if err != nil {
				return err
			}

			srv := server.New(&server.Config{
				Addr:     net.JoinHostPort(bind, strconv.Itoa(port)),
				Gatherer: r.registry,
				Logger:   r.logger,
			})
			if err := srv.SetSpec(spec); err != nil {
				return err
			}
			return serveUntilDone(cmd.Context(), srv)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8000, "The port to listen to")
	cmd.Flags().StringVarP(&bind, "bind", "b", "127.0.0.1", "The host to bind to")
	return cmd
}

// serveUntilDone runs srv until ctx is cancelled
func serveUntilDone(ctx context.Context, srv *server.Server) error {
	if err := srv.Listen(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-done
}
