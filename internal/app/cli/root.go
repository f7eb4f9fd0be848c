// Package cli is the operator command line for printing waybills and inspecting orders
// without the admin UI.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	ordermapper "github.com/Apurer/storefront-admin/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Apurer/storefront-admin/internal/domains/orders/application"
	types "github.com/Apurer/storefront-admin/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
	"github.com/Apurer/storefront-admin/internal/shared/auth"
)

// ServiceFactory builds the orders service for one command invocation.
type ServiceFactory func(ctx context.Context) (ports.Service, func(), error)

// NewRootCommand assembles the waybill command tree.
func NewRootCommand(factory ServiceFactory) *cobra.Command {
	var token string
	root := &cobra.Command{
		Use:           "waybill",
		Short:         "Print shipment documents and inspect orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if token == "" {
				token = os.Getenv("BACKEND_TOKEN")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(auth.WithToken(ctx, token))
		},
	}
	root.PersistentFlags().StringVar(&token, "token", "", "bearer token for the order backend (default $BACKEND_TOKEN)")
	root.AddCommand(
		newRenderCommand(factory),
		newInvoiceCommand(factory),
		newListCommand(factory),
	)
	return root
}

func newRenderCommand(factory ServiceFactory) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "render ORDER_ID",
		Short: "Render the shipping label and tax invoice of an order",
		Long: "Render the shipping label and tax invoice of an order.\n\n" +
			"The first render of an order issues its invoice number; later renders reuse it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, factory, func(ctx context.Context, service ports.Service) error {
				waybill, err := service.Waybill(ctx, types.WaybillInput{OrderID: args[0], Format: format})
				if err != nil {
					return err
				}
				if out == "" {
					_, err = cmd.OutOrStdout().Write(waybill.Body)
					return err
				}
				if out == "." {
					out = waybill.Filename
				}
				if err := os.WriteFile(out, waybill.Body, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (invoice %s, %s)\n", out, waybill.Layout.Invoice.InvoiceNumber, waybill.Layout.PageSize.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "document format: yaml, json or html (default yaml)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout; '.' uses the suggested file name")
	return cmd
}

func newInvoiceCommand(factory ServiceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "invoice ORDER_ID",
		Short: "Print the tax decomposition of an order without issuing an invoice number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, factory, func(ctx context.Context, service ports.Service) error {
				view, err := service.Invoice(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), ordermapper.FromInvoice(view))
			})
		},
	}
}

func newListCommand(factory ServiceFactory) *cobra.Command {
	var status string
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of orders in a status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, factory, func(ctx context.Context, service ports.Service) error {
				pager := ordersapp.NewPager(service)
				if err := pager.SetStatus(domain.Status(status)); err != nil {
					return err
				}
				pager.SetPage(page)
				result, err := pager.Current(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%s: page %d of %d (%d orders)\n", result.Status, result.Number, max(result.TotalPages, 1), result.TotalCount)
				for _, p := range result.Orders {
					o := ordermapper.FromProjection(p)
					fmt.Fprintf(w, "%-24s %-14s %-8s %s\n", o.ID, o.OrderNumber, o.PaymentLabel, o.Amount)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", string(domain.StatusPlaced), "status tab")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

func withService(cmd *cobra.Command, factory ServiceFactory, run func(context.Context, ports.Service) error) error {
	ctx := cmd.Context()
	service, cleanup, err := factory(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return run(ctx, service)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
