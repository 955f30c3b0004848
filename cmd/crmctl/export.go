package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/travel-crm/internal/bootstrap"
	"github.com/spec-kit/travel-crm/internal/crm"
	"github.com/spec-kit/travel-crm/internal/domain"
	"github.com/spec-kit/travel-crm/internal/service"
)

func newExportCmd(app *cli) *cobra.Command {
	var (
		out    string
		status string
		search string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every customer to an Excel workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := bootstrap.OpenStore(cmd.Context(), *app.cfg, app.logger)
			if err != nil {
				return err
			}
			defer backend.Close(context.Background())

			customers := service.NewCustomerService(service.CustomerDependencies{
				CustomerRepo: backend.Store.Customers,
				LogRepo:      backend.Store.Logs,
				UserRepo:     backend.Store.Users,
				Logger:       app.logger,
			})
			operator := &domain.Actor{ID: "crmctl", Name: "crmctl", Role: domain.RoleAdmin}
			f, filename, err := customers.Export(cmd.Context(), operator, crm.RawFilter{
				CustomerStatus: status,
				SearchTerm:     search,
			})
			if err != nil {
				return err
			}
			defer f.Close()

			if out == "" {
				out = filename
			}
			if err := f.SaveAs(out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (defaults to a timestamped name)")
	cmd.Flags().StringVar(&status, "status", "", "only customers with this status")
	cmd.Flags().StringVar(&search, "search", "", "only customers matching this term")
	return cmd
}
