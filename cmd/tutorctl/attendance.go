package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/service"
	"github.com/noah-isme/tutorhub/pkg/export"
	"github.com/noah-isme/tutorhub/pkg/storage"
)

func newAttendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Your attendance history",
	}

	var status string
	history := func(cmd *cobra.Command) (*app, service.History, error) {
		a := appFrom(cmd)
		if err := a.requireSession(cmd.Context()); err != nil {
			return nil, service.History{}, err
		}
		entries, err := a.scheduleService().Load(cmd.Context())
		if err != nil {
			return nil, service.History{}, err
		}
		return a, service.BuildHistory(entries, models.AttendanceStatus(status)), nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List attended and missed sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, h, err := history(cmd)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range h.Entries {
				fmt.Fprintf(w, "%s\t%s-%s\t%s\t%s\t%s\n", e.Date, e.StartTime, e.EndTime, e.CourseName, e.TeacherName, e.Status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			cmd.Printf("total %d, present %d, absent %d\n", h.Summary.Total, h.Summary.Present, h.Summary.Absent)
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "Only present or absent")
	cmd.AddCommand(list)

	var format string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the history to a CSV or PDF file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, h, err := history(cmd)
			if err != nil {
				return err
			}
			store, err := storage.NewLocalStorage(a.cfg.Export.Dir)
			if err != nil {
				return err
			}
			owner := ""
			if profile, ok := a.state.Profile(); ok {
				owner = profile.FullName
			}
			svc := service.NewExportService(store, export.NewCSVExporter(), export.NewPDFExporter(), a.clock, a.logger)
			result, err := svc.ExportHistory(cmd.Context(), h, service.ExportFormat(format), owner)
			if err != nil {
				return err
			}
			cmd.Printf("Saved %d rows to %s\n", result.Rows, result.Path)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&status, "status", "", "Only present or absent")
	exportCmd.Flags().StringVarP(&format, "format", "f", string(service.ExportCSV), "csv or pdf")
	cmd.AddCommand(exportCmd)

	return cmd
}
