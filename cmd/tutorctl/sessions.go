package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/tutorhub/internal/service"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Browse class sessions (teachers and admins)",
	}

	var filter service.SessionFilter
	list := &cobra.Command{
		Use:   "list",
		Short: "List the sessions on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			result, err := a.sessionService().List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			cmd.Printf("%s: %d sessions\n", result.Date, len(result.Sessions))
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range result.Sessions {
				course, teacher := "", ""
				if s.Course != nil {
					course = s.Course.Name
				}
				if s.Teacher != nil {
					teacher = s.Teacher.FullName
				}
				fmt.Fprintf(w, "#%d\t%s-%s\t%s\t%s\t%s\n", s.ID, s.StartTime, s.EndTime, course, teacher, s.Location)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if len(result.Locations) > 0 {
				cmd.Printf("locations: %v\n", result.Locations)
			}
			return nil
		},
	}
	list.Flags().StringVarP(&filter.Date, "date", "d", "", "Date (YYYY-MM-DD), today by default")
	list.Flags().StringVarP(&filter.Location, "location", "l", "", "Only this location")
	list.Flags().Int64Var(&filter.TeacherID, "teacher", 0, "Only this teacher id")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "roster <session-id>",
		Short: "List the students of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			sessionID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return appErrors.Clone(appErrors.ErrValidation, "session id must be a number")
			}
			roster, err := a.sessionService().Roster(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range roster {
				fmt.Fprintf(w, "#%d\t%s\t%s\t%s\n", r.StudentID, r.FullName, r.ConfirmationStatus, r.Status)
			}
			return w.Flush()
		},
	})
	return cmd
}
