package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/service"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Your upcoming and past sessions",
	}

	var courseType, date string
	list := &cobra.Command{
		Use:   "list",
		Short: "Show the schedule board",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			entries, err := a.scheduleService().Load(cmd.Context())
			if err != nil {
				return err
			}

			var days []service.ScheduleDay
			if date != "" {
				days = []service.ScheduleDay{{Date: models.DayOf(date), Entries: service.Day(entries, courseType, date)}}
			} else {
				days = service.Board(entries, courseType)
			}
			if types := service.CourseTypes(entries); len(types) > 0 {
				cmd.Printf("course types: %v\n", types)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, day := range days {
				fmt.Fprintf(w, "%s\n", day.Date)
				for _, e := range day.Entries {
					fmt.Fprintf(w, "  #%d\t%s-%s\t%s\t%s\t%s\t%s\n", e.SessionID, e.StartTime, e.EndTime, e.CourseName, e.TeacherName, e.Location, e.ConfirmationStatus)
				}
			}
			return w.Flush()
		},
	}
	list.Flags().StringVarP(&courseType, "type", "t", "", "Only this course type")
	list.Flags().StringVarP(&date, "date", "d", "", "Only this date (YYYY-MM-DD)")
	cmd.AddCommand(list)

	cmd.AddCommand(
		newConfirmationCmd("confirm", "Confirm you will attend a session", models.ConfirmationConfirmed),
		newConfirmationCmd("cancel", "Cancel a session (not possible on the same day)", models.ConfirmationCancelled),
	)
	return cmd
}

func newConfirmationCmd(use, short string, status models.ConfirmationStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <session-id>",
		Short: short,
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

			schedule := a.scheduleService()
			entries, err := schedule.Load(cmd.Context())
			if err != nil {
				return err
			}
			var sessionDate string
			for _, e := range entries {
				if e.SessionID == sessionID {
					sessionDate = e.Date
					break
				}
			}
			if sessionDate == "" {
				return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("session %d is not on your schedule", sessionID))
			}

			confirm := service.NewConfirmationService(a.api, a.state, schedule, a.clock, a.notifier, a.catalog, a.validator, a.logger, a.metrics,
				service.ConfirmationConfig{ReloadDelay: a.cfg.Schedule.ReloadDelay, Location: a.cfg.Location()})
			outcome, err := confirm.ChangeStatus(cmd.Context(), sessionID, status, sessionDate)
			if err != nil {
				return err
			}

			select {
			case <-outcome.Reloaded:
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
			for _, e := range schedule.Latest() {
				if e.SessionID == sessionID {
					cmd.Printf("#%d %s %s-%s %s\n", e.SessionID, e.Date, e.StartTime, e.EndTime, e.ConfirmationStatus)
				}
			}
			return nil
		},
	}
}
