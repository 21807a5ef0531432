package main

import (
	"bufio"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/service"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

func newScanCmd() *cobra.Command {
	var sessionID int64
	var payload string
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Record check-ins for a class session",
		Long: `Reads one scanned code per line from stdin, or a single code from --payload,
and marks the student or teacher present in the session. Codes read while a
previous one is being sent, or during the cooldown after it, are ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if user, _ := a.state.User(); user.Role == models.RoleStudent {
				return appErrors.Clone(appErrors.ErrForbidden, "only teachers and admins can scan")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			scanner := service.NewScanner(a.api, a.clock, a.notifier, a.catalog, a.validator, a.logger, a.metrics, service.ScannerConfig{
				SessionID: sessionID,
				Cooldown:  a.cfg.Scanner.Cooldown,
			})
			defer scanner.Close()

			if payload != "" {
				scanner.HandleScan(ctx, payload)
				return nil
			}

			lines := bufio.NewScanner(cmd.InOrStdin())
			for lines.Scan() {
				if ctx.Err() != nil {
					break
				}
				raw := strings.TrimSpace(lines.Text())
				if raw == "" {
					continue
				}
				scanner.HandleScan(ctx, raw)
			}
			snapshot := a.metrics.Snapshot()
			cmd.Printf("scans: %d, ignored: %d\n", snapshot.ScansTotal, snapshot.ScansDropped)
			return lines.Err()
		},
	}
	cmd.Flags().Int64VarP(&sessionID, "session", "s", 0, "Class session id")
	cmd.Flags().StringVar(&payload, "payload", "", "Scan a single code instead of reading stdin")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}
