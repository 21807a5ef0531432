package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/service"
	"github.com/noah-isme/tutorhub/pkg/export"
	"github.com/noah-isme/tutorhub/pkg/storage"
)

func newQRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Show or save your check-in code",
	}

	qrService := func(cmd *cobra.Command) (*app, *service.QRService, error) {
		a := appFrom(cmd)
		if err := a.requireSession(cmd.Context()); err != nil {
			return nil, nil, err
		}
		svc := service.NewQRService(a.state, export.NewPDFExporter(), service.QRConfig{
			Size:          a.cfg.QR.Size,
			RecoveryLevel: a.cfg.QR.RecoveryLevel,
		}, a.logger)
		return a, svc, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the code in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := qrService(cmd)
			if err != nil {
				return err
			}
			payload, token, err := svc.Payload()
			if err != nil {
				return err
			}
			art, err := svc.Terminal(payload)
			if err != nil {
				return err
			}
			cmd.Print(art)
			cmd.Printf("%s #%d %s\n", token.Kind, token.ID, token.DisplayName)
			return nil
		},
	})

	var pngName string
	pngCmd := &cobra.Command{
		Use:   "png",
		Short: "Save the code as a PNG image",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, svc, err := qrService(cmd)
			if err != nil {
				return err
			}
			payload, token, err := svc.Payload()
			if err != nil {
				return err
			}
			data, err := svc.PNG(payload)
			if err != nil {
				return err
			}
			return save(cmd, a, defaultName(pngName, token.Kind, token.ID, "png"), data)
		},
	}
	pngCmd.Flags().StringVarP(&pngName, "out", "o", "", "File name inside the export directory")
	cmd.AddCommand(pngCmd)

	var badgeName string
	badgeCmd := &cobra.Command{
		Use:   "badge",
		Short: "Save a printable PDF badge",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, svc, err := qrService(cmd)
			if err != nil {
				return err
			}
			payload, token, err := svc.Payload()
			if err != nil {
				return err
			}
			data, err := svc.Badge(payload, token)
			if err != nil {
				return err
			}
			return save(cmd, a, defaultName(badgeName, token.Kind, token.ID, "pdf"), data)
		},
	}
	badgeCmd.Flags().StringVarP(&badgeName, "out", "o", "", "File name inside the export directory")
	cmd.AddCommand(badgeCmd)

	return cmd
}

func defaultName(name string, kind models.SubjectKind, id int64, ext string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("checkin-%s-%d.%s", kind, id, ext)
}

func save(cmd *cobra.Command, a *app, name string, data []byte) error {
	store, err := storage.NewLocalStorage(a.cfg.Export.Dir)
	if err != nil {
		return err
	}
	path, err := store.Save(name, data)
	if err != nil {
		return err
	}
	cmd.Printf("Saved %s\n", path)
	return nil
}
