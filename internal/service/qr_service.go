package service

import (
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/qr"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
	"github.com/noah-isme/tutorhub/pkg/export"
)

const defaultQRSize = 250

type identitySource interface {
	Identity() (models.IdentityToken, error)
}

type badgeRenderer interface {
	RenderBadge(b export.Badge) ([]byte, error)
}

// QRConfig controls identity code rendering.
type QRConfig struct {
	Size          int
	RecoveryLevel string
}

// QRService builds the signed-in user's check-in code and renders it.
type QRService struct {
	identity identitySource
	badges   badgeRenderer
	size     int
	level    qrcode.RecoveryLevel
	logger   *zap.Logger
}

// NewQRService constructs a QRService.
func NewQRService(identity identitySource, badges badgeRenderer, cfg QRConfig, logger *zap.Logger) *QRService {
	if badges == nil {
		badges = export.NewPDFExporter()
	}
	if cfg.Size <= 0 {
		cfg.Size = defaultQRSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QRService{
		identity: identity,
		badges:   badges,
		size:     cfg.Size,
		level:    ParseRecoveryLevel(cfg.RecoveryLevel),
		logger:   logger,
	}
}

// ParseRecoveryLevel maps a config value to a QR error correction level.
// Unknown values fall back to medium.
func ParseRecoveryLevel(raw string) qrcode.RecoveryLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low", "l":
		return qrcode.Low
	case "high", "q":
		return qrcode.High
	case "highest", "h":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// Payload returns the JSON text to encode for the current user. It is
// rebuilt on every call.
func (s *QRService) Payload() (string, models.IdentityToken, error) {
	token, err := s.identity.Identity()
	if err != nil {
		return "", models.IdentityToken{}, err
	}
	payload, err := qr.Encode(token)
	if err != nil {
		return "", models.IdentityToken{}, err
	}
	return payload, token, nil
}

// PNG renders payload as a square PNG image.
func (s *QRService) PNG(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, s.level, s.size)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render qr code")
	}
	return png, nil
}

// Terminal renders payload with half-block characters for a text console.
func (s *QRService) Terminal(payload string) (string, error) {
	code, err := qrcode.New(payload, s.level)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render qr code")
	}
	return code.ToSmallString(false), nil
}

// Badge renders a printable PDF card with the code and the holder's name.
func (s *QRService) Badge(payload string, token models.IdentityToken) ([]byte, error) {
	png, err := s.PNG(payload)
	if err != nil {
		return nil, err
	}
	heading := "Student"
	if token.Kind == models.SubjectTeacher {
		heading = "Teacher"
	}
	pdf, err := s.badges.RenderBadge(export.Badge{
		Heading: heading,
		Name:    token.DisplayName,
		Caption: "ID " + strconv.FormatInt(token.ID, 10),
		QRCode:  png,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render badge")
	}
	s.logger.Debug("badge rendered", zap.String("kind", string(token.Kind)), zap.Int64("id", token.ID))
	return pdf, nil
}
