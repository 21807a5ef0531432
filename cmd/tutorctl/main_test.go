package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/qr"
	"github.com/noah-isme/tutorhub/internal/repository"
	"github.com/noah-isme/tutorhub/internal/sandbox"
	"github.com/noah-isme/tutorhub/internal/server"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
	"github.com/noah-isme/tutorhub/pkg/config"
)

type cli struct {
	cfg *config.Config
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	store := repository.NewMemoryStore()
	require.NoError(t, repository.SeedDemo(store, time.Now().UTC()))
	srv := httptest.NewServer(server.New(store, server.Options{
		Auth:     sandbox.AuthConfig{Secret: "cli-secret"},
		Location: time.UTC,
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	return &cli{cfg: &config.Config{
		Env:      config.EnvDevelopment,
		Locale:   "en",
		Timezone: "UTC",
		Log:      config.LogConfig{Level: "error", Format: "console"},
		API:      config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second, UserAgent: "tutorctl-test"},
		Session:  config.SessionConfig{File: filepath.Join(dir, "session.json")},
		Scanner:  config.ScannerConfig{Cooldown: time.Minute},
		Schedule: config.ScheduleConfig{ReloadDelay: 10 * time.Millisecond},
		QR:       config.QRConfig{Size: 128, RecoveryLevel: "medium"},
		Export:   config.ExportConfig{Dir: filepath.Join(dir, "exports")},
	}}
}

func (c *cli) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(func() (*config.Config, error) { return c.cfg, nil }, streams{in: strings.NewReader(stdin), out: &out, errOut: &errOut})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestLoginWhoamiLogout(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run(t, "", "login", "-u", "mila", "-p", repository.DemoPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Mila Petrović (student)")
	assert.Contains(t, out, "First sign-in")

	out, _, err = c.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "mila <mila@tutorhub.local> student")
	assert.Contains(t, out, "profile #3 Mila Petrović")

	_, _, err = c.run(t, "", "logout")
	require.NoError(t, err)

	_, errOut, err := c.run(t, "", "whoami")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized.Code))
	assert.Contains(t, errOut, "not signed in")
}

func TestLoginWrongPassword(t *testing.T) {
	c := newCLI(t)

	_, errOut, err := c.run(t, "", "login", "-u", "mila", "-p", "nope")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials.Code))
	assert.NotEmpty(t, errOut)
}

func TestScheduleConfirmTomorrow(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run(t, "", "login", "-u", "mila", "-p", repository.DemoPassword)
	require.NoError(t, err)

	out, _, err := c.run(t, "", "schedule", "confirm", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "#9")
	assert.Contains(t, out, "confirmed")

	_, _, err = c.run(t, "", "schedule", "cancel", "42")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrSameDayLock.Code))
}

func TestScanFromStdin(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run(t, "", "login", "-u", "ana", "-p", repository.DemoPassword)
	require.NoError(t, err)

	payload, err := qr.Encode(models.IdentityToken{Kind: models.SubjectStudent, ID: 3, DisplayName: "Mila Petrović"})
	require.NoError(t, err)

	out, _, err := c.run(t, payload+"\n"+payload+"\n", "scan", "--session", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Mila Petrović")
	assert.Contains(t, out, "scans: 2, ignored: 1")

	out, _, err = c.run(t, "", "sessions", "roster", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "present")
}

func TestScanTeacherNotEnrolled(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run(t, "", "login", "-u", "admin", "-p", repository.DemoPassword)
	require.NoError(t, err)

	payload, err := qr.Encode(models.IdentityToken{Kind: models.SubjectTeacher, ID: 7})
	require.NoError(t, err)

	_, errOut, err := c.run(t, "", "scan", "--session", "42", "--payload", payload)
	require.NoError(t, err)
	assert.Contains(t, errOut, "not enrolled")
}

func TestQRAndExportFiles(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run(t, "", "login", "-u", "mila", "-p", repository.DemoPassword)
	require.NoError(t, err)

	_, _, err = c.run(t, "", "qr", "png")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(c.cfg.Export.Dir, "checkin-student-3.png"))
	assert.NoError(t, err)

	out, _, err := c.run(t, "", "attendance", "export", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 2 rows")
}

func TestSessionsListNeedsStaff(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run(t, "", "login", "-u", "boris", "-p", repository.DemoPassword)
	require.NoError(t, err)

	out, _, err := c.run(t, "", "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 sessions")
	assert.Contains(t, out, "Engleski jezik")
}
