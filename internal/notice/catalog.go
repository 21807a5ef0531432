package notice

import (
	"fmt"
	"strings"
)

// Key identifies a localized text.
type Key string

const (
	TitleSuccess   Key = "title.success"
	TitleError     Key = "title.error"
	TitleForbidden Key = "title.forbidden"
	TitleConfirmed Key = "title.confirmed"
	TitleCancelled Key = "title.cancelled"

	RoleStudent Key = "role.student"
	RoleTeacher Key = "role.teacher"

	ScanRecorded     Key = "scan.recorded"
	ScanInvalid      Key = "scan.invalid_format"
	ScanNoIdentity   Key = "scan.missing_identity"
	ScanNotEnrolled  Key = "scan.not_enrolled"
	ScanSendFailed   Key = "scan.send_failed"
	SameDayLock      Key = "confirm.same_day_lock"
	GenericFailure   Key = "generic.failure"
	ScheduleLoadFail Key = "schedule.load_failed"
	SessionsLoadFail Key = "sessions.load_failed"
	RosterLoadFail   Key = "roster.load_failed"
	LoginRequired    Key = "login.credentials_required"
	LoginFailed      Key = "login.failed"
	NotSignedIn      Key = "session.not_signed_in"
)

var catalogs = map[string]map[Key]string{
	"sr": {
		TitleSuccess:     "Uspeh",
		TitleError:       "Greška",
		TitleForbidden:   "Zabrana",
		TitleConfirmed:   "Potvrđeno",
		TitleCancelled:   "Otkazano",
		RoleStudent:      "Učenik",
		RoleTeacher:      "Profesor",
		ScanRecorded:     "%s %s zabeležen.",
		ScanInvalid:      "QR kod nije u ispravnom formatu.",
		ScanNoIdentity:   "QR kod ne sadrži ID učenika ni profesora.",
		ScanNotEnrolled:  "Učenik nije prijavljen za ovaj čas.",
		ScanSendFailed:   "Neuspeh prilikom slanja.",
		SameDayLock:      "Čas koji je zakazan za danas ne može se otkazati.",
		GenericFailure:   "Došlo je do greške.",
		ScheduleLoadFail: "Neuspešno učitavanje termina.",
		SessionsLoadFail: "Ne mogu da učitam termine.",
		RosterLoadFail:   "Ne mogu da učitam učenike.",
		LoginRequired:    "Email i lozinka su obavezni.",
		LoginFailed:      "Došlo je do greške u prijavi.",
		NotSignedIn:      "Niste prijavljeni.",
	},
	"en": {
		TitleSuccess:     "Success",
		TitleError:       "Error",
		TitleForbidden:   "Not allowed",
		TitleConfirmed:   "Confirmed",
		TitleCancelled:   "Cancelled",
		RoleStudent:      "Student",
		RoleTeacher:      "Teacher",
		ScanRecorded:     "%s %s checked in.",
		ScanInvalid:      "The QR code is not in a valid format.",
		ScanNoIdentity:   "The QR code carries no student or teacher id.",
		ScanNotEnrolled:  "The student is not enrolled in this session.",
		ScanSendFailed:   "Sending failed.",
		SameDayLock:      "A session scheduled for today cannot be cancelled.",
		GenericFailure:   "Something went wrong.",
		ScheduleLoadFail: "Could not load your sessions.",
		SessionsLoadFail: "Could not load sessions.",
		RosterLoadFail:   "Could not load students.",
		LoginRequired:    "Email and password are required.",
		LoginFailed:      "Sign-in failed.",
		NotSignedIn:      "You are not signed in.",
	},
}

// DefaultLocale is the school's language.
const DefaultLocale = "sr"

// Catalog resolves keys for one locale, falling back to DefaultLocale.
type Catalog struct {
	locale string
}

// NewCatalog returns a catalog for locale ("sr", "en", "en-US", ...).
func NewCatalog(locale string) *Catalog {
	locale = strings.ToLower(locale)
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	if _, ok := catalogs[locale]; !ok {
		locale = DefaultLocale
	}
	return &Catalog{locale: locale}
}

// Locale returns the resolved locale.
func (c *Catalog) Locale() string { return c.locale }

// Text renders key with optional fmt arguments.
func (c *Catalog) Text(key Key, args ...interface{}) string {
	msg, ok := catalogs[c.locale][key]
	if !ok {
		msg, ok = catalogs[DefaultLocale][key]
	}
	if !ok {
		return string(key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
