package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutorhub/internal/apiclient"
	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/notice"
	"github.com/noah-isme/tutorhub/internal/tokenstore"
	"github.com/noah-isme/tutorhub/pkg/clock"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

type authAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Student(ctx context.Context, id int64) (*models.Profile, error)
	Teacher(ctx context.Context, id int64) (*models.Profile, error)
}

type sessionPersistence interface {
	Load(ctx context.Context) (*tokenstore.Session, error)
	Save(ctx context.Context, session *tokenstore.Session) error
	Clear(ctx context.Context) error
}

type signInState interface {
	SignIn(user models.User, profile *models.Profile)
	SignOut()
}

// LoginResult is what a successful sign-in produced.
type LoginResult struct {
	User       models.User
	Profile    *models.Profile
	FirstLogin bool
}

// AuthService signs users in against the backend and keeps the session.
type AuthService struct {
	api       authAPI
	store     sessionPersistence
	state     signInState
	clock     clock.Clock
	notifier  notice.Notifier
	catalog   *notice.Catalog
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(api authAPI, store sessionPersistence, state signInState, clk clock.Clock, notifier notice.Notifier, catalog *notice.Catalog, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if clk == nil {
		clk = clock.New()
	}
	if notifier == nil {
		notifier = notice.Discard
	}
	if catalog == nil {
		catalog = notice.NewCatalog(notice.DefaultLocale)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{api: api, store: store, state: state, clock: clk, notifier: notifier, catalog: catalog, validator: validate, logger: logger}
}

// Login authenticates, persists the token and loads the role profile.
func (s *AuthService) Login(ctx context.Context, nameOrEmail, password string) (*LoginResult, error) {
	req := models.LoginRequest{NameOrEmail: strings.TrimSpace(nameOrEmail), Password: password}
	if err := s.validator.Struct(req); err != nil {
		s.notifyError(s.catalog.Text(notice.LoginRequired))
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		s.notifyError(remoteMessage(err, s.catalog.Text(notice.LoginFailed)))
		if apiclient.StatusCode(err) == http.StatusUnauthorized {
			return nil, &appErrors.Error{Code: appErrors.ErrInvalidCredentials.Code, Status: appErrors.ErrInvalidCredentials.Status, Message: appErrors.ErrInvalidCredentials.Message, Err: err}
		}
		return nil, err
	}
	if resp.Token == "" {
		s.notifyError(s.catalog.Text(notice.LoginFailed))
		return nil, appErrors.Clone(appErrors.ErrRemote, "login response carried no token")
	}

	session := &tokenstore.Session{Token: resp.Token, User: &resp.User, SavedAt: s.clock.Now().UTC()}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	profile, err := s.loadProfile(ctx, resp.User)
	if err != nil {
		s.logger.Warn("failed to load profile", zap.Int64("user_id", resp.User.ID), zap.Error(err))
	} else if profile != nil {
		session.Profile = profile
		if err := s.store.Save(ctx, session); err != nil {
			s.logger.Warn("failed to persist profile", zap.Error(err))
		}
	}

	s.state.SignIn(resp.User, profile)
	s.logger.Info("signed in", zap.Int64("user_id", resp.User.ID), zap.String("role", string(resp.User.Role)))
	return &LoginResult{User: resp.User, Profile: profile, FirstLogin: resp.FirstLogin}, nil
}

// Restore signs in from the persisted session, if any.
func (s *AuthService) Restore(ctx context.Context) (bool, error) {
	session, err := s.store.Load(ctx)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read session")
	}
	if session == nil || session.Token == "" || session.User == nil {
		return false, nil
	}
	s.state.SignIn(*session.User, session.Profile)
	return true, nil
}

// Logout forgets the token and the signed-in user.
func (s *AuthService) Logout(ctx context.Context) error {
	s.state.SignOut()
	if err := s.store.Clear(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	return nil
}

func (s *AuthService) loadProfile(ctx context.Context, user models.User) (*models.Profile, error) {
	switch user.Role {
	case models.RoleStudent:
		if user.Student == nil || user.Student.ID == 0 {
			return nil, nil
		}
		return s.api.Student(ctx, user.Student.ID)
	case models.RoleTeacher:
		if user.Teacher == nil || user.Teacher.ID == 0 {
			return nil, nil
		}
		return s.api.Teacher(ctx, user.Teacher.ID)
	default:
		return nil, nil
	}
}

func (s *AuthService) notifyError(message string) {
	s.notifier.Notify(notice.Notice{Kind: notice.KindError, Title: s.catalog.Text(notice.TitleError), Message: message})
}
