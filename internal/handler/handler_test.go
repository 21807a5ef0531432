package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorhub/internal/middleware"
	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/service"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

type authServiceMock struct {
	resp    *models.LoginResponse
	err     error
	lastReq models.LoginRequest
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}

type attendanceServiceMock struct {
	changeResp   *models.StatusChangeResponse
	changeErr    error
	lastActor    *models.SessionClaims
	lastStudent  int64
	changeCalled bool
}

func (m *attendanceServiceMock) ChangeAttendanceStatus(ctx context.Context, req models.ChangeAttendanceStatusRequest) (*models.StatusChangeResponse, error) {
	m.changeCalled = true
	return m.changeResp, m.changeErr
}

func (m *attendanceServiceMock) ChangeConfirmationStatus(ctx context.Context, actor *models.SessionClaims, req models.ChangeConfirmationStatusRequest) (*models.StatusChangeResponse, error) {
	m.lastActor = actor
	return m.changeResp, m.changeErr
}

func (m *attendanceServiceMock) StudentAttendances(ctx context.Context, studentID int64) (*models.StudentAttendancesResponse, error) {
	m.lastStudent = studentID
	return &models.StudentAttendancesResponse{Attendances: []models.AttendanceRecord{}}, nil
}

func (m *attendanceServiceMock) Roster(ctx context.Context, sessionID int64) (*models.RosterResponse, error) {
	return &models.RosterResponse{Original: []models.RosterEntry{{StudentID: 3, FullName: "Mila"}}}, nil
}

type directoryServiceMock struct {
	profile *models.Profile
	err     error
	lastID  int64
}

func (m *directoryServiceMock) Student(ctx context.Context, id int64) (*models.Profile, error) {
	m.lastID = id
	return m.profile, m.err
}

func (m *directoryServiceMock) Teacher(ctx context.Context, id int64) (*models.Profile, error) {
	m.lastID = id
	return m.profile, m.err
}

func (m *directoryServiceMock) FilterSessions(ctx context.Context, req models.SessionFilterRequest) (*models.SessionFilterResponse, error) {
	var resp models.SessionFilterResponse
	resp.Original.Data = []models.ClassSession{{ID: 42, Date: req.Date}}
	return &resp, nil
}

func jsonContext(t *testing.T, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAuthHandlerLogin(t *testing.T) {
	mockSvc := &authServiceMock{resp: &models.LoginResponse{Token: "tok", User: models.User{ID: 2, Role: models.RoleStudent}, FirstLogin: true}}
	h := NewAuthHandler(mockSvc)

	c, w := jsonContext(t, http.MethodPost, "/login", gin.H{"nameOrEmail": "mila", "password": "demo1234"})
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mila", mockSvc.lastReq.NameOrEmail)
	var body models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "tok", body.Token)
	assert.True(t, body.FirstLogin)
}

func TestAuthHandlerLoginError(t *testing.T) {
	mockSvc := &authServiceMock{err: appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid name, email or password")}
	h := NewAuthHandler(mockSvc)

	c, w := jsonContext(t, http.MethodPost, "/login", gin.H{"nameOrEmail": "mila", "password": "x"})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid name, email or password", body["message"])
}

func TestAttendanceHandlerRejectsMalformedBody(t *testing.T) {
	mockSvc := &attendanceServiceMock{}
	h := NewAttendanceHandler(mockSvc)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/attendance/change-attendance-status", bytes.NewBufferString("{"))
	c.Request.Header.Set("Content-Type", "application/json")
	h.ChangeAttendanceStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.changeCalled)
}

func TestAttendanceHandlerNotFound(t *testing.T) {
	mockSvc := &attendanceServiceMock{changeErr: appErrors.Clone(appErrors.ErrNotFound, "Attendance not found")}
	h := NewAttendanceHandler(mockSvc)

	c, w := jsonContext(t, http.MethodPost, "/attendance/change-attendance-status", gin.H{"class_session_id": 42, "status": "present", "teacher_id": 7})
	h.ChangeAttendanceStatus(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Attendance not found")
}

func TestAttendanceHandlerPassesClaims(t *testing.T) {
	mockSvc := &attendanceServiceMock{changeResp: &models.StatusChangeResponse{Message: "ok"}}
	h := NewAttendanceHandler(mockSvc)
	claims := &models.SessionClaims{UserID: 2, Role: models.RoleStudent, ProfileID: 3}

	c, w := jsonContext(t, http.MethodPost, "/attendance/change-confirmation-status", gin.H{"class_session_id": 9, "student_id": 3, "status": "confirmed"})
	c.Set(middleware.ContextUserKey, claims)
	h.ChangeConfirmationStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Same(t, claims, mockSvc.lastActor)
	assert.JSONEq(t, `{"message":"ok"}`, w.Body.String())
}

func TestStudentAttendancesParsesID(t *testing.T) {
	mockSvc := &attendanceServiceMock{}
	h := NewAttendanceHandler(mockSvc)

	c, w := jsonContext(t, http.MethodGet, "/student/3/attendances", nil)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	h.StudentAttendances(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), mockSvc.lastStudent)

	c, w = jsonContext(t, http.MethodGet, "/student/abc/attendances", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	h.StudentAttendances(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRosterWrapsOriginal(t *testing.T) {
	h := NewAttendanceHandler(&attendanceServiceMock{})

	c, w := jsonContext(t, http.MethodGet, "/classSession/42/attendances", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	h.Roster(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body["original"], 1)
	assert.Equal(t, "Mila", body["original"][0]["full_name"])
}

func TestDirectoryHandler(t *testing.T) {
	mockSvc := &directoryServiceMock{profile: &models.Profile{ID: 7, FullName: "Ana"}}
	h := NewDirectoryHandler(mockSvc)

	c, w := jsonContext(t, http.MethodGet, "/teacher/7", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.Teacher(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), mockSvc.lastID)

	mockSvc.err = appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	c, w = jsonContext(t, http.MethodGet, "/teacher/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	h.Teacher(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = jsonContext(t, http.MethodPost, "/classSessions/filter", gin.H{"date": "2024-05-10"})
	h.FilterSessions(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"original":{"data":[`)
}

func TestHealthIncludesSnapshot(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService())

	c, w := jsonContext(t, http.MethodGet, "/health", nil)
	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"requests_total"`)

	c, _ = jsonContext(t, http.MethodGet, "/metrics", nil)
	NewMetricsHandler(nil).Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, c.Writer.Status())
}
