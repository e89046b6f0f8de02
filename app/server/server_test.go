package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smugflex-sys/Final-sub000/app/cache"
	"github.com/smugflex-sys/Final-sub000/app/config"
	"github.com/smugflex-sys/Final-sub000/app/database"
	"github.com/smugflex-sys/Final-sub000/app/models"
	"github.com/smugflex-sys/Final-sub000/app/routes/common"
	"github.com/smugflex-sys/Final-sub000/app/services"
)

const (
	password = "password123"
	session  = "2024/2025"
)

var now = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

type testServer struct {
	t     *testing.T
	app   *fiber.App
	store *database.Store
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithCache(t, cache.Noop{})
}

func newTestServerWithCache(t *testing.T, c cache.Cache) *testServer {
	store := database.NewMemoryStore()
	d := &common.Deps{
		Store: store,
		Cache: c,
		Config: &config.Config{
			Env:             "TEST",
			JWTSecret:       "test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
			BcryptCost:      bcrypt.MinCost,
			CA1Max:          20,
			CA2Max:          20,
			ExamMax:         60,
			CORSOrigins:     "*",
		},
		Log: zap.NewNop(),
		Now: func() time.Time { return now },
	}
	return &testServer{t: t, app: New(d), store: store}
}

func (s *testServer) user(email string, role models.Role) models.User {
	u := models.User{Email: email, FirstName: "Test", LastName: string(role), Role: role}
	require.NoError(s.t, database.CreateUser(context.Background(), s.store, &u, password, bcrypt.MinCost))
	return u
}

func (s *testServer) login(email string) string {
	code, body := s.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, code, body)
	return body["data"].(map[string]interface{})["token"].(string)
}

func (s *testServer) send(req *http.Request, token string) (int, []byte) {
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp.StatusCode, raw
}

func (s *testServer) do(method, path, token string, payload interface{}) (int, map[string]interface{}) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(s.t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	code, raw := s.send(req, token)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &out), string(raw))
	}
	return code, out
}

func (s *testServer) class(name string) models.Class {
	c := models.Class{Name: name, Level: "JSS", Capacity: 40, Status: models.StatusActive}
	require.NoError(s.t, s.store.Classes.Create(context.Background(), &c))
	return c
}

func (s *testServer) student(admission string, classID int64, parentID *int64) models.Student {
	st := models.Student{
		AdmissionNo: admission,
		FirstName:   "Student",
		LastName:    admission,
		Gender:      models.Female,
		ClassID:     &classID,
		ParentID:    parentID,
		Status:      models.StatusActive,
	}
	require.NoError(s.t, s.store.Students.Create(context.Background(), &st))
	return st
}

func termQuery() string {
	q := url.Values{}
	q.Set("term", string(models.FirstTerm))
	q.Set("session", session)
	return q.Encode()
}

func data(body map[string]interface{}) map[string]interface{} {
	return body["data"].(map[string]interface{})
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, body = s.do(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
}

func TestLoginAndRefresh(t *testing.T) {
	s := newTestServer(t)
	s.user("admin@school.test", models.RoleAdmin)

	code, body := s.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "admin@school.test", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", body["error"])

	code, body = s.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "nobody@school.test", "password": password})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = s.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["fields"], "email")

	code, body = s.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "Admin@School.test", "password": password})
	require.Equal(t, http.StatusOK, code, body)
	pair := data(body)
	token := pair["token"].(string)
	refresh := pair["refresh_token"].(string)
	assert.Equal(t, "admin", pair["user"].(map[string]interface{})["role"])
	assert.NotContains(t, pair["user"], "password")

	code, body = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "admin@school.test", data(body)["email"])

	code, _ = s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(http.MethodGet, "/api/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = s.do(http.MethodPost, "/api/auth/refresh", "", fiber.Map{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, code, body)
	assert.NotEqual(t, refresh, data(body)["refresh_token"])

	// refresh tokens are single use
	code, _ = s.do(http.MethodPost, "/api/auth/refresh", "", fiber.Map{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLogoutBody(t *testing.T) {
	s := newTestServer(t)
	s.user("admin@school.test", models.RoleAdmin)

	code, body := s.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "admin@school.test", "password": password})
	require.Equal(t, http.StatusOK, code, body)
	token := data(body)["token"].(string)
	refresh := data(body)["refresh_token"].(string)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", bytes.NewReader([]byte(`{"refresh_token":`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	code, raw := s.send(req, token)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(raw), "Invalid request body")

	// the malformed logout left the refresh token usable
	code, body = s.do(http.MethodPost, "/api/auth/refresh", "", fiber.Map{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, code, body)
	refresh = data(body)["refresh_token"].(string)

	code, _ = s.do(http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPost, "/api/auth/logout", token, fiber.Map{"refresh_token": refresh})
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, "/api/auth/refresh", "", fiber.Map{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	s.user("teacher@school.test", models.RoleTeacher)
	token := s.login("teacher@school.test")

	code, _ := s.do(http.MethodPost, "/api/auth/change-password", token, fiber.Map{"current_password": "wrong-one", "new_password": "new-password-1"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/api/auth/change-password", token, fiber.Map{"current_password": password, "new_password": "short"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := s.do(http.MethodPost, "/api/auth/change-password", token, fiber.Map{"current_password": password, "new_password": "new-password-1"})
	require.Equal(t, http.StatusOK, code, body)

	code, _ = s.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "teacher@school.test", "password": password})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "teacher@school.test", "password": "new-password-1"})
	assert.Equal(t, http.StatusOK, code)
}

func TestRoleChecks(t *testing.T) {
	s := newTestServer(t)
	s.user("admin@school.test", models.RoleAdmin)
	s.user("teacher@school.test", models.RoleTeacher)
	s.user("bursar@school.test", models.RoleAccountant)
	parentUser := s.user("parent@school.test", models.RoleParent)

	parent := models.Parent{UserID: &parentUser.ID, FirstName: "Ada", LastName: "Obi", Phone: "08030000000"}
	require.NoError(t, s.store.Parents.Create(context.Background(), &parent))
	class := s.class("JSS 1A")
	own := s.student("ADM-001", class.ID, &parent.ID)
	other := s.student("ADM-002", class.ID, nil)

	teacher := s.login("teacher@school.test")
	bursar := s.login("bursar@school.test")
	parentToken := s.login("parent@school.test")

	code, _ := s.do(http.MethodGet, "/api/students", teacher, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, "/api/students", teacher, fiber.Map{"admission_no": "ADM-009"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodPost, "/api/results", bursar, fiber.Map{})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodGet, "/api/payments", teacher, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/students", parentToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodGet, "/api/fees/balance/"+id(own.ID)+"?"+termQuery(), parentToken, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/fees/balance/"+id(other.ID)+"?"+termQuery(), parentToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body := s.do(http.MethodGet, "/api/parents/me", parentToken, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, data(body)["children"], 1)
}

func TestScoresAndClassRanking(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.user("admin@school.test", models.RoleAdmin)
	teacherUser := s.user("teacher@school.test", models.RoleTeacher)
	s.user("other@school.test", models.RoleTeacher)
	parentUser := s.user("parent@school.test", models.RoleParent)

	parent := models.Parent{UserID: &parentUser.ID, FirstName: "Ada", LastName: "Obi", Phone: "08030000000"}
	require.NoError(t, s.store.Parents.Create(ctx, &parent))

	admin := s.login("admin@school.test")
	teacherToken := s.login("teacher@school.test")
	otherToken := s.login("other@school.test")
	parentToken := s.login("parent@school.test")

	code, body := s.do(http.MethodPost, "/api/teachers", admin, fiber.Map{
		"first_name": "Ada", "last_name": "Lovelace", "user_id": teacherUser.ID,
	})
	require.Equal(t, http.StatusCreated, code, body)
	teacherID := int64(data(body)["id"].(float64))
	assert.Equal(t, "TCH-ADALOV-001", data(body)["staff_no"])

	class := s.class("JSS 2A")
	code, body = s.do(http.MethodPost, "/api/subjects", admin, fiber.Map{"name": "Mathematics", "code": "mth"})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "MTH", data(body)["code"])
	subjectID := int64(data(body)["id"].(float64))

	assignment := fiber.Map{"subject_id": subjectID, "class_id": class.ID, "teacher_id": teacherID, "session": session}
	code, body = s.do(http.MethodPost, "/api/assignments", admin, assignment)
	require.Equal(t, http.StatusCreated, code, body)
	assignmentID := int64(data(body)["id"].(float64))
	code, _ = s.do(http.MethodPost, "/api/assignments", admin, assignment)
	assert.Equal(t, http.StatusConflict, code)

	students := []models.Student{
		s.student("ADM-001", class.ID, &parent.ID),
		s.student("ADM-002", class.ID, nil),
		s.student("ADM-003", class.ID, nil),
		s.student("ADM-004", class.ID, nil),
	}
	outsider := s.student("ADM-999", s.class("JSS 3A").ID, nil)

	code, body = s.do(http.MethodPost, "/api/results", teacherToken, fiber.Map{
		"assignment_id": assignmentID, "term": models.FirstTerm,
		"student_id": students[0].ID, "ca1": 18, "ca2": 17, "exam": 50,
	})
	require.Equal(t, http.StatusCreated, code, body)
	score := data(body)
	assert.Equal(t, 85.0, score["total"])
	assert.Equal(t, "A", score["grade"])
	assert.Equal(t, "Excellent", score["remark"])
	assert.Equal(t, session, score["session"])

	code, body = s.do(http.MethodPost, "/api/results", teacherToken, fiber.Map{
		"assignment_id": assignmentID, "term": models.FirstTerm,
		"student_id": students[1].ID, "ca1": 10, "ca2": 10, "exam": 61,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["fields"], "exam")

	code, _ = s.do(http.MethodPost, "/api/results", otherToken, fiber.Map{
		"assignment_id": assignmentID, "term": models.FirstTerm,
		"student_id": students[1].ID, "ca1": 10, "ca2": 10, "exam": 50,
	})
	assert.Equal(t, http.StatusForbidden, code)

	// a bad row rejects the whole batch
	code, _ = s.do(http.MethodPost, "/api/results/batch", teacherToken, fiber.Map{
		"assignment_id": assignmentID, "term": models.FirstTerm,
		"scores": []fiber.Map{
			{"student_id": students[1].ID, "ca1": 10, "ca2": 10, "exam": 50},
			{"student_id": outsider.ID, "ca1": 10, "ca2": 10, "exam": 50},
		},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	n, err := s.store.Scores.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	code, body = s.do(http.MethodPost, "/api/results/batch", teacherToken, fiber.Map{
		"assignment_id": assignmentID, "term": models.FirstTerm,
		"scores": []fiber.Map{
			{"student_id": students[1].ID, "ca1": 10, "ca2": 10, "exam": 50},
			{"student_id": students[2].ID, "ca1": 20, "ca2": 20, "exam": 30},
			{"student_id": students[3].ID, "ca1": 10, "ca2": 10, "exam": 20},
		},
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, 3.0, data(body)["count"])

	code, body = s.do(http.MethodPost, "/api/results/compile", teacherToken, fiber.Map{
		"class_id": class.ID, "term": models.FirstTerm, "session": session,
	})
	require.Equal(t, http.StatusOK, code, body)
	compiled := data(body)
	assert.Equal(t, 66.25, compiled["class_average"])
	ranked := compiled["students"].([]interface{})
	require.Len(t, ranked, 4)
	var positions []float64
	var ids []float64
	for _, r := range ranked {
		row := r.(map[string]interface{})
		positions = append(positions, row["position"].(float64))
		ids = append(ids, row["student_id"].(float64))
	}
	assert.Equal(t, []float64{1, 2, 2, 4}, positions)
	assert.Equal(t, []float64{float64(students[0].ID), float64(students[1].ID), float64(students[2].ID), float64(students[3].ID)}, ids)
	assert.Equal(t, "2nd", ranked[2].(map[string]interface{})["ordinal"])

	code, body = s.do(http.MethodGet, "/api/results/students/"+id(students[0].ID)+"?"+termQuery(), parentToken, nil)
	require.Equal(t, http.StatusOK, code, body)
	result := data(body)["result"].(map[string]interface{})
	assert.Equal(t, 1.0, result["position"])
	assert.Equal(t, "1st", result["ordinal"])
	assert.Equal(t, 4.0, data(body)["class_size"])

	code, _ = s.do(http.MethodGet, "/api/results/students/"+id(students[1].ID)+"?"+termQuery(), parentToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// scores block deleting the assignment
	code, _ = s.do(http.MethodDelete, "/api/assignments/"+id(assignmentID), admin, nil)
	assert.Equal(t, http.StatusConflict, code)

	req := httptest.NewRequest(http.MethodGet, "/api/reports/classes/"+id(class.ID)+"/broadsheet?"+termQuery()+"&format=xlsx", nil)
	code, raw := s.send(req, admin)
	require.Equal(t, http.StatusOK, code, string(raw))
	rows, err := services.ReadSheet(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "1st", rows[0]["position"])
	assert.Equal(t, "ADM-001", rows[0]["admission_no"])
}

func TestFeesAndPayments(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.user("admin@school.test", models.RoleAdmin)
	s.user("bursar@school.test", models.RoleAccountant)
	admin := s.login("admin@school.test")
	bursar := s.login("bursar@school.test")

	class := s.class("SS 1A")
	student := s.student("ADM-100", class.ID, nil)

	for _, fee := range []fiber.Map{
		{"name": "Tuition", "class_id": class.ID, "term": models.FirstTerm, "session": session, "amount": 150000},
		{"name": "Development levy", "class_id": class.ID, "term": models.FirstTerm, "session": session, "amount": 50000},
	} {
		code, body := s.do(http.MethodPost, "/api/fees", admin, fee)
		require.Equal(t, http.StatusCreated, code, body)
	}
	code, _ := s.do(http.MethodPost, "/api/fees", bursar, fiber.Map{})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodPost, "/api/fees", admin, fiber.Map{
		"name": "Bad", "class_id": class.ID, "term": models.FirstTerm, "session": "2024/2026", "amount": 10,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	pay := func(amount float64, method models.PaymentMethod) (int, map[string]interface{}) {
		return s.do(http.MethodPost, "/api/payments", bursar, fiber.Map{
			"student_id": student.ID, "amount": amount, "method": method,
			"term": models.FirstTerm, "session": session,
		})
	}

	code, body := pay(120000, models.MethodCash)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Verified", data(body)["payment"].(map[string]interface{})["status"])
	balance := data(body)["balance"].(map[string]interface{})
	assert.Equal(t, 200000.0, balance["required"])
	assert.Equal(t, 80000.0, balance["balance"])
	assert.Equal(t, services.BalancePartial, balance["status"])
	cashID := int64(data(body)["payment"].(map[string]interface{})["id"].(float64))

	code, body = pay(30000, models.MethodBankTransfer)
	require.Equal(t, http.StatusCreated, code, body)
	transfer := data(body)["payment"].(map[string]interface{})
	assert.Equal(t, "Pending", transfer["status"])
	assert.Contains(t, transfer["reference"], "PAY-")
	balance = data(body)["balance"].(map[string]interface{})
	assert.Equal(t, 80000.0, balance["balance"])
	assert.Equal(t, 30000.0, balance["pending"])
	transferID := id(int64(transfer["id"].(float64)))

	code, body = s.do(http.MethodPost, "/api/payments/"+transferID+"/verify", bursar, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, 50000.0, data(body)["balance"].(map[string]interface{})["balance"])

	code, _ = s.do(http.MethodPost, "/api/payments/"+transferID+"/verify", bursar, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = pay(60000, models.MethodPOS)
	assert.Equal(t, http.StatusConflict, code)
	code, _ = pay(0, models.MethodPOS)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodDelete, "/api/payments/"+id(cashID), bursar, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, body = s.do(http.MethodGet, "/api/fees/balance/"+id(student.ID)+"?"+termQuery(), bursar, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, 150000.0, data(body)["balance"].(map[string]interface{})["paid"])
	assert.Len(t, data(body)["payments"], 2)

	code, body = s.do(http.MethodGet, "/api/reports/fees?"+termQuery(), bursar, nil)
	require.Equal(t, http.StatusOK, code, body)
	total := data(body)["total"].(map[string]interface{})
	assert.Equal(t, 200000.0, total["required"])
	assert.Equal(t, 150000.0, total["paid"])
	assert.Equal(t, 75.0, total["collection_rate"])

	// students with payments cannot be deleted
	code, _ = s.do(http.MethodDelete, "/api/students/"+id(student.ID), admin, nil)
	assert.Equal(t, http.StatusConflict, code)

	n, err := s.store.Payments.Count(ctx, database.Filter{"status": models.PaymentVerified})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDeleteRefusedWhileInUse(t *testing.T) {
	s := newTestServer(t)
	s.user("admin@school.test", models.RoleAdmin)
	admin := s.login("admin@school.test")

	code, body := s.do(http.MethodPost, "/api/departments", admin, fiber.Map{"name": "Sciences", "code": "SCI"})
	require.Equal(t, http.StatusCreated, code, body)
	deptID := int64(data(body)["id"].(float64))

	code, body = s.do(http.MethodPost, "/api/teachers", admin, fiber.Map{
		"first_name": "Grace", "last_name": "Hopper", "department_id": deptID,
	})
	require.Equal(t, http.StatusCreated, code, body)

	code, _ = s.do(http.MethodDelete, "/api/departments/"+id(deptID), admin, nil)
	assert.Equal(t, http.StatusConflict, code)

	class := s.class("JSS 1B")
	s.student("ADM-200", class.ID, nil)
	code, _ = s.do(http.MethodDelete, "/api/classes/"+id(class.ID), admin, nil)
	assert.Equal(t, http.StatusConflict, code)

	empty := s.class("JSS 1C")
	code, _ = s.do(http.MethodDelete, "/api/classes/"+id(empty.ID), admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/classes/"+id(empty.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRejectedUpdateLeavesRowUnchanged(t *testing.T) {
	s := newTestServer(t)
	s.user("admin@school.test", models.RoleAdmin)
	admin := s.login("admin@school.test")
	class := s.class("JSS 2A")
	st := s.student("ADM-300", class.ID, nil)

	code, _ := s.do(http.MethodPut, "/api/students/"+id(st.ID), admin, fiber.Map{"class_id": 999, "first_name": "Changed"})
	assert.Equal(t, http.StatusBadRequest, code)

	stored, err := s.store.Students.Get(context.Background(), st.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ClassID)
	assert.Equal(t, class.ID, *stored.ClassID)
	assert.Equal(t, "Student", stored.FirstName)

	code, body := s.do(http.MethodGet, "/api/students/"+id(st.ID), admin, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, float64(class.ID), data(body)["class_id"])
}

// recordingCache remembers the prefixes it was asked to invalidate.
type recordingCache struct {
	cache.Noop
	invalidated []string
}

func (r *recordingCache) Invalidate(_ context.Context, prefix string) error {
	r.invalidated = append(r.invalidated, prefix)
	return nil
}

func (r *recordingCache) reset() { r.invalidated = nil }

func TestResultsCacheInvalidatedOnRosterChanges(t *testing.T) {
	rec := &recordingCache{}
	s := newTestServerWithCache(t, rec)
	s.user("admin@school.test", models.RoleAdmin)
	admin := s.login("admin@school.test")
	from := s.class("JSS 3A")
	to := s.class("JSS 3B")
	st := s.student("ADM-400", from.ID, nil)
	prefix := func(classID int64) string { return "results:class:" + id(classID) + ":" }

	code, body := s.do(http.MethodPut, "/api/students/"+id(st.ID), admin, fiber.Map{"class_id": to.ID})
	require.Equal(t, http.StatusOK, code, body)
	assert.ElementsMatch(t, []string{prefix(to.ID), prefix(from.ID)}, rec.invalidated)

	rec.reset()
	code, body = s.do(http.MethodPost, "/api/subjects", admin, fiber.Map{"name": "Mathematics", "code": "mth"})
	require.Equal(t, http.StatusCreated, code, body)
	subjectID := int64(data(body)["id"].(float64))
	assert.Empty(t, rec.invalidated)

	code, body = s.do(http.MethodPost, "/api/assignments", admin, fiber.Map{"subject_id": subjectID, "class_id": to.ID, "session": session})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, []string{prefix(to.ID)}, rec.invalidated)

	rec.reset()
	code, body = s.do(http.MethodPut, "/api/subjects/"+id(subjectID), admin, fiber.Map{"name": "Further Mathematics"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, []string{prefix(to.ID)}, rec.invalidated)

	rec.reset()
	code, _ = s.do(http.MethodDelete, "/api/students/"+id(st.ID), admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{prefix(to.ID)}, rec.invalidated)
}

func TestNotifications(t *testing.T) {
	s := newTestServer(t)
	s.user("admin@school.test", models.RoleAdmin)
	s.user("teacher@school.test", models.RoleTeacher)
	s.user("bursar@school.test", models.RoleAccountant)
	admin := s.login("admin@school.test")
	teacher := s.login("teacher@school.test")
	bursar := s.login("bursar@school.test")

	code, body := s.do(http.MethodPost, "/api/notifications/broadcast", admin, fiber.Map{
		"audience": models.AudienceTeachers, "title": "Staff meeting", "message": "Friday at 2pm",
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, 1.0, data(body)["recipients"])

	code, _ = s.do(http.MethodPost, "/api/notifications/broadcast", teacher, fiber.Map{
		"audience": models.AudienceAll, "title": "Hi", "message": "Hello",
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(http.MethodGet, "/api/notifications", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, body["unread_count"])
	list := body["data"].([]interface{})
	require.Len(t, list, 1)
	notificationID := id(int64(list[0].(map[string]interface{})["id"].(float64)))

	code, _ = s.do(http.MethodPatch, "/api/notifications/"+notificationID+"/read", bursar, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodPatch, "/api/notifications/"+notificationID+"/read", teacher, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = s.do(http.MethodGet, "/api/notifications?unread=true", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, body["unread_count"])
	assert.Empty(t, body["data"])
}

func TestPromoteStudents(t *testing.T) {
	s := newTestServer(t)
	s.user("admin@school.test", models.RoleAdmin)
	admin := s.login("admin@school.test")

	from := s.class("JSS 1A")
	to := s.class("JSS 2A")
	a := s.student("ADM-301", from.ID, nil)
	s.student("ADM-302", from.ID, nil)

	code, _ := s.do(http.MethodPost, "/api/students/promote", admin, fiber.Map{"from_class_id": from.ID, "to_class_id": from.ID})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := s.do(http.MethodPost, "/api/students/promote", admin, fiber.Map{"from_class_id": from.ID, "to_class_id": to.ID})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, 2.0, data(body)["count"])

	moved, err := s.store.Students.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, moved.InClass(to.ID))

	code, body = s.do(http.MethodPost, "/api/students/promote", admin, fiber.Map{"from_class_id": to.ID, "graduate": true})
	require.Equal(t, http.StatusOK, code, body)
	graduated, err := s.store.Students.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusGraduated, graduated.Status)
	assert.Nil(t, graduated.ClassID)
}

func TestImportStudents(t *testing.T) {
	s := newTestServer(t)
	s.user("admin@school.test", models.RoleAdmin)
	admin := s.login("admin@school.test")
	s.class("JSS 1A")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Admission No", "First Name", "Last Name", "Gender", "Date of Birth", "Class"},
		{"ADM-401", "Chidi", "Okeke", "male", "2012-03-04", "JSS 1A"},
		{"ADM-402", "Amaka", "Eze", "Female", "", "jss 1a"},
		{"ADM-403", "Tunde", "Bello", "unknown", "", ""},
		{"ADM-404", "Bisi", "Ade", "Female", "", "JSS 9Z"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	workbook, err := f.WriteToBuffer()
	require.NoError(t, err)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "students.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/students/import", &form)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	code, raw := s.send(req, admin)
	require.Equal(t, http.StatusOK, code, string(raw))

	var body struct {
		Data struct {
			Imported int `json:"imported"`
			Errors   []struct {
				Row int `json:"row"`
			} `json:"errors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 2, body.Data.Imported)
	require.Len(t, body.Data.Errors, 2)
	assert.Equal(t, 4, body.Data.Errors[0].Row)
	assert.Equal(t, 5, body.Data.Errors[1].Row)

	code, listBody := s.do(http.MethodGet, "/api/students?search=okeke", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, listBody["total"])
}

func TestDashboardStats(t *testing.T) {
	s := newTestServer(t)
	s.user("admin@school.test", models.RoleAdmin)
	admin := s.login("admin@school.test")
	class := s.class("JSS 1A")
	s.student("ADM-501", class.ID, nil)

	code, body := s.do(http.MethodGet, "/api/reports/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, code, body)
	stats := data(body)
	assert.Equal(t, 1.0, stats["total_students"])
	assert.Equal(t, 1.0, stats["total_classes"])
	assert.Equal(t, 0.0, stats["pending_payments"])
}

func TestAttendanceRegister(t *testing.T) {
	s := newTestServer(t)
	s.user("admin@school.test", models.RoleAdmin)
	s.user("teacher@school.test", models.RoleTeacher)
	admin := s.login("admin@school.test")
	teacher := s.login("teacher@school.test")

	class := s.class("JSS 1A")
	a := s.student("ADM-601", class.ID, nil)
	b := s.student("ADM-602", class.ID, nil)

	register := func(date string, status models.AttendanceStatus) (int, map[string]interface{}) {
		return s.do(http.MethodPost, "/api/attendance", teacher, fiber.Map{
			"class_id": class.ID, "date": date, "term": models.FirstTerm, "session": session,
			"records": []fiber.Map{
				{"student_id": a.ID, "status": models.Present},
				{"student_id": b.ID, "status": status},
			},
		})
	}

	code, _ := register("2025-01-16", models.Absent)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := register("2025-01-14", models.Absent)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, 2.0, data(body)["count"])

	// marking the same day again overwrites
	code, _ = register("2025-01-14", models.Late)
	require.Equal(t, http.StatusOK, code)
	code, _ = register("2025-01-15", models.Absent)
	require.Equal(t, http.StatusOK, code)

	n, err := s.store.Attendance.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	code, body = s.do(http.MethodGet, "/api/attendance/students/"+id(b.ID)+"/summary?"+termQuery(), admin, nil)
	require.Equal(t, http.StatusOK, code, body)
	summary := data(body)
	assert.Equal(t, 2.0, summary["days"])
	assert.Equal(t, 1.0, summary["late"])
	assert.Equal(t, 50.0, summary["rate"])

	code, body = s.do(http.MethodGet, "/api/reports/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, 50.0, data(body)["attendance_today"])
}
