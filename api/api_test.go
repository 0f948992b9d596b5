package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/studio-site-backend/database"
	"github.com/rpupo63/studio-site-backend/errs"
	"github.com/rpupo63/studio-site-backend/models"
	"github.com/rpupo63/studio-site-backend/services"
	"github.com/rpupo63/studio-site-backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret"

type fakeProjects struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Project
}

func (f *fakeProjects) List(ctx context.Context, filter database.ProjectFilter) ([]*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Project
	for _, p := range f.items {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjects) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, errs.NewNotFound("Project")
	}
	return p, nil
}

func (f *fakeProjects) Add(ctx context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	project.ID = uuid.New()
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	f.items[project.ID] = project
	return nil
}

func (f *fakeProjects) Update(ctx context.Context, id uuid.UUID, project *models.Project) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return nil, errs.NewNotFound("Project")
	}
	project.ID = id
	f.items[id] = project
	return project, nil
}

func (f *fakeProjects) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return errs.NewNotFound("Project")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProjects) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

type fakeTeam struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.TeamMember
}

func (f *fakeTeam) List(ctx context.Context, activeOnly bool) ([]*models.TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.TeamMember{}
	for _, m := range f.items {
		if activeOnly && !m.IsActive {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeTeam) FindByID(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[id]
	if !ok {
		return nil, errs.NewNotFound("Team member")
	}
	copied := *m
	return &copied, nil
}

func (f *fakeTeam) Add(ctx context.Context, member *models.TeamMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	member.ID = uuid.New()
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt
	copied := *member
	f.items[member.ID] = &copied
	return nil
}

func (f *fakeTeam) Update(ctx context.Context, id uuid.UUID, apply func(*models.TeamMember)) (*models.TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.items[id]
	if !ok {
		return nil, errs.NewNotFound("Team member")
	}
	apply(m)
	m.ID = id
	copied := *m
	return &copied, nil
}

func (f *fakeTeam) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return errs.NewNotFound("Team member")
	}
	delete(f.items, id)
	return nil
}

type fakeLeads struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Lead
}

func (f *fakeLeads) List(ctx context.Context, status models.LeadStatus) ([]*models.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Lead
	for _, l := range f.items {
		if status == "" || l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeads) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.items[id]
	if !ok {
		return nil, errs.NewNotFound("Lead")
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLeads) Add(ctx context.Context, lead *models.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lead.ID = uuid.New()
	lead.Status = models.LeadStatusNew
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt
	copied := *lead
	f.items[lead.ID] = &copied
	return nil
}

func (f *fakeLeads) UpdateStatus(ctx context.Context, id uuid.UUID, status models.LeadStatus) (*models.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.items[id]
	if !ok {
		return nil, errs.NewNotFound("Lead")
	}
	l.Status = status
	copied := *l
	return &copied, nil
}

func (f *fakeLeads) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return errs.NewNotFound("Lead")
	}
	delete(f.items, id)
	return nil
}

type fakeAnalytics struct {
	mu     sync.Mutex
	events []*models.Analytics
	err    error
}

func (f *fakeAnalytics) Add(ctx context.Context, event *models.Analytics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeSettings struct {
	current *models.CompanySettings
}

func (f *fakeSettings) Get(ctx context.Context) (*models.CompanySettings, error) {
	if f.current == nil {
		defaults := models.DefaultCompanySettings()
		f.current = &defaults
	}
	return f.current, nil
}

func (f *fakeSettings) Upsert(ctx context.Context, companyEmail string, companyName *string) (*models.CompanySettings, error) {
	settings, _ := f.Get(ctx)
	settings.CompanyEmail = companyEmail
	settings.CompanyName = companyName
	return settings, nil
}

type fakeObjects struct {
	mu      sync.Mutex
	uploads []storage.File
	deleted []string
}

func (f *fakeObjects) Upload(ctx context.Context, file storage.File, folder string) (*storage.Object, error) {
	if err := storage.Validate(file); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, file)
	p := folder + "/" + file.Name
	return &storage.Object{URL: "https://cdn.test/uploads/" + p, Path: p, Name: file.Name, Type: file.ContentType, Size: file.Size}, nil
}

func (f *fakeObjects) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeObjects) DeleteMany(ctx context.Context, paths []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, paths...)
	return nil
}

func (f *fakeObjects) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

type fakeAdmins struct {
	admin *models.Admin
}

func (f fakeAdmins) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if f.admin == nil || f.admin.Email != email {
		return nil, errs.NewNotFound("Admin")
	}
	return f.admin, nil
}

type fakeNotifier struct {
	calls chan string
}

func (f fakeNotifier) Notify(ctx context.Context, lead *models.Lead, projectName string) error {
	f.calls <- lead.Email
	return nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

type testEnv struct {
	router    http.Handler
	projects  *fakeProjects
	team      *fakeTeam
	settings  *fakeSettings
	leads     *fakeLeads
	analytics *fakeAnalytics
	objects   *fakeObjects
	notifier  fakeNotifier
	sessions  *services.SessionManager
	admin     *models.Admin
}

func newTestEnv(t *testing.T, cfg map[string]string) *testEnv {
	t.Helper()

	sessions, err := services.NewSessionManager(testSecret, time.Hour)
	require.NoError(t, err)

	hash, err := services.HashPassword("correct horse")
	require.NoError(t, err)
	admin := &models.Admin{ID: uuid.New(), Email: "admin@studio.com", Name: "Admin", PasswordHash: hash}

	env := &testEnv{
		projects:  &fakeProjects{items: map[uuid.UUID]*models.Project{}},
		team:      &fakeTeam{items: map[uuid.UUID]*models.TeamMember{}},
		settings:  &fakeSettings{},
		leads:     &fakeLeads{items: map[uuid.UUID]*models.Lead{}},
		analytics: &fakeAnalytics{},
		objects:   &fakeObjects{},
		notifier:  fakeNotifier{calls: make(chan string, 4)},
		sessions:  sessions,
		admin:     admin,
	}

	router, err := newRouter(Dependencies{
		Projects:  env.projects,
		Team:      env.team,
		Leads:     env.leads,
		Analytics: env.analytics,
		Settings:  env.settings,
		Storage:   env.objects,
		Auth:      services.NewAuthenticator(fakeAdmins{admin: admin}, sessions),
		Sessions:  sessions,
		Notifier:  env.notifier,
		Health:    fakePinger{},
	}, withConfig(cfg))
	require.NoError(t, err)
	env.router = router
	return env
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	token, _, err := e.sessions.Issue(e.admin)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func validProject() map[string]any {
	return map[string]any{
		"name":        "Atlas",
		"tagline":     "Maps for your data",
		"description": strings.Repeat("A long enough description. ", 3),
		"techStack":   []string{"Go", "Postgres"},
		"category":    "WEB_APP",
		"githubUrl":   "https://github.com/studio/atlas",
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t, nil)
	id := uuid.New().String()

	requests := []*http.Request{
		jsonRequest(http.MethodPost, "/api/projects", validProject()),
		jsonRequest(http.MethodPut, "/api/projects/"+id, validProject()),
		jsonRequest(http.MethodDelete, "/api/projects/"+id, nil),
		jsonRequest(http.MethodGet, "/api/leads", nil),
		jsonRequest(http.MethodPut, "/api/leads/"+id, map[string]string{"status": "CLOSED"}),
		jsonRequest(http.MethodPut, "/api/settings", map[string]string{"companyEmail": "x@y.com"}),
		jsonRequest(http.MethodGet, "/api/admin/stats", nil),
		jsonRequest(http.MethodDelete, "/api/upload", map[string]string{"filePath": "studio/a.png"}),
		jsonRequest(http.MethodGet, "/api/auth/session", nil),
	}
	for _, req := range requests {
		rec := env.do(req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, req.Method+" "+req.URL.Path)
		assert.Equal(t, "Unauthorized", decodeEnvelope(t, rec).Error)
	}

	bad := jsonRequest(http.MethodPost, "/api/projects", validProject())
	bad.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, env.do(bad).Code)

	assert.Zero(t, env.projects.len())
	assert.Empty(t, env.objects.deleted)
}

func TestCreateAndGetProject(t *testing.T) {
	env := newTestEnv(t, nil)

	req := jsonRequest(http.MethodPost, "/api/projects", validProject())
	req.Header.Set("Authorization", "Bearer "+env.token(t))
	rec := env.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeEnvelope(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Project created successfully", body.Message)

	var created models.Project
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "Atlas", created.Name)
	assert.Nil(t, created.LiveURL)
	require.NotNil(t, created.GithubURL)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/projects/"+created.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Project
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, []string{"Go", "Postgres"}, []string(fetched.TechStack))
}

func TestProjectValidationDetails(t *testing.T) {
	env := newTestEnv(t, nil)

	payload := validProject()
	payload["name"] = "A"
	payload["techStack"] = []string{}
	payload["category"] = "GAME"
	payload["liveUrl"] = "not a url"

	req := jsonRequest(http.MethodPost, "/api/projects", payload)
	req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: env.token(t)})
	rec := env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Validation failed", body.Error)

	var details []errs.FieldError
	require.NoError(t, json.Unmarshal(body.Details, &details))
	messages := map[string]string{}
	for _, d := range details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "Name must be at least 3 characters", messages["name"])
	assert.Equal(t, "At least one tech stack item required", messages["techStack"])
	assert.Contains(t, messages["category"], "must be one of")
	assert.Equal(t, "Invalid URL", messages["liveUrl"])
	assert.Zero(t, env.projects.len())
}

func TestProjectFieldsTrimmedBeforeValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	payload := validProject()
	payload["name"] = "   a   "
	payload["techStack"] = []string{"   "}

	req := jsonRequest(http.MethodPost, "/api/projects", payload)
	req.Header.Set("Authorization", "Bearer "+env.token(t))
	rec := env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var details []errs.FieldError
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Details, &details))
	messages := map[string]string{}
	for _, d := range details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "Name must be at least 3 characters", messages["name"])
	assert.Equal(t, "Tech stack is required", messages["techStack[0]"])
	assert.Zero(t, env.projects.len())

	payload = validProject()
	payload["name"] = "  Atlas  "
	payload["techStack"] = []string{" Go ", "Postgres"}
	req = jsonRequest(http.MethodPost, "/api/projects", payload)
	req.Header.Set("Authorization", "Bearer "+env.token(t))
	rec = env.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Project
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.Equal(t, "Atlas", created.Name)
	assert.Equal(t, []string{"Go", "Postgres"}, []string(created.TechStack))
}

func TestProjectNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, target := range []string{"/api/projects/" + uuid.New().String(), "/api/projects/not-a-uuid"} {
		rec := env.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "Project not found", decodeEnvelope(t, rec).Error)
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/projects?category=GAME", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeadLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(jsonRequest(http.MethodPost, "/api/leads", map[string]any{
		"name":    "  Ada  ",
		"email":   "ada@example.com",
		"message": "I would like to build something together.",
		"status":  "CLOSED",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var lead models.Lead
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &lead))
	assert.Equal(t, models.LeadStatusNew, lead.Status)
	assert.Equal(t, "Ada", lead.Name)

	select {
	case email := <-env.notifier.calls:
		assert.Equal(t, "ada@example.com", email)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}

	token := env.token(t)
	invalid := jsonRequest(http.MethodPut, "/api/leads/"+lead.ID.String(), map[string]string{"status": "ARCHIVED"})
	invalid.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, env.do(invalid).Code)

	update := jsonRequest(http.MethodPut, "/api/leads/"+lead.ID.String(), map[string]string{"status": "CONTACTED"})
	update.Header.Set("Authorization", "Bearer "+token)
	rec = env.do(update)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Lead
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &updated))
	assert.Equal(t, models.LeadStatusContacted, updated.Status)

	list := httptest.NewRequest(http.MethodGet, "/api/leads?status=NEW", nil)
	list.Header.Set("Authorization", "Bearer "+token)
	rec = env.do(list)
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox []models.Lead
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &inbox))
	assert.Empty(t, inbox)
}

func TestLeadValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(jsonRequest(http.MethodPost, "/api/leads", map[string]any{
		"name":      "A",
		"email":     "nope",
		"message":   "short",
		"projectId": "42",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var details []errs.FieldError
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Details, &details))
	assert.Len(t, details, 4)

	rec = env.do(httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrackEventAnonymizesIP(t *testing.T) {
	env := newTestEnv(t, nil)

	req := jsonRequest(http.MethodPost, "/api/analytics", map[string]string{
		"projectId": uuid.New().String(),
		"eventType": "GITHUB_CLICK",
	})
	req.Header.Set("X-Forwarded-For", "203.0.113.42, 10.0.0.1")
	req.Header.Set("User-Agent", strings.Repeat("b", 300))
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, env.analytics.events, 1)
	event := env.analytics.events[0]
	assert.Equal(t, "203.0.113.xxx", event.VisitorIP)
	assert.Len(t, event.UserAgent, 255)
	assert.Equal(t, models.EventGithubClick, event.EventType)
}

func TestTrackEventFailuresAreOpaque(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(jsonRequest(http.MethodPost, "/api/analytics", map[string]string{
		"projectId": uuid.New().String(),
		"eventType": "SCROLL",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Failed to track event", body.Error)
	assert.Empty(t, body.Details)

	env.analytics.err = errors.New("insert or update on table violates foreign key constraint")
	rec = env.do(jsonRequest(http.MethodPost, "/api/analytics", map[string]string{
		"projectId": uuid.New().String(),
		"eventType": "VIEW",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to track event", decodeEnvelope(t, rec).Error)
}

func multipartUpload(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("folder", "Project Shots"))
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.token(t)

	body, contentType := multipartUpload(t, "shot.png", "image/png", []byte("\x89PNG\r\n\x1a\nfake"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var object storage.Object
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &object))
	assert.Equal(t, "image/png", object.Type)
	assert.Equal(t, 1, env.objects.uploadCount())

	body, contentType = multipartUpload(t, "notes.txt", "text/plain", []byte("hello"))
	req = httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = env.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error, "Invalid file type")
	assert.Equal(t, 1, env.objects.uploadCount())

	req = httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = env.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file provided", decodeEnvelope(t, rec).Error)
}

func TestUploadTooLarge(t *testing.T) {
	env := newTestEnv(t, nil)

	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)
	go func() {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="clip.mp4"`)
		header.Set("Content-Type", "video/mp4")
		part, err := w.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		chunk := make([]byte, 1<<20)
		for i := 0; i < 52; i++ {
			if _, err := part.Write(chunk); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(w.Close())
	}()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", pr)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.token(t))
	rec := env.do(req)
	_ = pr.Close()

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File too large. Max size: 50MB", decodeEnvelope(t, rec).Error)
	assert.Zero(t, env.objects.uploadCount())
}

func TestDeleteFiles(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.token(t)

	req := jsonRequest(http.MethodDelete, "/api/upload", map[string]any{})
	req.Header.Set("Authorization", "Bearer "+token)
	rec := env.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file path provided", decodeEnvelope(t, rec).Error)

	req = jsonRequest(http.MethodDelete, "/api/upload", map[string]any{"filePaths": []string{"studio/a.png", "studio/b.png"}})
	req.Header.Set("Authorization", "Bearer "+token)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Files deleted successfully", decodeEnvelope(t, rec).Message)
	assert.Equal(t, []string{"studio/a.png", "studio/b.png"}, env.objects.deleted)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "admin@studio.com",
		"password": "wrong password",
	}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	rec = env.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "Admin@Studio.com",
		"password": "correct horse",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, services.SessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	var view adminView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &view))
	assert.Equal(t, "admin@studio.com", view.Email)

	rec = env.do(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestDevelopmentCookieIsNotSecure(t *testing.T) {
	env := newTestEnv(t, map[string]string{"APP_ENV": "development"})

	rec := env.do(jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "admin@studio.com",
		"password": "correct horse",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.False(t, rec.Result().Cookies()[0].Secure)
}

func TestSettingsDefaults(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var settings models.CompanySettings
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &settings))
	assert.Equal(t, models.DefaultCompanyEmail, settings.CompanyEmail)

	req := jsonRequest(http.MethodPut, "/api/settings", map[string]string{"companyEmail": "not-an-email"})
	req.Header.Set("Authorization", "Bearer "+env.token(t))
	assert.Equal(t, http.StatusBadRequest, env.do(req).Code)
}

func TestUpdateSettings(t *testing.T) {
	env := newTestEnv(t, nil)

	req := jsonRequest(http.MethodPut, "/api/settings", map[string]string{"companyEmail": "not-an-email"})
	req.Header.Set("Authorization", "Bearer "+env.token(t))
	rec := env.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Validation failed", body.Error)
	var details []errs.FieldError
	require.NoError(t, json.Unmarshal(body.Details, &details))
	require.Len(t, details, 1)
	assert.Equal(t, errs.FieldError{Field: "companyEmail", Message: "Invalid email address"}, details[0])

	req = jsonRequest(http.MethodPut, "/api/settings", map[string]string{"companyEmail": " hello@studio.dev ", "companyName": "Studio"})
	req.Header.Set("Authorization", "Bearer "+env.token(t))
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body = decodeEnvelope(t, rec)
	assert.Equal(t, "Settings updated successfully", body.Message)
	var settings models.CompanySettings
	require.NoError(t, json.Unmarshal(body.Data, &settings))
	assert.Equal(t, "hello@studio.dev", settings.CompanyEmail)
	require.NotNil(t, settings.CompanyName)
	assert.Equal(t, "Studio", *settings.CompanyName)
}

func (e *testEnv) adminJSON(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := jsonRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+e.token(t))
	return e.do(req)
}

func TestCreateTeamMember(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]any
		status   int
		isActive bool
		details  map[string]string
	}{
		{
			name:     "isActive defaults to true",
			payload:  map[string]any{"name": "Ada", "role": "Engineer"},
			status:   http.StatusCreated,
			isActive: true,
		},
		{
			name:     "explicit isActive false is kept",
			payload:  map[string]any{"name": "Ada", "role": "Engineer", "isActive": false},
			status:   http.StatusCreated,
			isActive: false,
		},
		{
			name:     "empty URLs are accepted",
			payload:  map[string]any{"name": "Ada", "role": "Engineer", "photoUrl": "", "githubUrl": "", "linkedinUrl": "", "twitterUrl": ""},
			status:   http.StatusCreated,
			isActive: true,
		},
		{
			name:    "bad URL is rejected",
			payload: map[string]any{"name": "Ada", "role": "Engineer", "githubUrl": "github dot com"},
			status:  http.StatusBadRequest,
			details: map[string]string{"githubUrl": "Invalid URL"},
		},
		{
			name:    "padded name is trimmed before validation",
			payload: map[string]any{"name": "  A  ", "role": "Engineer", "skills": []string{"  "}},
			status:  http.StatusBadRequest,
			details: map[string]string{"name": "Name must be at least 2 characters", "skills[0]": "Skills is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)

			rec := env.adminJSON(t, http.MethodPost, "/api/team", tt.payload)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decodeEnvelope(t, rec)

			if tt.status != http.StatusCreated {
				assert.Equal(t, "Validation failed", body.Error)
				var details []errs.FieldError
				require.NoError(t, json.Unmarshal(body.Details, &details))
				got := map[string]string{}
				for _, d := range details {
					got[d.Field] = d.Message
				}
				assert.Equal(t, tt.details, got)
				return
			}

			assert.Equal(t, "Team member created", body.Message)
			var member models.TeamMember
			require.NoError(t, json.Unmarshal(body.Data, &member))
			assert.Equal(t, tt.isActive, member.IsActive)
			assert.Equal(t, "Ada", member.Name)
			assert.Nil(t, member.GithubURL)
			assert.Nil(t, member.PhotoURL)
		})
	}
}

func TestUpdateTeamMemberKeepsAbsentFields(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.adminJSON(t, http.MethodPost, "/api/team", map[string]any{
		"name": "Ada", "role": "Engineer", "order": 3, "isActive": false, "githubUrl": "https://github.com/ada",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.TeamMember
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))

	rec = env.adminJSON(t, http.MethodPut, "/api/team/"+created.ID.String(), map[string]any{
		"name": "  Ada Lovelace ", "role": "Lead Engineer", "githubUrl": "",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Team member updated", body.Message)

	var updated models.TeamMember
	require.NoError(t, json.Unmarshal(body.Data, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "Lead Engineer", updated.Role)
	assert.Equal(t, 3, updated.Order)
	assert.False(t, updated.IsActive)
	assert.Nil(t, updated.GithubURL)

	rec = env.adminJSON(t, http.MethodPut, "/api/team/"+created.ID.String(), map[string]any{
		"name": "Ada", "role": "Engineer", "linkedinUrl": "not a url",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", decodeEnvelope(t, rec).Error)

	rec = env.adminJSON(t, http.MethodPut, "/api/team/"+uuid.New().String(), map[string]any{"name": "Ada", "role": "Engineer"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Team member not found", decodeEnvelope(t, rec).Error)
}

func TestTeamRoster(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, payload := range []map[string]any{
		{"name": "Ada", "role": "Engineer"},
		{"name": "Grace", "role": "Admiral", "isActive": false},
	} {
		rec := env.adminJSON(t, http.MethodPost, "/api/team", payload)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/team", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var all []models.TeamMember
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &all))
	assert.Len(t, all, 2)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/team?active=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var active []models.TeamMember
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &active))
	require.Len(t, active, 1)
	assert.Equal(t, "Ada", active[0].Name)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/team/"+active[0].ID.String(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodDelete, "/api/team/"+active[0].ID.String(), nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.adminJSON(t, http.MethodDelete, "/api/team/"+active[0].ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Team member deleted", decodeEnvelope(t, rec).Message)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/team/"+active[0].ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Team member not found", decodeEnvelope(t, rec).Error)
}

func TestRateLimitOnPublicWrites(t *testing.T) {
	env := newTestEnv(t, map[string]string{"PUBLIC_RATE_LIMIT": "1-M"})

	event := map[string]string{"projectId": uuid.New().String(), "eventType": "VIEW"}
	first := jsonRequest(http.MethodPost, "/api/analytics", event)
	first.RemoteAddr = "198.51.100.7:1234"
	assert.Equal(t, http.StatusOK, env.do(first).Code)

	second := jsonRequest(http.MethodPost, "/api/analytics", event)
	second.RemoteAddr = "198.51.100.7:1234"
	rec := env.do(second)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", decodeEnvelope(t, rec).Error)

	// reads are not limited
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, env.do(httptest.NewRequest(http.MethodGet, "/api/settings", nil)).Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer "+env.token(t))
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "studio_http_request_duration_seconds")

	public := newTestEnv(t, map[string]string{"METRICS_PUBLIC": "true"})
	rec = public.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	down, err := newRouter(Dependencies{Health: fakePinger{err: errors.New("connection refused")}})
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Database unavailable", decodeEnvelope(t, rec).Error)
}

func TestRecoverPanics(t *testing.T) {
	handler := recoverPanics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeEnvelope(t, rec).Error)
}
