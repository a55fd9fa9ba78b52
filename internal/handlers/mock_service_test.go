package handlers

import (
	"context"
	"net/http"
	"sync"

	"heating_monitor/internal/broadcast"
	"heating_monitor/internal/models"
	"heating_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockSettings struct {
	current models.Config
	saveErr error
	saved   []models.Config
}

func (m *mockSettings) Current() models.Config { return m.current.Clone() }
func (m *mockSettings) Save(_ context.Context, cfg models.Config) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, cfg)
	m.current = cfg
	return nil
}

type mockPoller struct {
	snap  models.Snapshot
	err   error
	calls int
}

func (m *mockPoller) RunOnce(context.Context) (models.Snapshot, error) {
	m.calls++
	return m.snap, m.err
}

type mockDashboard struct {
	snap       models.Snapshot
	snapErr    error
	history    []models.HistoryPoint
	historyErr error
	logs       []models.LogEntry
	logsErr    error
	clearErr   error

	lastFilter service.LogFilter
	cleared    int
}

func (m *mockDashboard) Snapshot(context.Context) (models.Snapshot, error) {
	return m.snap, m.snapErr
}
func (m *mockDashboard) History(context.Context) ([]models.HistoryPoint, error) {
	return m.history, m.historyErr
}
func (m *mockDashboard) Logs(_ context.Context, f service.LogFilter) ([]models.LogEntry, error) {
	m.lastFilter = f
	return m.logs, m.logsErr
}
func (m *mockDashboard) ClearLogs(context.Context) error {
	m.cleared++
	return m.clearErr
}

// mockFeed records subscribers so tests can push snapshots.
type mockFeed struct {
	mu         sync.Mutex
	handlers   map[int]broadcast.Handler
	next       int
	subscribed chan struct{}
}

func newMockFeed() *mockFeed {
	return &mockFeed{handlers: map[int]broadcast.Handler{}, subscribed: make(chan struct{}, 4)}
}

func (m *mockFeed) OnReceive(fn broadcast.Handler) func() {
	m.mu.Lock()
	id := m.next
	m.next++
	m.handlers[id] = fn
	m.mu.Unlock()
	m.subscribed <- struct{}{}
	return func() {
		m.mu.Lock()
		delete(m.handlers, id)
		m.mu.Unlock()
	}
}

func (m *mockFeed) push(s models.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, fn := range m.handlers {
		fn(s)
	}
}

func (m *mockFeed) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers)
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func snapshotAt(ms int64) models.Snapshot {
	return models.Snapshot{
		models.VarBoilerTemp: {
			Address:        "112/10021/0/0/12161",
			FormattedValue: "65.4°C",
			Unit:           "°C",
			RawValue:       "654",
			CapturedAtMs:   ms,
		},
	}
}
