package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akeren/go-waitlist-api/config"
	"github.com/akeren/go-waitlist-api/config/router"
	"github.com/akeren/go-waitlist-api/domain"
	"github.com/akeren/go-waitlist-api/internal/log"
	"github.com/akeren/go-waitlist-api/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type WaitlistAPITestSuite struct {
	suite.Suite
	tempDir string
	db      *gorm.DB
	logger  *log.Logger
	server  *httptest.Server
	baseURL string
}

func developmentSettings() *config.AppConfig {
	return &config.AppConfig{
		Environment:          config.EnvironmentDevelopment,
		RateLimitRequests:    100,
		RateLimitWindow:      time.Minute,
		RequestTimeout:       30 * time.Second,
		AllowedOrigins:       []string{"http://localhost:3000"},
		TrustedHosts:         []string{"localhost", "127.0.0.1", "*"},
		DocsEnabled:          true,
		RecentListingEnabled: true,
	}
}

func productionSettings() *config.AppConfig {
	return &config.AppConfig{
		Environment:       config.EnvironmentProduction,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
		AllowedOrigins:    []string{"https://fivadata.com"},
		TrustedHosts:      []string{"fivadata.com", "127.0.0.1"},
	}
}

func (suite *WaitlistAPITestSuite) SetupSuite() {
	var err error
	suite.tempDir, err = os.MkdirTemp("", "waitlist-integration")
	suite.Require().NoError(err)

	suite.db, err = gorm.Open(sqlite.Open(filepath.Join(suite.tempDir, "waitlist.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(suite.db.AutoMigrate(models.ModelRegistry...))

	suite.logger = log.NewLoggerWithJSONOutput()
}

func (suite *WaitlistAPITestSuite) TearDownSuite() {
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		sqlDB.Close()
	}
	os.RemoveAll(suite.tempDir)
}

// SetupTest starts a fresh development server so every test gets its own
// rate limiter state.
func (suite *WaitlistAPITestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM waitlist")
	suite.server = suite.startServer(developmentSettings())
	suite.baseURL = suite.server.URL
}

func (suite *WaitlistAPITestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Close()
	}
}

func (suite *WaitlistAPITestSuite) startServer(settings *config.AppConfig) *httptest.Server {
	appConfig := &config.ApplicationConfig{
		DB:     suite.db,
		Logger: suite.logger,
		Config: settings,
	}
	appConfig.RouterService = router.CreateRouterService(suite.logger, nil, config.RouterConfigFrom(settings))

	domain.SetupCoreDomain(appConfig)

	server := httptest.NewServer(appConfig.RouterService.GetEngine())
	suite.T().Cleanup(appConfig.RouterService.Cleanup)
	return server
}

func (suite *WaitlistAPITestSuite) do(method, url string, body any) (int, apiResponse) {
	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.([]byte)
		if !ok {
			var err error
			raw, err = json.Marshal(body)
			suite.Require().NoError(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var response apiResponse
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	return resp.StatusCode, response
}

func registration(email string) map[string]string {
	return map[string]string{
		"email":         email,
		"phone":         "+57 300 123 4567",
		"company_name":  "Acme Logística",
		"company_niche": "Logistics",
		"company_size":  "11-50",
	}
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	status, response := suite.do(http.MethodGet, suite.baseURL+"/health", nil)

	suite.Equal(http.StatusOK, status)
	suite.Equal(200, response.Code)

	var data map[string]any
	suite.Require().NoError(json.Unmarshal(response.Data, &data))
	suite.Equal("healthy", data["status"])
	suite.Equal("connected", data["database"])
	suite.Equal("development", data["environment"])
}

func (suite *WaitlistAPITestSuite) TestBanner() {
	status, response := suite.do(http.MethodGet, suite.baseURL+"/", nil)

	suite.Equal(http.StatusOK, status)

	var data map[string]any
	suite.Require().NoError(json.Unmarshal(response.Data, &data))
	suite.Equal("Waitlist API", data["name"])
}

func (suite *WaitlistAPITestSuite) TestRegisterWaitlistEntry() {
	status, response := suite.do(http.MethodPost, suite.baseURL+"/waitlist", registration("  John.Doe@Example.com "))

	suite.Equal(http.StatusCreated, status)
	suite.Equal(201, response.Code)
	suite.Contains(response.Message, "created successfully")

	var data map[string]any
	suite.Require().NoError(json.Unmarshal(response.Data, &data))
	suite.Equal("john.doe@example.com", data["email"])
	suite.Equal("+573001234567", data["phone"])
	suite.Equal("11-50", data["company_size"])
	suite.Contains(data, "id")
	suite.Contains(data, "created_at")
}

func (suite *WaitlistAPITestSuite) TestRegisterWithoutPhone() {
	body := registration("nophone@example.com")
	delete(body, "phone")

	status, response := suite.do(http.MethodPost, suite.baseURL+"/waitlist", body)
	suite.Equal(http.StatusCreated, status)

	var data map[string]any
	suite.Require().NoError(json.Unmarshal(response.Data, &data))
	suite.Nil(data["phone"])
}

func (suite *WaitlistAPITestSuite) TestValidationErrorListsFields() {
	body := map[string]string{
		"email":         "user@tempmail.com",
		"phone":         "123",
		"company_name":  "A",
		"company_niche": "Retail",
		"company_size":  "Enterprise",
	}

	status, response := suite.do(http.MethodPost, suite.baseURL+"/waitlist", body)

	suite.Equal(http.StatusBadRequest, status)
	suite.Equal("Invalid request payload", response.Message)

	var fields []map[string]string
	suite.Require().NoError(json.Unmarshal(response.Data, &fields))

	names := map[string]bool{}
	for _, f := range fields {
		names[f["field"]] = true
	}
	suite.True(names["email"])
	suite.True(names["phone"])
	suite.True(names["company_name"])
	suite.True(names["company_size"])
	suite.False(names["company_niche"])
}

func (suite *WaitlistAPITestSuite) TestMalformedBody() {
	status, _ := suite.do(http.MethodPost, suite.baseURL+"/waitlist", []byte(`{"email": 42`))
	suite.Equal(http.StatusBadRequest, status)
}

func (suite *WaitlistAPITestSuite) TestDuplicateEmailConflict() {
	status, _ := suite.do(http.MethodPost, suite.baseURL+"/waitlist", registration("dup@example.com"))
	suite.Require().Equal(http.StatusCreated, status)

	status, response := suite.do(http.MethodPost, suite.baseURL+"/waitlist", registration(" DUP@example.com"))
	suite.Equal(http.StatusConflict, status)
	suite.Equal(409, response.Code)
	suite.Equal("email already registered", response.Message)

	_, count := suite.do(http.MethodGet, suite.baseURL+"/waitlist/count", nil)
	var data map[string]any
	suite.Require().NoError(json.Unmarshal(count.Data, &data))
	suite.Equal(float64(1), data["total_registrations"])
}

func (suite *WaitlistAPITestSuite) TestCountAfterRegistrations() {
	for i := 0; i < 3; i++ {
		status, _ := suite.do(http.MethodPost, suite.baseURL+"/waitlist", registration(fmt.Sprintf("count%d@example.com", i)))
		suite.Require().Equal(http.StatusCreated, status)
	}

	status, response := suite.do(http.MethodGet, suite.baseURL+"/waitlist/count", nil)
	suite.Equal(http.StatusOK, status)

	var data map[string]any
	suite.Require().NoError(json.Unmarshal(response.Data, &data))
	suite.Equal(float64(3), data["total_registrations"])
	suite.Contains(data["message"], "3")
}

func (suite *WaitlistAPITestSuite) TestRecentListing() {
	for i := 0; i < 3; i++ {
		status, _ := suite.do(http.MethodPost, suite.baseURL+"/waitlist", registration(fmt.Sprintf("recent%d@example.com", i)))
		suite.Require().Equal(http.StatusCreated, status)
	}

	status, response := suite.do(http.MethodGet, suite.baseURL+"/waitlist/recent?limit=10", nil)
	suite.Equal(http.StatusOK, status)

	var data struct {
		Count   int `json:"count"`
		Entries []struct {
			Email string `json:"email"`
		} `json:"entries"`
	}
	suite.Require().NoError(json.Unmarshal(response.Data, &data))
	suite.Equal(3, data.Count)
	suite.Equal("recent2@example.com", data.Entries[0].Email)
	suite.Equal("recent0@example.com", data.Entries[2].Email)

	status, _ = suite.do(http.MethodGet, suite.baseURL+"/waitlist/recent?limit=51", nil)
	suite.Equal(http.StatusBadRequest, status)
}

func (suite *WaitlistAPITestSuite) TestSixthRegistrationIsRateLimited() {
	for i := 0; i < 5; i++ {
		status, _ := suite.do(http.MethodPost, suite.baseURL+"/waitlist", registration(fmt.Sprintf("burst%d@example.com", i)))
		suite.Require().Equal(http.StatusCreated, status)
	}

	status, response := suite.do(http.MethodPost, suite.baseURL+"/waitlist", registration("burst5@example.com"))
	suite.Equal(http.StatusTooManyRequests, status)
	suite.Equal(429, response.Code)

	status, _ = suite.do(http.MethodGet, suite.baseURL+"/waitlist/count", nil)
	suite.Equal(http.StatusOK, status, "count keeps its own quota")
}

func (suite *WaitlistAPITestSuite) TestProductionHidesDevelopmentSurfaces() {
	server := suite.startServer(productionSettings())
	defer server.Close()

	status, response := suite.do(http.MethodGet, server.URL+"/waitlist/recent?limit=51", nil)
	suite.Equal(http.StatusForbidden, status)
	suite.Equal(403, response.Code)

	status, _ = suite.do(http.MethodGet, server.URL+"/docs/index.html", nil)
	suite.Equal(http.StatusNotFound, status)
}

func (suite *WaitlistAPITestSuite) TestUntrustedHostRejected() {
	server := suite.startServer(productionSettings())
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/health", nil)
	suite.Require().NoError(err)
	req.Host = "evil.example"

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestWaitlistAPITestSuite(t *testing.T) {
	// Skip integration tests unless explicitly requested
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration tests. Set RUN_INTEGRATION_TESTS=true to run them")
	}

	suite.Run(t, new(WaitlistAPITestSuite))
}
