package samples_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/AquaIndex/HMPI-Backend/internal/auth"
	"github.com/AquaIndex/HMPI-Backend/internal/db"
	"github.com/AquaIndex/HMPI-Backend/internal/samples"
	"github.com/AquaIndex/HMPI-Backend/internal/standards"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

// testStandard is the per-run standard code the tests submit against.
var testStandard string

func f(v float64) *float64 { return &v }

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up from internal/samples/).
	_ = godotenv.Load("../../.env.local")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	db.Connect()
	dbAvailable = true

	auth.Init()
	standards.Init()
	samples.Init()

	standardID := seedTestStandard()

	// Mount samples routes on a chi router, matching production setup in main.go.
	r := chi.NewRouter()
	r.Mount("/samples", samples.SetupRoutes())

	testServer = httptest.NewServer(r)

	code := m.Run()

	testServer.Close()
	db.DB.Where("standard_id = ?", standardID).Delete(&standards.MetalLimit{})
	db.DB.Where("standard_id = ?", standardID).Delete(&standards.RiskBand{})
	db.DB.Where("id = ?", standardID).Delete(&standards.Standard{})
	os.Exit(code)
}

// seedTestStandard inserts a uniquely-coded standard so the tests never
// collide with real seeded data or a parallel run.
func seedTestStandard() uuid.UUID {
	testStandard = fmt.Sprintf("TEST-%s", uuid.New().String()[:8])

	standard := standards.Standard{
		ID:   uuid.New(),
		Code: testStandard,
		Name: "Integration test standard",
		Year: 2026,
		Limits: []standards.MetalLimit{
			{ID: uuid.New(), Metal: "Arsenic", PermissibleLimit: 0.01, IdealValue: 0, Unit: "mg/L"},
			{ID: uuid.New(), Metal: "Cadmium", PermissibleLimit: 0.003, IdealValue: 0, Unit: "mg/L"},
			{ID: uuid.New(), Metal: "Lead", PermissibleLimit: 0.01, IdealValue: 0, Unit: "mg/L"},
		},
		Bands: []standards.RiskBand{
			{ID: uuid.New(), Upper: f(50), Level: "Safe", SortOrder: 0},
			{ID: uuid.New(), Upper: f(100), Level: "Moderate Risk", SortOrder: 1},
			{ID: uuid.New(), Level: "High Risk", SortOrder: 2},
		},
	}
	for i := range standard.Limits {
		standard.Limits[i].StandardID = standard.ID
	}
	for i := range standard.Bands {
		standard.Bands[i].StandardID = standard.ID
	}

	if err := db.DB.Create(&standard).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed test standard: %v\n", err)
		os.Exit(1)
	}
	return standard.ID
}

// analystClient creates a user with a live session directly in the
// database and returns a client whose cookie jar already carries the
// session_id cookie.
func analystClient(t *testing.T) *http.Client {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	user := auth.User{
		UserID:   uuid.New().String(),
		Username: fmt.Sprintf("testanalyst_%s", uuid.New().String()[:8]),
		Role:     "analyst",
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	session := auth.Session{
		SessionID: uuid.New().String(),
		UserID:    user.UserID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := db.DB.Create(&session).Error; err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	t.Cleanup(func() {
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.Session{})
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.User{})
	})

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	serverURL, err := url.Parse(testServer.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	jar.SetCookies(serverURL, []*http.Cookie{{Name: "session_id", Value: session.SessionID}})
	return &http.Client{Jar: jar}
}

// submitSample posts one reading set and returns the response.
func submitSample(t *testing.T, client *http.Client, body map[string]any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	resp, err := client.Post(testServer.URL+"/samples/", "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST /samples/: %v", err)
	}
	return resp
}

// cleanupSample removes one submitted sample and its derived rows.
func cleanupSample(t *testing.T, sampleID string) {
	t.Helper()
	t.Cleanup(func() {
		var results []samples.Result
		db.DB.Where("sample_id = ?", sampleID).Find(&results)
		for _, res := range results {
			db.DB.Where("result_id = ?", res.ID).Delete(&samples.ResultSubIndex{})
		}
		db.DB.Where("sample_id = ?", sampleID).Delete(&samples.Result{})
		db.DB.Where("sample_id = ?", sampleID).Delete(&samples.SampleReading{})
		db.DB.Where("id = ?", sampleID).Delete(&samples.Sample{})
	})
}

// readBody reads and returns the response body as a string, draining and closing it.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

// TestSubmitComputesAndStoresResult verifies the submit → result round
// trip: a reading set over the limit comes back 201 with the full
// breakdown, metal names land in canonical form regardless of input
// casing, and GET /samples/{id}/result serves the same document.
func TestSubmitComputesAndStoresResult(t *testing.T) {
	client := analystClient(t)
	location := fmt.Sprintf("well-%s", uuid.New().String()[:8])

	resp := submitSample(t, client, map[string]any{
		"location": location,
		"standard": testStandard,
		"readings": []map[string]any{
			{"metal": "ARSENIC", "concentration": 0.012, "unit": "mg/L"},
			{"metal": "cadmium", "concentration": 5, "unit": "ppb"},
		},
	})
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d; body: %s", resp.StatusCode, body)
	}

	var out samples.ResultOut
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("invalid JSON body: %s", body)
	}
	cleanupSample(t, out.SampleID)

	if out.RiskLevel != "High Risk" {
		t.Errorf("risk level = %q, want High Risk", out.RiskLevel)
	}
	if len(out.SubIndices) != 2 {
		t.Fatalf("expected 2 sub-indices, got %d", len(out.SubIndices))
	}
	if out.SubIndices[0].Metal != "Arsenic" || out.SubIndices[1].Metal != "Cadmium" {
		t.Errorf("sub-indices not canonical/ordered: %+v", out.SubIndices)
	}
	// 5 ppb converts to 0.005 mg/L before normalization.
	if out.SubIndices[1].Concentration != 0.005 {
		t.Errorf("cadmium concentration = %v mg/L, want 0.005", out.SubIndices[1].Concentration)
	}

	getResp, err := client.Get(testServer.URL + "/samples/" + out.SampleID + "/result")
	if err != nil {
		t.Fatalf("GET result: %v", err)
	}
	getBody := readBody(t, getResp)
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on result fetch, got %d; body: %s", getResp.StatusCode, getBody)
	}
	var fetched samples.ResultOut
	if err := json.Unmarshal([]byte(getBody), &fetched); err != nil {
		t.Fatalf("invalid JSON body: %s", getBody)
	}
	if fetched.OverallIndex != out.OverallIndex {
		t.Errorf("stored overall = %v, submitted overall = %v", fetched.OverallIndex, out.OverallIndex)
	}
}

// TestSubmitDuplicateMetalRejected verifies a duplicate metal fails the
// whole submission with 422 and writes no partial rows.
func TestSubmitDuplicateMetalRejected(t *testing.T) {
	client := analystClient(t)
	location := fmt.Sprintf("well-%s", uuid.New().String()[:8])

	resp := submitSample(t, client, map[string]any{
		"location": location,
		"standard": testStandard,
		"readings": []map[string]any{
			{"metal": "Lead", "concentration": 0.001, "unit": "mg/L"},
			{"metal": "lead", "concentration": 0.002, "unit": "mg/L"},
		},
	})
	readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	var count int64
	db.DB.Model(&samples.Sample{}).Where("location = ?", location).Count(&count)
	if count != 0 {
		t.Errorf("expected no stored sample after rejection, found %d", count)
	}
}

// TestSubmitRequiresSession verifies the submit endpoint rejects
// requests without a session cookie.
func TestSubmitRequiresSession(t *testing.T) {
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	raw, _ := json.Marshal(map[string]any{
		"location": "nowhere",
		"standard": testStandard,
		"readings": []map[string]any{
			{"metal": "Lead", "concentration": 0.001, "unit": "mg/L"},
		},
	})
	resp, err := http.Post(testServer.URL+"/samples/", "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST /samples/: %v", err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", resp.StatusCode)
	}
}

// TestHotspotFilters verifies ?level= matches exactly and ?min= cuts on
// the overall index.
func TestHotspotFilters(t *testing.T) {
	client := analystClient(t)
	safeLoc := fmt.Sprintf("safe-%s", uuid.New().String()[:8])
	highLoc := fmt.Sprintf("high-%s", uuid.New().String()[:8])

	for loc, readings := range map[string][]map[string]any{
		safeLoc: {{"metal": "Lead", "concentration": 0.001, "unit": "mg/L"}},
		highLoc: {{"metal": "Arsenic", "concentration": 0.02, "unit": "mg/L"}},
	} {
		resp := submitSample(t, client, map[string]any{
			"location": loc,
			"standard": testStandard,
			"readings": readings,
		})
		body := readBody(t, resp)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("submit %s: expected 201, got %d; body: %s", loc, resp.StatusCode, body)
		}
		var out samples.ResultOut
		if err := json.Unmarshal([]byte(body), &out); err != nil {
			t.Fatalf("invalid JSON body: %s", body)
		}
		cleanupSample(t, out.SampleID)
	}

	fetch := func(query string) map[string]samples.Hotspot {
		resp, err := client.Get(testServer.URL + "/samples/hotspots" + query)
		if err != nil {
			t.Fatalf("GET hotspots%s: %v", query, err)
		}
		body := readBody(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("hotspots%s: expected 200, got %d; body: %s", query, resp.StatusCode, body)
		}
		var list []samples.Hotspot
		if err := json.Unmarshal([]byte(body), &list); err != nil {
			t.Fatalf("invalid JSON body: %s", body)
		}
		byLoc := make(map[string]samples.Hotspot, len(list))
		for _, h := range list {
			byLoc[h.Location] = h
		}
		return byLoc
	}

	unfiltered := fetch("")
	if _, ok := unfiltered[safeLoc]; !ok {
		t.Errorf("unfiltered hotspots missing %s", safeLoc)
	}
	if _, ok := unfiltered[highLoc]; !ok {
		t.Errorf("unfiltered hotspots missing %s", highLoc)
	}

	byLevel := fetch("?level=" + url.QueryEscape("High Risk"))
	if _, ok := byLevel[safeLoc]; ok {
		t.Errorf("level filter returned the Safe location %s", safeLoc)
	}
	if _, ok := byLevel[highLoc]; !ok {
		t.Errorf("level filter dropped the High Risk location %s", highLoc)
	}

	byMin := fetch("?min=150")
	if _, ok := byMin[safeLoc]; ok {
		t.Errorf("min filter returned the low-index location %s", safeLoc)
	}
	if _, ok := byMin[highLoc]; !ok {
		t.Errorf("min filter dropped the high-index location %s", highLoc)
	}
}
