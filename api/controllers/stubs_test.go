package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meditrack/meditrack-api/api/middleware"
	"github.com/meditrack/meditrack-api/internal/alerts"
	"github.com/meditrack/meditrack-api/internal/dispatch"
	"github.com/meditrack/meditrack-api/internal/hospitals"
	"github.com/meditrack/meditrack-api/internal/inventory"
	"github.com/meditrack/meditrack-api/internal/recommend"
	"github.com/meditrack/meditrack-api/internal/staff"
	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type testHospitalsService struct {
	listFn   func(ctx context.Context, params hospitals.ListParams) ([]hospitals.Summary, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*hospitals.Detail, error)
	activeFn func(ctx context.Context, city string) ([]models.Hospital, error)
}

func (s *testHospitalsService) List(ctx context.Context, params hospitals.ListParams) ([]hospitals.Summary, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return nil, nil
}

func (s *testHospitalsService) Get(ctx context.Context, id uuid.UUID) (*hospitals.Detail, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, nil
}

func (s *testHospitalsService) Active(ctx context.Context, city string) ([]models.Hospital, error) {
	if s.activeFn != nil {
		return s.activeFn(ctx, city)
	}
	return nil, nil
}

type testInventoryService struct {
	updateBedFn   func(ctx context.Context, m inventory.BedMutation) (*inventory.BedResult, error)
	updateBloodFn func(ctx context.Context, m inventory.BloodMutation) (*inventory.BloodResult, error)
	listBedsFn    func(ctx context.Context, q inventory.BedQuery) ([]inventory.HospitalBeds, error)
	listBloodFn   func(ctx context.Context, q inventory.BloodQuery) ([]inventory.HospitalBlood, error)
}

func (s *testInventoryService) UpdateBed(ctx context.Context, m inventory.BedMutation) (*inventory.BedResult, error) {
	if s.updateBedFn != nil {
		return s.updateBedFn(ctx, m)
	}
	return &inventory.BedResult{}, nil
}

func (s *testInventoryService) UpdateBlood(ctx context.Context, m inventory.BloodMutation) (*inventory.BloodResult, error) {
	if s.updateBloodFn != nil {
		return s.updateBloodFn(ctx, m)
	}
	return &inventory.BloodResult{}, nil
}

func (s *testInventoryService) ListBeds(ctx context.Context, q inventory.BedQuery) ([]inventory.HospitalBeds, error) {
	if s.listBedsFn != nil {
		return s.listBedsFn(ctx, q)
	}
	return nil, nil
}

func (s *testInventoryService) ListBlood(ctx context.Context, q inventory.BloodQuery) ([]inventory.HospitalBlood, error) {
	if s.listBloodFn != nil {
		return s.listBloodFn(ctx, q)
	}
	return nil, nil
}

type testAlertsService struct {
	createFn  func(ctx context.Context, params alerts.CreateParams) (*alerts.CreateResult, error)
	listFn    func(ctx context.Context, params alerts.ListParams) ([]models.Alert, error)
	resolveFn func(ctx context.Context, alertID, resolver uuid.UUID) (*models.Alert, error)
}

func (s *testAlertsService) Create(ctx context.Context, params alerts.CreateParams) (*alerts.CreateResult, error) {
	if s.createFn != nil {
		return s.createFn(ctx, params)
	}
	return nil, nil
}

func (s *testAlertsService) List(ctx context.Context, params alerts.ListParams) ([]models.Alert, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return nil, nil
}

func (s *testAlertsService) Resolve(ctx context.Context, alertID, resolver uuid.UUID) (*models.Alert, error) {
	if s.resolveFn != nil {
		return s.resolveFn(ctx, alertID, resolver)
	}
	return &models.Alert{ID: alertID}, nil
}

type testResolver struct {
	nearestFn func(ctx context.Context, q dispatch.Query) (*dispatch.Result, error)
}

func (s *testResolver) Nearest(ctx context.Context, q dispatch.Query) (*dispatch.Result, error) {
	if s.nearestFn != nil {
		return s.nearestFn(ctx, q)
	}
	return &dispatch.Result{}, nil
}

type testRecommendService struct {
	recommendFn func(ctx context.Context, req recommend.Request) (*recommend.Recommendation, error)
}

func (s *testRecommendService) Recommend(ctx context.Context, req recommend.Request) (*recommend.Recommendation, error) {
	if s.recommendFn != nil {
		return s.recommendFn(ctx, req)
	}
	return &recommend.Recommendation{}, nil
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func withPrincipal(req *http.Request, p staff.Principal) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), p))
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, resp.Body.String())
	}
	return env
}
