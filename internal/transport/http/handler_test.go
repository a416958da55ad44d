package httptransport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"dossier/internal/domain"
	"dossier/internal/pipeline"
	"dossier/internal/platform/metrics"
	"dossier/internal/transport/http/mocks"
	"dossier/pkg/platform/httputil"
	"dossier/pkg/platform/sentinel"
	"dossier/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/service-mocks.go -package=mocks Service
type HandlerSuite struct {
	suite.Suite
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) newRouter(t *testing.T, checks map[string]HealthCheck) (*mocks.MockService, http.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	svc := mocks.NewMockService(ctrl)
	router := NewRouter(NewHandler(svc, logger), RouterConfig{
		Logger:   logger,
		Metrics:  metrics.NewWith(reg),
		Gatherer: reg,
		Checks:   checks,
	})
	return svc, router
}

func queuedPreview() pipeline.PartialDossier {
	d := domain.NewDossier(domain.Subject{ID: "marco", Name: "Marco Silva Teste"})
	d.PointsLost = 550
	d.State = domain.StateFastPreview
	return pipeline.PartialDossier{Dossier: d, Score: 450, Status: domain.StatusSuspicious, State: domain.StateQueued}
}

func (s *HandlerSuite) TestPreview() {
	s.T().Run("returns the partial dossier - 200", func(t *testing.T) {
		svc, router := s.newRouter(t, nil)
		svc.EXPECT().Preview(gomock.Any(), pipeline.PreviewRequest{
			SubjectID: "marco",
			Name:      "Marco Silva Teste",
			TaxID:     "12345678900",
			Seeds:     []string{"11222333000181"},
		}).Return(queuedPreview(), nil)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/dossiers/marco/preview", previewBody{
			Name:  "Marco Silva Teste",
			TaxID: "12345678900",
			Seeds: []string{"11222333000181"},
		}))

		require.Equal(t, http.StatusOK, rr.Code)
		got := testutil.UnmarshalResponse[pipeline.PartialDossier](t, rr)
		assert.Equal(t, 450, got.Score)
		assert.Equal(t, domain.StatusSuspicious, got.Status)
		assert.Equal(t, domain.StateQueued, got.State)
		assert.Equal(t, "marco", got.Dossier.SubjectID)
	})

	s.T().Run("returns 400 when body is invalid json", func(t *testing.T) {
		svc, router := s.newRouter(t, nil)
		svc.EXPECT().Preview(gomock.Any(), gomock.Any()).Times(0)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/dossiers/marco/preview", "{bad-json"))

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, httputil.CodeBadRequest)
	})

	s.T().Run("returns 400 when subject is invalid", func(t *testing.T) {
		svc, router := s.newRouter(t, nil)
		svc.EXPECT().Preview(gomock.Any(), gomock.Any()).
			Return(pipeline.PartialDossier{}, fmt.Errorf("%w: name is required", domain.ErrInvalidSubject))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/dossiers/marco/preview", nil))

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, httputil.CodeBadRequest)
	})

	s.T().Run("returns 500 when service fails", func(t *testing.T) {
		svc, router := s.newRouter(t, nil)
		svc.EXPECT().Preview(gomock.Any(), gomock.Any()).Return(pipeline.PartialDossier{}, errors.New("boom"))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/dossiers/marco/preview", previewBody{Name: "Marco"}))

		testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, httputil.CodeInternal)
	})
}

func (s *HandlerSuite) TestNilLoggerFallsBackToDefault() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().Preview(gomock.Any(), gomock.Any()).Return(pipeline.PartialDossier{}, errors.New("boom"))

	r := chi.NewRouter()
	NewHandler(svc, nil).Register(r)

	var rr *httptest.ResponseRecorder
	s.Require().NotPanics(func() {
		rr = testutil.DoRequest(r, testutil.NewJSONRequest(s.T(), http.MethodPost, "/dossiers/marco/preview", previewBody{Name: "Marco"}))
	})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, httputil.CodeInternal)
}

func (s *HandlerSuite) TestGet() {
	s.T().Run("returns the stored dossier - 200", func(t *testing.T) {
		svc, router := s.newRouter(t, nil)
		svc.EXPECT().Dossier(gomock.Any(), "marco").Return(queuedPreview(), nil)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/dossiers/marco", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		got := testutil.UnmarshalResponse[pipeline.PartialDossier](t, rr)
		assert.Equal(t, 550, got.Dossier.PointsLost)
	})

	s.T().Run("returns 404 when nothing is stored", func(t *testing.T) {
		svc, router := s.newRouter(t, nil)
		svc.EXPECT().Dossier(gomock.Any(), "ghost").
			Return(pipeline.PartialDossier{}, fmt.Errorf("load dossier ghost: %w", sentinel.ErrNotFound))

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/dossiers/ghost", nil))

		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, httputil.CodeNotFound)
	})

	s.T().Run("wrong verb - 405", func(t *testing.T) {
		_, router := s.newRouter(t, nil)

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodDelete, "/dossiers/marco", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

func (s *HandlerSuite) TestHealthz() {
	s.T().Run("ok when every check passes", func(t *testing.T) {
		_, router := s.newRouter(t, map[string]HealthCheck{
			"redis": func(context.Context) error { return nil },
		})

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok","redis":"ok"}`, rr.Body.String())
	})

	s.T().Run("503 when a check fails", func(t *testing.T) {
		_, router := s.newRouter(t, map[string]HealthCheck{
			"postgres": func(context.Context) error { return errors.New("connection refused") },
		})

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"degraded","postgres":"connection refused"}`, rr.Body.String())
	})
}

func (s *HandlerSuite) TestMetricsEndpoint() {
	svc, router := s.newRouter(s.T(), nil)
	svc.EXPECT().Dossier(gomock.Any(), "marco").Return(queuedPreview(), nil)
	testutil.DoRequest(router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/dossiers/marco", nil))

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/metrics", nil))

	s.Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), "dossier_http_request_duration_seconds")
}
