package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"

	app "github.com/okian/catalog/internal/app"
	"github.com/okian/catalog/internal/config"
	"github.com/okian/catalog/pkg/logger"
	"github.com/okian/catalog/pkg/metrics"
)

func startedService(t *testing.T) *app.Service {
	t.Helper()
	svc := app.New(app.WithLogger(logger.Discard()))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the assembled HTTP handler", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		h, err := newHandler(ctx, cfg, startedService(t), logger.Discard())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then every route family is mounted", func() {
			for path, want := range map[string]int{
				"/teams":        http.StatusOK,
				"/teams/1":      http.StatusOK,
				"/laserdiscs":   http.StatusOK,
				"/laserdiscs/2": http.StatusOK,
				"/teams/999":    http.StatusNotFound,
				"/healthz":      http.StatusOK,
				"/stats":        http.StatusOK,
				"/metrics":      http.StatusOK,
				"/openapi.yaml": http.StatusOK,
				"/api-docs":     http.StatusOK,
				"/":             http.StatusOK,
			} {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, want)
			}
		})
	})
}

func TestConfigureMetrics(t *testing.T) {
	convey.Convey("Given a config with its own metrics namespace", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.MetricsNamespace = "shelf"
		configureMetrics(cfg)
		defer configureMetrics(config.New(ctx))

		h, err := newHandler(ctx, cfg, startedService(t), logger.Discard())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When a request is served and metrics are scraped", func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teams", http.NoBody))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

			convey.Convey("Then the metrics carry the configured namespace", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "shelf_api_http_requests_total")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `shelf_api_http_request_duration_milliseconds_bucket{endpoint="/teams",method="GET",status_code="200",le="1"}`)
				convey.So(w.Body.String(), convey.ShouldNotContainSubstring, "catalog_api_http_requests_total")
			})
		})
	})
}

func TestRunLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a server running on a free port", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)

		svc := startedService(t)
		done := make(chan error, 1)
		go func() { done <- run(ctx, config.New(ctx), ln, svc, logger.Discard()) }()

		convey.Convey("When it is queried and then cancelled", func() {
			client := &http.Client{Transport: &http.Transport{}, Timeout: 5 * time.Second}
			resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
			convey.So(err, convey.ShouldBeNil)
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			client.CloseIdleConnections()

			cancel()

			convey.Convey("Then it answered and shut down cleanly", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(string(body), convey.ShouldContainSubstring, `"status":"ok"`)
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(10 * time.Second):
					t.Fatal("server did not stop")
				}
			})
		})
	})
}

func TestRunSelfTest(t *testing.T) {
	defer goleak.VerifyNone(t)

	convey.Convey("Given a server with the self test enabled", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cfg := config.New(ctx)
		cfg.SelfTest = true
		cfg.SelfTestDelayMS = 0
		cfg.SelfTestResource = "laserdiscs"

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)

		svc := startedService(t)
		before := smokeStepCount("list_final", "ok")
		done := make(chan error, 1)
		go func() { done <- run(ctx, cfg, ln, svc, logger.Discard()) }()

		convey.Convey("Then the smoke test completes against it", func() {
			deadline := time.Now().Add(10 * time.Second)
			for smokeStepCount("list_final", "ok") == before && time.Now().Before(deadline) {
				time.Sleep(10 * time.Millisecond)
			}
			convey.So(smokeStepCount("list_final", "ok"), convey.ShouldBeGreaterThan, before)

			cancel()
			convey.So(<-done, convey.ShouldBeNil)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("When its context is already done", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			convey.Convey("Then it updates once and returns", func() {
				convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
				convey.So(gaugeValue("catalog_system_goroutine_count"), convey.ShouldBeGreaterThan, 0)
			})
		})
	})
}

func smokeStepCount(step, result string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return 0
	}
	for _, mf := range families {
		if mf.GetName() != "catalog_smoketest_steps_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["step"] == step && labels["result"] == result {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func gaugeValue(name string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return 0
	}
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return 0
}
