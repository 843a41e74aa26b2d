package smoketest_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/catalog/internal/adapters/http/api"
	"github.com/okian/catalog/internal/adapters/repository"
	"github.com/okian/catalog/internal/domain/model"
	"github.com/okian/catalog/internal/smoketest"
	"github.com/okian/catalog/pkg/logger"
)

type noStats struct{}

func (noStats) GetStats() map[string]interface{} { return map[string]interface{}{} }

func newCatalogServer() *httptest.Server {
	teams := model.TeamKind()
	discs := model.LaserDiscKind()
	resources := []api.Resource{
		api.NewResourceHandler[model.Team](teams, repository.NewMemoryStore(teams.Name, repository.WithSeed(teams.Seed...)), nil),
		api.NewResourceHandler[model.LaserDisc](discs, repository.NewMemoryStore(discs.Name, repository.WithSeed(discs.Seed...)), nil),
	}
	return httptest.NewServer(api.NewServer(noStats{}, resources).Router(context.Background()))
}

func newConfig(baseURL, resource string) *smoketest.Config {
	return &smoketest.Config{
		BaseURL:  baseURL,
		Resource: resource,
		Timeout:  5 * time.Second,
		Verbose:  true,
		Logger:   logger.Discard(),
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running catalog server", t, func() {
		srv := newCatalogServer()
		defer srv.Close()
		ctx := context.Background()

		Convey("When the teams smoke test runs", func() {
			report, err := smoketest.Run(ctx, newConfig(srv.URL, "teams"))

			Convey("Then every step completes", func() {
				So(err, ShouldBeNil)
				So(report.CompletedSteps, ShouldResemble, []string{
					smoketest.StepListInitial,
					smoketest.StepCreate,
					smoketest.StepListAfterCreate,
					smoketest.StepDeleteLast,
					smoketest.StepListFinal,
				})
				So(report.RunID, ShouldNotBeEmpty)
			})

			Convey("And the observations follow the create/delete cycle", func() {
				So(report.Initial, ShouldHaveLength, 2)
				So(report.CreatedID, ShouldEqual, 3)
				So(string(report.Created), ShouldContainSubstring, `"name":"Bulls"`)
				So(report.AfterCreate, ShouldHaveLength, 3)
				So(report.DeletedID, ShouldEqual, report.CreatedID)
				So(report.DeletedMessage, ShouldEqual, "Equipo eliminado")
				So(report.Final, ShouldResemble, report.Initial)
			})
		})

		Convey("When the laser disc smoke test runs", func() {
			report, err := smoketest.Run(ctx, newConfig(srv.URL+"/", "laserdiscs"))

			Convey("Then the laser disc label is reported", func() {
				So(err, ShouldBeNil)
				So(report.DeletedMessage, ShouldEqual, "LaserDisc eliminado")
				So(report.Final, ShouldHaveLength, 2)
			})
		})
	})
}

func TestRunLogsStepResults(t *testing.T) {
	Convey("Given a running catalog server and a logger writing to a buffer", t, func() {
		srv := newCatalogServer()
		defer srv.Close()

		var buf bytes.Buffer
		So(logger.InitWithWriter(&buf), ShouldBeNil)
		cfg := newConfig(srv.URL, "teams")
		cfg.Verbose = false
		cfg.Logger = logger.Get()

		Convey("When a run completes without verbose output", func() {
			_, err := smoketest.Run(context.Background(), cfg)
			out := buf.String()

			Convey("Then the listed and created records are logged", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Lakers")
				So(out, ShouldContainSubstring, "Celtics")
				So(out, ShouldContainSubstring, "Bulls")
				So(out, ShouldContainSubstring, "step="+smoketest.StepListFinal)
			})

			Convey("And verbose-only detail is left out of step lines", func() {
				var steps int
				for _, line := range strings.Split(out, "\n") {
					if !strings.Contains(line, "step completed") {
						continue
					}
					steps++
					So(line, ShouldNotContainSubstring, "url=")
				}
				So(steps, ShouldEqual, 5)
			})
		})
	})
}

func TestRunFailures(t *testing.T) {
	ctx := context.Background()

	Convey("Given an unknown collection", t, func() {
		_, err := smoketest.Run(ctx, newConfig("http://localhost:1", "vinyls"))

		Convey("Then ErrUnknownResource is returned", func() {
			So(errors.Is(err, smoketest.ErrUnknownResource), ShouldBeTrue)
		})
	})

	Convey("Given a server that is not listening", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		report, err := smoketest.Run(ctx, newConfig(url, "teams"))

		Convey("Then the first step fails with a request error", func() {
			So(errors.Is(err, smoketest.ErrRequest), ShouldBeTrue)
			So(err.Error(), ShouldStartWith, smoketest.StepListInitial)
			So(report.CompletedSteps, ShouldBeEmpty)
		})
	})

	Convey("Given a server that rejects creates", t, func() {
		var deletes int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				_, _ = w.Write([]byte(`[{"id":1}]`))
			case http.MethodPost:
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"message":"boom"}`))
			default:
				deletes++
			}
		}))
		defer srv.Close()

		report, err := smoketest.Run(ctx, newConfig(srv.URL, "teams"))

		Convey("Then the run stops after the failing step", func() {
			So(errors.Is(err, smoketest.ErrUnexpectedStatus), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "500")
			So(report.CompletedSteps, ShouldResemble, []string{smoketest.StepListInitial})
			So(report.Initial, ShouldHaveLength, 1)
			So(deletes, ShouldEqual, 0)
		})
	})

	Convey("Given a server whose collection stays empty", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":9}`))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		_, err := smoketest.Run(ctx, newConfig(srv.URL, "teams"))

		Convey("Then the delete step reports an empty collection", func() {
			So(errors.Is(err, smoketest.ErrEmptyCollection), ShouldBeTrue)
		})
	})

	Convey("Given a server that answers with a non-JSON list", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`ok`))
		}))
		defer srv.Close()

		_, err := smoketest.Run(ctx, newConfig(srv.URL, "teams"))

		Convey("Then a decode error is returned", func() {
			So(errors.Is(err, smoketest.ErrDecode), ShouldBeTrue)
		})
	})
}

func TestRunSendsRunID(t *testing.T) {
	Convey("Given a server recording request ids", t, func() {
		var ids []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ids = append(ids, r.Header.Get("X-Request-Id"))
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		report, _ := smoketest.Run(context.Background(), newConfig(srv.URL, "teams"))

		Convey("Then the run id is sent as the request id", func() {
			So(ids, ShouldResemble, []string{report.RunID})
		})
	})
}

func TestBaseURLFromAddr(t *testing.T) {
	Convey("Given listen addresses", t, func() {
		cases := map[string]string{
			":3000":          "http://localhost:3000",
			"0.0.0.0:8080":   "http://localhost:8080",
			"127.0.0.1:3000": "http://127.0.0.1:3000",
			"[::]:3000":      "http://localhost:3000",
			"example.test":   "http://example.test",
		}

		Convey("Then each maps to a reachable base URL", func() {
			for addr, want := range cases {
				So(smoketest.BaseURLFromAddr(addr), ShouldEqual, want)
			}
		})
	})
}
