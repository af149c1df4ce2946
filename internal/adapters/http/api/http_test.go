package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zikuli/precision/internal/adapters/http/api"
	app "github.com/zikuli/precision/internal/app"
	"github.com/zikuli/precision/internal/domain/model"
	"github.com/zikuli/precision/internal/domain/summary"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps implements api.Dependencies with in-memory slices, no locking;
// handler tests are single-threaded.
type mockDeps struct {
	targets  []model.Target
	clicks   []model.ClickReport
	regErr   error
	clickErr error
}

func (m *mockDeps) RegisterTargets(_ context.Context, batch []model.Target) error {
	if m.regErr != nil {
		return m.regErr
	}
	m.targets = batch
	return nil
}

func (m *mockDeps) Targets(_ context.Context) []model.Target {
	if m.targets == nil {
		return []model.Target{}
	}
	return m.targets
}

func (m *mockDeps) RecordClick(_ context.Context, report model.ClickReport) (model.ClickReport, error) {
	if m.clickErr != nil {
		return model.ClickReport{}, m.clickErr
	}
	report.ReportID = "test-report-id"
	m.clicks = append(m.clicks, report)
	return report, nil
}

func (m *mockDeps) Results(_ context.Context) app.Results {
	snapshot := make([]model.ClickReport, len(m.clicks))
	copy(snapshot, m.clicks)
	return app.Results{
		Clicks:  snapshot,
		Summary: summary.Summarize(snapshot, 5),
	}
}

func (m *mockDeps) ClearResults(_ context.Context) {
	m.clicks = nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps *mockDeps) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}, "*")
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

const validClick = `{
	"target": "ok",
	"clickX": 41, "clickY": 23,
	"expectedX": 40, "expectedY": 22,
	"distance": 1.41, "success": true
}`

func TestServer_Clicks(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDeps{}
		mux := newTestMux(deps)

		Convey("When a valid click report is posted", func() {
			req := httptest.NewRequest("POST", "/click", strings.NewReader(validClick))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is acked with the stored report id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var ack map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &ack), ShouldBeNil)
				So(ack["status"], ShouldEqual, "ok")
				So(ack["report_id"], ShouldEqual, "test-report-id")
				So(deps.clicks, ShouldHaveLength, 1)
			})

			Convey("And the results endpoint reflects one pass", func() {
				rr := httptest.NewRecorder()
				mux.ServeHTTP(rr, httptest.NewRequest("GET", "/results", nil))
				So(rr.Code, ShouldEqual, http.StatusOK)

				var res map[string]any
				So(json.Unmarshal(rr.Body.Bytes(), &res), ShouldBeNil)
				So(res["total"], ShouldEqual, 1)
				So(res["passed"], ShouldEqual, 1)
				So(res["failed"], ShouldEqual, 0)
				So(res["threshold"], ShouldEqual, 5)
				So(res["clicks"], ShouldHaveLength, 1)
			})
		})

		Convey("When a click report is missing clickX", func() {
			body := `{"target":"ok","clickY":23,"expectedX":40,"expectedY":22,"distance":1.41,"success":true}`
			req := httptest.NewRequest("POST", "/click", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is rejected and nothing is recorded", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var resp map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "malformed_input")
				So(resp["message"], ShouldContainSubstring, "clickX")
				So(deps.clicks, ShouldBeEmpty)

				rr := httptest.NewRecorder()
				mux.ServeHTTP(rr, httptest.NewRequest("GET", "/results", nil))
				var res map[string]any
				So(json.Unmarshal(rr.Body.Bytes(), &res), ShouldBeNil)
				So(res["total"], ShouldEqual, 0)
			})
		})

		Convey("When the click body is not JSON", func() {
			req := httptest.NewRequest("POST", "/click", strings.NewReader("not json"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is a bad request with the raw error text", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var resp map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When a click is fetched with GET", func() {
			req := httptest.NewRequest("GET", "/click", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the route is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestServer_Targets(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDeps{}
		mux := newTestMux(deps)

		Convey("When a valid target batch is posted", func() {
			body := `[{"id":"ok","x":10,"y":10,"w":60,"h":25,"centerX":40,"centerY":22}]`
			req := httptest.NewRequest("POST", "/targets", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is acked and retrievable", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				rr := httptest.NewRecorder()
				mux.ServeHTTP(rr, httptest.NewRequest("GET", "/targets", nil))
				So(rr.Code, ShouldEqual, http.StatusOK)

				var batch []model.Target
				So(json.Unmarshal(rr.Body.Bytes(), &batch), ShouldBeNil)
				So(batch, ShouldHaveLength, 1)
				So(batch[0].ID, ShouldEqual, "ok")
				So(batch[0].CenterX, ShouldEqual, 40.0)
			})
		})

		Convey("When a target is missing its center", func() {
			body := `[{"id":"ok","x":10,"y":10,"w":60,"h":25}]`
			req := httptest.NewRequest("POST", "/targets", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is rejected and the previous batch is kept", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(deps.targets, ShouldBeNil)
			})
		})

		Convey("When a target has a zero-size rect", func() {
			body := `[{"id":"ok","x":10,"y":10,"w":0,"h":25,"centerX":10,"centerY":10}]`
			req := httptest.NewRequest("POST", "/targets", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When no targets were ever registered", func() {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest("GET", "/targets", nil))

			Convey("Then GET returns an empty array, not null", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(rr.Body.String()), ShouldEqual, "[]")
			})
		})
	})
}

func TestServer_ClearAndStats(t *testing.T) {
	Convey("Given a server with recorded clicks", t, func() {
		deps := &mockDeps{}
		mux := newTestMux(deps)

		req := httptest.NewRequest("POST", "/click", strings.NewReader(validClick))
		mux.ServeHTTP(httptest.NewRecorder(), req)
		So(deps.clicks, ShouldHaveLength, 1)

		Convey("When /clear is requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/clear", nil))

			Convey("Then the ledger is empty and the ack says cleared", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var ack map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &ack), ShouldBeNil)
				So(ack["status"], ShouldEqual, "cleared")

				rr := httptest.NewRecorder()
				mux.ServeHTTP(rr, httptest.NewRequest("GET", "/results", nil))
				var res map[string]any
				So(json.Unmarshal(rr.Body.Bytes(), &res), ShouldBeNil)
				So(res["total"], ShouldEqual, 0)
				So(res["passed"], ShouldEqual, 0)
				So(res["failed"], ShouldEqual, 0)
			})
		})

		Convey("When /stats is requested", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/stats", nil))

			Convey("Then the provider's map is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var stats map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}

func TestServer_CORS(t *testing.T) {
	Convey("Given a server with a configured allow-origin", t, func() {
		deps := &mockDeps{}
		server := api.NewServer(deps, &mockStatsProvider{}, "http://localhost:3000")
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)

		Convey("Then every response carries the CORS headers", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/results", nil))

			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://localhost:3000")
			So(w.Header().Get("Access-Control-Allow-Methods"), ShouldEqual, "GET, POST, OPTIONS")
			So(w.Header().Get("Access-Control-Allow-Headers"), ShouldEqual, "Content-Type")
		})

		Convey("And a preflight is answered immediately with no body", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/click", nil))

			So(w.Code, ShouldEqual, http.StatusNoContent)
			So(w.Body.Len(), ShouldEqual, 0)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://localhost:3000")
			So(deps.clicks, ShouldBeEmpty)
		})
	})
}
