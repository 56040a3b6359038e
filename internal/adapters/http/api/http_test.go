package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/advientea/internal/adapters/http/api"
	service "github.com/okian/advientea/internal/app"
	"github.com/okian/advientea/internal/domain/model"
	"github.com/okian/advientea/internal/domain/release"
	"github.com/okian/advientea/internal/domain/types"
)

// mockService implements api.Dependencies with canned behavior.
type mockService struct {
	submitErr  error
	lastUserID string
	lastDay    int
	lastGuess  model.GuessInput

	rankingRows []types.RankingRow
	rankingErr  error

	flags types.EligibilityFlags

	dayView api.DayView
	dayErr  error
	lastSim bool
	lastRol release.Role
}

func (m *mockService) SubmitGuess(ctx context.Context, userID string, day int, guess model.GuessInput) (model.ScoredGuess, error) {
	m.lastUserID = userID
	m.lastDay = day
	m.lastGuess = guess
	if m.submitErr != nil {
		return model.ScoredGuess{}, m.submitErr
	}
	return model.ScoredGuess{
		ID:        "guess-1",
		UserID:    userID,
		Day:       day,
		Points:    600,
		CreatedAt: time.Date(2025, time.December, 5, 9, 30, 0, 0, time.UTC),
	}, nil
}

func (m *mockService) Ranking(ctx context.Context, day int) ([]types.RankingRow, error) {
	if m.rankingErr != nil {
		return nil, m.rankingErr
	}
	return m.rankingRows, nil
}

func (m *mockService) Eligibility(ctx context.Context, userID string, day int) (types.EligibilityFlags, error) {
	m.lastUserID = userID
	return m.flags, nil
}

func (m *mockService) Day(ctx context.Context, day int, role release.Role, simulate bool) (api.DayView, error) {
	m.lastRol = role
	m.lastSim = simulate
	if m.dayErr != nil {
		return api.DayView{}, m.dayErr
	}
	return m.dayView, nil
}

func (m *mockService) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(m *mockService) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(m, m, 100).Register(context.Background(), mux)
	return mux
}

func TestPostGuess(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		m := &mockService{}
		mux := newTestServer(m)

		Convey("When a valid guess is posted", func() {
			body := `{"day":5,"tea_name":"Earl Grey","tea_kind":"black","ingredients":["bergamota"],"person_name":"maria"}`
			req := httptest.NewRequest(http.MethodPost, "/guesses", strings.NewReader(body))
			req.Header.Set("X-User-ID", "user-carlos")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the scored guess is acknowledged", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				var resp struct {
					ID     string `json:"id"`
					Points int    `json:"points"`
				}
				So(json.NewDecoder(rec.Body).Decode(&resp), ShouldBeNil)
				So(resp.ID, ShouldEqual, "guess-1")
				So(resp.Points, ShouldEqual, 600)
				So(m.lastUserID, ShouldEqual, "user-carlos")
				So(m.lastDay, ShouldEqual, 5)
				So(m.lastGuess.HasTeaKind(), ShouldBeTrue)
				So(*m.lastGuess.TeaKind, ShouldEqual, model.KindBlack)
			})
		})

		Convey("When the service rejects the identity", func() {
			m.submitErr = service.ErrIdentityRequired
			req := httptest.NewRequest(http.MethodPost, "/guesses", strings.NewReader(`{"day":5}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the API answers 401", func() {
				So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			})
		})

		Convey("When guessing is closed", func() {
			m.submitErr = service.ErrGuessingClosed
			req := httptest.NewRequest(http.MethodPost, "/guesses", strings.NewReader(`{"day":5}`))
			req.Header.Set("X-User-ID", "user-carlos")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the API answers 403", func() {
				So(rec.Code, ShouldEqual, http.StatusForbidden)
				var resp struct {
					Code string `json:"code"`
				}
				So(json.NewDecoder(rec.Body).Decode(&resp), ShouldBeNil)
				So(resp.Code, ShouldEqual, "guessing_closed")
			})
		})

		Convey("When the body is not JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/guesses", strings.NewReader("not json"))
			req.Header.Set("X-User-ID", "user-carlos")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the day is out of range", func() {
			req := httptest.NewRequest(http.MethodPost, "/guesses", strings.NewReader(`{"day":25}`))
			req.Header.Set("X-User-ID", "user-carlos")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the tea kind is unknown", func() {
			req := httptest.NewRequest(http.MethodPost, "/guesses", strings.NewReader(`{"day":5,"tea_kind":"chai"}`))
			req.Header.Set("X-User-ID", "user-carlos")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the method is GET", func() {
			req := httptest.NewRequest(http.MethodGet, "/guesses", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGetRanking(t *testing.T) {
	Convey("Given a server with a populated ranking", t, func() {
		m := &mockService{
			rankingRows: []types.RankingRow{
				{Rank: 1, UserID: "user-ana", Username: "ana", Points: 1000},
				{Rank: 2, UserID: "user-carlos", Username: "carlos", Points: 740},
				{Rank: 3, UserID: "user-pending", Username: "lu", Points: types.PointsWithheld},
			},
		}
		mux := newTestServer(m)

		Convey("When the ranking is requested", func() {
			req := httptest.NewRequest(http.MethodGet, "/ranking?day=5", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then all rows come back in order", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var rows []types.RankingRow
				So(json.NewDecoder(rec.Body).Decode(&rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[0].Rank, ShouldEqual, 1)
				So(rows[2].Points, ShouldEqual, types.PointsWithheld)
			})
		})

		Convey("When a limit truncates the rows", func() {
			req := httptest.NewRequest(http.MethodGet, "/ranking?day=5&limit=2", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			var rows []types.RankingRow
			So(json.NewDecoder(rec.Body).Decode(&rows), ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
		})

		Convey("When the limit exceeds the maximum", func() {
			req := httptest.NewRequest(http.MethodGet, "/ranking?day=5&limit=500", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the day parameter is missing", func() {
			req := httptest.NewRequest(http.MethodGet, "/ranking", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetEligibility(t *testing.T) {
	Convey("Given a server whose service reports open channels", t, func() {
		m := &mockService{flags: types.EligibilityFlags{TeaAttributes: true, PersonName: true}}
		mux := newTestServer(m)

		Convey("When eligibility is requested", func() {
			req := httptest.NewRequest(http.MethodGet, "/eligibility?day=5", nil)
			req.Header.Set("X-User-ID", "user-carlos")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the flags are reported", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Day           int  `json:"day"`
					TeaAttributes bool `json:"tea_attributes"`
					PersonName    bool `json:"person_name"`
				}
				So(json.NewDecoder(rec.Body).Decode(&resp), ShouldBeNil)
				So(resp.Day, ShouldEqual, 5)
				So(resp.TeaAttributes, ShouldBeTrue)
				So(resp.PersonName, ShouldBeTrue)
				So(m.lastUserID, ShouldEqual, "user-carlos")
			})
		})

		Convey("When the day parameter is bad", func() {
			req := httptest.NewRequest(http.MethodGet, "/eligibility?day=zero", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestGetDay(t *testing.T) {
	Convey("Given a server with a released day view", t, func() {
		m := &mockService{dayView: api.DayView{Day: 5, Year: 2025, TeaName: "Earl Grey", TeaReleased: true}}
		mux := newTestServer(m)

		Convey("When the day is requested", func() {
			req := httptest.NewRequest(http.MethodGet, "/days/5", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the released view is returned for a member", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var view api.DayView
				So(json.NewDecoder(rec.Body).Decode(&view), ShouldBeNil)
				So(view.TeaName, ShouldEqual, "Earl Grey")
				So(m.lastRol, ShouldEqual, release.RoleMember)
				So(m.lastSim, ShouldBeFalse)
			})
		})

		Convey("When an admin simulates", func() {
			req := httptest.NewRequest(http.MethodGet, "/days/5?simulate=true", nil)
			req.Header.Set("X-User-Role", "admin")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(m.lastRol, ShouldEqual, release.RoleAdmin)
			So(m.lastSim, ShouldBeTrue)
		})

		Convey("When the day does not exist", func() {
			m.dayErr = service.ErrDayNotFound
			req := httptest.NewRequest(http.MethodGet, "/days/13", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the path parameter is not a day", func() {
			req := httptest.NewRequest(http.MethodGet, "/days/tomorrow", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		m := &mockService{}
		mux := newTestServer(m)

		Convey("When stats are requested", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then the service stats are returned as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var stats map[string]interface{}
				So(json.NewDecoder(rec.Body).Decode(&stats), ShouldBeNil)
				So(stats["started"], ShouldBeTrue)
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with request id assignment", t, func() {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		h := api.RequestIDMiddleware(inner)

		Convey("When the caller sends no request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Convey("Then one is assigned and echoed", func() {
				So(rec.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})

		Convey("When the caller sends its own request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("X-Request-ID", "req-42")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Convey("Then it is preserved", func() {
				So(rec.Header().Get("X-Request-ID"), ShouldEqual, "req-42")
			})
		})
	})
}
