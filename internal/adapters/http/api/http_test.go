package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/grantwire/gavel/internal/adapters/http/api"
	repository "github.com/grantwire/gavel/internal/adapters/repository"
	"github.com/grantwire/gavel/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementation of api.Dependencies for testing.
type mockDeps struct {
	grants []model.Grant
	orgs   []model.Organization
	bids   []model.Bid

	listGrantsErr error
	getGrantErr   error
	listBidsErr   error
	createErr     error

	createdBid  model.Bid
	createCalls int
	lastNewBid  model.NewBid
}

func (m *mockDeps) ListGrants(ctx context.Context) ([]model.Grant, error) {
	return m.grants, m.listGrantsErr
}

func (m *mockDeps) GetGrant(ctx context.Context, id int64) (model.Grant, error) {
	if m.getGrantErr != nil {
		return model.Grant{}, m.getGrantErr
	}
	for _, g := range m.grants {
		if g.ID == id {
			return g, nil
		}
	}
	return model.Grant{}, fmt.Errorf("get_grant %d: %w", id, repository.ErrNotFound)
}

func (m *mockDeps) ListGrantBids(ctx context.Context, grantID int64) ([]model.Bid, error) {
	if m.listBidsErr != nil {
		return nil, m.listBidsErr
	}
	var out []model.Bid
	for _, b := range m.bids {
		if b.GrantID == grantID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockDeps) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	return m.orgs, nil
}

func (m *mockDeps) ListBids(ctx context.Context) ([]model.Bid, error) {
	return m.bids, m.listBidsErr
}

func (m *mockDeps) CreateBid(ctx context.Context, bid model.NewBid) (model.Bid, error) {
	m.createCalls++
	m.lastNewBid = bid
	if m.createErr != nil {
		return model.Bid{}, m.createErr
	}
	return m.createdBid, nil
}

func newTestMux(deps *mockDeps) *http.ServeMux {
	server := api.NewServer(deps, nil)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func errorBody(w *httptest.ResponseRecorder) string {
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp["error"]
}

func sampleDeps() *mockDeps {
	creator := "Blue Delta Labs"
	creatorID := int64(4)
	orgName := "Open Science Fund"
	return &mockDeps{
		grants: []model.Grant{
			{
				ID:            2,
				Title:         "River Monitoring",
				FundingAmount: 90000,
				CreatedBy:     &creatorID,
				CreatedByName: &creator,
				CreatedAt:     time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC),
			},
			{
				ID:        1,
				Title:     "Archive Digitization",
				CreatedAt: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
			},
		},
		orgs: []model.Organization{
			{ID: 4, Name: "Blue Delta Labs"},
			{ID: 7, Name: "Open Science Fund"},
		},
		bids: []model.Bid{
			{
				ID:               12,
				GrantID:          2,
				OrganizationID:   7,
				Title:            "Sensor Network",
				RequestedAmount:  48000,
				SubmittedAt:      time.Date(2025, 7, 2, 9, 30, 0, 0, time.UTC),
				OrganizationName: &orgName,
			},
		},
	}
}

const validBidBody = `{
	"grant_id": 2,
	"organization_id": 7,
	"title": "Sensor Network",
	"proposal": "full text",
	"requested_amount": 48000
}`

func TestServiceDescriptor(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(sampleDeps())

		Convey("When requesting GET /", func() {
			w := doRequest(mux, "GET", "/", "")

			Convey("Then it should return the service descriptor", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["message"], ShouldEqual, "Grant Bidding API")
				So(resp["version"], ShouldEqual, "1.0")
			})

			Convey("And it should carry CORS headers and the JSON content type", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
				So(w.Header().Get("Access-Control-Allow-Methods"), ShouldEqual, "GET, POST, OPTIONS")
				So(w.Header().Get("Access-Control-Allow-Headers"), ShouldEqual, "Content-Type")
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json")
			})
		})

		Convey("When requesting an unknown path", func() {
			w := doRequest(mux, "GET", "/unknown", "")

			Convey("Then it should return 404 Endpoint not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(errorBody(w), ShouldEqual, "Endpoint not found")
			})

			Convey("And the error response should still carry CORS headers", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})

		Convey("When posting to the root path", func() {
			w := doRequest(mux, "POST", "/", `{}`)

			Convey("Then it should return 404 Endpoint not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(errorBody(w), ShouldEqual, "Endpoint not found")
			})
		})
	})
}

func TestOptionsPreflight(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(sampleDeps())

		for _, path := range []string{"/", "/grants", "/grants/2", "/bids", "/organizations", "/nothing"} {
			Convey("When sending OPTIONS to "+path, func() {
				w := doRequest(mux, "OPTIONS", path, "")

				Convey("Then it should return 200 with CORS headers and no body", func() {
					So(w.Code, ShouldEqual, http.StatusOK)
					So(w.Body.Len(), ShouldEqual, 0)
					So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
					So(w.Header().Get("Access-Control-Allow-Methods"), ShouldEqual, "GET, POST, OPTIONS")
					So(w.Header().Get("Access-Control-Allow-Headers"), ShouldEqual, "Content-Type")
				})
			})
		}
	})
}

func TestGrantRoutes(t *testing.T) {
	Convey("Given a store with two grants", t, func() {
		deps := sampleDeps()
		mux := newTestMux(deps)

		Convey("When listing grants", func() {
			w := doRequest(mux, "GET", "/grants", "")

			Convey("Then all grants should be returned with creator names", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var grants []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &grants), ShouldBeNil)
				So(len(grants), ShouldEqual, 2)
				So(grants[0]["created_by_name"], ShouldEqual, "Blue Delta Labs")
				So(grants[1]["created_by_name"], ShouldBeNil)
			})
		})

		Convey("When the store has no grants", func() {
			mux := newTestMux(&mockDeps{})
			w := doRequest(mux, "GET", "/grants", "")

			Convey("Then the body should be an empty JSON array", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})

		Convey("When fetching a grant by id", func() {
			w := doRequest(mux, "GET", "/grants/2", "")

			Convey("Then the grant should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var grant map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &grant), ShouldBeNil)
				So(grant["id"], ShouldEqual, 2)
				So(grant["title"], ShouldEqual, "River Monitoring")
			})
		})

		Convey("When fetching an absent grant", func() {
			w := doRequest(mux, "GET", "/grants/99", "")

			Convey("Then it should return 404 Grant not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(errorBody(w), ShouldEqual, "Grant not found")
			})
		})

		Convey("When the id segment is not an integer", func() {
			w := doRequest(mux, "GET", "/grants/abc", "")

			Convey("Then it should return 400 Invalid ID format", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorBody(w), ShouldEqual, "Invalid ID format")
			})
		})

		Convey("When listing bids of a grant", func() {
			w := doRequest(mux, "GET", "/grants/2/bids", "")

			Convey("Then the grant's bids should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var bids []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &bids), ShouldBeNil)
				So(len(bids), ShouldEqual, 1)
				So(bids[0]["organization_name"], ShouldEqual, "Open Science Fund")
			})
		})

		Convey("When listing bids of a grant without bids", func() {
			w := doRequest(mux, "GET", "/grants/1/bids", "")

			Convey("Then the body should be an empty JSON array", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})

		Convey("When the third segment is not bids", func() {
			w := doRequest(mux, "GET", "/grants/2/offers", "")

			Convey("Then it should return 404 Invalid grants endpoint", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(errorBody(w), ShouldEqual, "Invalid grants endpoint")
			})
		})

		Convey("When the path has too many segments", func() {
			w := doRequest(mux, "GET", "/grants/2/bids/7", "")

			Convey("Then it should return 404 Invalid grants endpoint", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(errorBody(w), ShouldEqual, "Invalid grants endpoint")
			})
		})

		Convey("When the id of the bids listing is not an integer", func() {
			w := doRequest(mux, "GET", "/grants/abc/bids", "")

			Convey("Then it should return 400 Invalid ID format", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorBody(w), ShouldEqual, "Invalid ID format")
			})
		})

		Convey("When the store fails", func() {
			deps.listGrantsErr = errors.New("connection refused")
			w := doRequest(mux, "GET", "/grants", "")

			Convey("Then it should return 500 with a generic message", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(errorBody(w), ShouldEqual, "Internal server error")
				So(w.Body.String(), ShouldNotContainSubstring, "connection refused")
			})
		})
	})
}

func TestOrganizationRoutes(t *testing.T) {
	Convey("Given a store with organizations", t, func() {
		mux := newTestMux(sampleDeps())

		Convey("When listing organizations", func() {
			w := doRequest(mux, "GET", "/organizations", "")

			Convey("Then all organizations should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var orgs []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &orgs), ShouldBeNil)
				So(len(orgs), ShouldEqual, 2)
				So(orgs[0]["name"], ShouldEqual, "Blue Delta Labs")
			})
		})
	})
}

func TestBidRoutes(t *testing.T) {
	Convey("Given a store with bids", t, func() {
		deps := sampleDeps()
		orgName := "Open Science Fund"
		grantTitle := "River Monitoring"
		deps.bids[0].GrantTitle = &grantTitle
		deps.bids[0].OrganizationName = &orgName
		mux := newTestMux(deps)

		Convey("When listing all bids", func() {
			w := doRequest(mux, "GET", "/bids", "")

			Convey("Then bids should include grant title and organization name", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var bids []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &bids), ShouldBeNil)
				So(len(bids), ShouldEqual, 1)
				So(bids[0]["grant_title"], ShouldEqual, "River Monitoring")
				So(bids[0]["organization_name"], ShouldEqual, "Open Science Fund")
			})
		})
	})
}

func TestCreateBid(t *testing.T) {
	Convey("Given a store accepting new bids", t, func() {
		deps := sampleDeps()
		deps.createdBid = model.Bid{
			ID:              13,
			GrantID:         2,
			OrganizationID:  7,
			Title:           "Sensor Network",
			Proposal:        "full text",
			RequestedAmount: 48000,
			Status:          "pending",
			SubmittedAt:     time.Date(2025, 7, 3, 10, 0, 0, 0, time.UTC),
		}
		mux := newTestMux(deps)

		Convey("When posting a complete bid", func() {
			w := doRequest(mux, "POST", "/bids", validBidBody)

			Convey("Then it should return 201 with the stored row", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var bid map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &bid), ShouldBeNil)
				So(bid["id"], ShouldEqual, 13)
				So(bid["submitted_at"], ShouldEqual, "2025-07-03T10:00:00Z")
			})

			Convey("And the parsed fields should reach the store", func() {
				So(deps.createCalls, ShouldEqual, 1)
				So(deps.lastNewBid.GrantID, ShouldEqual, 2)
				So(deps.lastNewBid.OrganizationID, ShouldEqual, 7)
				So(deps.lastNewBid.RequestedAmount, ShouldEqual, 48000.0)
			})
		})

		Convey("When posting a duplicate bid", func() {
			deps.createErr = fmt.Errorf("create_bid: %w", repository.ErrDuplicateBid)
			w := doRequest(mux, "POST", "/bids", validBidBody)

			Convey("Then it should return 409 with the conflict message", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(errorBody(w), ShouldEqual, "Organization has already submitted a bid for this grant")
			})
		})

		Convey("When the insert violates another constraint", func() {
			deps.createErr = fmt.Errorf("create_bid: %w", repository.ErrIntegrity)
			w := doRequest(mux, "POST", "/bids", validBidBody)

			Convey("Then it should return 400 Data integrity error", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorBody(w), ShouldEqual, "Data integrity error")
			})
		})

		Convey("When the insert returns no row", func() {
			deps.createErr = fmt.Errorf("create_bid: %w", repository.ErrNoRowReturned)
			w := doRequest(mux, "POST", "/bids", validBidBody)

			Convey("Then it should return 500 Failed to create bid", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(errorBody(w), ShouldEqual, "Failed to create bid")
			})
		})

		Convey("When the store fails unexpectedly", func() {
			deps.createErr = errors.New("connection reset")
			w := doRequest(mux, "POST", "/bids", validBidBody)

			Convey("Then it should return 500 with the generic message", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(errorBody(w), ShouldEqual, "Internal server error")
			})
		})

		Convey("When the body is not valid JSON", func() {
			w := doRequest(mux, "POST", "/bids", "{not json")

			Convey("Then it should return 400 Invalid JSON data without inserting", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorBody(w), ShouldEqual, "Invalid JSON data")
				So(deps.createCalls, ShouldEqual, 0)
			})
		})

		Convey("When the body is empty", func() {
			req := httptest.NewRequest("POST", "/bids", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return 400 Invalid JSON data", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorBody(w), ShouldEqual, "Invalid JSON data")
			})
		})

		Convey("When the body is an empty JSON object", func() {
			w := doRequest(mux, "POST", "/bids", "{}")

			Convey("Then it should return 400 Missing required fields without inserting", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorBody(w), ShouldEqual, "Missing required fields")
				So(deps.createCalls, ShouldEqual, 0)
			})
		})

		Convey("When a required field is missing", func() {
			for _, field := range []string{"grant_id", "organization_id", "title", "proposal", "requested_amount"} {
				var body map[string]any
				So(json.Unmarshal([]byte(validBidBody), &body), ShouldBeNil)
				delete(body, field)
				partial, err := json.Marshal(body)
				So(err, ShouldBeNil)

				w := doRequest(mux, "POST", "/bids", string(partial))

				Convey("Then dropping "+field+" should return 400 without inserting", func() {
					So(w.Code, ShouldEqual, http.StatusBadRequest)
					So(errorBody(w), ShouldEqual, "Missing required fields")
					So(deps.createCalls, ShouldEqual, 0)
				})
			}
		})

		Convey("When posting below /bids with extra segments", func() {
			w := doRequest(mux, "POST", "/bids/extra", validBidBody)

			Convey("Then creation should still be attempted", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
			})
		})

		Convey("When getting below /bids with extra segments", func() {
			w := doRequest(mux, "GET", "/bids/12", "")

			Convey("Then it should return 404 Endpoint not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(errorBody(w), ShouldEqual, "Endpoint not found")
			})
		})
	})
}
