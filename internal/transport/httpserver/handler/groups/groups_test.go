package groups

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	groupdomain "social-app-go/internal/domain/group"
	"social-app-go/internal/transport/httpserver/middleware"
	"social-app-go/pkg/logger"
)

const (
	adminID  = 1
	memberID = 2
)

// fakeRepo serves one group with an admin and a plain member; unused methods panic via the nil interface.
type fakeRepo struct {
	groupdomain.Repository
	group   groupdomain.Group
	updated *groupdomain.Group
}

func (f *fakeRepo) GetGroupBySlug(_ context.Context, slug string) (*groupdomain.Group, error) {
	if slug != f.group.Slug {
		return nil, groupdomain.ErrGroupNotFound
	}
	group := f.group
	return &group, nil
}

func (f *fakeRepo) GetMembership(_ context.Context, groupID, userID uint) (*groupdomain.Membership, error) {
	switch userID {
	case adminID:
		return &groupdomain.Membership{ID: 10, GroupID: groupID, UserID: userID, Role: groupdomain.RoleAdmin, Status: groupdomain.StatusApproved}, nil
	case memberID:
		return &groupdomain.Membership{ID: 11, GroupID: groupID, UserID: userID, Role: groupdomain.RoleUser, Status: groupdomain.StatusApproved}, nil
	}
	return nil, groupdomain.ErrMembershipNotFound
}

func (f *fakeRepo) UpdateGroup(_ context.Context, group *groupdomain.Group) error {
	copied := *group
	f.updated = &copied
	return nil
}

func newTestRouter(repo *fakeRepo) http.Handler {
	service := groupdomain.NewService(repo, nil, nil, nil, logger.Nop())
	h := New(service, nil, nil, 0, logger.Nop())

	r := chi.NewRouter()
	r.Put("/group/{slug}", h.UpdateGroup)
	r.Post("/group/change-role/{slug}", h.ChangeRole)
	return r
}

func serve(router http.Handler, method, path string, userID uint, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUser(req.Context(), middleware.User{ID: userID}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNonAdminGetsForbiddenBeforeBodyIsRead(t *testing.T) {
	router := newTestRouter(&fakeRepo{group: groupdomain.Group{ID: 5, Slug: "readers", OwnerID: adminID}})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"malformed json", http.MethodPut, "/group/readers", `{"name":`},
		{"unknown field", http.MethodPost, "/group/change-role/readers", `{"bogus":true}`},
		{"invalid values", http.MethodPost, "/group/change-role/readers", `{"user_id":0,"role":"king"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, memberID, tt.body)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAdminMalformedBodyIsBadRequest(t *testing.T) {
	router := newTestRouter(&fakeRepo{group: groupdomain.Group{ID: 5, Slug: "readers", OwnerID: adminID}})

	rec := serve(router, http.MethodPut, "/group/readers", adminID, `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateGroupDescriptionLimit(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        int
	}{
		{"long but allowed", strings.Repeat("a", 5000), http.StatusOK},
		{"too long", strings.Repeat("a", 5001), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{group: groupdomain.Group{ID: 5, Slug: "readers", OwnerID: adminID}}
			router := newTestRouter(repo)

			body, _ := json.Marshal(map[string]any{"name": "Readers", "description": tt.description})
			rec := serve(router, http.MethodPut, "/group/readers", adminID, string(body))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if tt.want == http.StatusOK && (repo.updated == nil || len(repo.updated.Description) != 5000) {
				t.Fatalf("expected description stored, got %+v", repo.updated)
			}
			if tt.want == http.StatusUnprocessableEntity {
				var resp struct {
					Error struct {
						Fields map[string]string `json:"fields"`
					} `json:"error"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if _, ok := resp.Error.Fields["description"]; !ok {
					t.Fatalf("expected description field error, got %s", rec.Body.String())
				}
			}
		})
	}
}
