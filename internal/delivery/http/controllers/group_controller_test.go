package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtshare/internal/delivery/http/helpers"
	"courtshare/internal/domain"
)

func TestGroupController_CreateGroup(t *testing.T) {
	tests := []struct {
		name       string
		user       *domain.Identity
		svcErr     error
		wantStatus int
		wantField  string
	}{
		{"created", testUser, nil, http.StatusCreated, ""},
		{"short name", testUser, domain.NewValidationError("name", "must be at least 3 characters"), http.StatusBadRequest, "name"},
		{"anonymous", nil, domain.ErrUnauthenticated, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeGroupService{err: tt.svcErr}
			c := NewGroupController(testLogger, svc, nil)
			body := CreateGroupRequest{Name: "Shuttlers", Description: "Weekly social doubles"}
			req := httptest.NewRequest(http.MethodPost, "/groups", jsonBody(t, body))

			rr := serve("POST /groups", c.CreateGroup, req, tt.user)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "Shuttlers", svc.lastInput.Name)
			var g domain.Group
			apiErr := decodeEnvelope(t, rr, &g)
			if tt.wantStatus != http.StatusCreated {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantField, apiErr.Field)
				return
			}
			assert.Equal(t, testGroupID, g.ID)
		})
	}
}

func TestGroupController_GetGroup(t *testing.T) {
	svc := &fakeGroupService{detail: &domain.GroupDetail{
		Group:         &domain.Group{ID: testGroupID, Name: "Shuttlers"},
		FollowerCount: 12,
		IsFollowing:   true,
	}}
	views := &fakeViews{versions: map[string]uint64{}}
	c := NewGroupController(testLogger, svc, views)

	rr := serve("GET /groups/{groupID}", c.GetGroup, httptest.NewRequest(http.MethodGet, "/groups/"+testGroupID, nil), testUser)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("ETag"))
	var detail domain.GroupDetail
	require.Nil(t, decodeEnvelope(t, rr, &detail))
	assert.Equal(t, 12, detail.FollowerCount)
	assert.True(t, detail.IsFollowing)
	assert.Equal(t, testGroupID, svc.lastGroupID)
	assert.Equal(t, testUser, svc.lastRequester)
}

func TestGroupController_GetGroup_NotFound(t *testing.T) {
	svc := &fakeGroupService{err: domain.ErrNotFound}
	c := NewGroupController(testLogger, svc, nil)

	rr := serve("GET /groups/{groupID}", c.GetGroup, httptest.NewRequest(http.MethodGet, "/groups/"+testGroupID, nil), nil)

	require.Equal(t, http.StatusNotFound, rr.Code)
	apiErr := decodeEnvelope(t, rr, nil)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeNotFound, apiErr.Code)
}

func TestGroupController_ToggleFollow(t *testing.T) {
	svc := &fakeGroupService{following: true}
	c := NewGroupController(testLogger, svc, nil)

	rr := serve("POST /groups/{groupID}/follow", c.ToggleFollow, httptest.NewRequest(http.MethodPost, "/groups/"+testGroupID+"/follow", nil), testUser)

	require.Equal(t, http.StatusOK, rr.Code)
	var data FollowResponse
	require.Nil(t, decodeEnvelope(t, rr, &data))
	assert.True(t, data.Following)
	assert.Equal(t, testUser, svc.lastRequester)
}
