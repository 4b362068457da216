package team

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hackfest/server/internal/module/auth"
)

func TestHandler_CreateTeam_ReturnsRoster(t *testing.T) {
	gin.SetMode(gin.TestMode)

	leaderID := uuid.New()
	repo := new(MockRepository)
	svc := newTestService(repo, nil)
	h := NewHandler(svc, "http://localhost")

	repo.On("GetMember", mock.Anything, leaderID).Return(freeMember(leaderID), nil)
	repo.On("GetTeamByName", mock.Anything, "Rocket").Return(nil, ErrTeamNotFound)
	repo.On("BeginTx", mock.Anything).Return(stubTx(), nil)
	repo.On("CreateTeam", mock.Anything, mock.AnythingOfType("*team.Team")).Return(nil)
	repo.On("StampMembership", mock.Anything, leaderID, mock.AnythingOfType("uuid.UUID"), RoleLeader).Return(nil)
	repo.On("CancelPendingRequestsForUser", mock.Anything, leaderID, (*uuid.UUID)(nil)).Return(nil)

	// Roster fetch after creation
	teamID := uuid.New()
	repo.On("GetTeamByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(&Team{
		ID: teamID, Name: "Rocket", LeaderID: leaderID, MaxMembers: 4, Status: TeamStatusForming, Open: true,
	}, nil)
	leader := teamMember(leaderID, teamID, RoleLeader)
	leader.Name = "Ada"
	repo.On("ListMembers", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return([]*Member{leader}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/teams",
		strings.NewReader(`{"name":"Rocket","max_members":4}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(auth.ContextUserID, leaderID)

	h.CreateTeam(c)

	require.Equal(t, 201, w.Code)

	var body TeamResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.MemberCount)
	require.Len(t, body.Members, 1)
	assert.Equal(t, leaderID, body.Members[0].ID)
	assert.Equal(t, string(RoleLeader), string(body.Members[0].Role))
}
