package sveve_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/telemark/sveve-gateway/pkg/sveve"
)

func groupCommandURL(cmd string, params map[string]string) string {
	query := url.Values{}
	query.Set("user", "user")
	query.Set("passwd", "pass")
	query.Set("cmd", cmd)
	for key, value := range params {
		query.Set(key, value)
	}
	return "https://sveve.no/SMS/RecipientAdm?" + query.Encode()
}

func TestGroupClient_MoveMemberRetriesOnceWhenDestinationIsMissing(t *testing.T) {
	ctx := context.Background()
	client, mockClient := newTestClient(t, sveve.Options{})

	group, err := client.Group("from")
	require.NoError(t, err)

	moveURL := groupCommandURL("move_recipient", map[string]string{
		"group": "from", "new_group": "to", "number": "99999999",
	})
	createURL := groupCommandURL("add_group", map[string]string{"group": "to"})

	mockClient.On("Get", ctx, moveURL, mock.Anything).
		Return(jsonResponse(200, "Gruppen finnes ikke: to"), nil).Once()
	mockClient.On("Get", ctx, createURL, mock.Anything).
		Return(jsonResponse(200, "Gruppe opprettet"), nil).Once()
	mockClient.On("Get", ctx, moveURL, mock.Anything).
		Return(jsonResponse(200, "Mottaker flyttet"), nil).Once()

	err = group.MoveMemberTo(ctx, "to", "99999999")
	require.NoError(t, err)

	mockClient.AssertExpectations(t)
	mockClient.AssertNumberOfCalls(t, "Get", 3)
}

func TestGroupClient_NoSecondRetryWhenDestinationStaysMissing(t *testing.T) {
	ctx := context.Background()
	client, mockClient := newTestClient(t, sveve.Options{})

	group, err := client.Group("from")
	require.NoError(t, err)

	moveURL := groupCommandURL("move_group", map[string]string{"group": "from", "new_group": "to"})
	createURL := groupCommandURL("add_group", map[string]string{"group": "to"})

	mockClient.On("Get", ctx, moveURL, mock.Anything).
		Return(jsonResponse(200, "Gruppen finnes ikke: to"), nil).Twice()
	mockClient.On("Get", ctx, createURL, mock.Anything).
		Return(jsonResponse(200, "Gruppe opprettet"), nil).Once()

	err = group.MoveAllTo(ctx, "to")
	require.NoError(t, err)

	mockClient.AssertExpectations(t)
	mockClient.AssertNumberOfCalls(t, "Get", 3)
}

func TestGroupClient_AddMemberCreatesOwnGroup(t *testing.T) {
	ctx := context.Background()
	client, mockClient := newTestClient(t, sveve.Options{})

	group, err := client.Group("vip")
	require.NoError(t, err)

	addURL := groupCommandURL("add_recipient", map[string]string{
		"group": "vip", "name": "Kari", "number": "99999999",
	})
	createURL := groupCommandURL("add_group", map[string]string{"group": "vip"})

	mockClient.On("Get", ctx, addURL, mock.Anything).
		Return(jsonResponse(200, "Gruppen finnes ikke: vip"), nil).Once()
	mockClient.On("Get", ctx, createURL, mock.Anything).
		Return(jsonResponse(200, "Gruppe opprettet"), nil).Once()
	mockClient.On("Get", ctx, addURL, mock.Anything).
		Return(jsonResponse(200, "Mottaker lagt til"), nil).Once()

	err = group.AddMember(ctx, "99999999", "Kari")
	require.NoError(t, err)

	mockClient.AssertExpectations(t)
}

func TestGroupClient_NoRetryOnSuccess(t *testing.T) {
	ctx := context.Background()
	client, mockClient := newTestClient(t, sveve.Options{})

	group, err := client.Group("vip")
	require.NoError(t, err)

	addURL := groupCommandURL("add_recipient", map[string]string{
		"group": "vip", "name": "", "number": "99999999",
	})
	mockClient.On("Get", ctx, addURL, mock.Anything).
		Return(jsonResponse(200, "Mottaker lagt til"), nil).Once()

	require.NoError(t, group.AddMember(ctx, "99999999", ""))
	mockClient.AssertNumberOfCalls(t, "Get", 1)
}

func TestGroupClient_Members(t *testing.T) {
	ctx := context.Background()

	t.Run("parses name and number lines", func(t *testing.T) {
		client, mockClient := newTestClient(t, sveve.Options{})
		group, err := client.Group("vip")
		require.NoError(t, err)

		listURL := groupCommandURL("list_recipients", map[string]string{"group": "vip"})
		mockClient.On("Get", ctx, listURL, mock.Anything).
			Return(jsonResponse(200, "Kari Nordmann;99999999\n88888888\n\n"), nil)

		members, err := group.Members(ctx)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, sveve.GroupMember{Name: "Kari Nordmann", PhoneNumber: "99999999"}, members[0])
		assert.Equal(t, sveve.GroupMember{PhoneNumber: "88888888"}, members[1])
	})

	t.Run("missing group yields empty list", func(t *testing.T) {
		client, mockClient := newTestClient(t, sveve.Options{})
		group, err := client.Group("vip")
		require.NoError(t, err)

		listURL := groupCommandURL("list_recipients", map[string]string{"group": "vip"})
		mockClient.On("Get", ctx, listURL, mock.Anything).
			Return(jsonResponse(200, "Gruppen finnes ikke: vip"), nil)

		members, err := group.Members(ctx)
		require.NoError(t, err)
		assert.Empty(t, members)
	})
}

func TestGroupClient_HasMember(t *testing.T) {
	ctx := context.Background()
	client, mockClient := newTestClient(t, sveve.Options{})

	group, err := client.Group("vip")
	require.NoError(t, err)

	listURL := groupCommandURL("list_recipients", map[string]string{"group": "vip"})
	mockClient.On("Get", ctx, listURL, mock.Anything).
		Return(jsonResponse(200, "Kari;+47 99 99 99 99"), nil)

	found, err := group.HasMember(ctx, "99999999")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestGroupClient_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("exists when probe reply is not the sentinel", func(t *testing.T) {
		client, mockClient := newTestClient(t, sveve.Options{})
		group, err := client.Group("vip")
		require.NoError(t, err)

		mockClient.On("Get", ctx, mock.MatchedBy(func(u string) bool {
			return strings.Contains(u, "cmd=delete_recipient") && strings.Contains(u, "group=vip")
		}), mock.Anything).Return(jsonResponse(200, "Mottaker finnes ikke"), nil)

		exists, err := group.Exists(ctx)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("missing when probe reply is the sentinel", func(t *testing.T) {
		client, mockClient := newTestClient(t, sveve.Options{})
		group, err := client.Group("vip")
		require.NoError(t, err)

		mockClient.On("Get", ctx, mock.MatchedBy(func(u string) bool {
			return strings.Contains(u, "cmd=delete_recipient") && strings.Contains(u, "group=vip")
		}), mock.Anything).Return(jsonResponse(200, "Gruppen finnes ikke: vip"), nil)

		exists, err := group.Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGroupClient_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	client, mockClient := newTestClient(t, sveve.Options{})

	group, err := client.Group("vip")
	require.NoError(t, err)

	listURL := groupCommandURL("list_recipients", map[string]string{"group": "vip"})
	mockClient.On("Get", ctx, listURL, mock.Anything).
		Return(jsonResponse(200, "Feil brukernavn/passord"), nil)

	_, err = group.Members(ctx)
	assert.ErrorIs(t, err, sveve.ErrInvalidCredentials)
}

func TestClient_Groups(t *testing.T) {
	ctx := context.Background()
	client, mockClient := newTestClient(t, sveve.Options{})

	listURL := groupCommandURL("list_groups", nil)
	mockClient.On("Get", ctx, listURL, mock.Anything).
		Return(jsonResponse(200, "vip\ncustomers\n"), nil)

	groups, err := client.Groups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"vip", "customers"}, groups)
}

func TestClient_GroupNameRequired(t *testing.T) {
	client, _ := newTestClient(t, sveve.Options{})

	_, err := client.Group("   ")
	assert.Error(t, err)
}
