package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/accessmatrix/errors"
	"github.com/kbukum/accessmatrix/snapshot"
	"github.com/kbukum/accessmatrix/util"
)

func TestClientProfile_SelectsEverything(t *testing.T) {
	m := Evaluate(everything(snapshot.StatusEnabled))
	selected := ClientProfile().Select(m)
	assert.Len(t, selected, len(Keys()))
	assert.Equal(t, m.Strings(), selected)
}

func TestServerProfile_Aliases(t *testing.T) {
	a := assert.New(t)
	p := ServerProfile()

	m := Evaluate(&snapshot.Snapshot{AccountMembership: &snapshot.AccountMembership{
		CanManageCards: util.Ptr(true),
		StatusInfo:     enabled(),
	}})
	selected := p.Select(m)
	a.Equal(map[string]bool{"cancelCard": false, "updateCard": true}, selected)

	a.True(p.Gates("cancelCard"))
	a.False(p.Gates("readCard"))

	k, ok := p.Resolve(Default().Table(), "cancelCard")
	a.True(ok)
	a.Equal(CancelCardForOtherMembership, k)

	_, ok = p.Resolve(Default().Table(), "readCard")
	a.False(ok, "server profile includes no canonical keys")

	require.NoError(t, p.Validate(Default().Table()))
}

func TestProfile_Authorize(t *testing.T) {
	ev := Default()
	s := everything(snapshot.StatusEnabled)

	assert.True(t, ServerProfile().Authorize(ev, s, "cancelCard"))
	assert.False(t, ServerProfile().Authorize(ev, s, "addCard"))
	assert.True(t, ClientProfile().Authorize(ev, s, "addCard"))
	assert.False(t, ClientProfile().Authorize(ev, s, "cancelCard"))
	assert.False(t, ClientProfile().Authorize(ev, nil, "addCard"))
}

func TestProfile_IncludePatterns(t *testing.T) {
	p := Profile{Name: "cards", Include: []string{"*Card", "readCard*"}}
	selected := p.Select(Evaluate(everything(snapshot.StatusEnabled)))

	assert.Contains(t, selected, "addCard")
	assert.Contains(t, selected, "updateCard")
	assert.Contains(t, selected, "readCard")
	assert.NotContains(t, selected, "readOtherMembersCards")
	assert.NotContains(t, selected, "readTransaction")

	checker := p.Checker(Default().Table(), Evaluate(everything(snapshot.StatusEnabled)))
	assert.True(t, checker.IsAuthorized("addCard"))
	assert.False(t, checker.IsAuthorized("readTransaction"))
}

func TestProfile_ValidateRejectsUnknownTarget(t *testing.T) {
	p := Profile{Name: "broken", Aliases: map[string]Key{"cancelCard": "cancelCardEverywhere"}}
	err := p.Validate(Default().Table())
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidInput, appErr.Code)
	assert.Contains(t, appErr.Message, "broken.aliases.cancelCard")
}

func TestBuildProfiles(t *testing.T) {
	table := Default().Table()

	profiles, err := BuildProfiles(table, nil)
	require.NoError(t, err)
	assert.Len(t, profiles, 2)

	profiles, err = BuildProfiles(table, []ProfileConfig{
		{
			Name: ProfileServer,
			Aliases: []AliasConfig{
				{Name: "cancelCard", Permission: "cancelCardForOtherMembership"},
				{Name: "printCard", Permission: "printPhysicalCard"},
			},
		},
		{Name: "merchant", Include: []string{"*Merchant*"}},
	})
	require.NoError(t, err)
	assert.Len(t, profiles, 3)

	server, ok := profiles.Get(ProfileServer)
	require.True(t, ok)
	assert.Equal(t, PrintPhysicalCard, server.Aliases["printCard"])
	assert.False(t, server.Gates("updateCard"), "configured profile replaces the built-in one")

	_, ok = profiles.Get("missing")
	assert.False(t, ok)
}

func TestBuildProfiles_Invalid(t *testing.T) {
	table := Default().Table()
	tests := []struct {
		name    string
		configs []ProfileConfig
	}{
		{"unknown alias target", []ProfileConfig{{Name: "x", Aliases: []AliasConfig{{Name: "a", Permission: "nope"}}}}},
		{"empty name", []ProfileConfig{{Include: []string{"*"}}}},
		{"duplicate", []ProfileConfig{{Name: "x"}, {Name: "x"}}},
		{"empty alias name", []ProfileConfig{{Name: "x", Aliases: []AliasConfig{{Permission: "readCard"}}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildProfiles(table, tc.configs)
			assert.Error(t, err)
		})
	}
}
