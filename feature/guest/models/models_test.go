package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LanguageES, ParseLanguage("es", LanguageEN))
	assert.Equal(t, LanguageES, ParseLanguage(" ES ", LanguageEN))
	assert.Equal(t, LanguageEN, ParseLanguage("en", LanguageES))
	assert.Equal(t, LanguageES, ParseLanguage("fr", LanguageES))
	assert.Equal(t, LanguageEN, ParseLanguage("", LanguageEN))
}

func TestParseInviteType(t *testing.T) {
	assert.Equal(t, InviteFull, ParseInviteType("full"))
	assert.Equal(t, InviteFull, ParseInviteType("Ceremony"))
	assert.Equal(t, InviteParty, ParseInviteType("party"))
	assert.Equal(t, InviteParty, ParseInviteType("banquet"))
	assert.Equal(t, InviteParty, ParseInviteType(""))

	assert.True(t, InviteFull.IncludesCeremony())
	assert.False(t, InviteParty.IncludesCeremony())
}

func TestParseSide(t *testing.T) {
	assert.Equal(t, SideBride, ParseSide("BRIDE"))
	assert.Equal(t, SideGroom, ParseSide("groom"))
	assert.Equal(t, SideNone, ParseSide("both"))
	assert.Equal(t, SideNone, ParseSide(""))
}

func TestGuestAttending(t *testing.T) {
	var g Guest
	assert.False(t, g.Attending())

	no := false
	g.Confirmed = &no
	assert.False(t, g.Attending())

	yes := true
	g.Confirmed = &yes
	assert.True(t, g.Attending())
}

func alwaysUnique(string) bool { return true }

func TestGenerateGuestCode_Prefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"Ana García López", "ANAGARC"},
		{"José", "JOSE"},
		{"li wu", "LIWU"},
		{"  ", "INVITAD"},
		{"1234 !!", "INVITAD"},
		{"ñoño", "NONO"},
	}

	for _, tt := range tests {
		code := GenerateGuestCode(tt.name, alwaysUnique)
		parts := strings.SplitN(code, "-", 2)
		assert.Equal(t, tt.prefix, parts[0], "name %q", tt.name)
		assert.Len(t, parts[1], 4, "name %q", tt.name)
		for _, r := range parts[1] {
			assert.Contains(t, codeAlphabet, string(r))
		}
	}
}

func TestGenerateGuestCode_RetriesOnCollision(t *testing.T) {
	rejections := 3
	code := GenerateGuestCode("Ana García", func(string) bool {
		if rejections > 0 {
			rejections--
			return false
		}
		return true
	})
	assert.Equal(t, 0, rejections)
	assert.True(t, strings.HasPrefix(code, "ANAGARC-"))
}
