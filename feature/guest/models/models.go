package models

import (
	"strings"
	"time"
)

// Language is the guest's preferred language for invitations and emails.
type Language string

const (
	LanguageEN Language = "en"
	LanguageES Language = "es"
)

// ParseLanguage resolves a raw language string, falling back to def when the
// value is not recognized. It is total: it never rejects a row.
func ParseLanguage(raw string, def Language) Language {
	switch Language(strings.ToLower(strings.TrimSpace(raw))) {
	case LanguageEN:
		return LanguageEN
	case LanguageES:
		return LanguageES
	default:
		return def
	}
}

// InviteType is the scope of the invitation.
type InviteType string

const (
	// InviteFull covers ceremony and reception.
	InviteFull InviteType = "full"
	// InviteParty covers the reception only.
	InviteParty InviteType = "party"
)

// ParseInviteType resolves a raw invite scope. "ceremony" is a legacy alias
// that implied full access. Anything unrecognized falls back to party, the
// safer of the two scopes.
func ParseInviteType(raw string) InviteType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "full", "ceremony":
		return InviteFull
	case "party":
		return InviteParty
	default:
		return InviteParty
	}
}

// IncludesCeremony reports whether the scope grants ceremony access.
func (t InviteType) IncludesCeremony() bool {
	return t == InviteFull
}

// Side is which side of the couple invited the guest.
type Side string

const (
	SideBride Side = "bride"
	SideGroom Side = "groom"
	SideNone  Side = ""
)

// ParseSide resolves a raw side value; anything unrecognized maps to SideNone.
func ParseSide(raw string) Side {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bride":
		return SideBride
	case "groom":
		return SideGroom
	default:
		return SideNone
	}
}

// Guest is the aggregate root of the guest list.
//
// GuestCode is the durable public identity: generated once at creation and
// never reassigned, because previously distributed access links embed it.
// Phone holds the digits-only canonical form, though legacy rows may still
// carry a leading '+'; lookups must tolerate both (see guest.Service).
//
// The RSVP block (Confirmed through NumChildren, plus Companions) is owned by
// the RSVP submission flow exclusively. Bulk imports must never write it.
type Guest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	GuestCode string `gorm:"column:guest_code;uniqueIndex;size:16" json:"guest_code"`
	FullName  string `gorm:"column:full_name" json:"full_name"`
	Email     string `gorm:"column:email;index" json:"email,omitempty"`
	Phone     string `gorm:"column:phone;index" json:"phone,omitempty"`

	// Administrative metadata, safe to overwrite via import.
	Language      Language   `gorm:"column:language;size:8" json:"language"`
	InviteType    InviteType `gorm:"column:invite_type;size:16" json:"invite_type"`
	Side          Side       `gorm:"column:side;size:8" json:"side,omitempty"`
	Relationship  string     `gorm:"column:relationship" json:"relationship,omitempty"`
	GroupID       string     `gorm:"column:group_id" json:"group_id,omitempty"`
	MaxCompanions int        `gorm:"column:max_companions" json:"max_companions"`

	// RSVP state. Confirmed is nil until the guest answers.
	Confirmed          *bool      `gorm:"column:confirmed" json:"confirmed"`
	ConfirmedAt        *time.Time `gorm:"column:confirmed_at" json:"confirmed_at,omitempty"`
	Allergies          string     `gorm:"column:allergies" json:"allergies,omitempty"`
	Notes              string     `gorm:"column:notes" json:"notes,omitempty"`
	NumAdults          int        `gorm:"column:num_adults" json:"num_adults"`
	NumChildren        int        `gorm:"column:num_children" json:"num_children"`
	NeedsTransport     bool       `gorm:"column:needs_transport" json:"needs_transport"`
	NeedsAccommodation bool       `gorm:"column:needs_accommodation" json:"needs_accommodation"`

	Companions []Companion `gorm:"constraint:OnDelete:CASCADE" json:"companions"`
}

// Attending reports whether the guest has confirmed attendance.
func (g *Guest) Attending() bool {
	return g.Confirmed != nil && *g.Confirmed
}

// Companion is owned exclusively by a Guest and replaced wholesale on each
// RSVP submission. Imports never touch companions.
type Companion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GuestID   uint      `gorm:"column:guest_id;index" json:"-"`
	Name      string    `gorm:"column:name" json:"name"`
	IsChild   bool      `gorm:"column:is_child" json:"is_child"`
	Allergies string    `gorm:"column:allergies" json:"allergies,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// RsvpLog is an append-only audit row recorded on every RSVP submission.
type RsvpLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GuestID    uint      `gorm:"column:guest_id;index" json:"guest_id"`
	Attending  bool      `gorm:"column:attending" json:"attending"`
	Companions int       `gorm:"column:companions" json:"companions"`
	CreatedAt  time.Time `json:"created_at"`
}
