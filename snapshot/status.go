package snapshot

import (
	"encoding/json"
	"strings"

	"github.com/kbukum/accessmatrix/util"
)

// MembershipStatus is the lifecycle state of an account membership.
type MembershipStatus string

const (
	StatusUnknown          MembershipStatus = ""
	StatusEnabled          MembershipStatus = "Enabled"
	StatusBindingUserError MembershipStatus = "BindingUserError"
	StatusConsentPending   MembershipStatus = "ConsentPending"
	StatusInvitationSent   MembershipStatus = "InvitationSent"
	StatusSuspended        MembershipStatus = "Suspended"
	StatusDisabled         MembershipStatus = "Disabled"
)

var knownStatuses = []MembershipStatus{
	StatusEnabled,
	StatusBindingUserError,
	StatusConsentPending,
	StatusInvitationSent,
	StatusSuspended,
	StatusDisabled,
}

const (
	typenamePrefix = "AccountMembership"
	typenameSuffix = "StatusInfo"
)

// ParseStatus maps a status name to a MembershipStatus. Unknown names map to
// StatusUnknown.
func ParseStatus(s string) MembershipStatus {
	for _, st := range knownStatuses {
		if string(st) == s {
			return st
		}
	}
	return StatusUnknown
}

// statusFromTypename derives the status from a GraphQL union member name such
// as "AccountMembershipBindingUserErrorStatusInfo".
func statusFromTypename(typename string) MembershipStatus {
	if !strings.HasPrefix(typename, typenamePrefix) || !strings.HasSuffix(typename, typenameSuffix) {
		return StatusUnknown
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(typename, typenamePrefix), typenameSuffix)
	return ParseStatus(inner)
}

// Typename returns the GraphQL union member name for the status.
func (s MembershipStatus) Typename() string {
	if s == StatusUnknown {
		return ""
	}
	return typenamePrefix + string(s) + typenameSuffix
}

// IdentityMismatch lists which identity checks failed when binding the
// invited user to the membership.
type IdentityMismatch struct {
	BirthDate     bool `json:"birthDateMatchError"`
	FirstName     bool `json:"firstNameMatchError"`
	LastName      bool `json:"lastNameMatchError"`
	PhoneNumber   bool `json:"phoneNumberMatchError"`
	EmailVerified bool `json:"emailVerifiedMatchError"`
	IDVerified    bool `json:"idVerifiedMatchError"`
}

// StatusInfo is the membership status union. Status is the discriminant; the
// remaining fields are only populated for the variants that carry them:
// Mismatch for BindingUserError, Reason for Suspended and Disabled.
type StatusInfo struct {
	Status   MembershipStatus
	Mismatch *IdentityMismatch
	Reason   string
}

type statusInfoWire struct {
	Typename string  `json:"__typename,omitempty"`
	Status   string  `json:"status,omitempty"`
	Reason   *string `json:"reason,omitempty"`

	BirthDateMatchError     *bool `json:"birthDateMatchError,omitempty"`
	FirstNameMatchError     *bool `json:"firstNameMatchError,omitempty"`
	LastNameMatchError      *bool `json:"lastNameMatchError,omitempty"`
	PhoneNumberMatchError   *bool `json:"phoneNumberMatchError,omitempty"`
	EmailVerifiedMatchError *bool `json:"emailVerifiedMatchError,omitempty"`
	IDVerifiedMatchError    *bool `json:"idVerifiedMatchError,omitempty"`
}

// UnmarshalJSON decodes the union. "status" wins over "__typename" when both
// are present.
func (si *StatusInfo) UnmarshalJSON(data []byte) error {
	var w statusInfoWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	status := ParseStatus(w.Status)
	if w.Status == "" {
		status = statusFromTypename(w.Typename)
	}

	*si = StatusInfo{Status: status}
	switch status {
	case StatusBindingUserError:
		si.Mismatch = &IdentityMismatch{
			BirthDate:     util.Deref(w.BirthDateMatchError),
			FirstName:     util.Deref(w.FirstNameMatchError),
			LastName:      util.Deref(w.LastNameMatchError),
			PhoneNumber:   util.Deref(w.PhoneNumberMatchError),
			EmailVerified: util.Deref(w.EmailVerifiedMatchError),
			IDVerified:    util.Deref(w.IDVerifiedMatchError),
		}
	case StatusSuspended, StatusDisabled:
		si.Reason = util.Deref(w.Reason)
	}
	return nil
}

// MarshalJSON encodes the union with its __typename.
func (si StatusInfo) MarshalJSON() ([]byte, error) {
	w := statusInfoWire{
		Typename: si.Status.Typename(),
		Status:   string(si.Status),
	}
	if si.Mismatch != nil {
		w.BirthDateMatchError = &si.Mismatch.BirthDate
		w.FirstNameMatchError = &si.Mismatch.FirstName
		w.LastNameMatchError = &si.Mismatch.LastName
		w.PhoneNumberMatchError = &si.Mismatch.PhoneNumber
		w.EmailVerifiedMatchError = &si.Mismatch.EmailVerified
		w.IDVerifiedMatchError = &si.Mismatch.IDVerified
	}
	if si.Reason != "" {
		w.Reason = &si.Reason
	}
	return json.Marshal(w)
}
