package snapshot

import (
	"slices"

	"github.com/kbukum/accessmatrix/authz"
)

// Membership fields.
const (
	FieldCanViewAccount             authz.Field = "accountMembership.canViewAccount"
	FieldCanManageCards             authz.Field = "accountMembership.canManageCards"
	FieldCanInitiatePayments        authz.Field = "accountMembership.canInitiatePayments"
	FieldCanManageBeneficiaries     authz.Field = "accountMembership.canManageBeneficiaries"
	FieldCanManageAccountMembership authz.Field = "accountMembership.canManageAccountMembership"
	FieldLegalRepresentative        authz.Field = "accountMembership.legalRepresentative"
	FieldStatus                     authz.Field = "accountMembership.statusInfo.status"
	FieldAllCardsTotal              authz.Field = "accountMembership.allCards.totalCount"
	FieldPaymentLevel               authz.Field = "accountMembership.account.paymentLevel"
	FieldMerchantProfilesTotal      authz.Field = "accountMembership.account.merchantProfiles.totalCount"
)

// Settings fields.
const (
	FieldSettingsCanViewAccountDetails                 authz.Field = "settings.canViewAccountDetails"
	FieldSettingsCanViewAccountStatement               authz.Field = "settings.canViewAccountStatement"
	FieldSettingsCanManageVirtualIbans                 authz.Field = "settings.canManageVirtualIbans"
	FieldSettingsCanOrderVirtualCards                  authz.Field = "settings.canOrderVirtualCards"
	FieldSettingsCanOrderPhysicalCards                 authz.Field = "settings.canOrderPhysicalCards"
	FieldSettingsCanCreateMerchantProfile              authz.Field = "settings.canCreateMerchantProfile"
	FieldSettingsCanRequestMerchantPaymentMethods      authz.Field = "settings.canRequestMerchantPaymentMethods"
	FieldSettingsCanInitiatePaymentsToNewBeneficiaries authz.Field = "settings.canInitiatePaymentsToNewBeneficiaries"
	FieldSettingsCanAddNewMembers                      authz.Field = "settings.canAddNewMembers"
)

type accessor func(s *Snapshot) (authz.Value, bool)

var accessors = map[authz.Field]accessor{
	FieldCanViewAccount:             membershipFlag(func(m *AccountMembership) *bool { return m.CanViewAccount }),
	FieldCanManageCards:             membershipFlag(func(m *AccountMembership) *bool { return m.CanManageCards }),
	FieldCanInitiatePayments:        membershipFlag(func(m *AccountMembership) *bool { return m.CanInitiatePayments }),
	FieldCanManageBeneficiaries:     membershipFlag(func(m *AccountMembership) *bool { return m.CanManageBeneficiaries }),
	FieldCanManageAccountMembership: membershipFlag(func(m *AccountMembership) *bool { return m.CanManageAccountMembership }),
	FieldLegalRepresentative:        membershipFlag(func(m *AccountMembership) *bool { return m.LegalRepresentative }),
	FieldStatus:                     resolveStatus,
	FieldAllCardsTotal:              resolveAllCardsTotal,
	FieldPaymentLevel:               resolvePaymentLevel,
	FieldMerchantProfilesTotal:      resolveMerchantProfilesTotal,

	FieldSettingsCanViewAccountDetails:                 settingsFlag(func(st *Settings) *bool { return st.CanViewAccountDetails }),
	FieldSettingsCanViewAccountStatement:               settingsFlag(func(st *Settings) *bool { return st.CanViewAccountStatement }),
	FieldSettingsCanManageVirtualIbans:                 settingsFlag(func(st *Settings) *bool { return st.CanManageVirtualIbans }),
	FieldSettingsCanOrderVirtualCards:                  settingsFlag(func(st *Settings) *bool { return st.CanOrderVirtualCards }),
	FieldSettingsCanOrderPhysicalCards:                 settingsFlag(func(st *Settings) *bool { return st.CanOrderPhysicalCards }),
	FieldSettingsCanCreateMerchantProfile:              settingsFlag(func(st *Settings) *bool { return st.CanCreateMerchantProfile }),
	FieldSettingsCanRequestMerchantPaymentMethods:      settingsFlag(func(st *Settings) *bool { return st.CanRequestMerchantPaymentMethods }),
	FieldSettingsCanInitiatePaymentsToNewBeneficiaries: settingsFlag(func(st *Settings) *bool { return st.CanInitiatePaymentsToNewBeneficiaries }),
	FieldSettingsCanAddNewMembers:                      settingsFlag(func(st *Settings) *bool { return st.CanAddNewMembers }),
}

// Resolve implements authz.Resolver. It reports ok=false for unknown fields
// and for any nil link along the path, including a nil snapshot.
func (s *Snapshot) Resolve(f authz.Field) (authz.Value, bool) {
	if s == nil {
		return authz.Value{}, false
	}
	fn, ok := accessors[f]
	if !ok {
		return authz.Value{}, false
	}
	return fn(s)
}

// KnownField reports whether f can be resolved against a snapshot.
func KnownField(f authz.Field) bool {
	_, ok := accessors[f]
	return ok
}

// Fields returns every resolvable field, sorted.
func Fields() []authz.Field {
	out := make([]authz.Field, 0, len(accessors))
	for f := range accessors {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

func membershipFlag(get func(*AccountMembership) *bool) accessor {
	return func(s *Snapshot) (authz.Value, bool) {
		if s.AccountMembership == nil {
			return authz.Value{}, false
		}
		return boolValue(get(s.AccountMembership))
	}
}

func settingsFlag(get func(*Settings) *bool) accessor {
	return func(s *Snapshot) (authz.Value, bool) {
		if s.Settings == nil {
			return authz.Value{}, false
		}
		return boolValue(get(s.Settings))
	}
}

func boolValue(b *bool) (authz.Value, bool) {
	if b == nil {
		return authz.Value{}, false
	}
	return authz.Bool(*b), true
}

func countValue(c *Connection) (authz.Value, bool) {
	if c == nil || c.TotalCount == nil {
		return authz.Value{}, false
	}
	return authz.Int(*c.TotalCount), true
}

func resolveStatus(s *Snapshot) (authz.Value, bool) {
	m := s.AccountMembership
	if m == nil || m.StatusInfo == nil || m.StatusInfo.Status == StatusUnknown {
		return authz.Value{}, false
	}
	return authz.String(string(m.StatusInfo.Status)), true
}

func resolveAllCardsTotal(s *Snapshot) (authz.Value, bool) {
	if s.AccountMembership == nil {
		return authz.Value{}, false
	}
	return countValue(s.AccountMembership.AllCards)
}

func resolvePaymentLevel(s *Snapshot) (authz.Value, bool) {
	m := s.AccountMembership
	if m == nil || m.Account == nil || m.Account.PaymentLevel == nil {
		return authz.Value{}, false
	}
	return authz.String(string(*m.Account.PaymentLevel)), true
}

func resolveMerchantProfilesTotal(s *Snapshot) (authz.Value, bool) {
	m := s.AccountMembership
	if m == nil || m.Account == nil {
		return authz.Value{}, false
	}
	return countValue(m.Account.MerchantProfiles)
}
