package permission

import (
	"github.com/kbukum/accessmatrix/authz"
	"github.com/kbukum/accessmatrix/snapshot"
)

// Status groups.
var (
	statusActive  = authz.OneOf(snapshot.FieldStatus, authz.String(string(snapshot.StatusEnabled)))
	statusVisible = authz.OneOf(snapshot.FieldStatus,
		authz.String(string(snapshot.StatusEnabled)),
		authz.String(string(snapshot.StatusBindingUserError)),
	)
)

// Membership capabilities.
var (
	canViewAccount             = authz.IsTrue(snapshot.FieldCanViewAccount)
	canManageCards             = authz.IsTrue(snapshot.FieldCanManageCards)
	canInitiatePayments        = authz.IsTrue(snapshot.FieldCanInitiatePayments)
	canManageBeneficiaries     = authz.IsTrue(snapshot.FieldCanManageBeneficiaries)
	canManageAccountMembership = authz.IsTrue(snapshot.FieldCanManageAccountMembership)
	legalRepresentative        = authz.IsTrue(snapshot.FieldLegalRepresentative)

	hasCards            = authz.Compare(snapshot.FieldAllCardsTotal, authz.GreaterThan, 0)
	hasMerchantProfiles = authz.Compare(snapshot.FieldMerchantProfilesTotal, authz.GreaterThan, 0)
	unlimitedPayments   = authz.Equals(snapshot.FieldPaymentLevel, authz.String(string(snapshot.PaymentLevelUnlimited)))
)

// Product settings.
var (
	settingsCanViewAccountDetails                 = authz.IsTrue(snapshot.FieldSettingsCanViewAccountDetails)
	settingsCanViewAccountStatement               = authz.IsTrue(snapshot.FieldSettingsCanViewAccountStatement)
	settingsCanManageVirtualIbans                 = authz.IsTrue(snapshot.FieldSettingsCanManageVirtualIbans)
	settingsCanOrderVirtualCards                  = authz.IsTrue(snapshot.FieldSettingsCanOrderVirtualCards)
	settingsCanOrderPhysicalCards                 = authz.IsTrue(snapshot.FieldSettingsCanOrderPhysicalCards)
	settingsCanCreateMerchantProfile              = authz.IsTrue(snapshot.FieldSettingsCanCreateMerchantProfile)
	settingsCanRequestMerchantPaymentMethods      = authz.IsTrue(snapshot.FieldSettingsCanRequestMerchantPaymentMethods)
	settingsCanInitiatePaymentsToNewBeneficiaries = authz.IsTrue(snapshot.FieldSettingsCanInitiatePaymentsToNewBeneficiaries)
	settingsCanAddNewMembers                      = authz.IsTrue(snapshot.FieldSettingsCanAddNewMembers)
)

// Approval paths shared by several keys.
var (
	paymentToExistingBeneficiary = authz.All(canViewAccount, canInitiatePayments, statusActive)
	paymentToNewBeneficiary      = authz.All(canInitiatePayments, canManageBeneficiaries, statusActive, settingsCanInitiatePaymentsToNewBeneficiaries)
	manageOtherMembersCards      = authz.All(canManageCards, canManageAccountMembership, statusActive)
)

// rule is the OR of its alternatives; each alternative is an AND-group.
func rule(alternatives ...authz.Predicate) authz.Predicate {
	return authz.Any(alternatives...)
}

// when builds one alternative.
func when(constraints ...authz.Predicate) authz.Predicate {
	return authz.All(constraints...)
}

// canonicalRules is the business rule table. Rows are domain data owned by
// the product team; change them only together with the rule owners.
var canonicalRules = map[Key]authz.Predicate{
	ReadAccountDetails:       rule(when(canViewAccount, statusVisible, settingsCanViewAccountDetails)),
	ReadAccountStatement:     rule(when(canViewAccount, statusVisible, settingsCanViewAccountStatement)),
	GenerateAccountStatement: rule(when(canViewAccount, statusActive, settingsCanViewAccountStatement)),
	ReadTransaction:          rule(when(canViewAccount, statusVisible)),

	ReadVirtualIBAN:   rule(when(canViewAccount, statusVisible, settingsCanViewAccountDetails)),
	CreateVirtualIBAN: rule(when(legalRepresentative, statusActive, settingsCanManageVirtualIbans)),
	CancelVirtualIBAN: rule(when(legalRepresentative, statusActive, settingsCanManageVirtualIbans)),

	ReadStandingOrder:   rule(when(canViewAccount, canInitiatePayments, statusVisible)),
	CreateStandingOrder: rule(when(canViewAccount, canInitiatePayments, statusActive)),
	CancelStandingOrder: rule(when(canViewAccount, canInitiatePayments, statusActive)),

	InitiateCreditTransfer:                      rule(paymentToExistingBeneficiary, paymentToNewBeneficiary),
	InitiateCreditTransferToExistingBeneficiary: rule(paymentToExistingBeneficiary),
	InitiateCreditTransferToNewBeneficiary:      rule(paymentToNewBeneficiary),
	InitiateInternationalCreditTransfer: rule(when(canInitiatePayments, canManageBeneficiaries, statusActive,
		unlimitedPayments, settingsCanInitiatePaymentsToNewBeneficiaries)),
	CancelCreditTransfer: rule(when(canViewAccount, canInitiatePayments, statusActive)),

	ReadTrustedBeneficiary:   rule(when(canManageBeneficiaries, statusVisible)),
	AddTrustedBeneficiary:    rule(when(canManageBeneficiaries, statusActive, settingsCanInitiatePaymentsToNewBeneficiaries)),
	RemoveTrustedBeneficiary: rule(when(canManageBeneficiaries, statusActive)),

	ReadCard: rule(
		when(hasCards),
		when(canManageCards, statusActive, settingsCanOrderVirtualCards),
		manageOtherMembersCards,
	),
	ReadOtherMembersCards:        rule(manageOtherMembersCards),
	AddCard:                      rule(when(canManageCards, statusActive, settingsCanOrderVirtualCards)),
	AddCardForOtherMemberships:   rule(when(canManageCards, canManageAccountMembership, statusActive, settingsCanOrderVirtualCards)),
	PrintPhysicalCard:            rule(when(canManageCards, statusActive, settingsCanOrderPhysicalCards)),
	ActivatePhysicalCard:         rule(when(canManageCards, statusActive)),
	UpdateCard:                   rule(when(canManageCards, statusActive)),
	CancelCardForOtherMembership: rule(manageOtherMembersCards),

	ReadAccountMembership:           rule(when(canManageAccountMembership, statusVisible)),
	AddAccountMembership:            rule(when(canManageAccountMembership, statusActive, settingsCanAddNewMembers)),
	UpdateAccountMembership:         rule(when(canManageAccountMembership, statusActive)),
	DisableAccountMembership:        rule(when(canManageAccountMembership, statusActive)),
	ResumeAccountMembership:         rule(when(canManageAccountMembership, statusActive)),
	SendAccountMembershipInvitation: rule(when(canManageAccountMembership, statusActive, settingsCanAddNewMembers)),

	ReadMerchantProfile: rule(
		when(canViewAccount, statusVisible, hasMerchantProfiles),
		when(legalRepresentative, statusActive, settingsCanCreateMerchantProfile),
	),
	CreateMerchantProfile:        rule(when(legalRepresentative, statusActive, settingsCanCreateMerchantProfile)),
	UpdateMerchantProfile:        rule(when(legalRepresentative, statusActive, hasMerchantProfiles)),
	RequestMerchantPaymentMethod: rule(when(legalRepresentative, statusActive, hasMerchantProfiles, settingsCanRequestMerchantPaymentMethods)),
	CancelMerchantPaymentMethod:  rule(when(legalRepresentative, statusActive, hasMerchantProfiles)),
	CreateMerchantPaymentLink:    rule(when(canViewAccount, statusActive, hasMerchantProfiles)),
}
