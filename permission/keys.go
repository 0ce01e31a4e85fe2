package permission

import "slices"

// Key names one authorizable action. The set of keys is closed: it is
// exactly the key set of the canonical rule table.
type Key string

// Account
const (
	ReadAccountDetails       Key = "readAccountDetails"
	ReadAccountStatement     Key = "readAccountStatement"
	GenerateAccountStatement Key = "generateAccountStatement"
	ReadTransaction          Key = "readTransaction"
)

// Virtual IBANs
const (
	ReadVirtualIBAN   Key = "readVirtualIBAN"
	CreateVirtualIBAN Key = "createVirtualIBAN"
	CancelVirtualIBAN Key = "cancelVirtualIBAN"
)

// Standing orders
const (
	ReadStandingOrder   Key = "readStandingOrder"
	CreateStandingOrder Key = "createStandingOrder"
	CancelStandingOrder Key = "cancelStandingOrder"
)

// Credit transfers
const (
	InitiateCreditTransfer                      Key = "initiateCreditTransfer"
	InitiateCreditTransferToExistingBeneficiary Key = "initiateCreditTransferToExistingBeneficiary"
	InitiateCreditTransferToNewBeneficiary      Key = "initiateCreditTransferToNewBeneficiary"
	InitiateInternationalCreditTransfer         Key = "initiateInternationalCreditTransfer"
	CancelCreditTransfer                        Key = "cancelCreditTransfer"
)

// Trusted beneficiaries
const (
	ReadTrustedBeneficiary   Key = "readTrustedBeneficiary"
	AddTrustedBeneficiary    Key = "addTrustedBeneficiary"
	RemoveTrustedBeneficiary Key = "removeTrustedBeneficiary"
)

// Cards
const (
	ReadCard                     Key = "readCard"
	ReadOtherMembersCards        Key = "readOtherMembersCards"
	AddCard                      Key = "addCard"
	AddCardForOtherMemberships   Key = "addCardForOtherMemberships"
	PrintPhysicalCard            Key = "printPhysicalCard"
	ActivatePhysicalCard         Key = "activatePhysicalCard"
	UpdateCard                   Key = "updateCard"
	CancelCardForOtherMembership Key = "cancelCardForOtherMembership"
)

// Account memberships
const (
	ReadAccountMembership           Key = "readAccountMembership"
	AddAccountMembership            Key = "addAccountMembership"
	UpdateAccountMembership         Key = "updateAccountMembership"
	DisableAccountMembership        Key = "disableAccountMembership"
	ResumeAccountMembership         Key = "resumeAccountMembership"
	SendAccountMembershipInvitation Key = "sendAccountMembershipInvitation"
)

// Merchant profiles and payment methods
const (
	ReadMerchantProfile          Key = "readMerchantProfile"
	CreateMerchantProfile        Key = "createMerchantProfile"
	UpdateMerchantProfile        Key = "updateMerchantProfile"
	RequestMerchantPaymentMethod Key = "requestMerchantPaymentMethod"
	CancelMerchantPaymentMethod  Key = "cancelMerchantPaymentMethod"
	CreateMerchantPaymentLink    Key = "createMerchantPaymentLink"
)

// Keys returns the canonical key set, sorted.
func Keys() []Key {
	keys := make([]Key, 0, len(canonicalRules))
	for k := range canonicalRules {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ParseKey returns the canonical key named s.
func ParseKey(s string) (Key, bool) {
	k := Key(s)
	_, ok := canonicalRules[k]
	return k, ok
}
