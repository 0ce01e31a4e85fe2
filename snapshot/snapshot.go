package snapshot

import (
	"encoding/json"

	"github.com/kbukum/accessmatrix/errors"
)

// PaymentLevel is the payment limit tier of an account.
type PaymentLevel string

const (
	PaymentLevelLimited   PaymentLevel = "Limited"
	PaymentLevelUnlimited PaymentLevel = "Unlimited"
)

// Connection is the subset of a GraphQL connection the rules read.
type Connection struct {
	TotalCount *int `json:"totalCount,omitempty"`
}

// Account is the bank account a membership belongs to.
type Account struct {
	PaymentLevel     *PaymentLevel `json:"paymentLevel,omitempty"`
	MerchantProfiles *Connection   `json:"merchantProfiles,omitempty"`
}

// AccountMembership describes a user's relationship to a bank account.
type AccountMembership struct {
	CanViewAccount             *bool       `json:"canViewAccount,omitempty"`
	CanManageCards             *bool       `json:"canManageCards,omitempty"`
	CanInitiatePayments        *bool       `json:"canInitiatePayments,omitempty"`
	CanManageBeneficiaries     *bool       `json:"canManageBeneficiaries,omitempty"`
	CanManageAccountMembership *bool       `json:"canManageAccountMembership,omitempty"`
	LegalRepresentative        *bool       `json:"legalRepresentative,omitempty"`
	StatusInfo                 *StatusInfo `json:"statusInfo,omitempty"`
	AllCards                   *Connection `json:"allCards,omitempty"`
	Account                    *Account    `json:"account,omitempty"`
}

// Settings are the product-level feature toggles of the banking project.
type Settings struct {
	CanViewAccountDetails                 *bool `json:"canViewAccountDetails,omitempty"`
	CanViewAccountStatement               *bool `json:"canViewAccountStatement,omitempty"`
	CanManageVirtualIbans                 *bool `json:"canManageVirtualIbans,omitempty"`
	CanOrderVirtualCards                  *bool `json:"canOrderVirtualCards,omitempty"`
	CanOrderPhysicalCards                 *bool `json:"canOrderPhysicalCards,omitempty"`
	CanCreateMerchantProfile              *bool `json:"canCreateMerchantProfile,omitempty"`
	CanRequestMerchantPaymentMethods      *bool `json:"canRequestMerchantPaymentMethods,omitempty"`
	CanInitiatePaymentsToNewBeneficiaries *bool `json:"canInitiatePaymentsToNewBeneficiaries,omitempty"`
	CanAddNewMembers                      *bool `json:"canAddNewMembers,omitempty"`
}

// Snapshot is the input of a permission evaluation. It is built per request
// or per render and must not be mutated while being evaluated.
type Snapshot struct {
	AccountMembership *AccountMembership `json:"accountMembership"`
	Settings          *Settings          `json:"settings"`
}

// Parse decodes a {accountMembership, settings} JSON object. Unknown fields
// are ignored; a null or missing settings object is accepted. A missing
// accountMembership is rejected.
func Parse(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.InvalidInput("snapshot", err.Error()).WithCause(err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate enforces the only mandatory part of a snapshot.
func (s *Snapshot) Validate() error {
	if s == nil || s.AccountMembership == nil {
		return errors.MissingField("accountMembership")
	}
	return nil
}
