package contract

import (
	"strings"

	"github.com/theapemachine/contract-search/pkg/errors"
)

/*
ClauseType is one of the recognized clause categories. The same labels are
written by the loader onto ContractClause.type and ClauseType.name, so a
value is only meaningful when it is a member of ClauseTypes.
*/
type ClauseType string

const (
	AntiAssignment            ClauseType = "Anti-Assignment"
	CompetitiveRestriction    ClauseType = "Competitive Restriction Exception"
	NonCompete                ClauseType = "Non-Compete"
	Exclusivity               ClauseType = "Exclusivity"
	NoSolicitCustomers        ClauseType = "No-Solicit of Customers"
	NoSolicitEmployees        ClauseType = "No-Solicit Of Employees"
	PriceRestriction          ClauseType = "Price Restrictions"
	JointIPOwnership          ClauseType = "Joint IP Ownership"
	UncappedLiability         ClauseType = "Uncapped Liability"
	MinimumCommitment         ClauseType = "Minimum Commitment"
	CapOnLiability            ClauseType = "Cap On Liability"
	NonDisparagement          ClauseType = "Non-Disparagement"
	Insurance                 ClauseType = "Insurance"
	ThirdPartyBeneficiary     ClauseType = "Third Party Beneficiary"
	TerminationForConvenience ClauseType = "Termination For Convenience"
)

var clauseIdentifiers = map[string]ClauseType{
	"ANTI_ASSIGNMENT":             AntiAssignment,
	"COMPETITIVE_RESTRICTION":     CompetitiveRestriction,
	"NON_COMPETE":                 NonCompete,
	"EXCLUSIVITY":                 Exclusivity,
	"NO_SOLICIT_CUSTOMERS":        NoSolicitCustomers,
	"NO_SOLICIT_EMPLOYEES":        NoSolicitEmployees,
	"PRICE_RESTRICTION":           PriceRestriction,
	"JOINT_IP_OWNERSHIP":          JointIPOwnership,
	"UNCAPPED_LIABILITY":          UncappedLiability,
	"MINIMUM_COMMITMENT":          MinimumCommitment,
	"CAP_ON_LIABILITY":            CapOnLiability,
	"NON_DISPARAGEMENT":           NonDisparagement,
	"INSURANCE":                   Insurance,
	"THIRD_PARTY_BENEFICIARY":     ThirdPartyBeneficiary,
	"TERMINATION_FOR_CONVENIENCE": TerminationForConvenience,
}

/*
ClauseTypes returns the closed enumeration in declaration order.
*/
func ClauseTypes() []ClauseType {
	return []ClauseType{
		AntiAssignment,
		CompetitiveRestriction,
		NonCompete,
		Exclusivity,
		NoSolicitCustomers,
		NoSolicitEmployees,
		PriceRestriction,
		JointIPOwnership,
		UncappedLiability,
		MinimumCommitment,
		CapOnLiability,
		NonDisparagement,
		Insurance,
		ThirdPartyBeneficiary,
		TerminationForConvenience,
	}
}

// ClauseTypeLabels is ClauseTypes as plain strings, for enum hints on tool schemas.
func ClauseTypeLabels() []string {
	types := ClauseTypes()
	labels := make([]string, len(types))

	for i, ct := range types {
		labels[i] = string(ct)
	}

	return labels
}

func (ct ClauseType) Valid() bool {
	for _, known := range ClauseTypes() {
		if ct == known {
			return true
		}
	}

	return false
}

func (ct ClauseType) String() string {
	return string(ct)
}

/*
ParseClauseType accepts either the human readable label ("Cap On Liability")
or the identifier spelling ("CAP_ON_LIABILITY", case-insensitive). Anything
else is a validation error.
*/
func ParseClauseType(raw string) (ClauseType, error) {
	trimmed := strings.TrimSpace(raw)

	if ct := ClauseType(trimmed); ct.Valid() {
		return ct, nil
	}

	if ct, ok := clauseIdentifiers[strings.ToUpper(trimmed)]; ok {
		return ct, nil
	}

	return "", errors.ErrValidation.WithMessagef("unknown clause type %q", raw)
}
