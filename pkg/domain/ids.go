// Package domain holds the shared accounting primitives: typed identifiers
// and the exact-decimal value objects (Money, DecimalInterest,
// ProductionMonth) the ownership and revenue contexts are built on.
//
// Domain purity: no I/O and no clocks here. Anything that needs "now"
// receives it as a parameter from the application layer.
package domain

import (
	"github.com/google/uuid"

	dErrors "wellflow/pkg/domain-errors"
)

// Typed UUID identifiers. Distinct types make cross-assignment a compile
// error: a WellID can never be passed where a PartnerID is expected.
type (
	OrganizationID  uuid.UUID
	WellID          uuid.UUID
	PartnerID       uuid.UUID
	DivisionOrderID uuid.UUID
	DistributionID  uuid.UUID
)

func parseUUID(kind, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", kind)
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", kind)
	}
	return parsed, nil
}

func ParseOrganizationID(value string) (OrganizationID, error) {
	parsed, err := parseUUID("organization id", value)
	return OrganizationID(parsed), err
}

func ParseWellID(value string) (WellID, error) {
	parsed, err := parseUUID("well id", value)
	return WellID(parsed), err
}

func ParsePartnerID(value string) (PartnerID, error) {
	parsed, err := parseUUID("partner id", value)
	return PartnerID(parsed), err
}

func ParseDivisionOrderID(value string) (DivisionOrderID, error) {
	parsed, err := parseUUID("division order id", value)
	return DivisionOrderID(parsed), err
}

func ParseDistributionID(value string) (DistributionID, error) {
	parsed, err := parseUUID("distribution id", value)
	return DistributionID(parsed), err
}

func (id OrganizationID) String() string  { return uuid.UUID(id).String() }
func (id WellID) String() string          { return uuid.UUID(id).String() }
func (id PartnerID) String() string       { return uuid.UUID(id).String() }
func (id DivisionOrderID) String() string { return uuid.UUID(id).String() }
func (id DistributionID) String() string  { return uuid.UUID(id).String() }

func (id OrganizationID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id WellID) IsZero() bool          { return uuid.UUID(id) == uuid.Nil }
func (id PartnerID) IsZero() bool       { return uuid.UUID(id) == uuid.Nil }
func (id DivisionOrderID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id DistributionID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }

// Defined types do not inherit uuid.UUID's text marshaling, so each id type
// implements it explicitly; without this, JSON would render ids as byte
// arrays.

func (id OrganizationID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id WellID) MarshalText() ([]byte, error)          { return []byte(id.String()), nil }
func (id PartnerID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id DivisionOrderID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id DistributionID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *OrganizationID) UnmarshalText(text []byte) error {
	parsed, err := ParseOrganizationID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *WellID) UnmarshalText(text []byte) error {
	parsed, err := ParseWellID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PartnerID) UnmarshalText(text []byte) error {
	parsed, err := ParsePartnerID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *DivisionOrderID) UnmarshalText(text []byte) error {
	parsed, err := ParseDivisionOrderID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *DistributionID) UnmarshalText(text []byte) error {
	parsed, err := ParseDistributionID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewDivisionOrderID mints a fresh division order identity.
func NewDivisionOrderID() DivisionOrderID { return DivisionOrderID(uuid.New()) }

// NewDistributionID mints a fresh revenue distribution identity.
func NewDistributionID() DistributionID { return DistributionID(uuid.New()) }
