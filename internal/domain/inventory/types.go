package inventory

import "github.com/shopspring/decimal"

// MaterialType identifies the rubber compound a raw material cylinder is made of.
type MaterialType string

const (
	MaterialNBR  MaterialType = "NBR"
	MaterialBUR  MaterialType = "BUR"
	MaterialBT   MaterialType = "BT"
	MaterialVT   MaterialType = "VT"
	MaterialBOOM MaterialType = "BOOM"
)

// unitCodePrefixes maps a material type to its unit-code letter.
var unitCodePrefixes = map[MaterialType]string{
	MaterialBUR:  "B",
	MaterialNBR:  "N",
	MaterialBT:   "T",
	MaterialVT:   "V",
	MaterialBOOM: "M",
}

// CodePrefix returns the unit-code letter for the material type,
// "X" for anything unrecognized.
func (m MaterialType) CodePrefix() string {
	if p, ok := unitCodePrefixes[m]; ok {
		return p
	}
	return "X"
}

// IsValid reports whether the material type is one of the known compounds.
func (m MaterialType) IsValid() bool {
	_, ok := unitCodePrefixes[m]
	return ok
}

// listPriority orders material types the way the shop floor reads stock
// listings: BUR first, then NBR, BT, BOOM, VT.
var listPriority = map[MaterialType]int{
	MaterialBUR:  0,
	MaterialNBR:  1,
	MaterialBT:   2,
	MaterialBOOM: 3,
	MaterialVT:   4,
}

// ListPriority returns the sort rank of the material type in stock listings.
func (m MaterialType) ListPriority() int {
	if p, ok := listPriority[m]; ok {
		return p
	}
	return len(listPriority)
}

// SealType identifies the profile of a manufactured oil seal.
type SealType string

const (
	SealRSL SealType = "RSL"
	SealRS  SealType = "RS"
	SealRSS SealType = "RSS"
	SealRSE SealType = "RSE"
	SealB17 SealType = "B17"
	SealB3  SealType = "B3"
	SealB14 SealType = "B14"
	SealB1  SealType = "B1"
	SealR15 SealType = "R15"
	SealR17 SealType = "R17"
	SealW1  SealType = "W1"
	SealW4  SealType = "W4"
	SealW5  SealType = "W5"
	SealW11 SealType = "W11"
	SealWBT SealType = "WBT"
	SealXR  SealType = "XR"
	SealCH  SealType = "CH"
	SealVR  SealType = "VR"
)

// Cutting constants, in millimeters.
var (
	// KerfAllowance is the extra height consumed per seal by the cutting blade.
	KerfAllowance = decimal.NewFromInt(2)
	// MinUsableHeight is the height at or below which a cylinder cannot yield seals.
	MinUsableHeight = decimal.NewFromInt(15)
	// UnusableRemainderMax bounds the leftover band (0, 15] mm that is scrap:
	// a cut plan leaving a remainder in (0, UnusableRemainderMax) wastes material.
	UnusableRemainderMax = decimal.NewFromInt(15)
	// LowStockHeight is the remaining height below which a batch counts as low stock.
	LowStockHeight = decimal.NewFromInt(20)
)

// PerSealHeight returns the linear height one seal consumes: seal height plus kerf.
func PerSealHeight(sealHeight decimal.Decimal) decimal.Decimal {
	return sealHeight.Add(KerfAllowance)
}
