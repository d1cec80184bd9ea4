package domain

// RegionAll is the wildcard region: an availability record scoped to it
// applies to every region unless a region-specific record exists.
const RegionAll = "*"

type AvailabilityStatus string

const (
	StatusAvailable    AvailabilityStatus = "AVAILABLE"
	StatusOutOfStock   AvailabilityStatus = "OUT_OF_STOCK"
	StatusDiscontinued AvailabilityStatus = "DISCONTINUED"
)

// AvailabilityRecord is a stock row for one sellable unit in one store
// and region.
type AvailabilityRecord struct {
	UnitID         string `json:"unitId"`
	StoreCode      string `json:"storeCode"`
	Region         string `json:"region"`
	QuantityOnHand int    `json:"quantityOnHand"`
	AllowBackorder bool   `json:"allowBackorder"`
}

// Availability is the answer to "can this unit be bought right now".
type Availability struct {
	Status         AvailabilityStatus `json:"status"`
	QuantityOnHand int                `json:"quantityOnHand"`
}
