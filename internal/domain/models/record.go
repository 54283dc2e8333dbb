package models

// Record is implemented by every REST resource record the dashboard lists.
// IDs are opaque strings assigned by the backend; a record is either active
// or soft-deleted, never both.
type Record interface {
	RecordID() string
}

// Supply captures a purchased input (feed, medicine, equipment).
type Supply struct {
	ID         string  `json:"id"`
	ItemName   string  `json:"itemName"`
	Category   string  `json:"category"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"` // computed server-side
	SupplyDate Date    `json:"supplyDate"`
	Deleted    bool    `json:"deleted"`
}

func (s Supply) RecordID() string { return s.ID }

// Sale captures a sales transaction.
type Sale struct {
	ID           string  `json:"id"`
	CustomerName string  `json:"customerName"`
	Product      string  `json:"product"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	TotalPrice   float64 `json:"totalPrice"` // computed server-side
	SaleDate     Date    `json:"saleDate"`
	Deleted      bool    `json:"deleted"`
}

func (s Sale) RecordID() string { return s.ID }

// FishPond describes one stocked pond.
type FishPond struct {
	ID           string  `json:"id"`
	PondName     string  `json:"pondName"`
	Species      string  `json:"species"`
	SizeSqm      float64 `json:"sizeSqm"`
	FishCount    int     `json:"fishCount"`
	StockingDate Date    `json:"stockingDate"`
	Deleted      bool    `json:"deleted"`
}

func (p FishPond) RecordID() string { return p.ID }

// FishHatch records one hatching event inside a pond.
type FishHatch struct {
	ID           string `json:"id"`
	PondName     string `json:"pondName"`
	Species      string `json:"species"`
	EggCount     int    `json:"eggCount"`
	HatchedCount int    `json:"hatchedCount"`
	HatchDate    Date   `json:"hatchDate"`
	Deleted      bool   `json:"deleted"`
}

func (h FishHatch) RecordID() string { return h.ID }

// LivestockBatch groups animals acquired together.
type LivestockBatch struct {
	ID           string  `json:"id"`
	BatchName    string  `json:"batchName"`
	AnimalType   string  `json:"animalType"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	TotalPrice   float64 `json:"totalPrice"` // computed server-side
	AcquiredDate Date    `json:"acquiredDate"`
	Deleted      bool    `json:"deleted"`
}

func (b LivestockBatch) RecordID() string { return b.ID }
