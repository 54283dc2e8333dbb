package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/farmdesk/internal/api"
	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

// Resources builds the five dashboard resources over the API services.
func Resources(services *api.Services) []Resource {
	return []Resource{
		SuppliesResource(services.Supplies),
		SalesResource(services.Sales),
		PondsResource(services.Ponds),
		HatchesResource(services.Hatches),
		LivestockResource(services.Livestock),
	}
}

// SuppliesResource describes the purchased-inputs screen.
func SuppliesResource(svc *api.ResourceService[models.Supply]) Resource {
	return Bind(svc, Descriptor[models.Supply]{
		Name: "Supplies",
		Columns: []Column{
			{Title: "Item", Width: 24},
			{Title: "Category", Width: 12},
			{Title: "Qty", Width: 8},
			{Title: "Unit Price", Width: 12},
			{Title: "Total", Width: 12},
			{Title: "Date", Width: 12},
		},
		Filters: []FilterField{
			{Key: "itemName", Label: "Item"},
			{Key: "category", Label: "Category"},
		},
		Fields: []FormField{
			{Key: "itemName", Label: "Item name", Kind: FieldText, Required: true},
			{Key: "category", Label: "Category", Kind: FieldSelect, Required: true,
				Options: []string{"FEED", "MEDICINE", "EQUIPMENT", "FERTILIZER", "OTHER"}},
			{Key: "quantity", Label: "Quantity", Kind: FieldNumber, Required: true},
			{Key: "unitPrice", Label: "Unit price", Kind: FieldCurrency, Required: true},
			{Key: "supplyDate", Label: "Supply date", Kind: FieldDate, Required: true},
		},
		Defaults: map[string]string{"category": "FEED"},
		Cells: func(s models.Supply) []string {
			return []string{
				s.ItemName, s.Category,
				trimFloat(s.Quantity),
				FormatAmount(s.UnitPrice),
				FormatAmount(s.TotalPrice),
				s.SupplyDate.String(),
			}
		},
		Values: func(s models.Supply) map[string]string {
			return map[string]string{
				"itemName":   s.ItemName,
				"category":   s.Category,
				"quantity":   trimFloat(s.Quantity),
				"unitPrice":  trimFloat(s.UnitPrice),
				"supplyDate": s.SupplyDate.String(),
			}
		},
		Payload: func(v map[string]string) (models.Supply, error) {
			qty, err := parseNumber(v["quantity"], "Quantity")
			if err != nil {
				return models.Supply{}, err
			}
			price, err := parseCurrency(v["unitPrice"], "Unit price")
			if err != nil {
				return models.Supply{}, err
			}
			date, err := parseDate(v["supplyDate"], "Supply date")
			if err != nil {
				return models.Supply{}, err
			}
			return models.Supply{
				ItemName:   strings.TrimSpace(v["itemName"]),
				Category:   v["category"],
				Quantity:   qty,
				UnitPrice:  price,
				SupplyDate: date,
			}, nil
		},
	})
}

// SalesResource describes the sales screen.
func SalesResource(svc *api.ResourceService[models.Sale]) Resource {
	return Bind(svc, Descriptor[models.Sale]{
		Name: "Sales",
		Columns: []Column{
			{Title: "Customer", Width: 20},
			{Title: "Product", Width: 18},
			{Title: "Qty", Width: 8},
			{Title: "Unit Price", Width: 12},
			{Title: "Total", Width: 12},
			{Title: "Date", Width: 12},
		},
		Filters: []FilterField{
			{Key: "customerName", Label: "Customer"},
			{Key: "product", Label: "Product"},
		},
		Fields: []FormField{
			{Key: "customerName", Label: "Customer", Kind: FieldText, Required: true},
			{Key: "product", Label: "Product", Kind: FieldText, Required: true},
			{Key: "quantity", Label: "Quantity", Kind: FieldNumber, Required: true},
			{Key: "unitPrice", Label: "Unit price", Kind: FieldCurrency, Required: true},
			{Key: "saleDate", Label: "Sale date", Kind: FieldDate, Required: true},
		},
		Cells: func(s models.Sale) []string {
			return []string{
				s.CustomerName, s.Product,
				trimFloat(s.Quantity),
				FormatAmount(s.UnitPrice),
				FormatAmount(s.TotalPrice),
				s.SaleDate.String(),
			}
		},
		Values: func(s models.Sale) map[string]string {
			return map[string]string{
				"customerName": s.CustomerName,
				"product":      s.Product,
				"quantity":     trimFloat(s.Quantity),
				"unitPrice":    trimFloat(s.UnitPrice),
				"saleDate":     s.SaleDate.String(),
			}
		},
		Payload: func(v map[string]string) (models.Sale, error) {
			qty, err := parseNumber(v["quantity"], "Quantity")
			if err != nil {
				return models.Sale{}, err
			}
			price, err := parseCurrency(v["unitPrice"], "Unit price")
			if err != nil {
				return models.Sale{}, err
			}
			date, err := parseDate(v["saleDate"], "Sale date")
			if err != nil {
				return models.Sale{}, err
			}
			return models.Sale{
				CustomerName: strings.TrimSpace(v["customerName"]),
				Product:      strings.TrimSpace(v["product"]),
				Quantity:     qty,
				UnitPrice:    price,
				SaleDate:     date,
			}, nil
		},
	})
}

// PondsResource describes the fish pond screen.
func PondsResource(svc *api.ResourceService[models.FishPond]) Resource {
	return Bind(svc, Descriptor[models.FishPond]{
		Name: "Fish Ponds",
		Columns: []Column{
			{Title: "Pond", Width: 20},
			{Title: "Species", Width: 16},
			{Title: "Size (sqm)", Width: 12},
			{Title: "Fish", Width: 10},
			{Title: "Stocked", Width: 12},
		},
		Filters: []FilterField{
			{Key: "pondName", Label: "Pond"},
			{Key: "species", Label: "Species"},
		},
		Fields: []FormField{
			{Key: "pondName", Label: "Pond name", Kind: FieldText, Required: true},
			{Key: "species", Label: "Species", Kind: FieldText, Required: true},
			{Key: "sizeSqm", Label: "Size (sqm)", Kind: FieldNumber, Required: true},
			{Key: "fishCount", Label: "Fish count", Kind: FieldNumber, Required: true},
			{Key: "stockingDate", Label: "Stocking date", Kind: FieldDate, Required: true},
		},
		Cells: func(p models.FishPond) []string {
			return []string{
				p.PondName, p.Species,
				trimFloat(p.SizeSqm),
				FormatAmount(float64(p.FishCount)),
				p.StockingDate.String(),
			}
		},
		Values: func(p models.FishPond) map[string]string {
			return map[string]string{
				"pondName":     p.PondName,
				"species":      p.Species,
				"sizeSqm":      trimFloat(p.SizeSqm),
				"fishCount":    strconv.Itoa(p.FishCount),
				"stockingDate": p.StockingDate.String(),
			}
		},
		Payload: func(v map[string]string) (models.FishPond, error) {
			size, err := parseNumber(v["sizeSqm"], "Size")
			if err != nil {
				return models.FishPond{}, err
			}
			count, err := parseInt(v["fishCount"], "Fish count")
			if err != nil {
				return models.FishPond{}, err
			}
			date, err := parseDate(v["stockingDate"], "Stocking date")
			if err != nil {
				return models.FishPond{}, err
			}
			return models.FishPond{
				PondName:     strings.TrimSpace(v["pondName"]),
				Species:      strings.TrimSpace(v["species"]),
				SizeSqm:      size,
				FishCount:    count,
				StockingDate: date,
			}, nil
		},
	})
}

// HatchesResource describes the fish hatch screen.
func HatchesResource(svc *api.ResourceService[models.FishHatch]) Resource {
	return Bind(svc, Descriptor[models.FishHatch]{
		Name: "Fish Hatches",
		Columns: []Column{
			{Title: "Pond", Width: 20},
			{Title: "Species", Width: 16},
			{Title: "Eggs", Width: 10},
			{Title: "Hatched", Width: 10},
			{Title: "Date", Width: 12},
		},
		Filters: []FilterField{
			{Key: "pondName", Label: "Pond"},
			{Key: "species", Label: "Species"},
		},
		Fields: []FormField{
			{Key: "pondName", Label: "Pond name", Kind: FieldText, Required: true},
			{Key: "species", Label: "Species", Kind: FieldText, Required: true},
			{Key: "eggCount", Label: "Egg count", Kind: FieldNumber, Required: true},
			{Key: "hatchedCount", Label: "Hatched count", Kind: FieldNumber, Required: true},
			{Key: "hatchDate", Label: "Hatch date", Kind: FieldDate, Required: true},
		},
		Cells: func(h models.FishHatch) []string {
			return []string{
				h.PondName, h.Species,
				FormatAmount(float64(h.EggCount)),
				FormatAmount(float64(h.HatchedCount)),
				h.HatchDate.String(),
			}
		},
		Values: func(h models.FishHatch) map[string]string {
			return map[string]string{
				"pondName":     h.PondName,
				"species":      h.Species,
				"eggCount":     strconv.Itoa(h.EggCount),
				"hatchedCount": strconv.Itoa(h.HatchedCount),
				"hatchDate":    h.HatchDate.String(),
			}
		},
		Payload: func(v map[string]string) (models.FishHatch, error) {
			eggs, err := parseInt(v["eggCount"], "Egg count")
			if err != nil {
				return models.FishHatch{}, err
			}
			hatched, err := parseInt(v["hatchedCount"], "Hatched count")
			if err != nil {
				return models.FishHatch{}, err
			}
			date, err := parseDate(v["hatchDate"], "Hatch date")
			if err != nil {
				return models.FishHatch{}, err
			}
			return models.FishHatch{
				PondName:     strings.TrimSpace(v["pondName"]),
				Species:      strings.TrimSpace(v["species"]),
				EggCount:     eggs,
				HatchedCount: hatched,
				HatchDate:    date,
			}, nil
		},
	})
}

// LivestockResource describes the livestock batch screen.
func LivestockResource(svc *api.ResourceService[models.LivestockBatch]) Resource {
	return Bind(svc, Descriptor[models.LivestockBatch]{
		Name: "Livestock",
		Columns: []Column{
			{Title: "Batch", Width: 20},
			{Title: "Type", Width: 14},
			{Title: "Qty", Width: 8},
			{Title: "Unit Price", Width: 12},
			{Title: "Total", Width: 12},
			{Title: "Acquired", Width: 12},
		},
		Filters: []FilterField{
			{Key: "batchName", Label: "Batch"},
			{Key: "animalType", Label: "Type"},
		},
		Fields: []FormField{
			{Key: "batchName", Label: "Batch name", Kind: FieldText, Required: true},
			{Key: "animalType", Label: "Animal type", Kind: FieldSelect, Required: true,
				Options: []string{"POULTRY", "CATTLE", "GOAT", "SHEEP", "PIG", "OTHER"}},
			{Key: "quantity", Label: "Quantity", Kind: FieldNumber, Required: true},
			{Key: "unitPrice", Label: "Unit price", Kind: FieldCurrency, Required: true},
			{Key: "acquiredDate", Label: "Acquired date", Kind: FieldDate, Required: true},
		},
		Defaults: map[string]string{"animalType": "POULTRY"},
		Cells: func(b models.LivestockBatch) []string {
			return []string{
				b.BatchName, b.AnimalType,
				FormatAmount(float64(b.Quantity)),
				FormatAmount(b.UnitPrice),
				FormatAmount(b.TotalPrice),
				b.AcquiredDate.String(),
			}
		},
		Values: func(b models.LivestockBatch) map[string]string {
			return map[string]string{
				"batchName":    b.BatchName,
				"animalType":   b.AnimalType,
				"quantity":     strconv.Itoa(b.Quantity),
				"unitPrice":    trimFloat(b.UnitPrice),
				"acquiredDate": b.AcquiredDate.String(),
			}
		},
		Payload: func(v map[string]string) (models.LivestockBatch, error) {
			qty, err := parseInt(v["quantity"], "Quantity")
			if err != nil {
				return models.LivestockBatch{}, err
			}
			price, err := parseCurrency(v["unitPrice"], "Unit price")
			if err != nil {
				return models.LivestockBatch{}, err
			}
			date, err := parseDate(v["acquiredDate"], "Acquired date")
			if err != nil {
				return models.LivestockBatch{}, err
			}
			return models.LivestockBatch{
				BatchName:    strings.TrimSpace(v["batchName"]),
				AnimalType:   v["animalType"],
				Quantity:     qty,
				UnitPrice:    price,
				AcquiredDate: date,
			}, nil
		},
	})
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseNumber(s, label string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", label)
	}
	return v, nil
}

func parseInt(s, label string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", label)
	}
	return v, nil
}

func parseCurrency(s, label string) (float64, error) {
	v, err := ParseAmount(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an amount", label)
	}
	return v, nil
}

func parseDate(s, label string) (models.Date, error) {
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, fmt.Errorf("%s must be a YYYY-MM-DD date", label)
	}
	return d, nil
}
