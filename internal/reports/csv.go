package reports

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"greenmart-io/api/pkg/models"
)

// CatalogueRow is one line of the admin catalogue export.
type CatalogueRow struct {
	CatalogueId   string
	CatalogueName string
	SellerName    string
	SellerEmail   string
	Status        models.SellerStatus
	SellerType    models.SellerType
	TotalProducts int
}

// BuildCatalogueRows joins catalogues with their owning sellers. Catalogues
// whose seller is missing are skipped rather than failing the whole export.
func BuildCatalogueRows(catalogues []models.Catalogue, sellers []models.Seller) []CatalogueRow {
	byId := make(map[string]models.Seller, len(sellers))
	for _, s := range sellers {
		byId[s.ID.Hex()] = s
	}

	rows := make([]CatalogueRow, 0, len(catalogues))
	for _, cat := range catalogues {
		seller, ok := byId[cat.SellerId.Hex()]
		if !ok {
			continue
		}
		rows = append(rows, CatalogueRow{
			CatalogueId:   cat.ID.Hex(),
			CatalogueName: cat.Name,
			SellerName:    seller.ShopName,
			SellerEmail:   seller.Email,
			Status:        seller.Status,
			SellerType:    seller.SellerType,
			TotalProducts: len(cat.Products),
		})
	}

	return rows
}

// SellerRow is one line of the admin seller export.
type SellerRow struct {
	SellerId   string
	ShopName   string
	Email      string
	Phone      string
	Status     models.SellerStatus
	SellerType models.SellerType
	Categories string
	CreatedAt  string
}

// BuildSellerRows flattens seller accounts into export rows. Categories are
// joined with ";" so the column survives a comma-separated file.
func BuildSellerRows(sellers []models.Seller) []SellerRow {
	rows := make([]SellerRow, 0, len(sellers))
	for _, s := range sellers {
		rows = append(rows, SellerRow{
			SellerId:   s.ID.Hex(),
			ShopName:   s.ShopName,
			Email:      s.Email,
			Phone:      s.Phone,
			Status:     s.Status,
			SellerType: s.SellerType,
			Categories: strings.Join(s.Categories, ";"),
			CreatedAt:  s.CreatedAt.Format(time.RFC3339),
		})
	}
	return rows
}

var sellerCsvHeader = []string{
	"sellerId", "shopName", "email", "phone",
	"status", "sellerType", "categories", "createdAt",
}

// WriteSellerCsv streams the seller export rows as CSV, header first.
func WriteSellerCsv(w io.Writer, rows []SellerRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(sellerCsvHeader); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.SellerId,
			row.ShopName,
			row.Email,
			row.Phone,
			string(row.Status),
			string(row.SellerType),
			row.Categories,
			row.CreatedAt,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

var catalogueCsvHeader = []string{
	"catalogueId", "catalogueName", "sellerName", "sellerEmail",
	"status", "sellerType", "totalProducts",
}

// WriteCatalogueCsv streams the export rows as CSV, header first.
func WriteCatalogueCsv(w io.Writer, rows []CatalogueRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(catalogueCsvHeader); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.CatalogueId,
			row.CatalogueName,
			row.SellerName,
			row.SellerEmail,
			string(row.Status),
			string(row.SellerType),
			strconv.Itoa(row.TotalProducts),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
