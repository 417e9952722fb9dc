package reports

import (
	"bytes"
	"strings"
	"testing"

	"greenmart-io/api/pkg/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildCatalogueRows(t *testing.T) {
	sellerId := primitive.NewObjectID()
	orphanSeller := primitive.NewObjectID()

	sellers := []models.Seller{
		{
			ID:         sellerId,
			ShopName:   "Green Shop",
			Email:      "green@example.com",
			Status:     models.SellerStatusVerified,
			SellerType: models.SellerTypeUnbranded,
		},
	}
	catalogues := []models.Catalogue{
		{
			ID:       primitive.NewObjectID(),
			Name:     "Green Shop",
			SellerId: sellerId,
			Products: []models.Product{{}, {}, {}},
		},
		{
			// Seller missing, row must be skipped.
			ID:       primitive.NewObjectID(),
			SellerId: orphanSeller,
		},
	}

	rows := BuildCatalogueRows(catalogues, sellers)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.SellerName != "Green Shop" || row.SellerEmail != "green@example.com" {
		t.Errorf("seller fields not joined: %+v", row)
	}
	if row.Status != models.SellerStatusVerified {
		t.Errorf("Status = %q", row.Status)
	}
	if row.TotalProducts != 3 {
		t.Errorf("TotalProducts = %d, want 3", row.TotalProducts)
	}
}

func TestWriteCatalogueCsv(t *testing.T) {
	rows := []CatalogueRow{
		{
			CatalogueId:   "abc123",
			CatalogueName: "Green Shop",
			SellerName:    "Green, Shop", // comma forces quoting
			SellerEmail:   "green@example.com",
			Status:        models.SellerStatusPending,
			SellerType:    models.SellerTypeBranded,
			TotalProducts: 7,
		},
	}

	var buf bytes.Buffer
	if err := WriteCatalogueCsv(&buf, rows); err != nil {
		t.Fatalf("WriteCatalogueCsv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "catalogueId,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Green, Shop"`) {
		t.Errorf("expected quoted seller name, got %q", lines[1])
	}
	if !strings.Contains(lines[1], ",7") {
		t.Errorf("expected product count in row, got %q", lines[1])
	}
}

func TestBuildSellerRows(t *testing.T) {
	sellers := []models.Seller{
		{
			ID:         primitive.NewObjectID(),
			ShopName:   "Green Shop",
			Email:      "green@example.com",
			Phone:      "5551234567",
			Status:     models.SellerStatusVerified,
			SellerType: models.SellerTypeBranded,
			Categories: []string{"home", "fashion"},
		},
	}

	rows := BuildSellerRows(sellers)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Categories != "home;fashion" {
		t.Errorf("Categories = %q, want semicolon-joined", rows[0].Categories)
	}
	if rows[0].SellerId != sellers[0].ID.Hex() {
		t.Errorf("SellerId = %q", rows[0].SellerId)
	}
}

func TestWriteSellerCsv(t *testing.T) {
	rows := []SellerRow{
		{
			SellerId:   "abc123",
			ShopName:   "Green, Shop", // comma forces quoting
			Email:      "green@example.com",
			Status:     models.SellerStatusPending,
			SellerType: models.SellerTypeUnbranded,
			Categories: "home;books",
		},
	}

	var buf bytes.Buffer
	if err := WriteSellerCsv(&buf, rows); err != nil {
		t.Fatalf("WriteSellerCsv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "sellerId,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Green, Shop"`) {
		t.Errorf("expected quoted shop name, got %q", lines[1])
	}
	if !strings.Contains(lines[1], "home;books") {
		t.Errorf("expected joined categories, got %q", lines[1])
	}
}

func TestWriteCatalogueCsvEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCatalogueCsv(&buf, nil); err != nil {
		t.Fatalf("WriteCatalogueCsv: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); !strings.HasPrefix(got, "catalogueId,") || strings.Contains(got, "\n") {
		t.Errorf("expected only the header line, got %q", got)
	}
}
