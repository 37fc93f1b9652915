package interfaces

import (
	"context"

	"github.com/bobmcallan/dart-portal/internal/dart"
	"github.com/bobmcallan/dart-portal/internal/models"
)

// DARTClient is the subset of the OpenDART API the portal uses.
type DARTClient interface {
	SingleAccounts(ctx context.Context, corpCode string, year int, code models.ReportCode) ([]models.LineItem, error)
	Disclosures(ctx context.Context, q dart.DisclosureQuery) ([]models.Disclosure, error)
}
