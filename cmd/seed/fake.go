package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/application/partner"
	apptrade "github.com/nizy/tailor/internal/application/trade"
	"github.com/nizy/tailor/internal/domain/shared/valueobject"
	"github.com/nizy/tailor/internal/domain/trade"
	"github.com/shopspring/decimal"
)

var customGarments = []string{"Blazer", "Kurta", "Waistcoat", "Sherwani", "Alteration", "Safari Suit"}

// generator produces plausible shop records. A fixed seed gives the same
// records on every run.
type generator struct {
	faker *gofakeit.Faker
	today time.Time
}

func newGenerator(seed uint64, today time.Time) *generator {
	return &generator{faker: gofakeit.New(seed), today: today}
}

func (g *generator) customer() partner.CustomerRequest {
	f := g.faker
	req := partner.CustomerRequest{
		Name:  f.Name(),
		Phone: f.Numerify("9#########"),
		Measurements: partner.MeasurementsDTO{
			Shirt: fmt.Sprintf("Chest %d, Waist %d, Sleeve %.1f, Shoulder %.1f",
				f.IntRange(34, 48), f.IntRange(28, 44), f.Float64Range(22, 27), f.Float64Range(16, 20)),
			Pant: fmt.Sprintf("Waist %d, Length %d, Hip %d",
				f.IntRange(28, 44), f.IntRange(36, 44), f.IntRange(34, 48)),
		},
	}
	if f.Bool() {
		req.ReferenceName = f.FirstName()
	}
	if f.IntRange(0, 3) == 0 {
		req.Measurements.Others = []partner.MeasurementDTO{
			{Label: "Collar", Value: fmt.Sprintf("%.1f", f.Float64Range(14, 18))},
		}
	}
	return req
}

func (g *generator) order(customerID uuid.UUID) apptrade.OrderRequest {
	f := g.faker
	lines := trade.LineDraft{
		Shirt: trade.PredefinedLine{
			Enabled:  f.Bool(),
			Quantity: f.IntRange(1, 4),
			UnitCost: g.cost(400, 900),
		},
		Pant: trade.PredefinedLine{
			Enabled:  f.Bool(),
			Quantity: f.IntRange(1, 3),
			UnitCost: g.cost(500, 1000),
		},
	}
	if f.IntRange(0, 2) == 0 || (!lines.Shirt.Enabled && !lines.Pant.Enabled) {
		lines.Custom = append(lines.Custom, trade.CustomLine{
			Label:    customGarments[f.IntRange(0, len(customGarments)-1)],
			Quantity: 1,
			UnitCost: g.cost(800, 4000),
		})
	}

	total := trade.ComputeTotal(trade.ComposeLines(lines))

	statuses := trade.AllOrderStatuses()
	status := statuses[f.IntRange(0, len(statuses)-1)]

	paid := valueobject.Zero()
	switch f.IntRange(0, 2) {
	case 1:
		paid = valueobject.NewMoney(total.Amount().Div(decimal.NewFromInt(2)).Round(0))
	case 2:
		paid = total
	}

	due := g.today.AddDate(0, 0, f.IntRange(-10, 21))
	return apptrade.OrderRequest{
		CustomerID: customerID,
		Lines:      lines,
		DueDate:    valueobject.NewDate(due.Year(), due.Month(), due.Day()),
		Status:     string(status),
		PaidAmount: paid,
	}
}

// cost returns a price in whole tens
func (g *generator) cost(min, max int) valueobject.Money {
	return valueobject.NewMoneyFromInt(int64(g.faker.IntRange(min/10, max/10) * 10))
}
