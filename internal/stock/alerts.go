package stock

import "github.com/mandaniarchi41/sarii-stock/internal/model"

// DeriveAlerts returns one alert for every color variant whose stock is below
// its configured minimum. Pure and stateless: callers re-run it on every poll
// and get a fresh list; transition detection (newly crossed thresholds) is
// not provided here.
func DeriveAlerts(items []model.Item) []model.Alert {
	var alerts []model.Alert
	for _, item := range items {
		for _, v := range item.ColorVariants {
			if v.LowStock() {
				alerts = append(alerts, model.Alert{
					ItemID:        item.ID,
					ColorName:     v.ColorName,
					CatalogNumber: item.CatalogNumber,
					DisplayName:   item.DisplayName,
					CurrentStock:  v.Stock,
					MinimumStock:  v.MinStock,
				})
			}
		}
	}
	return alerts
}
