package usecase

import "fmt"

// Summarize сворачивает результаты реконсиляции в агрегированный отчёт.
// Чистая функция: без I/O, метаданные прогона проставляет вызывающий.
func Summarize(results []SyncResult) *SyncReport {
	report := &SyncReport{
		Errors:  []string{},
		Results: results,
	}

	for _, res := range results {
		report.Processed++

		if res.Success {
			report.Succeeded++
		} else {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("product %d: %s", res.ProductID, res.Error))
		}

		// Счётчики действий выводятся из журнала действий результата
		if res.CreatedPrice() {
			report.Created++
		}
		if res.UpdatedFields() {
			report.Updated++
		}
		if res.ReusedPrice() {
			report.Reused++
		}
		if res.Skipped() {
			report.Skipped++
		}
	}

	return report
}
