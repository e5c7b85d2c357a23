package domain

// DriftField идентифицирует группу полей, по которой найдено расхождение.
type DriftField string

const (
	DriftNotSynced      DriftField = "not_synced"
	DriftName           DriftField = "name"
	DriftDescription    DriftField = "description"
	DriftMetadata       DriftField = "metadata"
	DriftTaxCodeMissing DriftField = "tax_code_missing"
	DriftTaxCodeDefault DriftField = "tax_code_default" // advisory: стоит плейсхолдер
	DriftPrice          DriftField = "price"
)

// Discrepancy — одно расхождение между локальной записью и зеркалом,
// с дословными значениями обеих сторон для аудита.
type Discrepancy struct {
	Field  DriftField
	Detail string
	Action string // рекомендованное корректирующее действие
}

// Drift — отчёт о расхождениях по одному продукту. Эфемерный:
// вычисляется, потребляется реконсилятором и отбрасывается.
// Порядок дискрепансий стабилен, повторный прогон по неизменному
// состоянию даёт побайтово идентичный отчёт.
type Drift struct {
	Discrepancies []Discrepancy
}

func (d *Drift) Add(field DriftField, detail, action string) {
	d.Discrepancies = append(d.Discrepancies, Discrepancy{Field: field, Detail: detail, Action: action})
}

// Empty — true, если расхождений нет.
func (d *Drift) Empty() bool {
	return len(d.Discrepancies) == 0
}

// Has — true, если есть расхождение по указанной группе полей.
func (d *Drift) Has(field DriftField) bool {
	for _, disc := range d.Discrepancies {
		if disc.Field == field {
			return true
		}
	}

	return false
}

// Details возвращает список описаний расхождений в порядке обнаружения.
func (d *Drift) Details() []string {
	details := make([]string, 0, len(d.Discrepancies))
	for _, disc := range d.Discrepancies {
		details = append(details, disc.Detail)
	}

	return details
}

// Actions возвращает параллельный список рекомендованных действий.
func (d *Drift) Actions() []string {
	actions := make([]string, 0, len(d.Discrepancies))
	for _, disc := range d.Discrepancies {
		actions = append(actions, disc.Action)
	}

	return actions
}
