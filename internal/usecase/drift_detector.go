package usecase

import (
	"fmt"

	"github.com/platedepot/catalog-sync/internal/domain"
)

// metadataKeys — порядок сравнения ключей метаданных фиксирован,
// чтобы повторные прогоны давали побайтово идентичные отчёты.
var metadataKeys = []string{"local_product_id", "weight", "selling_price", "regular_price"}

// DriftDetector сравнивает локальную запись каталога с её зеркалом в Stripe
// и строит упорядоченный список расхождений. Чистая функция без I/O.
type DriftDetector struct {
	defaultTaxCode string
}

func NewDriftDetector(defaultTaxCode string) *DriftDetector {
	if defaultTaxCode == "" {
		defaultTaxCode = domain.DefaultTaxCode
	}

	return &DriftDetector{defaultTaxCode: defaultTaxCode}
}

// Detect вычисляет расхождения в стабильном порядке:
// имя → описание → метаданные → налоговый код → цена.
func (d *DriftDetector) Detect(local *domain.Product, remote *domain.RemoteProduct, remotePrice *domain.RemotePrice) *domain.Drift {
	drift := &domain.Drift{}

	// Записи без зеркала покрываются единственным расхождением
	if remote == nil {
		drift.Add(domain.DriftNotSynced,
			"not synced",
			"create remote product + price")
		return drift
	}

	if remote.Name != local.Title {
		drift.Add(domain.DriftName,
			fmt.Sprintf("name mismatch: remote %q, local %q", remote.Name, local.Title),
			"update remote name")
	}

	expectedDescription := local.ExpectedDescription()
	if remote.Description != expectedDescription {
		drift.Add(domain.DriftDescription,
			fmt.Sprintf("description mismatch: remote %q, expected %q", remote.Description, expectedDescription),
			"update remote description")
	}

	// Каждый разъехавшийся ключ — отдельная запись, но реконсилятор всё равно
	// отправит карту целиком: metadata в Stripe заменяется, а не патчится.
	expectedMetadata := local.ExpectedMetadata()
	for _, key := range metadataKeys {
		if remote.Metadata[key] != expectedMetadata[key] {
			drift.Add(domain.DriftMetadata,
				fmt.Sprintf("metadata %q mismatch: remote %q, local %q", key, remote.Metadata[key], expectedMetadata[key]),
				"resend full metadata")
		}
	}

	switch remote.TaxCode {
	case "":
		drift.Add(domain.DriftTaxCodeMissing,
			"missing tax code",
			fmt.Sprintf("set tax code to %s", d.defaultTaxCode))
	case domain.DefaultTaxCode:
		// Не фатально: плейсхолдер работает, но бизнес-код точнее
		action := "review tax code"
		if d.defaultTaxCode != domain.DefaultTaxCode {
			action = fmt.Sprintf("set tax code to %s", d.defaultTaxCode)
		}
		drift.Add(domain.DriftTaxCodeDefault,
			"tax code uses default placeholder, should be business-specific code",
			action)
	}

	if remotePrice == nil {
		drift.Add(domain.DriftPrice,
			"current price id not resolvable",
			fmt.Sprintf("create new price at $%s", domain.FormatCents(local.SellingPriceCents)))
		return drift
	}

	// Сравнение только целых центов: никакой плавающей точки и допусков
	if remotePrice.AmountCents != local.SellingPriceCents {
		drift.Add(domain.DriftPrice,
			fmt.Sprintf("price amount mismatch: remote %d cents, local %d cents",
				remotePrice.AmountCents, local.SellingPriceCents),
			fmt.Sprintf("create new price at $%s (currently $%s)",
				domain.FormatCents(local.SellingPriceCents), domain.FormatCents(remotePrice.AmountCents)))
	}

	return drift
}

// DefaultTaxCode возвращает код, которым детектор заполняет отсутствующий tax code.
func (d *DriftDetector) DefaultTaxCode() string {
	return d.defaultTaxCode
}
