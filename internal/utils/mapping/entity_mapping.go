package mapping

import (
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	"github.com/nonprofit-suite/fund_accounting_app/internal/models"
)

// ToModelEntity converts a domain Entity to a model Entity
func ToModelEntity(d domain.Entity) models.Entity {
	return models.Entity{
		EntityID:        d.EntityID,
		Name:            d.Name,
		Code:            d.Code,
		ParentEntityID:  d.ParentEntityID,
		IsConsolidated:  d.IsConsolidated,
		FiscalYearStart: d.FiscalYearStart,
		BaseCurrency:    d.BaseCurrency,
		Status:          string(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntity converts a model Entity to a domain Entity
func ToDomainEntity(m models.Entity) domain.Entity {
	return domain.Entity{
		EntityID:        m.EntityID,
		Name:            m.Name,
		Code:            m.Code,
		ParentEntityID:  m.ParentEntityID,
		IsConsolidated:  m.IsConsolidated,
		FiscalYearStart: m.FiscalYearStart,
		BaseCurrency:    m.BaseCurrency,
		Status:          domain.RecordStatus(m.Status),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
