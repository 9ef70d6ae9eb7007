package mapping

import (
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	"github.com/nonprofit-suite/fund_accounting_app/internal/models"
)

// ToModelFund converts a domain Fund to a model Fund
func ToModelFund(d domain.Fund) models.Fund {
	return models.Fund{
		FundID:      d.FundID,
		EntityID:    d.EntityID,
		Code:        d.Code,
		Name:        d.Name,
		FundType:    string(d.FundType),
		Description: d.Description,
		Status:      string(d.Status),
		Balance:     d.Balance,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFund converts a model Fund to a domain Fund
func ToDomainFund(m models.Fund) domain.Fund {
	return domain.Fund{
		FundID:      m.FundID,
		EntityID:    m.EntityID,
		Code:        m.Code,
		Name:        m.Name,
		FundType:    domain.FundType(m.FundType),
		Description: m.Description,
		Status:      domain.RecordStatus(m.Status),
		Balance:     m.Balance,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
