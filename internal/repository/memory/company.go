package memory

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/sirh-backend-go/internal/domain/company"
	"github.com/shopspring/decimal"
)

type companyRepository struct {
	store *Store
}

func NewCompanyRepository(store *Store) company.CompanyRepository {
	return &companyRepository{store: store}
}

func (r *companyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	unlock, err := r.store.begin("company.GetByID")
	if err != nil {
		return company.Company{}, err
	}
	defer unlock()

	c, ok := r.store.data.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (r *companyRepository) List(ctx context.Context) ([]company.Company, error) {
	unlock, err := r.store.begin("company.List")
	if err != nil {
		return nil, err
	}
	defer unlock()

	companies := make([]company.Company, 0, len(r.store.data.companies))
	for _, c := range r.store.data.companies {
		companies = append(companies, c)
	}
	slices.SortFunc(companies, func(a, b company.Company) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return companies, nil
}

func (r *companyRepository) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	unlock, err := r.store.begin("company.Create")
	if err != nil {
		return company.Company{}, err
	}
	defer unlock()

	now := r.store.Now()
	newCompany.CreatedAt = now
	newCompany.UpdatedAt = now
	r.store.data.companies[newCompany.ID] = newCompany
	return newCompany, nil
}

func (r *companyRepository) UpdateLeaveDaysPerMonth(ctx context.Context, id string, days decimal.NullDecimal) (company.Company, error) {
	unlock, err := r.store.begin("company.UpdateLeaveDaysPerMonth")
	if err != nil {
		return company.Company{}, err
	}
	defer unlock()

	c, ok := r.store.data.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	c.LeaveDaysPerMonth = days
	c.UpdatedAt = r.store.Now()
	r.store.data.companies[id] = c
	return c, nil
}
