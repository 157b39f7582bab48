package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor. El NIT (tax_id) es único.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if strings.TrimSpace(in.TradeName) == "" || strings.TrimSpace(in.TaxID) == "" {
		return nil, domain.InvalidInput("trade_name y tax_id son requeridos")
	}
	now := time.Now()
	s := &entity.Supplier{ID: uuid.New().String(), CreatedAt: now}
	applySupplier(s, in, now)
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if strings.TrimSpace(in.TradeName) == "" || strings.TrimSpace(in.TaxID) == "" {
		return nil, domain.InvalidInput("trade_name y tax_id son requeridos")
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	applySupplier(s, in, time.Now())
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// List lista proveedores; search filtra por nombre comercial, razón social o NIT.
func (uc *SupplierUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete elimina un proveedor. Con productos u órdenes asociadas devuelve domain.ErrConflict.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *SupplierUseCase) get(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	return s, nil
}

func applySupplier(s *entity.Supplier, in dto.SupplierRequest, now time.Time) {
	s.TradeName = strings.TrimSpace(in.TradeName)
	s.LegalName = strings.TrimSpace(in.LegalName)
	s.TaxID = strings.TrimSpace(in.TaxID)
	s.Email = strings.ToLower(strings.TrimSpace(in.Email))
	s.Phone = in.Phone
	s.Address = in.Address
	s.UpdatedAt = now
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		TradeName: s.TradeName,
		LegalName: s.LegalName,
		TaxID:     s.TaxID,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// CustomerUseCase casos de uso CRUD para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un cliente. Documento y email son únicos.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.TaxID) == "" {
		return nil, domain.InvalidInput("name y tax_id son requeridos")
	}
	now := time.Now()
	c := &entity.Customer{ID: uuid.New().String(), CreatedAt: now}
	applyCustomer(c, in, now)
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.TaxID) == "" {
		return nil, domain.InvalidInput("name y tax_id son requeridos")
	}
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyCustomer(c, in, time.Now())
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List lista clientes; search filtra por nombre, documento o email.
func (uc *CustomerUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete elimina un cliente. Con órdenes de venta devuelve domain.ErrConflict.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *CustomerUseCase) get(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}

func applyCustomer(c *entity.Customer, in dto.CustomerRequest, now time.Time) {
	c.Name = strings.TrimSpace(in.Name)
	c.TaxID = strings.TrimSpace(in.TaxID)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = in.Phone
	c.UpdatedAt = now
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
