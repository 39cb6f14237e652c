package mocks

import (
	"context"
	"errors"

	"github.com/sareeloom/storefront/pkg/domain"
	catalogdb "github.com/sareeloom/storefront/pkg/domain/catalog/db"
	dbmock "github.com/sareeloom/storefront/pkg/domain/internal/db/mock"
)

type CatalogInterface struct {
	Impl struct {
		Find           func(context.Context, domain.ProductQuery) ([]domain.Product, error)
		Get            func(context.Context, []string) (map[string]domain.Product, error)
		GetBySlug      func(context.Context, string) (domain.Product, error)
		Create         func(context.Context, domain.ProductSpec) (domain.Product, error)
		Update         func(context.Context, string, domain.ProductSpec) (domain.Product, error)
		Deactivate     func(context.Context, string) error
		AddImage       func(context.Context, string, string) (domain.Product, error)
		RemoveImage    func(context.Context, string, string) (domain.Product, error)
		ListCategories func(context.Context) ([]domain.Category, error)
		CreateCategory func(context.Context, string, string) (domain.Category, error)
		DeleteCategory func(context.Context, string) error
		ListAddons     func(context.Context, bool) ([]domain.Addon, error)
		GetAddons      func(context.Context, []string) (map[string]domain.Addon, error)
		UpsertAddon    func(context.Context, domain.Addon) (domain.Addon, error)
	}
	Calls struct {
		Find      dbmock.CallLog[domain.ProductQuery]
		Get       dbmock.CallLog[[]string]
		GetBySlug dbmock.CallLog[string]
		Create    dbmock.CallLog[domain.ProductSpec]
		Update    dbmock.CallLog[struct {
			Id   string
			Spec domain.ProductSpec
		}]
		Deactivate dbmock.CallLog[string]
		AddImage   dbmock.CallLog[struct {
			Id  string
			Url string
		}]
		RemoveImage dbmock.CallLog[struct {
			Id  string
			Url string
		}]
		ListCategories dbmock.CallLog[struct{}]
		CreateCategory dbmock.CallLog[struct {
			Slug string
			Name string
		}]
		DeleteCategory dbmock.CallLog[string]
		ListAddons     dbmock.CallLog[bool]
		GetAddons      dbmock.CallLog[[]string]
		UpsertAddon    dbmock.CallLog[domain.Addon]
	}
}

func NewCatalogInterface() *CatalogInterface {
	return &CatalogInterface{}
}

var _ catalogdb.CatalogInterface = &CatalogInterface{}

var errNotMocked = errors.New("it should not be called")

func (m *CatalogInterface) Find(ctx context.Context, query domain.ProductQuery) ([]domain.Product, error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) Get(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	m.Calls.Get = append(m.Calls.Get, ids)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, ids)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) GetBySlug(ctx context.Context, slug string) (domain.Product, error) {
	m.Calls.GetBySlug = append(m.Calls.GetBySlug, slug)
	if m.Impl.GetBySlug != nil {
		return m.Impl.GetBySlug(ctx, slug)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) Create(ctx context.Context, spec domain.ProductSpec) (domain.Product, error) {
	m.Calls.Create = append(m.Calls.Create, spec)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, spec)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) Update(ctx context.Context, id string, spec domain.ProductSpec) (domain.Product, error) {
	m.Calls.Update = append(m.Calls.Update, struct {
		Id   string
		Spec domain.ProductSpec
	}{Id: id, Spec: spec})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, id, spec)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) Deactivate(ctx context.Context, id string) error {
	m.Calls.Deactivate = append(m.Calls.Deactivate, id)
	if m.Impl.Deactivate != nil {
		return m.Impl.Deactivate(ctx, id)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) AddImage(ctx context.Context, id string, url string) (domain.Product, error) {
	m.Calls.AddImage = append(m.Calls.AddImage, struct {
		Id  string
		Url string
	}{Id: id, Url: url})
	if m.Impl.AddImage != nil {
		return m.Impl.AddImage(ctx, id, url)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) RemoveImage(ctx context.Context, id string, url string) (domain.Product, error) {
	m.Calls.RemoveImage = append(m.Calls.RemoveImage, struct {
		Id  string
		Url string
	}{Id: id, Url: url})
	if m.Impl.RemoveImage != nil {
		return m.Impl.RemoveImage(ctx, id, url)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) ListCategories(ctx context.Context) ([]domain.Category, error) {
	m.Calls.ListCategories = append(m.Calls.ListCategories, struct{}{})
	if m.Impl.ListCategories != nil {
		return m.Impl.ListCategories(ctx)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) CreateCategory(ctx context.Context, slug string, name string) (domain.Category, error) {
	m.Calls.CreateCategory = append(m.Calls.CreateCategory, struct {
		Slug string
		Name string
	}{Slug: slug, Name: name})
	if m.Impl.CreateCategory != nil {
		return m.Impl.CreateCategory(ctx, slug, name)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) DeleteCategory(ctx context.Context, id string) error {
	m.Calls.DeleteCategory = append(m.Calls.DeleteCategory, id)
	if m.Impl.DeleteCategory != nil {
		return m.Impl.DeleteCategory(ctx, id)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) ListAddons(ctx context.Context, includeInactive bool) ([]domain.Addon, error) {
	m.Calls.ListAddons = append(m.Calls.ListAddons, includeInactive)
	if m.Impl.ListAddons != nil {
		return m.Impl.ListAddons(ctx, includeInactive)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) GetAddons(ctx context.Context, ids []string) (map[string]domain.Addon, error) {
	m.Calls.GetAddons = append(m.Calls.GetAddons, ids)
	if m.Impl.GetAddons != nil {
		return m.Impl.GetAddons(ctx, ids)
	}
	panic(errNotMocked)
}

func (m *CatalogInterface) UpsertAddon(ctx context.Context, addon domain.Addon) (domain.Addon, error) {
	m.Calls.UpsertAddon = append(m.Calls.UpsertAddon, addon)
	if m.Impl.UpsertAddon != nil {
		return m.Impl.UpsertAddon(ctx, addon)
	}
	panic(errNotMocked)
}
