package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/storelink/backend/internal/domain/store"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	SyncMarkerModel
	Title                 string              `gorm:"type:varchar(255);not null"`
	Handle                string              `gorm:"type:varchar(255);not null;uniqueIndex"`
	BodyHTML              string              `gorm:"type:text"`
	Vendor                string              `gorm:"type:varchar(255)"`
	ProductType           string              `gorm:"type:varchar(255)"`
	Tags                  pq.StringArray      `gorm:"type:text[]"`
	Status                store.ProductStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Price                 decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	SKU                   string              `gorm:"type:varchar(100);index"`
	TracksInventory       bool                `gorm:"not null;default:true"`
	InventoryItemRemoteID string              `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *store.Product {
	p := &store.Product{
		SyncState:             m.SyncMarkerModel.ToDomain(),
		Title:                 m.Title,
		Handle:                m.Handle,
		BodyHTML:              m.BodyHTML,
		Vendor:                m.Vendor,
		ProductType:           m.ProductType,
		Tags:                  m.Tags,
		Status:                m.Status,
		Price:                 m.Price,
		SKU:                   m.SKU,
		TracksInventory:       m.TracksInventory,
		InventoryItemRemoteID: m.InventoryItemRemoteID,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *store.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.SyncMarkerModel.FromDomain(p.SyncState)
	m.Title = p.Title
	m.Handle = p.Handle
	m.BodyHTML = p.BodyHTML
	m.Vendor = p.Vendor
	m.ProductType = p.ProductType
	m.Tags = p.Tags
	m.Status = p.Status
	m.Price = p.Price
	m.SKU = p.SKU
	m.TracksInventory = p.TracksInventory
	m.InventoryItemRemoteID = p.InventoryItemRemoteID
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *store.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	SyncMarkerModel
	Email            string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName        string         `gorm:"type:varchar(100)"`
	LastName         string         `gorm:"type:varchar(100)"`
	Phone            string         `gorm:"type:varchar(50)"`
	Note             string         `gorm:"type:text"`
	Tags             pq.StringArray `gorm:"type:text[]"`
	AcceptsMarketing bool           `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *store.Customer {
	c := &store.Customer{
		SyncState:        m.SyncMarkerModel.ToDomain(),
		Email:            m.Email,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		Phone:            m.Phone,
		Note:             m.Note,
		Tags:             m.Tags,
		AcceptsMarketing: m.AcceptsMarketing,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *store.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.SyncMarkerModel.FromDomain(c.SyncState)
	m.Email = c.Email
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Phone = c.Phone
	m.Note = c.Note
	m.Tags = c.Tags
	m.AcceptsMarketing = c.AcceptsMarketing
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *store.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// CustomerAddressModel is the persistence model for the CustomerAddress entity.
type CustomerAddressModel struct {
	AggregateModel
	SyncMarkerModel
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Address1    string    `gorm:"type:varchar(255);not null"`
	Address2    string    `gorm:"type:varchar(255)"`
	City        string    `gorm:"type:varchar(100)"`
	Province    string    `gorm:"type:varchar(100)"`
	CountryCode string    `gorm:"type:varchar(2);not null"`
	Zip         string    `gorm:"type:varchar(20)"`
	IsDefault   bool      `gorm:"not null;default:false"`

	Customer *CustomerModel `gorm:"foreignKey:CustomerID"`
}

// TableName returns the table name for GORM
func (CustomerAddressModel) TableName() string {
	return "customer_addresses"
}

// ToDomain converts the persistence model to a domain CustomerAddress.
func (m *CustomerAddressModel) ToDomain() *store.CustomerAddress {
	a := &store.CustomerAddress{
		SyncState:   m.SyncMarkerModel.ToDomain(),
		CustomerID:  m.CustomerID,
		Address1:    m.Address1,
		Address2:    m.Address2,
		City:        m.City,
		Province:    m.Province,
		CountryCode: m.CountryCode,
		Zip:         m.Zip,
		IsDefault:   m.IsDefault,
	}
	m.PopulateAggregateRoot(&a.BaseAggregateRoot)
	if m.Customer != nil {
		a.Customer = m.Customer.ToDomain()
	}
	return a
}

// FromDomain populates the persistence model from a domain CustomerAddress.
// The parent customer association is read-only and never written back.
func (m *CustomerAddressModel) FromDomain(a *store.CustomerAddress) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.SyncMarkerModel.FromDomain(a.SyncState)
	m.CustomerID = a.CustomerID
	m.Address1 = a.Address1
	m.Address2 = a.Address2
	m.City = a.City
	m.Province = a.Province
	m.CountryCode = a.CountryCode
	m.Zip = a.Zip
	m.IsDefault = a.IsDefault
}

// CustomerAddressModelFromDomain creates a new persistence model from a
// domain CustomerAddress.
func CustomerAddressModelFromDomain(a *store.CustomerAddress) *CustomerAddressModel {
	m := &CustomerAddressModel{}
	m.FromDomain(a)
	return m
}

// InventoryLevelModel is the persistence model for the InventoryLevel entity.
type InventoryLevelModel struct {
	AggregateModel
	SyncMarkerModel
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_location,priority:1"`
	LocationRemoteID string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_inventory_product_location,priority:2"`
	Available        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (InventoryLevelModel) TableName() string {
	return "inventory_levels"
}

// ToDomain converts the persistence model to a domain InventoryLevel.
func (m *InventoryLevelModel) ToDomain() *store.InventoryLevel {
	l := &store.InventoryLevel{
		SyncState:        m.SyncMarkerModel.ToDomain(),
		ProductID:        m.ProductID,
		LocationRemoteID: m.LocationRemoteID,
		Available:        m.Available,
	}
	m.PopulateAggregateRoot(&l.BaseAggregateRoot)
	if m.Product != nil {
		l.Product = m.Product.ToDomain()
	}
	return l
}

// FromDomain populates the persistence model from a domain InventoryLevel.
// The parent product association is read-only and never written back.
func (m *InventoryLevelModel) FromDomain(l *store.InventoryLevel) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.SyncMarkerModel.FromDomain(l.SyncState)
	m.ProductID = l.ProductID
	m.LocationRemoteID = l.LocationRemoteID
	m.Available = l.Available
}

// InventoryLevelModelFromDomain creates a new persistence model from a
// domain InventoryLevel.
func InventoryLevelModelFromDomain(l *store.InventoryLevel) *InventoryLevelModel {
	m := &InventoryLevelModel{}
	m.FromDomain(l)
	return m
}

// SellingPlanModel is the persistence model for the SellingPlan entity.
type SellingPlanModel struct {
	AggregateModel
	SyncMarkerModel
	Name          string             `gorm:"type:varchar(255);not null"`
	Interval      store.PlanInterval `gorm:"type:varchar(10);not null"`
	IntervalCount int                `gorm:"not null;default:1"`
	PercentageOff decimal.Decimal    `gorm:"type:decimal(5,2);not null;default:0"`
	RemotePlanID  string             `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (SellingPlanModel) TableName() string {
	return "selling_plans"
}

// ToDomain converts the persistence model to a domain SellingPlan.
func (m *SellingPlanModel) ToDomain() *store.SellingPlan {
	p := &store.SellingPlan{
		SyncState:     m.SyncMarkerModel.ToDomain(),
		Name:          m.Name,
		Interval:      m.Interval,
		IntervalCount: m.IntervalCount,
		PercentageOff: m.PercentageOff,
		RemotePlanID:  m.RemotePlanID,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain SellingPlan.
func (m *SellingPlanModel) FromDomain(p *store.SellingPlan) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.SyncMarkerModel.FromDomain(p.SyncState)
	m.Name = p.Name
	m.Interval = p.Interval
	m.IntervalCount = p.IntervalCount
	m.PercentageOff = p.PercentageOff
	m.RemotePlanID = p.RemotePlanID
}

// SellingPlanModelFromDomain creates a new persistence model from a domain
// SellingPlan.
func SellingPlanModelFromDomain(p *store.SellingPlan) *SellingPlanModel {
	m := &SellingPlanModel{}
	m.FromDomain(p)
	return m
}

// AllModels lists every persistence model for migration helpers
func AllModels() []any {
	return []any{
		&ProductModel{},
		&CustomerModel{},
		&CustomerAddressModel{},
		&InventoryLevelModel{},
		&SellingPlanModel{},
	}
}
