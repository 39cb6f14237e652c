package mocks

import (
	cartdb "github.com/sareeloom/storefront/pkg/domain/cart/db"
	cartmock "github.com/sareeloom/storefront/pkg/domain/cart/db/mock"
	catalogdb "github.com/sareeloom/storefront/pkg/domain/catalog/db"
	catalogmock "github.com/sareeloom/storefront/pkg/domain/catalog/db/mock"
	contentdb "github.com/sareeloom/storefront/pkg/domain/content/db"
	contentmock "github.com/sareeloom/storefront/pkg/domain/content/db/mock"
	coupondb "github.com/sareeloom/storefront/pkg/domain/coupon/db"
	couponmock "github.com/sareeloom/storefront/pkg/domain/coupon/db/mock"
	notifdb "github.com/sareeloom/storefront/pkg/domain/notification/db"
	notifmock "github.com/sareeloom/storefront/pkg/domain/notification/db/mock"
	orderdb "github.com/sareeloom/storefront/pkg/domain/order/db"
	ordermock "github.com/sareeloom/storefront/pkg/domain/order/db/mock"
	reviewdb "github.com/sareeloom/storefront/pkg/domain/review/db"
	reviewmock "github.com/sareeloom/storefront/pkg/domain/review/db/mock"
	roledb "github.com/sareeloom/storefront/pkg/domain/role/db"
	rolemock "github.com/sareeloom/storefront/pkg/domain/role/db/mock"
	schemadb "github.com/sareeloom/storefront/pkg/domain/schema/db"
	pgschema "github.com/sareeloom/storefront/pkg/domain/schema/db/postgres"
	dbInterface "github.com/sareeloom/storefront/pkg/domain/storefront/db"
)

// Database bundles repository mocks. Each of them panics unless its Impl is set.
type Database struct {
	MockCatalog      *catalogmock.CatalogInterface
	MockCart         *cartmock.CartInterface
	MockCoupon       *couponmock.CouponInterface
	MockOrder        *ordermock.OrderInterface
	MockReview       *reviewmock.ReviewInterface
	MockRole         *rolemock.RoleInterface
	MockContent      *contentmock.ContentInterface
	MockNotification *notifmock.NotificationInterface
}

func New() *Database {
	return &Database{
		MockCatalog:      catalogmock.NewCatalogInterface(),
		MockCart:         cartmock.NewCartInterface(),
		MockCoupon:       couponmock.NewCouponInterface(),
		MockOrder:        ordermock.NewOrderInterface(),
		MockReview:       reviewmock.NewReviewInterface(),
		MockRole:         rolemock.NewRoleInterface(),
		MockContent:      contentmock.NewContentInterface(),
		MockNotification: notifmock.NewNotificationInterface(),
	}
}

var _ dbInterface.Database = &Database{}

func (d *Database) Catalog() catalogdb.CatalogInterface { return d.MockCatalog }

func (d *Database) Cart() cartdb.CartInterface { return d.MockCart }

func (d *Database) Coupon() coupondb.CouponInterface { return d.MockCoupon }

func (d *Database) Order() orderdb.OrderInterface { return d.MockOrder }

func (d *Database) Review() reviewdb.ReviewInterface { return d.MockReview }

func (d *Database) Role() roledb.RoleInterface { return d.MockRole }

func (d *Database) Content() contentdb.ContentInterface { return d.MockContent }

func (d *Database) Notification() notifdb.NotificationInterface { return d.MockNotification }

func (d *Database) Schema() schemadb.SchemaInterface { return pgschema.Null() }

func (d *Database) Close() error { return nil }
