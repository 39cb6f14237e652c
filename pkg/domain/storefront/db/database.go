package db

import (
	cartdb "github.com/sareeloom/storefront/pkg/domain/cart/db"
	catalogdb "github.com/sareeloom/storefront/pkg/domain/catalog/db"
	contentdb "github.com/sareeloom/storefront/pkg/domain/content/db"
	coupondb "github.com/sareeloom/storefront/pkg/domain/coupon/db"
	notifdb "github.com/sareeloom/storefront/pkg/domain/notification/db"
	orderdb "github.com/sareeloom/storefront/pkg/domain/order/db"
	reviewdb "github.com/sareeloom/storefront/pkg/domain/review/db"
	roledb "github.com/sareeloom/storefront/pkg/domain/role/db"
	schemadb "github.com/sareeloom/storefront/pkg/domain/schema/db"
)

type Database interface {
	Catalog() catalogdb.CatalogInterface
	Cart() cartdb.CartInterface
	Coupon() coupondb.CouponInterface
	Order() orderdb.OrderInterface
	Review() reviewdb.ReviewInterface
	Role() roledb.RoleInterface
	Content() contentdb.ContentInterface
	Notification() notifdb.NotificationInterface
	Schema() schemadb.SchemaInterface
	Close() error
}
