package domain

// domain package contains the Domain Models of the storefront.
//
// `domain/ENTITY.go` has entities (Domain Model types) and the rules on them.
// For example, `domain/order.go` contains the `Order` entity and its status machine.
//
// `domain/ENTITY/db` directory contains the interface to handle the entity in the RDB,
// `domain/ENTITY/db/postgres` its PostgreSQL implementation and `domain/ENTITY/db/mock` a mock for tests.
//
// `domain/storefront/db` bundles all of them as one database object,
// which entrypoints of applications should instantiate.
//
// # Entities
//
// - `product`: Sarees on sale, with their category, add-ons (fall & pico, blouse stitching, ...) and images.
//
// - `cart`: Lines a customer is going to buy. One line per product.
//
// - `coupon`: Discount codes. A coupon is either a percentage or a fixed amount.
//
// - `order`: What a customer bought, with the price snapshot of each line.
// The total of an order is always re-derived from stored prices by the server (see `order/db`),
// whatever the client said.
//
// - `review`: Ratings and comments on products. They are shown after moderation.
//
// - `role`: Back-office roles (admin, staff) of users.
//
// - `content`: Free-form content blocks (banners, announcements) shown by the shop.
//
// - `notification`: Outbox of messages (order confirmation mails etc.) to be delivered by "notification loop".
//
// - `loop`: Recurring background tasks. Implementations are in `cmd/loops/tasks/`.
