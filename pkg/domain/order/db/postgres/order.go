package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	dberr "github.com/sareeloom/storefront/pkg/domain/errors/dberrors/postgres"
	shared "github.com/sareeloom/storefront/pkg/domain/internal/db/postgres"
	orderdb "github.com/sareeloom/storefront/pkg/domain/order/db"
	"github.com/sareeloom/storefront/pkg/domain/pricing"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

type pgOrder struct {
	pool pool.Pool
}

func New(p pool.Pool) orderdb.OrderInterface {
	return &pgOrder{pool: p}
}

func (o *pgOrder) Create(ctx context.Context, spec domain.OrderSpec) (domain.Order, error) {
	if len(spec.Items) == 0 {
		return domain.Order{}, xe.Wrap(domain.ErrEmptyOrder)
	}

	paymentStatus := domain.PaymentPending
	if spec.PaymentMethod == domain.CashOnDelivery {
		paymentStatus = domain.PaymentCOD
	}
	shipping, err := json.Marshal(spec.Shipping)
	if err != nil {
		return domain.Order{}, xe.Wrap(err)
	}
	var couponCode *string
	if spec.CouponCode != nil {
		c := domain.NormalizeCouponCode(*spec.CouponCode)
		couponCode = &c
	}

	id := uuid.NewString()
	return pool.InTxReturning(ctx, o.pool, func(tx pool.Tx) (domain.Order, error) {
		b := spec.Breakdown
		if _, err := tx.Exec(
			ctx,
			`
			insert into "order" (
				"id", "number", "user_id", "email",
				"status", "payment_status", "payment_method",
				"subtotal", "addons_total", "discount", "delivery_charge", "total",
				"coupon_code", "shipping"
			)
			values ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::jsonb)
			`,
			id, spec.Number, spec.UserId, spec.Email,
			string(domain.Pending), string(paymentStatus), string(spec.PaymentMethod),
			int64(b.Subtotal), int64(b.AddonsTotal), int64(b.Discount), int64(b.DeliveryCharge), int64(b.Total),
			couponCode, string(shipping),
		); err != nil {
			return domain.Order{}, xe.Wrap(dberr.Classify(err, "order", spec.Number))
		}

		if err := writeItems(ctx, tx, id, spec.Items, false); err != nil {
			return domain.Order{}, err
		}
		return shared.GetOrder(ctx, tx, id, false)
	})
}

// writeItems inserts (or, when update is true, rewrites) items of the order.
func writeItems(ctx context.Context, q pool.Queryer, orderId string, items []domain.OrderItem, update bool) error {
	for line, it := range items {
		addons := it.Addons
		if addons == nil {
			addons = []domain.AddonSnapshot{}
		}
		snapshot, err := json.Marshal(addons)
		if err != nil {
			return xe.Wrap(err)
		}

		if update {
			_, err = q.Exec(
				ctx,
				`
				update "order_item"
				set "product_name" = $3, "unit_price" = $4, "addons" = $5::jsonb
				where "order_id" = $1::uuid and "line" = $2
				`,
				orderId, line, it.ProductName, int64(it.UnitPrice), string(snapshot),
			)
		} else {
			_, err = q.Exec(
				ctx,
				`
				insert into "order_item" (
					"order_id", "line", "product_id", "product_name", "quantity", "unit_price", "addons"
				)
				values ($1::uuid, $2, $3::uuid, $4, $5, $6, $7::jsonb)
				`,
				orderId, line, it.ProductId, it.ProductName, it.Quantity, int64(it.UnitPrice), string(snapshot),
			)
		}
		if err != nil {
			return xe.Wrap(dberr.Classify(err, "order_item", it.ProductId))
		}
	}
	return nil
}

func (o *pgOrder) RecalculateTotal(ctx context.Context, orderId string, rules pricing.Rules, now time.Time) (domain.Order, error) {
	return pool.InTxReturning(ctx, o.pool, func(tx pool.Tx) (domain.Order, error) {
		order, err := shared.GetOrder(ctx, tx, orderId, true)
		if err != nil {
			return domain.Order{}, err
		}
		if order.Status != domain.Pending || order.PaymentStatus == domain.PaymentPaid {
			return domain.Order{}, xe.Wrap(fmt.Errorf(
				"%w: order %s is %s (payment %s)",
				domain.ErrInvalidTransition, order.Number, order.Status, order.PaymentStatus,
			))
		}

		productIds := []string{}
		addonIds := []string{}
		for _, it := range order.Items {
			productIds = append(productIds, it.ProductId)
			for _, a := range it.Addons {
				addonIds = append(addonIds, a.Id)
			}
		}
		products, err := shared.GetProducts(ctx, tx, productIds, false)
		if err != nil {
			return domain.Order{}, err
		}
		addons, err := shared.GetAddons(ctx, tx, addonIds)
		if err != nil {
			return domain.Order{}, err
		}

		items := make([]domain.OrderItem, 0, len(order.Items))
		for _, it := range order.Items {
			if p, ok := products[it.ProductId]; ok {
				it.ProductName = p.Name
				it.UnitPrice = p.UnitPrice()
			}
			snapshots := make([]domain.AddonSnapshot, 0, len(it.Addons))
			for _, s := range it.Addons {
				if a, ok := addons[s.Id]; ok {
					s.Name = a.Name
					s.Price = a.Price
				}
				snapshots = append(snapshots, s)
			}
			it.Addons = snapshots
			items = append(items, it)
		}

		var coupon *domain.Coupon
		if order.CouponCode != nil {
			c, err := shared.GetCoupon(ctx, tx, *order.CouponCode, false)
			if err != nil && !errors.Is(err, domain.ErrMissing) {
				return domain.Order{}, err
			}
			if err == nil {
				coupon = &c
			}
		}

		breakdown, err := rules.Quote(items, coupon, now)
		if errors.Is(err, domain.ErrCouponInvalid) {
			coupon = nil
			breakdown, err = rules.Quote(items, nil, now)
		}
		if err != nil {
			return domain.Order{}, xe.Wrap(err)
		}

		var couponCode *string
		if coupon != nil {
			couponCode = &coupon.Code
		}

		if err := writeItems(ctx, tx, order.Id, items, true); err != nil {
			return domain.Order{}, err
		}
		if _, err := tx.Exec(
			ctx,
			`
			update "order" set
				"subtotal" = $2, "addons_total" = $3, "discount" = $4,
				"delivery_charge" = $5, "total" = $6, "coupon_code" = $7,
				"updated_at" = now()
			where "id" = $1::uuid
			`,
			order.Id,
			int64(breakdown.Subtotal), int64(breakdown.AddonsTotal), int64(breakdown.Discount),
			int64(breakdown.DeliveryCharge), int64(breakdown.Total), couponCode,
		); err != nil {
			return domain.Order{}, xe.Wrap(err)
		}

		return shared.GetOrder(ctx, tx, order.Id, false)
	})
}

func (o *pgOrder) Get(ctx context.Context, orderId string) (domain.Order, error) {
	return shared.GetOrder(ctx, o.pool, orderId, false)
}

func orderIdByGateway(ctx context.Context, q pool.Queryer, gatewayOrderId string) (string, error) {
	var id string
	if err := q.QueryRow(
		ctx,
		`select "id"::text from "order" where "gateway_order_id" = $1`,
		gatewayOrderId,
	).Scan(&id); err != nil {
		return "", xe.Wrap(dberr.Classify(err, "order", "gateway order "+gatewayOrderId))
	}
	return id, nil
}

func (o *pgOrder) GetByGatewayOrder(ctx context.Context, gatewayOrderId string) (domain.Order, error) {
	id, err := orderIdByGateway(ctx, o.pool, gatewayOrderId)
	if err != nil {
		return domain.Order{}, err
	}
	return shared.GetOrder(ctx, o.pool, id, false)
}

func (o *pgOrder) FindByUser(ctx context.Context, userId string) ([]domain.Order, error) {
	return o.Find(ctx, domain.OrderFindQuery{UserId: userId, Limit: MaxLimit})
}

func (o *pgOrder) Find(ctx context.Context, query domain.OrderFindQuery) ([]domain.Order, error) {
	statuses := make([]string, 0, len(query.Status))
	for _, s := range query.Status {
		statuses = append(statuses, string(s))
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultLimit
	} else if MaxLimit < limit {
		limit = MaxLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := o.pool.Query(
		ctx,
		`
		select "id"::text from "order"
		where
			(cardinality($1::varchar[]) = 0 or "status" = any($1::varchar[]))
			and ($2::varchar = '' or "user_id" = $2::varchar)
			and ($3::timestamptz is null or $3::timestamptz <= "created_at")
			and ($4::timestamptz is null or "created_at" < $4::timestamptz)
		order by "created_at" desc, "id"
		limit $5 offset $6
		`,
		statuses, query.UserId, query.Since, query.Until, limit, offset,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ids := []string{}
	if err := func() error {
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return xe.Wrap(err)
			}
			ids = append(ids, id)
		}
		return xe.Wrap(rows.Err())
	}(); err != nil {
		return nil, err
	}

	return shared.GetOrders(ctx, o.pool, ids, false)
}

func (o *pgOrder) AttachGatewayOrder(ctx context.Context, orderId string, gatewayOrderId string) (domain.Order, error) {
	return pool.InTxReturning(ctx, o.pool, func(tx pool.Tx) (domain.Order, error) {
		order, err := shared.GetOrder(ctx, tx, orderId, true)
		if err != nil {
			return domain.Order{}, err
		}
		if order.Status != domain.Pending || order.PaymentMethod != domain.Online {
			return domain.Order{}, xe.Wrap(fmt.Errorf(
				"%w: order %s is %s (%s)",
				domain.ErrInvalidTransition, order.Number, order.Status, order.PaymentMethod,
			))
		}
		if _, err := tx.Exec(
			ctx,
			`update "order" set "gateway_order_id" = $2, "updated_at" = now() where "id" = $1::uuid`,
			orderId, gatewayOrderId,
		); err != nil {
			return domain.Order{}, xe.Wrap(dberr.Classify(err, "order", gatewayOrderId))
		}
		return shared.GetOrder(ctx, tx, orderId, false)
	})
}

// confirm settles the locked order and performs side effects.
func confirm(
	ctx context.Context, tx pool.Tx, order domain.Order,
	paymentStatus domain.PaymentStatus, paymentId *string, notices orderdb.Notices,
) (orderdb.Settlement, error) {
	next := order.Status
	if order.Status == domain.Pending {
		next = domain.Confirmed
	}

	var short []string
	if order.Status == domain.Pending {
		var err error
		if short, err = shortOf(ctx, tx, order); err != nil {
			return orderdb.Settlement{}, err
		}
		if len(short) != 0 && paymentStatus == domain.PaymentCOD {
			return orderdb.Settlement{}, xe.Wrap(&domain.LineError{
				ProductId: short[0],
				Err:       fmt.Errorf("%w: order %s cannot be confirmed", domain.ErrOutOfStock, order.Number),
			})
		}
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "order" set
			"status" = $2, "payment_status" = $3,
			"gateway_payment_id" = coalesce($4, "gateway_payment_id"),
			"updated_at" = now()
		where "id" = $1::uuid
		`,
		order.Id, string(next), string(paymentStatus), paymentId,
	); err != nil {
		return orderdb.Settlement{}, xe.Wrap(err)
	}

	if next != domain.Confirmed {
		// paid after cancellation. It is to be refunded, not fulfilled.
		updated, err := shared.GetOrder(ctx, tx, order.Id, false)
		if err != nil {
			return orderdb.Settlement{}, err
		}
		return orderdb.Settlement{Order: updated, Transitioned: true}, nil
	}

	if err := moveStock(ctx, tx, order.Id, -1); err != nil {
		return orderdb.Settlement{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`
		delete from "cart_item"
		where "user_id" = $1
		and "product_id" in (select "product_id" from "order_item" where "order_id" = $2::uuid)
		`,
		order.UserId, order.Id,
	); err != nil {
		return orderdb.Settlement{}, xe.Wrap(err)
	}

	overused := false
	if order.CouponCode != nil {
		if err := tx.QueryRow(
			ctx,
			`
			update "coupon" set "used_count" = "used_count" + 1
			where "code" = $1
			returning "usage_limit" is not null and "usage_limit" < "used_count"
			`,
			*order.CouponCode,
		).Scan(&overused); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return orderdb.Settlement{}, xe.Wrap(err)
		}
	}

	updated, err := shared.GetOrder(ctx, tx, order.Id, false)
	if err != nil {
		return orderdb.Settlement{}, err
	}
	if notices != nil {
		if _, err := shared.EnqueueNotifications(ctx, tx, notices(updated)...); err != nil {
			return orderdb.Settlement{}, err
		}
	}

	return orderdb.Settlement{
		Order: updated, Transitioned: true, CouponOverused: overused, StockShort: short,
	}, nil
}

// shortOf locks the products in the order and returns ids of the products
// having less stock than ordered, sorted.
func shortOf(ctx context.Context, tx pool.Tx, order domain.Order) ([]string, error) {
	ordered := map[string]int{}
	ids := []string{}
	for _, it := range order.Items {
		if _, ok := ordered[it.ProductId]; !ok {
			ids = append(ids, it.ProductId)
		}
		ordered[it.ProductId] += it.Quantity
	}
	slices.Sort(ids)

	products, err := shared.GetProducts(ctx, tx, ids, true)
	if err != nil {
		return nil, err
	}
	short := []string{}
	for _, id := range ids {
		if p, ok := products[id]; ok && p.Stock < ordered[id] {
			short = append(short, id)
		}
	}
	return short, nil
}

// moveStock changes stocks of products in the order by sign * quantity.
//
// Stocks never become negative.
func moveStock(ctx context.Context, q pool.Queryer, orderId string, sign int) error {
	if _, err := q.Exec(
		ctx,
		`
		update "product" set
			"stock" = greatest("product"."stock" + $2 * "ordered"."quantity", 0),
			"updated_at" = now()
		from (
			select "product_id", sum("quantity") as "quantity"
			from "order_item" where "order_id" = $1::uuid
			group by "product_id"
		) as "ordered"
		where "product"."id" = "ordered"."product_id"
		`,
		orderId, sign,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (o *pgOrder) MarkPaid(ctx context.Context, gatewayOrderId string, paymentId string, notices orderdb.Notices) (orderdb.Settlement, error) {
	return pool.InTxReturning(ctx, o.pool, func(tx pool.Tx) (orderdb.Settlement, error) {
		id, err := orderIdByGateway(ctx, tx, gatewayOrderId)
		if err != nil {
			return orderdb.Settlement{}, err
		}
		order, err := shared.GetOrder(ctx, tx, id, true)
		if err != nil {
			return orderdb.Settlement{}, err
		}
		if order.PaymentStatus == domain.PaymentPaid {
			return orderdb.Settlement{Order: order, Transitioned: false}, nil
		}
		return confirm(ctx, tx, order, domain.PaymentPaid, &paymentId, notices)
	})
}

func (o *pgOrder) ConfirmCashOnDelivery(ctx context.Context, orderId string, notices orderdb.Notices) (orderdb.Settlement, error) {
	return pool.InTxReturning(ctx, o.pool, func(tx pool.Tx) (orderdb.Settlement, error) {
		order, err := shared.GetOrder(ctx, tx, orderId, true)
		if err != nil {
			return orderdb.Settlement{}, err
		}
		if order.PaymentMethod != domain.CashOnDelivery {
			return orderdb.Settlement{}, xe.Wrap(fmt.Errorf(
				"%w: order %s is not cash-on-delivery", domain.ErrInvalidTransition, order.Number,
			))
		}
		switch order.Status {
		case domain.Pending:
			return confirm(ctx, tx, order, domain.PaymentCOD, nil, notices)
		case domain.Cancelled:
			return orderdb.Settlement{}, xe.Wrap(fmt.Errorf(
				"%w: order %s is cancelled", domain.ErrInvalidTransition, order.Number,
			))
		default:
			return orderdb.Settlement{Order: order, Transitioned: false}, nil
		}
	})
}

func (o *pgOrder) MarkFailed(ctx context.Context, gatewayOrderId string) (domain.Order, error) {
	return pool.InTxReturning(ctx, o.pool, func(tx pool.Tx) (domain.Order, error) {
		id, err := orderIdByGateway(ctx, tx, gatewayOrderId)
		if err != nil {
			return domain.Order{}, err
		}
		if _, err := tx.Exec(
			ctx,
			`
			update "order" set "payment_status" = $2, "updated_at" = now()
			where "id" = $1::uuid and "payment_status" = $3
			`,
			id, string(domain.PaymentFailed), string(domain.PaymentPending),
		); err != nil {
			return domain.Order{}, xe.Wrap(err)
		}
		return shared.GetOrder(ctx, tx, id, false)
	})
}

func (o *pgOrder) SetStatus(ctx context.Context, orderId string, next domain.OrderStatus, notices orderdb.Notices) (domain.Order, error) {
	return pool.InTxReturning(ctx, o.pool, func(tx pool.Tx) (domain.Order, error) {
		order, err := shared.GetOrder(ctx, tx, orderId, true)
		if err != nil {
			return domain.Order{}, err
		}
		if !order.Status.CanBecome(next) {
			return domain.Order{}, xe.Wrap(fmt.Errorf(
				"%w: order %s cannot be %s from %s",
				domain.ErrInvalidTransition, order.Number, next, order.Status,
			))
		}

		if _, err := tx.Exec(
			ctx,
			`update "order" set "status" = $2, "updated_at" = now() where "id" = $1::uuid`,
			orderId, string(next),
		); err != nil {
			return domain.Order{}, xe.Wrap(err)
		}
		if next == domain.Cancelled && order.Status != domain.Pending {
			// stocks have been reserved on confirmation.
			if err := moveStock(ctx, tx, orderId, +1); err != nil {
				return domain.Order{}, err
			}
		}

		updated, err := shared.GetOrder(ctx, tx, orderId, false)
		if err != nil {
			return domain.Order{}, err
		}
		if notices != nil {
			if _, err := shared.EnqueueNotifications(ctx, tx, notices(updated)...); err != nil {
				return domain.Order{}, err
			}
		}
		return updated, nil
	})
}

func (o *pgOrder) ExpirePending(ctx context.Context, olderThan time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := o.pool.Query(
		ctx,
		`
		with "expired" as (
			select "id" from "order"
			where "status" = $1 and "payment_status" in ($2, $3) and "created_at" < $4
			order by "created_at"
			limit $5
			for update skip locked
		)
		update "order" set "status" = $6, "updated_at" = now()
		from "expired"
		where "order"."id" = "expired"."id"
		returning "order"."id"::text
		`,
		string(domain.Pending), string(domain.PaymentPending), string(domain.PaymentFailed),
		olderThan, limit, string(domain.Cancelled),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, xe.Wrap(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}
	return ids, nil
}
