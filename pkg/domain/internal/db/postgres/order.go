package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/sareeloom/storefront/pkg/conn/db/postgres/pool"
	"github.com/sareeloom/storefront/pkg/domain"
	dberr "github.com/sareeloom/storefront/pkg/domain/errors/dberrors/postgres"
	xe "github.com/sareeloom/storefront/pkg/errors"
)

const orderColumns = `
	"id"::text, "number", "user_id", "email",
	"status", "payment_status", "payment_method",
	"subtotal", "addons_total", "discount", "delivery_charge", "total",
	"coupon_code", "shipping", "gateway_order_id", "gateway_payment_id",
	"created_at", "updated_at"`

func scanOrder(row pgx.Row) (domain.Order, error) {
	o := domain.Order{}
	var status, paymentStatus, paymentMethod string
	var subtotal, addonsTotal, discount, delivery, total int64
	var shipping pgtype.JSONB
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&o.Id, &o.Number, &o.UserId, &o.Email,
		&status, &paymentStatus, &paymentMethod,
		&subtotal, &addonsTotal, &discount, &delivery, &total,
		&o.CouponCode, &shipping, &o.GatewayOrderId, &o.GatewayPaymentId,
		&createdAt, &updatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	if err := shipping.AssignTo(&o.Shipping); err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	o.PaymentStatus = domain.PaymentStatus(paymentStatus)
	o.PaymentMethod = domain.PaymentMethod(paymentMethod)
	o.Breakdown = domain.Breakdown{
		Subtotal:       domain.Amount(subtotal),
		AddonsTotal:    domain.Amount(addonsTotal),
		Discount:       domain.Amount(discount),
		DeliveryCharge: domain.Amount(delivery),
		Total:          domain.Amount(total),
	}
	o.CreatedAt = createdAt.UTC()
	o.UpdatedAt = updatedAt.UTC()
	return o, nil
}

// GetOrders returns orders with items, in the order of ids.
//
// Ids not found are not in the result.
//
// # Args
//
// - lock: when true, order rows are locked "for update".
func GetOrders(ctx context.Context, q pool.Queryer, ids []string, lock bool) ([]domain.Order, error) {
	if len(ids) == 0 {
		return []domain.Order{}, nil
	}

	query := `select ` + orderColumns + ` from "order" where "id"::text = any($1::varchar[])`
	if lock {
		query += ` for update`
	}
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	found := map[string]domain.Order{}
	if err := func() error {
		defer rows.Close()
		for rows.Next() {
			o, err := scanOrder(rows)
			if err != nil {
				return xe.Wrap(err)
			}
			o.Items = []domain.OrderItem{}
			found[o.Id] = o
		}
		return rows.Err()
	}(); err != nil {
		return nil, err
	}

	items, err := q.Query(
		ctx,
		`
		select "order_id"::text, "product_id"::text, "product_name", "quantity", "unit_price", "addons"
		from "order_item"
		where "order_id"::text = any($1::varchar[])
		order by "order_id", "line"
		`,
		ids,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer items.Close()
	for items.Next() {
		var orderId string
		var unitPrice int64
		var addons pgtype.JSONB
		it := domain.OrderItem{}
		if err := items.Scan(
			&orderId, &it.ProductId, &it.ProductName, &it.Quantity, &unitPrice, &addons,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		it.UnitPrice = domain.Amount(unitPrice)
		if err := addons.AssignTo(&it.Addons); err != nil {
			return nil, xe.Wrap(err)
		}
		if it.Addons == nil {
			it.Addons = []domain.AddonSnapshot{}
		}
		o := found[orderId]
		o.Items = append(o.Items, it)
		found[orderId] = o
	}
	if err := items.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	ret := make([]domain.Order, 0, len(found))
	for _, id := range ids {
		if o, ok := found[id]; ok {
			ret = append(ret, o)
		}
	}
	return ret, nil
}

// GetOrder returns an order.
//
// # Returns
//
// - error: dberr.Missing when not found.
func GetOrder(ctx context.Context, q pool.Queryer, id string, lock bool) (domain.Order, error) {
	os, err := GetOrders(ctx, q, []string{id}, lock)
	if err != nil {
		return domain.Order{}, err
	}
	if len(os) == 0 {
		return domain.Order{}, xe.Wrap(dberr.Missing{Table: "order", Identity: id})
	}
	return os[0], nil
}
