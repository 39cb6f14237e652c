package orders

import (
	"fmt"

	apiorders "github.com/sareeloom/storefront/pkg/api/types/orders"
	"github.com/sareeloom/storefront/pkg/checkout"
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

func ComposeBreakdown(b domain.Breakdown) apiorders.Breakdown {
	return apiorders.Breakdown{
		Subtotal:       b.Subtotal,
		AddonsTotal:    b.AddonsTotal,
		Discount:       b.Discount,
		DeliveryCharge: b.DeliveryCharge,
		Total:          b.Total,
	}
}

func ComposeItem(i domain.OrderItem) apiorders.Item {
	return apiorders.Item{
		ProductId:   i.ProductId,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		Addons: utils.Map(i.Addons, func(a domain.AddonSnapshot) apiorders.Addon {
			return apiorders.Addon{AddonId: a.Id, Name: a.Name, Price: a.Price}
		}),
		LineTotal: i.LineTotal(),
	}
}

func ComposeAddress(a domain.ShippingAddress) apiorders.Address {
	return apiorders.Address{
		Name: a.Name, Phone: a.Phone, Line1: a.Line1, Line2: a.Line2,
		City: a.City, State: a.State, PostalCode: a.PostalCode, Country: a.Country,
	}
}

func ParseAddress(a apiorders.Address) domain.ShippingAddress {
	country := a.Country
	if country == "" {
		country = "IN"
	}
	return domain.ShippingAddress{
		Name: a.Name, Phone: a.Phone, Line1: a.Line1, Line2: a.Line2,
		City: a.City, State: a.State, PostalCode: a.PostalCode, Country: country,
	}
}

func ComposeOrder(o domain.Order) apiorders.Order {
	items := utils.Map(o.Items, ComposeItem)
	if items == nil {
		items = []apiorders.Item{}
	}
	return apiorders.Order{
		OrderId:          o.Id,
		Number:           o.Number,
		UserId:           o.UserId,
		Email:            o.Email,
		Status:           string(o.Status),
		PaymentStatus:    string(o.PaymentStatus),
		PaymentMethod:    string(o.PaymentMethod),
		Breakdown:        ComposeBreakdown(o.Breakdown),
		CouponCode:       o.CouponCode,
		Shipping:         ComposeAddress(o.Shipping),
		GatewayOrderId:   o.GatewayOrderId,
		GatewayPaymentId: o.GatewayPaymentId,
		Items:            items,
		CreatedAt:        rfctime.RFC3339(o.CreatedAt),
		UpdatedAt:        rfctime.RFC3339(o.UpdatedAt),
	}
}

func ComposePlaced(p checkout.Placed) apiorders.Placed {
	return apiorders.Placed{
		Order:          ComposeOrder(p.Order),
		GatewayOrderId: p.GatewayOrderId,
		KeyId:          p.KeyId,
		Currency:       p.Currency,
	}
}

func ParseLines(lines []apiorders.Line) []checkout.Line {
	return utils.Map(lines, func(l apiorders.Line) checkout.Line {
		return checkout.Line{ProductId: l.ProductId, Quantity: l.Quantity, AddonIds: l.AddonIds}
	})
}

// ParseCheckoutRequest converts a request body.
//
// When the request has no lines, lines from the cart are used.
func ParseCheckoutRequest(req apiorders.CheckoutRequest, cart []domain.CartItem) (checkout.Request, error) {
	method, err := domain.AsPaymentMethod(req.PaymentMethod)
	if err != nil {
		return checkout.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidPaymentMethod, err)
	}
	lines := ParseLines(req.Lines)
	if len(lines) == 0 {
		lines = utils.Map(cart, func(i domain.CartItem) checkout.Line {
			return checkout.Line{ProductId: i.ProductId, Quantity: i.Quantity, AddonIds: i.AddonIds}
		})
	}
	return checkout.Request{
		Lines:         lines,
		CouponCode:    req.CouponCode,
		PaymentMethod: method,
		Shipping:      ParseAddress(req.Shipping),
		ClientTotal:   req.Total,
	}, nil
}
