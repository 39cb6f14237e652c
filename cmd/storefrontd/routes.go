package main

import (
	"github.com/labstack/echo/v4"
	"github.com/sareeloom/storefront/cmd/storefrontd/handlers"
	"github.com/sareeloom/storefront/pkg/auth"
	"github.com/sareeloom/storefront/pkg/checkout"
	"github.com/sareeloom/storefront/pkg/domain"
	storefrontdb "github.com/sareeloom/storefront/pkg/domain/storefront/db"
	"github.com/sareeloom/storefront/pkg/storage"
)

type services struct {
	db       storefrontdb.Database
	verifier auth.TokenVerifier
	checkout *checkout.Checkout
	images   storage.ImageStore
}

// register routes of the api.
//
// api builds the path of an endpoint from its relative path.
func register(e *echo.Echo, api func(...string) string, s services) {
	customer := []echo.MiddlewareFunc{auth.Authenticated(s.verifier)}
	staff := []echo.MiddlewareFunc{
		auth.Authenticated(s.verifier), auth.RequireRole(s.db.Role(), domain.Staff),
	}
	admin := []echo.MiddlewareFunc{
		auth.Authenticated(s.verifier), auth.RequireRole(s.db.Role(), domain.Admin),
	}

	// public
	{
		e.GET(api("products"), handlers.FindProductsHandler(s.db.Catalog(), false))
		e.GET(api("products/:product"), handlers.GetProductHandler(s.db.Catalog(), "product"))
		e.GET(api("categories"), handlers.ListCategoriesHandler(s.db.Catalog()))
		e.GET(api("addons"), handlers.ListAddonsHandler(s.db.Catalog(), false))
		e.GET(
			api("products/:product/reviews"),
			handlers.GetProductReviewsHandler(s.db.Review(), "product"),
		)
		e.GET(api("content/:key"), handlers.GetContentHandler(s.db.Content(), "key"))
		e.POST(api("coupons/validate"), handlers.ValidateCouponHandler(s.checkout))
		e.POST(api("payments/webhook"), handlers.PaymentWebhookHandler(s.checkout))
	}

	// customer
	{
		e.GET(api("cart"), handlers.GetCartHandler(s.db.Cart(), s.db.Catalog()), customer...)
		e.PUT(
			api("cart/items/:productId"),
			handlers.PutCartItemHandler(s.db.Cart(), s.checkout, "productId"),
			customer...,
		)
		e.DELETE(
			api("cart/items/:productId"),
			handlers.RemoveCartItemHandler(s.db.Cart(), "productId"),
			customer...,
		)
		e.DELETE(api("cart"), handlers.ClearCartHandler(s.db.Cart()), customer...)

		e.POST(api("checkout"), handlers.CheckoutHandler(s.db.Cart(), s.checkout), customer...)
		e.POST(api("checkout/verify"), handlers.VerifyPaymentHandler(s.checkout), customer...)

		e.GET(api("orders"), handlers.ListMyOrdersHandler(s.db.Order()), customer...)
		e.GET(api("orders/:orderId"), handlers.GetMyOrderHandler(s.db.Order(), "orderId"), customer...)
		e.PUT(
			api("orders/:orderId/cancel"),
			handlers.CancelMyOrderHandler(s.checkout, "orderId"),
			customer...,
		)

		e.POST(
			api("products/:product/reviews"),
			handlers.PostReviewHandler(s.db.Review(), "product"),
			customer...,
		)
	}

	// staff
	{
		e.GET(api("admin/products"), handlers.FindProductsHandler(s.db.Catalog(), true), staff...)
		e.POST(api("admin/products"), handlers.CreateProductHandler(s.db.Catalog()), staff...)
		e.PUT(
			api("admin/products/:productId"),
			handlers.UpdateProductHandler(s.db.Catalog(), "productId"),
			staff...,
		)
		e.DELETE(
			api("admin/products/:productId"),
			handlers.DeactivateProductHandler(s.db.Catalog(), "productId"),
			staff...,
		)
		e.POST(
			api("admin/products/:productId/images"),
			handlers.UploadProductImageHandler(s.db.Catalog(), s.images, "productId"),
			staff...,
		)
		e.DELETE(
			api("admin/products/:productId/images"),
			handlers.RemoveProductImageHandler(s.db.Catalog(), s.images, "productId"),
			staff...,
		)

		e.POST(api("admin/categories"), handlers.CreateCategoryHandler(s.db.Catalog()), staff...)
		e.DELETE(
			api("admin/categories/:categoryId"),
			handlers.DeleteCategoryHandler(s.db.Catalog(), "categoryId"),
			staff...,
		)

		e.GET(api("admin/addons"), handlers.ListAddonsHandler(s.db.Catalog(), true), staff...)
		e.PUT(
			api("admin/addons/:addonId"),
			handlers.PutAddonHandler(s.db.Catalog(), "addonId"),
			staff...,
		)

		e.GET(api("admin/orders"), handlers.FindOrdersHandler(s.db.Order()), staff...)
		e.PUT(
			api("admin/orders/:orderId/status"),
			handlers.PutOrderStatusHandler(s.db.Order(), s.checkout.StatusNotices, "orderId"),
			staff...,
		)

		e.GET(api("admin/reviews"), handlers.ListReviewsForModerationHandler(s.db.Review()), staff...)
		e.PUT(
			api("admin/reviews/:reviewId/approval"),
			handlers.PutReviewApprovalHandler(s.db.Review(), "reviewId"),
			staff...,
		)
		e.DELETE(
			api("admin/reviews/:reviewId"),
			handlers.DeleteReviewHandler(s.db.Review(), "reviewId"),
			staff...,
		)
	}

	// admin
	{
		e.GET(api("admin/coupons"), handlers.ListCouponsHandler(s.db.Coupon()), admin...)
		e.PUT(api("admin/coupons/:code"), handlers.PutCouponHandler(s.db.Coupon(), "code"), admin...)
		e.DELETE(api("admin/coupons/:code"), handlers.DeleteCouponHandler(s.db.Coupon(), "code"), admin...)

		e.GET(api("admin/roles"), handlers.ListRolesHandler(s.db.Role()), admin...)
		e.PUT(api("admin/roles/:userId"), handlers.GrantRoleHandler(s.db.Role(), "userId"), admin...)
		e.DELETE(api("admin/roles/:userId"), handlers.RevokeRoleHandler(s.db.Role(), "userId"), admin...)

		e.PUT(api("admin/content/:key"), handlers.PutContentHandler(s.db.Content(), "key"), admin...)
	}
}
