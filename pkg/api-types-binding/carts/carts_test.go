package carts_test

import (
	"testing"

	bindcarts "github.com/sareeloom/storefront/pkg/api-types-binding/carts"
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils/pointer"
)

func TestComposeCart(t *testing.T) {
	silk := domain.Product{Id: "silk", Price: domain.Rupees(4000), Stock: 5, Active: true}
	cotton := domain.Product{
		Id: "cotton", Price: domain.Rupees(1000), SalePrice: pointer.Ref(domain.Rupees(800)),
		Stock: 1, Active: true,
	}
	retired := domain.Product{Id: "retired", Price: domain.Rupees(2000), Stock: 9}
	pico := domain.Addon{Id: "pico", Price: domain.Rupees(150), Active: true}

	actual := bindcarts.ComposeCart([]domain.CartLine{
		{Product: silk, Addons: []domain.Addon{pico}, Quantity: 2},
		{Product: cotton, Quantity: 2}, // short of stock
		{Product: retired, Quantity: 1},
		{Product: cotton, Quantity: 1},
	})

	if len(actual.Lines) != 4 {
		t.Fatalf("lines: %d", len(actual.Lines))
	}
	for i, available := range []bool{true, false, false, true} {
		if actual.Lines[i].Available != available {
			t.Errorf("line #%d: available = %v", i, actual.Lines[i].Available)
		}
	}
	if l := actual.Lines[0]; l.LineTotal != domain.Rupees(8300) {
		t.Errorf("line total: %s", l.LineTotal)
	}
	if actual.Subtotal != domain.Rupees(8800) {
		t.Errorf("subtotal: %s", actual.Subtotal)
	}
	if actual.AddonsTotal != domain.Rupees(300) {
		t.Errorf("addons total: %s", actual.AddonsTotal)
	}
}
