package coupons_test

import (
	"errors"
	"testing"
	"time"

	bindcoupons "github.com/sareeloom/storefront/pkg/api-types-binding/coupons"
	apicoupons "github.com/sareeloom/storefront/pkg/api/types/coupons"
	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/utils/pointer"
	"github.com/sareeloom/storefront/pkg/utils/rfctime"
)

func TestParseCoupon(t *testing.T) {
	until := rfctime.RFC3339(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC))

	t.Run("normalizes code", func(t *testing.T) {
		actual, err := bindcoupons.ParseCoupon(" festive10 ", apicoupons.Coupon{
			Type: "percent", Value: 10, MaxDiscount: pointer.Ref(domain.Rupees(500)),
			UsedCount: 99, ValidUntil: &until, Active: true,
		})
		if err != nil {
			t.Fatal(err)
		}
		if actual.Code != "FESTIVE10" || actual.Type != domain.Percent || actual.UsedCount != 0 {
			t.Errorf("unexpected coupon: %+v", actual)
		}
		if actual.ValidUntil == nil || !actual.ValidUntil.Equal(until.Time()) {
			t.Errorf("valid until: %v", actual.ValidUntil)
		}

		back := bindcoupons.ComposeCoupon(actual)
		if back.Code != "FESTIVE10" || back.ValidUntil == nil || back.ValidFrom != nil {
			t.Errorf("composed: %+v", back)
		}
	})

	for name, when := range map[string]apicoupons.Coupon{
		"unknown type":           {Type: "bogo", Value: 1},
		"percentage over 100":    {Type: "percent", Value: 120},
		"max discount for fixed": {Type: "fixed", Value: 100, MaxDiscount: pointer.Ref(domain.Amount(10))},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := bindcoupons.ParseCoupon("X", when); !errors.Is(err, domain.ErrInvalidCoupon) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
