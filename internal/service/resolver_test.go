package service

import (
	"context"
	"testing"
	"time"

	"offer-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeFlash(id, postID int64, discount string) models.FlashOffer {
	return models.FlashOffer{
		ID:        id,
		PostID:    postID,
		Discount:  dec(discount),
		StartDate: fixedNow.Add(-time.Hour),
		EndDate:   fixedNow.Add(time.Hour),
		OfferType: models.OfferTypeSpecial,
	}
}

func newTestResolver(offers *fakeOffers) *OfferResolver {
	r := NewOfferResolver(offers)
	r.now = fixedClock
	return r
}

func TestResolveFlashWinsOverBogo(t *testing.T) {
	offers := newFakeOffers()
	offers.flash = []models.FlashOffer{activeFlash(1, 100, "20")}
	offers.offerProducts[1] = []int64{10}
	offers.bogo = []models.BogoOffer{{ID: 5, BuyProductID: 10, GetProductID: 11, Discount: dec("50"), Status: models.OfferStatusActive}}

	p := simple(10, "mug", "100", "")
	res, err := newTestResolver(offers).Resolve(context.Background(), &p)
	require.NoError(t, err)

	assert.Equal(t, ResolutionFlash, res.Kind)
	assert.Equal(t, int64(1), res.Flash.ID)
	assert.Nil(t, res.Bogo)
	assert.Equal(t, models.OverrideSale, res.OverrideType)
	assert.True(t, res.Discount().Equal(dec("20")))
}

func TestResolveFlashOverrideFromOptions(t *testing.T) {
	offers := newFakeOffers()
	offers.flash = []models.FlashOffer{activeFlash(1, 100, "20")}
	offers.offerProducts[1] = []int64{10}
	offers.options[models.OptionFlashOffers] = models.FlashOptions{FlashOverrideType: models.OverrideRegular}

	p := simple(10, "mug", "100", "90")
	res, err := newTestResolver(offers).Resolve(context.Background(), &p)
	require.NoError(t, err)
	assert.Equal(t, models.OverrideRegular, res.OverrideType)
	assert.True(t, res.Baseline(&p).Equal(dec("100")))
}

func TestResolveIgnoresInactiveOffers(t *testing.T) {
	offers := newFakeOffers()
	expired := activeFlash(1, 100, "20")
	expired.EndDate = fixedNow.Add(-time.Minute)
	offers.flash = []models.FlashOffer{expired}
	offers.offerProducts[1] = []int64{10}
	offers.bogo = []models.BogoOffer{{ID: 5, BuyProductID: 10, GetProductID: 11, Status: models.OfferStatusInactive}}

	p := simple(10, "mug", "100", "")
	res, err := newTestResolver(offers).Resolve(context.Background(), &p)
	require.NoError(t, err)
	assert.Equal(t, ResolutionNone, res.Kind)
	assert.True(t, res.Discount().IsZero())
}

func TestResolveBogoThroughParent(t *testing.T) {
	offers := newFakeOffers()
	offers.bogo = []models.BogoOffer{{ID: 5, BuyProductID: 10, GetProductID: 20, Discount: dec("50"),
		OverrideType: models.OverrideRegular, Status: models.OfferStatusActive}}

	v := variation(21, 20, "30", "S")
	res, err := newTestResolver(offers).Resolve(context.Background(), &v)
	require.NoError(t, err)
	assert.Equal(t, ResolutionBogo, res.Kind)
	assert.Equal(t, int64(5), res.Bogo.ID)
	assert.Equal(t, models.OverrideRegular, res.OverrideType)
}

func TestResolveBogoOverrideFallback(t *testing.T) {
	offers := newFakeOffers()
	offers.bogo = []models.BogoOffer{{ID: 5, BuyProductID: 10, GetProductID: 11, Status: models.OfferStatusActive}}
	offers.options[models.OptionBogoOffers] = models.BogoOptions{BogoOverrideType: models.OverrideRegular}

	p := simple(11, "cup", "50", "40")
	res, err := newTestResolver(offers).Resolve(context.Background(), &p)
	require.NoError(t, err)
	assert.Equal(t, models.OverrideRegular, res.OverrideType)
}

func TestBaseline(t *testing.T) {
	onSale := simple(1, "a", "100", "80")
	noSale := simple(2, "b", "100", "")
	zeroSale := simple(3, "c", "100", "0")

	sale := Resolution{Kind: ResolutionBogo, OverrideType: models.OverrideSale}
	regular := Resolution{Kind: ResolutionFlash, OverrideType: models.OverrideRegular}
	none := Resolution{Kind: ResolutionNone}

	assert.True(t, sale.Baseline(&onSale).Equal(dec("80")))
	assert.True(t, sale.Baseline(&noSale).Equal(dec("100")))
	assert.True(t, sale.Baseline(&zeroSale).Equal(dec("100")))
	assert.True(t, regular.Baseline(&onSale).Equal(dec("100")))
	assert.True(t, none.Baseline(&onSale).Equal(dec("100")))
}

func TestResolutionKindString(t *testing.T) {
	assert.Equal(t, "none", ResolutionNone.String())
	assert.Equal(t, "flash", ResolutionFlash.String())
	assert.Equal(t, "bogo", ResolutionBogo.String())
}
