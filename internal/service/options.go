package service

import (
	"context"

	"offer-service/internal/models"

	"github.com/go-faster/errors"
)

func loadFlashOptions(ctx context.Context, offers OfferRepository) (models.FlashOptions, error) {
	var opts models.FlashOptions
	if _, err := offers.GetOption(ctx, models.OptionFlashOffers, &opts); err != nil {
		return models.FlashOptions{}, errors.Wrap(err, "load flash options")
	}
	return opts.WithDefaults(), nil
}

func loadBogoOptions(ctx context.Context, offers OfferRepository) (models.BogoOptions, error) {
	var opts models.BogoOptions
	if _, err := offers.GetOption(ctx, models.OptionBogoOffers, &opts); err != nil {
		return models.BogoOptions{}, errors.Wrap(err, "load bogo options")
	}
	return opts, nil
}
