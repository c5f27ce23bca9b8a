package service

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"offer-service/internal/models"
	"offer-service/internal/render"
	"offer-service/internal/util"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Countdown formats
const (
	CountdownFormat1 = "format1"
	CountdownFormat2 = "format2"
	CountdownFormat3 = "format3"
)

const (
	msPerDay    = 86400000
	msPerHour   = 3600000
	msPerMinute = 60000
	msPerSecond = 1000
)

// Remaining is a time span split into whole units
type Remaining struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// SplitRemaining splits a millisecond delta by floor division. ok is false
// when nothing remains; the page is reloaded instead of showing the time.
func SplitRemaining(ms int64) (Remaining, bool) {
	if ms <= 0 {
		return Remaining{}, false
	}
	return Remaining{
		Days:    ms / msPerDay,
		Hours:   (ms % msPerDay) / msPerHour,
		Minutes: (ms % msPerHour) / msPerMinute,
		Seconds: (ms % msPerMinute) / msPerSecond,
	}, true
}

// FormatCountdown renders the remaining time in one of the countdown formats
func FormatCountdown(r Remaining, upcoming bool, format string) string {
	prefix := "Ends in: "
	if upcoming {
		prefix = "Starts in: "
	}

	switch format {
	case CountdownFormat1:
		// a unit shows once it or any larger unit is non-zero
		var b strings.Builder
		b.WriteString(prefix)
		if r.Days > 0 {
			fmt.Fprintf(&b, "%dd ", r.Days)
		}
		if r.Hours > 0 || r.Days > 0 {
			fmt.Fprintf(&b, "%dh ", r.Hours)
		}
		if r.Minutes > 0 || r.Hours > 0 || r.Days > 0 {
			fmt.Fprintf(&b, "%dm ", r.Minutes)
		}
		fmt.Fprintf(&b, "%ds", r.Seconds)
		return b.String()

	case CountdownFormat2:
		var parts []string
		if r.Days > 0 {
			parts = append(parts, pluralUnit(r.Days, "Day"))
		}
		if r.Hours > 0 {
			parts = append(parts, pluralUnit(r.Hours, "Hour"))
		}
		if r.Minutes > 0 {
			parts = append(parts, pluralUnit(r.Minutes, "Minute"))
		}
		parts = append(parts, pluralUnit(r.Seconds, "Second"))
		return prefix + strings.Join(parts, " ")

	case CountdownFormat3:
		return fmt.Sprintf("%s%02d:%02d:%02d:%02d", prefix, r.Days, r.Hours, r.Minutes, r.Seconds)

	default:
		return fmt.Sprintf("%s%dd %dh %dm %ds", prefix, r.Days, r.Hours, r.Minutes, r.Seconds)
	}
}

func pluralUnit(n int64, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// CountdownService renders the countdown element of flash offers
type CountdownService struct {
	offers   OfferRepository
	renderer *render.Renderer
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewCountdownService creates a new countdown service
func NewCountdownService(offers OfferRepository, renderer *render.Renderer, loc *time.Location) *CountdownService {
	if loc == nil {
		loc = time.UTC
	}
	return &CountdownService{
		offers:   offers,
		renderer: renderer,
		loc:      loc,
		now:      time.Now,
		logger:   util.GetLogger(),
	}
}

// OfferCountdown renders the countdown towards the start of an upcoming offer
// or the end of an active one. Expired offers get no countdown.
func (s *CountdownService) OfferCountdown(offer *models.FlashOffer, format string) (template.HTML, error) {
	now := s.now()

	var target time.Time
	upcoming := false
	switch offer.StatusAt(now) {
	case models.OfferStatusUpcoming:
		upcoming = true
		target = offer.StartDate
	case models.OfferStatusActive:
		target = offer.EndDate
	default:
		return "", nil
	}

	remaining, ok := SplitRemaining(target.Sub(now).Milliseconds())
	if !ok {
		return "", nil
	}

	return s.renderer.Countdown(render.CountdownView{
		Upcoming: upcoming,
		Start:    offer.StartDate.In(s.loc),
		End:      offer.EndDate.In(s.loc),
		Text:     FormatCountdown(remaining, upcoming, format),
	})
}

// RenderForPost renders the countdown of the offer bound to a post
func (s *CountdownService) RenderForPost(ctx context.Context, postID int64, offerType string) (template.HTML, error) {
	ctx, span := util.StartOfferSpan(ctx, "CountdownService.RenderForPost", map[string]int64{"post_id": postID})
	defer span.End()

	offer, err := s.offers.GetFlashOfferByPostID(ctx, postID, offerType)
	if err != nil {
		return "", errors.Wrap(err, "get offer")
	}
	if offer == nil {
		return "", ErrOfferNotFound
	}

	opts, err := loadFlashOptions(ctx, s.offers)
	if err != nil {
		return "", err
	}

	html, err := s.OfferCountdown(offer, opts.CountdownFormat)
	if err != nil {
		s.logger.Error("Failed to render countdown", zap.Int64("post_id", postID), zap.Error(err))
		return "", err
	}
	return html, nil
}

// Format returns the configured countdown format
func (s *CountdownService) Format(ctx context.Context) (string, error) {
	opts, err := loadFlashOptions(ctx, s.offers)
	if err != nil {
		return "", err
	}
	return opts.CountdownFormat, nil
}
