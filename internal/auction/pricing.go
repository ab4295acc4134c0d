package auction

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/core"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/models"
)

// Temperature buckets how far through its decay window an auction is. Purely
// presentational; settlement never reads it.
type Temperature string

const (
	TempHot     Temperature = "HOT"
	TempWarm    Temperature = "WARM"
	TempCooling Temperature = "COOLING"
	TempCold    Temperature = "COLD"
)

type TimeRemaining struct {
	MillisecondsRemaining int64 `json:"millisecondsRemaining"`
	Expired               bool  `json:"expired"`
}

// DecayStep is one checkpoint of a STEPPED curve. The active price is the one
// of the last checkpoint whose fraction has been reached; no interpolation.
type DecayStep struct {
	AtFraction float64         `json:"atFractionOfDuration"`
	PriceSol   decimal.Decimal `json:"priceSol"`
}

const DefaultDecayExponent = 3

// PricingEngine computes derived price figures for an auction. It is stateless
// and deterministic given (auction, now).
type PricingEngine struct {
	// DecayExponent k > 1 for EXPONENTIAL curves: fast descent early, slow
	// approach to the floor late.
	DecayExponent int
}

func (e PricingEngine) exponent() int64 {
	if e.DecayExponent > 1 {
		return int64(e.DecayExponent)
	}
	return DefaultDecayExponent
}

// CurrentPrice is always within [floorPrice, startPrice] and non-increasing in
// now. Before startsAt it is the start price; at or past endsAt, the floor.
func (e PricingEngine) CurrentPrice(a *models.Auction, now time.Time) decimal.Decimal {
	start := a.StartPriceSol
	floor := a.FloorPriceSol

	tr := TimeRemainingAt(a, now)
	if tr.Expired {
		return floor
	}
	if !now.After(a.StartsAt) {
		return start
	}

	frac := elapsedFraction(a, now)

	var price decimal.Decimal
	switch a.DecayType {
	case models.DecayStepped:
		steps, err := ParseDecaySteps(a.DecaySteps)
		if err != nil || len(steps) == 0 {
			price = linearPrice(start, floor, frac)
			break
		}
		price = steppedPrice(steps, start, frac)
	case models.DecayExponential:
		// floor + (start - floor) * (1 - fraction)^k
		span := start.Sub(floor)
		rem := decimal.NewFromInt(1).Sub(frac)
		price = floor.Add(span.Mul(rem.Pow(decimal.NewFromInt(e.exponent()))))
	default:
		price = linearPrice(start, floor, frac)
	}

	return clampPrice(price, floor, start)
}

// TemperatureAt buckets the elapsed fraction: HOT < 0.25, WARM < 0.5,
// COOLING < 0.75, COLD otherwise.
func (e PricingEngine) TemperatureAt(a *models.Auction, now time.Time) Temperature {
	if TimeRemainingAt(a, now).Expired {
		return TempCold
	}
	frac, _ := elapsedFraction(a, now).Float64()
	switch {
	case frac < 0.25:
		return TempHot
	case frac < 0.5:
		return TempWarm
	case frac < 0.75:
		return TempCooling
	default:
		return TempCold
	}
}

// TimeRemainingAt reports milliseconds until endsAt. A non-positive duration
// counts as already expired; creation validation rejects those upstream, the
// engine just has to stay safe.
func TimeRemainingAt(a *models.Auction, now time.Time) TimeRemaining {
	if a.DurationMinutes <= 0 {
		return TimeRemaining{MillisecondsRemaining: 0, Expired: true}
	}
	ms := a.EndsAt().Sub(now).Milliseconds()
	if ms <= 0 {
		return TimeRemaining{MillisecondsRemaining: 0, Expired: true}
	}
	return TimeRemaining{MillisecondsRemaining: ms, Expired: false}
}

func ParseDecaySteps(raw []byte) ([]DecayStep, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var steps []DecayStep
	if err := json.Unmarshal(raw, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// ValidateDecaySteps enforces the STEPPED invariants: non-empty, first fraction
// exactly 0, fractions increasing with the last at most 1, prices
// non-increasing. Used by the creation surface; the engine itself degrades
// gracefully on bad data.
func ValidateDecaySteps(steps []DecayStep) error {
	if len(steps) == 0 {
		return core.InvalidInput("decaySteps must be non-empty for STEPPED decay")
	}
	if steps[0].AtFraction != 0 {
		return core.InvalidInput("first decay step must be at fraction 0")
	}
	for i := 1; i < len(steps); i++ {
		if steps[i].AtFraction <= steps[i-1].AtFraction {
			return core.InvalidInput("decay step fractions must be strictly increasing")
		}
		if steps[i].PriceSol.GreaterThan(steps[i-1].PriceSol) {
			return core.InvalidInput("decay step prices must be non-increasing")
		}
	}
	if steps[len(steps)-1].AtFraction > 1 {
		return core.InvalidInput("last decay step fraction must be at most 1")
	}
	return nil
}

// elapsedFraction is clamp(now - startsAt, 0, duration) / duration. Callers
// have already handled the expired and not-started boundaries.
func elapsedFraction(a *models.Auction, now time.Time) decimal.Decimal {
	durMs := int64(a.DurationMinutes) * 60 * 1000
	elapsedMs := now.Sub(a.StartsAt).Milliseconds()
	if elapsedMs <= 0 {
		return decimal.Zero
	}
	if elapsedMs >= durMs {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(elapsedMs).Div(decimal.NewFromInt(durMs))
}

func linearPrice(start, floor, frac decimal.Decimal) decimal.Decimal {
	return start.Sub(start.Sub(floor).Mul(frac))
}

func steppedPrice(steps []DecayStep, start, frac decimal.Decimal) decimal.Decimal {
	sorted := make([]DecayStep, len(steps))
	copy(sorted, steps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AtFraction < sorted[j].AtFraction
	})
	f, _ := frac.Float64()
	price := start
	for _, s := range sorted {
		if s.AtFraction <= f {
			price = s.PriceSol
			continue
		}
		break
	}
	return price
}

func clampPrice(p, floor, start decimal.Decimal) decimal.Decimal {
	if p.LessThan(floor) {
		return floor
	}
	if p.GreaterThan(start) {
		return start
	}
	return p
}
