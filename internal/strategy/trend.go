package strategy

import (
	"fmt"

	"TrendSentinel/internal/model"
)

// TimeframeTrend sums the Get, Set and Go scores into one trend.
// The trend is unavailable when any of the three is.
func TimeframeTrend(get, set, goState model.StateResult, p Params) model.TrendResult {
	if !get.Available || !set.Available || !goState.Available {
		return model.UnavailableTrend()
	}

	total := get.Score + set.Score + goState.Score
	action := actionFor(float64(total), p)
	return model.TrendResult{
		Action:    action,
		Score:     float64(total),
		Label:     fmt.Sprintf("%s (%d)", action, total),
		Polarity:  polarityOf(action),
		Available: true,
	}
}

// TotalTrend combines timeframe trends with p.Weights into one weighted
// average, labelled with one decimal place. A weighted timeframe that is
// missing or unavailable makes the total unavailable.
func TotalTrend(trends map[model.Timeframe]model.TrendResult, p Params) model.TrendResult {
	var sum, weights float64
	for _, tf := range model.Timeframes {
		w := p.Weights[tf]
		if w == 0 {
			continue
		}
		trend, ok := trends[tf]
		if !ok || !trend.Available {
			return model.UnavailableTrend()
		}
		sum += trend.Score * w
		weights += w
	}
	if weights == 0 {
		return model.UnavailableTrend()
	}

	score := sum / weights
	action := actionFor(score, p)
	return model.TrendResult{
		Action:    action,
		Score:     score,
		Label:     fmt.Sprintf("%s (%.1f)", action, score),
		Polarity:  polarityOf(action),
		Available: true,
	}
}

func actionFor(score float64, p Params) model.Action {
	switch {
	case score >= p.BuyThreshold:
		return model.Buy
	case score <= p.SellThreshold:
		return model.Sell
	default:
		return model.Hold
	}
}

func polarityOf(a model.Action) model.Polarity {
	switch a {
	case model.Buy:
		return model.Positive
	case model.Sell:
		return model.Negative
	default:
		return model.Neutral
	}
}
