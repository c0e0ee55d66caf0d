package strategy

import (
	"time"

	"TrendSentinel/internal/model"
)

var fixtureStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

// goldenBars is the hand-built 40-bar series shared with the calculator tests.
func goldenBars() []model.Bar {
	closes := []float64{101.2, 100.4, 101.9, 102.5, 100.5, 101.4, 101.8, 101.5, 103.2, 102.6,
		103.7, 102.3, 103.1, 103.4, 102.5, 104.6, 104.1, 104.7, 103.5, 104.5,
		103.8, 105.2, 104.9, 105.4, 103.8, 104.7, 105.9, 105.5, 106.2, 105.1,
		106.9, 106.7, 107.1, 106.2, 107.5, 106.9, 107.9, 107.6, 109.1, 109.7}
	highs := []float64{101.7, 101.15, 102.9, 103.0, 101.25, 102.4, 102.3, 102.25, 104.2, 103.1,
		104.45, 103.3, 103.6, 104.15, 103.5, 105.1, 104.85, 105.7, 104.0, 105.25,
		104.8, 105.7, 105.65, 106.4, 104.3, 105.45, 106.9, 106.0, 106.95, 106.1,
		107.4, 107.45, 108.1, 106.7, 108.25, 107.9, 108.4, 108.35, 110.1, 110.2}
	lows := []float64{100.75, 99.75, 101.05, 101.45, 100.05, 100.75, 100.95, 100.45, 102.75, 101.95,
		102.85, 101.25, 102.65, 102.75, 101.65, 103.55, 103.65, 104.05, 102.65, 103.45,
		103.35, 104.55, 104.05, 104.35, 103.35, 104.05, 105.05, 104.45, 105.75, 104.45,
		106.05, 105.65, 106.65, 105.55, 106.65, 105.85, 107.45, 106.95, 108.25, 108.65}

	bars := make([]model.Bar, len(closes))
	for i := range closes {
		bars[i] = model.Bar{
			Time:   fixtureStart.AddDate(0, 0, i),
			Open:   closes[i] - 0.3,
			High:   highs[i],
			Low:    lows[i],
			Close:  closes[i],
			Volume: 1000,
		}
	}
	return bars
}

// rampBars builds n bars whose close moves by step from start, except the
// last bar which moves by jump. High and low sit one point around the close.
func rampBars(n int, start, step, jump float64) []model.Bar {
	bars := make([]model.Bar, n)
	c := start
	for i := range bars {
		if i == n-1 {
			c += jump
		} else {
			c += step
		}
		bars[i] = model.Bar{
			Time:   fixtureStart.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 500,
		}
	}
	return bars
}

func flatBars(n int, price float64) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{Time: fixtureStart.Add(time.Duration(i) * time.Hour), Open: price, High: price, Low: price, Close: price}
	}
	return bars
}

func available(score int, label string) model.StateResult {
	return model.StateResult{Score: score, Label: label, Polarity: model.PolarityOf(float64(score)), Available: true}
}
