package collector

import "TrendSentinel/internal/model"

// AggregateDailyToWeekly converts daily bars into ISO-week bars. Each week
// opens with its first day, closes with its last and is stamped with the
// first day's time.
func AggregateDailyToWeekly(daily []model.Bar) []model.Bar {
	if len(daily) == 0 {
		return nil
	}
	var weekly []model.Bar
	week := daily[0]
	weekYear, weekNum := week.Time.ISOWeek()

	for _, d := range daily[1:] {
		year, isoWeek := d.Time.ISOWeek()
		if year != weekYear || isoWeek != weekNum {
			weekly = append(weekly, week)
			week = d
			weekYear, weekNum = year, isoWeek
			continue
		}
		if d.High > week.High {
			week.High = d.High
		}
		if d.Low < week.Low {
			week.Low = d.Low
		}
		week.Close = d.Close
		week.Volume += d.Volume
	}
	return append(weekly, week)
}
