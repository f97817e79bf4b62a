package preset

import (
	"time"

	"github.com/kailas-cloud/archivist/internal/domain/query"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// DateRange is a named upload date window.
type DateRange string

// Date range presets.
const (
	Last30Days    DateRange = "30d"
	Last6Months   DateRange = "6m"
	LastYear      DateRange = "1y"
	Years2020To24 DateRange = "2020-2024"
	Years2010To19 DateRange = "2010-2019"
	Years2000To09 DateRange = "2000-2009"
	Before2000    DateRange = "before-2000"
)

// IsValid checks if the preset is one of the supported values.
func (d DateRange) IsValid() bool {
	switch d {
	case Last30Days, Last6Months, LastYear, Years2020To24, Years2010To19, Years2000To09, Before2000:
		return true
	default:
		return false
	}
}

// Range resolves the preset against now. Relative windows end at now;
// year spans are inclusive of both years.
func (d DateRange) Range(now time.Time) (query.Range, error) {
	now = now.UTC()
	switch d {
	case Last30Days:
		return query.NewRange(record.Date(now.AddDate(0, 0, -30)), record.Date(now))
	case Last6Months:
		return query.NewRange(record.Date(now.AddDate(0, -6, 0)), record.Date(now))
	case LastYear:
		return query.NewRange(record.Date(now.AddDate(-1, 0, 0)), record.Date(now))
	case Years2020To24:
		return years(2020, 2024)
	case Years2010To19:
		return years(2010, 2019)
	case Years2000To09:
		return years(2000, 2009)
	case Before2000:
		return query.NewRange(record.Value{}, record.Date(yearStart(2000).Add(-time.Nanosecond)))
	default:
		return query.Range{}, nil
	}
}

func years(from, to int) (query.Range, error) {
	return query.NewRange(record.Date(yearStart(from)), record.Date(yearStart(to+1).Add(-time.Nanosecond)))
}

func yearStart(y int) time.Time { return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC) }
