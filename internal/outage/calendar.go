package outage

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/outage_dashboard/internal/models"
)

// DefaultMaxSpanDays - максимальная длина диапазона одного инцидента в днях
const DefaultMaxSpanDays = 365

const dayLayout = "2006-01-02"

// Day - календарный день без времени и часового пояса
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf возвращает календарный день момента t в поясе loc
func DayOf(t time.Time, loc *time.Location) Day {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay разбирает день в формате YYYY-MM-DD
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayOf(t, nil), nil
}

func (d Day) String() string {
	return d.utcNoon().Format(dayLayout)
}

// MarshalText сериализует день как YYYY-MM-DD
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Before сообщает, что d строго раньше other
func (d Day) Before(other Day) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// AddDays сдвигает день на n календарных дней
func (d Day) AddDays(n int) Day {
	return DayOf(d.utcNoon().AddDate(0, 0, n), nil)
}

// Start возвращает начало дня в поясе loc
func (d Day) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// полдень UTC не зависит от переходов на летнее время
func (d Day) utcNoon() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// daysBetween возвращает число дней от a до b (отрицательное, если b раньше a)
func daysBetween(a, b Day) int {
	return int(b.epochDay() - a.epochDay())
}

// epochDay - номер дня от 1970-01-01. Полночь UTC кратна 86400, деление точное.
func (d Day) epochDay() int64 {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// DaySet - множество календарных дней
type DaySet map[Day]struct{}

// Has проверяет принадлежность дня множеству
func (s DaySet) Has(d Day) bool {
	_, ok := s[d]
	return ok
}

// Sorted возвращает дни по возрастанию
func (s DaySet) Sorted() []Day {
	days := make([]Day, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// AnomalyKind - вид нарушения целостности диапазона дат
type AnomalyKind string

const (
	AnomalyInvertedRange AnomalyKind = "inverted_range"
	AnomalySpanTooLong   AnomalyKind = "span_too_long"
)

// Anomaly описывает инцидент, диапазон которого пришлось обрезать
type Anomaly struct {
	IncidentID uuid.UUID
	Kind       AnomalyKind
	Start      Day
	End        Day
	SpanDays   int
}

// AnomalyReporter получает сведения об аномалиях в данных
type AnomalyReporter interface {
	ReportAnomaly(a Anomaly)
}

// AnomalyReporterFunc позволяет использовать функцию как AnomalyReporter
type AnomalyReporterFunc func(a Anomaly)

func (f AnomalyReporterFunc) ReportAnomaly(a Anomaly) { f(a) }

// Indexer строит календарные индексы по набору инцидентов.
// Все методы чистые: каждый вызов работает только со своими аргументами.
type Indexer struct {
	loc         *time.Location
	maxSpanDays int
	reporter    AnomalyReporter
}

// NewIndexer создает Indexer. loc == nil означает локальный пояс процесса,
// maxSpanDays <= 0 означает DefaultMaxSpanDays, reporter может быть nil.
func NewIndexer(loc *time.Location, maxSpanDays int, reporter AnomalyReporter) *Indexer {
	if loc == nil {
		loc = time.Local
	}
	if maxSpanDays <= 0 {
		maxSpanDays = DefaultMaxSpanDays
	}
	return &Indexer{
		loc:         loc,
		maxSpanDays: maxSpanDays,
		reporter:    reporter,
	}
}

// Location возвращает часовой пояс календаря
func (ix *Indexer) Location() *time.Location {
	return ix.loc
}

// DayRange возвращает включительный диапазон дней инцидента.
// Перевернутый диапазон сжимается до дня начала, слишком длинный обрезается до maxSpanDays.
func (ix *Indexer) DayRange(incident *models.Incident) (Day, Day) {
	start := DayOf(incident.StartTime, ix.loc)
	if incident.ExpectedEndTime == nil {
		return start, start
	}
	end := DayOf(*incident.ExpectedEndTime, ix.loc)

	span := daysBetween(start, end) + 1
	switch {
	case end.Before(start):
		ix.report(Anomaly{IncidentID: incident.ID, Kind: AnomalyInvertedRange, Start: start, End: end, SpanDays: span})
		return start, start
	case span > ix.maxSpanDays:
		ix.report(Anomaly{IncidentID: incident.ID, Kind: AnomalySpanTooLong, Start: start, End: end, SpanDays: span})
		return start, start.AddDays(ix.maxSpanDays - 1)
	}
	return start, end
}

func (ix *Indexer) report(a Anomaly) {
	if ix.reporter != nil {
		ix.reporter.ReportAnomaly(a)
	}
}

// DaysWithActivity возвращает все дни, затронутые хотя бы одним инцидентом
func (ix *Indexer) DaysWithActivity(incidents []*models.Incident) DaySet {
	days := make(DaySet)
	for _, incident := range incidents {
		if incident == nil {
			continue
		}
		start, end := ix.DayRange(incident)
		for d := start; !end.Before(d); d = d.AddDays(1) {
			days[d] = struct{}{}
		}
	}
	return days
}

// DaysInRange возвращает активные дни внутри окна [from, to] по возрастанию
func (ix *Indexer) DaysInRange(incidents []*models.Incident, from, to Day) []Day {
	days := make(DaySet)
	if to.Before(from) {
		return days.Sorted()
	}
	for _, incident := range incidents {
		if incident == nil {
			continue
		}
		start, end := ix.DayRange(incident)
		if start.Before(from) {
			start = from
		}
		if to.Before(end) {
			end = to
		}
		for d := start; !end.Before(d); d = d.AddDays(1) {
			days[d] = struct{}{}
		}
	}
	return days.Sorted()
}

// IncidentsOnDay возвращает инциденты, активные в день day, в исходном порядке
func (ix *Indexer) IncidentsOnDay(incidents []*models.Incident, day Day) []*models.Incident {
	result := make([]*models.Incident, 0)
	for _, incident := range incidents {
		if incident == nil {
			continue
		}
		start, end := ix.DayRange(incident)
		if !day.Before(start) && !end.Before(day) {
			result = append(result, incident)
		}
	}
	return result
}

// MonthBounds возвращает первый и последний день месяца
func MonthBounds(year int, month time.Month) (Day, Day) {
	first := Day{Year: year, Month: month, Day: 1}
	last := DayOf(first.utcNoon().AddDate(0, 1, -1), nil)
	return first, last
}

// DaysWithActivity - вариант Indexer.DaysWithActivity с настройками по умолчанию
func DaysWithActivity(incidents []*models.Incident) DaySet {
	return NewIndexer(nil, 0, nil).DaysWithActivity(incidents)
}

// IncidentsOnDay - вариант Indexer.IncidentsOnDay с настройками по умолчанию
func IncidentsOnDay(incidents []*models.Incident, day Day) []*models.Incident {
	return NewIndexer(nil, 0, nil).IncidentsOnDay(incidents, day)
}
