package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shenikar/outage_dashboard/internal/models"
	"github.com/shenikar/outage_dashboard/internal/outage"
)

const (
	icsProductID = "-//outage-dashboard//incidents//FR"
	icsLineLimit = 75
)

// ICSOptions - параметры календарной подписки
type ICSOptions struct {
	Name   string
	Domain string
	// Now задает DTSTAMP; нулевое значение означает текущее время
	Now time.Time
}

// WriteICS пишет подписку iCalendar: одно событие на весь день для каждого инцидента,
// охватывающее тот же диапазон дней, что и календарь. DTEND не включается в событие.
func WriteICS(w io.Writer, indexer *outage.Indexer, incidents []*models.Incident, opts ICSOptions) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	stamp := now.UTC().Format("20060102T150405Z")

	iw := &icsWriter{w: w}
	iw.line("BEGIN:VCALENDAR")
	iw.line("VERSION:2.0")
	iw.line("PRODID:" + icsProductID)
	iw.line("METHOD:PUBLISH")
	iw.line("CALSCALE:GREGORIAN")
	if opts.Name != "" {
		iw.line("X-WR-CALNAME:" + escapeText(opts.Name))
	}
	iw.line("X-WR-TIMEZONE:" + indexer.Location().String())
	iw.line("X-PUBLISHED-TTL:PT1H")

	for _, incident := range incidents {
		if incident == nil {
			continue
		}
		start, end := indexer.DayRange(incident)

		iw.line("BEGIN:VEVENT")
		iw.line(fmt.Sprintf("UID:%s@%s", incident.ID, opts.Domain))
		iw.line("DTSTAMP:" + stamp)
		iw.line("DTSTART;VALUE=DATE:" + icsDate(start))
		iw.line("DTEND;VALUE=DATE:" + icsDate(end.AddDays(1)))
		iw.line("SUMMARY:" + escapeText(fmt.Sprintf("[%s] %s", incident.ServiceType.Label(), incident.Title)))
		if incident.Description != nil && *incident.Description != "" {
			iw.line("DESCRIPTION:" + escapeText(*incident.Description))
		}
		if location := eventLocation(incident); location != "" {
			iw.line("LOCATION:" + escapeText(location))
		}
		if incident.HasCoordinates() {
			iw.line(fmt.Sprintf("GEO:%f;%f", *incident.Latitude, *incident.Longitude))
		}
		iw.line("STATUS:" + eventStatus(incident.Status))
		iw.line("END:VEVENT")
	}

	iw.line("END:VCALENDAR")
	return iw.err
}

func eventLocation(incident *models.Incident) string {
	parts := make([]string, 0, 2)
	if incident.Location != "" {
		parts = append(parts, incident.Location)
	}
	if name := incident.SectorName(); name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

func eventStatus(status models.Status) string {
	switch status {
	case models.StatusScheduled, models.StatusReported:
		return "TENTATIVE"
	case models.StatusResolved:
		return "CANCELLED"
	}
	return "CONFIRMED"
}

func icsDate(d outage.Day) string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

var icsEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

func escapeText(s string) string {
	return icsEscaper.Replace(s)
}

// icsWriter пишет строки с CRLF и переносом длинных строк, запоминая первую ошибку
type icsWriter struct {
	w   io.Writer
	err error
}

func (iw *icsWriter) line(s string) {
	if iw.err != nil {
		return
	}
	_, iw.err = io.WriteString(iw.w, fold(s)+"\r\n")
}

// fold разбивает строку на части не длиннее 75 байт, не разрывая символы UTF-8
func fold(s string) string {
	if len(s) <= icsLineLimit {
		return s
	}
	var b strings.Builder
	size := 0
	for _, r := range s {
		n := utf8.RuneLen(r)
		if size+n > icsLineLimit {
			b.WriteString("\r\n ")
			size = 1
		}
		b.WriteRune(r)
		size += n
	}
	return b.String()
}
