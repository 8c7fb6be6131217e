package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shenikar/outage_dashboard/internal/models"
)

// WriteCSV пишет инциденты в CSV с заголовком. Время выводится в поясе loc.
func WriteCSV(w io.Writer, incidents []*models.Incident, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, incident := range incidents {
		if incident == nil {
			continue
		}
		if err := cw.Write(row(incident, loc)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
