package telegram

import (
	"fmt"
	"strings"
)

// IngestionOutcome carries the batch-level numbers reported to operators
// after every ingestion run.
type IngestionOutcome struct {
	Source            string
	RecordsAttempted  int
	ReportsInserted   int
	DuplicatesSkipped int
	NewStocks         int
	NewBrokers        int
	NewAuthors        int
	Err               error
}

// FormatIngestionOutcome renders a batch outcome as a Telegram Markdown
// message.
func FormatIngestionOutcome(o IngestionOutcome) string {
	var b strings.Builder

	if o.Err != nil {
		b.WriteString("❌ *Report ingestion rolled back*\n\n")
		fmt.Fprintf(&b, "Source: `%s`\n", o.Source)
		fmt.Fprintf(&b, "Records attempted: %d\n", o.RecordsAttempted)
		fmt.Fprintf(&b, "Cause: %s\n", o.Err.Error())
		return b.String()
	}

	b.WriteString("✅ *Report ingestion completed*\n\n")
	fmt.Fprintf(&b, "Source: `%s`\n", o.Source)
	fmt.Fprintf(&b, "Records attempted: %d\n", o.RecordsAttempted)
	fmt.Fprintf(&b, "Reports inserted: %d\n", o.ReportsInserted)
	fmt.Fprintf(&b, "Duplicates skipped: %d\n", o.DuplicatesSkipped)
	if o.NewStocks+o.NewBrokers+o.NewAuthors > 0 {
		fmt.Fprintf(&b, "New entities: %d stocks, %d brokers, %d authors\n",
			o.NewStocks, o.NewBrokers, o.NewAuthors)
	}
	return b.String()
}
