package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeRepositoriesTable lists saved analyses, newest first.
func writeRepositoriesTable(w io.Writer, records []schema.RepositoryRecord, cfg *contract.Config) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No saved analyses.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Path", "Commits", "+Lines", "-Lines", "First", "Last", "Saved"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := getMaxNameWidth(cfg)
	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			contract.TruncateText(r.Path, pathWidth),
			strconv.Itoa(r.TotalCommits),
			contract.ColorAdded(r.TotalLinesAdded, cfg.UseColors),
			contract.ColorRemoved(r.TotalLinesRemoved, cfg.UseColors),
			contract.FormatDate(r.FirstCommitDate),
			contract.FormatDate(r.LastCommitDate),
			r.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeRepositoriesCSV(w io.Writer, records []schema.RepositoryRecord) error {
	header := []string{"id", "path", "total_commits", "total_lines_added", "total_lines_removed", "first_commit", "last_commit", "created_at"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				strconv.FormatInt(r.ID, 10),
				r.Path,
				strconv.Itoa(r.TotalCommits),
				strconv.Itoa(r.TotalLinesAdded),
				strconv.Itoa(r.TotalLinesRemoved),
				optionalRFC3339(r.FirstCommitDate),
				optionalRFC3339(r.LastCommitDate),
				r.CreatedAt.Format(time.RFC3339),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func optionalRFC3339(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
