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

// RankedContributor is a contributor with its 1-based position in the top-N list.
type RankedContributor struct {
	Rank int `json:"rank"`
	schema.NamedContributor
}

// SummaryView is the JSON shape of an analysis: the full stats plus the ranked top-N
// contributors.
type SummaryView struct {
	*schema.RepositoryStats
	TopContributors []RankedContributor `json:"top_contributors"`
}

// NewSummaryView ranks the contributors of stats, keeping at most limit of them.
func NewSummaryView(stats *schema.RepositoryStats, limit int) SummaryView {
	return SummaryView{RepositoryStats: stats, TopContributors: rankContributors(stats, limit)}
}

func rankContributors(stats *schema.RepositoryStats, limit int) []RankedContributor {
	top := stats.TopContributors(limit)
	ranked := make([]RankedContributor, len(top))
	for i, c := range top {
		ranked[i] = RankedContributor{Rank: i + 1, NamedContributor: c}
	}
	return ranked
}

// writeSummaryText writes the header lines, the totals table and the contributors table.
func writeSummaryText(w io.Writer, stats *schema.RepositoryStats, cfg *contract.Config, duration time.Duration) error {
	title := "Repository statistics"
	if cfg.UseColors {
		title = contract.HeaderColor.Sprint(title)
	}
	if _, err := fmt.Fprintf(w, "%s\nRepository: %s\nWindow: %s\n", title, stats.RepoPath, describeWindow(cfg.DateRange)); err != nil {
		return err
	}

	totals := tablewriter.NewWriter(w)
	totals.Header([]string{"Commits", "Contributors", "Lines Added", "Lines Removed", "First Commit", "Last Commit"})
	totals.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	if err := totals.Append([]string{
		strconv.Itoa(stats.TotalCommits),
		strconv.Itoa(len(stats.Contributors)),
		contract.ColorAdded(stats.TotalLinesAdded, cfg.UseColors),
		contract.ColorRemoved(stats.TotalLinesRemoved, cfg.UseColors),
		contract.FormatDate(stats.FirstCommitDate),
		contract.FormatDate(stats.LastCommitDate),
	}); err != nil {
		return err
	}
	if err := totals.Render(); err != nil {
		return err
	}

	ranked := rankContributors(stats, cfg.ResultLimit)
	if len(ranked) == 0 {
		if _, err := fmt.Fprintln(w, "No commits in the selected window."); err != nil {
			return err
		}
	} else {
		if err := writeContributorTable(w, ranked, cfg); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Showing top %d of %d contributors\n", len(ranked), len(stats.Contributors)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Analysis completed in %v. Store backend: %s\n", duration.Round(time.Millisecond), cfg.StoreBackend)
	return err
}

func writeContributorTable(w io.Writer, ranked []RankedContributor, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Name", "Commits", "+Lines", "-Lines", "First", "Last"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg)
	var data [][]string
	for _, c := range ranked {
		data = append(data, []string{
			strconv.Itoa(c.Rank),
			contract.TruncateText(c.Name, nameWidth),
			strconv.Itoa(c.Commits),
			contract.ColorAdded(c.LinesAdded, cfg.UseColors),
			contract.ColorRemoved(c.LinesRemoved, cfg.UseColors),
			c.FirstCommit.Format(schema.DateLayout),
			c.LastCommit.Format(schema.DateLayout),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// describeWindow renders the date filter for the summary header.
func describeWindow(r schema.DateRange) string {
	switch {
	case r.Start.IsZero() && r.End.IsZero():
		return "all history"
	case r.End.IsZero():
		return "from " + r.Start.Format(schema.DateLayout)
	case r.Start.IsZero():
		return "through " + r.End.Format(schema.DateLayout)
	default:
		return r.Start.Format(schema.DateLayout) + " to " + r.End.Format(schema.DateLayout)
	}
}

func writeSummaryJSON(w io.Writer, stats *schema.RepositoryStats, limit int) error {
	return writeJSON(w, NewSummaryView(stats, limit))
}

// writeContributorsCSV writes one row per top-N contributor.
func writeContributorsCSV(w io.Writer, stats *schema.RepositoryStats, limit int) error {
	header := []string{"rank", "name", "email", "commits", "lines_added", "lines_removed", "first_commit", "last_commit"}
	emails := stats.FirstEmails()
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range rankContributors(stats, limit) {
			rec := []string{
				strconv.Itoa(c.Rank),
				c.Name,
				emails[c.Name],
				strconv.Itoa(c.Commits),
				strconv.Itoa(c.LinesAdded),
				strconv.Itoa(c.LinesRemoved),
				c.FirstCommit.Format(time.RFC3339),
				c.LastCommit.Format(time.RFC3339),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
