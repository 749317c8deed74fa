package iocache

import (
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/repostat/schema"
)

// PrintStoreStatus prints store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Repositories: %d\n", status.TotalRepositories)
	if status.TotalRepositories > 0 {
		_, _ = fmt.Fprintf(w, "Last Repository ID: %d\n", status.LastRepositoryID)
		_, _ = fmt.Fprintf(w, "Last Saved: %s\n", status.LastCreatedAt.Format("2006-01-02 15:04:05"))
	}
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
