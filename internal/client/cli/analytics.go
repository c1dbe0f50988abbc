package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dmitrijs2005/expensekeeper/internal/filex"
)

func (a *App) Summary(ctx context.Context, args []string) error {
	rows, err := a.api.Summary(ctx, rangeArgs(args))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No data to display")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tTOTAL\tCOUNT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.Category, r.TotalAmount.StringFixed(2), r.Count)
	}
	return tw.Flush()
}

func (a *App) Total(ctx context.Context, args []string) error {
	total, err := a.api.Total(ctx, rangeArgs(args))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total: %.2f\n", total)
	return nil
}

// Chart prints the server's text rendering of the category breakdown.
func (a *App) Chart(ctx context.Context, args []string) error {
	c, err := a.api.Chart(ctx, rangeArgs(args))
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, c.Report)
	if len(c.Report) > 0 && c.Report[len(c.Report)-1] != '\n' {
		fmt.Fprintln(a.out)
	}
	return nil
}

// Report saves the CSV report under reportDir using the server-suggested name.
func (a *App) Report(ctx context.Context, args []string) error {
	r, err := a.api.Report(ctx, rangeArgs(args))
	if err != nil {
		return err
	}

	dir, err := filex.EnsureDir(a.reportDir)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, filepath.Base(r.Filename))
	if err := os.WriteFile(path, []byte(r.CSV), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Fprintf(a.out, "Report saved to %s\n", path)
	return nil
}

func (a *App) Archive(ctx context.Context, args []string) error {
	r, err := a.api.ArchiveReport(ctx, rangeArgs(args))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Report archived as %s\nDownload (valid for a limited time): %s\n", r.Key, r.URL)
	return nil
}
