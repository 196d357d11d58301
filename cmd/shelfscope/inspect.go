package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/shelfscope/engine"
	"github.com/spektr-org/shelfscope/schema"
)

var (
	inspectFormat string
	inspectOut    string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show how columns resolve and which dimensions are chosen",
	Long: `Load the dataset and report what the charts will see: the columns,
which column each role (genre, year, rating...) resolves to, the numeric
candidates with their variance, skipped columns, and the selected
parallel-coordinate axes.

Examples:
  shelfscope inspect --file books.csv
  shelfscope inspect --file books.csv --format pretty --out inspect.json`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format: text, json, pretty")
	inspectCmd.Flags().StringVarP(&inspectOut, "out", "o", "", "Write output to file instead of stdout")
}

// inspectRoles are reported in this order.
var inspectRoles = []schema.Role{
	schema.Title, schema.Genre, schema.Year, schema.Rating,
	schema.Pages, schema.RatingsCount, schema.Swaps, schema.Popularity,
}

type roleOutput struct {
	Role   string `json:"role"`
	Column string `json:"column,omitempty"`
}

type inspectOutput struct {
	Source    string           `json:"source"`
	Rows      int              `json:"rows"`
	Columns   []string         `json:"columns"`
	Roles     []roleOutput     `json:"roles"`
	Selection engine.Selection `json:"selection"`
}

func runInspect(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}

	out := inspectOutput{
		Source:    filePath,
		Rows:      ds.Len(),
		Columns:   ds.Columns(),
		Selection: engine.SelectDimensions(ds, engineOptions()...),
	}
	for _, role := range inspectRoles {
		key, _ := ds.Resolve(role)
		out.Roles = append(out.Roles, roleOutput{Role: role.Name, Column: key})
	}

	w, closeOut, err := outputWriter(inspectOut)
	if err != nil {
		return err
	}
	defer closeOut()

	switch inspectFormat {
	case "json", "pretty":
		return writeJSON(w, out, inspectFormat)
	case "text":
		writeInspectText(w, out)
		return nil
	}
	return fmt.Errorf("unknown format %q", inspectFormat)
}

func writeInspectText(w io.Writer, out inspectOutput) {
	fmt.Fprintf(w, "Source:  %s\n", out.Source)
	fmt.Fprintf(w, "Rows:    %s\n", engine.FormatInt(out.Rows))
	fmt.Fprintf(w, "Columns: %s\n\n", strings.Join(out.Columns, ", "))

	fmt.Fprintln(w, "Roles")
	for _, r := range out.Roles {
		col := r.Column
		if col == "" {
			col = "(not found)"
		}
		fmt.Fprintf(w, "  %-14s %s\n", r.Role, col)
	}

	sel := out.Selection
	fmt.Fprintf(w, "\nNumeric candidates (%d)\n", len(sel.Candidates))
	for _, d := range sel.Candidates {
		fmt.Fprintf(w, "  %-20s valid %-6d missing %5.1f%%  variance %s\n",
			d.Key, d.ValidCount, d.MissingRatio*100, engine.FormatNumber(d.Variance))
	}
	if len(sel.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped (%d)\n", len(sel.Skipped))
		for _, s := range sel.Skipped {
			fmt.Fprintf(w, "  %-20s %s\n", s.Column, s.Reason)
		}
	}

	fmt.Fprintln(w, "\nSelected axes")
	if len(sel.Selected) == 0 {
		fmt.Fprintln(w, "  (none: not enough usable numeric columns)")
	}
	for i, d := range sel.Selected {
		fmt.Fprintf(w, "  %d. %s (%s)\n", i+1, d.DisplayName, d.Key)
	}
}
