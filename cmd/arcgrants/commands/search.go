package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"arcgrants/lib/arcapi"
	"arcgrants/lib/configutil"
	"arcgrants/lib/export"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// Config carries optional defaults read from config.json5.
type Config struct {
	BaseUrl  string `json:"base_url"`
	PageSize int    `json:"page_size"`
}

var searchFlags struct {
	search          *string
	scheme          *string
	adminOrg        *string
	adminOrgShort   *string
	status          *string
	yearFrom        *string
	yearTo          *string
	fundingFrom     *string
	fundingTo       *string
	fellowshipsOnly *string
	liefRegister    *string
	fourDigitFor    *string
	twoDigitFor     *string
	pageSize        *int
	maxPages        *int
	csvPath         *string
	sqlitePath      *string
}

func init() {
	f := searchCmd.Flags()
	searchFlags.search = f.String("search", "", "Free text search query.")
	searchFlags.scheme = f.String("scheme", "", "Filter by scheme name.")
	searchFlags.adminOrg = f.String("admin-org", "", "Filter by administering organisation name.")
	searchFlags.adminOrgShort = f.String("admin-org-short", "", "Filter by administering organisation short name.")
	searchFlags.status = f.String("status", "", "Filter by status (Active, Closed, etc.).")
	searchFlags.yearFrom = f.String("year-from", "", "Filter by funding commencement year (from).")
	searchFlags.yearTo = f.String("year-to", "", "Filter by funding commencement year (to).")
	searchFlags.fundingFrom = f.String("funding-from", "", "Filter by minimum funding amount.")
	searchFlags.fundingTo = f.String("funding-to", "", "Filter by maximum funding amount.")
	searchFlags.fellowshipsOnly = f.String("fellowships-only", "", "Filter to grants with fellowships (true/false).")
	searchFlags.liefRegister = f.String("lief-register", "", "Filter to grants on the LIEF Register (true/false).")
	searchFlags.fourDigitFor = f.String("four-digit-for", "", "Filter by 4-digit Field of Research code.")
	searchFlags.twoDigitFor = f.String("two-digit-for", "", "Filter by 2-digit Field of Research code.")
	searchFlags.pageSize = f.Int("page-size", arcapi.DefaultPageSize, "Number of results per page (max 1000).")
	searchFlags.maxPages = f.Int("max-pages", 0, "Maximum number of pages to fetch (0 for all).")
	searchFlags.csvPath = f.String("csv", "", "CSV output filename.")
	searchFlags.sqlitePath = f.String("sqlite", "", "SQLite output filename.")
	rootCmd.AddCommand(searchCmd)
}

// defaultPaths fills in unspecified output filenames, deriving each
// missing one from the other or from a current timestamp.
func defaultPaths(csvPath, sqlitePath string, now time.Time) (string, string) {
	timestamp := now.Format("20060102_150405")

	if csvPath == "" && sqlitePath == "" {
		csvPath = fmt.Sprintf("results/arc_grants_%s.csv", timestamp)
	}
	if sqlitePath == "" && csvPath != "" {
		sqlitePath = strings.TrimSuffix(csvPath, ".csv") + ".db"
	}
	if csvPath == "" && sqlitePath != "" {
		csvPath = strings.TrimSuffix(sqlitePath, ".db") + ".csv"
	}
	return csvPath, sqlitePath
}

var searchCmd = &cobra.Command{
	Use:   "search [--search <text>] [filter flags...] [--csv <out.csv>] [--sqlite <out.db>]",
	Short: "Searches the grants portal and exports the results to CSV and SQLite.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil && !os.IsNotExist(err) {
			slog.Error("failed to read config", "err", err)
			return
		}

		pageSize := *searchFlags.pageSize
		if !cmd.Flags().Changed("page-size") && cfg.PageSize > 0 {
			pageSize = cfg.PageSize
		}

		csvPath, sqlitePath := defaultPaths(*searchFlags.csvPath, *searchFlags.sqlitePath, time.Now())

		filter := arcapi.BuildFilterQuery(arcapi.FilterOptions{
			SearchText:      *searchFlags.search,
			Scheme:          *searchFlags.scheme,
			AdminOrg:        *searchFlags.adminOrg,
			AdminOrgShort:   *searchFlags.adminOrgShort,
			Status:          *searchFlags.status,
			YearFrom:        *searchFlags.yearFrom,
			YearTo:          *searchFlags.yearTo,
			FundingFrom:     *searchFlags.fundingFrom,
			FundingTo:       *searchFlags.fundingTo,
			FellowshipsOnly: *searchFlags.fellowshipsOnly,
			LiefRegister:    *searchFlags.liefRegister,
			FourDigitFor:    *searchFlags.fourDigitFor,
			TwoDigitFor:     *searchFlags.twoDigitFor,
		})
		if filter != "" {
			slog.Info("using filter query", "filter", filter)
		}

		client := arcapi.NewClient(arcapi.ClientOptions{BaseUrl: cfg.BaseUrl})
		grants := client.FetchGrants(ctx, arcapi.FetchOptions{
			FilterQuery: filter,
			PageSize:    pageSize,
			MaxPages:    *searchFlags.maxPages,
		})
		if len(grants) == 0 {
			slog.Warn("no results found, nothing exported")
			return
		}

		csvOk := export.ToCSV(ctx, grants, csvPath)
		sqliteOk := export.ToSQLite(ctx, grants, sqlitePath)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Output", "Path", "Status"})
		t.AppendRow(table.Row{"grants fetched", "", len(grants)})
		t.AppendRow(table.Row{"csv", csvPath, exportStatus(csvOk)})
		t.AppendRow(table.Row{"sqlite", sqlitePath, exportStatus(sqliteOk)})
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

func exportStatus(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
