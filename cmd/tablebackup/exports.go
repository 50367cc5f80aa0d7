package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/GreedyKomodoDragon/table-backup-operator/internal/exports"
)

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List table exports held in a destination bucket",
	Long: "List the exports under <prefix>/ in a destination bucket, newest first.\n" +
		"Defaults come from EXPORT_BUCKET (or the first BUCKET_NAMES entry), EXPORT_PREFIX and TABLE_NAME.",
	RunE: runExports,
}

func init() {
	exportsCmd.Flags().String("bucket", "", "destination bucket to inspect")
	exportsCmd.Flags().String("prefix", "", "export key prefix")
	exportsCmd.Flags().String("table", "", "only show exports of this table")
	exportsCmd.Flags().Bool("latest", false, "show only the newest export and its manifest summary")
}

func runExports(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	cfg, err := exports.LoadConfigFromEnv()
	bucket, _ := cmd.Flags().GetString("bucket")
	if err != nil && bucket == "" {
		return err
	}
	if bucket != "" {
		cfg.Bucket = bucket
	}
	if prefix, _ := cmd.Flags().GetString("prefix"); prefix != "" {
		cfg.Prefix = prefix
	}
	if tableName, _ := cmd.Flags().GetString("table"); tableName != "" {
		cfg.Table = tableName
	}
	latestOnly, _ := cmd.Flags().GetBool("latest")

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	store, err := exports.NewS3Store(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	service := exports.NewService(store, cfg.Prefix, logger)

	if latestOnly {
		return printLatestExport(ctx, service, cfg)
	}

	found, err := service.List(ctx, cfg.Table)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Println(dimStyle.Render(fmt.Sprintf("no exports found in s3://%s/%s/", cfg.Bucket, cfg.Prefix)))
		return nil
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("==> exports in %s (%d)", cfg.Bucket, len(found))))
	fmt.Println(renderExports(found))
	return nil
}

func printLatestExport(ctx context.Context, service *exports.Service, cfg exports.Config) error {
	latest, err := service.Latest(ctx, cfg.Table)
	if err != nil {
		return err
	}
	if latest == nil {
		fmt.Println(dimStyle.Render(fmt.Sprintf("no exports found in s3://%s/%s/", cfg.Bucket, cfg.Prefix)))
		return nil
	}

	fmt.Println(titleStyle.Render("==> latest export"))
	fmt.Println(renderExports([]exports.Export{*latest}))

	summary, err := service.ReadManifest(ctx, *latest)
	if err != nil {
		fmt.Println(dimStyle.Render(err.Error()))
		return nil
	}
	fmt.Printf("%s %s\n", labelStyle.Render("export arn:"), summary.ExportARN)
	fmt.Printf("%s %s\n", labelStyle.Render("format:    "), summary.OutputFormat)
	fmt.Printf("%s %d\n", labelStyle.Render("items:     "), summary.ItemCount)
	fmt.Printf("%s %d\n", labelStyle.Render("bytes:     "), summary.BilledSizeBytes)
	return nil
}

func renderExports(found []exports.Export) string {
	rows := make([][]string, 0, len(found))
	for _, exp := range found {
		manifest := "pending"
		if exp.ManifestKey != "" {
			manifest = "complete"
		}
		rows = append(rows, []string{
			exp.BackupName,
			exp.Table,
			exp.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", exp.Files),
			manifest,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("BACKUP", "TABLE", "CREATED (UTC)", "FILES", "MANIFEST").
		Rows(rows...).
		String()
}
