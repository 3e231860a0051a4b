package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smarttable/smarttable/internal/aws"
	"github.com/smarttable/smarttable/internal/config"
	"github.com/smarttable/smarttable/internal/config/data"
	"github.com/smarttable/smarttable/internal/dao"
	"github.com/smarttable/smarttable/internal/logging"
	"github.com/smarttable/smarttable/internal/model"
	"github.com/smarttable/smarttable/internal/model1"
	"github.com/smarttable/smarttable/internal/view"
)

const (
	appName    = "smarttable"
	appVersion = "0.1.0"

	s3Scheme = "s3://"
	stdin    = "-"
)

var (
	stFlags *data.Flags
	rootCmd = &cobra.Command{
		Use:   appName + " [dataset]",
		Short: "A terminal table for JSON and YAML datasets",
		Long:  `smarttable sorts, searches, pages and selects records of a dataset in the terminal.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
)

func init() {
	stFlags = config.NewFlags()
	initFlags()
	rootCmd.AddCommand(versionCmd)
}

func initFlags() {
	ff := rootCmd.Flags()
	ff.IntVarP(stFlags.ItemsByPage, "itemsByPage", "i", *stFlags.ItemsByPage, "Rows per page")
	ff.StringVar(stFlags.Selection, "selection", *stFlags.Selection, "Selection mode (none, single, multiple)")
	ff.BoolVar(stFlags.Paginate, "paginate", *stFlags.Paginate, "Split rows into pages")
	ff.BoolVar(stFlags.Checkbox, "checkbox", *stFlags.Checkbox, "Display a selection column")
	ff.StringVarP(stFlags.Search, "search", "s", *stFlags.Search, "Initial global search")
	ff.StringVar(stFlags.Sort, "sort", *stFlags.Sort, "Initial sort column, a leading - sorts it twice")
	ff.IntVarP(stFlags.Page, "page", "p", *stFlags.Page, "Initial page")
	ff.BoolVar(stFlags.Remote, "remote", *stFlags.Remote, "Serve the dataset as a paged remote source")
	ff.StringVar(stFlags.S3, "s3", *stFlags.S3, "Dataset S3 URI (s3://bucket/key)")
	ff.StringVar(stFlags.Profile, "profile", *stFlags.Profile, "AWS profile to use")
	ff.StringVar(stFlags.Region, "region", *stFlags.Region, "AWS region to use")
	ff.Float32VarP(stFlags.RefreshRate, "refresh", "r", *stFlags.RefreshRate, "Reload interval in seconds, 0 disables")
	ff.BoolVar(stFlags.Headless, "headless", *stFlags.Headless, "Print the page and exit")
	ff.StringVarP(stFlags.LogLevel, "logLevel", "l", *stFlags.LogLevel, "Log level (debug, info, warn, error)")
	ff.StringVar(stFlags.LogFile, "logFile", *stFlags.LogFile, "Log file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := config.InitLocs(); err != nil {
		return fmt.Errorf("failed to initialize locations: %w", err)
	}

	cfg := config.NewConfig()
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Refine(changedFlags(cmd.Flags(), stFlags)); err != nil {
		return fmt.Errorf("failed to refine configuration: %w", err)
	}

	st := cfg.SmartTable
	logFile := st.Logger.File
	if cmd.Flags().Changed("logFile") || logFile == "" {
		logFile = *stFlags.LogFile
	}
	closeLog, err := logging.Init(st.Logger.Level, logFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer closeLog()
	logger := logging.For("cmd")

	aliases := config.NewAliases()
	if err := aliases.Load(); err != nil {
		logger.WithError(err).Warn("Unable to load aliases")
	}
	location := *stFlags.S3
	if location == "" && len(args) > 0 {
		location = aliases.Resolve(args[0])
	}
	if location == "" {
		return fmt.Errorf("no dataset given")
	}

	opts, err := st.Options()
	if err != nil {
		return err
	}
	src, err := buildSource(st, location, opts)
	if err != nil {
		return err
	}
	logger.WithField("location", location).WithField("kind", src.Kind).Info("Dataset source ready")

	m, err := model.NewTable(tableName(location), src, opts)
	if err != nil {
		return err
	}
	for _, spec := range st.Columns() {
		m.InsertColumn(spec, -1)
	}

	ctx := context.Background()
	if err := prime(ctx, m, stFlags); err != nil {
		return err
	}
	if rate := st.GetRefreshRate(); rate > 0 && !*stFlags.Headless {
		if err := m.Watch(ctx, rate); err != nil {
			return err
		}
		defer m.Stop()
	}

	if *stFlags.Headless {
		view.Print(os.Stdout, m.Peek(), 0)
		return nil
	}

	app := view.NewApp(cfg, appVersion)
	if err := app.Init(m); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run()
}

// changedFlags drops the flags the user did not set so they do not shadow
// the configuration file.
func changedFlags(ff *pflag.FlagSet, flags *data.Flags) *data.Flags {
	f := *flags
	unset := map[string]func(){
		"itemsByPage": func() { f.ItemsByPage = nil },
		"selection":   func() { f.Selection = nil },
		"paginate":    func() { f.Paginate = nil },
		"checkbox":    func() { f.Checkbox = nil },
		"remote":      func() { f.Remote = nil },
		"profile":     func() { f.Profile = nil },
		"region":      func() { f.Region = nil },
		"refresh":     func() { f.RefreshRate = nil },
		"logLevel":    func() { f.LogLevel = nil },
		"logFile":     func() { f.LogFile = nil },
	}
	for name, fn := range unset {
		if !ff.Changed(name) {
			fn()
		}
	}

	return &f
}

// buildSource opens the dataset behind location. S3 datasets and --remote
// serve pages through the remote contract.
func buildSource(st *config.SmartTable, location string, opts model.Options) (dao.Source, error) {
	if strings.HasPrefix(location, s3Scheme) {
		return s3Source(st, location, opts)
	}

	var (
		rows model1.Rows
		err  error
	)
	if location == stdin {
		rows, err = dao.LoadReader(os.Stdin, dao.FormatJSON)
	} else {
		rows, err = dao.LoadFile(location)
	}
	if err != nil {
		return dao.Source{}, err
	}

	coll := dao.NewCollection(rows)
	if !st.Remote.Enabled {
		return dao.NewLocalSource(coll), nil
	}
	ttl, err := st.GetCacheTTL()
	if err != nil {
		return dao.Source{}, err
	}
	paged := dao.NewPagedCollection(coll, opts.SortAlgorithm, opts.FilterAlgorithm)

	return dao.NewRemoteSource(dao.NewCachedFetcher(paged, dao.NewPageCache(ttl))), nil
}

func s3Source(st *config.SmartTable, uri string, opts model.Options) (dao.Source, error) {
	bucket, key, err := aws.ParseS3URI(uri)
	if err != nil {
		return dao.Source{}, fmt.Errorf("%s: %w", uri, err)
	}
	timeout, err := st.GetAPITimeout()
	if err != nil {
		return dao.Source{}, err
	}
	client := aws.NewClient(aws.ClientConfig{
		Profile: st.Remote.Profile,
		Region:  st.Remote.Region,
		Timeout: timeout,
	})
	s3c, err := client.S3()
	if err != nil {
		return dao.Source{}, err
	}

	return dao.NewRemoteSource(dao.NewS3Source(s3c, bucket, key, opts.SortAlgorithm, opts.FilterAlgorithm)), nil
}

// prime applies the initial search, sort and page.
func prime(ctx context.Context, m *model.Table, flags *data.Flags) error {
	if err := m.Reload(ctx); err != nil {
		return err
	}
	if config.IsStringSet(flags.Search) {
		if err := m.Search(ctx, *flags.Search, nil); err != nil {
			return err
		}
	}
	if config.IsStringSet(flags.Sort) {
		name, toggles := sortArg(*flags.Sort)
		col := findColumn(m.Columns(), name)
		if col == nil {
			return fmt.Errorf("unknown sort column %q", name)
		}
		for i := 0; i < toggles; i++ {
			if err := m.SortBy(ctx, col); err != nil {
				return err
			}
		}
	}
	if config.IsIntSet(flags.Page) && *flags.Page > 1 {
		return m.ChangePage(ctx, *flags.Page)
	}

	return nil
}

// sortArg splits a sort flag into its column and toggle count.
func sortArg(s string) (string, int) {
	if strings.HasPrefix(s, "-") {
		return s[1:], 2
	}
	return s, 1
}

func findColumn(cols []*model1.Column, name string) *model1.Column {
	for _, c := range cols {
		if c.Map == name || strings.EqualFold(c.Label, name) {
			return c
		}
	}
	return nil
}

func tableName(location string) string {
	if location == stdin {
		return "stdin"
	}
	location = strings.TrimPrefix(location, s3Scheme)
	if i := strings.LastIndex(location, "/"); i >= 0 {
		location = location[i+1:]
	}
	if i := strings.Index(location, "."); i > 0 {
		location = location[:i]
	}

	return location
}
