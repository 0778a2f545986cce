package main

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/howeyc/gopass"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/gafeed/ga-feed/analytics"
	"github.com/gafeed/ga-feed/client"
	"github.com/gafeed/ga-feed/config"
	"github.com/gafeed/ga-feed/logger"
)

var build = "development"

var (
	app   = kingpin.New("ga-feed", "An application for querying web analytics reports and loading them into Influx")
	debug = app.Flag("debug", "Enable debug logging.").Bool()

	initCommand = app.Command("init", "Initialize the app by outputting a settings file.")

	metricsCommand = app.Command("metrics", "Print the site metrics of a period.")
	metricsQuery   = addReportFlags(metricsCommand)

	pageviewsCommand = app.Command("pageviews", "Print the pageviews of a period.")
	pageviewsQuery   = addReportFlags(pageviewsCommand)

	topPagesCommand = app.Command("top-pages", "Print the most viewed pages of a period.")
	topPagesQuery   = addReportFlags(topPagesCommand)
	topPagesCount   = topPagesCommand.Flag("count", "The number of pages to return.").Short('n').Default("5").Int()

	queryCommand    = app.Command("query", "Run an arbitrary query and print its aggregates and rows.")
	queryConfigFile = queryCommand.Flag("config", "The configuration filename.").Required().String()
	queryParams     = queryCommand.Flag("param", "A query field, e.g. metrics=ga:users or sort=-ga:users.").Short('p').Required().StringMap()

	exportCommand    = app.Command("export", "Extract reports for the configured profiles and load them into Influx")
	exportConfigFile = exportCommand.Flag("config", "The configuration filename.").Required().String()
)

type reportFlags struct {
	configFile *string
	ids        *string
	startDate  *string
	endDate    *string
}

func addReportFlags(cmd *kingpin.CmdClause) reportFlags {
	return reportFlags{
		configFile: cmd.Flag("config", "The configuration filename.").Required().String(),
		ids:        cmd.Flag("ids", "The site ids, e.g. ga:12345678 or ga:12345678,ga:87654321.").Required().String(),
		startDate:  cmd.Flag("start", "The first day of the period, formatted YYYY-MM-DD.").Required().String(),
		endDate:    cmd.Flag("end", "The last day of the period, formatted YYYY-MM-DD.").Required().String(),
	}
}

// loadConfig loads the configuration and prompts for the password when the file has none.
func loadConfig(filename string) (*config.Config, error) {
	cfg, err := config.Load(filename)
	if err != nil {
		return nil, err
	}

	if cfg.Account.Password == "" {
		fmt.Printf("Password for %v: ", cfg.Account.Login)
		pass, err := gopass.GetPasswd()
		if err != nil {
			return nil, err
		}
		cfg.Account.Password = string(pass)
	}

	return cfg, nil
}

func connect(cfg *config.Config) (*analytics.MetricsClient, error) {
	httpClient := &http.Client{Timeout: time.Duration(cfg.API.Timeout) * time.Second}

	return analytics.New(cfg.Account.Login, cfg.Account.Password,
		analytics.WithSource(cfg.Account.Source),
		analytics.WithLoginURL(cfg.API.LoginURL),
		analytics.WithEndpoint(cfg.API.Endpoint),
		analytics.WithHTTPClient(httpClient),
		analytics.WithLogger(logger.Log.Named("analytics")),
	)
}

func connectFromFlags(flags reportFlags) (*analytics.MetricsClient, error) {
	cfg, err := loadConfig(*flags.configFile)
	if err != nil {
		return nil, err
	}
	return connect(cfg)
}

func printMetrics(flags reportFlags) error {
	mc, err := connectFromFlags(flags)
	if err != nil {
		return err
	}

	metrics, err := mc.GetMetrics(*flags.ids, *flags.startDate, *flags.endDate)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%v=%v\n", name, metrics[name])
	}
	return nil
}

func printPageviews(flags reportFlags) error {
	mc, err := connectFromFlags(flags)
	if err != nil {
		return err
	}

	pageviews, err := mc.GetPageviews(*flags.ids, *flags.startDate, *flags.endDate)
	if err != nil {
		return err
	}

	fmt.Println(pageviews)
	return nil
}

func printTopPages(flags reportFlags, count int) error {
	mc, err := connectFromFlags(flags)
	if err != nil {
		return err
	}

	pages, err := mc.GetTopPages(*flags.ids, *flags.startDate, *flags.endDate, count)
	if err != nil {
		return err
	}

	for _, page := range pages {
		fmt.Printf("%v\t%v\t%v\n", page.Pageviews, page.Path, page.Title)
	}
	return nil
}

func printQuery(configFile string, params map[string]string) error {
	spec, err := client.ParseQuerySpec(params)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	mc, err := connect(cfg)
	if err != nil {
		return err
	}

	feed, err := mc.Query(spec)
	if err != nil {
		return err
	}

	for _, metric := range spec.Metrics() {
		if value, ok := feed.Aggregate(metric); ok {
			fmt.Printf("%v=%v\n", metric, value)
		}
	}

	for _, row := range feed.Rows() {
		var columns []interface{}
		for _, dimension := range spec.Dimensions() {
			columns = append(columns, row.Dimension(dimension))
		}
		for _, metric := range spec.Metrics() {
			columns = append(columns, row.Metric(metric))
		}
		fmt.Println(columns...)
	}
	return nil
}

func run(command string) error {
	switch command {
	case initCommand.FullCommand():
		config.PrintConfig(os.Stdout)
	case metricsCommand.FullCommand():
		return printMetrics(metricsQuery)
	case pageviewsCommand.FullCommand():
		return printPageviews(pageviewsQuery)
	case topPagesCommand.FullCommand():
		return printTopPages(topPagesQuery, *topPagesCount)
	case queryCommand.FullCommand():
		return printQuery(*queryConfigFile, *queryParams)
	case exportCommand.FullCommand():
		ext, err := createExporter(*exportConfigFile)
		if err != nil {
			return err
		}
		defer ext.close()

		return ext.export(time.Now())
	}
	return nil
}

func main() {
	app.Version(build)

	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	logger.SetDebug(*debug)

	if err := run(command); err != nil {
		logger.Log.Fatal("%v", err)
	}
}
