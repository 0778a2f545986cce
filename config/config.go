package config

import (
	"fmt"
	"io"

	"github.com/go-ini/ini"

	"github.com/gafeed/ga-feed/client"
)

// AccountConfig represents the account portion of the config
type AccountConfig struct {
	Login    string `ini:"login"`
	Password string `ini:"password"`
	Source   string `ini:"source"`
}

// APIConfig represents the api portion of the config
type APIConfig struct {
	LoginURL string `ini:"login-url"`
	Endpoint string `ini:"endpoint"`
	Timeout  int    `ini:"timeout"`
}

// InfluxConfig represents the influx portion of the config
type InfluxConfig struct {
	Address  string `ini:"address"`
	Username string `ini:"username"`
	Password string `ini:"password"`
	Database string `ini:"database"`
}

// ExportConfig represents the export portion of the config
type ExportConfig struct {
	MaxConcurrentProfiles int `ini:"max-concurrent-profiles"`
	TopCount              int `ini:"top-count"`
	LookbackDays          int `ini:"lookback-days"`
	Profiles              []string
}

// Config represents the application's configuration
type Config struct {
	Account AccountConfig
	API     APIConfig
	Influx  InfluxConfig
	Export  ExportConfig
}

// exportSettings are the keys of the export section that are not profile ids.
var exportSettings = map[string]bool{
	"max-concurrent-profiles": true,
	"top-count":               true,
	"lookback-days":           true,
}

// Load loads a configuration file and returns a configuration object
func Load(filename string) (*Config, error) {
	// Profile ids contain a colon, so only "=" separates keys from values.
	loadOpts := ini.LoadOptions{AllowBooleanKeys: true, KeyValueDelimiters: "="}

	ini, err := ini.LoadSources(loadOpts, filename)
	if err != nil {
		return nil, err
	}

	account, err := getAccountConfig(ini)
	if err != nil {
		return nil, err
	}

	api, err := getAPIConfig(ini)
	if err != nil {
		return nil, err
	}

	influx, err := getInfluxConfig(ini)
	if err != nil {
		return nil, err
	}

	export, err := getExportConfig(ini)
	if err != nil {
		return nil, err
	}

	return &Config{
		Account: *account,
		API:     *api,
		Influx:  *influx,
		Export:  *export,
	}, nil
}

// ValidateExport checks the settings only the export command needs.
func (c *Config) ValidateExport() error {
	if len(c.Influx.Address) == 0 {
		return fmt.Errorf("you must have a Influx address set in the configuration file")
	}
	if len(c.Influx.Database) == 0 {
		return fmt.Errorf("you must have a Influx database set in the configuration file")
	}
	if len(c.Export.Profiles) == 0 {
		return fmt.Errorf("you must list at least one profile id in the export section")
	}
	return nil
}

func getAccountConfig(ini *ini.File) (*AccountConfig, error) {
	accountConfig := &AccountConfig{Source: client.DefaultSource}
	err := ini.Section("account").MapTo(accountConfig)
	if err != nil {
		return nil, err
	}

	if len(accountConfig.Login) == 0 {
		return nil, fmt.Errorf("you must have an account login set in the configuration file")
	}

	return accountConfig, nil
}

func getAPIConfig(ini *ini.File) (*APIConfig, error) {
	apiConfig := &APIConfig{
		LoginURL: client.DefaultLoginURL,
		Endpoint: client.DefaultEndpoint,
		Timeout:  30,
	}
	err := ini.Section("api").MapTo(apiConfig)
	if err != nil {
		return nil, err
	}

	if apiConfig.Timeout <= 0 {
		return nil, fmt.Errorf("api timeout must be greater than 0 seconds")
	}

	return apiConfig, nil
}

func getInfluxConfig(ini *ini.File) (*InfluxConfig, error) {
	influxConfig := new(InfluxConfig)
	err := ini.Section("influx").MapTo(influxConfig)
	if err != nil {
		return nil, err
	}

	return influxConfig, nil
}

func getExportConfig(ini *ini.File) (*ExportConfig, error) {
	exportConfig := &ExportConfig{
		MaxConcurrentProfiles: 1,
		TopCount:              5,
		LookbackDays:          1,
	}
	exportSection := ini.Section("export")

	if err := exportSection.MapTo(exportConfig); err != nil {
		return nil, err
	}

	if exportConfig.MaxConcurrentProfiles <= 0 {
		return nil, fmt.Errorf("export max-concurrent-profiles must be greater than 0")
	}

	if exportConfig.LookbackDays <= 0 {
		return nil, fmt.Errorf("export lookback-days must be greater than 0")
	}

	profileKeys := exportSection.Keys()
	exportConfig.Profiles = make([]string, 0, len(profileKeys))
	for _, key := range profileKeys {
		// Settings of the section are mapped above and are not profile ids.
		if exportSettings[key.Name()] {
			continue
		}

		exportConfig.Profiles = append(exportConfig.Profiles, key.Name())
	}

	return exportConfig, nil
}

// PrintConfig writes a commented configuration template to w
func PrintConfig(w io.Writer) {
	fmt.Fprintln(w, "[account]")
	fmt.Fprintln(w, "# The analytics account login, usually an e-mail address.")
	fmt.Fprintln(w, "login=")
	fmt.Fprintln(w, "# Leave empty to be prompted for it.")
	fmt.Fprintln(w, "password=")
	fmt.Fprintln(w, "# The application identifier sent when logging in.")
	fmt.Fprintf(w, "source=%v\n", client.DefaultSource)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[api]")
	fmt.Fprintf(w, "login-url=%v\n", client.DefaultLoginURL)
	fmt.Fprintf(w, "endpoint=%v\n", client.DefaultEndpoint)
	fmt.Fprintln(w, "# The HTTP timeout, in seconds, of every request.")
	fmt.Fprintln(w, "timeout=30")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[influx]")
	fmt.Fprintln(w, "# The address of the Influx instance which is typically a HTTP address.")
	fmt.Fprintln(w, "address=")
	fmt.Fprintln(w, "username=")
	fmt.Fprintln(w, "password=")
	fmt.Fprintln(w, "database=")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[export]")
	fmt.Fprintln(w, "# The maximum number of profiles to query at a given time.")
	fmt.Fprintln(w, "# Every profile logs in with its own session.")
	fmt.Fprintln(w, "max-concurrent-profiles=1")
	fmt.Fprintln(w, "# The number of most viewed pages to export.")
	fmt.Fprintln(w, "top-count=5")
	fmt.Fprintln(w, "# The number of days, ending yesterday, to report on.")
	fmt.Fprintln(w, "lookback-days=1")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "# List one profile id per line to export it. E.g:")
	fmt.Fprintln(w, "#ga:12345678")
}
