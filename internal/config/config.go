package config

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Files   FilesConfig   `mapstructure:"files"`
	Records RecordsConfig `mapstructure:"records"`
	Schema  SchemaConfig  `mapstructure:"schema"`
	Sales   SalesConfig   `mapstructure:"sales"`
}

type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type FilesConfig struct {
	Customers string `mapstructure:"customers"`
	Sales     string `mapstructure:"sales"`
	Delimiter string `mapstructure:"delimiter"`
}

type RecordsConfig struct {
	MinCustomerID int64 `mapstructure:"minCustomerID"`
	MinSaleID     int64 `mapstructure:"minSaleID"`
}

type SchemaConfig struct {
	Customers CustomerColumns `mapstructure:"customers"`
	Sales     SaleColumns     `mapstructure:"sales"`
}

type CustomerColumns struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Postcode string `mapstructure:"postcode"`
	Phone    string `mapstructure:"phone"`
}

type SaleColumns struct {
	ID         string `mapstructure:"id"`
	CustomerID string `mapstructure:"customerID"`
	Date       string `mapstructure:"date"`
	Category   string `mapstructure:"category"`
	Value      string `mapstructure:"value"`
}

type SalesConfig struct {
	Categories []string `mapstructure:"categories"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("files.customers", "")
	v.SetDefault("files.sales", "")
	v.SetDefault("files.delimiter", ",")
	v.SetDefault("records.minCustomerID", 100000)
	v.SetDefault("records.minSaleID", 100000000)
	v.SetDefault("schema.customers.id", "cust_id")
	v.SetDefault("schema.customers.name", "name")
	v.SetDefault("schema.customers.postcode", "postcode")
	v.SetDefault("schema.customers.phone", "phone")
	v.SetDefault("schema.sales.id", "sale_id")
	v.SetDefault("schema.sales.customerID", "cust_id")
	v.SetDefault("schema.sales.date", "date")
	v.SetDefault("schema.sales.category", "category")
	v.SetDefault("schema.sales.value", "value")
	v.SetDefault("sales.categories", []string{})
}

// LoadConfig reads config.yml from path (or the explicit file when path names one),
// then layers environment variables and any bound command-line flags on top.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(path)
		v.SetConfigName("config")
		v.SetConfigType("yml")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if flags != nil {
		for key, name := range map[string]string{
			"logger.level":    "log-level",
			"logger.encoding": "log-format",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Config file not found, using defaults and environment variables.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
