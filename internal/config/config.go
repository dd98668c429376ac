package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wahlware/wahlhost/internal/duration"
	"go.uber.org/zap/zapcore"
)

type ServerConfig struct {
	Port             int           `mapstructure:"port"`
	GracefulShutdown time.Duration `mapstructure:"graceful-shutdown"`
	ReadTimeout      time.Duration `mapstructure:"read-timeout"`
	WriteTimeout     time.Duration `mapstructure:"write-timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	SessionTime time.Duration `mapstructure:"session-time"`
}

type DBConfig struct {
	DataSource  string `mapstructure:"data-source"`
	PrepareStmt bool   `mapstructure:"prepare-stmt"`
	LogLevel    string `mapstructure:"log-level"`
	Pool        struct {
		Enable             bool          `mapstructure:"enable"`
		MaxOpenConnections int           `mapstructure:"max-open-connections"`
		MaxIdleConnections int           `mapstructure:"max-idle-connections"`
		MaxLifetime        time.Duration `mapstructure:"max-lifetime"`
	} `mapstructure:"pool"`
}

type CacheConfig struct {
	MaxSize   int    `mapstructure:"max-size"`
	RedisAddr string `mapstructure:"redis-addr"`
	RedisPass string `mapstructure:"redis-pass"`
}

// UTFSConfig points at the upload-hosting backend every client upload lands
// in first.
type UTFSConfig struct {
	ApiURL string `mapstructure:"api-url"`
	ApiKey string `mapstructure:"api-key"`
	AppID  string `mapstructure:"app-id"`
}

// BlobConfig points at the S3-compatible blob store files are migrated to.
type BlobConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	AccessKey     string `mapstructure:"access-key"`
	SecretKey     string `mapstructure:"secret-key"`
	PublicBaseURL string `mapstructure:"public-base-url"`
}

type StorageConfig struct {
	Env  string     `mapstructure:"env"`
	UTFS UTFSConfig `mapstructure:"utfs"`
	Blob BlobConfig `mapstructure:"blob"`
}

type AppConfig struct {
	RootDomain   string `mapstructure:"root-domain"`
	DevMode      bool   `mapstructure:"dev-mode"`
	DevShortname string `mapstructure:"dev-shortname"`
}

type CronJobConfig struct {
	Enable                bool          `mapstructure:"enable"`
	TransferInterval      time.Duration `mapstructure:"transfer-interval"`
	StatusRefreshInterval time.Duration `mapstructure:"status-refresh-interval"`
}

type ServerCmdConfig struct {
	Server   ServerConfig  `mapstructure:"server"`
	Log      LoggingConfig `mapstructure:"log"`
	JWT      JWTConfig     `mapstructure:"jwt"`
	DB       DBConfig      `mapstructure:"db"`
	Cache    CacheConfig   `mapstructure:"cache"`
	Storage  StorageConfig `mapstructure:"storage"`
	App      AppConfig     `mapstructure:"app"`
	CronJobs CronJobConfig `mapstructure:"cronjobs"`
}

type ConfigLoader struct {
	v *viper.Viper
}

func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{
		v: viper.New(),
	}
}

func StringToDurationHook() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}

		if t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		str, ok := data.(string)
		if !ok {
			return data, nil
		}
		return duration.ParseDuration(str)
	}
}

func (cl *ConfigLoader) InitializeConfig(cmd *cobra.Command) error {
	cl.v.SetConfigType("toml")

	cfgFile := cmd.Flags().Lookup("config").Value.String()

	if cfgFile != "" {
		cl.v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error getting home directory: %v", err)
		}
		cl.v.AddConfigPath(filepath.Join(home, ".wahlhost"))
		cl.v.AddConfigPath(".")
		cl.v.SetConfigName("config")
	}

	cl.v.SetEnvPrefix("wahlhost")
	cl.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	cl.v.AutomaticEnv()

	if err := cl.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	if err := cl.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %v", err)
		}
	}

	return nil
}

func (cl *ConfigLoader) Load(cfg interface{}) error {
	config := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			StringToDurationHook(),
		),
		WeaklyTypedInput: true,
		Result:           cfg,
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return fmt.Errorf("failed to create decoder: %v", err)
	}

	if err := decoder.Decode(cl.v.AllSettings()); err != nil {
		return fmt.Errorf("failed to decode config: %v", err)
	}

	return nil
}

func AddCommonFlags(flags *pflag.FlagSet, config *ServerCmdConfig) {

	flags.StringP("config", "c", "", "Config file path (default $HOME/.wahlhost/config.toml)")

	// Server config
	flags.IntVarP(&config.Server.Port, "server-port", "p", 8080, "Server port")
	duration.DurationVar(flags, &config.Server.GracefulShutdown, "server-graceful-shutdown", 10*time.Second, "Grace period on shutdown")
	duration.DurationVar(flags, &config.Server.ReadTimeout, "server-read-timeout", 1*time.Minute, "Server read timeout")
	duration.DurationVar(flags, &config.Server.WriteTimeout, "server-write-timeout", 2*time.Minute, "Server write timeout")

	// Log config
	flags.StringVar(&config.Log.Level, "log-level", zapcore.InfoLevel.String(), "Logging level")
	flags.StringVar(&config.Log.File, "log-file", "", "Logging file path")

	// DB config
	flags.StringVar(&config.DB.DataSource, "db-data-source", "", "Database connection string")
	flags.StringVar(&config.DB.LogLevel, "db-log-level", zapcore.InfoLevel.String(), "Database log level")
	flags.BoolVar(&config.DB.PrepareStmt, "db-prepare-stmt", true, "Enable prepared statements")
	flags.BoolVar(&config.DB.Pool.Enable, "db-pool-enable", true, "Enable database pool")
	flags.IntVar(&config.DB.Pool.MaxOpenConnections, "db-pool-max-open-connections", 25, "Database max open connections")
	flags.IntVar(&config.DB.Pool.MaxIdleConnections, "db-pool-max-idle-connections", 25, "Database max idle connections")
	duration.DurationVar(flags, &config.DB.Pool.MaxLifetime, "db-pool-max-lifetime", 10*time.Minute, "Database max connection lifetime")

	// Cache config
	flags.IntVar(&config.Cache.MaxSize, "cache-max-size", 10*1024*1024, "In-memory cache size in bytes")
	flags.StringVar(&config.Cache.RedisAddr, "cache-redis-addr", "", "Redis address")
	flags.StringVar(&config.Cache.RedisPass, "cache-redis-pass", "", "Redis password")

	// JWT config
	flags.StringVar(&config.JWT.Secret, "jwt-secret", "", "JWT signing secret")
	duration.DurationVar(flags, &config.JWT.SessionTime, "jwt-session-time", 30*24*time.Hour, "JWT session duration")

	// Storage config
	flags.StringVar(&config.Storage.Env, "storage-env", "production", "Namespace prefix for blob paths")
	flags.StringVar(&config.Storage.UTFS.ApiURL, "storage-utfs-api-url", "https://api.uploadhost.dev", "Upload host API URL")
	flags.StringVar(&config.Storage.UTFS.ApiKey, "storage-utfs-api-key", "", "Upload host API key")
	flags.StringVar(&config.Storage.UTFS.AppID, "storage-utfs-app-id", "", "Upload host app id")
	flags.StringVar(&config.Storage.Blob.Endpoint, "storage-blob-endpoint", "", "Blob store S3 endpoint")
	flags.StringVar(&config.Storage.Blob.Region, "storage-blob-region", "auto", "Blob store region")
	flags.StringVar(&config.Storage.Blob.Bucket, "storage-blob-bucket", "wahlhost", "Blob store bucket")
	flags.StringVar(&config.Storage.Blob.AccessKey, "storage-blob-access-key", "", "Blob store access key")
	flags.StringVar(&config.Storage.Blob.SecretKey, "storage-blob-secret-key", "", "Blob store secret key")
	flags.StringVar(&config.Storage.Blob.PublicBaseURL, "storage-blob-public-base-url", "", "Public base URL blob paths resolve under")

	// App config
	flags.StringVar(&config.App.RootDomain, "app-root-domain", "wahlhost.de", "Root domain of the platform")
	flags.BoolVar(&config.App.DevMode, "app-dev-mode", false, "Keep shortnames as query params instead of subdomains")
	flags.StringVar(&config.App.DevShortname, "app-dev-shortname", "test", "Fallback shortname in dev mode")

	// Cron config
	flags.BoolVar(&config.CronJobs.Enable, "cronjobs-enable", true, "Enable scheduled jobs")
	duration.DurationVar(flags, &config.CronJobs.TransferInterval, "cronjobs-transfer-interval", 5*time.Minute, "File transfer sweep interval")
	duration.DurationVar(flags, &config.CronJobs.StatusRefreshInterval, "cronjobs-status-refresh-interval", 10*time.Minute, "Election status refresh interval")
}
