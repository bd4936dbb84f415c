package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	LocalDBPath string
	TokenSecret string
	TokenTTL    time.Duration
	Debug       bool

	// remote backend selection and credentials, from the environment;
	// missing identifiers mean "remote unavailable", never a startup failure
	Backend       string
	RemoteTimeout time.Duration

	AppwriteEndpoint     string
	AppwriteProjectID    string
	AppwriteAPIKey       string
	AppwriteDatabaseID   string
	AppwriteCollectionID string

	SupabaseURL     string
	SupabaseAnonKey string
	SupabaseTable   string

	AdminEmail    string
	AdminPassword string
}

func ParseFlags() (cfg Config, err error) {
	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 8080, "listen port number (default 8080)")
	flag.StringVar(&cfg.LocalDBPath, "db-path", "fallback.sqlite", "path to the SQLite fallback store (default fallback.sqlite)")
	flag.StringVar(&cfg.TokenSecret, "token-secret", "", "secret key for admin token encryption and decryption")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", 1800, "admin token TTL in seconds (default 1800)")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	// a .env file is a convenience for local runs, nothing more
	_ = godotenv.Load()

	cfg.Backend = envOr("SURVEY_BACKEND", "supabase")
	cfg.RemoteTimeout, err = time.ParseDuration(envOr("REMOTE_TIMEOUT", "10s"))
	if err != nil {
		return cfg, errors.New("invalid REMOTE_TIMEOUT: " + err.Error())
	}

	cfg.AppwriteEndpoint = envOr("APPWRITE_ENDPOINT", "https://cloud.appwrite.io/v1")
	cfg.AppwriteProjectID = os.Getenv("APPWRITE_PROJECT_ID")
	cfg.AppwriteAPIKey = os.Getenv("APPWRITE_API_KEY")
	cfg.AppwriteDatabaseID = os.Getenv("APPWRITE_DATABASE_ID")
	cfg.AppwriteCollectionID = envOr("APPWRITE_COLLECTION_ID", "survey_responses")

	cfg.SupabaseURL = os.Getenv("SUPABASE_URL")
	cfg.SupabaseAnonKey = os.Getenv("SUPABASE_ANON_KEY")
	cfg.SupabaseTable = envOr("SUPABASE_TABLE", "survey_submissions")

	cfg.AdminEmail = envOr("ADMIN_EMAIL", "admin@ncc.com")
	cfg.AdminPassword = envOr("ADMIN_PASSWORD", "adminXncc")

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
