package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the command-line flags shared by both binaries.
//
// Flags:
//
//	-a dev API listen address in format [host]:[port]
//	-api remote API base URL used by the client
//	-d local database DSN
//	-c/-config json file path with configs
//	-token bearer token for the remote API
//	-feed feed key to mirror
//	-page-size page size for list requests
//	-refresh-interval background refresh interval (e.g. "5m")
//	-request-timeout remote request timeout (e.g. "15s")
//	-log-file client log file
//	-catalog-file dev API catalog persistence file
//	-token-sign-key dev API token signing key
//	-token-issuer dev API token issuer
//	-token-duration dev API token duration (e.g. "24h")
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("munch-sync", flag.ContinueOnError)

	var serverAddress NetAddress
	var apiAddress, databaseDSN, jsonConfigPath, token, feedKey, logFile, catalogFile string
	var tokenSignKey, tokenIssuer string
	var pageSize int
	var refreshInterval, requestTimeout, tokenDuration time.Duration

	fs.Var(&serverAddress, "a", "Dev API listen address host:port")
	fs.StringVar(&apiAddress, "api", "", "Remote API base URL")
	fs.StringVar(&databaseDSN, "d", "", "Local database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&token, "token", "", "Bearer token for the remote API")
	fs.StringVar(&feedKey, "feed", "", "Feed key to mirror")
	fs.IntVar(&pageSize, "page-size", 0, "Page size for list requests")
	fs.DurationVar(&refreshInterval, "refresh-interval", 0, "Background refresh interval (e.g., 5m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	fs.StringVar(&logFile, "log-file", "", "Client log file")
	fs.StringVar(&catalogFile, "catalog-file", "", "Dev API catalog file")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 24h)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			LogFile: logFile,
			FeedKey: feedKey,
		},
		Adapter: Adapter{
			HTTPAddress:    apiAddress,
			RequestTimeout: requestTimeout,
			Token:          token,
		},
		Storage: Storage{
			DB:          DB{DSN: databaseDSN},
			CatalogFile: catalogFile,
		},
		Sync: Sync{
			PageSize:        pageSize,
			RefreshInterval: refreshInterval,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Auth: Auth{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
