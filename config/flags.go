package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-api-kit/postgres"
	"github.com/MKhiriev/go-api-kit/token"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags from the process arguments.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-token-secret shared HMAC secret for token verification
//	-token-key-path path to a PEM verification key
//	-token-issuer expected token issuer name
//	-token-algorithms comma-separated accepted algorithms (e.g. "HS256,ES256")
//	-token-ttl issued token lifetime (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) *StructuredConfig {
	var serverAddress, grpcServerAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSecret string
	var tokenKeyPath string
	var tokenIssuer string
	var tokenAlgorithms string
	var tokenTTL time.Duration
	var requestTimeout time.Duration

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSecret, "token-secret", "", "Token HMAC secret")
	fs.StringVar(&tokenKeyPath, "token-key-path", "", "Token PEM key path")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.StringVar(&tokenAlgorithms, "token-algorithms", "", "Accepted token algorithms, comma-separated")
	fs.DurationVar(&tokenTTL, "token-ttl", 0, "Issued token lifetime (e.g., 1h, 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	fs.Parse(args)

	var algorithms []string
	if tokenAlgorithms != "" {
		algorithms = strings.Split(tokenAlgorithms, ",")
	}

	return &StructuredConfig{
		Token: token.KeyConfig{
			Algorithms: algorithms,
			Secret:     tokenSecret,
			KeyPath:    tokenKeyPath,
			Issuer:     tokenIssuer,
		},
		TokenTTL: tokenTTL,
		DB: postgres.Config{
			DSN: databaseDSN,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
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

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
