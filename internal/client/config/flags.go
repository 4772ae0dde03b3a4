package config

import (
	"flag"
	"io"
	"time"
)

// parseFlags populates Config fields from command-line flags and returns
// the remaining positional arguments.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server
//	-t string   access token file
//	-r int      request timeout (in seconds)
//	-c string   JSON config file (read by parseJson)
//
// Flags must precede the command.
func parseFlags(cfg *Config, args []string) ([]string, error) {
	fs := flag.NewFlagSet("gophblog-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configPath string
	fs.StringVar(&configPath, "c", "", "path to JSON config file")
	fs.StringVar(&configPath, "config", "", "path to JSON config file")

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.TokenFile, "t", cfg.TokenFile, "access token file")
	timeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "r" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return fs.Args(), nil
}
