package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

type config struct {
	dbPath     string
	addr       string
	logPath    string
	domain     string
	adminEmail string
	mediaDir   string
	publicURL  string
	s3Bucket   string
	s3Region   string
	s3Endpoint string
}

const usage = `Usage: najdeno [flags]

Flags:
  -d, -db <path>          SQLite database path (default: najdeno.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
      -domain <suffix>    institutional email suffix (default: @sahyadri.edu.in)
      -admin <email>      admin email on first run (default: admin<domain>)
  -m, -media-dir <path>   directory for uploaded photos (default: media)
      -public-url <url>   public URL of this server (default: http://localhost:8080)
      -s3-bucket <name>   store photos in this S3 bucket instead of -media-dir
      -s3-region <name>   S3 region (default: us-east-1)
      -s3-endpoint <url>  S3-compatible endpoint, e.g. MinIO
  -h, -help               show this help and exit

Every flag can also be set with a NAJDENO_* environment variable, e.g.
NAJDENO_DB or NAJDENO_S3_BUCKET. Flags take precedence.
`

// parseConfig reads flags, falling back to NAJDENO_* variables and then to
// the defaults.
func parseConfig(args []string, getenv func(string) string) (*config, error) {
	fs := flag.NewFlagSet("najdeno", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	env := func(name, def string) string {
		if v := getenv("NAJDENO_" + name); v != "" {
			return v
		}
		return def
	}

	cfg := &config{}
	stringFlag := func(p *string, names []string, envName, def string) {
		def = env(envName, def)
		for _, n := range names {
			fs.StringVar(p, n, def, "")
		}
	}

	stringFlag(&cfg.dbPath, []string{"db", "d"}, "DB", "najdeno.sqlite3")
	stringFlag(&cfg.addr, []string{"addr", "a"}, "ADDR", ":8080")
	stringFlag(&cfg.logPath, []string{"log", "l"}, "LOG", "")
	stringFlag(&cfg.domain, []string{"domain"}, "DOMAIN", "@sahyadri.edu.in")
	stringFlag(&cfg.adminEmail, []string{"admin"}, "ADMIN", "")
	stringFlag(&cfg.mediaDir, []string{"media-dir", "m"}, "MEDIA_DIR", "media")
	stringFlag(&cfg.publicURL, []string{"public-url"}, "PUBLIC_URL", "http://localhost:8080")
	stringFlag(&cfg.s3Bucket, []string{"s3-bucket"}, "S3_BUCKET", "")
	stringFlag(&cfg.s3Region, []string{"s3-region"}, "S3_REGION", "us-east-1")
	stringFlag(&cfg.s3Endpoint, []string{"s3-endpoint"}, "S3_ENDPOINT", "")

	// Parse prints usage itself on -h and on bad flags.
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg.domain = strings.ToLower(strings.TrimSpace(cfg.domain))
	if !strings.HasPrefix(cfg.domain, "@") || len(cfg.domain) < 2 {
		return nil, fmt.Errorf("domain must look like @example.edu, got %q", cfg.domain)
	}
	if cfg.adminEmail == "" {
		cfg.adminEmail = "admin" + cfg.domain
	}
	return cfg, nil
}
