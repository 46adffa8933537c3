// Package config handles configuration loading for reviewfeed.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion, then REVIEWFEED_* environment variables override individual
// fields. Missing values fall back to defaults.
//
// # Configuration File
//
// Location (in order):
//
//  1. Path from REVIEWFEED_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/reviewfeed/config.yaml
//  3. ~/.config/reviewfeed/config.yaml
//
// # Configuration Sections
//
// Search API:
//
//	api:
//	  base_url: "https://api.nytimes.com/svc/movies/v2/reviews/search.json"
//	  key: "${NYT_API_KEY}"   # sent as api-key, never inspected
//	  timeout: "0s"           # 0 = no timeout
//
// Extra parameters merged into every request:
//
//	filter:
//	  order: "by-publication-date"
//
// Page cache:
//
//	cache:
//	  enabled: true
//	  ttl: "5m"
//	  max_entries: 128
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//	  file: ""        # empty = stderr
//
// Development search API (cmd/fake-reviews):
//
//	devserver:
//	  addr: "127.0.0.1:8089"
//	  database: "./reviews.db"
//	  fixture: "./reviews.toml"
//	  page_size: 20
//	  latency: "750ms"
//	  api_key: "dev-key"
//
// # Environment Overrides
//
//   - REVIEWFEED_API_URL, REVIEWFEED_API_KEY, REVIEWFEED_API_TIMEOUT
//   - REVIEWFEED_CACHE_ENABLED
//   - REVIEWFEED_LOG_LEVEL, REVIEWFEED_LOG_FORMAT, REVIEWFEED_LOG_FILE
//   - REVIEWFEED_DEV_ADDR, REVIEWFEED_DEV_DATABASE, REVIEWFEED_DEV_FIXTURE,
//     REVIEWFEED_DEV_API_KEY, REVIEWFEED_DEV_LATENCY
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(config.Path())
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
