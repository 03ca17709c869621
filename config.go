package htmltable

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config holds the options of one extraction. It is resolved once and not
// modified afterwards.
type Config struct {
	// TableID restricts extraction to tables with this id attribute.
	TableID string

	// All collects every matching table instead of only the first.
	All bool

	// Headers overrides column keys by zero-based position.
	Headers map[int]string

	// HeaderIDs prefers a header cell's id attribute over its text.
	HeaderIDs bool

	// IgnoreHidden drops rows styled with display: none.
	IgnoreHidden bool

	// At most one of IgnoreColumns and OnlyColumns is active.
	IgnoreColumns ColumnSet
	OnlyColumns   ColumnSet

	Format Format

	// Print writes the encoded result to standard output instead of
	// returning it.
	Print bool

	Method    string
	Auth      bool
	Username  string
	Password  string
	UserAgent string
	Timeout   time.Duration

	Silent  bool
	Verbose bool
}

// DefaultConfig returns the configuration used for missing options.
func DefaultConfig() Config {
	return Config{
		HeaderIDs: true,
		Format:    FormatArray,
		Method:    MethodGet,
	}
}

// Normalize applies the invariants between options: collecting all tables
// clears TableID, an include list disables the exclude list, and method and
// format take their defaults when empty.
func (c Config) Normalize() Config {
	if c.All {
		c.TableID = ""
	}
	if len(c.OnlyColumns) > 0 {
		c.IgnoreColumns = nil
	}
	c.Method = strings.ToLower(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = MethodGet
	}
	if c.Format == "" {
		c.Format = FormatArray
	}
	return c
}

// Request builds a fetch request for rawURL using the transport options.
func (c Config) Request(rawURL string, params url.Values) *Request {
	return &Request{
		URL:       rawURL,
		Params:    params,
		Method:    c.Method,
		Auth:      c.Auth,
		Username:  c.Username,
		Password:  c.Password,
		UserAgent: c.UserAgent,
	}
}

// ConfigFromMap builds a Config from loosely typed options, such as those
// decoded from a JSON or YAML file. Unknown keys are ignored and missing keys
// keep their defaults. A malformed option is disabled and reported in the
// returned warnings instead of failing.
func ConfigFromMap(opts map[string]any) (Config, []string) {
	cfg := DefaultConfig()
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	str := func(key string, dst *string) {
		v, ok := opts[key]
		if !ok || v == nil {
			return
		}
		s, ok := v.(string)
		if !ok {
			warn("%s must be a string. Using default.", key)
			return
		}
		*dst = s
	}
	boolean := func(key string, dst *bool) {
		v, ok := opts[key]
		if !ok || v == nil {
			return
		}
		b, ok := v.(bool)
		if !ok {
			warn("%s must be a boolean. Using default.", key)
			return
		}
		*dst = b
	}

	str("tableID", &cfg.TableID)
	boolean("tableAll", &cfg.All)
	boolean("headerIDs", &cfg.HeaderIDs)
	boolean("ignoreHidden", &cfg.IgnoreHidden)
	boolean("print", &cfg.Print)
	boolean("auth", &cfg.Auth)
	str("username", &cfg.Username)
	str("password", &cfg.Password)
	str("method", &cfg.Method)
	str("useragent", &cfg.UserAgent)
	boolean("silent", &cfg.Silent)
	boolean("verbose", &cfg.Verbose)

	var format string
	str("format", &format)
	if f, err := ParseFormat(format); err != nil {
		warn("%s. Using %s.", ErrorMessage(err), FormatArray)
	} else {
		cfg.Format = f
	}

	if v, ok := opts["timeout"]; ok && v != nil {
		switch t := v.(type) {
		case string:
			d, err := time.ParseDuration(t)
			if err != nil {
				warn("timeout must be a duration. Using default.")
			} else {
				cfg.Timeout = d
			}
		default:
			if n, ok := toInt(v); ok {
				cfg.Timeout = time.Duration(n) * time.Second
			} else {
				warn("timeout must be a duration. Using default.")
			}
		}
	}

	if v, ok := opts["onlyColumns"]; ok && v != nil {
		set, ok := toColumnSet(v)
		if !ok {
			warn("onlyColumns must be an array. Did not ignore any columns.")
		} else {
			cfg.OnlyColumns = set
		}
	}
	if v, ok := opts["ignoreColumns"]; ok && v != nil && len(cfg.OnlyColumns) == 0 {
		set, ok := toColumnSet(v)
		if !ok {
			warn("ignoreColumns must be an array. Did not ignore any columns.")
		} else {
			cfg.IgnoreColumns = set
		}
	}

	if v, ok := opts["headers"]; ok && v != nil {
		headers, ok := toHeaders(v)
		if !ok {
			warn("headers must be an array. Will not change any headers.")
		} else {
			cfg.Headers = headers
		}
	}

	return cfg.Normalize(), warnings
}

// toColumnSet accepts a list whose elements are strings (names) or
// integral numbers (positions).
func toColumnSet(v any) (ColumnSet, bool) {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []string:
		set := make(ColumnSet, 0, len(t))
		for _, s := range t {
			set = append(set, NameRef(s))
		}
		return set, true
	case []int:
		set := make(ColumnSet, 0, len(t))
		for _, n := range t {
			set = append(set, IndexRef(n))
		}
		return set, true
	default:
		return nil, false
	}

	set := make(ColumnSet, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			set = append(set, NameRef(s))
			continue
		}
		n, ok := toInt(item)
		if !ok {
			return nil, false
		}
		set = append(set, IndexRef(n))
	}
	return set, true
}

// toHeaders accepts a list of names (position = list index) or a mapping
// from integral positions to names.
func toHeaders(v any) (map[int]string, bool) {
	headers := make(map[int]string)
	switch t := v.(type) {
	case []string:
		for i, s := range t {
			headers[i] = s
		}
	case []any:
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			headers[i] = s
		}
	case map[int]string:
		for k, s := range t {
			headers[k] = s
		}
	case map[string]any:
		for k, item := range t {
			n, err := strconv.Atoi(k)
			if err != nil {
				return nil, false
			}
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			headers[n] = s
		}
	case map[any]any:
		for k, item := range t {
			n, ok := toInt(k)
			if !ok {
				return nil, false
			}
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			headers[n] = s
		}
	default:
		return nil, false
	}
	return headers, true
}

// toInt converts integral numbers of any numeric type.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return toInt(float64(n))
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
