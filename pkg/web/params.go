package web

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/simseed/simseed/pkg/model"
)

// csvParam splits a comma separated query value, trimming whitespace
// and dropping empty entries. A missing parameter yields nil.
func csvParam(q url.Values, key string) []string {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	ret := make([]string, 0)
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}

func intParam(q url.Values, key string, defaultVal int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func floatParam(q url.Values, key string, defaultVal float64) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func floatListParam(q url.Values, key string) ([]float64, error) {
	entries := csvParam(q, key)
	if len(entries) == 0 {
		return nil, nil
	}
	ret := make([]float64, 0, len(entries))
	for _, entry := range entries {
		v, err := strconv.ParseFloat(entry, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", key, entry)
		}
		ret = append(ret, v)
	}
	return ret, nil
}

// sessionKeyParam reads the mandatory year/round/session triple.
func sessionKeyParam(q url.Values) (model.SessionKey, error) {
	var key model.SessionKey
	for _, name := range []string{"year", "round", "session"} {
		if q.Get(name) == "" {
			return key, fmt.Errorf("%s required", name)
		}
	}
	var err error
	if key.Year, err = intParam(q, "year", 0); err != nil {
		return key, err
	}
	if key.Round, err = intParam(q, "round", 0); err != nil {
		return key, err
	}
	key.Session = q.Get("session")
	return key, nil
}
