package httpapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/JFdC77/job-search-assistant/internal/rank"
)

// multi returns the values of key, accepting both repeated params and comma lists.
func multi(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// rankOptions parses location, min_score, keyword and order from q on top of base.
func rankOptions(q url.Values, base rank.Options) (rank.Options, error) {
	opt := base
	if _, ok := q["location"]; ok {
		opt.Locations = multi(q, "location")
	}
	if _, ok := q["keyword"]; ok {
		opt.Keywords = multi(q, "keyword")
	}
	if v := strings.TrimSpace(q.Get("min_score")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 100 {
			return opt, fmt.Errorf("min_score must be an integer between 0 and 100")
		}
		opt.MinScore = n
	}
	switch strings.ToLower(strings.TrimSpace(q.Get("order"))) {
	case "", "desc":
		opt.Reverse = false
	case "asc":
		opt.Reverse = true
	default:
		return opt, fmt.Errorf("order must be asc or desc")
	}
	return opt, nil
}
