package fx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// JSONRate returns a RateFunc fetching pair rates from a JSON endpoint.
// The url and path templates expand {from} and {to}, e.g.
//
//	https://api.frankfurter.dev/v1/latest?base={from}&symbols={to}
//	$.rates.{to}
func JSONRate(client *http.Client, url, path string) RateFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(from, to string) (float64, error) {
		addr := expand(url, from, to)
		resp, err := client.Get(addr)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != 200 {
			return 0, fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
		}
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, resp.Body); err != nil {
			return 0, err
		}
		var jobj any
		if err := json.Unmarshal(buf.Bytes(), &jobj); err != nil {
			return 0, err
		}
		jval, err := jsonpath.Get(expand(path, from, to), jobj)
		if err != nil {
			return 0, fmt.Errorf("error parsing rate %s/%s: %w", from, to, err)
		}
		if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
			jval = jlist[0]
		}
		rate, ok := jval.(float64)
		if !ok {
			return 0, fmt.Errorf("rate %s/%s is not a number: %v", from, to, jval)
		}
		return rate, nil
	}
}

func expand(template, from, to string) string {
	s := strings.ReplaceAll(template, "{from}", from)
	return strings.ReplaceAll(s, "{to}", to)
}
