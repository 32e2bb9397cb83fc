package transport

import (
	"net/url"
)

// AppendQuery adds params to the query string already on rawURL. Existing parameters are kept,
// so a service url that carries its own query (e.g. ?context=42) still reaches the right
// container.
func AppendQuery(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", WrapTransportError(err, Exchange{URL: rawURL}, "invalid service url")
	}
	if len(params) == 0 {
		return rawURL, nil
	}

	query := u.RawQuery
	if encoded := params.Encode(); encoded != "" {
		if query != "" {
			query += "&"
		}
		query += encoded
	}
	u.RawQuery = query
	return u.String(), nil
}
