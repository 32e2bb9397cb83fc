package oauth

import "log/slog"

// Credentials are the consumer key and secret shared between a Tool Consumer and a Tool Provider.
//
// The secret is redacted when the value is printed or logged.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
}

func (c Credentials) String() string {
	return "oauth.Credentials{ConsumerKey:" + c.ConsumerKey + ", ConsumerSecret:[REDACTED]}"
}

// LogValue implements slog.LogValuer.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("consumer_key", c.ConsumerKey),
		slog.String("consumer_secret", "[REDACTED]"),
	)
}
