package client

import (
	"crypto/tls"
	"time"

	"github.com/sirupsen/logrus"
)

type config struct {
	rpcTimeout time.Duration
	log        logrus.FieldLogger
	tlsConfig  *tls.Config
	connCB     ConnCallback
}

// Option configures a Client at Connect time. spec.md §6 names exactly one
// tunable at this layer, rpc timeout seconds; the rest (logger, TLS config,
// connection callback) are the ambient configuration surface a Go client
// needs to be usable, following the teacher's functional-options-free but
// parameter-rich Connect signature generalised into the idiom the rest of
// the example corpus uses for client construction.
type Option func(*config)

// WithRPCTimeout overrides the default 60 second per-call timeout.
func WithRPCTimeout(d time.Duration) Option {
	return func(c *config) { c.rpcTimeout = d }
}

// WithLogger overrides the default logrus.StandardLogger().
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) { c.log = log }
}

// WithTLSConfig supplies the TLS client configuration used for `ssl:`
// endpoints.
func WithTLSConfig(tlsConfig *tls.Config) Option {
	return func(c *config) { c.tlsConfig = tlsConfig }
}

// WithConnectionCallback registers the callback invoked once the
// connection becomes active, and at most once when it is torn down.
func WithConnectionCallback(cb ConnCallback) Option {
	return func(c *config) { c.connCB = cb }
}

func defaultConfig() *config {
	return &config{
		rpcTimeout: 60 * time.Second,
		log:        logrus.StandardLogger(),
	}
}
