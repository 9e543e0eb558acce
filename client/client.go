// Package client implements the OVSDB method surface and connection
// lifecycle: it binds a jsonrpc.Conn to a live byte-stream, exposes the
// typed OVSDB operations of RFC 7047 §4 on top of it, and ties inbound
// notifications back to the monitor/lock callback that armed them.
package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/ovsdb-go/duplexdb/jsonrpc"
	"github.com/ovsdb-go/duplexdb/ovsdb"
)

// Connection scheme prefixes, matching OVSDB's own connection-method
// notation (RFC 7047 §4.1.1's "Connection Methods" appendix).
const (
	TCP  = "tcp"
	SSL  = "ssl"
	UNIX = "unix"

	defaultTCPAddress  = "127.0.0.1:6640"
	defaultUnixAddress = "/var/run/openvswitch/db.sock"

	// connCallbackKey is the pool ordering key for the connection
	// callbacks. It is not valid JSON, so it never equals an `update`
	// ordering key, which is always a raw JSON param.
	connCallbackKey = "connection-callbacks"
)

const (
	statePending int32 = iota
	stateActive
	stateClosed
)

// Client is an OVSDB protocol client: a jsonrpc.Conn bound to a live
// byte-stream, plus the monitor/lock registries and connection metadata
// that make up the OVSDB method layer. The zero value is not usable; build
// one with Connect.
type Client struct {
	conn      *jsonrpc.Conn
	pool      *jsonrpc.Pool
	transport jsonrpc.Transporter
	netConn   net.Conn

	monitors *MonitorRegistry
	locks    *LockRegistry

	info ConnectionInfo

	state    int32 // atomic: statePending | stateActive | stateClosed
	connCB   ConnCallback
	log      logrus.FieldLogger
	stopOnce chan struct{}
}

// Connect dials endpoints (a comma-separated list of OVSDB connection
// methods, e.g. "tcp:127.0.0.1:6640,ssl:switch.example.com:6640"), tries
// each in order until one succeeds, and returns a Client bound to it in
// the active state. Unlike the teacher's Connect, this signature carries
// no database parameter: spec.md treats schema/operation values as opaque,
// so there is no DBModel to validate endpoints against (see SPEC_FULL.md
// §4.7).
func Connect(endpoints string, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	conn, err := dial(endpoints, cfg.tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	c := newClient(conn, cfg)
	c.bindActive()
	return c, nil
}

func dial(endpoints string, tlsConfig *tls.Config) (net.Conn, error) {
	var lastErr error
	for _, endpoint := range strings.Split(endpoints, ",") {
		u, err := url.Parse(endpoint)
		if err != nil {
			lastErr = err
			continue
		}
		host := u.Opaque
		var conn net.Conn
		switch u.Scheme {
		case UNIX:
			path := u.Path
			if path == "" {
				path = defaultUnixAddress
			}
			conn, err = net.Dial("unix", path)
		case TCP:
			if host == "" {
				host = defaultTCPAddress
			}
			conn, err = net.Dial("tcp", host)
		case SSL:
			if host == "" {
				host = defaultTCPAddress
			}
			conn, err = tls.Dial("tcp", host, tlsConfig)
		default:
			err = fmt.Errorf("unknown connection method %q", u.Scheme)
		}
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to connect to endpoints %q: %w", endpoints, lastErr)
}

func newClient(conn net.Conn, cfg *config) *Client {
	transport := jsonrpc.NewTransporter(conn)
	pool := jsonrpc.NewPool()
	clientEngine := jsonrpc.NewClientEngine(transport, cfg.rpcTimeout, cfg.log)
	serverEngine := jsonrpc.NewServerEngine(transport, pool, cfg.log)
	rpcConn := jsonrpc.NewConn(clientEngine, serverEngine, cfg.log)
	// update notifications must preserve per-monitor-id order; the
	// monitor-id is params[0] (spec.md §4.6).
	rpcConn.OrderByParam("update", 0)

	c := &Client{
		conn:      rpcConn,
		pool:      pool,
		transport: transport,
		netConn:   conn,
		monitors:  newMonitorRegistry(),
		locks:     newLockRegistry(),
		connCB:    cfg.connCB,
		log:       cfg.log,
		stopOnce:  make(chan struct{}),
	}
	c.bindHandlers()
	return c
}

func (c *Client) bindHandlers() {
	c.conn.Server.Handle("echo", c.handleEcho)
	c.conn.Server.Handle("update", c.handleUpdate)
	c.conn.Server.Handle("locked", c.handleLocked)
	c.conn.Server.Handle("stolen", c.handleStolen)
}

// bindActive captures connection metadata, flips the lifecycle state to
// active, schedules the connected callback, and starts the reader loop —
// in that order, per spec.md §4.7's pending -> active transition.
func (c *Client) bindActive() {
	local, localPort := splitHostPort(c.netConn.LocalAddr())
	remote, remotePort := splitHostPort(c.netConn.RemoteAddr())
	c.info = ConnectionInfo{
		LocalAddress:  local,
		LocalPort:     localPort,
		RemoteAddress: remote,
		RemotePort:    remotePort,
	}
	if tlsConn, ok := c.netConn.(*tls.Conn); ok {
		state := tlsConn.ConnectionState()
		if len(state.PeerCertificates) > 0 {
			c.info.RemotePeerCertificate = state.PeerCertificates[0]
		}
	}

	atomic.StoreInt32(&c.state, stateActive)

	if c.connCB != nil {
		// Same ordered queue as Disconnected in teardown, so Connected
		// always finishes first.
		c.pool.SubmitOrdered(connCallbackKey, func() { c.connCB.Connected(c) })
	}

	go c.runReadLoop()
}

func (c *Client) runReadLoop() {
	err := c.conn.ReadLoop(c.netConn)
	if err != nil {
		c.log.WithError(err).Debug("client: read loop terminated")
	}
	c.teardown()
}

// teardown moves the client to closed, shuts down both engines and the
// pool, clears both registries, and schedules the disconnected callback.
// Safe to call more than once; only the first call has effect.
func (c *Client) teardown() {
	if !atomic.CompareAndSwapInt32(&c.state, stateActive, stateClosed) {
		if !atomic.CompareAndSwapInt32(&c.state, statePending, stateClosed) {
			return
		}
	}
	c.conn.Client.Shutdown()
	c.conn.Server.Shutdown()
	c.monitors.clear()
	c.locks.clear()
	_ = c.transport.Close()

	if c.connCB != nil {
		c.pool.SubmitOrdered(connCallbackKey, func() { c.connCB.Disconnected(c) })
	}
	// Close runs on this goroutine, never inside a Submit'd task: Close
	// waits on the pool's WaitGroup, and a task waiting on its own
	// completion would deadlock.
	c.pool.Close()
	close(c.stopOnce)
}

func (c *Client) active() bool {
	return atomic.LoadInt32(&c.state) == stateActive
}

// GetConnectionInfo returns the connection metadata captured at bind time.
func (c *Client) GetConnectionInfo() ConnectionInfo {
	return c.info
}

// Done returns a channel that closes once the client has fully torn down,
// whether from an explicit Shutdown or a transport disconnect.
func (c *Client) Done() <-chan struct{} {
	return c.stopOnce
}

// Shutdown tears the client down: both engines stop, every pending call
// resolves with ErrRPCShutdown, both registries are cleared, and the
// underlying transport is closed. Idempotent.
func (c *Client) Shutdown() {
	c.teardown()
}

// ListDatabases issues `list_dbs` (spec.md §4.5).
func (c *Client) ListDatabases(ctx context.Context) ([]string, error) {
	if !c.active() {
		return nil, ErrInactiveClient
	}
	var dbs []string
	err := c.conn.Client.Call(ctx, "list_dbs", &dbs)
	return dbs, translateErr(err)
}

// GetSchema issues `get_schema` for dbName (spec.md §4.5).
func (c *Client) GetSchema(ctx context.Context, dbName string) (*ovsdb.DatabaseSchema, error) {
	if !c.active() {
		return nil, ErrInactiveClient
	}
	var schema ovsdb.DatabaseSchema
	err := c.conn.Client.Call(ctx, "get_schema", &schema, dbName)
	if err != nil {
		return nil, translateErr(err)
	}
	return &schema, nil
}

// Transact issues `transact` for dbName with the given operations
// (spec.md §4.5).
func (c *Client) Transact(ctx context.Context, dbName string, operations ...ovsdb.Operation) ([]ovsdb.OperationResult, error) {
	if !c.active() {
		return nil, ErrInactiveClient
	}
	params := make([]interface{}, 0, len(operations)+1)
	params = append(params, dbName)
	for _, op := range operations {
		params = append(params, op)
	}
	var results []ovsdb.OperationResult
	err := c.conn.Client.Call(ctx, "transact", &results, params...)
	return results, translateErr(err)
}

// Monitor issues `monitor` for dbName/monitorID/requests and, only once
// the call succeeds, installs cb under monitorID (spec.md §4.5, §9:
// callback installation is a post-success effect, never speculative).
func (c *Client) Monitor(ctx context.Context, dbName, monitorID string, requests map[string]ovsdb.MonitorRequest, cb MonitorCallback) (*ovsdb.TableUpdates, error) {
	if !c.active() {
		return nil, ErrInactiveClient
	}
	var raw json.RawMessage
	err := c.conn.Client.Call(ctx, "monitor", &raw, dbName, monitorID, requests)
	if err != nil {
		return nil, translateErr(err)
	}
	updates, err := ovsdb.DecodeTableUpdates(raw)
	if err != nil {
		return nil, fmt.Errorf("client: decode monitor result: %w", err)
	}
	c.monitors.install(monitorID, cb)
	return updates, nil
}

// CancelMonitor issues `monitor_cancel` for monitorID and, only on
// success, removes its registry entry.
func (c *Client) CancelMonitor(ctx context.Context, monitorID string) error {
	if !c.active() {
		return ErrInactiveClient
	}
	err := c.conn.Client.Call(ctx, "monitor_cancel", nil, monitorID)
	if err != nil {
		return translateErr(err)
	}
	c.monitors.remove(monitorID)
	return nil
}

// Lock issues `lock` for lockID and, only on success, installs cb under
// lockID.
func (c *Client) Lock(ctx context.Context, lockID string, cb LockCallback) (*ovsdb.LockResult, error) {
	if !c.active() {
		return nil, ErrInactiveClient
	}
	var result ovsdb.LockResult
	err := c.conn.Client.Call(ctx, "lock", &result, lockID)
	if err != nil {
		return nil, translateErr(err)
	}
	c.locks.install(lockID, cb)
	return &result, nil
}

// Steal issues `steal` for lockID. Unlike Lock, it never installs a
// callback — the caller is assumed to already have one armed from a prior
// Lock call (spec.md §3). RFC 7047 §4.1.8 names the method "steal", not
// "lock"; this implementation sends the former.
func (c *Client) Steal(ctx context.Context, lockID string) (*ovsdb.LockResult, error) {
	if !c.active() {
		return nil, ErrInactiveClient
	}
	var result ovsdb.LockResult
	err := c.conn.Client.Call(ctx, "steal", &result, lockID)
	if err != nil {
		return nil, translateErr(err)
	}
	return &result, nil
}

// Unlock issues `unlock` for lockID and, only on success, removes its
// registry entry.
func (c *Client) Unlock(ctx context.Context, lockID string) error {
	if !c.active() {
		return ErrInactiveClient
	}
	err := c.conn.Client.Call(ctx, "unlock", nil, lockID)
	if err != nil {
		return translateErr(err)
	}
	c.locks.remove(lockID)
	return nil
}
