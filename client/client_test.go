package client

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ovsdb-go/duplexdb/ovsdb"
)

// fakeServer drives the server side of a net.Pipe, decoding/encoding raw
// JSON frames the way a real OVSDB server would, so Client tests exercise
// the full dial-free wire path (jsonrpc.Conn, engines, pool) rather than
// mocking anything inside the client package itself.
type fakeServer struct {
	conn net.Conn
	dec  *json.Decoder
	enc  *json.Encoder
	mu   sync.Mutex
}

func newFakeServer(conn net.Conn) *fakeServer {
	return &fakeServer{conn: conn, dec: json.NewDecoder(conn), enc: json.NewEncoder(conn)}
}

func (s *fakeServer) recv(t *testing.T) map[string]interface{} {
	t.Helper()
	var frame map[string]interface{}
	require.NoError(t, s.dec.Decode(&frame))
	return frame
}

func (s *fakeServer) send(t *testing.T, v interface{}) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NoError(t, s.enc.Encode(v))
}

func newTestClient(t *testing.T) (*Client, *fakeServer) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	cfg := defaultConfig()
	cfg.rpcTimeout = 2 * time.Second
	c := newClient(clientConn, cfg)
	c.bindActive()
	t.Cleanup(func() { c.Shutdown() })
	return c, newFakeServer(serverConn)
}

func TestClientListDatabasesSuccess(t *testing.T) {
	c, srv := newTestClient(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		frame := srv.recv(t)
		require.Equal(t, "list_dbs", frame["method"])
		srv.send(t, map[string]interface{}{"id": frame["id"], "result": []string{"Open_vSwitch"}, "error": nil})
	}()

	dbs, err := c.ListDatabases(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Open_vSwitch"}, dbs)
	<-done
}

func TestClientTransactError(t *testing.T) {
	c, srv := newTestClient(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		frame := srv.recv(t)
		require.Equal(t, "transact", frame["method"])
		srv.send(t, map[string]interface{}{"id": frame["id"], "result": nil, "error": "no such database"})
	}()

	_, err := c.Transact(context.Background(), "db", ovsdb.Operation{Op: "select", Table: "Bridge"})
	require.Error(t, err)
	var appErr *RPCApplicationError
	require.ErrorAs(t, err, &appErr)
	<-done
}

type recordingMonitorCallback struct {
	mu      sync.Mutex
	updates []ovsdb.TableUpdates
}

func (r *recordingMonitorCallback) Update(u ovsdb.TableUpdates) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *recordingMonitorCallback) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

func TestClientMonitorInstallAndUpdate(t *testing.T) {
	c, srv := newTestClient(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		frame := srv.recv(t)
		require.Equal(t, "monitor", frame["method"])
		srv.send(t, map[string]interface{}{"id": frame["id"], "result": map[string]interface{}{}, "error": nil})
	}()

	cb := &recordingMonitorCallback{}
	reqs := map[string]ovsdb.MonitorRequest{"Bridge": {Columns: []string{"name"}}}
	_, err := c.Monitor(context.Background(), "Open_vSwitch", "m1", reqs, cb)
	require.NoError(t, err)
	<-done

	srv.send(t, map[string]interface{}{
		"id":     nil,
		"method": "update",
		"params": []interface{}{"m1", map[string]interface{}{
			"Bridge": map[string]interface{}{
				"row0": map[string]interface{}{
					"new": map[string]interface{}{"name": "br0"},
				},
			},
		}},
	})

	require.Eventually(t, func() bool { return cb.count() == 1 }, time.Second, 5*time.Millisecond)

	done2 := make(chan struct{})
	go func() {
		defer close(done2)
		frame := srv.recv(t)
		require.Equal(t, "monitor_cancel", frame["method"])
		srv.send(t, map[string]interface{}{"id": frame["id"], "result": nil, "error": nil})
	}()
	require.NoError(t, c.CancelMonitor(context.Background(), "m1"))
	<-done2

	srv.send(t, map[string]interface{}{
		"id":     nil,
		"method": "update",
		"params": []interface{}{"m1", map[string]interface{}{}},
	})
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 1, cb.count())
}

func TestClientTimeout(t *testing.T) {
	c, srv := newTestClient(t)

	go func() {
		srv.recv(t) // consume the request, never reply
	}()

	ctx := context.Background()
	_, err := c.GetSchema(ctx, "Open_vSwitch")
	require.ErrorIs(t, err, ErrRPCTimeout)
}

func TestClientShutdownCancelsInFlight(t *testing.T) {
	c, srv := newTestClient(t)

	go func() {
		srv.recv(t)
		srv.recv(t)
	}()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := c.ListDatabases(context.Background())
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := c.GetSchema(context.Background(), "Open_vSwitch")
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)
	c.Shutdown()
	wg.Wait()
	close(errs)
	for err := range errs {
		require.ErrorIs(t, err, ErrRPCShutdown)
	}

	_, err := c.ListDatabases(context.Background())
	require.ErrorIs(t, err, ErrInactiveClient)
}

func TestClientEchoRoundtrip(t *testing.T) {
	c, srv := newTestClient(t)
	_ = c

	srv.send(t, map[string]interface{}{"id": "x", "method": "echo", "params": []interface{}{1, "two"}})
	frame := srv.recv(t)
	require.Equal(t, "x", frame["id"])
	require.Equal(t, []interface{}{float64(1), "two"}, frame["result"])
}
