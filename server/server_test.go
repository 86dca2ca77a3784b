package server

import (
	"errors"
	"net"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prebid/mediation-adapters/config"
)

func TestNewAdminServer(t *testing.T) {
	testCases := []struct {
		description  string
		admin        config.Admin
		expectedAddr string
	}{
		{
			description:  "host-and-port",
			admin:        config.Admin{Host: "mediation.test", Port: 6060},
			expectedAddr: "mediation.test:6060",
		},
		{
			description:  "all-interfaces",
			admin:        config.Admin{Port: 8080},
			expectedAddr: ":8080",
		},
	}

	for _, test := range testCases {
		cfg := &config.Configuration{Admin: test.admin}
		server := newAdminServer(cfg, http.HandlerFunc(handler))
		assert.Equal(t, test.expectedAddr, server.Addr, test.description)
	}
}

func TestNewListener(t *testing.T) {
	ln, err := newListener("127.0.0.1:0")
	require.NoError(t, err)
	assert.NoError(t, ln.Close())

	_, err = newListener("127.0.0.1:-1")
	assert.Error(t, err)
}

func TestServerShutdown(t *testing.T) {
	server := &http.Server{}
	ln := newMockListener()

	stopper := make(chan os.Signal)
	done := make(chan struct{})
	go shutdownAfterSignals(server, stopper, done)
	go server.Serve(ln)

	stopper <- os.Interrupt
	<-done

	// Not hanging means Shutdown returned and the signal was passed along.
}

func TestWait(t *testing.T) {
	inbound := make(chan os.Signal)
	chan1 := make(chan os.Signal)
	chan2 := make(chan os.Signal)
	done := make(chan struct{})

	go forwardSignal(t, done, chan1)
	go forwardSignal(t, done, chan2)

	go func(chan os.Signal) {
		inbound <- os.Interrupt
	}(inbound)

	wait(inbound, done, chan1, chan2)
}

func handler(w http.ResponseWriter, req *http.Request) {}

// forwardSignal stands in for shutdownAfterSignals when testing wait.
func forwardSignal(t *testing.T, outbound chan<- struct{}, inbound <-chan os.Signal) {
	var s struct{}
	sig := <-inbound
	assert.Equal(t, os.Interrupt, sig)
	outbound <- s
}

// mockListener blocks in Accept until it is closed.
type mockListener struct {
	closeOnce sync.Once
	closed    chan struct{}
}

func newMockListener() *mockListener {
	return &mockListener{closed: make(chan struct{})}
}

func (ln *mockListener) Accept() (net.Conn, error) {
	<-ln.closed
	return nil, errors.New("listener closed")
}

func (ln *mockListener) Close() error {
	ln.closeOnce.Do(func() { close(ln.closed) })
	return nil
}

func (ln *mockListener) Addr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}
