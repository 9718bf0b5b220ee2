//go:build linux

package transport_test

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-echo/internal/transport"
)

func listen(t *testing.T) (int, int) {
	t.Helper()
	fd, err := transport.Listen(0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = transport.Close(fd) })
	port, err := transport.LocalPort(fd)
	require.NoError(t, err)
	require.NotZero(t, port)
	return fd, port
}

// acceptOne polls the non-blocking listener until a connection shows up.
func acceptOne(t *testing.T, lfd int) (int, string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		fd, peer, err := transport.Accept(lfd)
		if err == nil {
			t.Cleanup(func() { _ = transport.Close(fd) })
			return fd, peer
		}
		require.True(t, transport.IsWouldBlock(err), "accept: %v", err)
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no connection accepted")
	return -1, ""
}

func TestListenIsNonBlocking(t *testing.T) {
	fd, _ := listen(t)
	nb, err := transport.IsNonBlocking(fd)
	require.NoError(t, err)
	assert.True(t, nb)

	_, _, err = transport.Accept(fd)
	assert.True(t, transport.IsWouldBlock(err), "empty accept queue should report would-block, got %v", err)
}

func TestListenSamePortTwiceFails(t *testing.T) {
	_, port := listen(t)

	fd, err := transport.Listen(port)
	require.Error(t, err)
	assert.Equal(t, -1, fd)
	assert.ErrorIs(t, err, unix.EADDRINUSE)
}

func TestListenRejectsOutOfRangePort(t *testing.T) {
	_, err := transport.Listen(70000)
	assert.Error(t, err)
	_, err = transport.Listen(-1)
	assert.Error(t, err)
}

func TestSetNonBlockingIdempotent(t *testing.T) {
	lfd, port := listen(t)
	c, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)
	defer c.Close()

	fd, peer := acceptOne(t, lfd)
	assert.Equal(t, c.LocalAddr().String(), peer)

	nb, err := transport.IsNonBlocking(fd)
	require.NoError(t, err)
	assert.False(t, nb, "accepted sockets start blocking")

	require.NoError(t, transport.SetNonBlocking(fd))
	require.NoError(t, transport.SetNonBlocking(fd))
	nb, err = transport.IsNonBlocking(fd)
	require.NoError(t, err)
	assert.True(t, nb)
}

func TestReadWriteRoundTrip(t *testing.T) {
	lfd, port := listen(t)
	c, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)
	defer c.Close()

	fd, _ := acceptOne(t, lfd)
	require.NoError(t, transport.SetNonBlocking(fd))

	buf := make([]byte, 64)
	_, err = transport.Read(fd, buf)
	assert.True(t, transport.IsWouldBlock(err), "nothing sent yet, got %v", err)

	_, err = c.Write([]byte("ping"))
	require.NoError(t, err)

	var n int
	require.Eventually(t, func() bool {
		n, err = transport.Read(fd, buf)
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "ping", string(buf[:n]))

	w, err := transport.Write(fd, buf[:n])
	require.NoError(t, err)
	assert.Equal(t, n, w)

	got := make([]byte, n)
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err = c.Read(got)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(got))

	require.NoError(t, c.Close())
	require.Eventually(t, func() bool {
		n, err = transport.Read(fd, buf)
		return err == nil && n == 0
	}, 2*time.Second, 5*time.Millisecond, "peer close should read as zero bytes")
}

func TestWriteToResetPeerReturnsError(t *testing.T) {
	lfd, port := listen(t)
	c, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	require.NoError(t, err)

	fd, _ := acceptOne(t, lfd)
	require.NoError(t, transport.SetNonBlocking(fd))

	// SO_LINGER 0 makes the close send RST.
	require.NoError(t, c.(*net.TCPConn).SetLinger(0))
	require.NoError(t, c.Close())

	payload := make([]byte, 1024)
	require.Eventually(t, func() bool {
		_, err := transport.Write(fd, payload)
		return err != nil && !transport.IsWouldBlock(err)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWakerBecomesReadable(t *testing.T) {
	fd, err := transport.NewWaker()
	require.NoError(t, err)
	defer transport.Close(fd)

	buf := make([]byte, 8)
	_, err = transport.Read(fd, buf)
	assert.True(t, transport.IsWouldBlock(err))

	require.NoError(t, transport.Wake(fd))
	require.NoError(t, transport.Wake(fd))
	n, err := transport.Read(fd, buf)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}
