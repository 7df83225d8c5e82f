// Package remote implements the SFTP side of RomFerry: connecting to the
// server, listing platforms, walking directory trees and opening files
// for download.
package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/net/proxy"

	"github.com/romferry/romferry/internal/config"
	"github.com/romferry/romferry/internal/constants"
	"github.com/romferry/romferry/internal/logging"
)

// PreferredCiphers orders cipher negotiation toward AEAD ciphers, which
// give markedly better throughput on the small ARM boxes these servers
// usually run on.
var PreferredCiphers = []string{
	"chacha20-poly1305@openssh.com",
	"aes128-gcm@openssh.com",
	"aes256-gcm@openssh.com",
	"aes128-ctr",
	"aes256-ctr",
}

// negotiationCiphers returns the full cipher list offered to the server:
// the preferred set first, then the remaining default so a server
// supporting none of the preferred ones still connects.
func negotiationCiphers() []string {
	out := make([]string, 0, len(PreferredCiphers)+1)
	out = append(out, PreferredCiphers...)
	return append(out, "aes192-ctr")
}

// Client is one authenticated SFTP session. Exactly one transfer uses it
// at a time; the batch orchestrator serializes access.
type Client struct {
	logger *logging.Logger
	conn   *ssh.Client
	sftp   *sftp.Client

	mu     sync.Mutex
	closed bool
}

// Connect dials the endpoint and opens an SFTP session over it. A
// non-empty proxyAddr routes the TCP connection through a SOCKS5 proxy
// at that address. All failures come back as *ConnectionError.
func Connect(ep *config.Endpoint, proxyAddr string, logger *logging.Logger) (*Client, error) {
	cfg := &ssh.ClientConfig{
		Config: ssh.Config{
			Ciphers: negotiationCiphers(),
		},
		User: ep.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(ep.Password),
		},
		// Host keys are not pinned: the target is a handheld on the
		// local network whose key changes with every reflash.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         constants.ConnectTimeout,
	}

	conn, err := dialSSH(ep.Addr(), proxyAddr, cfg)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	// Larger packets and concurrent read requests keep the wire busy on
	// high-latency links; servers that cannot keep up simply answer one
	// request at a time.
	opts := []sftp.ClientOption{
		sftp.MaxPacketUnchecked(constants.SFTPMaxPacket),
		sftp.MaxConcurrentRequestsPerFile(constants.SFTPConcurrentRequests),
		sftp.UseConcurrentReads(true),
	}

	sc, err := sftp.NewClient(conn, opts...)
	if err != nil {
		conn.Close()
		return nil, &ConnectionError{Err: err}
	}

	logger.Info().Str("endpoint", ep.Redacted()).Msg("SFTP session established")

	return &Client{
		logger: logger,
		conn:   conn,
		sftp:   sc,
	}, nil
}

// dialSSH opens the SSH transport, directly or through a SOCKS5 proxy.
// ssh.Dial cannot take a foreign net.Conn, so the proxy path builds the
// client connection by hand.
func dialSSH(addr, proxyAddr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	if proxyAddr == "" {
		return ssh.Dial("tcp", addr, cfg)
	}

	dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy %s: %w", proxyAddr, err)
	}

	var netConn net.Conn
	netConn, err = dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("socks5 proxy %s: %w", proxyAddr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, cfg)
	if err != nil {
		netConn.Close()
		return nil, err
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

// Platforms lists the immediate subdirectories of root. Directory-ness
// comes from the entry's type bits, never from name heuristics, and
// symlinks carry their own mode so they are excluded naturally.
func (c *Client) Platforms(root string) ([]string, error) {
	entries, err := c.sftp.ReadDir(root)
	if err != nil {
		return nil, &ListError{Path: root, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Stat returns file metadata for a remote path.
func (c *Client) Stat(path string) (os.FileInfo, error) {
	return c.sftp.Stat(path)
}

// Open opens a remote file for reading.
func (c *Client) Open(path string) (io.ReadCloser, error) {
	return c.sftp.Open(path)
}

// ReadDir lists a remote directory. Satisfies Lister.
func (c *Client) ReadDir(path string) ([]os.FileInfo, error) {
	return c.sftp.ReadDir(path)
}

// Search walks baseDir collecting files whose names contain the query.
// See the package-level Search for the exact matching rules.
func (c *Client) Search(ctx context.Context, baseDir, query string, limit int, onError func(path string, err error)) []string {
	return Search(ctx, c.sftp, baseDir, query, limit, onError)
}

// Close tears down the SFTP session and the SSH transport under it.
// Safe to call multiple times from any exit path; close failures are
// logged and swallowed because there is nothing useful a caller can do
// with them.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if c.sftp != nil {
		if err := c.sftp.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("sftp session close")
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("ssh transport close")
		}
	}
	c.logger.Debug().Msg("SFTP session closed")
}
