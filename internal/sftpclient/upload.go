// Package sftpclient delivers generated files to an SFTP drop directory.
package sftpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"ifrc-sync/internal/config"
)

var (
	ErrMissingCredentials = errors.New("sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS")
	ErrNoHostKeyPolicy    = errors.New("sftp: set SFTP_KNOWN_HOSTS or SFTP_INSECURE_IGNORE_HOSTKEY")
)

const dialTimeout = 20 * time.Second

func hostKeyCallback(cfg config.SFTP) (ssh.HostKeyCallback, error) {
	if cfg.KnownHosts != "" {
		cb, err := knownhosts.New(cfg.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("sftp: known_hosts: %w", err)
		}
		return cb, nil
	}
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	return nil, ErrNoHostKeyPolicy
}

func dial(ctx context.Context, cfg config.SFTP) (*ssh.Client, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	cb, err := hostKeyCallback(cfg)
	if err != nil {
		return nil, err
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Pass)},
		HostKeyCallback: cb,
		Timeout:         dialTimeout,
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("sftp: dial error: %w", r.err)
		}
		return r.client, nil
	}
}

// Upload copies every local file into cfg.Dir over one connection, keeping base names.
func Upload(ctx context.Context, cfg config.SFTP, localPaths []string) error {
	if len(localPaths) == 0 {
		return nil
	}
	sshClient, err := dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer sshClient.Close()

	cli, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("sftp: new client: %w", err)
	}
	defer cli.Close()

	dir := cfg.Dir
	if dir == "" {
		dir = "/"
	}
	if err := cli.MkdirAll(dir); err != nil {
		return fmt.Errorf("sftp: mkdir %s: %w", dir, err)
	}

	for _, p := range localPaths {
		if err := ctx.Err(); err != nil {
			return err
		}
		remote := path.Join(dir, filepath.Base(p))
		if err := copyFile(cli, p, remote); err != nil {
			return err
		}
		slog.Debug("uploaded", "file", p, "remote", remote)
	}
	slog.Info("sftp upload done", "files", len(localPaths), "dir", dir)
	return nil
}

func copyFile(cli *sftp.Client, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("sftp: open local file: %w", err)
	}
	defer src.Close()

	dst, err := cli.Create(remotePath)
	if err != nil {
		return fmt.Errorf("sftp: create remote file %s: %w", remotePath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("sftp: upload copy %s: %w", remotePath, err)
	}
	return dst.Close()
}
